package counsel

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/sagaforge/counsel/internal/advisor/option"
	"github.com/sagaforge/counsel/internal/storage"
	storagesqlite "github.com/sagaforge/counsel/internal/storage/sqlite"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestParseConfig(t *testing.T) {
	tcs := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{name: "actor required", args: []string{"-pool", "pool.json"}, wantErr: true},
		{name: "pool required", args: []string{"-actor", "actor.json"}, wantErr: true},
		{name: "minimal", args: []string{"-actor", "actor.json", "-pool", "pool.json"}},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			_, err := ParseConfig(fs, tc.args)
			if tc.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("ParseConfig: %v", err)
			}
		})
	}
}

func TestParseBiasWeights(t *testing.T) {
	tcs := []struct {
		name    string
		raw     string
		want    map[option.BiasKind]float64
		wantErr bool
	}{
		{name: "empty", raw: "", want: nil},
		{
			name: "pairs",
			raw:  "melee=1,tech=0.5",
			want: map[option.BiasKind]float64{option.BiasMelee: 1, option.BiasTech: 0.5},
		},
		{name: "missing separator", raw: "melee", wantErr: true},
		{name: "bad number", raw: "melee=heavy", wantErr: true},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseBiasWeights(tc.raw)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseBiasWeights: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("weights = %v, want %v", got, tc.want)
			}
			for kind, weight := range tc.want {
				if got[kind] != weight {
					t.Errorf("weight[%s] = %v, want %v", kind, got[kind], weight)
				}
			}
		})
	}
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()

	dbPath := filepath.Join(dir, "content.db")
	store, err := storagesqlite.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	ctx := context.Background()
	if err := store.PutArchetype(ctx, storage.ArchetypeRecord{
		ID:        "arch_duelist",
		Name:      "Duelist",
		BaseClass: "soldier",
		PrestigeTargets: []storage.PrestigeTargetRecord{
			{ClassID: "cls_blademaster", RequiredOptionIDs: []string{"feat_finesse"}},
		},
	}); err != nil {
		t.Fatalf("put archetype: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	actorPath := writeFile(t, dir, "actor.json", `{
		"abilities": {"dexterity": {"score": 15, "mod": 2}},
		"trained_skills": ["acrobatics"],
		"class_levels": {"soldier": 3},
		"base_attack_bonus": 3
	}`)
	poolPath := writeFile(t, dir, "pool.json", `[
		{"id": "feat_finesse", "name": "Weapon Finesse", "kind": "feat"},
		{"id": "feat_basic", "name": "Endurance", "kind": "feat"}
	]`)

	cfg := Config{
		DBPath:      dbPath,
		ActorPath:   actorPath,
		PoolPath:    poolPath,
		ArchetypeID: "arch_duelist",
		MentorID:    "veteran",
	}

	var out bytes.Buffer
	if err := Run(ctx, cfg, &out); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var results []suggestionPayload
	if err := json.Unmarshal(out.Bytes(), &results); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].SourceID != "feat_finesse" || results[0].Tier != 6 {
		t.Errorf("first result = %+v, want feat_finesse at tier 6", results[0])
	}
	if results[0].Explanation == "" || len(results[0].Atoms) == 0 {
		t.Errorf("first result missing explanation: %+v", results[0])
	}
	if results[1].SourceID != "feat_basic" {
		t.Errorf("second result = %+v, want feat_basic", results[1])
	}
}

func TestRunMergesStoreGrants(t *testing.T) {
	dir := t.TempDir()

	dbPath := filepath.Join(dir, "content.db")
	store, err := storagesqlite.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	ctx := context.Background()
	if err := store.PutHouseruleGrant(ctx, storage.GrantRecord{
		OptionID: "feat_power_attack",
		Note:     "campaign handout",
	}); err != nil {
		t.Fatalf("put grant: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	actorPath := writeFile(t, dir, "actor.json", `{
		"abilities": {"strength": {"score": 14, "mod": 2}},
		"class_levels": {"soldier": 2},
		"base_attack_bonus": 2
	}`)
	poolPath := writeFile(t, dir, "pool.json", `[
		{
			"id": "feat_cleave",
			"name": "Cleave",
			"kind": "feat",
			"prerequisites": [{"kind": "feat", "id": "feat_power_attack"}]
		}
	]`)

	cfg := Config{
		DBPath:    dbPath,
		ActorPath: actorPath,
		PoolPath:  poolPath,
		MentorID:  "veteran",
	}

	var out bytes.Buffer
	if err := Run(ctx, cfg, &out); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var results []suggestionPayload
	if err := json.Unmarshal(out.Bytes(), &results); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0].SourceID != "feat_cleave" {
		t.Errorf("result = %+v, want feat_cleave admitted via store grant", results[0])
	}
}
