package importer

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/sagaforge/counsel/internal/errors"
	storagesqlite "github.com/sagaforge/counsel/internal/storage/sqlite"
)

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestParseConfig(t *testing.T) {
	tcs := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{name: "dir required", args: nil, wantErr: true},
		{name: "dir provided", args: []string{"-dir", "content"}},
		{name: "all flags", args: []string{"-dir", "content", "-db-path", "x.db", "-dry-run"}},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			cfg, err := ParseConfig(fs, tc.args)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseConfig: %v", err)
			}
			if cfg.Dir != "content" {
				t.Errorf("Dir = %q, want content", cfg.Dir)
			}
		})
	}
}

func TestRunImportsDocuments(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "archetypes.json", `[
		{"id": "arch_duelist", "name": "Duelist", "base_class": "soldier",
		 "roles": ["striker"],
		 "prestige_targets": [{"class_id": "cls_blademaster", "required_option_ids": ["feat_finesse"]}],
		 "recommended_feats": ["feat_finesse"],
		 "kind_weights": {"talent": 1.5}}
	]`)
	writeDoc(t, dir, "talent_trees.json", `[
		{"id": "tree_duelist", "name": "Duelist", "excludes": ["tree_berserker"]}
	]`)
	writeDoc(t, dir, "mentors.json", `[
		{"id": "veteran", "name": "The Veteran", "voice": "gruff", "default_locale": "en-US"}
	]`)
	writeDoc(t, dir, "grants.json", `[
		{"option_id": "feat_finesse", "note": "table ruling 2026-02-11"}
	]`)

	dbPath := filepath.Join(t.TempDir(), "content.db")
	var out bytes.Buffer
	cfg := Config{Dir: dir, DBPath: dbPath}
	if err := Run(context.Background(), cfg, &out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "imported 1 archetype(s), 1 talent tree(s), 1 mentor(s), 1 grant(s)") {
		t.Errorf("output = %q", out.String())
	}

	store, err := storagesqlite.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	archetypes, err := store.ListArchetypes(ctx)
	if err != nil {
		t.Fatalf("list archetypes: %v", err)
	}
	if len(archetypes) != 1 || archetypes[0].ID != "arch_duelist" {
		t.Fatalf("archetypes = %+v", archetypes)
	}
	if len(archetypes[0].PrestigeTargets) != 1 || archetypes[0].PrestigeTargets[0].ClassID != "cls_blademaster" {
		t.Errorf("prestige targets = %+v", archetypes[0].PrestigeTargets)
	}
	if archetypes[0].KindWeights["talent"] != 1.5 {
		t.Errorf("kind weights = %v", archetypes[0].KindWeights)
	}

	trees, err := store.ListTalentTrees(ctx)
	if err != nil {
		t.Fatalf("list talent trees: %v", err)
	}
	if len(trees) != 1 || trees[0].ID != "tree_duelist" {
		t.Fatalf("trees = %+v", trees)
	}

	grants, err := store.ListHouseruleGrants(ctx)
	if err != nil {
		t.Fatalf("list grants: %v", err)
	}
	if len(grants) != 1 || grants[0].OptionID != "feat_finesse" {
		t.Fatalf("grants = %+v", grants)
	}
}

func TestRunDryRun(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "mentors.json", `[{"id": "sage", "name": "The Sage"}]`)

	dbPath := filepath.Join(t.TempDir(), "content.db")
	var out bytes.Buffer
	cfg := Config{Dir: dir, DBPath: dbPath, DryRun: true}
	if err := Run(context.Background(), cfg, &out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "validated 1 record(s)") {
		t.Errorf("output = %q", out.String())
	}
	if _, err := os.Stat(dbPath); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("dry run created database: %v", err)
	}
}

func TestRunRejectsInvalidDocument(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "archetypes.json", `[{"id": "", "name": "Nameless"}]`)

	err := Run(context.Background(), Config{Dir: dir, DBPath: "unused.db", DryRun: true}, nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeImportInvalidDocument {
		t.Fatalf("error = %v, want IMPORT_INVALID_DOCUMENT", err)
	}
	if appErr.Metadata["document"] != "archetypes" {
		t.Errorf("metadata = %v", appErr.Metadata)
	}
}

func TestRunRejectsMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "mentors.json", `{"not": "an array"`)

	err := Run(context.Background(), Config{Dir: dir, DBPath: "unused.db", DryRun: true}, nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeImportInvalidDocument {
		t.Fatalf("error = %v, want IMPORT_INVALID_DOCUMENT", err)
	}
	if appErr.Unwrap() == nil {
		t.Error("expected wrapped JSON parse error")
	}
}

func TestRunRequiresDocuments(t *testing.T) {
	err := Run(context.Background(), Config{Dir: t.TempDir(), DBPath: "unused.db"}, nil)
	if err == nil || !strings.Contains(err.Error(), "no content documents") {
		t.Fatalf("error = %v, want no content documents", err)
	}
}
