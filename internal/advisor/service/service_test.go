package service

import (
	"context"
	"reflect"
	"testing"

	"github.com/sagaforge/counsel/internal/advisor/mentor"
	"github.com/sagaforge/counsel/internal/advisor/option"
	"github.com/sagaforge/counsel/internal/advisor/prereq"
	"github.com/sagaforge/counsel/internal/advisor/registry"
	"github.com/sagaforge/counsel/internal/advisor/tier"
	"github.com/sagaforge/counsel/internal/storage"
	"github.com/sagaforge/counsel/internal/telemetry"
	"github.com/sagaforge/counsel/internal/testkit/advisorfakes"
)

func discardWarn(string, map[string]string) {}

func newTestAdvisor(t *testing.T, store *advisorfakes.ContentStore, sink *advisorfakes.TelemetrySink) *Advisor {
	t.Helper()
	ctx := context.Background()

	archReg := registry.NewArchetypeRegistry(discardWarn)
	if err := archReg.Initialize(ctx, store); err != nil {
		t.Fatalf("initialize archetypes: %v", err)
	}
	treeAuth := registry.NewTalentTreeAuthority(discardWarn)
	if err := treeAuth.Initialize(ctx, store); err != nil {
		t.Fatalf("initialize trees: %v", err)
	}

	checker := prereq.NewChecker(discardWarn)
	engine := tier.New(archReg, treeAuth, checker)
	judge, err := mentor.NewJudge()
	if err != nil {
		t.Fatalf("new judge: %v", err)
	}

	var emitter *telemetry.Emitter
	if sink != nil {
		emitter = telemetry.NewEmitter(sink)
	}

	advisor := New(engine, checker, judge, emitter)
	if err := advisor.LoadMentors(ctx, store); err != nil {
		t.Fatalf("load mentors: %v", err)
	}
	return advisor
}

func TestEvaluatePoolOrdering(t *testing.T) {
	store := advisorfakes.NewContentStore()
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

	advisor := newTestAdvisor(t, store, nil)

	pool := []option.CandidateOption{
		{ID: "feat_b", Name: "Toughness B"},
		{ID: "feat_a", Name: "Toughness A"},
		{ID: "feat_wish", Name: "Cleave"},
		{ID: "feat_finesse", Name: "Weapon Finesse"},
	}
	intent := option.BuildIntent{
		ArchetypeID: "arch_duelist",
		Wishlist:    []string{"feat_wish"},
	}

	got, err := advisor.EvaluatePool(ctx, &advisorfakes.ActorState{}, pool, intent, "veteran")
	if err != nil {
		t.Fatalf("EvaluatePool: %v", err)
	}

	var order []string
	for _, suggestion := range got {
		order = append(order, suggestion.SourceID)
	}
	want := []string{"feat_finesse", "feat_wish", "feat_a", "feat_b"}
	if !reflect.DeepEqual(order, want) {
		t.Fatalf("order = %v, want %v", order, want)
	}

	for _, suggestion := range got {
		if suggestion.Explanation == "" {
			t.Errorf("suggestion %s has no explanation", suggestion.SourceID)
		}
		if len(suggestion.Atoms) == 0 {
			t.Errorf("suggestion %s has no atoms", suggestion.SourceID)
		}
	}
}

func TestEvaluatePoolExcludesUnmet(t *testing.T) {
	store := advisorfakes.NewContentStore()
	advisor := newTestAdvisor(t, store, nil)

	pool := []option.CandidateOption{
		{ID: "feat_basic", Name: "Endurance"},
		{
			ID:   "feat_gated",
			Name: "Whirlwind",
			Prerequisites: []option.Requirement{
				{Kind: option.RequireLevel, Min: 5},
			},
		},
	}

	got, err := advisor.EvaluatePool(context.Background(), &advisorfakes.ActorState{}, pool, option.BuildIntent{}, "")
	if err != nil {
		t.Fatalf("EvaluatePool: %v", err)
	}
	if len(got) != 1 || got[0].SourceID != "feat_basic" {
		t.Fatalf("suggestions = %+v, want only feat_basic", got)
	}
}

func TestEvaluatePoolEmitsTelemetry(t *testing.T) {
	store := advisorfakes.NewContentStore()
	sink := &advisorfakes.TelemetrySink{}
	advisor := newTestAdvisor(t, store, sink)

	pool := []option.CandidateOption{{ID: "feat_basic", Name: "Endurance"}}
	if _, err := advisor.EvaluatePool(context.Background(), &advisorfakes.ActorState{}, pool, option.BuildIntent{}, ""); err != nil {
		t.Fatalf("EvaluatePool: %v", err)
	}

	if len(sink.Events) != 1 {
		t.Fatalf("events = %d, want 1", len(sink.Events))
	}
	evt := sink.Events[0]
	if evt.Event != "advisor.pool_evaluated" {
		t.Errorf("event = %q, want advisor.pool_evaluated", evt.Event)
	}
	if evt.Attributes["pool_size"] != "1" || evt.Attributes["suggestions"] != "1" {
		t.Errorf("attributes = %v", evt.Attributes)
	}
}

func TestEvaluatePoolNilAccessor(t *testing.T) {
	store := advisorfakes.NewContentStore()
	advisor := newTestAdvisor(t, store, nil)

	if _, err := advisor.EvaluatePool(context.Background(), nil, nil, option.BuildIntent{}, ""); err == nil {
		t.Fatal("expected error for nil accessor")
	}
}

func TestEvaluatePoolMentorLocale(t *testing.T) {
	store := advisorfakes.NewContentStore()
	ctx := context.Background()
	if err := store.PutMentor(ctx, storage.MentorRecord{
		ID:            "sage",
		Name:          "The Sage",
		Voice:         "measured",
		DefaultLocale: "pt-BR",
	}); err != nil {
		t.Fatalf("put mentor: %v", err)
	}
	advisor := newTestAdvisor(t, store, nil)

	// A fallback pick with mid conviction selects the open_path atom; the
	// sage catalog has no pt-BR entries, so the pt-BR neutral catalog and
	// then the base locale are consulted in order.
	pool := []option.CandidateOption{{ID: "feat_basic", Name: "Endurance"}}
	got, err := advisor.EvaluatePool(ctx, &advisorfakes.ActorState{}, pool, option.BuildIntent{}, "sage")
	if err != nil {
		t.Fatalf("EvaluatePool: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("suggestions = %d, want 1", len(got))
	}
	want := "Pouca coisa recomenda esta escolha agora."
	if got[0].Explanation != want {
		t.Errorf("Explanation = %q, want %q", got[0].Explanation, want)
	}
}

func TestExplainUnmet(t *testing.T) {
	store := advisorfakes.NewContentStore()
	advisor := newTestAdvisor(t, store, nil)

	unmet := prereq.Result{Met: false, Missing: []string{"level 5 required"}}
	got := advisor.ExplainUnmet(unmet, "veteran")
	want := "Your current training does not cover this yet."
	if got != want {
		t.Errorf("ExplainUnmet = %q, want %q", got, want)
	}

	if msg := advisor.ExplainUnmet(prereq.Result{Met: true}, "veteran"); msg != "" {
		t.Errorf("ExplainUnmet for met result = %q, want empty", msg)
	}
}

func TestEvaluatePoolDeterministic(t *testing.T) {
	store := advisorfakes.NewContentStore()
	advisor := newTestAdvisor(t, store, nil)

	pool := []option.CandidateOption{
		{ID: "feat_b", Name: "Toughness B"},
		{ID: "feat_a", Name: "Toughness A", Tags: []string{"tech"}},
	}
	intent := option.BuildIntent{BiasWeights: map[option.BiasKind]float64{option.BiasTech: 1}}
	actor := &advisorfakes.ActorState{}

	first, err := advisor.EvaluatePool(context.Background(), actor, pool, intent, "veteran")
	if err != nil {
		t.Fatalf("EvaluatePool: %v", err)
	}
	for i := 0; i < 3; i++ {
		next, err := advisor.EvaluatePool(context.Background(), actor, pool, intent, "veteran")
		if err != nil {
			t.Fatalf("EvaluatePool: %v", err)
		}
		if !reflect.DeepEqual(first, next) {
			t.Fatalf("evaluation %d differed", i)
		}
	}
}
