// Package service composes the advisory pipeline: snapshot, tier
// evaluation, atom selection, and mentor-voiced explanations for a whole
// candidate pool.
package service

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sagaforge/counsel/internal/advisor/mentor"
	"github.com/sagaforge/counsel/internal/advisor/option"
	"github.com/sagaforge/counsel/internal/advisor/prereq"
	"github.com/sagaforge/counsel/internal/advisor/registry"
	"github.com/sagaforge/counsel/internal/advisor/snapshot"
	"github.com/sagaforge/counsel/internal/advisor/tier"
	"github.com/sagaforge/counsel/internal/storage"
	"github.com/sagaforge/counsel/internal/telemetry"
)

const tracerName = "github.com/sagaforge/counsel/internal/advisor/service"

// Suggestion is one fully explained advisory result.
type Suggestion struct {
	tier.Suggestion
	Atoms       []mentor.Atom
	Intensity   mentor.Intensity
	Explanation string
}

// Advisor evaluates candidate pools end to end.
type Advisor struct {
	engine  *tier.Engine
	checker *prereq.Checker
	judge   *mentor.Judge
	emitter *telemetry.Emitter
	tracer  trace.Tracer

	// mentor id -> default locale, loaded once with the registries.
	mentorLocales map[string]string
}

// New creates an Advisor. The emitter may be nil, in which case telemetry
// is dropped.
func New(engine *tier.Engine, checker *prereq.Checker, judge *mentor.Judge, emitter *telemetry.Emitter) *Advisor {
	return &Advisor{
		engine:        engine,
		checker:       checker,
		judge:         judge,
		emitter:       emitter,
		tracer:        otel.Tracer(tracerName),
		mentorLocales: map[string]string{},
	}
}

// LoadMentors caches mentor default locales from the content store. It is
// optional; without it every explanation renders in the base locale.
func (a *Advisor) LoadMentors(ctx context.Context, store storage.ContentReadStore) error {
	if store == nil {
		return registry.ErrNilStore
	}
	records, err := store.ListMentors(ctx)
	if err != nil {
		return err
	}
	locales := make(map[string]string, len(records))
	for _, record := range records {
		id := strings.TrimSpace(record.ID)
		if id == "" {
			continue
		}
		locales[id] = strings.TrimSpace(record.DefaultLocale)
	}
	a.mentorLocales = locales
	return nil
}

// EvaluatePool scores and explains every candidate in the pool.
//
// The snapshot is built once and shared across candidates. Results are
// ordered by tier descending, confidence descending, then source id, so the
// ordering is stable for identical inputs. Candidates whose prerequisites
// are not met are excluded.
func (a *Advisor) EvaluatePool(ctx context.Context, accessor snapshot.Accessor, pool []option.CandidateOption, intent option.BuildIntent, mentorID string) ([]Suggestion, error) {
	ctx, span := a.tracer.Start(ctx, "advisor.EvaluatePool", trace.WithAttributes(
		attribute.Int("advisor.pool_size", len(pool)),
		attribute.String("advisor.archetype_id", intent.ArchetypeID),
		attribute.String("advisor.mentor_id", mentorID),
	))
	defer span.End()

	snap, err := snapshot.Build(accessor)
	if err != nil {
		a.emit(ctx, telemetry.SeverityError, "advisor.snapshot_failed", map[string]string{
			"error": err.Error(),
		})
		return nil, err
	}

	locale := a.localeFor(mentorID)

	suggestions := make([]Suggestion, 0, len(pool))
	skipped := 0
	for _, candidate := range pool {
		result := a.checker.Check(candidate.Prerequisites, snap)
		if !result.Met {
			skipped++
			continue
		}

		scored := a.engine.Evaluate(candidate, snap, intent)
		selection := mentor.Select(scored.Signals)
		suggestions = append(suggestions, Suggestion{
			Suggestion:  scored,
			Atoms:       selection.Atoms,
			Intensity:   selection.Intensity,
			Explanation: a.judge.Explain(locale, selection.Atoms, mentorID, selection.Intensity),
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Tier != suggestions[j].Tier {
			return suggestions[i].Tier > suggestions[j].Tier
		}
		if suggestions[i].Confidence != suggestions[j].Confidence {
			return suggestions[i].Confidence > suggestions[j].Confidence
		}
		return suggestions[i].SourceID < suggestions[j].SourceID
	})

	span.SetAttributes(
		attribute.Int("advisor.suggestions", len(suggestions)),
		attribute.Int("advisor.skipped", skipped),
	)
	a.emit(ctx, telemetry.SeverityInfo, "advisor.pool_evaluated", map[string]string{
		"pool_size":   strconv.Itoa(len(pool)),
		"suggestions": strconv.Itoa(len(suggestions)),
		"skipped":     strconv.Itoa(skipped),
	})

	return suggestions, nil
}

// ExplainUnmet renders a mentor-voiced explanation for a candidate whose
// prerequisites are not met. It never errors; with no missing requirements
// it returns an empty string.
func (a *Advisor) ExplainUnmet(result prereq.Result, mentorID string) string {
	if result.Met {
		return ""
	}
	locale := a.localeFor(mentorID)
	return a.judge.Explain(locale, []mentor.Atom{mentor.AtomReadinessLacking}, mentorID, mentor.IntensityMedium)
}

func (a *Advisor) localeFor(mentorID string) string {
	if locale := a.mentorLocales[strings.TrimSpace(mentorID)]; locale != "" {
		return locale
	}
	return mentor.BaseLocale
}

func (a *Advisor) emit(ctx context.Context, severity telemetry.Severity, event string, attributes map[string]string) {
	if a.emitter == nil {
		return
	}
	// Telemetry is advisory; a failed write never fails the evaluation.
	_ = a.emitter.Emit(ctx, severity, event, attributes)
}
