// Package tier assigns each candidate option a priority tier and a
// confidence score by walking a fixed, ordered table of reason-code
// evaluators.
//
// Tier dominates confidence: confidence only reorders candidates within a
// tier and an archetype alignment bonus can never promote one. Evaluation
// is deterministic for identical inputs.
package tier

import (
	"math"
	"sort"

	"github.com/sagaforge/counsel/internal/advisor/option"
	"github.com/sagaforge/counsel/internal/advisor/prereq"
	"github.com/sagaforge/counsel/internal/advisor/reason"
	"github.com/sagaforge/counsel/internal/advisor/registry"
	"github.com/sagaforge/counsel/internal/advisor/snapshot"
)

// ConfidenceCap bounds the final confidence of any suggestion.
const ConfidenceCap = 0.95

// Tier bounds. Half-step tiers are allowed between them.
const (
	TierMin = 0.0
	TierMax = 6.0
)

// tierByReason fixes the tier assigned to each winning reason code.
var tierByReason = map[reason.Code]float64{
	reason.CodePrestigePrerequisite: 6,
	reason.CodeWishlistPath:         5,
	reason.CodeChainContinuation:    4.5,
	reason.CodeMentorBiasMatch:      4,
	reason.CodePrerequisiteMatch:    3,
	reason.CodeClassSynergy:         2,
	reason.CodeFallback:             0,
}

// confidenceByTier fixes the base confidence for each defined tier key.
var confidenceByTier = map[float64]float64{
	0: 0.20,
	1: 0.30,
	2: 0.40,
	3: 0.50,
	4: 0.60,
	5: 0.70,
	6: 0.75,
}

// nearestTierKey snaps a tier to the nearest defined confidence key by
// absolute distance. Equidistant tiers snap upward.
func nearestTierKey(tier float64) float64 {
	keys := make([]float64, 0, len(confidenceByTier))
	for key := range confidenceByTier {
		keys = append(keys, key)
	}
	sort.Float64s(keys)

	best := keys[0]
	bestDistance := math.Abs(tier - best)
	for _, key := range keys[1:] {
		distance := math.Abs(tier - key)
		if distance < bestDistance || (distance == bestDistance && key > best) {
			best = key
			bestDistance = distance
		}
	}
	return best
}

func baseConfidence(tier float64) float64 {
	if confidence, ok := confidenceByTier[tier]; ok {
		return confidence
	}
	return confidenceByTier[nearestTierKey(tier)]
}

// Suggestion is the advisory output for one candidate option.
type Suggestion struct {
	Tier       float64
	Confidence float64
	ReasonCode reason.Code
	SourceID   string
	Signals    reason.Signals
	Alignment  *registry.Alignment
}

// Engine scores candidate options against an actor snapshot.
type Engine struct {
	archetypes *registry.ArchetypeRegistry
	trees      *registry.TalentTreeAuthority
	checker    *prereq.Checker
}

// New creates an Engine over the given registries and prerequisite checker.
func New(archetypes *registry.ArchetypeRegistry, trees *registry.TalentTreeAuthority, checker *prereq.Checker) *Engine {
	return &Engine{archetypes: archetypes, trees: trees, checker: checker}
}

type evalContext struct {
	candidate    option.CandidateOption
	snap         snapshot.Snapshot
	intent       option.BuildIntent
	archetype    registry.Archetype
	hasArchetype bool
	facts        reason.Context
}

// Evaluate assigns a tier, confidence, reason code, and reason signals for
// one candidate. The first matching evaluator wins; the archetype alignment
// bonus is applied afterwards and only affects confidence.
func (e *Engine) Evaluate(candidate option.CandidateOption, snap snapshot.Snapshot, intent option.BuildIntent) Suggestion {
	ctx := &evalContext{candidate: candidate, snap: snap, intent: intent}
	if intent.ArchetypeID != "" {
		ctx.archetype, ctx.hasArchetype = e.archetypes.Get(intent.ArchetypeID)
	}

	code := reason.CodeFallback
	for _, entry := range evaluators {
		if entry.match(e, ctx) {
			code = entry.code
			break
		}
	}

	tierValue := tierByReason[code]
	confidence := baseConfidence(tierValue)

	alignment := e.archetypes.AlignmentFor(intent.ArchetypeID, candidate.ID, candidate.Slug, candidate.Name)
	ctx.facts.Deviation = e.deviates(ctx, alignment, code)

	confidence += alignment.Bonus
	if confidence > ConfidenceCap {
		confidence = ConfidenceCap
	}

	suggestion := Suggestion{
		Tier:       tierValue,
		Confidence: confidence,
		ReasonCode: code,
		SourceID:   candidate.ID,
		Signals:    reason.Build(code, ctx.facts),
	}
	if alignment.Bonus > 0 {
		suggestion.Alignment = &alignment
	}
	return suggestion
}

// deviates reports whether picking this candidate cuts against the actor's
// declared direction: either it belongs to a tree excluded by one the actor
// is already invested in, or an archetype is set and the candidate neither
// aligns with its recommendations nor shares any of its role tags while
// only matching a weak evaluator.
func (e *Engine) deviates(ctx *evalContext, alignment registry.Alignment, code reason.Code) bool {
	if treeID := ctx.candidate.TreeID; treeID != "" {
		for _, excluded := range e.trees.Exclusions(treeID) {
			if ctx.snap.OwnsTreeTalent(excluded) {
				return true
			}
		}
	}

	if !ctx.hasArchetype {
		return false
	}
	if code != reason.CodeMentorBiasMatch && code != reason.CodeFallback {
		return false
	}
	if alignment.Bonus > 0 {
		return false
	}
	for _, tag := range ctx.candidate.Tags {
		if ctx.archetype.HasRole(tag) {
			return false
		}
	}
	return true
}
