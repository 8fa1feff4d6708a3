// Package reason defines the reason codes assigned during tier evaluation
// and the textless fact signals derived from them.
//
// Signals isolate the "why" facts from "how to say it": the mentor phrase
// layer consumes signals without ever reading actor data, so either side can
// evolve independently.
package reason

import (
	"fmt"

	"github.com/sagaforge/counsel/internal/advisor/option"
)

// Code identifies the winning evaluator for a suggestion.
type Code string

const (
	CodePrestigePrerequisite Code = "prestige_prerequisite"
	CodeWishlistPath         Code = "wishlist_path"
	CodeChainContinuation    Code = "chain_continuation"
	CodeMentorBiasMatch      Code = "mentor_bias_match"
	CodePrerequisiteMatch    Code = "prerequisite_match"
	CodeClassSynergy         Code = "class_synergy"
	CodeFallback             Code = "legal_option"
)

// Category is the broad alignment category behind a suggestion.
type Category string

const (
	CategoryPrestige  Category = "prestige"
	CategoryGoal      Category = "goal"
	CategoryChain     Category = "chain"
	CategoryBias      Category = "bias"
	CategoryReadiness Category = "readiness"
	CategorySynergy   Category = "synergy"
	CategoryNeutral   Category = "neutral"
)

// BiasSource identifies which resolution tier produced a bias match.
type BiasSource string

const (
	BiasSourceNone     BiasSource = ""
	BiasSourceDeclared BiasSource = "declared"
	BiasSourceTag      BiasSource = "tag"
	BiasSourceKeyword  BiasSource = "keyword"
)

// Context carries the facts already computed during tier evaluation.
// Signal builders read it; they perform no new lookups.
type Context struct {
	PrestigeTarget    string
	WishlistHit       bool
	ChainDepth        int
	Bias              option.BiasKind
	BiasSource        BiasSource
	MatchedAttributes []string
	MatchedSkills     []string
	MatchedTags       []string
	Deviation         bool
	Conviction        float64
}

// Signals is the canonical textless fact bag behind a suggestion.
type Signals struct {
	Category          Category
	PrestigeSupport   bool
	MechanicalSynergy bool
	ChainContinuation bool
	Deviation         bool
	Bias              option.BiasKind
	BiasSource        BiasSource
	Conviction        float64
	MatchedAttributes []string
	MatchedSkills     []string
	MatchedTags       []string
}

// builders maps each reason code to its pure signal builder. Every builder
// populates the full struct; there are no partial signal objects.
var builders = map[Code]func(Context) Signals{
	CodePrestigePrerequisite: buildPrestige,
	CodeWishlistPath:         buildWishlist,
	CodeChainContinuation:    buildChain,
	CodeMentorBiasMatch:      buildBias,
	CodePrerequisiteMatch:    buildReadiness,
	CodeClassSynergy:         buildSynergy,
	CodeFallback:             buildFallback,
}

// Build converts the winning reason code into canonical signals.
//
// An unrecognized code is a programmer error, not a data condition, and
// panics accordingly.
func Build(code Code, ctx Context) Signals {
	builder, ok := builders[code]
	if !ok {
		panic(fmt.Sprintf("reason: no signal builder for code %q", code))
	}
	return builder(ctx)
}

func base(category Category, ctx Context) Signals {
	return Signals{
		Category:          category,
		Deviation:         ctx.Deviation,
		Conviction:        ctx.Conviction,
		MatchedAttributes: ctx.MatchedAttributes,
		MatchedSkills:     ctx.MatchedSkills,
		MatchedTags:       ctx.MatchedTags,
	}
}

func buildPrestige(ctx Context) Signals {
	signals := base(CategoryPrestige, ctx)
	signals.PrestigeSupport = true
	return signals
}

func buildWishlist(ctx Context) Signals {
	return base(CategoryGoal, ctx)
}

func buildChain(ctx Context) Signals {
	signals := base(CategoryChain, ctx)
	signals.ChainContinuation = true
	return signals
}

func buildBias(ctx Context) Signals {
	signals := base(CategoryBias, ctx)
	signals.Bias = ctx.Bias
	signals.BiasSource = ctx.BiasSource
	return signals
}

func buildReadiness(ctx Context) Signals {
	signals := base(CategoryReadiness, ctx)
	signals.MechanicalSynergy = true
	return signals
}

func buildSynergy(ctx Context) Signals {
	signals := base(CategorySynergy, ctx)
	signals.MechanicalSynergy = true
	return signals
}

func buildFallback(ctx Context) Signals {
	return base(CategoryNeutral, ctx)
}
