package tier

import (
	"strings"

	"github.com/sagaforge/counsel/internal/advisor/option"
	"github.com/sagaforge/counsel/internal/advisor/reason"
)

// Conviction values carried into reason signals by each evaluator.
const (
	convictionPrestige     = 0.90
	convictionWishlist     = 0.85
	convictionChainBase    = 0.60
	convictionChainStep    = 0.10
	convictionChainMax     = 0.80
	convictionBiasDeclared = 0.70
	convictionBiasTag      = 0.60
	convictionBiasKeyword  = 0.50
	convictionReadyBase    = 0.40
	convictionReadyStep    = 0.15
	convictionReadyMax     = 0.70
	convictionSynergy      = 0.40
	convictionFallback     = 0.20
)

// evaluators is the fixed, ordered reason-code table. Highest priority
// first; the first match wins.
var evaluators = []struct {
	code  reason.Code
	match func(*Engine, *evalContext) bool
}{
	{code: reason.CodePrestigePrerequisite, match: matchPrestigePrerequisite},
	{code: reason.CodeWishlistPath, match: matchWishlistPath},
	{code: reason.CodeChainContinuation, match: matchChainContinuation},
	{code: reason.CodeMentorBiasMatch, match: matchMentorBias},
	{code: reason.CodePrerequisiteMatch, match: matchPrerequisiteMatch},
	{code: reason.CodeClassSynergy, match: matchClassSynergy},
	{code: reason.CodeFallback, match: matchFallback},
}

func candidateMatchesIdentity(candidate option.CandidateOption, identity string) bool {
	if identity == "" {
		return false
	}
	return identity == candidate.ID || identity == candidate.Slug || strings.EqualFold(identity, candidate.Name)
}

// matchPrestigePrerequisite fires when the candidate unlocks a prestige
// class the archetype works toward.
func matchPrestigePrerequisite(_ *Engine, ctx *evalContext) bool {
	if !ctx.hasArchetype {
		return false
	}
	for _, target := range ctx.archetype.PrestigeTargets {
		for _, required := range target.RequiredOptionIDs {
			if candidateMatchesIdentity(ctx.candidate, required) {
				ctx.facts.PrestigeTarget = target.ClassID
				ctx.facts.Conviction = convictionPrestige
				return true
			}
		}
	}
	return false
}

// matchWishlistPath fires when the player has the candidate on their
// declared wishlist.
func matchWishlistPath(_ *Engine, ctx *evalContext) bool {
	if !ctx.intent.Wants(ctx.candidate.ID) && !ctx.intent.Wants(ctx.candidate.Slug) {
		return false
	}
	ctx.facts.WishlistHit = true
	ctx.facts.Conviction = convictionWishlist
	return true
}

// matchChainContinuation fires when the candidate extends a dependency
// chain the actor already owns: a met feat/talent prerequisite, or further
// investment in a tree the actor holds talents from.
func matchChainContinuation(e *Engine, ctx *evalContext) bool {
	depth := 0
	for _, req := range ctx.candidate.Prerequisites {
		if req.Kind != option.RequireFeat && req.Kind != option.RequireTalent {
			continue
		}
		result := e.checker.Check([]option.Requirement{req}, ctx.snap)
		if result.Met {
			depth++
		}
	}
	if ctx.candidate.TreeID != "" && ctx.snap.OwnsTreeTalent(ctx.candidate.TreeID) {
		depth++
	}
	if depth == 0 {
		return false
	}

	ctx.facts.ChainDepth = depth
	conviction := convictionChainBase + convictionChainStep*float64(depth)
	if conviction > convictionChainMax {
		conviction = convictionChainMax
	}
	ctx.facts.Conviction = conviction
	return true
}

// biasKeywords backs the lowest bias resolution tier: display-name matching.
var biasKeywords = map[option.BiasKind][]string{
	option.BiasMelee:   {"blade", "strike", "duel", "melee"},
	option.BiasRanged:  {"shot", "aim", "sniper", "barrage"},
	option.BiasTech:    {"tech", "droid", "slicer", "gadget"},
	option.BiasMystic:  {"force", "mystic", "meditation", "sense"},
	option.BiasSupport: {"ally", "aid", "rally", "medic"},
	option.BiasSocial:  {"presence", "persuasion", "deception", "command"},
}

// matchMentorBias resolves the candidate against the weighted bias kinds in
// layers: declared bias tag, free-form tag match, then display-name
// keywords. Each tier is tried only when the previous one produced no
// usable signal.
func matchMentorBias(_ *Engine, ctx *evalContext) bool {
	weighted := ctx.intent.WeightedBiases()
	if len(weighted) == 0 {
		return false
	}

	if declared := ctx.candidate.DeclaredBias; declared != "" {
		for _, kind := range weighted {
			if kind == declared {
				ctx.facts.Bias = kind
				ctx.facts.BiasSource = reason.BiasSourceDeclared
				ctx.facts.Conviction = convictionBiasDeclared
				return true
			}
		}
	}

	for _, kind := range weighted {
		if ctx.candidate.HasTag(string(kind)) {
			ctx.facts.Bias = kind
			ctx.facts.BiasSource = reason.BiasSourceTag
			ctx.facts.MatchedTags = append(ctx.facts.MatchedTags, string(kind))
			ctx.facts.Conviction = convictionBiasTag
			return true
		}
	}

	name := strings.ToLower(ctx.candidate.Name)
	for _, kind := range weighted {
		for _, keyword := range biasKeywords[kind] {
			if strings.Contains(name, keyword) {
				ctx.facts.Bias = kind
				ctx.facts.BiasSource = reason.BiasSourceKeyword
				ctx.facts.Conviction = convictionBiasKeyword
				return true
			}
		}
	}
	return false
}

// matchPrerequisiteMatch fires when the actor already satisfies the
// candidate's skill or ability prerequisites, a sign of existing readiness.
func matchPrerequisiteMatch(_ *Engine, ctx *evalContext) bool {
	matches := 0
	for _, req := range ctx.candidate.Prerequisites {
		switch req.Kind {
		case option.RequireSkillTrained:
			if ctx.snap.SkillTrained(req.Skill) {
				ctx.facts.MatchedSkills = append(ctx.facts.MatchedSkills, strings.ToLower(req.Skill))
				matches++
			}
		case option.RequireAbility:
			if score, ok := ctx.snap.Abilities.Get(req.Ability); ok && score.Score >= req.Min {
				ctx.facts.MatchedAttributes = append(ctx.facts.MatchedAttributes, strings.ToLower(req.Ability))
				matches++
			}
		}
	}
	if matches == 0 {
		return false
	}

	conviction := convictionReadyBase + convictionReadyStep*float64(matches)
	if conviction > convictionReadyMax {
		conviction = convictionReadyMax
	}
	ctx.facts.Conviction = conviction
	return true
}

// matchClassSynergy fires when the candidate fits the archetype's role tags
// or a kind the archetype explicitly favors.
func matchClassSynergy(_ *Engine, ctx *evalContext) bool {
	if !ctx.hasArchetype {
		return false
	}
	for _, tag := range ctx.candidate.Tags {
		if ctx.archetype.HasRole(tag) {
			ctx.facts.MatchedTags = append(ctx.facts.MatchedTags, strings.ToLower(tag))
			ctx.facts.Conviction = convictionSynergy
			return true
		}
	}
	if ctx.archetype.KindWeights[ctx.candidate.Kind] > 1.0 {
		ctx.facts.Conviction = convictionSynergy
		return true
	}
	return false
}

// matchFallback is the catch-all for legal but unremarkable options.
func matchFallback(_ *Engine, ctx *evalContext) bool {
	ctx.facts.Conviction = convictionFallback
	return true
}
