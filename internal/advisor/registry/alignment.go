package registry

import "strings"

// AlignmentBonusCap is the maximum confidence bonus a candidate can earn
// from archetype recommendations.
const AlignmentBonusCap = 0.20

// Bonus values accumulate in integer hundredths so summed bonuses stay
// exact (0.10 + 0.05 is exactly 0.15, not a float residue).
const (
	alignmentFeatTalentHundredths = 10
	alignmentSkillHundredths      = 5
	alignmentCapHundredths        = 20
)

// Alignment captures how strongly a candidate aligns with an archetype's
// recommendations.
type Alignment struct {
	Bonus           float64
	MatchedElements []string
}

// AlignmentFor computes the confidence bonus a candidate earns from the
// archetype's recommended lists. The bonus never changes a tier; it is a
// zero value (not an error) when no archetype is set or the registry has
// not finished loading.
func (r *ArchetypeRegistry) AlignmentFor(archetypeID string, candidateID, candidateSlug, candidateName string) Alignment {
	if archetypeID == "" {
		return Alignment{}
	}
	archetype, ok := r.Get(archetypeID)
	if !ok {
		return Alignment{}
	}

	var alignment Alignment
	hundredths := 0
	if entry, ok := matchRecommended(archetype.RecommendedFeats, candidateID, candidateSlug, candidateName); ok {
		hundredths += alignmentFeatTalentHundredths
		alignment.MatchedElements = append(alignment.MatchedElements, "feat:"+entry)
	} else if entry, ok := matchRecommended(archetype.RecommendedTalents, candidateID, candidateSlug, candidateName); ok {
		hundredths += alignmentFeatTalentHundredths
		alignment.MatchedElements = append(alignment.MatchedElements, "talent:"+entry)
	}
	if entry, ok := matchRecommended(archetype.RecommendedSkills, candidateID, candidateSlug, candidateName); ok {
		hundredths += alignmentSkillHundredths
		alignment.MatchedElements = append(alignment.MatchedElements, "skill:"+entry)
	}

	if hundredths > alignmentCapHundredths {
		hundredths = alignmentCapHundredths
	}
	alignment.Bonus = float64(hundredths) / 100
	return alignment
}

func matchRecommended(entries []string, candidateID, candidateSlug, candidateName string) (string, bool) {
	for _, entry := range entries {
		if entry == "" {
			continue
		}
		if entry == candidateID || entry == candidateSlug || strings.EqualFold(entry, candidateName) {
			return entry, true
		}
	}
	return "", false
}
