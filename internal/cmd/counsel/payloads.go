package counsel

import (
	"github.com/sagaforge/counsel/internal/advisor/mentor"
	"github.com/sagaforge/counsel/internal/advisor/option"
	"github.com/sagaforge/counsel/internal/advisor/service"
	"github.com/sagaforge/counsel/internal/advisor/snapshot"
	"github.com/sagaforge/counsel/internal/storage"
)

type abilityPayload struct {
	Score int `json:"score"`
	Mod   int `json:"mod"`
}

type abilitiesPayload struct {
	Strength     abilityPayload `json:"strength"`
	Dexterity    abilityPayload `json:"dexterity"`
	Constitution abilityPayload `json:"constitution"`
	Intelligence abilityPayload `json:"intelligence"`
	Wisdom       abilityPayload `json:"wisdom"`
	Charisma     abilityPayload `json:"charisma"`
}

type itemPayload struct {
	ID     string `json:"id"`
	Slug   string `json:"slug"`
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	TreeID string `json:"tree_id"`
}

// actorDocument is the JSON shape of an actor state file. It implements
// snapshot.Accessor so the advisor can consume it directly.
type actorDocument struct {
	AbilityScores   abilitiesPayload `json:"abilities"`
	Skills          []string         `json:"trained_skills"`
	Owned           []itemPayload    `json:"items"`
	Classes         map[string]int   `json:"class_levels"`
	BAB             int              `json:"base_attack_bonus"`
	HouseRuleGrants []string         `json:"grants"`
	Pending         []itemPayload    `json:"pending"`
}

func (a abilityPayload) score() snapshot.AbilityScore {
	return snapshot.AbilityScore{Score: a.Score, Mod: a.Mod}
}

func (d *actorDocument) Abilities() snapshot.Abilities {
	return snapshot.Abilities{
		Strength:     d.AbilityScores.Strength.score(),
		Dexterity:    d.AbilityScores.Dexterity.score(),
		Constitution: d.AbilityScores.Constitution.score(),
		Intelligence: d.AbilityScores.Intelligence.score(),
		Wisdom:       d.AbilityScores.Wisdom.score(),
		Charisma:     d.AbilityScores.Charisma.score(),
	}
}

func (d *actorDocument) TrainedSkills() []string     { return d.Skills }
func (d *actorDocument) ClassLevels() map[string]int { return d.Classes }
func (d *actorDocument) BaseAttackBonus() int        { return d.BAB }
func (d *actorDocument) HouseruleGrants() []string   { return d.HouseRuleGrants }

// mergeGrants folds houserule grants from the content store into the
// actor's own grant list, skipping duplicates. Store grants are campaign
// policy; actor-document grants are per-character overrides.
func (d *actorDocument) mergeGrants(records []storage.GrantRecord) {
	seen := make(map[string]bool, len(d.HouseRuleGrants))
	for _, id := range d.HouseRuleGrants {
		seen[id] = true
	}
	for _, record := range records {
		if record.OptionID == "" || seen[record.OptionID] {
			continue
		}
		seen[record.OptionID] = true
		d.HouseRuleGrants = append(d.HouseRuleGrants, record.OptionID)
	}
}

func (d *actorDocument) Items() []snapshot.ItemRef {
	return itemRefs(d.Owned)
}

func (d *actorDocument) PendingSelections() []snapshot.ItemRef {
	return itemRefs(d.Pending)
}

func itemRefs(payloads []itemPayload) []snapshot.ItemRef {
	refs := make([]snapshot.ItemRef, 0, len(payloads))
	for _, payload := range payloads {
		refs = append(refs, snapshot.ItemRef{
			ID:     payload.ID,
			Slug:   payload.Slug,
			Name:   payload.Name,
			Kind:   option.Kind(payload.Kind),
			TreeID: payload.TreeID,
		})
	}
	return refs
}

type requirementPayload struct {
	Kind    string `json:"kind"`
	ID      string `json:"id"`
	Slug    string `json:"slug"`
	Name    string `json:"name"`
	Ability string `json:"ability"`
	Skill   string `json:"skill"`
	Class   string `json:"class"`
	TreeID  string `json:"tree_id"`
	Min     int    `json:"min"`
}

type candidatePayload struct {
	ID            string               `json:"id"`
	Slug          string               `json:"slug"`
	Name          string               `json:"name"`
	Kind          string               `json:"kind"`
	Prerequisites []requirementPayload `json:"prerequisites"`
	Tags          []string             `json:"tags"`
	DeclaredBias  string               `json:"declared_bias"`
	TreeID        string               `json:"tree_id"`
}

func (p candidatePayload) candidate() option.CandidateOption {
	requirements := make([]option.Requirement, 0, len(p.Prerequisites))
	for _, req := range p.Prerequisites {
		requirements = append(requirements, option.Requirement{
			Kind:    option.RequirementKind(req.Kind),
			ID:      req.ID,
			Slug:    req.Slug,
			Name:    req.Name,
			Ability: req.Ability,
			Skill:   req.Skill,
			Class:   req.Class,
			TreeID:  req.TreeID,
			Min:     req.Min,
		})
	}
	return option.CandidateOption{
		ID:            p.ID,
		Slug:          p.Slug,
		Name:          p.Name,
		Kind:          option.Kind(p.Kind),
		Prerequisites: requirements,
		Tags:          p.Tags,
		DeclaredBias:  option.BiasKind(p.DeclaredBias),
		TreeID:        p.TreeID,
	}
}

type alignmentPayload struct {
	Bonus           float64  `json:"bonus"`
	MatchedElements []string `json:"matched_elements"`
}

type suggestionPayload struct {
	SourceID    string            `json:"source_id"`
	Tier        float64           `json:"tier"`
	Confidence  float64           `json:"confidence"`
	ReasonCode  string            `json:"reason_code"`
	Atoms       []mentor.Atom     `json:"atoms"`
	Intensity   mentor.Intensity  `json:"intensity"`
	Explanation string            `json:"explanation"`
	Alignment   *alignmentPayload `json:"archetype_alignment,omitempty"`
}

func suggestionPayloads(suggestions []service.Suggestion) []suggestionPayload {
	out := make([]suggestionPayload, 0, len(suggestions))
	for _, suggestion := range suggestions {
		payload := suggestionPayload{
			SourceID:    suggestion.SourceID,
			Tier:        suggestion.Tier,
			Confidence:  suggestion.Confidence,
			ReasonCode:  string(suggestion.ReasonCode),
			Atoms:       suggestion.Atoms,
			Intensity:   suggestion.Intensity,
			Explanation: suggestion.Explanation,
		}
		if suggestion.Alignment != nil {
			payload.Alignment = &alignmentPayload{
				Bonus:           suggestion.Alignment.Bonus,
				MatchedElements: suggestion.Alignment.MatchedElements,
			}
		}
		out = append(out, payload)
	}
	return out
}
