// Package option defines candidate build options and the player's declared
// build intent. These are per-request inputs constructed from external state
// and discarded after use.
package option

import "strings"

// Kind classifies a build option or owned item.
type Kind string

const (
	KindFeat   Kind = "feat"
	KindTalent Kind = "talent"
	KindSkill  Kind = "skill"
	KindPower  Kind = "power"
)

// BiasKind labels a mentor-bias axis a player can weight in their intent.
type BiasKind string

const (
	BiasMelee   BiasKind = "melee"
	BiasRanged  BiasKind = "ranged"
	BiasTech    BiasKind = "tech"
	BiasMystic  BiasKind = "mystic"
	BiasSupport BiasKind = "support"
	BiasSocial  BiasKind = "social"
)

// RequirementKind classifies a structured prerequisite.
type RequirementKind string

const (
	RequireAbility      RequirementKind = "ability"
	RequireSkillTrained RequirementKind = "skill_trained"
	RequireBaseAttack   RequirementKind = "base_attack"
	RequireLevel        RequirementKind = "level"
	RequireFeat         RequirementKind = "feat"
	RequireTalent       RequirementKind = "talent"
	RequireClassLevel   RequirementKind = "class_level"
	RequireTreeMember   RequirementKind = "tree_member"
)

// Requirement is one structured prerequisite on a candidate option.
//
// Identity fields (ID, Slug, Name) apply to feat/talent requirements and are
// resolved in that order. Numeric fields apply to ability, base attack,
// level, and class-level requirements.
type Requirement struct {
	Kind    RequirementKind
	ID      string
	Slug    string
	Name    string
	Ability string
	Skill   string
	Class   string
	TreeID  string
	Min     int
}

// CandidateOption is one build option under consideration for an actor.
type CandidateOption struct {
	ID            string
	Slug          string
	Name          string
	Kind          Kind
	Prerequisites []Requirement
	Tags          []string
	DeclaredBias  BiasKind
	TreeID        string
}

// HasTag reports whether the candidate carries the tag, case-insensitively.
func (c CandidateOption) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// BuildIntent is an actor's declared build direction.
type BuildIntent struct {
	ArchetypeID string
	Wishlist    []string
	BiasWeights map[BiasKind]float64
}

// WeightedBiases returns the bias kinds with a weight above zero, in a
// fixed order so evaluation stays deterministic.
func (b BuildIntent) WeightedBiases() []BiasKind {
	ordered := []BiasKind{BiasMelee, BiasRanged, BiasTech, BiasMystic, BiasSupport, BiasSocial}
	var active []BiasKind
	for _, kind := range ordered {
		if b.BiasWeights[kind] > 0 {
			active = append(active, kind)
		}
	}
	return active
}

// Wants reports whether the option id appears on the wishlist.
func (b BuildIntent) Wants(optionID string) bool {
	for _, id := range b.Wishlist {
		if id == optionID {
			return true
		}
	}
	return false
}
