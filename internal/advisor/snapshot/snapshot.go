// Package snapshot flattens an actor's current state into one read-only
// structure consumed by the rest of the advisory pipeline.
//
// A Snapshot is built per request from an external accessor and discarded
// after use. Pending (staged, not yet committed) selections are overlaid in
// memory and never written back.
package snapshot

import (
	"strings"

	"github.com/sagaforge/counsel/internal/advisor/option"
	apperrors "github.com/sagaforge/counsel/internal/errors"
)

// ErrNilAccessor indicates a snapshot build was attempted without a source.
var ErrNilAccessor = apperrors.New(apperrors.CodeSnapshotNilAccessor, "actor state accessor is required")

// Ability names used across the advisory pipeline.
const (
	AbilityStrength     = "strength"
	AbilityDexterity    = "dexterity"
	AbilityConstitution = "constitution"
	AbilityIntelligence = "intelligence"
	AbilityWisdom       = "wisdom"
	AbilityCharisma     = "charisma"
)

// AbilityScore holds one ability score and its derived modifier.
//
// The modifier is carried from the document layer, never recomputed here.
type AbilityScore struct {
	Score int
	Mod   int
}

// Abilities holds the six ability scores.
type Abilities struct {
	Strength     AbilityScore
	Dexterity    AbilityScore
	Constitution AbilityScore
	Intelligence AbilityScore
	Wisdom       AbilityScore
	Charisma     AbilityScore
}

// Get returns the ability score for a lowercase ability name.
func (a Abilities) Get(name string) (AbilityScore, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case AbilityStrength:
		return a.Strength, true
	case AbilityDexterity:
		return a.Dexterity, true
	case AbilityConstitution:
		return a.Constitution, true
	case AbilityIntelligence:
		return a.Intelligence, true
	case AbilityWisdom:
		return a.Wisdom, true
	case AbilityCharisma:
		return a.Charisma, true
	default:
		return AbilityScore{}, false
	}
}

// ItemRef identifies one item owned by (or staged for) the actor.
type ItemRef struct {
	ID      string
	Slug    string
	Name    string
	Kind    option.Kind
	TreeID  string
	Pending bool
}

// Snapshot is the flattened, read-only view of an actor's build state.
type Snapshot struct {
	Abilities       Abilities
	TrainedSkills   map[string]bool
	Items           map[option.Kind][]ItemRef
	ClassLevels     map[string]int
	CharacterLevel  int
	BaseAttackBonus int
	Grants          map[string]bool
}

// Accessor is the read-only view of an actor owned by the document layer.
type Accessor interface {
	Abilities() Abilities
	TrainedSkills() []string
	Items() []ItemRef
	ClassLevels() map[string]int
	BaseAttackBonus() int
	HouseruleGrants() []string
	PendingSelections() []ItemRef
}

// Build flattens the accessor's state into a Snapshot, merging pending
// selections into the item lists with their Pending flag set.
func Build(accessor Accessor) (Snapshot, error) {
	if accessor == nil {
		return Snapshot{}, ErrNilAccessor
	}

	snap := Snapshot{
		Abilities:       accessor.Abilities(),
		TrainedSkills:   map[string]bool{},
		Items:           map[option.Kind][]ItemRef{},
		ClassLevels:     map[string]int{},
		BaseAttackBonus: accessor.BaseAttackBonus(),
		Grants:          map[string]bool{},
	}

	for _, skill := range accessor.TrainedSkills() {
		name := strings.ToLower(strings.TrimSpace(skill))
		if name != "" {
			snap.TrainedSkills[name] = true
		}
	}

	for class, level := range accessor.ClassLevels() {
		name := strings.ToLower(strings.TrimSpace(class))
		if name == "" || level <= 0 {
			continue
		}
		snap.ClassLevels[name] = level
		snap.CharacterLevel += level
	}

	for _, item := range accessor.Items() {
		item.Pending = false
		snap.Items[item.Kind] = append(snap.Items[item.Kind], item)
	}
	for _, item := range accessor.PendingSelections() {
		item.Pending = true
		snap.Items[item.Kind] = append(snap.Items[item.Kind], item)
	}

	for _, grant := range accessor.HouseruleGrants() {
		key := strings.ToLower(strings.TrimSpace(grant))
		if key != "" {
			snap.Grants[key] = true
		}
	}

	return snap, nil
}

// ItemsOfKind returns the owned and pending items of one kind.
func (s Snapshot) ItemsOfKind(kind option.Kind) []ItemRef {
	return s.Items[kind]
}

// OwnsTreeTalent reports whether any owned or pending item belongs to the tree.
func (s Snapshot) OwnsTreeTalent(treeID string) bool {
	if treeID == "" {
		return false
	}
	for _, items := range s.Items {
		for _, item := range items {
			if item.TreeID == treeID {
				return true
			}
		}
	}
	return false
}

// HasGrant reports whether the identity is covered by a houserule grant.
func (s Snapshot) HasGrant(identity string) bool {
	return s.Grants[strings.ToLower(strings.TrimSpace(identity))]
}

// SkillTrained reports whether the named skill is trained.
func (s Snapshot) SkillTrained(skill string) bool {
	return s.TrainedSkills[strings.ToLower(strings.TrimSpace(skill))]
}

// ClassLevel returns the level held in the named class.
func (s Snapshot) ClassLevel(class string) int {
	return s.ClassLevels[strings.ToLower(strings.TrimSpace(class))]
}
