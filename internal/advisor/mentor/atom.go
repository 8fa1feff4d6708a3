// Package mentor turns reason signals into mentor-voiced explanation text.
//
// The package is split in two layers: Select maps signal facts to a closed
// vocabulary of semantic atoms plus an intensity level, and Judge renders
// those atoms through a (mentor, atom, intensity) phrase table. Selection
// never reads actor data and mentors never influence scoring; they only
// change the wording.
package mentor

// Atom is a canonical semantic label in the closed explanation vocabulary.
type Atom string

const (
	AtomCommitmentDeclared Atom = "commitment_declared"
	AtomGoalAdvancement    Atom = "goal_advancement"
	AtomGoalDeviation      Atom = "goal_deviation"
	AtomPatternConflict    Atom = "pattern_conflict"
	AtomPatternContinuity  Atom = "pattern_continuity"
	AtomDependencyChain    Atom = "dependency_chain"
	AtomPrestigeFoundation Atom = "prestige_foundation"
	AtomTreeInvestment     Atom = "tree_investment"
	AtomReadinessMet       Atom = "readiness_met"
	AtomReadinessLacking   Atom = "readiness_lacking"
	AtomFocusedTraining    Atom = "focused_training"
	AtomSynergyPresent     Atom = "synergy_present"
	AtomSynergyMissing     Atom = "synergy_missing"
	AtomArchetypeAligned   Atom = "archetype_aligned"
	AtomArchetypeStray     Atom = "archetype_stray"
	AtomBiasAffinity       Atom = "bias_affinity"
	AtomBoldChoice         Atom = "bold_choice"
	AtomSteadyProgress     Atom = "steady_progress"
	AtomOpenPath           Atom = "open_path"
	AtomCautiousChoice     Atom = "cautious_choice"
)

var atoms = map[Atom]bool{
	AtomCommitmentDeclared: true,
	AtomGoalAdvancement:    true,
	AtomGoalDeviation:      true,
	AtomPatternConflict:    true,
	AtomPatternContinuity:  true,
	AtomDependencyChain:    true,
	AtomPrestigeFoundation: true,
	AtomTreeInvestment:     true,
	AtomReadinessMet:       true,
	AtomReadinessLacking:   true,
	AtomFocusedTraining:    true,
	AtomSynergyPresent:     true,
	AtomSynergyMissing:     true,
	AtomArchetypeAligned:   true,
	AtomArchetypeStray:     true,
	AtomBiasAffinity:       true,
	AtomBoldChoice:         true,
	AtomSteadyProgress:     true,
	AtomOpenPath:           true,
	AtomCautiousChoice:     true,
}

// ValidAtom reports whether the atom belongs to the closed vocabulary.
func ValidAtom(atom Atom) bool {
	return atoms[atom]
}

// Intensity is one of five discrete emphasis levels controlling phrase tone.
type Intensity string

const (
	IntensityVeryLow  Intensity = "very_low"
	IntensityLow      Intensity = "low"
	IntensityMedium   Intensity = "medium"
	IntensityHigh     Intensity = "high"
	IntensityVeryHigh Intensity = "very_high"
)

var intensities = map[Intensity]bool{
	IntensityVeryLow:  true,
	IntensityLow:      true,
	IntensityMedium:   true,
	IntensityHigh:     true,
	IntensityVeryHigh: true,
}

// ValidIntensity reports whether the intensity is one of the five levels.
func ValidIntensity(intensity Intensity) bool {
	return intensities[intensity]
}
