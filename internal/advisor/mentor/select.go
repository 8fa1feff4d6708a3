package mentor

import (
	"github.com/sagaforge/counsel/internal/advisor/reason"
)

// Intensity banding thresholds. Taken as given contract values, tuned as
// configuration constants rather than re-derived.
const (
	signalsVeryHigh        = 3
	signalsHigh            = 2
	convictionMediumSingle = 0.7
	convictionMediumNone   = 0.5
)

// Selection is the deduplicated atom set and intensity behind one
// suggestion, plus the signal names that triggered it.
type Selection struct {
	Atoms           []Atom
	Intensity       Intensity
	SelectedReasons []string
}

// Select maps reason signals to explanation atoms and an intensity level.
//
// Each populated signal field contributes zero or more atoms; the result is
// deduplicated in a fixed order so identical signals always produce an
// identical selection. Intensity is banded from the count of distinct
// triggering signals and the conviction value.
func Select(signals reason.Signals) Selection {
	var selection Selection
	seen := map[Atom]bool{}
	add := func(list ...Atom) {
		for _, atom := range list {
			if !seen[atom] {
				seen[atom] = true
				selection.Atoms = append(selection.Atoms, atom)
			}
		}
	}

	triggered := 0
	trigger := func(name string, list ...Atom) {
		triggered++
		selection.SelectedReasons = append(selection.SelectedReasons, name)
		add(list...)
	}

	if signals.PrestigeSupport {
		trigger("prestige_support", AtomDependencyChain, AtomPrestigeFoundation)
	}
	if signals.Category == reason.CategoryGoal {
		trigger("declared_goal", AtomCommitmentDeclared, AtomGoalAdvancement)
	}
	if signals.ChainContinuation {
		trigger("chain_continuation", AtomPatternContinuity, AtomDependencyChain, AtomTreeInvestment)
	}
	if signals.MechanicalSynergy {
		trigger("mechanical_synergy", AtomSynergyPresent)
	}
	if signals.Bias != "" {
		trigger("bias_match", AtomBiasAffinity)
		if signals.Conviction >= convictionMediumSingle {
			add(AtomBoldChoice)
		}
	}
	if len(signals.MatchedAttributes) > 0 || len(signals.MatchedSkills) > 0 {
		trigger("readiness", AtomReadinessMet)
		if len(signals.MatchedSkills) > 0 {
			add(AtomFocusedTraining)
		}
	}
	if len(signals.MatchedTags) > 0 {
		trigger("tag_overlap", AtomArchetypeAligned)
	}
	if signals.Deviation {
		trigger("deviation", AtomPatternConflict, AtomGoalDeviation)
		if signals.Bias != "" {
			add(AtomArchetypeStray)
		} else if !signals.MechanicalSynergy {
			add(AtomSynergyMissing)
		}
	}
	if signals.Category == reason.CategoryReadiness {
		add(AtomSteadyProgress)
	}

	if len(selection.Atoms) == 0 {
		if signals.Conviction >= convictionMediumNone {
			add(AtomOpenPath)
		} else {
			add(AtomCautiousChoice)
		}
	}

	selection.Intensity = bandIntensity(triggered, signals.Conviction)
	return selection
}

func bandIntensity(triggered int, conviction float64) Intensity {
	switch {
	case triggered >= signalsVeryHigh:
		return IntensityVeryHigh
	case triggered == signalsHigh:
		return IntensityHigh
	case triggered == 1:
		if conviction >= convictionMediumSingle {
			return IntensityMedium
		}
		return IntensityLow
	default:
		if conviction >= convictionMediumNone {
			return IntensityMedium
		}
		return IntensityVeryLow
	}
}
