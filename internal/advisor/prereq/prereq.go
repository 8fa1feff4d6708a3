// Package prereq validates structured prerequisites against an actor
// snapshot.
//
// Failure is never an error: every check returns a structured result with a
// human-readable reason per missing requirement. Feat and talent identities
// resolve through an ordered fallback chain (stable id, slug, legacy name,
// houserule grant); each hit below the primary tier emits a one-time
// deduplicated warning.
package prereq

import (
	"fmt"
	"log"
	"strings"

	"github.com/sagaforge/counsel/internal/advisor/option"
	"github.com/sagaforge/counsel/internal/advisor/snapshot"
)

// Source identifies which identity tier resolved a feat/talent requirement.
type Source string

const (
	SourceNone  Source = ""
	SourceID    Source = "id"
	SourceSlug  Source = "slug"
	SourceName  Source = "name"
	SourceGrant Source = "grant"
)

// Detail is the outcome of one requirement check.
type Detail struct {
	Requirement option.Requirement
	Met         bool
	Reason      string
	Source      Source
}

// Result aggregates the outcome of checking all requirements.
type Result struct {
	Met     bool
	Missing []string
	Details []Detail
}

// LegacyResult mirrors Result under the field names legacy callers expect.
type LegacyResult struct {
	Valid   bool
	Reasons []string
}

// Legacy returns the result under its legacy field names.
func (r Result) Legacy() LegacyResult {
	return LegacyResult{Valid: r.Met, Reasons: r.Missing}
}

// WarnFunc receives one-time diagnostic warnings about fallback resolution.
type WarnFunc func(event string, attributes map[string]string)

// Checker validates requirements against actor snapshots.
//
// The warning dedup cache is append-only and assumes the synchronous
// single-writer execution model of the scoring path.
type Checker struct {
	warn   WarnFunc
	warned map[string]bool
}

// NewChecker creates a Checker. A nil warn function logs through the
// standard logger.
func NewChecker(warn WarnFunc) *Checker {
	if warn == nil {
		warn = func(event string, attributes map[string]string) {
			log.Printf("%s: %v", event, attributes)
		}
	}
	return &Checker{warn: warn, warned: map[string]bool{}}
}

// Check validates every requirement and aggregates the failures; it never
// short-circuits.
func (c *Checker) Check(requirements []option.Requirement, snap snapshot.Snapshot) Result {
	result := Result{Met: true}
	for _, req := range requirements {
		detail := c.checkOne(req, snap)
		result.Details = append(result.Details, detail)
		if !detail.Met {
			result.Met = false
			result.Missing = append(result.Missing, detail.Reason)
		}
	}
	return result
}

func (c *Checker) checkOne(req option.Requirement, snap snapshot.Snapshot) Detail {
	detail := Detail{Requirement: req}

	switch req.Kind {
	case option.RequireAbility:
		score, ok := snap.Abilities.Get(req.Ability)
		if !ok {
			detail.Reason = fmt.Sprintf("unknown ability %q", req.Ability)
			return detail
		}
		if score.Score < req.Min {
			detail.Reason = fmt.Sprintf("%s %d required (have %d)", strings.ToLower(req.Ability), req.Min, score.Score)
			return detail
		}
		detail.Met = true

	case option.RequireSkillTrained:
		if !snap.SkillTrained(req.Skill) {
			detail.Reason = fmt.Sprintf("trained %s required", strings.ToLower(req.Skill))
			return detail
		}
		detail.Met = true

	case option.RequireBaseAttack:
		if snap.BaseAttackBonus < req.Min {
			detail.Reason = fmt.Sprintf("base attack bonus +%d required (have +%d)", req.Min, snap.BaseAttackBonus)
			return detail
		}
		detail.Met = true

	case option.RequireLevel:
		if snap.CharacterLevel < req.Min {
			detail.Reason = fmt.Sprintf("character level %d required (have %d)", req.Min, snap.CharacterLevel)
			return detail
		}
		detail.Met = true

	case option.RequireClassLevel:
		minimum := req.Min
		if minimum <= 0 {
			minimum = 1
		}
		if snap.ClassLevel(req.Class) < minimum {
			detail.Reason = fmt.Sprintf("%d levels of %s required (have %d)", minimum, strings.ToLower(req.Class), snap.ClassLevel(req.Class))
			return detail
		}
		detail.Met = true

	case option.RequireFeat, option.RequireTalent:
		return c.checkIdentity(req, snap)

	case option.RequireTreeMember:
		if !snap.OwnsTreeTalent(req.TreeID) {
			detail.Reason = fmt.Sprintf("a talent from tree %q required", req.TreeID)
			return detail
		}
		detail.Met = true

	default:
		detail.Reason = fmt.Sprintf("unrecognized requirement kind %q", req.Kind)
	}

	return detail
}

// identityResolver is one tier of the feat/talent identity fallback chain.
type identityResolver struct {
	source Source
	find   func(req option.Requirement, items []snapshot.ItemRef) bool
}

var identityResolvers = []identityResolver{
	{
		source: SourceID,
		find: func(req option.Requirement, items []snapshot.ItemRef) bool {
			if req.ID == "" {
				return false
			}
			for _, item := range items {
				if item.ID == req.ID {
					return true
				}
			}
			return false
		},
	},
	{
		source: SourceSlug,
		find: func(req option.Requirement, items []snapshot.ItemRef) bool {
			if req.Slug == "" {
				return false
			}
			for _, item := range items {
				if item.Slug == req.Slug {
					return true
				}
			}
			return false
		},
	},
	{
		source: SourceName,
		find: func(req option.Requirement, items []snapshot.ItemRef) bool {
			if req.Name == "" {
				return false
			}
			for _, item := range items {
				if strings.EqualFold(item.Name, req.Name) {
					return true
				}
			}
			return false
		},
	},
}

func (c *Checker) checkIdentity(req option.Requirement, snap snapshot.Snapshot) Detail {
	detail := Detail{Requirement: req}

	kind := option.KindFeat
	if req.Kind == option.RequireTalent {
		kind = option.KindTalent
	}
	display := requirementDisplay(req)
	if display == "" {
		detail.Reason = fmt.Sprintf("%s requirement has no identity", kind)
		return detail
	}

	items := snap.ItemsOfKind(kind)
	for _, resolver := range identityResolvers {
		if !resolver.find(req, items) {
			continue
		}
		if resolver.source != SourceID {
			c.warnOnce(req, resolver.source)
		}
		detail.Met = true
		detail.Source = resolver.source
		return detail
	}

	for _, identity := range []string{req.ID, req.Slug, req.Name} {
		if identity != "" && snap.HasGrant(identity) {
			c.warnOnce(req, SourceGrant)
			detail.Met = true
			detail.Source = SourceGrant
			return detail
		}
	}

	detail.Reason = fmt.Sprintf("%s %q required", kind, display)
	return detail
}

// warnOnce emits one deduplicated warning per requirement identity per
// fallback tier.
func (c *Checker) warnOnce(req option.Requirement, source Source) {
	key := identityKey(req) + "|" + string(source)
	if c.warned[key] {
		return
	}
	c.warned[key] = true
	c.warn("prereq.identity_fallback", map[string]string{
		"tier":        string(source),
		"requirement": identityKey(req),
	})
}

func identityKey(req option.Requirement) string {
	return strings.Join([]string{
		string(req.Kind),
		req.ID,
		req.Slug,
		strings.ToLower(req.Name),
	}, "|")
}

func requirementDisplay(req option.Requirement) string {
	switch {
	case req.Name != "":
		return req.Name
	case req.Slug != "":
		return req.Slug
	default:
		return req.ID
	}
}
