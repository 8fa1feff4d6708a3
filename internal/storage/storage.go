package storage

import (
	"context"
	"time"

	apperrors "github.com/sagaforge/counsel/internal/errors"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// PrestigeTargetRecord names a prestige class an archetype works toward and
// the option identities that unlock it.
type PrestigeTargetRecord struct {
	ClassID           string
	RequiredOptionIDs []string
}

// ArchetypeRecord is a persisted build archetype.
type ArchetypeRecord struct {
	ID                 string
	Name               string
	BaseClass          string
	Roles              []string
	PrestigeTargets    []PrestigeTargetRecord
	AttributePriority  []string
	RecommendedFeats   []string
	RecommendedTalents []string
	RecommendedSkills  []string
	KindWeights        map[string]float64
}

// TalentTreeRecord is a persisted talent tree definition.
type TalentTreeRecord struct {
	ID       string
	Name     string
	Excludes []string
}

// MentorRecord is a persisted mentor personality profile.
type MentorRecord struct {
	ID            string
	Name          string
	Voice         string
	DefaultLocale string
}

// GrantRecord is a houserule grant: an option identity treated as owned for
// prerequisite resolution even when no matching item exists on the actor.
type GrantRecord struct {
	OptionID string
	Note     string
}

// ContentReadStore lists advisory content records.
type ContentReadStore interface {
	ListArchetypes(ctx context.Context) ([]ArchetypeRecord, error)
	ListTalentTrees(ctx context.Context) ([]TalentTreeRecord, error)
	ListMentors(ctx context.Context) ([]MentorRecord, error)
	ListHouseruleGrants(ctx context.Context) ([]GrantRecord, error)
}

// ContentWriteStore persists advisory content records.
type ContentWriteStore interface {
	PutArchetype(ctx context.Context, record ArchetypeRecord) error
	PutTalentTree(ctx context.Context, record TalentTreeRecord) error
	PutMentor(ctx context.Context, record MentorRecord) error
	PutHouseruleGrant(ctx context.Context, record GrantRecord) error
}

// TelemetryEvent is an operational event recorded by the advisor.
type TelemetryEvent struct {
	ID         string
	Timestamp  time.Time
	Severity   string
	Event      string
	Attributes map[string]string
}

// TelemetryStore persists telemetry events.
type TelemetryStore interface {
	AppendTelemetryEvent(ctx context.Context, evt TelemetryEvent) error
}
