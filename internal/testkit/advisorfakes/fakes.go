// Package advisorfakes provides lightweight in-memory fakes for advisor tests.
package advisorfakes

import (
	"context"

	"github.com/sagaforge/counsel/internal/advisor/snapshot"
	"github.com/sagaforge/counsel/internal/storage"
)

// ActorState is a configurable snapshot.Accessor fake.
type ActorState struct {
	Scores       snapshot.Abilities
	Skills       []string
	Owned        []snapshot.ItemRef
	Classes      map[string]int
	BAB          int
	Grants       []string
	Staged       []snapshot.ItemRef
}

func (a *ActorState) Abilities() snapshot.Abilities          { return a.Scores }
func (a *ActorState) TrainedSkills() []string                { return a.Skills }
func (a *ActorState) Items() []snapshot.ItemRef              { return a.Owned }
func (a *ActorState) ClassLevels() map[string]int            { return a.Classes }
func (a *ActorState) BaseAttackBonus() int                   { return a.BAB }
func (a *ActorState) HouseruleGrants() []string              { return a.Grants }
func (a *ActorState) PendingSelections() []snapshot.ItemRef  { return a.Staged }

// ContentStore is an in-memory ContentReadStore and ContentWriteStore fake.
type ContentStore struct {
	Archetypes map[string]storage.ArchetypeRecord
	Trees      map[string]storage.TalentTreeRecord
	Mentors    map[string]storage.MentorRecord
	GrantList  []storage.GrantRecord

	ListErr error
}

// NewContentStore constructs a ContentStore fake with initialized maps.
func NewContentStore() *ContentStore {
	return &ContentStore{
		Archetypes: make(map[string]storage.ArchetypeRecord),
		Trees:      make(map[string]storage.TalentTreeRecord),
		Mentors:    make(map[string]storage.MentorRecord),
	}
}

func (s *ContentStore) PutArchetype(_ context.Context, record storage.ArchetypeRecord) error {
	s.Archetypes[record.ID] = record
	return nil
}

func (s *ContentStore) PutTalentTree(_ context.Context, record storage.TalentTreeRecord) error {
	s.Trees[record.ID] = record
	return nil
}

func (s *ContentStore) PutMentor(_ context.Context, record storage.MentorRecord) error {
	s.Mentors[record.ID] = record
	return nil
}

func (s *ContentStore) PutHouseruleGrant(_ context.Context, record storage.GrantRecord) error {
	s.GrantList = append(s.GrantList, record)
	return nil
}

func (s *ContentStore) ListArchetypes(_ context.Context) ([]storage.ArchetypeRecord, error) {
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	out := make([]storage.ArchetypeRecord, 0, len(s.Archetypes))
	for _, record := range s.Archetypes {
		out = append(out, record)
	}
	return out, nil
}

func (s *ContentStore) ListTalentTrees(_ context.Context) ([]storage.TalentTreeRecord, error) {
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	out := make([]storage.TalentTreeRecord, 0, len(s.Trees))
	for _, record := range s.Trees {
		out = append(out, record)
	}
	return out, nil
}

func (s *ContentStore) ListMentors(_ context.Context) ([]storage.MentorRecord, error) {
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	out := make([]storage.MentorRecord, 0, len(s.Mentors))
	for _, record := range s.Mentors {
		out = append(out, record)
	}
	return out, nil
}

func (s *ContentStore) ListHouseruleGrants(_ context.Context) ([]storage.GrantRecord, error) {
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	return s.GrantList, nil
}

// TelemetrySink is an in-memory TelemetryStore fake.
type TelemetrySink struct {
	Events []storage.TelemetryEvent
}

func (s *TelemetrySink) AppendTelemetryEvent(_ context.Context, evt storage.TelemetryEvent) error {
	s.Events = append(s.Events, evt)
	return nil
}
