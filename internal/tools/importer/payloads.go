package importer

import (
	"strconv"
	"strings"

	apperrors "github.com/sagaforge/counsel/internal/errors"
	"github.com/sagaforge/counsel/internal/storage"
)

type prestigeTargetPayload struct {
	ClassID           string   `json:"class_id"`
	RequiredOptionIDs []string `json:"required_option_ids"`
}

type archetypePayload struct {
	ID                 string                  `json:"id"`
	Name               string                  `json:"name"`
	BaseClass          string                  `json:"base_class"`
	Roles              []string                `json:"roles"`
	PrestigeTargets    []prestigeTargetPayload `json:"prestige_targets"`
	AttributePriority  []string                `json:"attribute_priority"`
	RecommendedFeats   []string                `json:"recommended_feats"`
	RecommendedTalents []string                `json:"recommended_talents"`
	RecommendedSkills  []string                `json:"recommended_skills"`
	KindWeights        map[string]float64      `json:"kind_weights"`
}

type talentTreePayload struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Excludes []string `json:"excludes"`
}

type mentorPayload struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Voice         string `json:"voice"`
	DefaultLocale string `json:"default_locale"`
}

type grantPayload struct {
	OptionID string `json:"option_id"`
	Note     string `json:"note"`
}

func (p archetypePayload) validate(index int) error {
	if strings.TrimSpace(p.ID) == "" || strings.TrimSpace(p.Name) == "" {
		return invalidDocument("archetypes", index, "id and name are required")
	}
	for _, target := range p.PrestigeTargets {
		if strings.TrimSpace(target.ClassID) == "" {
			return invalidDocument("archetypes", index, "prestige target class_id is required")
		}
	}
	for kind, weight := range p.KindWeights {
		if strings.TrimSpace(kind) == "" {
			return invalidDocument("archetypes", index, "kind weight key cannot be blank")
		}
		if weight < 0 {
			return invalidDocument("archetypes", index, "kind weight cannot be negative")
		}
	}
	return nil
}

func (p archetypePayload) record() storage.ArchetypeRecord {
	targets := make([]storage.PrestigeTargetRecord, 0, len(p.PrestigeTargets))
	for _, target := range p.PrestigeTargets {
		targets = append(targets, storage.PrestigeTargetRecord{
			ClassID:           strings.TrimSpace(target.ClassID),
			RequiredOptionIDs: target.RequiredOptionIDs,
		})
	}
	return storage.ArchetypeRecord{
		ID:                 strings.TrimSpace(p.ID),
		Name:               strings.TrimSpace(p.Name),
		BaseClass:          strings.TrimSpace(p.BaseClass),
		Roles:              p.Roles,
		PrestigeTargets:    targets,
		AttributePriority:  p.AttributePriority,
		RecommendedFeats:   p.RecommendedFeats,
		RecommendedTalents: p.RecommendedTalents,
		RecommendedSkills:  p.RecommendedSkills,
		KindWeights:        p.KindWeights,
	}
}

func (p talentTreePayload) validate(index int) error {
	if strings.TrimSpace(p.ID) == "" || strings.TrimSpace(p.Name) == "" {
		return invalidDocument("talent_trees", index, "id and name are required")
	}
	return nil
}

func (p talentTreePayload) record() storage.TalentTreeRecord {
	return storage.TalentTreeRecord{
		ID:       strings.TrimSpace(p.ID),
		Name:     strings.TrimSpace(p.Name),
		Excludes: p.Excludes,
	}
}

func (p mentorPayload) validate(index int) error {
	if strings.TrimSpace(p.ID) == "" || strings.TrimSpace(p.Name) == "" {
		return invalidDocument("mentors", index, "id and name are required")
	}
	return nil
}

func (p mentorPayload) record() storage.MentorRecord {
	return storage.MentorRecord{
		ID:            strings.TrimSpace(p.ID),
		Name:          strings.TrimSpace(p.Name),
		Voice:         strings.TrimSpace(p.Voice),
		DefaultLocale: strings.TrimSpace(p.DefaultLocale),
	}
}

func (p grantPayload) validate(index int) error {
	if strings.TrimSpace(p.OptionID) == "" {
		return invalidDocument("grants", index, "option_id is required")
	}
	return nil
}

func (p grantPayload) record() storage.GrantRecord {
	return storage.GrantRecord{
		OptionID: strings.TrimSpace(p.OptionID),
		Note:     strings.TrimSpace(p.Note),
	}
}

func invalidDocument(document string, index int, reason string) error {
	return apperrors.WithMetadata(apperrors.CodeImportInvalidDocument, reason, map[string]string{
		"document": document,
		"index":    strconv.Itoa(index),
	})
}
