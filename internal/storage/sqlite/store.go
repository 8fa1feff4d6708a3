// Package sqlite provides a SQLite-backed content store implementation.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sagaforge/counsel/internal/platform/id"
	"github.com/sagaforge/counsel/internal/platform/storage/sqlitemigrate"
	"github.com/sagaforge/counsel/internal/storage"
	"github.com/sagaforge/counsel/internal/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists advisory content in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite content store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

func encodeJSON(value any) (string, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("encode json column: %w", err)
	}
	return string(raw), nil
}

func decodeJSON(raw string, target any) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), target); err != nil {
		return fmt.Errorf("decode json column: %w", err)
	}
	return nil
}

// PutArchetype inserts or replaces one archetype record.
func (s *Store) PutArchetype(ctx context.Context, record storage.ArchetypeRecord) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	archetypeID := strings.TrimSpace(record.ID)
	if archetypeID == "" {
		return fmt.Errorf("archetype id is required")
	}
	if strings.TrimSpace(record.Name) == "" {
		return fmt.Errorf("archetype name is required")
	}
	if strings.TrimSpace(record.BaseClass) == "" {
		return fmt.Errorf("archetype base class is required")
	}

	roles, err := encodeJSON(record.Roles)
	if err != nil {
		return err
	}
	prestigeTargets, err := encodeJSON(record.PrestigeTargets)
	if err != nil {
		return err
	}
	attributePriority, err := encodeJSON(record.AttributePriority)
	if err != nil {
		return err
	}
	recommendedFeats, err := encodeJSON(record.RecommendedFeats)
	if err != nil {
		return err
	}
	recommendedTalents, err := encodeJSON(record.RecommendedTalents)
	if err != nil {
		return err
	}
	recommendedSkills, err := encodeJSON(record.RecommendedSkills)
	if err != nil {
		return err
	}
	kindWeights, err := encodeJSON(record.KindWeights)
	if err != nil {
		return err
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT OR REPLACE INTO archetypes (
		   id, name, base_class, roles, prestige_targets, attribute_priority,
		   recommended_feats, recommended_talents, recommended_skills,
		   kind_weights, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		archetypeID,
		strings.TrimSpace(record.Name),
		strings.TrimSpace(record.BaseClass),
		roles,
		prestigeTargets,
		attributePriority,
		recommendedFeats,
		recommendedTalents,
		recommendedSkills,
		kindWeights,
		time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("put archetype: %w", err)
	}
	return nil
}

// ListArchetypes returns all archetype records ordered by id.
func (s *Store) ListArchetypes(ctx context.Context) ([]storage.ArchetypeRecord, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, name, base_class, roles, prestige_targets, attribute_priority,
		        recommended_feats, recommended_talents, recommended_skills, kind_weights
		   FROM archetypes ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list archetypes: %w", err)
	}
	defer rows.Close()

	var records []storage.ArchetypeRecord
	for rows.Next() {
		var record storage.ArchetypeRecord
		var roles, prestigeTargets, attributePriority string
		var recommendedFeats, recommendedTalents, recommendedSkills, kindWeights string
		if err := rows.Scan(
			&record.ID,
			&record.Name,
			&record.BaseClass,
			&roles,
			&prestigeTargets,
			&attributePriority,
			&recommendedFeats,
			&recommendedTalents,
			&recommendedSkills,
			&kindWeights,
		); err != nil {
			return nil, fmt.Errorf("scan archetype: %w", err)
		}
		if err := decodeJSON(roles, &record.Roles); err != nil {
			return nil, err
		}
		if err := decodeJSON(prestigeTargets, &record.PrestigeTargets); err != nil {
			return nil, err
		}
		if err := decodeJSON(attributePriority, &record.AttributePriority); err != nil {
			return nil, err
		}
		if err := decodeJSON(recommendedFeats, &record.RecommendedFeats); err != nil {
			return nil, err
		}
		if err := decodeJSON(recommendedTalents, &record.RecommendedTalents); err != nil {
			return nil, err
		}
		if err := decodeJSON(recommendedSkills, &record.RecommendedSkills); err != nil {
			return nil, err
		}
		if err := decodeJSON(kindWeights, &record.KindWeights); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate archetypes: %w", err)
	}
	return records, nil
}

// PutTalentTree inserts or replaces one talent tree record.
func (s *Store) PutTalentTree(ctx context.Context, record storage.TalentTreeRecord) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	treeID := strings.TrimSpace(record.ID)
	if treeID == "" {
		return fmt.Errorf("talent tree id is required")
	}
	if strings.TrimSpace(record.Name) == "" {
		return fmt.Errorf("talent tree name is required")
	}
	excludes, err := encodeJSON(record.Excludes)
	if err != nil {
		return err
	}
	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT OR REPLACE INTO talent_trees (id, name, excludes, updated_at)
		 VALUES (?, ?, ?, ?)`,
		treeID,
		strings.TrimSpace(record.Name),
		excludes,
		time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("put talent tree: %w", err)
	}
	return nil
}

// ListTalentTrees returns all talent tree records ordered by id.
func (s *Store) ListTalentTrees(ctx context.Context) ([]storage.TalentTreeRecord, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT id, name, excludes FROM talent_trees ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list talent trees: %w", err)
	}
	defer rows.Close()

	var records []storage.TalentTreeRecord
	for rows.Next() {
		var record storage.TalentTreeRecord
		var excludes string
		if err := rows.Scan(&record.ID, &record.Name, &excludes); err != nil {
			return nil, fmt.Errorf("scan talent tree: %w", err)
		}
		if err := decodeJSON(excludes, &record.Excludes); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate talent trees: %w", err)
	}
	return records, nil
}

// PutMentor inserts or replaces one mentor record.
func (s *Store) PutMentor(ctx context.Context, record storage.MentorRecord) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	mentorID := strings.TrimSpace(record.ID)
	if mentorID == "" {
		return fmt.Errorf("mentor id is required")
	}
	if strings.TrimSpace(record.Name) == "" {
		return fmt.Errorf("mentor name is required")
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT OR REPLACE INTO mentors (id, name, voice, default_locale, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		mentorID,
		strings.TrimSpace(record.Name),
		strings.TrimSpace(record.Voice),
		strings.TrimSpace(record.DefaultLocale),
		time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("put mentor: %w", err)
	}
	return nil
}

// ListMentors returns all mentor records ordered by id.
func (s *Store) ListMentors(ctx context.Context) ([]storage.MentorRecord, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT id, name, voice, default_locale FROM mentors ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list mentors: %w", err)
	}
	defer rows.Close()

	var records []storage.MentorRecord
	for rows.Next() {
		var record storage.MentorRecord
		if err := rows.Scan(&record.ID, &record.Name, &record.Voice, &record.DefaultLocale); err != nil {
			return nil, fmt.Errorf("scan mentor: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mentors: %w", err)
	}
	return records, nil
}

// PutHouseruleGrant inserts or replaces one houserule grant.
func (s *Store) PutHouseruleGrant(ctx context.Context, record storage.GrantRecord) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	optionID := strings.TrimSpace(record.OptionID)
	if optionID == "" {
		return fmt.Errorf("grant option id is required")
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT OR REPLACE INTO houserule_grants (option_id, note, updated_at)
		 VALUES (?, ?, ?)`,
		optionID,
		strings.TrimSpace(record.Note),
		time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("put houserule grant: %w", err)
	}
	return nil
}

// ListHouseruleGrants returns all houserule grants ordered by option id.
func (s *Store) ListHouseruleGrants(ctx context.Context) ([]storage.GrantRecord, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT option_id, note FROM houserule_grants ORDER BY option_id`)
	if err != nil {
		return nil, fmt.Errorf("list houserule grants: %w", err)
	}
	defer rows.Close()

	var records []storage.GrantRecord
	for rows.Next() {
		var record storage.GrantRecord
		if err := rows.Scan(&record.OptionID, &record.Note); err != nil {
			return nil, fmt.Errorf("scan houserule grant: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate houserule grants: %w", err)
	}
	return records, nil
}

// AppendTelemetryEvent records one telemetry event.
func (s *Store) AppendTelemetryEvent(ctx context.Context, evt storage.TelemetryEvent) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(evt.Event) == "" {
		return fmt.Errorf("telemetry event name is required")
	}
	attributes, err := encodeJSON(evt.Attributes)
	if err != nil {
		return err
	}
	eventID := strings.TrimSpace(evt.ID)
	if eventID == "" {
		eventID, err = id.NewID()
		if err != nil {
			return fmt.Errorf("generate telemetry event id: %w", err)
		}
	}
	timestamp := evt.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}
	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO telemetry_events (id, timestamp, severity, event, attributes)
		 VALUES (?, ?, ?, ?, ?)`,
		eventID,
		timestamp.UTC().UnixMilli(),
		strings.TrimSpace(evt.Severity),
		strings.TrimSpace(evt.Event),
		attributes,
	)
	if err != nil {
		return fmt.Errorf("append telemetry event: %w", err)
	}
	return nil
}
