// Package importer loads advisor content documents into the sqlite content
// store.
//
// A content directory holds up to four JSON documents: archetypes.json,
// talent_trees.json, mentors.json, and grants.json. Each is a JSON array of
// records. Missing documents are skipped; invalid ones abort the import
// before anything is written.
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/sagaforge/counsel/internal/errors"
	"github.com/sagaforge/counsel/internal/storage"
	storagesqlite "github.com/sagaforge/counsel/internal/storage/sqlite"
)

// Document filenames recognized inside a content directory.
const (
	archetypesFile  = "archetypes.json"
	talentTreesFile = "talent_trees.json"
	mentorsFile     = "mentors.json"
	grantsFile      = "grants.json"
)

// Config holds configuration for the content importer.
type Config struct {
	Dir    string
	DBPath string
	DryRun bool
}

// ParseConfig parses CLI flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{
		DBPath: filepath.Join("data", "counsel-content.db"),
	}

	fs.StringVar(&cfg.Dir, "dir", "", "directory containing content documents")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "content database path")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "validate without writing to the database")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if strings.TrimSpace(cfg.Dir) == "" {
		return Config{}, errors.New("dir is required")
	}

	return cfg, nil
}

type documents struct {
	archetypes []archetypePayload
	trees      []talentTreePayload
	mentors    []mentorPayload
	grants     []grantPayload
}

// Run executes the importer using the provided Config.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if out == nil {
		out = io.Discard
	}

	dir := strings.TrimSpace(cfg.Dir)
	if dir == "" {
		return errors.New("dir is required")
	}

	docs, err := readDocuments(dir)
	if err != nil {
		return err
	}
	total := len(docs.archetypes) + len(docs.trees) + len(docs.mentors) + len(docs.grants)
	if total == 0 {
		return fmt.Errorf("no content documents found in %s", dir)
	}
	if err := validateDocuments(docs); err != nil {
		return err
	}

	if cfg.DryRun {
		_, err = fmt.Fprintf(out, "validated %d record(s)\n", total)
		return err
	}

	store, err := storagesqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open content store: %w", err)
	}
	defer store.Close()

	if err := writeDocuments(ctx, store, docs); err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "imported %d archetype(s), %d talent tree(s), %d mentor(s), %d grant(s) into %s\n",
		len(docs.archetypes), len(docs.trees), len(docs.mentors), len(docs.grants), cfg.DBPath)
	return err
}

func readDocuments(dir string) (documents, error) {
	var docs documents
	if err := readDocument(dir, archetypesFile, &docs.archetypes); err != nil {
		return documents{}, err
	}
	if err := readDocument(dir, talentTreesFile, &docs.trees); err != nil {
		return documents{}, err
	}
	if err := readDocument(dir, mentorsFile, &docs.mentors); err != nil {
		return documents{}, err
	}
	if err := readDocument(dir, grantsFile, &docs.grants); err != nil {
		return documents{}, err
	}
	return docs, nil
}

func readDocument(dir, name string, target any) error {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return apperrors.Wrap(apperrors.CodeImportInvalidDocument, "parse "+name, err)
	}
	return nil
}

func validateDocuments(docs documents) error {
	for i, payload := range docs.archetypes {
		if err := payload.validate(i); err != nil {
			return err
		}
	}
	for i, payload := range docs.trees {
		if err := payload.validate(i); err != nil {
			return err
		}
	}
	for i, payload := range docs.mentors {
		if err := payload.validate(i); err != nil {
			return err
		}
	}
	for i, payload := range docs.grants {
		if err := payload.validate(i); err != nil {
			return err
		}
	}
	return nil
}

func writeDocuments(ctx context.Context, store storage.ContentWriteStore, docs documents) error {
	for _, payload := range docs.archetypes {
		if err := store.PutArchetype(ctx, payload.record()); err != nil {
			return fmt.Errorf("import archetype %s: %w", payload.ID, err)
		}
	}
	for _, payload := range docs.trees {
		if err := store.PutTalentTree(ctx, payload.record()); err != nil {
			return fmt.Errorf("import talent tree %s: %w", payload.ID, err)
		}
	}
	for _, payload := range docs.mentors {
		if err := store.PutMentor(ctx, payload.record()); err != nil {
			return fmt.Errorf("import mentor %s: %w", payload.ID, err)
		}
	}
	for _, payload := range docs.grants {
		if err := store.PutHouseruleGrant(ctx, payload.record()); err != nil {
			return fmt.Errorf("import grant %s: %w", payload.OptionID, err)
		}
	}
	return nil
}
