// Package counsel parses advisor command flags and runs a pool evaluation.
package counsel

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sagaforge/counsel/internal/advisor/mentor"
	"github.com/sagaforge/counsel/internal/advisor/option"
	"github.com/sagaforge/counsel/internal/advisor/prereq"
	"github.com/sagaforge/counsel/internal/advisor/registry"
	"github.com/sagaforge/counsel/internal/advisor/service"
	"github.com/sagaforge/counsel/internal/advisor/tier"
	entrypoint "github.com/sagaforge/counsel/internal/platform/cmd"
	storagesqlite "github.com/sagaforge/counsel/internal/storage/sqlite"
	"github.com/sagaforge/counsel/internal/telemetry"
)

// Config holds counsel command configuration.
type Config struct {
	DBPath      string `env:"COUNSEL_DB_PATH"`
	MentorID    string `env:"COUNSEL_MENTOR"`
	ActorPath   string
	PoolPath    string
	ArchetypeID string
	Wishlist    string
	Bias        string
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{}
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join("data", "counsel-content.db")
	}

	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "content database path")
	fs.StringVar(&cfg.ActorPath, "actor", "", "path to the actor state document")
	fs.StringVar(&cfg.PoolPath, "pool", "", "path to the candidate pool document")
	fs.StringVar(&cfg.ArchetypeID, "archetype", "", "declared build archetype id")
	fs.StringVar(&cfg.MentorID, "mentor", cfg.MentorID, "mentor personality id")
	fs.StringVar(&cfg.Wishlist, "wishlist", "", "comma-separated wishlist option ids")
	fs.StringVar(&cfg.Bias, "bias", "", "bias weights, e.g. melee=1,tech=0.5")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}

	if strings.TrimSpace(cfg.ActorPath) == "" {
		return Config{}, errors.New("actor is required")
	}
	if strings.TrimSpace(cfg.PoolPath) == "" {
		return Config{}, errors.New("pool is required")
	}

	return cfg, nil
}

// Run evaluates the candidate pool and writes suggestions as JSON.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceCounsel, func(ctx context.Context) error {
		return run(ctx, cfg, out)
	})
}

func run(ctx context.Context, cfg Config, out io.Writer) error {
	actor, err := readActorDocument(cfg.ActorPath)
	if err != nil {
		return err
	}
	pool, err := readPoolDocument(cfg.PoolPath)
	if err != nil {
		return err
	}
	intent, err := buildIntent(cfg)
	if err != nil {
		return err
	}

	store, err := storagesqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open content store: %w", err)
	}
	defer store.Close()

	grants, err := store.ListHouseruleGrants(ctx)
	if err != nil {
		return fmt.Errorf("load houserule grants: %w", err)
	}
	actor.mergeGrants(grants)

	emitter := telemetry.NewEmitter(store)
	warn := func(event string, attributes map[string]string) {
		log.Printf("%s: %v", event, attributes)
		_ = emitter.Emit(ctx, telemetry.SeverityWarn, event, attributes)
	}

	archetypes := registry.NewArchetypeRegistry(warn)
	if err := archetypes.Initialize(ctx, store); err != nil {
		return fmt.Errorf("load archetypes: %w", err)
	}
	trees := registry.NewTalentTreeAuthority(warn)
	if err := trees.Initialize(ctx, store); err != nil {
		return fmt.Errorf("load talent trees: %w", err)
	}

	checker := prereq.NewChecker(warn)
	judge, err := mentor.NewJudge()
	if err != nil {
		return fmt.Errorf("load phrase catalogs: %w", err)
	}

	advisor := service.New(tier.New(archetypes, trees, checker), checker, judge, emitter)
	if err := advisor.LoadMentors(ctx, store); err != nil {
		return fmt.Errorf("load mentors: %w", err)
	}

	suggestions, err := advisor.EvaluatePool(ctx, actor, pool, intent, cfg.MentorID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(suggestionPayloads(suggestions))
}

func buildIntent(cfg Config) (option.BuildIntent, error) {
	intent := option.BuildIntent{ArchetypeID: strings.TrimSpace(cfg.ArchetypeID)}

	for _, id := range strings.Split(cfg.Wishlist, ",") {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			intent.Wishlist = append(intent.Wishlist, trimmed)
		}
	}

	weights, err := parseBiasWeights(cfg.Bias)
	if err != nil {
		return option.BuildIntent{}, err
	}
	intent.BiasWeights = weights
	return intent, nil
}

func parseBiasWeights(raw string) (map[option.BiasKind]float64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}

	weights := map[option.BiasKind]float64{}
	for _, pair := range strings.Split(trimmed, ",") {
		name, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			return nil, fmt.Errorf("bias entry %q must be kind=weight", pair)
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("bias entry %q: %w", pair, err)
		}
		weights[option.BiasKind(strings.TrimSpace(name))] = weight
	}
	return weights, nil
}

func readActorDocument(path string) (*actorDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read actor document: %w", err)
	}
	var doc actorDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse actor document: %w", err)
	}
	return &doc, nil
}

func readPoolDocument(path string) ([]option.CandidateOption, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pool document: %w", err)
	}
	var payloads []candidatePayload
	if err := json.Unmarshal(data, &payloads); err != nil {
		return nil, fmt.Errorf("parse pool document: %w", err)
	}

	pool := make([]option.CandidateOption, 0, len(payloads))
	for _, payload := range payloads {
		pool = append(pool, payload.candidate())
	}
	return pool, nil
}
