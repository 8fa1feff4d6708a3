// Package registry provides the immutable, initialize-once content caches
// backing the advisory pipeline: build archetypes and talent-tree authority
// data.
//
// Registries are populated exactly once from the content store at
// process-ready time. Until then every lookup degrades to its hardcoded
// fallback instead of blocking or erroring; after load the caches are
// never mutated, so concurrent reads are always safe.
package registry

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/sagaforge/counsel/internal/advisor/option"
	apperrors "github.com/sagaforge/counsel/internal/errors"
	"github.com/sagaforge/counsel/internal/storage"
)

// ErrNilStore indicates Initialize was called without a content store.
var ErrNilStore = apperrors.New(apperrors.CodeRegistryNilStore, "content store is required")

// WarnFunc receives diagnostic warnings about skipped records and fallbacks.
type WarnFunc func(event string, attributes map[string]string)

func defaultWarn(event string, attributes map[string]string) {
	log.Printf("%s: %v", event, attributes)
}

// PrestigeTarget names a prestige class an archetype works toward.
type PrestigeTarget struct {
	ClassID           string
	RequiredOptionIDs []string
}

// Archetype is a declarative template describing a build direction.
type Archetype struct {
	ID                 string
	Name               string
	BaseClass          string
	Roles              []string
	PrestigeTargets    []PrestigeTarget
	AttributePriority  []string
	RecommendedFeats   []string
	RecommendedTalents []string
	RecommendedSkills  []string
	KindWeights        map[option.Kind]float64
}

// HasRole reports whether the archetype carries the role, case-insensitively.
func (a Archetype) HasRole(role string) bool {
	for _, r := range a.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// ArchetypeRegistry caches build archetypes loaded from the content store.
type ArchetypeRegistry struct {
	mu          sync.RWMutex
	initialized bool
	archetypes  map[string]Archetype
	warn        WarnFunc
	warned      map[string]bool
}

// NewArchetypeRegistry creates an empty registry. A nil warn function logs
// through the standard logger.
func NewArchetypeRegistry(warn WarnFunc) *ArchetypeRegistry {
	if warn == nil {
		warn = defaultWarn
	}
	return &ArchetypeRegistry{
		archetypes: map[string]Archetype{},
		warn:       warn,
		warned:     map[string]bool{},
	}
}

// Initialize loads all archetype records once. Repeated calls are no-ops.
// Malformed records are skipped with a warning, never fatal.
func (r *ArchetypeRegistry) Initialize(ctx context.Context, store storage.ContentReadStore) error {
	if store == nil {
		return ErrNilStore
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.initialized {
		return nil
	}

	records, err := store.ListArchetypes(ctx)
	if err != nil {
		return err
	}

	loaded := make(map[string]Archetype, len(records))
	for _, record := range records {
		archetype, ok := archetypeFromRecord(record)
		if !ok {
			r.warn("registry.malformed_archetype", map[string]string{"id": record.ID, "name": record.Name})
			continue
		}
		loaded[archetype.ID] = archetype
	}

	r.archetypes = loaded
	r.initialized = true
	return nil
}

func archetypeFromRecord(record storage.ArchetypeRecord) (Archetype, bool) {
	id := strings.TrimSpace(record.ID)
	baseClass := strings.TrimSpace(record.BaseClass)
	if id == "" || baseClass == "" {
		return Archetype{}, false
	}

	archetype := Archetype{
		ID:                 id,
		Name:               strings.TrimSpace(record.Name),
		BaseClass:          baseClass,
		Roles:              record.Roles,
		AttributePriority:  record.AttributePriority,
		RecommendedFeats:   record.RecommendedFeats,
		RecommendedTalents: record.RecommendedTalents,
		RecommendedSkills:  record.RecommendedSkills,
	}
	for _, target := range record.PrestigeTargets {
		if strings.TrimSpace(target.ClassID) == "" {
			continue
		}
		archetype.PrestigeTargets = append(archetype.PrestigeTargets, PrestigeTarget{
			ClassID:           target.ClassID,
			RequiredOptionIDs: target.RequiredOptionIDs,
		})
	}
	if len(record.KindWeights) > 0 {
		archetype.KindWeights = make(map[option.Kind]float64, len(record.KindWeights))
		for kind, weight := range record.KindWeights {
			archetype.KindWeights[option.Kind(kind)] = weight
		}
	}
	return archetype, true
}

// IsInitialized reports whether the registry has completed its load.
func (r *ArchetypeRegistry) IsInitialized() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.initialized
}

// Get returns the archetype for an id. Before initialization it degrades to
// a miss and logs once.
func (r *ArchetypeRegistry) Get(id string) (Archetype, bool) {
	r.mu.RLock()
	initialized := r.initialized
	archetype, ok := r.archetypes[id]
	r.mu.RUnlock()

	if !initialized {
		r.warnOnce("registry.not_ready", map[string]string{"registry": "archetype"})
		return Archetype{}, false
	}
	return archetype, ok
}

// GetAll returns every loaded archetype.
func (r *ArchetypeRegistry) GetAll() []Archetype {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Archetype, 0, len(r.archetypes))
	for _, archetype := range r.archetypes {
		out = append(out, archetype)
	}
	return out
}

func (r *ArchetypeRegistry) warnOnce(event string, attributes map[string]string) {
	r.mu.Lock()
	already := r.warned[event]
	if !already {
		r.warned[event] = true
	}
	r.mu.Unlock()
	if !already {
		r.warn(event, attributes)
	}
}
