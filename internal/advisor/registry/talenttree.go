package registry

import (
	"context"
	"strings"
	"sync"

	"github.com/sagaforge/counsel/internal/storage"
)

// TalentTree is a loaded talent tree definition.
type TalentTree struct {
	ID       string
	Name     string
	Excludes []string
}

// defaultTreeExclusions preserves the pre-data-driven behavior: the duelist
// and berserker trees are mutually exclusive unless content overrides them.
var defaultTreeExclusions = map[string][]string{
	"tree_duelist":   {"tree_berserker"},
	"tree_berserker": {"tree_duelist"},
}

// TalentTreeAuthority caches talent tree definitions and answers exclusion
// queries with a layered fallback: data-driven entry by id, lookup by
// display name, then the hardcoded default table.
type TalentTreeAuthority struct {
	mu          sync.RWMutex
	initialized bool
	trees       map[string]TalentTree
	byName      map[string]string
	warn        WarnFunc
	warned      map[string]bool
}

// NewTalentTreeAuthority creates an empty authority. A nil warn function
// logs through the standard logger.
func NewTalentTreeAuthority(warn WarnFunc) *TalentTreeAuthority {
	if warn == nil {
		warn = defaultWarn
	}
	return &TalentTreeAuthority{
		trees:  map[string]TalentTree{},
		byName: map[string]string{},
		warn:   warn,
		warned: map[string]bool{},
	}
}

// Initialize loads all talent tree records once. Repeated calls are no-ops.
// Malformed records are skipped with a warning, never fatal.
func (a *TalentTreeAuthority) Initialize(ctx context.Context, store storage.ContentReadStore) error {
	if store == nil {
		return ErrNilStore
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.initialized {
		return nil
	}

	records, err := store.ListTalentTrees(ctx)
	if err != nil {
		return err
	}

	trees := make(map[string]TalentTree, len(records))
	byName := make(map[string]string, len(records))
	for _, record := range records {
		id := strings.TrimSpace(record.ID)
		name := strings.TrimSpace(record.Name)
		if id == "" || name == "" {
			a.warn("registry.malformed_talent_tree", map[string]string{"id": record.ID, "name": record.Name})
			continue
		}
		trees[id] = TalentTree{ID: id, Name: name, Excludes: record.Excludes}
		byName[strings.ToLower(name)] = id
	}

	a.trees = trees
	a.byName = byName
	a.initialized = true
	return nil
}

// IsInitialized reports whether the authority has completed its load.
func (a *TalentTreeAuthority) IsInitialized() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.initialized
}

// Get returns the tree for an id.
func (a *TalentTreeAuthority) Get(id string) (TalentTree, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	tree, ok := a.trees[id]
	return tree, ok
}

// GetAll returns every loaded tree.
func (a *TalentTreeAuthority) GetAll() []TalentTree {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]TalentTree, 0, len(a.trees))
	for _, tree := range a.trees {
		out = append(out, tree)
	}
	return out
}

// Exclusions resolves the trees mutually exclusive with the given tree.
//
// Resolution tiers, first hit wins: a data-driven entry for the id, a loaded
// tree whose display name matches, then the hardcoded default table. With no
// match anywhere the result is an empty list, never an error.
func (a *TalentTreeAuthority) Exclusions(treeID string) []string {
	key := strings.TrimSpace(treeID)
	if key == "" {
		return nil
	}

	a.mu.RLock()
	initialized := a.initialized
	tree, byID := a.trees[key]
	nameID, byDisplayName := a.byName[strings.ToLower(key)]
	if byDisplayName {
		tree = a.trees[nameID]
	}
	a.mu.RUnlock()

	if !initialized {
		a.warnOnce("registry.not_ready", map[string]string{"registry": "talent_tree"})
	} else {
		if byID {
			return append([]string(nil), tree.Excludes...)
		}
		if byDisplayName {
			a.warnOnce("registry.tree_name_fallback|"+key, map[string]string{"tree": key})
			return append([]string(nil), tree.Excludes...)
		}
	}

	if defaults, ok := defaultTreeExclusions[key]; ok {
		a.warnOnce("registry.tree_default_exclusions|"+key, map[string]string{"tree": key})
		return append([]string(nil), defaults...)
	}
	return nil
}

func (a *TalentTreeAuthority) warnOnce(key string, attributes map[string]string) {
	a.mu.Lock()
	already := a.warned[key]
	if !already {
		a.warned[key] = true
	}
	a.mu.Unlock()
	if !already {
		event := key
		if idx := strings.IndexByte(key, '|'); idx >= 0 {
			event = key[:idx]
		}
		a.warn(event, attributes)
	}
}
