// pattern: Imperative Shell

package layout

import (
	"encoding/json"
	"fmt"

	"panedit/internal/logging"
)

// Keys under which the layout is stored.
const (
	KeyPaneSizes = "pane-sizes"
	KeyOpenTabs  = "open-tabs"
	KeyGroups    = "editor-groups"
)

// KV is the key-value storage the layout is persisted to.
type KV interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
}

// GroupSnapshot is the serialized form of one pane.
type GroupSnapshot struct {
	ID        string    `json:"id"`
	Tabs      []TabItem `json:"tabs"`
	ActiveTab *TabItem  `json:"activeTab"`
}

// Snapshot is a read-only copy of the whole layout.
type Snapshot struct {
	Groups      []GroupSnapshot `json:"groups"`
	ActiveGroup string          `json:"activeGroup"`
	Sizes       []PaneSize      `json:"sizes,omitempty"`
}

// Snapshot copies the current layout, including the ratios of live panes.
func (s *Store) Snapshot() Snapshot {
	snap := Snapshot{
		Groups:      make([]GroupSnapshot, 0, len(s.groups)),
		ActiveGroup: s.active,
		Sizes:       s.sizes.Entries(s.GroupIDs()),
	}
	for _, g := range s.groups {
		gs := GroupSnapshot{ID: g.ID, Tabs: append([]TabItem{}, g.Tabs...)}
		if !g.Active.IsZero() {
			active := g.Active
			gs.ActiveTab = &active
		}
		snap.Groups = append(snap.Groups, gs)
	}
	return snap
}

// Restore replaces the layout with a snapshot, repairing it on the way in:
// panes without an id or with a repeated id are skipped, zero and repeated
// tabs are dropped, an invalid shown tab falls back to the first tab, empty
// panes are dropped while others remain, and panes past the cap are
// ignored. An unusable snapshot leaves the store as it was. Ratios are not
// touched; they are loaded separately.
func (s *Store) Restore(snap Snapshot) bool {
	var groups []*Group
	ids := make(map[string]bool)
	owned := make(map[TabItem]bool)

	for _, gs := range snap.Groups {
		if gs.ID == "" || ids[gs.ID] || len(groups) >= s.maxGroups {
			continue
		}
		g := &Group{ID: gs.ID}
		for _, t := range gs.Tabs {
			if t.IsZero() || owned[t] {
				continue
			}
			owned[t] = true
			g.Tabs = append(g.Tabs, t)
		}
		if gs.ActiveTab != nil && g.IndexOf(*gs.ActiveTab) >= 0 {
			g.Active = *gs.ActiveTab
		} else if len(g.Tabs) > 0 {
			g.Active = g.Tabs[0]
		}
		ids[gs.ID] = true
		groups = append(groups, g)
	}

	nonEmpty := groups[:0:0]
	for _, g := range groups {
		if len(g.Tabs) > 0 {
			nonEmpty = append(nonEmpty, g)
		}
	}
	if len(nonEmpty) > 0 {
		groups = nonEmpty
	} else if len(groups) > 1 {
		groups = groups[:1]
	}
	if len(groups) == 0 {
		return false
	}

	s.groups = groups
	s.active = groups[0].ID
	if s.group(snap.ActiveGroup) != nil {
		s.active = snap.ActiveGroup
	}
	return true
}

// OpenDocumentIDs returns the ids of open note tabs across all panes in
// display order, each listed once.
func (s *Store) OpenDocumentIDs() []string {
	var ids []string
	seen := make(map[string]bool)
	for _, g := range s.groups {
		for _, t := range g.Tabs {
			if t.Kind != KindNote || seen[t.ID] {
				continue
			}
			seen[t.ID] = true
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// Persister writes the layout to a KV store on every change and reads it back
// at startup.
type Persister struct {
	kv     KV
	logger *logging.ScopedLogger
}

// NewPersister returns a persister over kv.
func NewPersister(kv KV, logger *logging.ScopedLogger) *Persister {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Persister{kv: kv, logger: logger}
}

// Load restores panes and ratios into s. Missing or corrupt entries are
// treated as empty.
func (p *Persister) Load(s *Store) {
	var snap Snapshot
	if p.read(KeyGroups, &snap) {
		if !s.Restore(snap) {
			p.logger.Warn("stored layout unusable, starting fresh")
		}
	}

	var sizes []PaneSize
	if p.read(KeyPaneSizes, &sizes) {
		live := s.GroupIDs()
		s.sizes.Load(sizes)
		s.sizes.Prune(live)
	}
	p.logger.Debug("layout loaded", "groups", s.Len())
}

// Save writes panes, ratios and the open document list.
func (p *Persister) Save(s *Store) error {
	snap := s.Snapshot()
	sizes := snap.Sizes
	snap.Sizes = nil

	if err := p.write(KeyGroups, snap); err != nil {
		return err
	}
	if err := p.write(KeyPaneSizes, sizes); err != nil {
		return err
	}
	ids := s.OpenDocumentIDs()
	if ids == nil {
		ids = []string{}
	}
	return p.write(KeyOpenTabs, ids)
}

// Attach saves s after every change, logging failures.
func (p *Persister) Attach(s *Store) {
	s.OnChange(func() {
		if err := p.Save(s); err != nil {
			p.logger.Error("failed to persist layout", "error", err)
		}
	})
}

func (p *Persister) read(key string, v any) bool {
	data, ok, err := p.kv.Get(key)
	if err != nil {
		p.logger.Warn("failed to read layout key", "key", key, "error", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		p.logger.Warn("ignoring corrupt layout key", "key", key, "error", err)
		return false
	}
	return true
}

func (p *Persister) write(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := p.kv.Set(key, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
