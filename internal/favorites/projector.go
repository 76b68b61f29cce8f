// Package favorites derives the ordered favorites list from the persisted
// selection and the station catalog, and notifies subscribers when it
// changes.
package favorites

import (
	"sync"

	"github.com/llehouerou/tuner/internal/catalog"
	"github.com/llehouerou/tuner/internal/selection"
)

// Projector reconciles the selection store with the catalog index. The
// favorites list is the persisted identifier sequence mapped through the
// catalog, in order, with unresolvable identifiers dropped.
type Projector struct {
	mu      sync.Mutex
	store   *selection.Store
	catalog *catalog.Catalog
	current []catalog.Station

	subs   []*Subscription
	subsMu sync.Mutex
}

// NewProjector creates a projector and computes the initial favorites list
// without notifying.
func NewProjector(store *selection.Store, c *catalog.Catalog) *Projector {
	p := &Projector{store: store, catalog: c}
	p.current = p.project()
	return p
}

// Favorites returns the current favorites list.
func (p *Projector) Favorites() []catalog.Station {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]catalog.Station, len(p.current))
	copy(out, p.current)
	return out
}

// IsFavorite reports whether the identifier is currently selected.
func (p *Projector) IsFavorite(id string) bool {
	return p.store.Contains(id)
}

// Toggle adds or removes one identifier, persists the selection, rebuilds
// the favorites list and notifies subscribers. Safe to call from any
// paginated view: the persisted sequence is the source of truth, not the
// rendered page.
func (p *Projector) Toggle(id string, on bool) error {
	if _, err := p.store.Toggle(id, on); err != nil {
		return err
	}
	p.Rebuild()
	return nil
}

// Rebuild recomputes the favorites list from storage and notifies
// subscribers. Notifications carry no payload; subscribers re-pull the
// current list, which keeps rebuilds idempotent.
func (p *Projector) Rebuild() {
	p.mu.Lock()
	p.current = p.project()
	p.mu.Unlock()
	p.notify()
}

func (p *Projector) project() []catalog.Station {
	ids := p.store.Load()
	out := make([]catalog.Station, 0, len(ids))
	for _, id := range ids {
		if st, ok := p.catalog.Lookup(id); ok {
			out = append(out, st)
		}
		// Stale identifiers are silently dropped; not an error condition.
	}
	return out
}

// Subscribe creates a new change subscription.
func (p *Projector) Subscribe() *Subscription {
	p.subsMu.Lock()
	defer p.subsMu.Unlock()
	sub := newSubscription()
	p.subs = append(p.subs, sub)
	return sub
}

// Close shuts down all subscriptions.
func (p *Projector) Close() {
	p.subsMu.Lock()
	defer p.subsMu.Unlock()
	for _, sub := range p.subs {
		sub.close()
	}
	p.subs = nil
}

func (p *Projector) notify() {
	p.subsMu.Lock()
	defer p.subsMu.Unlock()
	for _, sub := range p.subs {
		sub.sendChanged()
	}
}
