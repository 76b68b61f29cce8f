// Package selection owns the persisted set of favorited station identifiers
// and the chosen page size.
//
// The identifier sequence is the source of truth for favorites order; it is
// serialized verbatim as a JSON array under a single storage key. Duplicates
// never occur: the one mutation entry point (Toggle) enforces set semantics.
package selection

import (
	"encoding/json"
	"strconv"

	"github.com/llehouerou/tuner/internal/errmsg"
	"github.com/llehouerou/tuner/internal/state"
)

const (
	favoritesKey   = "favoriteStationIds"
	pageSizeKey    = "pageSize"
	lastStationKey = "lastStationId"
)

// DefaultPageSize is used when no valid page size is stored.
const DefaultPageSize = 10

// AllowedPageSizes is the enumerated set of valid page sizes.
var AllowedPageSizes = []int{10, 20, 50, 100}

// Store reads and writes the persisted selection. All operations are
// synchronous with no side effects beyond the underlying storage.
type Store struct {
	state state.Interface

	// warning holds the latest recoverable storage complaint until the UI
	// collects it with TakeWarning.
	warning string
}

// NewStore creates a selection store over the given state backend.
func NewStore(st state.Interface) *Store {
	return &Store{state: st}
}

// Load returns the persisted identifier sequence in order. A missing key or
// malformed content yields an empty sequence and records a warning; Load
// never fails the caller for corrupt storage, it is overwritten on the next
// successful Save.
func (s *Store) Load() []string {
	raw, ok, err := s.state.Get(favoritesKey)
	if err != nil || !ok {
		return nil
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		s.warning = errmsg.Format(errmsg.OpSelectionLoad, err)
		return nil
	}
	return ids
}

// TakeWarning returns and clears the latest recoverable storage complaint,
// empty when nothing went wrong since the last call.
func (s *Store) TakeWarning() string {
	w := s.warning
	s.warning = ""
	return w
}

// Save serializes and writes the identifier sequence as a total overwrite.
func (s *Store) Save(ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return s.state.Set(favoritesKey, string(raw))
}

// Toggle adds or removes one identifier and persists the result. Adding an
// already-present identifier or removing an absent one leaves the sequence
// unchanged. Returns the updated sequence.
func (s *Store) Toggle(id string, on bool) ([]string, error) {
	ids := s.Load()

	if on {
		for _, existing := range ids {
			if existing == id {
				return ids, nil
			}
		}
		ids = append(ids, id)
	} else {
		kept := ids[:0]
		for _, existing := range ids {
			if existing != id {
				kept = append(kept, existing)
			}
		}
		ids = kept
	}

	if err := s.Save(ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// Contains reports whether the identifier is currently selected.
func (s *Store) Contains(id string) bool {
	for _, existing := range s.Load() {
		if existing == id {
			return true
		}
	}
	return false
}

// LoadPageSize returns the persisted page size, falling back to
// DefaultPageSize when the stored value is absent, non-numeric or not among
// AllowedPageSizes.
func (s *Store) LoadPageSize() int {
	raw, ok, err := s.state.Get(pageSizeKey)
	if err != nil || !ok {
		return DefaultPageSize
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return DefaultPageSize
	}
	for _, allowed := range AllowedPageSizes {
		if n == allowed {
			return n
		}
	}
	return DefaultPageSize
}

// SavePageSize writes the page size as its decimal string.
func (s *Store) SavePageSize(n int) error {
	return s.state.Set(pageSizeKey, strconv.Itoa(n))
}

// LoadLastStation returns the identifier of the station that was centered
// when the previous session ended, empty when none was recorded.
func (s *Store) LoadLastStation() string {
	raw, ok, err := s.state.Get(lastStationKey)
	if err != nil || !ok {
		return ""
	}
	return raw
}

// SaveLastStation records the centered station identifier.
func (s *Store) SaveLastStation(id string) error {
	return s.state.Set(lastStationKey, id)
}
