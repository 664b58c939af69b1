// Package history keeps a bounded, file-backed list of sent requests.
// Starred items are never evicted; the newest unstarred items fill the rest
// of the capacity.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"api-relay-go/internal/model"
)

// MaxItems bounds the history.
const MaxItems = 50

// ErrNotFound is returned for an unknown item id.
var ErrNotFound = errors.New("history: item not found")

// Item is one recorded request and, when it completed, its response.
type Item struct {
	ID        string              `json:"id"`
	Timestamp int64               `json:"timestamp"` // unix milliseconds
	Method    string              `json:"method"`
	URL       string              `json:"url"`
	Request   model.Draft         `json:"request"`
	Response  *model.ResponseData `json:"response,omitempty"`
	Name      string              `json:"name,omitempty"`
	Starred   bool                `json:"starred"`
}

// Time returns the item's timestamp.
func (i Item) Time() time.Time {
	return time.UnixMilli(i.Timestamp)
}

// Store is a history persisted as JSON to a single file.
type Store struct {
	path   string
	logger *slog.Logger

	now   func() time.Time
	newID func() string
	write func(path string, data []byte) error

	mu    sync.Mutex
	items []Item
}

// Open loads the history at path. A missing file yields an empty history;
// an unreadable one is logged and replaced on the next save.
func Open(path string, logger *slog.Logger) (*Store, error) {
	s := &Store{
		path:   path,
		logger: logger.With("component", "history"),
		now:    time.Now,
		newID:  uuid.NewString,
		write:  writeFileAtomic,
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("history: read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &s.items); err != nil {
		s.logger.Warn("discarding unreadable history", "path", path, "err", err)
		s.items = nil
	}
	return s, nil
}

// List returns a copy of the items, newest first.
func (s *Store) List() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Get returns the item with the given id.
func (s *Store) Get(id string) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(id); i >= 0 {
		return s.items[i], true
	}
	return Item{}, false
}

// Add records a request and its response (nil if it never completed).
func (s *Store) Add(req model.Draft, resp *model.ResponseData) (Item, error) {
	item := Item{
		ID:        s.newID(),
		Timestamp: s.now().UnixMilli(),
		Method:    req.NormalizedMethod(),
		URL:       req.URL,
		Request:   req,
		Response:  resp,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	starred, rest := partition(s.items)
	rest = append([]Item{item}, rest...)
	if limit := max(MaxItems-len(starred), 0); len(rest) > limit {
		rest = rest[:limit]
	}

	items := append(starred, rest...)
	slices.SortStableFunc(items, func(a, b Item) int {
		switch {
		case a.Timestamp > b.Timestamp:
			return -1
		case a.Timestamp < b.Timestamp:
			return 1
		}
		return 0
	})

	s.items = items
	return item, s.save()
}

// Remove deletes one item.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return ErrNotFound
	}
	s.items = slices.Delete(s.items, i, i+1)
	return s.save()
}

// Clear deletes every unstarred item.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items, _ = partition(s.items)
	return s.save()
}

// ToggleStar flips the starred flag and returns the new value.
func (s *Store) ToggleStar(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return false, ErrNotFound
	}
	s.items[i].Starred = !s.items[i].Starred
	return s.items[i].Starred, s.save()
}

// Rename sets the display name of an item.
func (s *Store) Rename(id, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return ErrNotFound
	}
	s.items[i].Name = name
	return s.save()
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.items, func(it Item) bool { return it.ID == id })
}

// save persists the items. When the full list cannot be written it retries
// with the starred items plus the newest half of the capacity, then with the
// starred items alone. The in-memory list is left intact. Callers hold mu.
func (s *Store) save() error {
	err := s.persist(s.items)
	if err == nil {
		return nil
	}
	s.logger.Error("failed to save history", "path", s.path, "err", err)

	starred, rest := partition(s.items)
	reduced := append(slices.Clone(starred), rest[:min(len(rest), MaxItems/2)]...)
	if err := s.persist(reduced); err == nil {
		return nil
	}
	if err := s.persist(starred); err != nil {
		return fmt.Errorf("history: save %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) persist(items []Item) error {
	if items == nil {
		items = []Item{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.write(s.path, data)
}

// partition splits items into starred and unstarred, preserving order.
func partition(items []Item) (starred, rest []Item) {
	starred = []Item{}
	for _, it := range items {
		if it.Starred {
			starred = append(starred, it)
		} else {
			rest = append(rest, it)
		}
	}
	return starred, rest
}

// writeFileAtomic replaces path with data via a temp file and rename.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".history-*.json")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
