// Package store holds the in-memory application state: the ordered todo
// collection plus the UI-facing flags (loading, error, filter, sort).
// Every transition is synchronous; the one asynchronous operation (the
// remote load) is split into Begin/Apply/Fail so an event-loop UI can run
// the fetch as a command and feed the result back in.
package store

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/yberkay/tudu/internal/model"
)

// Fetcher loads the seed todo list from somewhere remote.
type Fetcher interface {
	FetchTodos(ctx context.Context) ([]model.Todo, error)
}

// Store is not safe for concurrent use; all mutation is expected to happen
// on one logical thread of control (the Bubble Tea update loop or a
// one-shot CLI command).
type Store struct {
	items   []model.Todo
	loading bool
	errMsg  string
	filter  model.Filter
	sortBy  model.SortBy

	now    func() time.Time
	lastID int64
	log    zerolog.Logger
}

// Option tunes a Store at construction time.
type Option func(*Store)

// WithClock injects the time source. Tests use this to make ids and
// timestamps deterministic.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

func New(opts ...Option) *Store {
	s := &Store{
		now: time.Now,
		log: zerolog.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Items returns a copy of the full collection in insertion order.
func (s *Store) Items() []model.Todo {
	out := make([]model.Todo, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Len() int             { return len(s.items) }
func (s *Store) Loading() bool        { return s.loading }
func (s *Store) Err() string          { return s.errMsg }
func (s *Store) Filter() model.Filter { return s.filter }
func (s *Store) SortBy() model.SortBy { return s.sortBy }

// Visible derives the filtered, sorted view of the collection.
func (s *Store) Visible() []model.Todo {
	return model.Visible(s.items, s.filter, s.sortBy)
}

// Add front-inserts a fresh todo with a unique id and both timestamps set
// to now. Title validation (non-empty, length) is the caller's job; the
// store takes what it is given.
func (s *Store) Add(title string) model.Todo {
	now := s.now()
	t := model.Todo{
		ID:        s.nextID(now),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.items = append([]model.Todo{t}, s.items...)
	s.log.Debug().Int64("id", t.ID).Msg("todo added")
	return t
}

// Toggle flips completion for id and touches UpdatedAt.
// Missing ids are a silent no-op.
func (s *Store) Toggle(id int64) bool {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Completed = !s.items[i].Completed
			s.touch(&s.items[i])
			return true
		}
	}
	return false
}

// Edit replaces the title for id and touches UpdatedAt.
// Missing ids are a silent no-op.
func (s *Store) Edit(id int64, title string) bool {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Title = title
			s.touch(&s.items[i])
			return true
		}
	}
	return false
}

// Delete removes the todo for id and returns it for undo purposes.
func (s *Store) Delete(id int64) (model.Todo, bool) {
	for i := range s.items {
		if s.items[i].ID == id {
			t := s.items[i]
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.log.Debug().Int64("id", id).Msg("todo deleted")
			return t, true
		}
	}
	return model.Todo{}, false
}

// Restore re-inserts a previously deleted todo at the front, keeping its
// original id and timestamps. No-op if the id is already present.
func (s *Store) Restore(t model.Todo) bool {
	for i := range s.items {
		if s.items[i].ID == t.ID {
			return false
		}
	}
	s.items = append([]model.Todo{t}, s.items...)
	return true
}

func (s *Store) SetFilter(f model.Filter)  { s.filter = f }
func (s *Store) SetSortBy(by model.SortBy) { s.sortBy = by }

func (s *Store) ClearError() { s.errMsg = "" }

// BeginLoad marks a load in flight and clears any previous error.
func (s *Store) BeginLoad() {
	s.loading = true
	s.errMsg = ""
}

// ApplyLoad replaces the collection wholesale with the fetched set.
func (s *Store) ApplyLoad(items []model.Todo) {
	s.items = make([]model.Todo, len(items))
	copy(s.items, items)
	s.loading = false
	s.errMsg = ""
	s.log.Debug().Int("count", len(items)).Msg("load applied")
}

// FailLoad records the load failure, leaving items untouched.
func (s *Store) FailLoad(err error) {
	s.loading = false
	if err != nil {
		s.errMsg = err.Error()
	} else {
		s.errMsg = "load failed"
	}
	s.log.Debug().Str("error", s.errMsg).Msg("load failed")
}

// Load runs the full fetch cycle synchronously. The TUI drives the same
// transitions itself so the fetch can run as a background command.
func (s *Store) Load(ctx context.Context, f Fetcher) error {
	s.BeginLoad()
	items, err := f.FetchTodos(ctx)
	if err != nil {
		s.FailLoad(err)
		return err
	}
	s.ApplyLoad(items)
	return nil
}

// nextID assigns a millisecond-clock id, bumped past anything already
// issued or present so ids stay unique even under same-tick adds.
func (s *Store) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	for s.hasID(id) {
		id++
	}
	s.lastID = id
	return id
}

func (s *Store) hasID(id int64) bool {
	for i := range s.items {
		if s.items[i].ID == id {
			return true
		}
	}
	return false
}

// touch bumps UpdatedAt, never letting it run backwards.
func (s *Store) touch(t *model.Todo) {
	u := s.now()
	if u.Before(t.CreatedAt) {
		u = t.CreatedAt
	}
	if u.Before(t.UpdatedAt) {
		u = t.UpdatedAt
	}
	t.UpdatedAt = u
}
