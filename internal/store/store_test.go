package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yberkay/tudu/internal/model"
)

// fakeClock hands out a controllable, optionally frozen time.
type fakeClock struct {
	t    time.Time
	step time.Duration
}

func (c *fakeClock) now() time.Time {
	t := c.t
	c.t = c.t.Add(c.step)
	return t
}

func newTestStore(step time.Duration) (*Store, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0).UTC(), step: step}
	return New(WithClock(clock.now)), clock
}

type stubFetcher struct {
	items []model.Todo
	err   error
}

func (f stubFetcher) FetchTodos(_ context.Context) ([]model.Todo, error) {
	return f.items, f.err
}

func TestAddFrontInserts(t *testing.T) {
	st, _ := newTestStore(time.Second)
	st.Add("first")
	st.Add("second")

	items := st.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "second", items[0].Title)
	assert.Equal(t, "first", items[1].Title)
}

func TestAddStampsBothTimestamps(t *testing.T) {
	st, _ := newTestStore(time.Second)
	got := st.Add("buy milk")

	assert.False(t, got.CreatedAt.IsZero())
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)
	assert.False(t, got.Completed)
}

// Same-tick adds must still produce unique ids.
func TestIDsUniqueUnderFrozenClock(t *testing.T) {
	st, _ := newTestStore(0)
	seen := map[int64]bool{}
	for i := 0; i < 50; i++ {
		id := st.Add("x").ID
		require.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
}

func TestIDsUniqueUnderMixedOps(t *testing.T) {
	st, _ := newTestStore(0)
	a := st.Add("a")
	b := st.Add("b")
	st.Toggle(a.ID)
	st.Delete(b.ID)
	st.Edit(a.ID, "a2")
	c := st.Add("c")
	d := st.Add("d")

	seen := map[int64]bool{}
	for _, it := range st.Items() {
		require.False(t, seen[it.ID])
		seen[it.ID] = true
	}
	assert.NotEqual(t, c.ID, d.ID)
}

func TestToggleTwiceRestoresCompletion(t *testing.T) {
	st, _ := newTestStore(time.Second)
	added := st.Add("task")

	require.True(t, st.Toggle(added.ID))
	afterOne := st.Items()[0]
	assert.True(t, afterOne.Completed)
	assert.True(t, afterOne.UpdatedAt.After(added.UpdatedAt))

	require.True(t, st.Toggle(added.ID))
	afterTwo := st.Items()[0]
	assert.False(t, afterTwo.Completed)
	assert.False(t, afterTwo.UpdatedAt.Before(afterOne.UpdatedAt))
}

// UpdatedAt never runs backwards, even if the clock does.
func TestUpdatedAtMonotonic(t *testing.T) {
	st, clock := newTestStore(time.Second)
	added := st.Add("task")

	clock.t = added.CreatedAt.Add(-time.Hour) // clock jumped back
	require.True(t, st.Toggle(added.ID))

	got := st.Items()[0]
	assert.False(t, got.UpdatedAt.Before(got.CreatedAt))
	assert.False(t, got.UpdatedAt.Before(added.UpdatedAt))
}

func TestEditReplacesTitle(t *testing.T) {
	st, _ := newTestStore(time.Second)
	added := st.Add("tpyo")

	require.True(t, st.Edit(added.ID, "typo"))
	got := st.Items()[0]
	assert.Equal(t, "typo", got.Title)
	assert.True(t, got.UpdatedAt.After(added.UpdatedAt))
	assert.Equal(t, added.ID, got.ID)
}

func TestMissingIDsAreNoOps(t *testing.T) {
	st, _ := newTestStore(time.Second)
	st.Add("keep me")
	before := st.Items()

	assert.False(t, st.Toggle(999))
	assert.False(t, st.Edit(999, "nope"))
	_, ok := st.Delete(999)
	assert.False(t, ok)

	assert.Equal(t, before, st.Items())
}

func TestDeleteThenReferencingIDIsNoOp(t *testing.T) {
	st, _ := newTestStore(time.Second)
	a := st.Add("a")
	st.Add("b")

	_, ok := st.Delete(a.ID)
	require.True(t, ok)

	assert.False(t, st.Toggle(a.ID))
	assert.False(t, st.Edit(a.ID, "zombie"))
	_, ok = st.Delete(a.ID)
	assert.False(t, ok)
	require.Len(t, st.Items(), 1)
}

func TestRestore(t *testing.T) {
	st, _ := newTestStore(time.Second)
	a := st.Add("a")
	st.Add("b")

	deleted, ok := st.Delete(a.ID)
	require.True(t, ok)

	require.True(t, st.Restore(deleted))
	items := st.Items()
	require.Len(t, items, 2)
	assert.Equal(t, a.ID, items[0].ID)

	// restoring again would duplicate the id
	assert.False(t, st.Restore(deleted))
}

func TestSetFilterAndSortBy(t *testing.T) {
	st, _ := newTestStore(time.Second)
	st.SetFilter(model.FilterDone)
	st.SetSortBy(model.SortByID)
	assert.Equal(t, model.FilterDone, st.Filter())
	assert.Equal(t, model.SortByID, st.SortBy())
}

func TestVisibleAppliesFilterAndSort(t *testing.T) {
	st, _ := newTestStore(time.Second)
	a := st.Add("a")
	b := st.Add("b")
	st.Add("c")
	st.Toggle(a.ID)

	st.SetFilter(model.FilterActive)
	st.SetSortBy(model.SortByID)

	got := st.Visible()
	require.Len(t, got, 2)
	assert.Equal(t, b.ID, got[0].ID)
	assert.True(t, got[0].ID < got[1].ID)
}

func TestLoadSuccessReplacesItems(t *testing.T) {
	st, _ := newTestStore(time.Second)
	st.Add("local leftover")

	stamp := time.Unix(1_800_000_000, 0).UTC()
	fetched := []model.Todo{
		{ID: 1, Title: "x", Completed: false, UserID: 1, CreatedAt: stamp, UpdatedAt: stamp},
	}

	err := st.Load(context.Background(), stubFetcher{items: fetched})
	require.NoError(t, err)

	assert.False(t, st.Loading())
	assert.Empty(t, st.Err())
	require.Len(t, st.Items(), 1)
	assert.Equal(t, fetched[0], st.Items()[0])
}

func TestLoadFailureKeepsItems(t *testing.T) {
	st, _ := newTestStore(time.Second)
	st.Add("survivor")
	before := st.Items()

	err := st.Load(context.Background(), stubFetcher{err: errors.New("boom")})
	require.Error(t, err)

	assert.False(t, st.Loading())
	assert.Contains(t, st.Err(), "boom")
	assert.Equal(t, before, st.Items())
}

func TestBeginLoadClearsPreviousError(t *testing.T) {
	st, _ := newTestStore(time.Second)
	st.FailLoad(errors.New("first failure"))
	require.NotEmpty(t, st.Err())

	st.BeginLoad()
	assert.True(t, st.Loading())
	assert.Empty(t, st.Err())
}

func TestClearError(t *testing.T) {
	st, _ := newTestStore(time.Second)
	st.FailLoad(nil)
	assert.Equal(t, "load failed", st.Err())
	st.ClearError()
	assert.Empty(t, st.Err())
}

// Items returns a copy; callers cannot reach into store state.
func TestItemsReturnsCopy(t *testing.T) {
	st, _ := newTestStore(time.Second)
	st.Add("original")

	leaked := st.Items()
	leaked[0].Title = "tampered"

	assert.Equal(t, "original", st.Items()[0].Title)
}
