package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yberkay/tudu/internal/model"
)

func TestFetchTodosSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"title":"x","completed":false,"userId":1}]`))
	}))
	defer srv.Close()

	stamp := time.Unix(1_700_000_000, 0).UTC()
	c := New(srv.URL, WithClock(func() time.Time { return stamp }))

	got, err := c.FetchTodos(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.Todo{
		ID:        1,
		Title:     "x",
		Completed: false,
		UserID:    1,
		CreatedAt: stamp,
		UpdatedAt: stamp,
	}, got[0])
}

func TestFetchTodosServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "kaboom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.FetchTodos(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
	assert.Contains(t, err.Error(), "500")
}

func TestFetchTodosBadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"an array"`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.FetchTodos(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode body")
}

func TestFetchTodosSendsUserIDAndToken(t *testing.T) {
	var gotUserID, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = r.URL.Query().Get("userId")
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithUserID(7), WithToken("sekrit"))
	items, err := c.FetchTodos(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, "7", gotUserID)
	assert.Equal(t, "Bearer sekrit", gotAuth)
}

func TestFetchTodosClampsLongTitles(t *testing.T) {
	long := strings.Repeat("a", model.MaxTitleLen+50)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":9,"title":"` + long + `","completed":true,"userId":2}]`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	got, err := c.FetchTodos(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Len(t, got[0].Title, model.MaxTitleLen)
	assert.True(t, got[0].Completed)
}

func TestFetchTodosBadURL(t *testing.T) {
	c := New("http://\x7f bad url")
	_, err := c.FetchTodos(context.Background())
	require.Error(t, err)
}

func TestFetchTodosContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(srv.URL)
	_, err := c.FetchTodos(ctx)
	require.Error(t, err)
}
