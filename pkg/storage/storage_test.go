package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Name  string  `json:"name"`
	Count float64 `json:"count"`
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSetGet(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Set("fridge:1", record{Name: "牛乳", Count: 1.5}))

	var got record
	require.NoError(t, s.Get("fridge:1", &got))
	assert.Equal(t, record{Name: "牛乳", Count: 1.5}, got)
}

func TestGetMissingKey(t *testing.T) {
	s := newTestStore(t)

	var got record
	err := s.Get("fridge:missing", &got)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "fridge:missing")
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Set("k", record{Name: "x"}))
	require.NoError(t, s.Delete("k"))

	var got record
	assert.ErrorIs(t, s.Get("k", &got), ErrNotFound)
}

func TestListByPrefix(t *testing.T) {
	s := newTestStore(t)
	for _, k := range []string{"menu:a:2", "menu:a:1", "menu:b:1", "fridge:a"} {
		require.NoError(t, s.Set(k, record{Name: k}))
	}

	keys, err := s.List("menu:a:")
	require.NoError(t, err)
	assert.Equal(t, []string{"menu:a:1", "menu:a:2"}, keys)

	keys, err = s.List("nothing:")
	require.NoError(t, err)
	assert.Empty(t, keys)
}
