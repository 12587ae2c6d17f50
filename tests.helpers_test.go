package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// This file contains unit tests for the generic cache and the json tree
// lookup helpers.

func TestTTLCache(t *testing.T) {
	clock := NewMockClocker()
	cache := NewTTLCache[string](clock, time.Hour)

	t.Run("miss on empty cache", func(t *testing.T) {
		_, ok := cache.Get("a")
		assert.False(t, ok)
	})

	t.Run("hit within ttl", func(t *testing.T) {
		cache.Set("a", "value-a")
		v, ok := cache.Get("a")
		assert.True(t, ok)
		assert.Equal(t, "value-a", v)
		assert.Equal(t, 1, cache.Len())
	})

	t.Run("replace at key level", func(t *testing.T) {
		cache.Set("a", "value-b")
		v, ok := cache.Get("a")
		assert.True(t, ok)
		assert.Equal(t, "value-b", v)
		assert.Equal(t, 1, cache.Len())
	})

	t.Run("stale entry evicted on read", func(t *testing.T) {
		clock.MockNow = clock.MockNow.Add(2 * time.Hour)
		_, ok := cache.Get("a")
		assert.False(t, ok)
		assert.Equal(t, 0, cache.Len())
	})
}

func TestJSONTreeLookup(t *testing.T) {
	tree := map[string]any{
		"search": map[string]any{
			"results": map[string]any{
				"hits": []any{"h1", "h2"},
			},
			"total": float64(2),
			"name":  "dune",
			"tags":  []any{"sf", "classic", 42},
		},
	}

	t.Run("nested hit", func(t *testing.T) {
		v, ok := Lookup(tree, "search", "results")
		require.True(t, ok)
		assert.NotNil(t, v)
	})

	t.Run("missing path", func(t *testing.T) {
		_, ok := Lookup(tree, "search", "nothing", "here")
		assert.False(t, ok)
	})

	t.Run("string with default", func(t *testing.T) {
		assert.Equal(t, "dune", LookupString(tree, "fallback", "search", "name"))
		assert.Equal(t, "fallback", LookupString(tree, "fallback", "search", "missing"))
		// A non-string value falls back to the default as well.
		assert.Equal(t, "fallback", LookupString(tree, "fallback", "search", "total"))
	})

	t.Run("float with default", func(t *testing.T) {
		assert.Equal(t, float64(2), LookupFloat(tree, 0, "search", "total"))
		assert.Equal(t, float64(7), LookupFloat(tree, 7, "search", "missing"))
	})

	t.Run("slice", func(t *testing.T) {
		assert.Len(t, LookupSlice(tree, "search", "results", "hits"), 2)
		assert.Nil(t, LookupSlice(tree, "search", "missing"))
	})

	t.Run("strings keeps only string items", func(t *testing.T) {
		assert.Equal(t, []string{"sf", "classic"}, LookupStrings(tree, "search", "tags"))
	})

	t.Run("non map root", func(t *testing.T) {
		_, ok := Lookup("scalar", "key")
		assert.False(t, ok)
	})
}

func TestIdentifierSet(t *testing.T) {
	ids := NewIdentifierSet(map[string]string{
		IDKindBook:    "456",
		IDKindEdition: "789",
		IDKindSlug:    "dune",
		IDKindISBN:    "9780441172719",
		"goodreads":   "123",
	})

	assert.Equal(t, int64(456), ids.BookID())
	assert.Equal(t, int64(789), ids.EditionID())
	assert.Equal(t, "dune", ids.Slug())
	assert.Equal(t, "9780441172719", ids.ISBN())
	_, ok := ids["goodreads"]
	assert.False(t, ok)

	empty := NewIdentifierSet(nil)
	assert.Equal(t, int64(0), empty.BookID())
	assert.Equal(t, int64(0), empty.EditionID())
}
