package main

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// This file contains unit tests for the hardcover client identifiers
// resolution and user book lookup.

const privacyPayload = `{"me":[{"account_privacy_setting_id":1}]}`

// newTestHardcoverClient builds a client over the given executor with a
// fixed clock. The construction itself performs the privacy round trip.
func newTestHardcoverClient(exec *MockExecutor) *HardcoverClient {
	config := &HardcoverConfig{Token: "test-token", CacheTTL: 167 * time.Hour}
	return NewHardcoverClient(zap.NewNop(), config, exec, NewMockClocker())
}

// TestParseIdentifiersAlreadyResolved ensures a set carrying a numeric
// book id goes through without any remote call.
func TestParseIdentifiersAlreadyResolved(t *testing.T) {
	exec := &MockExecutor{
		ExecuteFunc: func(ctx context.Context, token, query string, variables map[string]any) (json.RawMessage, error) {
			return json.RawMessage(privacyPayload), nil
		},
	}
	hc := newTestHardcoverClient(exec)
	before := exec.CallsCount()

	ids, err := hc.ParseIdentifiers(context.Background(), map[string]string{
		IDKindBook: "123",
		IDKindSlug: "dune",
		"amazon":   "B000",
	})
	assert.NoError(t, err)
	assert.Equal(t, before, exec.CallsCount())
	assert.Equal(t, int64(123), ids.BookID())
	// Foreign identifier kinds are filtered out.
	_, ok := ids["amazon"]
	assert.False(t, ok)
}

// TestParseIdentifiersWithoutSlug ensures the resolution fails fast when
// neither a book id nor a slug is available.
func TestParseIdentifiersWithoutSlug(t *testing.T) {
	exec := &MockExecutor{
		ExecuteFunc: func(ctx context.Context, token, query string, variables map[string]any) (json.RawMessage, error) {
			return json.RawMessage(privacyPayload), nil
		},
	}
	hc := newTestHardcoverClient(exec)
	before := exec.CallsCount()

	_, err := hc.ParseIdentifiers(context.Background(), map[string]string{IDKindISBN: "9780441172719"})
	assert.ErrorIs(t, err, ErrNoUsableIdentifiers)
	assert.Equal(t, before, exec.CallsCount())
}

// TestParseIdentifiersResolvesSlug ensures a slug-only set triggers
// exactly one lookup which populates the book and edition ids.
func TestParseIdentifiersResolvesSlug(t *testing.T) {
	exec := &MockExecutor{}
	exec.ExecuteFunc = func(ctx context.Context, token, query string, variables map[string]any) (json.RawMessage, error) {
		switch query {
		case queryPrivacySetting:
			return json.RawMessage(privacyPayload), nil
		case queryBookIDBySlug:
			assert.Equal(t, "dune", variables["slug"])
			return json.RawMessage(`{"books":[{"id":456,"editions":[{"id":789}]}]}`), nil
		}
		t.Fatalf("unexpected query: %s", query)
		return nil, nil
	}
	hc := newTestHardcoverClient(exec)
	before := exec.CallsCount()

	ids, err := hc.ParseIdentifiers(context.Background(), map[string]string{IDKindSlug: "dune"})
	require.NoError(t, err)
	assert.Equal(t, before+1, exec.CallsCount())
	assert.Equal(t, int64(456), ids.BookID())
	assert.Equal(t, int64(789), ids.EditionID())
}

// TestGetBookIDWithISBN13 ensures a 13-digit isbn switches the lookup to
// the edition narrowing query.
func TestGetBookIDWithISBN13(t *testing.T) {
	exec := &MockExecutor{}
	exec.ExecuteFunc = func(ctx context.Context, token, query string, variables map[string]any) (json.RawMessage, error) {
		switch query {
		case queryPrivacySetting:
			return json.RawMessage(privacyPayload), nil
		case queryBookIDBySlugAndISBN:
			assert.Equal(t, "9780441172719", variables["isbn"])
			return json.RawMessage(`{"books":[{"id":456,"editions":[{"id":111}]}]}`), nil
		}
		t.Fatalf("unexpected query: %s", query)
		return nil, nil
	}
	hc := newTestHardcoverClient(exec)

	bookID, editionID, err := hc.GetBookID(context.Background(), "dune", "9780441172719")
	require.NoError(t, err)
	assert.Equal(t, int64(456), bookID)
	require.NotNil(t, editionID)
	assert.Equal(t, int64(111), *editionID)
}

// TestGetBookIDNotFound ensures an empty lookup maps to ErrBookNotFound.
func TestGetBookIDNotFound(t *testing.T) {
	exec := &MockExecutor{}
	exec.ExecuteFunc = func(ctx context.Context, token, query string, variables map[string]any) (json.RawMessage, error) {
		if query == queryPrivacySetting {
			return json.RawMessage(privacyPayload), nil
		}
		return json.RawMessage(`{"books":[]}`), nil
	}
	hc := newTestHardcoverClient(exec)

	_, _, err := hc.GetBookID(context.Background(), "unknown-slug", "")
	assert.ErrorIs(t, err, ErrBookNotFound)
}

// TestGetUserBookKeying ensures the single lookup is keyed by edition id
// first, then book id, then slug.
func TestGetUserBookKeying(t *testing.T) {
	testCases := []struct {
		name          string
		ids           IdentifierSet
		expectedQuery string
	}{
		{
			"edition id wins",
			IdentifierSet{IDKindBook: "456", IDKindEdition: "789", IDKindSlug: "dune"},
			queryUserBookByEdition,
		},
		{
			"book id next",
			IdentifierSet{IDKindBook: "456", IDKindSlug: "dune"},
			queryUserBookByBook,
		},
		{
			"slug as last resort",
			IdentifierSet{IDKindSlug: "dune"},
			queryUserBookBySlug,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			exec := &MockExecutor{}
			exec.ExecuteFunc = func(ctx context.Context, token, query string, variables map[string]any) (json.RawMessage, error) {
				if query == queryPrivacySetting {
					return json.RawMessage(privacyPayload), nil
				}
				assert.Equal(t, tc.expectedQuery, query)
				return json.RawMessage(`{"me":[{"user_books":[]}]}`), nil
			}
			hc := newTestHardcoverClient(exec)

			book, err := hc.GetUserBook(context.Background(), tc.ids)
			assert.NoError(t, err)
			assert.Nil(t, book)
		})
	}
}

// TestGetUserBookDecodes ensures the remote record including the open
// read sessions is decoded as expected.
func TestGetUserBookDecodes(t *testing.T) {
	exec := &MockExecutor{}
	exec.ExecuteFunc = func(ctx context.Context, token, query string, variables map[string]any) (json.RawMessage, error) {
		if query == queryPrivacySetting {
			return json.RawMessage(privacyPayload), nil
		}
		return json.RawMessage(`{"me":[{"user_books":[{"id":1,"status_id":2,"book_id":456,
			"book":{"slug":"dune","title":"Dune"},"edition":{"id":789,"pages":412},
			"user_book_reads":[{"id":7,"started_at":"2023-06-01","finished_at":null,"edition_id":789,"progress_pages":100}]}]}]}`), nil
	}
	hc := newTestHardcoverClient(exec)

	book, err := hc.GetUserBook(context.Background(), IdentifierSet{IDKindBook: "456"})
	require.NoError(t, err)
	require.NotNil(t, book)
	assert.Equal(t, StatusReading, book.StatusID)
	assert.Equal(t, "Dune", book.Book.Title)
	require.NotNil(t, book.Edition)
	assert.Equal(t, 412, book.Edition.Pages)
	read := book.OpenRead()
	require.NotNil(t, read)
	assert.Equal(t, "2023-06-01", read.StartedAt)
	assert.Nil(t, read.FinishedAt)
}

// TestPrivacyLookupFallback ensures a failed privacy lookup leaves the
// client usable with the public default.
func TestPrivacyLookupFallback(t *testing.T) {
	exec := &MockExecutor{}
	exec.ExecuteFunc = func(ctx context.Context, token, query string, variables map[string]any) (json.RawMessage, error) {
		return nil, ErrGraphQLTransport
	}
	hc := newTestHardcoverClient(exec)
	assert.Equal(t, 1, hc.privacy)
}

// TestPrivacyLookupCustomSetting ensures the fetched setting is kept for
// the client lifetime.
func TestPrivacyLookupCustomSetting(t *testing.T) {
	exec := &MockExecutor{}
	exec.ExecuteFunc = func(ctx context.Context, token, query string, variables map[string]any) (json.RawMessage, error) {
		return json.RawMessage(`{"me":[{"account_privacy_setting_id":3}]}`), nil
	}
	hc := newTestHardcoverClient(exec)
	assert.Equal(t, 3, hc.privacy)
	assert.Equal(t, 1, exec.CallsCount())
}
