package main

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// This file contains unit tests for the metadata search provider.

func newTestProvider(exec *MockExecutor, token string) *HardcoverProvider {
	config := &HardcoverConfig{Token: token, CacheTTL: 167 * time.Hour, SearchPageSize: 50}
	return NewHardcoverProvider(zap.NewNop(), config, exec, NewCodeLanguageResolver())
}

// TestSearchTokenPriority ensures the per-user token wins over the
// global configuration one.
func TestSearchTokenPriority(t *testing.T) {
	exec := &MockExecutor{
		ExecuteFunc: func(ctx context.Context, token, query string, variables map[string]any) (json.RawMessage, error) {
			return json.RawMessage(`{"search":{"results":{"hits":[]}}}`), nil
		},
	}
	p := newTestProvider(exec, "global-token")

	p.Search(context.Background(), "user-token", "dune", "", "en")
	require.Equal(t, 1, exec.CallsCount())
	assert.Equal(t, "user-token", exec.Calls[0].Token)

	p.Search(context.Background(), "", "dune", "", "en")
	require.Equal(t, 2, exec.CallsCount())
	assert.Equal(t, "global-token", exec.Calls[1].Token)
}

// TestSearchWithoutTokenDeactivates ensures a token-less search returns
// empty and flips the provider permanently inactive.
func TestSearchWithoutTokenDeactivates(t *testing.T) {
	t.Setenv("HARDCOVER_TOKEN", "")
	exec := &MockExecutor{
		ExecuteFunc: func(ctx context.Context, token, query string, variables map[string]any) (json.RawMessage, error) {
			t.Fatal("no remote call expected")
			return nil, nil
		},
	}
	p := newTestProvider(exec, "")

	assert.Nil(t, p.Search(context.Background(), "", "dune", "", "en"))
	assert.True(t, p.inactive.Load())

	// A token showing up later does not revive the provider.
	assert.Nil(t, p.Search(context.Background(), "user-token", "dune", "", "en"))
	assert.Equal(t, 0, exec.CallsCount())
}

// TestSearchTokenFromEnvironment ensures the HARDCOVER_TOKEN variable is
// the last resort of the token resolution.
func TestSearchTokenFromEnvironment(t *testing.T) {
	t.Setenv("HARDCOVER_TOKEN", "env-token")
	exec := &MockExecutor{
		ExecuteFunc: func(ctx context.Context, token, query string, variables map[string]any) (json.RawMessage, error) {
			return json.RawMessage(`{"search":{"results":{"hits":[]}}}`), nil
		},
	}
	p := newTestProvider(exec, "")

	p.Search(context.Background(), "", "dune", "", "en")
	require.Equal(t, 1, exec.CallsCount())
	assert.Equal(t, "env-token", exec.Calls[0].Token)
	assert.False(t, p.inactive.Load())
}

// TestSearchTitles ensures hits map to records and a malformed hit never
// suppresses its siblings.
func TestSearchTitles(t *testing.T) {
	payload := `{"search":{"results":{"hits":[
		{"document":{"id":"433567","title":"Dune","slug":"dune","author_names":["Frank Herbert"],
			"featured_series":{"series_name":"Dune","position":1},"rating":4.3,
			"genres":["Science Fiction"],"release_date":"1965","image":{"url":"https://img/dune.png"}}},
		{"nodocument":true},
		{"document":{"id":99,"title":"Dune Messiah","slug":"dune-messiah"}}
	]}}}`
	exec := &MockExecutor{
		ExecuteFunc: func(ctx context.Context, token, query string, variables map[string]any) (json.RawMessage, error) {
			assert.Equal(t, querySearchBooks, query)
			assert.Equal(t, "dune", variables["query"])
			assert.Equal(t, 50, variables["perPage"])
			return json.RawMessage(payload), nil
		},
	}
	p := newTestProvider(exec, "token")

	records := p.Search(context.Background(), "", "dune", "generic.png", "en")
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "433567", first.ID)
	assert.Equal(t, "Dune", first.Title)
	assert.Equal(t, []string{"Frank Herbert"}, first.Authors)
	assert.Equal(t, "https://hardcover.app/books/dune", first.URL)
	assert.Equal(t, "Dune", first.Series)
	assert.Equal(t, float64(1), first.SeriesIndex)
	assert.Equal(t, "https://img/dune.png", first.Cover)
	assert.Equal(t, 4.3, first.Rating)
	assert.Equal(t, []string{"Science Fiction"}, first.Tags)
	assert.Equal(t, "433567", first.Identifiers[IDKindBook])
	assert.Equal(t, "dune", first.Identifiers[IDKindSlug])

	// Numeric ids and missing covers degrade gracefully.
	second := records[1]
	assert.Equal(t, "99", second.ID)
	assert.Equal(t, "generic.png", second.Cover)
}

// TestSearchTitlesQuotedResults ensures a results payload delivered as a
// quoted JSON string still parses.
func TestSearchTitlesQuotedResults(t *testing.T) {
	inner := `{"hits":[{"document":{"id":"1","title":"Dune","slug":"dune"}}]}`
	outer := map[string]any{"search": map[string]any{"results": inner}}
	payload, err := json.Marshal(outer)
	require.NoError(t, err)

	exec := &MockExecutor{
		ExecuteFunc: func(ctx context.Context, token, query string, variables map[string]any) (json.RawMessage, error) {
			return json.RawMessage(payload), nil
		},
	}
	p := newTestProvider(exec, "token")

	records := p.Search(context.Background(), "", "dune", "", "en")
	require.Len(t, records, 1)
	assert.Equal(t, "Dune", records[0].Title)
}

// TestSearchTitlesRemoteFailure ensures a failing search degrades to an
// empty result instead of erroring.
func TestSearchTitlesRemoteFailure(t *testing.T) {
	exec := &MockExecutor{
		ExecuteFunc: func(ctx context.Context, token, query string, variables map[string]any) (json.RawMessage, error) {
			return nil, ErrGraphQLTransport
		},
	}
	p := newTestProvider(exec, "token")
	assert.Nil(t, p.Search(context.Background(), "", "dune", "", "en"))
}

// TestSearchEditions ensures the hardcover-id prefixed query expands the
// edition list, filters audiobooks and maps the format labels.
func TestSearchEditions(t *testing.T) {
	payload := `{"books":[{"id":433567,"title":"Dune","slug":"dune","rating":4.3,
		"description":"Spice and sand.",
		"book_series":[{"series":{"name":"Dune"},"position":1}],
		"cached_tags":[{"tag":"Science Fiction"},{"tag":""}],
		"editions":[
			{"id":1,"title":"","reading_format_id":1,"edition_format":"Hardcover",
				"isbn_13":"9780441172719","isbn_10":"0441172717",
				"contributions":[{"author":{"name":"Frank Herbert"}}],
				"image":{"url":"https://img/e1.png"},
				"language":{"code3":"eng"},"publisher":{"name":"Ace"},"release_date":"1990-09-01"},
			{"id":2,"title":"Dune audio","reading_format_id":2,"edition_format":"Audible"},
			{"id":3,"title":"Dune cd","reading_format_id":2,"edition_format":null},
			{"id":4,"title":"Dune ebook","reading_format_id":4,"edition_format":"Kindle","isbn_13":null,"isbn_10":"0441172717"},
			{"id":5,"title":"Dune odd","reading_format_id":7,"edition_format":"Unknown"},
			{"id":6,"title":"Dune bare"}
		]}]}`
	exec := &MockExecutor{
		ExecuteFunc: func(ctx context.Context, token, query string, variables map[string]any) (json.RawMessage, error) {
			assert.Equal(t, queryBookEditions, query)
			assert.Equal(t, int64(433567), variables["query"])
			return json.RawMessage(payload), nil
		},
	}
	p := newTestProvider(exec, "token")

	records := p.Search(context.Background(), "", "hardcover-id:433567", "generic.png", "en")
	// The audiobook with a format classification is gone, everything else stays.
	require.Len(t, records, 5)

	byEdition := make(map[string]MetaRecord, len(records))
	for _, record := range records {
		byEdition[record.Identifiers[IDKindEdition]] = record
	}
	_, audioDropped := byEdition["2"]
	assert.False(t, audioDropped)

	hardcover := byEdition["1"]
	assert.Equal(t, "Physical Book", hardcover.Format)
	// The edition has no own title, the book title is inherited.
	assert.Equal(t, "Dune", hardcover.Title)
	assert.Equal(t, []string{"Frank Herbert"}, hardcover.Authors)
	assert.Equal(t, "9780441172719", hardcover.Identifiers[IDKindISBN])
	assert.Equal(t, "https://img/e1.png", hardcover.Cover)
	assert.Equal(t, "Ace", hardcover.Publisher)
	assert.Equal(t, []string{"eng"}, hardcover.Languages)
	assert.Equal(t, "Dune", hardcover.Series)
	assert.Equal(t, []string{"Science Fiction"}, hardcover.Tags)
	assert.Equal(t, "Spice and sand.", hardcover.Description)
	assert.Equal(t, "https://hardcover.app/books/dune/editions/1", hardcover.URL)

	// Audio without a format classification is kept, with no label.
	assert.Equal(t, "", byEdition["3"].Format)

	ebook := byEdition["4"]
	assert.Equal(t, "E-Book", ebook.Format)
	assert.Equal(t, "0441172717", ebook.Identifiers[IDKindISBN])

	// Out-of-range and missing format ids map to an empty label.
	assert.Equal(t, "", byEdition["5"].Format)
	assert.Equal(t, "", byEdition["6"].Format)
	assert.Equal(t, "generic.png", byEdition["6"].Cover)
}

// TestSearchEditionsInvalidID ensures a non numeric id short-circuits
// without a remote call.
func TestSearchEditionsInvalidID(t *testing.T) {
	exec := &MockExecutor{
		ExecuteFunc: func(ctx context.Context, token, query string, variables map[string]any) (json.RawMessage, error) {
			t.Fatal("no remote call expected")
			return nil, nil
		},
	}
	p := newTestProvider(exec, "token")
	assert.Nil(t, p.Search(context.Background(), "", "hardcover-id:not-a-number", "", "en"))
}

// TestReadingFormatsTable guards the fixed format label table.
func TestReadingFormatsTable(t *testing.T) {
	testCases := []struct {
		id    int
		label string
	}{
		{0, ""},
		{1, "Physical Book"},
		{2, ""},
		{3, ""},
		{4, "E-Book"},
		{5, ""},
	}
	for _, tc := range testCases {
		t.Run(strconv.Itoa(tc.id), func(t *testing.T) {
			id := tc.id
			e := remoteEdition{ReadingFormatID: &id}
			assert.Equal(t, tc.label, e.formatLabel())
		})
	}
}
