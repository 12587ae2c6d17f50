package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestRouterAPI(config *Config) *APIHandler {
	searcher := &MockMetadataSearcher{
		SearchFunc: func(ctx context.Context, userToken, query, genericCover, locale string) []MetaRecord {
			return []MetaRecord{}
		},
	}
	queue := &MockQueuer{
		PushFunc: func(ctx context.Context, qid string, event ProgressEvent) error {
			return nil
		},
	}
	journal := &MockSyncJournal{
		GetAllFunc: func(ctx context.Context) ([]SyncRecord, error) {
			return []SyncRecord{}, nil
		},
	}
	authors := &MockAuthorDirectory{
		GetAuthorInfoFunc: func(ctx context.Context, slug string) (*AuthorInfo, error) {
			return &AuthorInfo{Slug: slug}, nil
		},
		GetOtherAuthorBooksFunc: func(ctx context.Context, slug string, owned []string) ([]AuthorBook, error) {
			return []AuthorBook{}, nil
		},
	}
	storage := &MockLibraryStorage{
		AddFunc: func(ctx context.Context, slug string, record MetaRecord) error {
			return nil
		},
		GetOneFunc: func(ctx context.Context, slug string) (MetaRecord, error) {
			return MetaRecord{}, nil
		},
		DeleteFunc: func(ctx context.Context, slug string) error {
			return nil
		},
		GetAllFunc: func(ctx context.Context) ([]MetaRecord, error) {
			return []MetaRecord{}, nil
		},
		SlugsFunc: func(ctx context.Context) ([]string, error) {
			return []string{}, nil
		},
	}
	sync := NewSyncService(zap.NewNop(), config, NewMockClocker(), NewMockUIDHandler("uid", true), authors, queue, journal, storage)
	library := NewLibraryService(zap.NewNop(), config, storage)
	return NewAPIHandler(zap.NewNop(), config, &Statistics{started: time.Now()}, NewMockClocker(), NewMockUIDHandler("uid", true), searcher, sync, library)
}

// TestSetupRoutes ensures all expected endpoints are implemented.
func TestSetupRoutes(t *testing.T) {
	testCases := []struct {
		name        string
		request     *http.Request
		implemented bool
	}{
		{
			"index endpoint",
			httptest.NewRequest(http.MethodGet, "/", nil),
			true,
		},
		{
			"status endpoint",
			httptest.NewRequest(http.MethodGet, "/status", nil),
			true,
		},
		{
			"metadata search endpoint",
			httptest.NewRequest(http.MethodGet, "/v1/metadata/search?query=dune", nil),
			true,
		},
		{
			"report progress endpoint",
			httptest.NewRequest(http.MethodPost, "/v1/sync/progress", nil),
			true,
		},
		{
			"sync journal endpoint",
			httptest.NewRequest(http.MethodGet, "/v1/sync/journal", nil),
			true,
		},
		{
			"author info endpoint",
			httptest.NewRequest(http.MethodGet, "/v1/authors/frank-herbert", nil),
			true,
		},
		{
			"author books endpoint",
			httptest.NewRequest(http.MethodGet, "/v1/authors/frank-herbert/books", nil),
			true,
		},
		{
			"import record endpoint",
			httptest.NewRequest(http.MethodPost, "/v1/library", nil),
			true,
		},
		{
			"fetch all records endpoint",
			httptest.NewRequest(http.MethodGet, "/v1/library", nil),
			true,
		},
		{
			"fetch single record endpoint",
			httptest.NewRequest(http.MethodGet, "/v1/library/dune", nil),
			true,
		},
		{
			"delete record endpoint",
			httptest.NewRequest(http.MethodDelete, "/v1/library/dune", nil),
			true,
		},
		{
			"invalid api endpoint",
			httptest.NewRequest(http.MethodGet, "/v1", nil),
			false,
		},
		{
			"invalid sync endpoint",
			httptest.NewRequest(http.MethodGet, "/sync", nil),
			false,
		},
	}

	api := newTestRouterAPI(&Config{})
	router := httprouter.New()
	m := &MiddlewareMap{public: (&Middlewares{}).Chain, ops: (&Middlewares{}).Chain}
	api.SetupRoutes(router, m)

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, tc.request)
			if tc.implemented {
				assert.NotEqual(t, 404, w.Code)
			} else {
				assert.Equal(t, 404, w.Code)
			}
		})
	}
}

// TestSetupRoutesOpsGate ensures the ops endpoints are present only when
// enabled by the configuration.
func TestSetupRoutesOpsGate(t *testing.T) {
	t.Run("ops disabled", func(t *testing.T) {
		api := newTestRouterAPI(&Config{})
		router := httprouter.New()
		m := &MiddlewareMap{public: (&Middlewares{}).Chain, ops: (&Middlewares{}).Chain}
		api.SetupRoutes(router, m)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ops/stats", nil))
		assert.Equal(t, 404, w.Code)
	})

	t.Run("ops enabled", func(t *testing.T) {
		api := newTestRouterAPI(&Config{OpsEndpointsEnable: true})
		router := httprouter.New()
		m := &MiddlewareMap{public: (&Middlewares{}).Chain, ops: (&Middlewares{}).Chain}
		api.SetupRoutes(router, m)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ops/stats", nil))
		assert.NotEqual(t, 404, w.Code)
	})
}
