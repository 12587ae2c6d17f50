package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// TestMiddlewaresStacks ensures we get both public and ops middlewares
// stacks with exact number of elements in those stacks.
func TestMiddlewaresStacks(t *testing.T) {
	api := NewAPIHandler(zap.NewNop(), nil, &Statistics{started: time.Now()}, NewMockClocker(), NewMockUIDHandler("uid", true), nil, nil, nil)
	pub, ops := api.MiddlewaresStacks()
	assert.Equal(t, 7, len(*pub))
	assert.Equal(t, 6, len(*ops))
}

// TestChain ensures each middleware in the stack is called as well the handler.
func TestChain(t *testing.T) {
	var ca, cb, cc, ch bool
	queue := make(chan int, 4)

	middlewareA := func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			queue <- 1
			ca = true
			next(w, r, ps)
		}
	}
	middlewareB := func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			queue <- 2
			cb = true
			next(w, r, ps)
		}
	}
	middlewareC := func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			queue <- 3
			cc = true
			next(w, r, ps)
		}
	}
	middlewares := Middlewares{
		middlewareA,
		middlewareB,
		middlewareC,
	}

	handler := func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		queue <- 4
		ch = true
	}

	chained := (&middlewares).Chain(handler)
	req := httptest.NewRequest("GET", "/v1/library", nil)
	w := httptest.NewRecorder()
	chained(w, req, nil)

	t.Run("check calling", func(t *testing.T) {
		assert.Equal(t, true, ca)
		assert.Equal(t, true, cb)
		assert.Equal(t, true, cc)
		assert.Equal(t, true, ch)
	})

	t.Run("check ordering", func(t *testing.T) {
		assert.Equal(t, 1, <-queue)
		assert.Equal(t, 2, <-queue)
		assert.Equal(t, 3, <-queue)
		assert.Equal(t, 4, <-queue)
	})
}

// TestRequestsCounterMiddleware ensures the request counter increment.
func TestRequestsCounterMiddleware(t *testing.T) {
	api := NewAPIHandler(zap.NewNop(), nil, &Statistics{started: time.Now(), called: 0}, NewMockClocker(), NewMockUIDHandler("uid", true), nil, nil, nil)
	req := httptest.NewRequest("GET", "/v1/library", nil)
	w := httptest.NewRecorder()
	var called bool
	handler := func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
		called = true
	}
	wrapped := api.RequestsCounterMiddleware(handler)
	wrapped(w, req, nil)
	assert.Equal(t, true, called)
	assert.Equal(t, uint64(1), api.stats.called)
}

// TestRequestIDMiddleware ensures each request context carries the
// generated id.
func TestRequestIDMiddleware(t *testing.T) {
	api := NewAPIHandler(zap.NewNop(), nil, &Statistics{started: time.Now()}, NewMockClocker(), NewMockUIDHandler("fixed-uid", true), nil, nil, nil)
	req := httptest.NewRequest("GET", "/v1/library", nil)
	w := httptest.NewRecorder()
	var gotID string
	handler := func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
		gotID = GetValueFromContext(req.Context(), RequestIDContextKey)
	}
	wrapped := api.RequestIDMiddleware(handler)
	wrapped(w, req, nil)
	assert.Equal(t, "r:fixed-uid", gotID)
}

// TestMaintenanceMiddleware ensures public traffic is refused with 503
// while the mode is enabled.
func TestMaintenanceMiddleware(t *testing.T) {
	api := NewAPIHandler(zap.NewNop(), nil, &Statistics{started: time.Now()}, NewMockClocker(), NewMockUIDHandler("uid", true), nil, nil, nil)
	var called bool
	handler := func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
		called = true
	}
	wrapped := api.MaintenanceMiddleware(handler)

	api.mode.message = "upgrading the storage"
	api.mode.started = time.Now().UTC()
	api.mode.enabled.Store(true)
	w := httptest.NewRecorder()
	wrapped(w, httptest.NewRequest("GET", "/v1/library", nil), nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.False(t, called)

	api.mode.enabled.Store(false)
	w = httptest.NewRecorder()
	wrapped(w, httptest.NewRequest("GET", "/v1/library", nil), nil)
	assert.True(t, called)
}

// TestStatusRecorderMiddleware ensures final status codes land in the
// per-status counters.
func TestStatusRecorderMiddleware(t *testing.T) {
	api := NewAPIHandler(zap.NewNop(), nil, &Statistics{started: time.Now()}, NewMockClocker(), NewMockUIDHandler("uid", true), nil, nil, nil)
	handler := func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
		w.WriteHeader(http.StatusTeapot)
	}
	wrapped := api.StatusRecorderMiddleware(handler)
	wrapped(httptest.NewRecorder(), httptest.NewRequest("GET", "/v1/library", nil), nil)
	wrapped(httptest.NewRecorder(), httptest.NewRequest("GET", "/v1/library", nil), nil)
	api.stats.mu.RLock()
	defer api.stats.mu.RUnlock()
	assert.Equal(t, uint64(2), api.stats.status[http.StatusTeapot])
}

// TestPanicRecoveryMiddleware ensures a panicking handler still answers
// the client with a 500.
func TestPanicRecoveryMiddleware(t *testing.T) {
	api := NewAPIHandler(zap.NewNop(), nil, &Statistics{started: time.Now()}, NewMockClocker(), NewMockUIDHandler("uid", true), nil, nil, nil)
	handler := func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
		panic("boom")
	}
	wrapped := api.PanicRecoveryMiddleware(handler)
	w := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		wrapped(w, httptest.NewRequest("GET", "/v1/library", nil), nil)
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
