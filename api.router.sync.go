package main

import (
	"github.com/julienschmidt/httprouter"
)

// SetupSyncRoutes injects metadata search, progress sync and authors endpoints.
func (api *APIHandler) SetupSyncRoutes(router *httprouter.Router, m *MiddlewareMap) *httprouter.Router {
	router.RedirectTrailingSlash = true
	router.GET("/", m.public(api.Index))
	router.GET("/status", m.public(api.Status))
	router.GET("/v1/metadata/search", m.public(api.SearchMetadata))
	router.POST("/v1/sync/progress", m.public(api.ReportProgress))
	router.GET("/v1/sync/journal", m.public(api.GetSyncJournal))
	router.GET("/v1/authors/:slug", m.public(api.GetAuthorInfo))
	router.GET("/v1/authors/:slug/books", m.public(api.GetOtherAuthorBooks))
	return router
}
