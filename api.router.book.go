package main

import (
	"github.com/julienschmidt/httprouter"
)

// SetupLibraryRoutes injects local library related endpoints.
func (api *APIHandler) SetupLibraryRoutes(router *httprouter.Router, m *MiddlewareMap) *httprouter.Router {
	router.RedirectTrailingSlash = true
	router.POST("/v1/library", m.public(api.ImportBook))
	router.GET("/v1/library", m.public(api.GetAllLibraryRecords))
	router.GET("/v1/library/:slug", m.public(api.GetOneLibraryRecord))
	router.DELETE("/v1/library/:slug", m.public(api.DeleteLibraryRecord))
	return router
}
