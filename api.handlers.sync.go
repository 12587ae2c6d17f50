package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// SearchMetadata serves metadata search results for a free-text or
// `hardcover-id:` prefixed query. The per-user token travels in the
// X-Hardcover-Token header. A failed or empty search is not an error
// at this level, the client always gets a well-formed list.
func (api *APIHandler) SearchMetadata(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	q := r.URL.Query()
	query := q.Get("query")
	if query == "" {
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to search metadata", missingFieldError("query").Error())
		if err := WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	locale := q.Get("locale")
	if locale == "" {
		locale = "en"
	}

	records := api.metadataService.Search(r.Context(), r.Header.Get(UserTokenHeader), query, q.Get("cover"), locale)
	if records == nil {
		records = []MetaRecord{}
	}
	api.logger.Info("success to search metadata",
		zap.String("request.id", requestID),
		zap.String("search.query", query),
		zap.Int("search.total", len(records)),
	)
	total := len(records)
	resp := GenericResponse(requestID, http.StatusOK, "Metadata records fetched successfully.", &total, records)
	if err := WriteResponse(w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// ReportProgress accepts a reading-position change event and enqueues it
// for asynchronous reconciliation with the remote account. The handler
// answers 202 on enqueue, the sync outcome lands in the journal.
func (api *APIHandler) ReportProgress(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	event := ProgressEvent{}
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	err := DecodeProgressEventRequestBody(r, &event)
	if err != nil {
		api.logger.Error("failed to report progress", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to report the reading progress", event)
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	err = ValidateProgressEventRequestBody(&event)
	if err != nil {
		api.logger.Error("failed to report progress", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to report the reading progress", err.Error())
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	event, err = api.syncService.QueueProgress(r.Context(), event)
	if err != nil {
		api.logger.Error("failed to queue progress event", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to queue the reading progress", event)
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to queue progress event",
		zap.String("request.id", requestID),
		zap.String("event.id", event.ID),
		zap.Int("event.percent", event.Percent),
	)
	resp := GenericResponse(requestID, http.StatusAccepted, "Reading progress queued successfully.", nil, event)
	if err = WriteResponse(w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetSyncJournal lists the outcomes of processed progress events.
func (api *APIHandler) GetSyncJournal(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	records, err := api.syncService.Journal(r.Context())
	if err != nil {
		api.logger.Error("failed to get sync journal", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to get the sync journal", EmptyData)
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	total := len(records)
	resp := GenericResponse(requestID, http.StatusOK, "Sync journal fetched successfully.", &total, records)
	if err = WriteResponse(w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetAuthorInfo serves the author details matching the given slug.
func (api *APIHandler) GetAuthorInfo(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	slug := ps.ByName("slug")
	author, err := api.syncService.AuthorInfo(r.Context(), slug)
	if err != nil {
		api.logger.Error("failed to get author info", zap.String("author.slug", slug), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadGateway, "failed to get the author info", EmptyData)
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if author == nil {
		errResp := NewAPIError(requestID, http.StatusNotFound, "author does not exist", EmptyData)
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	resp := GenericResponse(requestID, http.StatusOK, "Author info fetched successfully.", nil, author)
	if err = WriteResponse(w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetOtherAuthorBooks serves the author bibliography minus the titles
// already present in the local library.
func (api *APIHandler) GetOtherAuthorBooks(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	slug := ps.ByName("slug")
	books, err := api.syncService.OtherAuthorBooks(r.Context(), slug)
	if err != nil {
		api.logger.Error("failed to get author books", zap.String("author.slug", slug), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadGateway, "failed to get the author books", EmptyData)
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	total := len(books)
	resp := GenericResponse(requestID, http.StatusOK, "Author books fetched successfully.", &total, books)
	if err = WriteResponse(w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}
