package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// ImportBook stores a metadata record into the local library. Records
// are keyed by their hardcover slug which later feeds the bibliography
// exclusion set.
func (api *APIHandler) ImportBook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	record := MetaRecord{}
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	err := DecodeImportRequestBody(r, &record)
	if err != nil {
		api.logger.Error("failed to import record", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to import the record", record)
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	err = ValidateImportRequestBody(&record)
	if err != nil {
		api.logger.Error("failed to import record", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to import the record", err.Error())
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	err = api.libraryService.Import(r.Context(), record)
	if err != nil {
		api.logger.Error("failed to import record", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to import the record", record)
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to import record",
		zap.String("record.slug", record.Identifiers[IDKindSlug]),
		zap.String("request.id", requestID),
	)
	resp := GenericResponse(requestID, http.StatusCreated, "Record imported successfully.", nil, record)
	if err = WriteResponse(w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetAllLibraryRecords lists the whole local library.
func (api *APIHandler) GetAllLibraryRecords(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	records, err := api.libraryService.GetAll(r.Context())
	if err != nil {
		api.logger.Error("failed to get all records", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to get all records", records)
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to get all records", zap.String("request.id", requestID))
	total := len(records)
	resp := GenericResponse(requestID, http.StatusOK, "All records fetched successfully.", &total, records)
	if err = WriteResponse(w, resp); err != nil {
		api.logger.Error("failed to send response", zap.Error(err))
	}
}

// GetOneLibraryRecord retrieves one library record by its slug.
func (api *APIHandler) GetOneLibraryRecord(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	slug := ps.ByName("slug")
	record, err := api.libraryService.GetOne(r.Context(), slug)
	if err == ErrRecordNotFound {
		api.logger.Error("record does not exist", zap.String("record.slug", slug), zap.String("request.id", requestID))
		errResp := NewAPIError(requestID, http.StatusNotFound, "record does not exist", record)
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if err != nil {
		api.logger.Error("failed to get record", zap.String("record.slug", slug), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to get the record", record)
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to get record", zap.String("record.slug", slug), zap.String("request.id", requestID))
	resp := GenericResponse(requestID, http.StatusOK, "Record fetched successfully.", nil, record)
	if err = WriteResponse(w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// DeleteLibraryRecord removes one library record by its slug.
func (api *APIHandler) DeleteLibraryRecord(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	slug := ps.ByName("slug")
	err := api.libraryService.Delete(r.Context(), slug)
	if err == ErrRecordNotFound {
		api.logger.Error("record does not exist", zap.String("record.slug", slug), zap.String("request.id", requestID))
		errResp := NewAPIError(requestID, http.StatusNotFound, "record does not exist", EmptyData)
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if err != nil {
		api.logger.Error("failed to delete record", zap.String("record.slug", slug), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to delete the record", EmptyData)
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to delete record", zap.String("record.slug", slug), zap.String("request.id", requestID))
	resp := GenericResponse(requestID, http.StatusOK, "Record deleted successfully.", nil, EmptyData)
	if err = WriteResponse(w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}
