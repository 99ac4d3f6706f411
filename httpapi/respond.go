package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/flaggly/flaggly/store"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorCode(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: message}})
}

// writeError maps store errors onto the wire contract. Caller mistakes
// become 4xx with a stable code, everything else is a 500 with the
// failed operation as the code.
func (a *api) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrFlagNotFound):
		writeErrorCode(w, http.StatusNotFound, "FLAG_NOT_FOUND", err.Error())
	case errors.Is(err, store.ErrSegmentNotFound):
		writeErrorCode(w, http.StatusNotFound, "SEGMENT_NOT_FOUND", err.Error())
	case errors.Is(err, store.ErrInvalidInput):
		writeErrorCode(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	case errors.Is(err, store.ErrConflict):
		writeErrorCode(w, http.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, store.ErrGetDataFailed):
		a.serverError(w, "GET_DATA_FAILED", err)
	case errors.Is(err, store.ErrPutFlagFailed):
		a.serverError(w, "PUT_FLAG_FAILED", err)
	case errors.Is(err, store.ErrUpdateFlagFailed):
		a.serverError(w, "UPDATE_FLAG_FAILED", err)
	case errors.Is(err, store.ErrDeleteFlagFailed):
		a.serverError(w, "DELETE_FLAG_FAILED", err)
	case errors.Is(err, store.ErrPutSegmentFailed):
		a.serverError(w, "PUT_SEGMENT_FAILED", err)
	case errors.Is(err, store.ErrDeleteSegmentFailed):
		a.serverError(w, "DELETE_SEGMENT_FAILED", err)
	default:
		a.serverError(w, "INTERNAL", err)
	}
}

func (a *api) serverError(w http.ResponseWriter, code string, err error) {
	a.log.Error("request failed", slog.String("code", code), slog.String("error", err.Error()))
	writeErrorCode(w, http.StatusInternalServerError, code, "internal error")
}
