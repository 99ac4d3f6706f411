package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleEvalAll evaluates every flag of the tenant against the request
// context and returns the id-to-value map.
func (a *api) handleEvalAll(w http.ResponseWriter, r *http.Request) {
	req, err := decodeEvalRequest(r)
	if err != nil {
		writeErrorCode(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	doc, err := a.tenantStore(r).GetData(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}

	values := a.evaluator.EvaluateAll(doc.Flags, doc.Segments, buildContext(r, req))
	writeJSON(w, http.StatusOK, values)
}

// handleEvalOne evaluates a single flag by id.
func (a *api) handleEvalOne(w http.ResponseWriter, r *http.Request) {
	req, err := decodeEvalRequest(r)
	if err != nil {
		writeErrorCode(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	doc, err := a.tenantStore(r).GetData(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	flag, ok := doc.Flags[id]
	if !ok {
		writeErrorCode(w, http.StatusNotFound, "FLAG_NOT_FOUND", "flag not found: "+id)
		return
	}

	value := a.evaluator.Evaluate(flag, doc.Segments, buildContext(r, req))
	writeJSON(w, http.StatusOK, value)
}

// decodeEvalRequest tolerates an empty body: an anonymous evaluation
// with no attributes is a valid request.
func decodeEvalRequest(r *http.Request) (evalRequest, error) {
	var req evalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return evalRequest{}, errors.New("malformed request body")
	}
	return req, nil
}
