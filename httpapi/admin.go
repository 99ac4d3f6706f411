package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/flaggly/flaggly/engine"
	"github.com/flaggly/flaggly/segment"
	"github.com/flaggly/flaggly/store"
)

// handleGetData returns the tenant's full document: all flags and
// segments, as stored.
func (a *api) handleGetData(w http.ResponseWriter, r *http.Request) {
	doc, err := a.tenantStore(r).GetData(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (a *api) handlePutFlag(w http.ResponseWriter, r *http.Request) {
	var flag engine.Flag
	if err := json.NewDecoder(r.Body).Decode(&flag); err != nil {
		writeErrorCode(w, http.StatusBadRequest, "INVALID_INPUT", "malformed request body")
		return
	}

	doc, err := a.tenantStore(r).PutFlag(r.Context(), flag)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (a *api) handleUpdateFlag(w http.ResponseWriter, r *http.Request) {
	var update store.FlagUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeErrorCode(w, http.StatusBadRequest, "INVALID_INPUT", "malformed request body")
		return
	}

	doc, err := a.tenantStore(r).UpdateFlag(r.Context(), chi.URLParam(r, "id"), update)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (a *api) handleDeleteFlag(w http.ResponseWriter, r *http.Request) {
	doc, err := a.tenantStore(r).DeleteFlag(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

type putSegmentRequest struct {
	ID   string       `json:"id"`
	Rule segment.Rule `json:"rule"`
}

func (a *api) handlePutSegment(w http.ResponseWriter, r *http.Request) {
	var req putSegmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorCode(w, http.StatusBadRequest, "INVALID_INPUT", "malformed request body")
		return
	}

	doc, err := a.tenantStore(r).PutSegment(r.Context(), req.ID, req.Rule)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (a *api) handleDeleteSegment(w http.ResponseWriter, r *http.Request) {
	doc, err := a.tenantStore(r).DeleteSegment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}
