package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-formbuilder/pkg/document"
	"github.com/goliatone/go-formbuilder/pkg/lifecycle"
)

type createFormRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	OwnerID     string `json:"ownerId"`
}

type contentRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleCreateForm(w http.ResponseWriter, r *http.Request) {
	var req createFormRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "MISSING_NAME", "name is required")
		return
	}

	form := &lifecycle.Form{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     req.OwnerID,
	}
	if err := s.store.CreateForm(r.Context(), form); err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, form)
}

func (s *Server) handleListForms(w http.ResponseWriter, r *http.Request) {
	forms, err := s.store.ListForms(r.Context(), r.URL.Query().Get("owner"))
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	if forms == nil {
		forms = []*lifecycle.Form{}
	}
	writeJSON(w, http.StatusOK, forms)
}

func (s *Server) handleGetForm(w http.ResponseWriter, r *http.Request) {
	form, err := s.store.GetForm(r.Context(), chi.URLParam(r, "formID"))
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// handleUpdateContent is the builder path: content must parse as a document
// and the form must still be a draft.
func (s *Server) handleUpdateContent(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
		return
	}

	if _, err := document.Deserialize(req.Content, s.fields); err != nil {
		storeErrorToHTTP(w, err)
		return
	}

	form, err := s.store.GetForm(r.Context(), chi.URLParam(r, "formID"))
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	if err := form.UpdateContent(req.Content); err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	if err := s.store.UpdateForm(r.Context(), form); err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	form, err := s.store.GetForm(r.Context(), chi.URLParam(r, "formID"))
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	if err := form.Publish(); err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	if err := s.store.UpdateForm(r.Context(), form); err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

func (s *Server) handleReplacePublishedContent(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
		return
	}

	if _, err := document.Deserialize(req.Content, s.fields); err != nil {
		storeErrorToHTTP(w, err)
		return
	}

	form, err := s.store.GetForm(r.Context(), chi.URLParam(r, "formID"))
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	if err := form.ReplacePublishedContent(req.Content); err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	if err := s.store.UpdateForm(r.Context(), form); err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	form, err := s.store.GetForm(r.Context(), chi.URLParam(r, "formID"))
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form.Stats())
}

func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	formID := chi.URLParam(r, "formID")
	if _, err := s.store.GetForm(r.Context(), formID); err != nil {
		storeErrorToHTTP(w, err)
		return
	}

	attempts, err := s.store.ListAttempts(r.Context(), formID)
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	if attempts == nil {
		attempts = []*lifecycle.Attempt{}
	}
	writeJSON(w, http.StatusOK, attempts)
}

func (s *Server) handleExportOpenAPI(w http.ResponseWriter, r *http.Request) {
	form, err := s.store.GetForm(r.Context(), chi.URLParam(r, "formID"))
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}

	raw, err := s.exporter.ExportJSON(r.Context(), form)
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(raw)
}
