package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/goliatone/go-formbuilder/internal/storage"
	"github.com/goliatone/go-formbuilder/pkg/document"
	"github.com/goliatone/go-formbuilder/pkg/lifecycle"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/submission"
)

// handleServeForm renders a published form for a visitor. Every request
// counts as a visit; a progressTag query parameter resumes a saved attempt
// and pre-fills its values.
func (s *Server) handleServeForm(w http.ResponseWriter, r *http.Request) {
	shareID := chi.URLParam(r, "shareID")

	form, err := s.store.VisitByShareID(r.Context(), shareID)
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}

	doc, err := document.Deserialize(form.Content, s.fields)
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}

	options := render.Options{Role: render.RoleLiveInput, Theme: s.theme}
	if tag := r.URL.Query().Get("progressTag"); tag != "" {
		attempt, err := s.store.GetAttempt(r.Context(), form.ID, tag)
		if err == nil {
			options.Values = attempt.Values
		} else if !errors.Is(err, storage.ErrNotFound) {
			storeErrorToHTTP(w, err)
			return
		}
	}

	renderer, err := s.renderers.Get(s.publicRenderer)
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}

	out, err := renderer.Render(r.Context(), doc, options)
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}

	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

// handleSubmit accepts a visitor's values. A "final=false" form value saves
// progress without validating; the default is a final submission, which
// validates and, when clean, completes the attempt.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	shareID := chi.URLParam(r, "shareID")

	form, err := s.store.GetFormByShareID(r.Context(), shareID)
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid form body")
		return
	}

	final := !strings.EqualFold(r.PostForm.Get("final"), "false")
	progressTag := r.PostForm.Get("progressTag")

	values := make(map[string]string, len(r.PostForm))
	for key := range r.PostForm {
		switch key {
		case "final", "progressTag", "shareId":
			continue
		}
		values[key] = r.PostForm.Get(key)
	}

	attempt, err := s.store.GetAttempt(r.Context(), form.ID, progressTag)
	if errors.Is(err, storage.ErrNotFound) {
		if progressTag == "" {
			progressTag = uuid.NewString()
		}
		attempt = lifecycle.NewAttempt("", form.ID, progressTag, form.Content)
		err = nil
	}
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}

	if !final {
		if err := attempt.SaveProgress(values); err != nil {
			storeErrorToHTTP(w, err)
			return
		}
		if err := s.store.SaveAttempt(r.Context(), attempt); err != nil {
			storeErrorToHTTP(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"progressTag": attempt.ProgressTag,
			"state":       string(attempt.State),
		})
		return
	}

	doc, err := document.Deserialize(form.Content, s.fields)
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}

	result, err := submission.ValidateAll(s.fields, doc, values)
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	if !result.Valid {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":      "validation failed",
			"code":       "VALIDATION_FAILED",
			"invalidIds": result.InvalidIDs,
		})
		return
	}

	if err := attempt.Complete(values); err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	if err := s.store.SaveAttempt(r.Context(), attempt); err != nil {
		storeErrorToHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"progressTag": attempt.ProgressTag,
		"state":       string(attempt.State),
	})
}
