package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/goliatone/go-formbuilder/internal/storage"
	"github.com/goliatone/go-formbuilder/pkg/document"
	openapiexport "github.com/goliatone/go-formbuilder/pkg/export/openapi"
	"github.com/goliatone/go-formbuilder/pkg/field"
	"github.com/goliatone/go-formbuilder/pkg/lifecycle"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/html"
)

func newTestServer(t *testing.T) (*Server, *storage.MemoryStore) {
	t.Helper()

	store := storage.NewMemoryStore()
	fields := field.NewRegistry()

	renderers := render.NewRegistry()
	htmlRenderer, err := html.New(fields)
	if err != nil {
		t.Fatalf("html.New() error = %v", err)
	}
	renderers.MustRegister(htmlRenderer)

	exporter, err := openapiexport.New(fields)
	if err != nil {
		t.Fatalf("openapi.New() error = %v", err)
	}

	return New(store, fields, renderers, exporter), store
}

func testContent(t *testing.T) string {
	t.Helper()

	reg := field.NewRegistry()
	name, err := reg.MustResolve(field.TypeText).Construct("name").WithLabel("Name").
		WithAttributes(field.TextAttributes{Required: true})
	if err != nil {
		t.Fatalf("WithAttributes() error = %v", err)
	}
	doc, err := document.New(reg.MustResolve(field.TypeTitle).Construct("t1").WithLabel("Survey"), name)
	if err != nil {
		t.Fatalf("document.New() error = %v", err)
	}
	content, err := doc.Serialize()
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	return content
}

func createPublishedForm(t *testing.T, store storage.Store) *lifecycle.Form {
	t.Helper()

	form := &lifecycle.Form{Name: "Survey", OwnerID: "owner-1"}
	if err := form.UpdateContent(testContent(t)); err != nil {
		t.Fatalf("UpdateContent() error = %v", err)
	}
	if err := form.Publish(); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if err := store.CreateForm(context.Background(), form); err != nil {
		t.Fatalf("CreateForm() error = %v", err)
	}
	return form
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestFormLifecycleOverHTTP(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	// create
	rec := doJSON(t, router, http.MethodPost, "/api/forms/", map[string]string{
		"name":    "Survey",
		"ownerId": "owner-1",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body)
	}
	var form lifecycle.Form
	if err := json.Unmarshal(rec.Body.Bytes(), &form); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if form.ID == "" {
		t.Fatal("created form has no id")
	}

	// draft content
	rec = doJSON(t, router, http.MethodPut, "/api/forms/"+form.ID+"/content", map[string]string{
		"content": testContent(t),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update content status = %d, body = %s", rec.Code, rec.Body)
	}

	// publish
	rec = doJSON(t, router, http.MethodPost, "/api/forms/"+form.ID+"/publish", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("publish status = %d, body = %s", rec.Code, rec.Body)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &form); err != nil {
		t.Fatalf("decode publish response: %v", err)
	}
	if form.ShareID == "" || !form.Published {
		t.Fatalf("published form = %+v", form)
	}

	// editing after publish conflicts
	rec = doJSON(t, router, http.MethodPut, "/api/forms/"+form.ID+"/content", map[string]string{
		"content": "[]",
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("post-publish edit status = %d, want 409", rec.Code)
	}

	// the replacement path still works
	rec = doJSON(t, router, http.MethodPut, "/api/forms/"+form.ID+"/published-content", map[string]string{
		"content": testContent(t),
	})
	if rec.Code != http.StatusOK {
		t.Errorf("replace published content status = %d, body = %s", rec.Code, rec.Body)
	}
}

func TestUpdateContentRejectsMalformedDocument(t *testing.T) {
	srv, store := newTestServer(t)
	router := srv.Router()

	form := &lifecycle.Form{Name: "Draft"}
	if err := store.CreateForm(context.Background(), form); err != nil {
		t.Fatalf("CreateForm() error = %v", err)
	}

	rec := doJSON(t, router, http.MethodPut, "/api/forms/"+form.ID+"/content", map[string]string{
		"content": "{not json",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body = %s", rec.Code, rec.Body)
	}
}

func TestServeFormCountsVisits(t *testing.T) {
	srv, store := newTestServer(t)
	router := srv.Router()
	form := createPublishedForm(t, store)

	req := httptest.NewRequest(http.MethodGet, "/f/"+form.ShareID+"/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("serve status = %d, body = %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `name="name"`) {
		t.Errorf("rendered form missing input, body = %s", rec.Body)
	}

	got, err := store.GetForm(context.Background(), form.ID)
	if err != nil {
		t.Fatalf("GetForm() error = %v", err)
	}
	if got.Visits != 1 {
		t.Errorf("Visits = %d, want 1", got.Visits)
	}
}

func TestServeFormAppliesTheme(t *testing.T) {
	store := storage.NewMemoryStore()
	fields := field.NewRegistry()

	renderers := render.NewRegistry()
	htmlRenderer, err := html.New(fields)
	if err != nil {
		t.Fatalf("html.New() error = %v", err)
	}
	renderers.MustRegister(htmlRenderer)

	exporter, err := openapiexport.New(fields)
	if err != nil {
		t.Fatalf("openapi.New() error = %v", err)
	}

	srv := New(store, fields, renderers, exporter, WithTheme(&render.ThemeConfig{
		Theme:   "acme",
		CSSVars: map[string]string{"--color-primary": "#336699"},
	}))
	form := createPublishedForm(t, store)

	req := httptest.NewRequest(http.MethodGet, "/f/"+form.ShareID+"/", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("serve status = %d, body = %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), "--color-primary: #336699") {
		t.Errorf("theme tokens missing from rendered form, body = %s", rec.Body)
	}
}

func TestServeFormUnknownShareID(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	req := httptest.NewRequest(http.MethodGet, "/f/missing/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func postForm(t *testing.T, handler http.Handler, path string, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestSubmitValidSubmission(t *testing.T) {
	srv, store := newTestServer(t)
	router := srv.Router()
	form := createPublishedForm(t, store)

	rec := postForm(t, router, "/f/"+form.ShareID+"/submit", url.Values{
		"name": {"Ada"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit status = %d, body = %s", rec.Code, rec.Body)
	}

	got, err := store.GetForm(context.Background(), form.ID)
	if err != nil {
		t.Fatalf("GetForm() error = %v", err)
	}
	if got.Submissions != 1 {
		t.Errorf("Submissions = %d, want 1", got.Submissions)
	}

	attempts, err := store.ListAttempts(context.Background(), form.ID)
	if err != nil {
		t.Fatalf("ListAttempts() error = %v", err)
	}
	if len(attempts) != 1 || attempts[0].State != lifecycle.ProgressCompleted {
		t.Fatalf("attempts = %+v", attempts)
	}
	if attempts[0].Values["name"] != "Ada" {
		t.Errorf("values = %v", attempts[0].Values)
	}
}

func TestSubmitInvalidSubmission(t *testing.T) {
	srv, store := newTestServer(t)
	router := srv.Router()
	form := createPublishedForm(t, store)

	rec := postForm(t, router, "/f/"+form.ShareID+"/submit", url.Values{
		"name": {"   "},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("submit status = %d, body = %s", rec.Code, rec.Body)
	}

	var payload struct {
		InvalidIDs []string `json:"invalidIds"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.InvalidIDs) != 1 || payload.InvalidIDs[0] != "name" {
		t.Errorf("invalidIds = %v, want [name]", payload.InvalidIDs)
	}

	// nothing persisted
	got, err := store.GetForm(context.Background(), form.ID)
	if err != nil {
		t.Fatalf("GetForm() error = %v", err)
	}
	if got.Submissions != 0 {
		t.Errorf("Submissions = %d, want 0", got.Submissions)
	}
}

func TestSubmitSaveProgressAndResume(t *testing.T) {
	srv, store := newTestServer(t)
	router := srv.Router()
	form := createPublishedForm(t, store)

	// partial save skips validation
	rec := postForm(t, router, "/f/"+form.ShareID+"/submit", url.Values{
		"final":       {"false"},
		"progressTag": {"visitor-1"},
		"name":        {""},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("save progress status = %d, body = %s", rec.Code, rec.Body)
	}

	// resuming pre-fills saved values
	rec2 := postForm(t, router, "/f/"+form.ShareID+"/submit", url.Values{
		"final":       {"false"},
		"progressTag": {"visitor-1"},
		"name":        {"Ada"},
	})
	if rec2.Code != http.StatusOK {
		t.Fatalf("second save status = %d, body = %s", rec2.Code, rec2.Body)
	}

	attempt, err := store.GetAttempt(context.Background(), form.ID, "visitor-1")
	if err != nil {
		t.Fatalf("GetAttempt() error = %v", err)
	}
	if attempt.Values["name"] != "Ada" {
		t.Errorf("values = %v, want last write", attempt.Values)
	}

	// final submission completes the same attempt
	rec3 := postForm(t, router, "/f/"+form.ShareID+"/submit", url.Values{
		"progressTag": {"visitor-1"},
		"name":        {"Ada"},
	})
	if rec3.Code != http.StatusCreated {
		t.Fatalf("final submit status = %d, body = %s", rec3.Code, rec3.Body)
	}

	// a second final submission on the completed attempt conflicts
	rec4 := postForm(t, router, "/f/"+form.ShareID+"/submit", url.Values{
		"progressTag": {"visitor-1"},
		"name":        {"Ada"},
	})
	if rec4.Code != http.StatusConflict {
		t.Fatalf("re-submit status = %d, want 409, body = %s", rec4.Code, rec4.Body)
	}
}

func TestStatsEndpoint(t *testing.T) {
	srv, store := newTestServer(t)
	router := srv.Router()
	form := createPublishedForm(t, store)

	for i := 0; i < 4; i++ {
		if _, err := store.VisitByShareID(context.Background(), form.ShareID); err != nil {
			t.Fatalf("VisitByShareID() error = %v", err)
		}
	}
	rec := postForm(t, router, "/f/"+form.ShareID+"/submit", url.Values{"name": {"Ada"}})
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit status = %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/forms/"+form.ID+"/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats status = %d", rec.Code)
	}

	var stats lifecycle.Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.Visits != 4 || stats.Submissions != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.SubmissionRate != 25 || stats.BounceRate != 75 {
		t.Errorf("rates = %+v", stats)
	}
}

func TestOpenAPIEndpoint(t *testing.T) {
	srv, store := newTestServer(t)
	router := srv.Router()
	form := createPublishedForm(t, store)

	rec := doJSON(t, router, http.MethodGet, "/api/forms/"+form.ID+"/openapi.json", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("openapi status = %d, body = %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), "submitForm") {
		t.Errorf("spec missing operation id, body = %s", rec.Body)
	}
}

func TestOpenAPIEndpointUnpublished(t *testing.T) {
	srv, store := newTestServer(t)
	router := srv.Router()

	form := &lifecycle.Form{Name: "Draft"}
	if err := store.CreateForm(context.Background(), form); err != nil {
		t.Fatalf("CreateForm() error = %v", err)
	}

	rec := doJSON(t, router, http.MethodGet, "/api/forms/"+form.ID+"/openapi.json", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("openapi status = %d, want 409", rec.Code)
	}
}
