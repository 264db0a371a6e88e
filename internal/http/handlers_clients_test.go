package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raborimet/crm-api/internal/service"
)

func newClientMux(t *testing.T) (*http.ServeMux, *fakeClientRepo) {
	t.Helper()

	repo := newFakeClientRepo()
	svc := service.NewClientService(service.ClientServiceOptions{
		Clients:  repo,
		Projects: newFakeProjectRepo(),
	})
	h := &ClientHandlers{Svc: svc}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /clients", h.Create)
	mux.HandleFunc("GET /clients", h.List)
	mux.HandleFunc("GET /clients/stats", h.Stats)
	mux.HandleFunc("GET /clients/{id}", h.GetByID)
	mux.HandleFunc("PUT /clients/{id}", h.Update)
	mux.HandleFunc("DELETE /clients/{id}", h.Delete)
	mux.HandleFunc("GET /clients/{id}/projects", h.Projects)
	return mux, repo
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestClientCreate(t *testing.T) {
	mux, _ := newClientMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/clients", map[string]any{
		"name":  "Acme Corp",
		"email": "billing@acme.test",
		"city":  "Springfield",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	got := decodeBody(t, rec)
	assert.Equal(t, "Acme Corp", got["name"])
	assert.Equal(t, "billing@acme.test", got["email"])
	assert.Equal(t, true, got["is_active"])
}

func TestClientCreateValidation(t *testing.T) {
	mux, _ := newClientMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/clients", map[string]any{"name": "  "})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation", decodeBody(t, rec)["error"])
}

func TestClientCreateUnknownField(t *testing.T) {
	mux, _ := newClientMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/clients", map[string]any{
		"name":    "Acme Corp",
		"unknown": true,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_json", decodeBody(t, rec)["error"])
}

func TestClientCreateDuplicateEmail(t *testing.T) {
	mux, _ := newClientMux(t)

	first := doJSON(t, mux, http.MethodPost, "/clients", map[string]any{
		"name":  "Acme Corp",
		"email": "billing@acme.test",
	})
	require.Equal(t, http.StatusCreated, first.Code)

	dup := doJSON(t, mux, http.MethodPost, "/clients", map[string]any{
		"name":  "Acme Duplicate",
		"email": "Billing@ACME.test",
	})
	require.Equal(t, http.StatusConflict, dup.Code)
	assert.Equal(t, "conflict", decodeBody(t, dup)["error"])
}

func TestClientGetNotFound(t *testing.T) {
	mux, _ := newClientMux(t)

	rec := doJSON(t, mux, http.MethodGet, "/clients/42", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeBody(t, rec)["error"])
}

func TestClientGetBadID(t *testing.T) {
	mux, _ := newClientMux(t)

	rec := doJSON(t, mux, http.MethodGet, "/clients/zero", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_path", decodeBody(t, rec)["error"])
}

func TestClientUpdateAndList(t *testing.T) {
	mux, _ := newClientMux(t)

	created := doJSON(t, mux, http.MethodPost, "/clients", map[string]any{"name": "Acme Corp"})
	require.Equal(t, http.StatusCreated, created.Code)
	id := int64(decodeBody(t, created)["id"].(float64))

	rec := doJSON(t, mux, http.MethodPut, "/clients/1", map[string]any{
		"name":      "Acme Holdings",
		"is_active": false,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody(t, rec)
	assert.EqualValues(t, id, got["id"])
	assert.Equal(t, "Acme Holdings", got["name"])
	assert.Equal(t, false, got["is_active"])

	active := doJSON(t, mux, http.MethodGet, "/clients?is_active=true", nil)
	require.Equal(t, http.StatusOK, active.Code)
	assert.EqualValues(t, 0, decodeBody(t, active)["total"])

	all := doJSON(t, mux, http.MethodGet, "/clients", nil)
	require.Equal(t, http.StatusOK, all.Code)
	assert.EqualValues(t, 1, decodeBody(t, all)["total"])
}

func TestClientDelete(t *testing.T) {
	mux, repo := newClientMux(t)

	created := doJSON(t, mux, http.MethodPost, "/clients", map[string]any{"name": "Acme Corp"})
	require.Equal(t, http.StatusCreated, created.Code)

	rec := doJSON(t, mux, http.MethodDelete, "/clients/1", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, repo.clients)

	again := doJSON(t, mux, http.MethodDelete, "/clients/1", nil)
	require.Equal(t, http.StatusNotFound, again.Code)
}

func TestClientProjects(t *testing.T) {
	mux, _ := newClientMux(t)

	created := doJSON(t, mux, http.MethodPost, "/clients", map[string]any{"name": "Acme Corp"})
	require.Equal(t, http.StatusCreated, created.Code)

	rec := doJSON(t, mux, http.MethodGet, "/clients/1/projects", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decodeBody(t, rec), "projects")

	missing := doJSON(t, mux, http.MethodGet, "/clients/9/projects", nil)
	require.Equal(t, http.StatusNotFound, missing.Code)
}
