package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkflowcrm/internal/storage/sqlite"
)

type testAPI struct {
	t     *testing.T
	srv   *Server
	token string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "inkflow.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return &testAPI{t: t, srv: New(store, nil, "", "Black Lotus")}
}

func (a *testAPI) do(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	rec := httptest.NewRecorder()
	a.srv.Engine().ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) decode(rec *httptest.ResponseRecorder) map[string]any {
	a.t.Helper()
	var payload map[string]any
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

func (a *testAPI) register(name, email string) {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/artists", map[string]any{"name": name, "email": email})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	a.token = a.decode(rec)["token"].(string)
}

func (a *testAPI) createClient(name, email string) int64 {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/clients", map[string]any{"name": name, "email": email})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	client := a.decode(rec)["client"].(map[string]any)
	return int64(client["id"].(float64))
}

func (a *testAPI) createTattoo(clientID int64, priceCents int64) int64 {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/tattoos", map[string]any{
		"client_id": clientID, "description": "koi sleeve", "price_cents": priceCents,
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	tattoo := a.decode(rec)["tattoo"].(map[string]any)
	return int64(tattoo["id"].(float64))
}

func (a *testAPI) completeTattoo(id int64, on string) map[string]any {
	a.t.Helper()
	rec := a.do(http.MethodPost, fmt.Sprintf("/api/tattoos/%d/complete", id), map[string]any{"completed_on": on})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	return a.decode(rec)
}

func TestAuthRequired(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/clients", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	api.token = "not-a-real-token"
	rec = api.do(http.MethodGet, "/api/clients", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(http.MethodGet, "/api/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCompleteTattoo_SchedulesFollowUps(t *testing.T) {
	api := newTestAPI(t)
	api.register("Jo", "jo@example.com")
	clientID := api.createClient("Maya", "maya@example.com")
	tattooID := api.createTattoo(clientID, 45000)

	payload := api.completeTattoo(tattooID, "2026-02-05")

	tattoo := payload["tattoo"].(map[string]any)
	assert.Equal(t, "completed", tattoo["status"])

	followups, ok := payload["followups"].([]any)
	require.True(t, ok, "expected followups in payload: %v", payload)
	require.Len(t, followups, 5)

	first := followups[0].(map[string]any)
	assert.Equal(t, "pending", first["status"])
	assert.Equal(t, "Maya", first["client_name"])
	assert.Equal(t, "maya@example.com", first["client_email"])
	assert.Equal(t, "2026-02-06", first["due_date"])
}

func TestCreateTattoo_NoCompletionDate(t *testing.T) {
	api := newTestAPI(t)
	api.register("Jo", "jo@example.com")
	clientID := api.createClient("Maya", "maya@example.com")

	rec := api.do(http.MethodPost, "/api/tattoos", map[string]any{
		"client_id": clientID, "description": "koi sleeve",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	tattoo := api.decode(rec)["tattoo"].(map[string]any)
	assert.Equal(t, "scheduled", tattoo["status"])
	assert.Nil(t, tattoo["completed_on"])
}

func TestCompleteTattoo_Twice(t *testing.T) {
	api := newTestAPI(t)
	api.register("Jo", "jo@example.com")
	clientID := api.createClient("Maya", "maya@example.com")
	tattooID := api.createTattoo(clientID, 45000)
	api.completeTattoo(tattooID, "2026-02-05")

	rec := api.do(http.MethodPost, fmt.Sprintf("/api/tattoos/%d/complete", tattooID), map[string]any{"completed_on": "2026-02-06"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestFollowUpViewsAndStatus(t *testing.T) {
	api := newTestAPI(t)
	api.register("Jo", "jo@example.com")
	clientID := api.createClient("Maya", "maya@example.com")
	tattooID := api.createTattoo(clientID, 45000)
	payload := api.completeTattoo(tattooID, "2026-02-05")
	followups := payload["followups"].([]any)
	taskID := followups[0].(map[string]any)["id"].(string)

	rec := api.do(http.MethodGet, "/api/followups", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	views := api.decode(rec)
	pending := views["pending"].([]any)
	assert.Len(t, pending, 5)

	rec = api.do(http.MethodPost, "/api/followups/"+taskID+"/status", map[string]any{"status": "sent"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	task := api.decode(rec)["task"].(map[string]any)
	assert.Equal(t, "sent", task["status"])
	assert.NotNil(t, task["completed_at"])

	// Terminal tasks cannot move again.
	rec = api.do(http.MethodPost, "/api/followups/"+taskID+"/status", map[string]any{"status": "skipped"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(http.MethodGet, "/api/followups", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	views = api.decode(rec)
	assert.Len(t, views["pending"].([]any), 4)
	assert.Len(t, views["completed"].([]any), 1)
}

func TestFollowUpStatus_RejectsPending(t *testing.T) {
	api := newTestAPI(t)
	api.register("Jo", "jo@example.com")
	clientID := api.createClient("Maya", "maya@example.com")
	tattooID := api.createTattoo(clientID, 45000)
	payload := api.completeTattoo(tattooID, "2026-02-05")
	taskID := payload["followups"].([]any)[0].(map[string]any)["id"].(string)

	rec := api.do(http.MethodPost, "/api/followups/"+taskID+"/status", map[string]any{"status": "pending"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFollowUpEmailEdit(t *testing.T) {
	api := newTestAPI(t)
	api.register("Jo", "jo@example.com")
	clientID := api.createClient("Maya", "maya@example.com")
	tattooID := api.createTattoo(clientID, 45000)
	payload := api.completeTattoo(tattooID, "2026-02-05")
	followups := payload["followups"].([]any)
	taskID := followups[0].(map[string]any)["id"].(string)
	originalBody := followups[0].(map[string]any)["email_body"].(string)

	rec := api.do(http.MethodPut, "/api/followups/"+taskID+"/email", map[string]any{"subject": "New Subject"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	task := api.decode(rec)["task"].(map[string]any)
	assert.Equal(t, "New Subject", task["email_subject"])
	assert.Equal(t, originalBody, task["email_body"])

	// Once sent, the draft is frozen.
	rec = api.do(http.MethodPost, "/api/followups/"+taskID+"/status", map[string]any{"status": "sent"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = api.do(http.MethodPut, "/api/followups/"+taskID+"/email", map[string]any{"subject": "Too Late"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestFollowUpCompose(t *testing.T) {
	api := newTestAPI(t)
	api.register("Jo", "jo@example.com")
	clientID := api.createClient("Maya", "maya@example.com")
	tattooID := api.createTattoo(clientID, 45000)
	payload := api.completeTattoo(tattooID, "2026-02-05")
	taskID := payload["followups"].([]any)[0].(map[string]any)["id"].(string)

	rec := api.do(http.MethodGet, "/api/followups/"+taskID+"/compose", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	compose := api.decode(rec)
	assert.Equal(t, "maya@example.com", compose["to"])
	assert.NotEmpty(t, compose["subject"])
	assert.NotEmpty(t, compose["body"])

	// Mailto URIs are percent-encoded only; a '+' would reach the mail
	// client as a literal plus instead of a space.
	mailto := compose["mailto"].(string)
	assert.True(t, strings.HasPrefix(mailto, "mailto:maya%40example.com?"), mailto)
	assert.Contains(t, mailto, "%20")
	assert.NotContains(t, mailto, "+")
}

func TestAnalyticsSummary(t *testing.T) {
	api := newTestAPI(t)
	api.register("Jo", "jo@example.com")
	clientID := api.createClient("Maya", "maya@example.com")
	tattooID := api.createTattoo(clientID, 45000)
	api.completeTattoo(tattooID, "2026-02-05")

	rec := api.do(http.MethodPost, "/api/expenses", map[string]any{
		"category": "supplies", "amount_cents": 12000, "incurred_on": "2026-02-10",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = api.do(http.MethodGet, "/api/analytics/summary?from=2026-02-01&to=2026-02-28", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	summary := api.decode(rec)
	assert.Equal(t, float64(45000), summary["revenue_cents"])
	assert.Equal(t, float64(12000), summary["expense_cents"])
	assert.Equal(t, float64(33000), summary["net_cents"])
	assert.Equal(t, "$450", summary["revenue_display"])
}

func TestTenantIsolation(t *testing.T) {
	api := newTestAPI(t)
	api.register("Jo", "jo@example.com")
	clientID := api.createClient("Maya", "maya@example.com")
	tattooID := api.createTattoo(clientID, 45000)
	payload := api.completeTattoo(tattooID, "2026-02-05")
	taskID := payload["followups"].([]any)[0].(map[string]any)["id"].(string)
	joToken := api.token

	// A second artist sees none of Jo's data and cannot touch her tasks.
	api.register("Sam", "sam@example.com")

	rec := api.do(http.MethodGet, "/api/clients", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, api.decode(rec)["clients"])

	rec = api.do(http.MethodPost, "/api/followups/"+taskID+"/status", map[string]any{"status": "sent"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	api.token = joToken
	rec = api.do(http.MethodPost, "/api/followups/"+taskID+"/status", map[string]any{"status": "sent"})
	assert.Equal(t, http.StatusOK, rec.Code)
}
