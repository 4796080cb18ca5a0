package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-crm/internal/infra/memstore"
	"github.com/xavierca1/ligue-crm/internal/infra/security"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type apiClient struct {
	t      *testing.T
	server *httptest.Server
	header http.Header
}

func newAPI(t *testing.T, opts ...func(*handlers.Router)) *apiClient {
	t.Helper()
	store := memstore.New()

	hasher, err := security.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	tokens, err := security.NewTokenService("test-secret", 0)
	require.NoError(t, err)

	authHandler := handlers.NewAuthHandler(usecase.NewAuthUseCase(store.Users(), hasher, tokens))
	t.Cleanup(authHandler.Close)

	rt := &handlers.Router{
		AllowedOrigins: []string{"*"},
		Auth:           authHandler,
		Users:          handlers.NewUserHandler(usecase.NewUserUseCase(store.Users())),
		Leads:          handlers.NewLeadHandler(usecase.NewLeadUseCase(store.Leads(), nil)),
		Opportunities: handlers.NewOpportunityHandler(
			usecase.NewOpportunityUseCase(store.Opportunities(), store.Leads(), store.Users(), nil),
		),
		CallLogs:  handlers.NewCallLogHandler(usecase.NewCallLogUseCase(store.CallLogs())),
		Dashboard: handlers.NewDashboardHandler(usecase.NewDashboardUseCase(store.Leads(), store.Opportunities())),
		Health:    handlers.NewHealthHandler(nil, nil, map[string]bool{"kommo": false}),
	}
	for _, opt := range opts {
		opt(rt)
	}

	server := httptest.NewServer(rt.Handler())
	t.Cleanup(server.Close)
	return &apiClient{t: t, server: server, header: http.Header{}}
}

func (c *apiClient) do(method, path, token string, body any) (*http.Response, map[string]any) {
	c.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, c.server.URL+path, reader)
	require.NoError(c.t, err)
	for k, v := range c.header {
		req.Header[k] = v
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.server.Client().Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var decoded any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	obj, _ := decoded.(map[string]any)
	if list, ok := decoded.([]any); ok {
		obj = map[string]any{"items": list}
	}
	return resp, obj
}

// signup registers and logs in, returning the user id and bearer token.
func (c *apiClient) signup(email, role string) (string, string) {
	c.t.Helper()
	resp, body := c.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": email, "password": "secret123", "full_name": email, "role": role,
	})
	require.Equal(c.t, http.StatusCreated, resp.StatusCode, body)

	resp, body = c.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": email, "password": "secret123",
	})
	require.Equal(c.t, http.StatusOK, resp.StatusCode, body)
	user := body["user"].(map[string]any)
	return user["id"].(string), body["access_token"].(string)
}

func TestRegisterAndLogin(t *testing.T) {
	api := newAPI(t)

	resp, body := api.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "rep@example.com", "password": "secret123", "full_name": "Rep",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "sales_rep", body["role"])
	assert.NotContains(t, body, "password_hash")

	resp, body = api.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "rep@example.com", "password": "other123", "full_name": "Again",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, usecase.CodeDuplicateIdentity, body["code"])

	resp, body = api.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "rep@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "bearer", body["token_type"])
	assert.NotEmpty(t, body["access_token"])
}

func TestLoginDoesNotRevealWhichFieldWasWrong(t *testing.T) {
	api := newAPI(t)
	api.signup("rep@example.com", "sales_rep")

	_, wrongPassword := api.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "rep@example.com", "password": "nope",
	})
	resp, unknownEmail := api.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ghost@example.com", "password": "nope",
	})

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, wrongPassword, unknownEmail)
	assert.Equal(t, "Incorrect email or password", unknownEmail["detail"])
}

func TestMeRequiresBearerToken(t *testing.T) {
	api := newAPI(t)
	_, token := api.signup("rep@example.com", "sales_rep")

	resp, body := api.do(http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, usecase.CodeInvalidToken, body["code"])

	resp, body = api.do(http.MethodGet, "/api/auth/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, usecase.CodeInvalidToken, body["code"])

	resp, body = api.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "rep@example.com", body["email"])
}

func TestUsersListIsForManagersAndAdmins(t *testing.T) {
	api := newAPI(t)
	_, repToken := api.signup("rep@example.com", "sales_rep")
	_, managerToken := api.signup("boss@example.com", "manager")

	resp, body := api.do(http.MethodGet, "/api/users", repToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Not authorized", body["detail"])

	resp, body = api.do(http.MethodGet, "/api/users", managerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["items"], 2)
}

func TestLeadAccessIsScopedByAssignee(t *testing.T) {
	api := newAPI(t)
	_, adminToken := api.signup("admin@example.com", "admin")
	repID, repToken := api.signup("rep@example.com", "sales_rep")
	_, otherToken := api.signup("other@example.com", "sales_rep")

	resp, lead := api.do(http.MethodPost, "/api/leads", adminToken, map[string]string{
		"name": "Acme", "email": "buyer@acme.com", "assigned_to": repID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, lead)
	assert.Equal(t, "new", lead["status"])
	leadPath := fmt.Sprintf("/api/leads/%s", lead["id"])

	resp, _ = api.do(http.MethodGet, leadPath, repToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := api.do(http.MethodGet, leadPath, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, usecase.CodeForbidden, body["code"])

	resp, body = api.do(http.MethodGet, "/api/leads/does-not-exist", otherToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Lead not found", body["detail"])

	_, list := api.do(http.MethodGet, "/api/leads", otherToken, nil)
	assert.Empty(t, list["items"])

	resp, updated := api.do(http.MethodPut, leadPath, repToken, map[string]string{
		"name": "Acme Corp", "status": "contacted",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Acme Corp", updated["name"])
	assert.Equal(t, "contacted", updated["status"])
	assert.Equal(t, repID, updated["assigned_to"])
	assert.NotContains(t, updated, "email")

	resp, _ = api.do(http.MethodDelete, leadPath, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = api.do(http.MethodDelete, leadPath, repToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Lead deleted successfully", body["message"])

	resp, _ = api.do(http.MethodGet, leadPath, repToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOpportunityQualifiesLeadAndFeedsDashboard(t *testing.T) {
	api := newAPI(t)
	_, repToken := api.signup("rep@example.com", "sales_rep")

	_, lead := api.do(http.MethodPost, "/api/leads", repToken, map[string]string{"name": "Acme"})

	resp, opp := api.do(http.MethodPost, "/api/opportunities", repToken, map[string]any{
		"lead_id": lead["id"], "name": "Acme deal", "value": 75000,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, opp)
	assert.Equal(t, "qualified", opp["stage"])

	_, refreshed := api.do(http.MethodGet, fmt.Sprintf("/api/leads/%s", lead["id"]), repToken, nil)
	assert.Equal(t, "qualified", refreshed["status"])

	resp, won := api.do(http.MethodPut, fmt.Sprintf("/api/opportunities/%s", opp["id"]), repToken, map[string]any{
		"name": "Acme deal", "value": 75000, "stage": "won",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "won", won["stage"])

	resp, stats := api.do(http.MethodGet, "/api/dashboard/stats", repToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1.0, stats["total_leads"])
	assert.Equal(t, 1.0, stats["qualified_leads"])
	assert.Equal(t, 1.0, stats["won_opportunities"])
	assert.Equal(t, 75000.0, stats["total_opportunity_value"])

	resp, _ = api.do(http.MethodPost, "/api/opportunities", repToken, map[string]any{
		"lead_id": "missing", "name": "Ghost", "value": 1,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDashboardReportsZeroValueWhenEmpty(t *testing.T) {
	api := newAPI(t)
	_, token := api.signup("rep@example.com", "sales_rep")

	_, stats := api.do(http.MethodGet, "/api/dashboard/stats", token, nil)
	require.Contains(t, stats, "total_opportunity_value")
	assert.Equal(t, 0.0, stats["total_opportunity_value"])
}

func TestCallLogsAreScopedByCreator(t *testing.T) {
	api := newAPI(t)
	_, repToken := api.signup("rep@example.com", "sales_rep")
	_, otherToken := api.signup("other@example.com", "sales_rep")

	resp, call := api.do(http.MethodPost, "/api/call-logs", repToken, map[string]any{
		"call_type": "outbound", "duration": 120,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, call)

	_, mine := api.do(http.MethodGet, "/api/call-logs", repToken, nil)
	assert.Len(t, mine["items"], 1)

	_, theirs := api.do(http.MethodGet, "/api/call-logs", otherToken, nil)
	assert.Empty(t, theirs["items"])
}

func TestMalformedBodiesAreValidationErrors(t *testing.T) {
	api := newAPI(t)
	_, token := api.signup("rep@example.com", "sales_rep")

	resp, body := api.do(http.MethodPost, "/api/leads", token, "{not json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, usecase.CodeValidation, body["code"])

	resp, body = api.do(http.MethodPost, "/api/call-logs", token, map[string]string{"call_type": "sideways"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, usecase.CodeValidation, body["code"])
}

func TestLoginIsRateLimitedPerClient(t *testing.T) {
	api := newAPI(t)
	creds := map[string]string{"email": "ghost@example.com", "password": "nope"}

	for i := 0; i < 10; i++ {
		resp, _ := api.do(http.MethodPost, "/api/auth/login", "", creds)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}

	resp, body := api.do(http.MethodPost, "/api/auth/login", "", creds)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "RATE_LIMITED", body["code"])
}

func TestLoginRateLimitIgnoresForwardedHeaders(t *testing.T) {
	api := newAPI(t)
	creds := map[string]string{"email": "ghost@example.com", "password": "nope"}

	for i := 0; i < 10; i++ {
		api.header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		api.header.Set("X-Real-IP", fmt.Sprintf("10.0.1.%d", i))
		resp, _ := api.do(http.MethodPost, "/api/auth/login", "", creds)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}

	api.header.Set("X-Forwarded-For", "10.0.0.200")
	api.header.Set("X-Real-IP", "10.0.1.200")
	resp, body := api.do(http.MethodPost, "/api/auth/login", "", creds)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "RATE_LIMITED", body["code"])
}

func TestLoginRateLimitBehindTrustedProxy(t *testing.T) {
	api := newAPI(t, func(rt *handlers.Router) { rt.TrustProxy = true })
	creds := map[string]string{"email": "ghost@example.com", "password": "nope"}

	for i := 0; i < 11; i++ {
		api.header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		resp, _ := api.do(http.MethodPost, "/api/auth/login", "", creds)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, "client %d", i)
	}

	api.header.Set("X-Forwarded-For", "198.51.100.7")
	for i := 0; i < 10; i++ {
		resp, _ := api.do(http.MethodPost, "/api/auth/login", "", creds)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
	resp, _ := api.do(http.MethodPost, "/api/auth/login", "", creds)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	api := newAPI(t)

	resp, body := api.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
	deps := body["dependencies"].(map[string]any)
	assert.Equal(t, "in-memory", deps["database"])
	assert.Equal(t, "not configured", deps["kommo"])

	resp, err := api.server.Client().Get(api.server.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
