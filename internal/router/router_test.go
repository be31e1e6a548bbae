package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"sweetshop/internal/config"
	"sweetshop/internal/models"
	"sweetshop/internal/repository"
	"sweetshop/internal/services"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() config.Config {
	return config.Config{
		Port:           "0",
		JWTSecret:      "test-secret",
		TokenTTL:       time.Hour,
		BcryptCost:     bcrypt.MinCost,
		AllowedOrigins: []string{"*"},
	}
}

func newTestServer(t *testing.T) (*httptest.Server, *repository.MemoryUserRepository) {
	t.Helper()

	users := repository.NewMemoryUserRepository()
	sweets := repository.NewMemorySweetRepository()

	r := SetupRouter(testConfig(), zerolog.Nop(), users, sweets)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return srv, users
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any) (int, map[string]any) {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(raw)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequest(method, url, reqBody)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		decoded = nil
	}
	return resp.StatusCode, decoded
}

func doJSONList(t *testing.T, client *http.Client, url string) (int, []any) {
	t.Helper()

	resp, err := client.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded []any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		decoded = nil
	}
	return resp.StatusCode, decoded
}

func seedAdmin(t *testing.T, users *repository.MemoryUserRepository, email, password string) {
	t.Helper()

	hasher := services.NewPasswordHasher(bcrypt.MinCost)
	hash, err := hasher.Hash(password)
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, users.Create(context.Background(), &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         string(models.RoleAdmin),
		CreatedAt:    now,
		UpdatedAt:    now,
	}))
}

func TestRegisterAndLogin(t *testing.T) {
	srv, _ := newTestServer(t)
	client := newClient(t)

	status, body := doJSON(t, client, "POST", srv.URL+"/api/auth/register", map[string]string{
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, status)
	user := body["user"].(map[string]any)
	assert.Equal(t, "alice@example.com", user["email"])
	assert.Equal(t, "user", user["role"])

	status, _ = doJSON(t, client, "POST", srv.URL+"/api/auth/register", map[string]string{
		"email":    "alice@example.com",
		"password": "password456",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, newClient(t), "POST", srv.URL+"/api/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "wrongpass",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = doJSON(t, newClient(t), "POST", srv.URL+"/api/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, status)
	user = body["user"].(map[string]any)
	assert.Equal(t, "user", user["role"])
}

func TestAuthenticationRequired(t *testing.T) {
	srv, _ := newTestServer(t)

	status, _ := doJSONList(t, newClient(t), srv.URL+"/api/sweets")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = doJSON(t, newClient(t), "GET", srv.URL+"/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestMeAndLogout(t *testing.T) {
	srv, _ := newTestServer(t)
	client := newClient(t)

	status, _ := doJSON(t, client, "POST", srv.URL+"/api/auth/register", map[string]string{
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, status)

	status, body := doJSON(t, client, "GET", srv.URL+"/api/auth/me", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alice@example.com", body["email"])

	status, _ = doJSON(t, client, "POST", srv.URL+"/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, client, "GET", srv.URL+"/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAdminGate(t *testing.T) {
	srv, users := newTestServer(t)

	userClient := newClient(t)
	status, _ := doJSON(t, userClient, "POST", srv.URL+"/api/auth/register", map[string]string{
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, status)

	// a plain user may read but not mutate the catalogue
	status, _ = doJSON(t, userClient, "POST", srv.URL+"/api/sweets", map[string]any{
		"name": "Fudge", "category": "Bar", "price": 8, "quantity": 6,
	})
	assert.Equal(t, http.StatusForbidden, status)

	seedAdmin(t, users, "admin@example.com", "adminpass123")
	adminClient := newClient(t)
	status, _ = doJSON(t, adminClient, "POST", srv.URL+"/api/auth/login", map[string]string{
		"email":    "admin@example.com",
		"password": "adminpass123",
	})
	require.Equal(t, http.StatusOK, status)

	status, body := doJSON(t, adminClient, "POST", srv.URL+"/api/sweets", map[string]any{
		"name": "Fudge", "category": "Bar", "price": 8, "quantity": 6,
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, float64(6), body["quantity"])
}

func TestInventoryLifecycle(t *testing.T) {
	srv, users := newTestServer(t)

	seedAdmin(t, users, "admin@example.com", "adminpass123")
	adminClient := newClient(t)
	status, _ := doJSON(t, adminClient, "POST", srv.URL+"/api/auth/login", map[string]string{
		"email":    "admin@example.com",
		"password": "adminpass123",
	})
	require.Equal(t, http.StatusOK, status)

	userClient := newClient(t)
	status, _ = doJSON(t, userClient, "POST", srv.URL+"/api/auth/register", map[string]string{
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, status)

	status, body := doJSON(t, adminClient, "POST", srv.URL+"/api/sweets", map[string]any{
		"name": "Fudge", "category": "Bar", "price": 8, "quantity": 6,
	})
	require.Equal(t, http.StatusCreated, status)
	sweetID := body["id"].(string)
	require.NotEmpty(t, sweetID)

	// any authenticated user can purchase
	status, body = doJSON(t, userClient, "POST", srv.URL+"/api/sweets/"+sweetID+"/purchase", nil)
	require.Equal(t, http.StatusOK, status)
	purchased := body["sweet"].(map[string]any)
	assert.Equal(t, float64(5), purchased["remainingQuantity"])

	// restock is admin-only
	status, _ = doJSON(t, userClient, "POST", srv.URL+"/api/sweets/"+sweetID+"/restock", map[string]any{"quantity": 10})
	assert.Equal(t, http.StatusForbidden, status)

	status, body = doJSON(t, adminClient, "POST", srv.URL+"/api/sweets/"+sweetID+"/restock", map[string]any{"quantity": 10})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(15), body["newQuantity"])

	status, _ = doJSON(t, adminClient, "POST", srv.URL+"/api/sweets/"+sweetID+"/restock", map[string]any{"quantity": 0})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = doJSON(t, adminClient, "PUT", srv.URL+"/api/sweets/"+sweetID, map[string]any{"price": 9.5})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 9.5, body["price"])

	status, _ = doJSON(t, adminClient, "DELETE", srv.URL+"/api/sweets/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = doJSON(t, adminClient, "DELETE", srv.URL+"/api/sweets/"+sweetID, nil)
	assert.Equal(t, http.StatusOK, status)

	status, list := doJSONList(t, adminClient, srv.URL+"/api/sweets")
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, list)
}

func TestPurchaseOutOfStock(t *testing.T) {
	srv, users := newTestServer(t)

	seedAdmin(t, users, "admin@example.com", "adminpass123")
	adminClient := newClient(t)
	status, _ := doJSON(t, adminClient, "POST", srv.URL+"/api/auth/login", map[string]string{
		"email":    "admin@example.com",
		"password": "adminpass123",
	})
	require.Equal(t, http.StatusOK, status)

	status, body := doJSON(t, adminClient, "POST", srv.URL+"/api/sweets", map[string]any{
		"name": "Gum", "category": "Chewy", "price": 1, "quantity": 1,
	})
	require.Equal(t, http.StatusCreated, status)
	sweetID := body["id"].(string)

	status, _ = doJSON(t, adminClient, "POST", srv.URL+"/api/sweets/"+sweetID+"/purchase", nil)
	require.Equal(t, http.StatusOK, status)

	status, body = doJSON(t, adminClient, "POST", srv.URL+"/api/sweets/"+sweetID+"/purchase", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "out_of_stock", body["error"])
}

func TestSearchEndpoint(t *testing.T) {
	srv, users := newTestServer(t)

	seedAdmin(t, users, "admin@example.com", "adminpass123")
	client := newClient(t)
	status, _ := doJSON(t, client, "POST", srv.URL+"/api/auth/login", map[string]string{
		"email":    "admin@example.com",
		"password": "adminpass123",
	})
	require.Equal(t, http.StatusOK, status)

	for _, sweet := range []map[string]any{
		{"name": "Rainbow Pop", "category": "Lolly", "price": 6, "quantity": 3},
		{"name": "Gum", "category": "Chewy", "price": 2, "quantity": 10},
	} {
		status, _ := doJSON(t, client, "POST", srv.URL+"/api/sweets", sweet)
		require.Equal(t, http.StatusCreated, status)
	}

	status, list := doJSONList(t, client, srv.URL+"/api/sweets/search?name=pop")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, list, 1)
	assert.Equal(t, "Rainbow Pop", list[0].(map[string]any)["name"])

	status, list = doJSONList(t, client, srv.URL+"/api/sweets/search?minPrice=5")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, list, 1)

	// malformed numeric filters are ignored, not fatal
	status, list = doJSONList(t, client, srv.URL+"/api/sweets/search?minPrice=abc")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, list, 2)

	status, list = doJSONList(t, client, srv.URL+"/api/sweets/search")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, list, 2)
}
