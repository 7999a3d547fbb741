package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avidal-labs/lanwarden/internal/adapters/web/auth"
	"github.com/avidal-labs/lanwarden/internal/config"
	"github.com/avidal-labs/lanwarden/internal/core/domain"
)

type serverStore struct {
	fakeStore
}

func (serverStore) GetAllDevices() ([]domain.Device, error) {
	return []domain.Device{{MAC: "aa:aa:aa:aa:aa:01", IP: "192.168.1.10"}}, nil
}

func newTestServer(cfg *config.Config) *Server {
	provider := func() *config.Config { return cfg }
	return New(cfg.WebInterface.HTTPAddr(), Deps{
		Store:   serverStore{},
		Auth:    auth.New(provider),
		Config:  provider,
		Version: "test",
	})
}

func TestRoutesOpenWithoutCredentials(t *testing.T) {
	srv := newTestServer(config.Default())
	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	for _, path := range []string{
		"/api/devices",
		"/api/events",
		"/api/speedtests",
		"/api/websites",
		"/api/security",
		"/api/modules",
		"/api/status",
		"/api/settings",
		"/metrics",
	} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err, path)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestRoutesRejectWrongMethods(t *testing.T) {
	srv := newTestServer(config.Default())
	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/devices", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestProtectedRoutesRequireLogin(t *testing.T) {
	cfg := config.Default()
	cfg.WebInterface.Username = "admin"
	hash, err := auth.HashPassword("hunter2")
	require.NoError(t, err)
	cfg.WebInterface.PasswordHash = hash

	srv := newTestServer(cfg)
	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/devices")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Login and retry with the bearer token.
	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "hunter2"})
	resp, err = http.Post(ts.URL+"/api/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&login))
	resp.Body.Close()
	require.NotEmpty(t, login.Token)

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/devices", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLoginBadCredentials(t *testing.T) {
	cfg := config.Default()
	cfg.WebInterface.Username = "admin"
	hash, err := auth.HashPassword("hunter2")
	require.NoError(t, err)
	cfg.WebInterface.PasswordHash = hash

	srv := newTestServer(cfg)
	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "wrong"})
	resp, err := http.Post(ts.URL+"/api/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
