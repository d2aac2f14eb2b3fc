package keycloak

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"identity-facade/app/config"
	"identity-facade/app/utils/logger"
)

const (
	testRealm       = "customers"
	testAdminToken  = "admin-access-token"
	testAdminSecret = "admin-secret"
)

// fakeKeycloak serves the subset of Keycloak's OIDC and admin APIs the
// client calls.
type fakeKeycloak struct {
	t      *testing.T
	server *httptest.Server

	mu      sync.Mutex
	users   map[string]wireUser
	created []wireUser
	resets  map[string]wireCredential

	discoveryHits  atomic.Int32
	discoveryDelay atomic.Int64
	adminRefused   bool
}

// wireUser is the JSON shape of Keycloak's UserRepresentation as the fake
// stores and serves it.
type wireUser struct {
	ID               string           `json:"id,omitempty"`
	Username         string           `json:"username"`
	Email            string           `json:"email,omitempty"`
	FirstName        string           `json:"firstName,omitempty"`
	LastName         string           `json:"lastName,omitempty"`
	Enabled          bool             `json:"enabled"`
	CreatedTimestamp int64            `json:"createdTimestamp,omitempty"`
	Credentials      []wireCredential `json:"credentials,omitempty"`
}

type wireCredential struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	Temporary bool   `json:"temporary"`
}

func newFakeKeycloak(t *testing.T) *fakeKeycloak {
	t.Helper()

	f := &fakeKeycloak{
		t:      t,
		users:  map[string]wireUser{},
		resets: map[string]wireCredential{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /realms/{realm}/.well-known/openid-configuration", f.discovery)
	mux.HandleFunc("POST /realms/{realm}/protocol/openid-connect/token", f.token)
	mux.HandleFunc("POST /admin/realms/{realm}/users", f.admin(f.createUser))
	mux.HandleFunc("GET /admin/realms/{realm}/users", f.admin(f.searchUsers))
	mux.HandleFunc("GET /admin/realms/{realm}/users/{id}", f.admin(f.getUser))
	mux.HandleFunc("DELETE /admin/realms/{realm}/users/{id}", f.admin(f.deleteUser))
	mux.HandleFunc("PUT /admin/realms/{realm}/users/{id}/reset-password", f.admin(f.resetPassword))

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeKeycloak) addUser(u wireUser) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = u
}

func (f *fakeKeycloak) config() *config.Config {
	return &config.Config{
		KeycloakURL:               f.server.URL,
		KeycloakAdminRealm:        "master",
		KeycloakAdminClientID:     "admin-cli",
		KeycloakAdminClientSecret: testAdminSecret,
		KeycloakClientID:          "facade",
		KeycloakRealmCacheSize:    8,
		IdPTimeout:                5 * time.Second,
	}
}

func (f *fakeKeycloak) client() *Client {
	f.t.Helper()

	log, err := logger.NewWithWriter("error", io.Discard)
	require.NoError(f.t, err)

	c, err := NewClient(f.config(), log)
	require.NoError(f.t, err)
	return c
}

func (f *fakeKeycloak) discovery(w http.ResponseWriter, r *http.Request) {
	realm := r.PathValue("realm")
	if realm == "missing" {
		http.Error(w, `{"error":"Realm does not exist"}`, http.StatusNotFound)
		return
	}
	f.discoveryHits.Add(1)
	if delay := time.Duration(f.discoveryDelay.Load()); delay > 0 {
		time.Sleep(delay)
	}

	issuer := f.server.URL + "/realms/" + realm
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"issuer":                 issuer,
		"authorization_endpoint": issuer + "/protocol/openid-connect/auth",
		"token_endpoint":         issuer + "/protocol/openid-connect/token",
		"jwks_uri":               issuer + "/protocol/openid-connect/certs",
	})
}

func (f *fakeKeycloak) token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	switch r.PostForm.Get("grant_type") {
	case "client_credentials":
		if f.adminRefused || r.PostForm.Get("client_secret") != testAdminSecret {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error":             "unauthorized_client",
				"error_description": "Invalid client secret",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"access_token": testAdminToken,
			"token_type":   "Bearer",
			"expires_in":   300,
		})
	case "password":
		if r.PostForm.Get("username") != "alice" || r.PostForm.Get("password") != "s3cret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error":             "invalid_grant",
				"error_description": "Invalid user credentials",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"access_token":       "access-1",
			"refresh_token":      "refresh-1",
			"token_type":         "Bearer",
			"expires_in":         300,
			"refresh_expires_in": 1800,
			"scope":              "openid profile email",
			"session_state":      "state-1",
		})
	case "refresh_token":
		if r.PostForm.Get("refresh_token") != "refresh-1" {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error":             "invalid_grant",
				"error_description": "Token is not active",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"access_token":       "access-2",
			"refresh_token":      "refresh-2",
			"token_type":         "Bearer",
			"expires_in":         300,
			"refresh_expires_in": 1800,
		})
	default:
		http.Error(w, "unsupported grant", http.StatusBadRequest)
	}
}

func (f *fakeKeycloak) admin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+testAdminToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.PathValue("realm") != testRealm {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Realm not found."})
			return
		}
		next(w, r)
	}
}

func (f *fakeKeycloak) createUser(w http.ResponseWriter, r *http.Request) {
	var rep wireUser
	if err := json.NewDecoder(r.Body).Decode(&rep); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == rep.Username {
			writeJSON(w, http.StatusConflict, map[string]string{"errorMessage": "User exists with same username"})
			return
		}
	}

	f.created = append(f.created, rep)
	rep.ID = "0f8fad5b-d9cb-469f-a165-70867728950e"
	f.users[rep.ID] = rep
	w.Header().Set("Location", f.server.URL+"/admin/realms/"+testRealm+"/users/"+rep.ID)
	w.WriteHeader(http.StatusCreated)
}

func (f *fakeKeycloak) searchUsers(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("exact") != "true" {
		http.Error(w, "expected exact search", http.StatusBadRequest)
		return
	}

	username := r.URL.Query().Get("username")
	email := r.URL.Query().Get("email")

	f.mu.Lock()
	defer f.mu.Unlock()
	found := []wireUser{}
	for _, u := range f.users {
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			found = append(found, u)
		}
	}
	writeJSON(w, http.StatusOK, found)
}

func (f *fakeKeycloak) getUser(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[r.PathValue("id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "User not found"})
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (f *fakeKeycloak) deleteUser(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := r.PathValue("id")
	if _, ok := f.users[id]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "User not found"})
		return
	}
	delete(f.users, id)
	w.WriteHeader(http.StatusNoContent)
}

func (f *fakeKeycloak) resetPassword(w http.ResponseWriter, r *http.Request) {
	var cred wireCredential
	if err := json.NewDecoder(r.Body).Decode(&cred); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	id := r.PathValue("id")
	if _, ok := f.users[id]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "User not found"})
		return
	}
	f.resets[id] = cred
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
