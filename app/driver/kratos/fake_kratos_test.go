package kratos

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"identity-facade/app/config"
	"identity-facade/app/utils/logger"
)

const (
	testRealm  = "customers"
	otherRealm = "staff"
	aliceID    = "0b6c2f1e-6f0e-4c55-9a55-5b9d1c2a7e11"
	bobID      = "7d3f0c52-2a1b-4d6e-8c1f-3e5a9b0d4c22"
)

type fakeIdentity struct {
	ID        string
	SchemaID  string
	State     string
	Password  string
	Traits    identityTraits
	CreatedAt time.Time
}

// fakeKratos serves the subset of the Kratos public and admin APIs the
// client calls. Both APIs share one server.
type fakeKratos struct {
	t      *testing.T
	server *httptest.Server

	mu          sync.Mutex
	identities  map[string]*fakeIdentity
	lastCreate  map[string]interface{}
	extended    []string
	versionDown bool
}

func newFakeKratos(t *testing.T) *fakeKratos {
	t.Helper()

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	f := &fakeKratos{
		t: t,
		identities: map[string]*fakeIdentity{
			aliceID: {
				ID:        aliceID,
				SchemaID:  testRealm,
				State:     stateActive,
				Password:  "s3cret",
				Traits:    identityTraits{Username: "alice", Email: "alice@example.com", Name: traitsName{First: "Alice", Last: "Liddell"}},
				CreatedAt: created,
			},
			bobID: {
				ID:        bobID,
				SchemaID:  otherRealm,
				State:     stateInactive,
				Password:  "hunter2",
				Traits:    identityTraits{Username: "bob", Email: "bob@example.com"},
				CreatedAt: created,
			},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /version", f.version)
	mux.HandleFunc("POST /admin/identities", f.createIdentity)
	mux.HandleFunc("GET /admin/identities", f.listIdentities)
	mux.HandleFunc("GET /admin/identities/{id}", f.getIdentity)
	mux.HandleFunc("PUT /admin/identities/{id}", f.updateIdentity)
	mux.HandleFunc("DELETE /admin/identities/{id}", f.deleteIdentity)
	mux.HandleFunc("PATCH /admin/sessions/{id}/extend", f.extendSession)
	mux.HandleFunc("GET /self-service/login/api", f.createLoginFlow)
	mux.HandleFunc("POST /self-service/login", f.updateLoginFlow)
	mux.HandleFunc("GET /sessions/whoami", f.whoami)

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeKratos) client() *Client {
	f.t.Helper()

	log, err := logger.NewWithWriter("error", &strings.Builder{})
	require.NoError(f.t, err)

	c, err := NewClient(&config.Config{
		KratosPublicURL: f.server.URL,
		KratosAdminURL:  f.server.URL,
		IdPTimeout:      5 * time.Second,
	}, log)
	require.NoError(f.t, err)
	return c
}

func (f *fakeKratos) identityJSON(i *fakeIdentity) map[string]interface{} {
	return map[string]interface{}{
		"id":         i.ID,
		"schema_id":  i.SchemaID,
		"schema_url": f.server.URL + "/schemas/" + i.SchemaID,
		"state":      i.State,
		"traits":     i.Traits,
		"created_at": i.CreatedAt.Format(time.RFC3339),
	}
}

func (f *fakeKratos) sessionJSON(i *fakeIdentity, expiresAt time.Time) map[string]interface{} {
	return map[string]interface{}{
		"id":         "sess-" + i.ID,
		"active":     true,
		"expires_at": expiresAt.Format(time.RFC3339),
		"identity":   f.identityJSON(i),
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeGenericError(w http.ResponseWriter, status int, reason string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"code":    status,
			"status":  http.StatusText(status),
			"message": reason,
		},
	})
}

func (f *fakeKratos) version(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	down := f.versionDown
	f.mu.Unlock()

	if down {
		writeGenericError(w, http.StatusServiceUnavailable, "unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"version": "v1.3.0"})
}

func (f *fakeKratos) createIdentity(w http.ResponseWriter, r *http.Request) {
	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeGenericError(w, http.StatusBadRequest, "malformed body")
		return
	}

	raw, _ := json.Marshal(body["traits"])
	var traits identityTraits
	_ = json.Unmarshal(raw, &traits)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastCreate = body

	for _, existing := range f.identities {
		if strings.EqualFold(existing.Traits.Username, traits.Username) {
			writeGenericError(w, http.StatusConflict, "An identity with the same identifier already exists.")
			return
		}
	}

	state, _ := body["state"].(string)
	identity := &fakeIdentity{
		ID:        "9e8d7c6b-5a49-4837-a625-1403f2e1d0c9",
		SchemaID:  body["schema_id"].(string),
		State:     state,
		Password:  passwordFrom(body),
		Traits:    traits,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	f.identities[identity.ID] = identity
	writeJSON(w, http.StatusCreated, f.identityJSON(identity))
}

func passwordFrom(body map[string]interface{}) string {
	creds, _ := body["credentials"].(map[string]interface{})
	password, _ := creds["password"].(map[string]interface{})
	cfg, _ := password["config"].(map[string]interface{})
	secret, _ := cfg["password"].(string)
	return secret
}

func (f *fakeKratos) listIdentities(w http.ResponseWriter, r *http.Request) {
	identifier := r.URL.Query().Get("credentials_identifier")

	f.mu.Lock()
	defer f.mu.Unlock()

	out := []map[string]interface{}{}
	for _, i := range f.identities {
		if identifier == "" ||
			strings.EqualFold(i.Traits.Username, identifier) ||
			strings.EqualFold(i.Traits.Email, identifier) {
			out = append(out, f.identityJSON(i))
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *fakeKratos) getIdentity(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	identity, ok := f.identities[r.PathValue("id")]
	if !ok {
		writeGenericError(w, http.StatusNotFound, "Unable to locate the resource")
		return
	}
	writeJSON(w, http.StatusOK, f.identityJSON(identity))
}

func (f *fakeKratos) updateIdentity(w http.ResponseWriter, r *http.Request) {
	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeGenericError(w, http.StatusBadRequest, "malformed body")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	identity, ok := f.identities[r.PathValue("id")]
	if !ok {
		writeGenericError(w, http.StatusNotFound, "Unable to locate the resource")
		return
	}
	if secret := passwordFrom(body); secret != "" {
		identity.Password = secret
	}
	if state, ok := body["state"].(string); ok {
		identity.State = state
	}
	writeJSON(w, http.StatusOK, f.identityJSON(identity))
}

func (f *fakeKratos) deleteIdentity(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := r.PathValue("id")
	if _, ok := f.identities[id]; !ok {
		writeGenericError(w, http.StatusNotFound, "Unable to locate the resource")
		return
	}
	delete(f.identities, id)
	w.WriteHeader(http.StatusNoContent)
}

func (f *fakeKratos) createLoginFlow(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, f.loginFlow(nil))
}

func (f *fakeKratos) loginFlow(messages []map[string]interface{}) map[string]interface{} {
	now := time.Now().UTC()
	ui := map[string]interface{}{
		"action": f.server.URL + "/self-service/login?flow=flow-1",
		"method": "POST",
		"nodes":  []interface{}{},
	}
	if messages != nil {
		ui["messages"] = messages
	}
	return map[string]interface{}{
		"id":          "flow-1",
		"type":        "api",
		"expires_at":  now.Add(10 * time.Minute).Format(time.RFC3339),
		"issued_at":   now.Format(time.RFC3339),
		"request_url": f.server.URL + "/self-service/login/api",
		"state":       "choose_method",
		"ui":          ui,
	}
}

func (f *fakeKratos) updateLoginFlow(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("flow") != "flow-1" {
		writeGenericError(w, http.StatusGone, "self-service flow expired")
		return
	}

	var body map[string]string
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body["method"] != "password" {
		writeGenericError(w, http.StatusBadRequest, "malformed body")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, i := range f.identities {
		matches := strings.EqualFold(i.Traits.Username, body["identifier"]) || strings.EqualFold(i.Traits.Email, body["identifier"])
		if matches && i.Password == body["password"] {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"session":       f.sessionJSON(i, time.Now().Add(time.Hour)),
				"session_token": "token-" + i.ID,
			})
			return
		}
	}

	writeJSON(w, http.StatusBadRequest, f.loginFlow([]map[string]interface{}{
		{"id": 4000006, "text": "The provided credentials are invalid.", "type": "error"},
	}))
}

func (f *fakeKratos) whoami(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("X-Session-Token"), "token-")

	f.mu.Lock()
	defer f.mu.Unlock()

	identity, ok := f.identities[token]
	if !ok {
		writeGenericError(w, http.StatusUnauthorized, "No valid session credentials found in the request.")
		return
	}
	writeJSON(w, http.StatusOK, f.sessionJSON(identity, time.Now().Add(5*time.Minute)))
}

func (f *fakeKratos) extendSession(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := strings.TrimPrefix(r.PathValue("id"), "sess-")
	identity, ok := f.identities[id]
	if !ok {
		writeGenericError(w, http.StatusNotFound, "Unable to locate the resource")
		return
	}
	f.extended = append(f.extended, r.PathValue("id"))
	writeJSON(w, http.StatusOK, f.sessionJSON(identity, time.Now().Add(2*time.Hour)))
}
