package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raborimet/crm-api/internal/domain/auth"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *SessionManager, *MemoryStore) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := NewMemoryStore()
	sessions, err := NewSessionManager(SessionManagerOptions{Store: store})
	require.NoError(t, err)
	client, err := New(Options{BaseURL: srv.URL + "/api/v1", Sessions: sessions})
	require.NoError(t, err)
	return client, sessions, store
}

func TestCredentialAttachment(t *testing.T) {
	var loginAuth, listAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		loginAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"token":"issued-token","user":{"id":1,"email":"pat@example.com","role":"user","is_active":true}}`)
	})
	mux.HandleFunc("GET /api/v1/clients", func(w http.ResponseWriter, r *http.Request) {
		listAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"clients":[],"total":0,"limit":50,"offset":0}`)
	})
	client, sessions, _ := newTestClient(t, mux)

	_, err := sessions.Login(context.Background(), Credentials{Email: "pat@example.com", Password: "secret123"})
	require.NoError(t, err)
	_, err = client.ListClients(context.Background(), ListParams{})
	require.NoError(t, err)

	assert.Empty(t, loginAuth, "login request must not carry a credential")
	assert.Equal(t, "Bearer issued-token", listAuth)
}

func TestNoTokenNoHeader(t *testing.T) {
	var gotAuth string
	var haveAuth bool
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/clients", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, haveAuth = r.Header["Authorization"]
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"clients":[],"total":0,"limit":50,"offset":0}`)
	})
	client, _, _ := newTestClient(t, mux)

	_, err := client.ListClients(context.Background(), ListParams{})
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
	assert.False(t, haveAuth)
}

func TestRegisterStartsSessionThroughPipeline(t *testing.T) {
	var registerAuth string
	var received map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/register", func(w http.ResponseWriter, r *http.Request) {
		registerAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"token":"fresh-token","expires_at":"2027-01-01T00:00:00Z","user":{"id":7,"email":"pat@example.com","first_name":"Pat","role":"user","is_active":true}}`)
	})
	_, sessions, store := newTestClient(t, mux)

	resp, err := sessions.Register(context.Background(), RegisterRequest{
		Email:     "pat@example.com",
		Password:  "secret123",
		FirstName: "Pat",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.User)
	assert.Equal(t, "fresh-token", resp.Token)
	assert.Empty(t, registerAuth, "register request must not carry a credential")
	assert.Equal(t, "Pat", received["first_name"], "request body reaches the server in wire format")

	assert.True(t, sessions.IsAuthenticated())
	user, ok := sessions.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "pat@example.com", user.Email)

	token, haveToken, storeErr := store.Get(StoreKeyToken)
	require.NoError(t, storeErr)
	require.True(t, haveToken)
	assert.Equal(t, "fresh-token", token)
}

func TestRegisterWithoutTokenDoesNotStartSession(t *testing.T) {
	// A backend answering register with a bare user record must not leave
	// the session half-initialized with an empty credential.
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/register", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":7,"email":"pat@example.com","role":"user","is_active":true}`)
	})
	_, sessions, store := newTestClient(t, mux)

	_, err := sessions.Register(context.Background(), RegisterRequest{
		Email:    "pat@example.com",
		Password: "secret123",
	})
	require.Error(t, err)

	assert.False(t, sessions.IsAuthenticated())
	_, haveToken, storeErr := store.Get(StoreKeyToken)
	require.NoError(t, storeErr)
	assert.False(t, haveToken)
	_, haveUser, storeErr := store.Get(StoreKeyUser)
	require.NoError(t, storeErr)
	assert.False(t, haveUser)
}

func TestUnauthorizedResponseForcesLogout(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/clients", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":"unauthorized","message":"token expired"}`)
	})
	client, _, store := newTestClient(t, mux)
	require.NoError(t, store.Set(StoreKeyToken, "expired-token"))
	require.NoError(t, store.Set(StoreKeyUser, `{"id":1,"email":"pat@example.com","role":"user"}`))

	_, err := client.ListClients(context.Background(), ListParams{})
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))

	_, haveToken, storeErr := store.Get(StoreKeyToken)
	require.NoError(t, storeErr)
	assert.False(t, haveToken, "401 on a regular endpoint must clear the session")
	_, haveUser, storeErr := store.Get(StoreKeyUser)
	require.NoError(t, storeErr)
	assert.False(t, haveUser)
}

func TestUnauthorizedVerifyLeavesSessionAlone(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/auth/verify", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":"unauthorized","message":"token expired"}`)
	})
	client, _, store := newTestClient(t, mux)
	require.NoError(t, store.Set(StoreKeyToken, "questionable-token"))

	_, err := client.Verify(context.Background())
	require.Error(t, err)

	_, haveToken, storeErr := store.Get(StoreKeyToken)
	require.NoError(t, storeErr)
	assert.True(t, haveToken, "the credential stage must not log out on a verify 401")
}

func TestCasingRoundTripThroughPipeline(t *testing.T) {
	var received map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/clients", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":5,"name":"Acme Corp","zip_code":"10001","tax_id":"TX-1","contact_type":"company","is_active":true}`)
	})
	client, _, _ := newTestClient(t, mux)

	created, err := client.CreateClient(context.Background(), CreateClientRequest{
		Name:        "Acme Corp",
		ZipCode:     "10001",
		TaxID:       "TX-1",
		ContactType: "company",
	})
	require.NoError(t, err)

	// Outgoing body reached the server in wire format.
	assert.Equal(t, "10001", received["zip_code"])
	assert.Equal(t, "TX-1", received["tax_id"])
	assert.Equal(t, "company", received["contact_type"])
	assert.NotContains(t, received, "zipCode")

	// Incoming body was converted back before decoding.
	assert.Equal(t, "10001", created.ZipCode)
	assert.Equal(t, "TX-1", created.TaxID)
	assert.True(t, created.IsActive)
}

func TestBinaryResponsePassesThrough(t *testing.T) {
	payload := []byte{0x50, 0x4b, 0x03, 0x04, 0x00, 0xff}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(payload)
	}))
	t.Cleanup(srv.Close)

	transport := NewCasingTransport(nil)
	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := transport.RoundTrip(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	got, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestSessionDrivenVerifyAgainstServer(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/auth/verify", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") == "Bearer good-token" {
			io.WriteString(w, `{"valid":true,"user":{"id":1,"email":"pat@example.com","first_name":"Pat","role":"admin","is_active":true}}`)
			return
		}
		io.WriteString(w, `{"valid":false}`)
	})
	_, sessions, store := newTestClient(t, mux)
	require.NoError(t, store.Set(StoreKeyToken, "good-token"))

	user, err := sessions.VerifyToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Pat", user.FirstName)
	assert.Equal(t, auth.RoleAdmin, user.Role)
	assert.True(t, sessions.IsAuthenticated())

	// Swap in a bad token: the valid:false answer forces a logout.
	require.NoError(t, store.Set(StoreKeyToken, "bad-token"))
	sessions.mu.Lock()
	sessions.authenticated = false
	sessions.mu.Unlock()

	_, err = sessions.VerifyToken(context.Background())
	require.ErrorIs(t, err, ErrTokenInvalid)
	_, haveToken, storeErr := store.Get(StoreKeyToken)
	require.NoError(t, storeErr)
	assert.False(t, haveToken)
}
