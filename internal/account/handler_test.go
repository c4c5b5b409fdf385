package account

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"jobrec/search-service/internal/model"
	"jobrec/search-service/internal/store"
)

// ── Fakes ──────────────────────────────────────────────────────────────────

type fakeUserStore struct {
	hashes map[string]string // user id → bcrypt hash
	names  map[string]string
	added  []string
	err    error
}

func (f *fakeUserStore) AddUser(_ context.Context, userID, passwordHash, _, _ string) error {
	if f.err != nil {
		return f.err
	}
	if _, exists := f.hashes[userID]; exists {
		return store.ErrExists
	}
	if f.hashes == nil {
		f.hashes = make(map[string]string)
	}
	f.hashes[userID] = passwordHash
	f.added = append(f.added, userID)
	return nil
}

func (f *fakeUserStore) GetCredentials(_ context.Context, userID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	h, ok := f.hashes[userID]
	if !ok {
		return "", store.ErrNotFound
	}
	return h, nil
}

func (f *fakeUserStore) GetFullName(_ context.Context, userID string) (string, error) {
	return f.names[userID], nil
}

type fakeSessions struct {
	created   []string
	destroyed []string
}

func (f *fakeSessions) Create(_ context.Context, userID string) (string, error) {
	f.created = append(f.created, userID)
	return "tok-" + userID, nil
}

func (f *fakeSessions) Destroy(_ context.Context, token string) {
	f.destroyed = append(f.destroyed, token)
}

func (f *fakeSessions) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{Name: "session_token", Value: token, Path: "/"})
}

func (f *fakeSessions) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: "session_token", Value: "", MaxAge: -1, Path: "/"})
}

func newTestServer(us *fakeUserStore, ss *fakeSessions) *httptest.Server {
	h := NewHandler(us, ss)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return httptest.NewServer(mux)
}

func postJSON(t *testing.T, srv *httptest.Server, path string, v any) *http.Response {
	t.Helper()
	body, _ := json.Marshal(v)
	resp, err := srv.Client().Post(srv.URL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return string(h)
}

// ── POST /login ────────────────────────────────────────────────────────────

func TestLogin_Success(t *testing.T) {
	us := &fakeUserStore{
		hashes: map[string]string{"john_doe": hashOf(t, "secret1")},
		names:  map[string]string{"john_doe": "John Doe"},
	}
	ss := &fakeSessions{}
	srv := newTestServer(us, ss)
	defer srv.Close()

	resp := postJSON(t, srv, "/login", model.LoginRequest{UserID: "john_doe", Password: "secret1"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body model.LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "OK" || body.UserID != "john_doe" || body.Name != "John Doe" {
		t.Errorf("body = %+v", body)
	}
	if len(ss.created) != 1 || ss.created[0] != "john_doe" {
		t.Errorf("sessions created = %v, want one for john_doe", ss.created)
	}

	var sawCookie bool
	for _, c := range resp.Cookies() {
		if c.Name == "session_token" && c.Value != "" {
			sawCookie = true
		}
	}
	if !sawCookie {
		t.Error("login response missing session cookie")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	us := &fakeUserStore{hashes: map[string]string{"john_doe": hashOf(t, "secret1")}}
	srv := newTestServer(us, &fakeSessions{})
	defer srv.Close()

	resp := postJSON(t, srv, "/login", model.LoginRequest{UserID: "john_doe", Password: "wrong-1"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	srv := newTestServer(&fakeUserStore{}, &fakeSessions{})
	defer srv.Close()

	resp := postJSON(t, srv, "/login", model.LoginRequest{UserID: "nobody_1", Password: "secret1"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 (indistinguishable from bad password)", resp.StatusCode)
	}
}

func TestLogin_StoreFailure(t *testing.T) {
	us := &fakeUserStore{err: errors.New("connection refused")}
	srv := newTestServer(us, &fakeSessions{})
	defer srv.Close()

	resp := postJSON(t, srv, "/login", model.LoginRequest{UserID: "john_doe", Password: "secret1"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
}

// ── POST /register ─────────────────────────────────────────────────────────

func TestRegister_Success(t *testing.T) {
	us := &fakeUserStore{}
	srv := newTestServer(us, &fakeSessions{})
	defer srv.Close()

	resp := postJSON(t, srv, "/register", model.RegisterRequest{
		UserID: "john_doe", Password: "secret1", FirstName: "John", LastName: "Doe",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if len(us.added) != 1 {
		t.Fatalf("added users = %v, want one", us.added)
	}

	// The stored value must be a digest, never the plaintext.
	if h := us.hashes["john_doe"]; h == "secret1" || !strings.HasPrefix(h, "$2") {
		t.Errorf("stored credential %q is not a bcrypt digest", h)
	}
}

func TestRegister_DuplicateUser(t *testing.T) {
	us := &fakeUserStore{hashes: map[string]string{"john_doe": "x"}}
	srv := newTestServer(us, &fakeSessions{})
	defer srv.Close()

	resp := postJSON(t, srv, "/register", model.RegisterRequest{
		UserID: "john_doe", Password: "secret1", FirstName: "John", LastName: "Doe",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want 409", resp.StatusCode)
	}
}

func TestRegister_AggregatedValidation(t *testing.T) {
	srv := newTestServer(&fakeUserStore{}, &fakeSessions{})
	defer srv.Close()

	resp := postJSON(t, srv, "/register", model.RegisterRequest{
		UserID: "x", Password: "123", FirstName: "", LastName: "D0e",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	var body model.Result
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	for _, frag := range []string{"username", "password", "first name", "last name"} {
		if !strings.Contains(strings.ToLower(body.Result), frag) {
			t.Errorf("error %q missing %q violation", body.Result, frag)
		}
	}
}

// ── GET /logout ────────────────────────────────────────────────────────────

func TestLogout_DestroysSession(t *testing.T) {
	ss := &fakeSessions{}
	srv := newTestServer(&fakeUserStore{}, ss)
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/logout", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "tok-john"})
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if len(ss.destroyed) != 1 || ss.destroyed[0] != "tok-john" {
		t.Errorf("destroyed = %v, want [tok-john]", ss.destroyed)
	}
}

func TestLogout_WithoutSessionIsOK(t *testing.T) {
	ss := &fakeSessions{}
	srv := newTestServer(&fakeUserStore{}, ss)
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/logout")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if len(ss.destroyed) != 0 {
		t.Errorf("destroyed = %v, want none", ss.destroyed)
	}
}
