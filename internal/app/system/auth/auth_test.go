package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func newManager(t *testing.T) *SessionManager {
	t.Helper()
	m, err := NewSessionManager("0123456789abcdef0123456789abcdef", "volunteerhub-test", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	return m
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	if _, err := NewSessionManager("", "s", "", false, zap.NewNop()); err == nil {
		t.Fatal("expected error for empty session key")
	}
}

func TestCurrentUser_NotSet(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	if _, ok := CurrentUser(r); ok {
		t.Fatal("expected no current user")
	}
}

func TestWithUser(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r = WithUser(r, &SessionUser{ID: "abc", Role: "volunteer"})
	u, ok := CurrentUser(r)
	if !ok || u.ID != "abc" {
		t.Fatalf("CurrentUser: got %+v, ok=%v", u, ok)
	}
}

func TestRequireSignedIn_RedirectsBrowser(t *testing.T) {
	m := newManager(t)
	h := m.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest("GET", "/projects", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?return=%2Fprojects" {
		t.Errorf("Location: got %q", loc)
	}
}

func TestRequireSignedIn_401ForAPI(t *testing.T) {
	m := newManager(t)
	h := m.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest("GET", "/projects", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireRole(t *testing.T) {
	m := newManager(t)
	ran := false
	h := m.RequireRole("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ran = true
	}))

	// Wrong role → 403
	req := httptest.NewRequest("GET", "/admin", nil)
	req = WithUser(req, &SessionUser{ID: "u1", Role: "volunteer"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusForbidden)
	}
	if ran {
		t.Fatal("handler ran for wrong role")
	}

	// Right role, case-insensitive
	req = httptest.NewRequest("GET", "/admin", nil)
	req = WithUser(req, &SessionUser{ID: "u1", Role: "Admin"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if !ran {
		t.Fatal("handler did not run for admin role")
	}
}

type staticFetcher struct{ u *SessionUser }

func (f staticFetcher) FetchUser(ctx context.Context, userID string) *SessionUser { return f.u }

func TestLoadSessionUser_FetcherRejectsBanned(t *testing.T) {
	m := newManager(t)

	// Sign in to get a session cookie.
	signinReq := httptest.NewRequest("GET", "/", nil)
	signinRec := httptest.NewRecorder()
	if err := m.SignIn(signinRec, signinReq, &SessionUser{ID: "u1"}); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	cookie := signinRec.Header().Get("Set-Cookie")
	if cookie == "" {
		t.Fatal("no session cookie set")
	}

	// Fetcher returning nil (banned/deleted user) leaves the request
	// unauthenticated even with a valid session cookie.
	m.SetUserFetcher(staticFetcher{u: nil})
	var sawUser bool
	h := m.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawUser = CurrentUser(r)
	}))
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Cookie", cookie)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if sawUser {
		t.Fatal("banned user should not be injected into context")
	}

	// A live user comes through.
	m.SetUserFetcher(staticFetcher{u: &SessionUser{ID: "u1", Role: "volunteer"}})
	h.ServeHTTP(httptest.NewRecorder(), req)
	if !sawUser {
		t.Fatal("active user should be injected into context")
	}
}
