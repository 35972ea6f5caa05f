package api

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitMiddleware_AllowsWithinLimit(t *testing.T) {
	handler := RateLimitMiddleware(5)(okHandler())

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-User-ID", "student-a")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
	}
}

func TestRateLimitMiddleware_BlocksOverLimit(t *testing.T) {
	handler := RateLimitMiddleware(3)(okHandler())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-User-ID", "student-a")
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-User-ID", "student-a")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", w.Code)
	}
}

func TestRateLimitMiddleware_KeysByClientIP(t *testing.T) {
	handler := RateLimitMiddleware(2)(okHandler())

	send := func(addr string) int {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	send("10.0.0.1:4000")
	send("10.0.0.1:4001")

	if code := send("10.0.0.2:4000"); code != http.StatusOK {
		t.Errorf("10.0.0.2 should not be rate-limited, got %d", code)
	}
	if code := send("10.0.0.1:4002"); code != http.StatusTooManyRequests {
		t.Errorf("10.0.0.1 should be rate-limited across ports, got %d", code)
	}
}

func TestRateLimitMiddleware_IgnoresIdentityHeaders(t *testing.T) {
	handler := RateLimitMiddleware(2)(okHandler())

	for i, user := range []string{"student-a", "student-b", "student-c"} {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-User-ID", user)
		req.Header.Set("Authorization", "Bearer token-"+user)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		want := http.StatusOK
		if i == 2 {
			want = http.StatusTooManyRequests
		}
		if w.Code != want {
			t.Errorf("request %d as %s: expected %d, got %d", i+1, user, want, w.Code)
		}
	}
}

func TestRateLimiter_DropsExpiredKeys(t *testing.T) {
	rl := newRateLimiter(1)
	start := time.Unix(1700000000, 0)

	require.True(t, rl.allow("10.0.0.1", start))
	require.True(t, rl.allow("10.0.0.2", start))
	require.False(t, rl.allow("10.0.0.1", start.Add(time.Second)))
	assert.Len(t, rl.requests, 2)

	later := start.Add(2 * time.Minute)
	require.True(t, rl.allow("10.0.0.3", later))
	assert.Len(t, rl.requests, 1)
	assert.Contains(t, rl.requests, "10.0.0.3")

	// The window has passed for 10.0.0.1 as well.
	assert.True(t, rl.allow("10.0.0.1", later))
}

func TestRateLimitMiddleware_ZeroDisables(t *testing.T) {
	handler := RateLimitMiddleware(0)(okHandler())
	for i := 0; i < 10; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRequestLogger(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	called := false
	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

	assert.True(t, called)
	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestUserMiddleware_HeaderFallback(t *testing.T) {
	var seen string
	handler := UserMiddleware(NewAuthenticator("", ""))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserID(r.Context())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-User-ID", "student-a")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "student-a", seen)
}

func TestUserMiddleware_BearerToken(t *testing.T) {
	auth := NewAuthenticator("test-secret", "gradebook")
	var seen string
	handler := UserMiddleware(auth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserID(r.Context())
	}))

	token, err := auth.Issue("student-a", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "student-a", seen)

	// X-User-ID is ignored once tokens are enabled.
	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-User-ID", "student-a")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticatorRejectsBadTokens(t *testing.T) {
	auth := NewAuthenticator("test-secret", "gradebook")

	other, err := NewAuthenticator("other-secret", "gradebook").Issue("student-a", time.Hour)
	require.NoError(t, err)
	_, err = auth.Parse(other)
	assert.Error(t, err, "wrong signing key")

	wrongIssuer, err := NewAuthenticator("test-secret", "someone-else").Issue("student-a", time.Hour)
	require.NoError(t, err)
	_, err = auth.Parse(wrongIssuer)
	assert.Error(t, err, "wrong issuer")

	expired, err := auth.Issue("student-a", -time.Minute)
	require.NoError(t, err)
	_, err = auth.Parse(expired)
	assert.Error(t, err, "expired")

	noSubject, err := auth.Issue("", time.Hour)
	require.NoError(t, err)
	_, err = auth.Parse(noSubject)
	assert.Error(t, err, "missing subject")
}

func TestAdminAuthMiddleware(t *testing.T) {
	handler := AdminAuthMiddleware("admin-token")(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
