package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"watchmate/internal/data/entity"
	"watchmate/internal/permission"
	"watchmate/internal/usecase"
	"watchmate/pkg/throttle"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeAuth struct {
	users map[string]*entity.User
	err   error
}

func (f *fakeAuth) Authenticate(_ context.Context, token string) (*entity.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if user, ok := f.users[token]; ok {
		return user, nil
	}
	return nil, usecase.ErrUnauthenticated
}

// echoCaller writes the caller identity seen by the handler
func echoCaller(w http.ResponseWriter, r *http.Request) {
	caller := permission.CallerFromContext(r.Context())
	if caller.Authenticated() {
		w.Write([]byte(string(caller.Role)))
		return
	}
	w.Write([]byte("anonymous"))
}

func newUser(role entity.UserRole) *entity.User {
	return &entity.User{Base: entity.Base{ID: uuid.New()}, Username: "u", Role: role, IsActive: true}
}

func TestAuthenticate(t *testing.T) {
	auth := &fakeAuth{users: map[string]*entity.User{
		"user-key":  newUser(entity.RoleUser),
		"admin-key": newUser(entity.RoleAdmin),
	}}
	handler := Authenticate(auth, zaptest.NewLogger(t))(http.HandlerFunc(echoCaller))

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{name: "no header", header: "", status: http.StatusOK, body: "anonymous"},
		{name: "token scheme", header: "Token user-key", status: http.StatusOK, body: "user"},
		{name: "bearer scheme", header: "Bearer admin-key", status: http.StatusOK, body: "admin"},
		{name: "lowercase scheme", header: "token user-key", status: http.StatusOK, body: "user"},
		{name: "unknown token", header: "Token nope", status: http.StatusUnauthorized},
		{name: "missing key", header: "Token", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
			if tt.status == http.StatusUnauthorized {
				assert.Equal(t, "Token", rec.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestAuthenticate_BackendFailure(t *testing.T) {
	auth := &fakeAuth{err: errors.New("connection refused")}
	handler := Authenticate(auth, zaptest.NewLogger(t))(http.HandlerFunc(echoCaller))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAdminOrReadOnly(t *testing.T) {
	auth := &fakeAuth{users: map[string]*entity.User{
		"user-key":  newUser(entity.RoleUser),
		"admin-key": newUser(entity.RoleAdmin),
	}}
	log := zaptest.NewLogger(t)
	handler := Authenticate(auth, log)(AdminOrReadOnly(log)(http.HandlerFunc(echoCaller)))

	tests := []struct {
		method string
		token  string
		status int
	}{
		{method: http.MethodGet, token: "", status: http.StatusOK},
		{method: http.MethodGet, token: "user-key", status: http.StatusOK},
		{method: http.MethodPost, token: "", status: http.StatusUnauthorized},
		{method: http.MethodPost, token: "user-key", status: http.StatusForbidden},
		{method: http.MethodPut, token: "user-key", status: http.StatusForbidden},
		{method: http.MethodDelete, token: "user-key", status: http.StatusForbidden},
		{method: http.MethodPost, token: "admin-key", status: http.StatusOK},
		{method: http.MethodDelete, token: "admin-key", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.token, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Token "+tt.token)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestRequireAuth(t *testing.T) {
	auth := &fakeAuth{users: map[string]*entity.User{"key": newUser(entity.RoleUser)}}
	handler := Authenticate(auth, zaptest.NewLogger(t))(RequireAuth()(http.HandlerFunc(echoCaller)))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Token key")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestThrottle(t *testing.T) {
	store := throttle.NewStore(map[string]throttle.Rate{
		"review-create": {Requests: 2, Period: time.Minute},
	})
	log := zaptest.NewLogger(t)
	handler := Throttle(store, "review-create", log)(http.HandlerFunc(echoCaller))

	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1000").Code)
	assert.Equal(t, http.StatusOK, send("10.0.0.1:1001").Code)

	rec := send("10.0.0.1:1002")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// a different client has its own budget
	assert.Equal(t, http.StatusOK, send("10.0.0.2:1000").Code)
}

func TestThrottle_UnconfiguredScope(t *testing.T) {
	store := throttle.NewStore(nil)
	handler := Throttle(store, "review-detail", zaptest.NewLogger(t))(http.HandlerFunc(echoCaller))

	for i := 0; i < 20; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestCallerKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:5555"
	assert.Equal(t, "ip:192.0.2.7", CallerKey(req))

	req.RemoteAddr = "192.0.2.7"
	assert.Equal(t, "ip:192.0.2.7", CallerKey(req))

	auth := &fakeAuth{users: map[string]*entity.User{"key": newUser(entity.RoleUser)}}
	var got string
	handler := Authenticate(auth, zaptest.NewLogger(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = CallerKey(r)
	}))
	req.Header.Set("Authorization", "Token key")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "user:"+auth.users["key"].ID.String(), got)
}

func TestGlobalRateLimit(t *testing.T) {
	passthrough := GlobalRateLimit(0)(http.HandlerFunc(echoCaller))
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		passthrough.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	limited := GlobalRateLimit(2)(http.HandlerFunc(echoCaller))
	codes := make([]int, 3)
	for i := range codes {
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		codes[i] = rec.Code
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRecover(t *testing.T) {
	handler := Recover(zaptest.NewLogger(t))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Internal server error")
}

func TestCORS(t *testing.T) {
	handler := CORS([]string{"https://app.example.com"})(http.HandlerFunc(echoCaller))

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestLoggerCapturesStatus(t *testing.T) {
	handler := Logger(zaptest.NewLogger(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw, ok := w.(*responseWriter)
		require.True(t, ok)
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("tea"))
		assert.Equal(t, http.StatusTeapot, rw.statusCode)
		assert.Equal(t, 3, rw.bytesWritten)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
