package middlewarectx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/peptide-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/peptide-tracker/internal/lib/jwt"
	"github.com/magabrotheeeer/peptide-tracker/internal/lib/sl"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) ValidateToken(ctx context.Context, token string) (*jwt.Claims, error) {
	args := m.Called(ctx, token)
	claims, _ := args.Get(0).(*jwt.Claims)
	return claims, args.Error(1)
}

func TestJWTMiddleware(t *testing.T) {
	authMock := new(AuthServiceMock)

	handlerCalled := false
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		userID, ok := middlewarectx.UserIDFrom(r.Context())
		assert.True(t, ok)
		assert.Equal(t, "u1", userID)
		assert.Equal(t, "testuser", r.Context().Value(middlewarectx.User))
		w.WriteHeader(http.StatusOK)
	})

	handler := middlewarectx.JWTMiddleware(authMock, sl.NewDiscardLogger())(nextHandler)

	tests := []struct {
		name           string
		authHeader     string
		mockClaims     *jwt.Claims
		mockErr        error
		wantStatusCode int
		wantCalled     bool
	}{
		{
			name:           "missing Authorization header",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "invalid Authorization header prefix",
			authHeader:     "Basic sometoken",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "token validation error",
			authHeader:     "Bearer token",
			mockErr:        jwt.ErrInvalidToken,
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "token without user id",
			authHeader:     "Bearer token",
			mockClaims:     &jwt.Claims{Username: "testuser"},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "valid token",
			authHeader:     "Bearer validtoken",
			mockClaims:     &jwt.Claims{UserID: "u1", Username: "testuser"},
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled = false
			authMock.ExpectedCalls = nil
			authMock.Calls = nil
			if tt.mockClaims != nil || tt.mockErr != nil {
				authMock.On("ValidateToken", mock.Anything, strings.TrimPrefix(tt.authHeader, "Bearer ")).
					Return(tt.mockClaims, tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodGet, "/somepath", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
			authMock.AssertExpectations(t)
		})
	}
}

func TestRateLimiter(t *testing.T) {
	limiter := middlewarectx.NewRateLimiter(0.001, 2)
	handler := limiter.Middleware(sl.NewDiscardLogger())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	request := func(userID string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/injections", nil)
		if userID != "" {
			req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserID, userID))
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, request("u1"))
	assert.Equal(t, http.StatusOK, request("u1"))
	assert.Equal(t, http.StatusTooManyRequests, request("u1"))

	// у другого пользователя свой лимит
	assert.Equal(t, http.StatusOK, request("u2"))

	// анонимные запросы считаются по адресу
	assert.Equal(t, http.StatusOK, request(""))
	assert.Equal(t, http.StatusOK, request(""))
	assert.Equal(t, http.StatusTooManyRequests, request(""))

	assert.Zero(t, limiter.Prune(time.Now(), time.Hour))

	// после простоя состояние клиента сбрасывается
	assert.Equal(t, 3, limiter.Prune(time.Now().Add(2*time.Hour), time.Hour))
	assert.Equal(t, http.StatusOK, request("u1"))
}

func TestRateLimiter_RunStopsOnCancel(t *testing.T) {
	limiter := middlewarectx.NewRateLimiter(1, 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		limiter.Run(ctx, time.Millisecond, time.Minute)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestUserIDFrom(t *testing.T) {
	_, ok := middlewarectx.UserIDFrom(context.Background())
	assert.False(t, ok)

	_, ok = middlewarectx.UserIDFrom(context.WithValue(context.Background(), middlewarectx.UserID, ""))
	assert.False(t, ok)

	ctx := context.WithValue(context.Background(), middlewarectx.UserID, "u1")
	id, ok := middlewarectx.UserIDFrom(ctx)
	assert.True(t, ok)
	assert.Equal(t, "u1", id)
}
