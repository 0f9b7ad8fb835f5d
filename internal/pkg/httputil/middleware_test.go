package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValidator struct {
	userID string
	err    error
}

func (s stubValidator) ValidateToken(_ context.Context, _ string) (string, error) {
	return s.userID, s.err
}

func callWithAuth(t *testing.T, validator TokenValidator, header string) (*httptest.ResponseRecorder, string) {
	t.Helper()

	var seenUserID string
	handler := AuthMiddleware(validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUserID = GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/users/profile", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, seenUserID
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	rec, userID := callWithAuth(t, stubValidator{userID: "user-42"}, "Bearer some-token")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-42", userID)
}

func TestAuthMiddleware_BearerIsCaseInsensitive(t *testing.T) {
	rec, userID := callWithAuth(t, stubValidator{userID: "user-42"}, "bearer some-token")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-42", userID)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	rec, _ := callWithAuth(t, stubValidator{userID: "user-42"}, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_WrongScheme(t *testing.T) {
	rec, _ := callWithAuth(t, stubValidator{userID: "user-42"}, "Basic dXNlcjpwdw==")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	rec, _ := callWithAuth(t, stubValidator{err: errors.New("expired")}, "Bearer stale-token")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetUserID_EmptyOutsideMiddleware(t *testing.T) {
	assert.Empty(t, GetUserID(context.Background()))
}
