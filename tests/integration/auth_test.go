//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/medbook/medbook/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authResult struct {
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
		Role  string `json:"role"`
	} `json:"user"`
}

func TestAuth_RegisterLoginFlow(t *testing.T) {
	client := newTestClient(t)
	email := testutil.RandomEmail()
	password := "pw123"

	resp, err := client.POST("/api/auth/register", map[string]string{
		"email":    email,
		"password": password,
		"name":     "Alice",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var registered authResult
	testutil.DecodeJSON(t, resp, &registered)
	assert.NotEmpty(t, registered.AccessToken)
	assert.NotEmpty(t, registered.User.ID)
	assert.Equal(t, email, registered.User.Email)
	assert.Equal(t, "patient", registered.User.Role, "role should default to patient")

	resp, err = client.POST("/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var loggedIn authResult
	testutil.DecodeJSON(t, resp, &loggedIn)
	assert.NotEmpty(t, loggedIn.AccessToken)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)
}

func TestAuth_DuplicateEmailConflicts(t *testing.T) {
	client := newTestClient(t)
	email := testutil.RandomEmail()

	body := map[string]string{
		"email":    email,
		"password": "pw123",
		"name":     "Alice",
	}

	resp, err := client.POST("/api/auth/register", body)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = client.POST("/api/auth/register", body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestAuth_RegisterMissingFields(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.POST("/api/auth/register", map[string]string{
		"email": testutil.RandomEmail(),
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestAuth_RegisterUnknownRole(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.POST("/api/auth/register", map[string]string{
		"email":    testutil.RandomEmail(),
		"password": "pw123",
		"name":     "Eve",
		"role":     "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestAuth_LoginWrongPassword(t *testing.T) {
	client := newTestClient(t)
	email := testutil.RandomEmail()
	client.RegisterAs(t, email, "pw123", "Alice", "")
	client.ClearToken()

	resp, err := client.POST("/api/auth/login", map[string]string{
		"email":    email,
		"password": "wrong",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestAuth_LoginUnknownEmail(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.POST("/api/auth/login", map[string]string{
		"email":    testutil.RandomEmail(),
		"password": "pw123",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestAuth_ProtectedRouteRequiresToken(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.GET("/api/users/profile")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestAuth_ProtectedRouteRejectsGarbageToken(t *testing.T) {
	client := newTestClient(t)
	client.Token = "not-a-real-token"

	resp, err := client.GET("/api/appointments")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()
}
