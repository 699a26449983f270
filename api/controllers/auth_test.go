package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geolex-tech/storefront-backend/api/middleware"
	authsvc "github.com/geolex-tech/storefront-backend/internal/auth"
	usersvc "github.com/geolex-tech/storefront-backend/internal/users"
	pkgerrors "github.com/geolex-tech/storefront-backend/pkg/errors"
)

type stubAuthService struct {
	creds *authsvc.Credentials
	err   error

	signUpInput authsvc.SignUpInput
	signedOut   string
	resetToken  string
}

func (s *stubAuthService) SignUp(ctx context.Context, input authsvc.SignUpInput) (*authsvc.Credentials, error) {
	s.signUpInput = input
	return s.creds, s.err
}

func (s *stubAuthService) SignIn(ctx context.Context, email, password string) (*authsvc.Credentials, error) {
	return s.creds, s.err
}

func (s *stubAuthService) SignOut(ctx context.Context, accessID string) error {
	s.signedOut = accessID
	return s.err
}

func (s *stubAuthService) Refresh(ctx context.Context, accessToken, refreshToken string) (*authsvc.Credentials, error) {
	return s.creds, s.err
}

func (s *stubAuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	return s.resetToken, s.err
}

func (s *stubAuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	return s.err
}

func (s *stubAuthService) UpdatePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	return s.err
}

func TestAuthSignUpSuccess(t *testing.T) {
	svc := &stubAuthService{creds: &authsvc.Credentials{
		AccessToken:  "access",
		RefreshToken: "refresh",
		User:         usersvc.Profile{Email: "nimal@example.com"},
	}}
	handler := AuthSignUp(svc, nil)

	body := `{"email":"nimal@example.com","password":"Secret#123","firstName":"Nimal","lastName":"Perera"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, "nimal@example.com", svc.signUpInput.Email)
	assert.Equal(t, "Nimal", svc.signUpInput.FirstName)

	var envelope struct {
		Data authsvc.Credentials `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, "access", envelope.Data.AccessToken)
}

func TestAuthSignUpRejectsShortPassword(t *testing.T) {
	handler := AuthSignUp(&stubAuthService{}, nil)

	body := `{"email":"nimal@example.com","password":"short","firstName":"Nimal","lastName":"Perera"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestAuthSignInBadCredentials(t *testing.T) {
	svc := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")}
	handler := AuthSignIn(svc, nil)

	body := `{"email":"nimal@example.com","password":"wrong-pass"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signin", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusUnauthorized, resp.Code)

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, "invalid email or password", envelope.Error.Message)
}

func TestAuthSignOutRequiresSession(t *testing.T) {
	handler := AuthSignOut(&stubAuthService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signout", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestAuthSignOutRevokesContextSession(t *testing.T) {
	svc := &stubAuthService{}
	handler := AuthSignOut(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signout", nil)
	ctx := middleware.WithUser(req.Context(), uuid.New(), "nimal@example.com", "customer", "access-id-1")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req.WithContext(ctx))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "access-id-1", svc.signedOut)
}

func TestAuthPasswordResetRequestNeverRevealsAccounts(t *testing.T) {
	for _, token := range []string{"", "issued-token"} {
		svc := &stubAuthService{resetToken: token}
		handler := AuthPasswordResetRequest(svc, nil)

		body := `{"email":"whoever@example.com"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/password-reset", bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)

		require.Equal(t, http.StatusOK, resp.Code)
		assert.NotContains(t, resp.Body.String(), "issued-token")
	}
}
