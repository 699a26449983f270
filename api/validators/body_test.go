package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/geolex-tech/storefront-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signInBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func decodeInto(t *testing.T, payload string) (signInBody, error) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signin", strings.NewReader(payload))
	var body signInBody
	return body, DecodeJSONBody(req, &body)
}

func TestDecodeJSONBodyValid(t *testing.T) {
	body, err := decodeInto(t, `{"email":"amal@example.com","password":"correct horse"}`)
	require.NoError(t, err)
	assert.Equal(t, "amal@example.com", body.Email)
}

func TestDecodeJSONBodyRejectsUnknownField(t *testing.T) {
	_, err := decodeInto(t, `{"email":"amal@example.com","password":"correct horse","emial":"oops"}`)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestDecodeJSONBodyRejectsTrailingData(t *testing.T) {
	_, err := decodeInto(t, `{"email":"amal@example.com","password":"correct horse"}{"again":true}`)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestDecodeJSONBodyReportsFieldViolations(t *testing.T) {
	_, err := decodeInto(t, `{"email":"not-an-email","password":"short"}`)
	require.Error(t, err)

	e := pkgerrors.As(err)
	require.NotNil(t, e)
	assert.Equal(t, pkgerrors.CodeValidation, e.Code())

	details, ok := e.Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "must be at least 8 characters", details["password"])
}
