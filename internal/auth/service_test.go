package auth

import (
	"context"
	"testing"
	"time"

	"github.com/geolex-tech/storefront-backend/internal/users"
	pkgauth "github.com/geolex-tech/storefront-backend/pkg/auth"
	"github.com/geolex-tech/storefront-backend/pkg/auth/session"
	"github.com/geolex-tech/storefront-backend/pkg/config"
	dbpkg "github.com/geolex-tech/storefront-backend/pkg/db"
	"github.com/geolex-tech/storefront-backend/pkg/db/models"
	pkgerrors "github.com/geolex-tech/storefront-backend/pkg/errors"
	"github.com/geolex-tech/storefront-backend/pkg/logger"
	"github.com/geolex-tech/storefront-backend/pkg/security"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type stubSessions struct {
	generated  []string
	revoked    []string
	rotateErr  error
	genererr   error
	lastRotate string
}

func (s *stubSessions) Generate(_ context.Context, accessID string) (string, error) {
	if s.genererr != nil {
		return "", s.genererr
	}
	s.generated = append(s.generated, accessID)
	return "refresh-" + accessID, nil
}

func (s *stubSessions) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	s.lastRotate = oldAccessID
	newID := session.NewAccessID()
	return newID, "refresh-" + newID, nil
}

func (s *stubSessions) Revoke(_ context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "unit-test-secret",
		Issuer:            "geolex-test",
		ExpirationMinutes: 15,
	}
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
		ResetTokenTTL:    time.Hour,
	}
}

func setupAuthDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.WebsiteUser{}, &models.PasswordReset{}))
	t.Cleanup(func() {
		conn.Exec("DELETE FROM password_resets")
		conn.Exec("DELETE FROM website_users")
	})
	return conn
}

func newAuthService(t *testing.T, conn *gorm.DB, sessions *stubSessions) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "auth-test", Level: zerolog.ErrorLevel})
	svc, err := NewService(
		dbpkg.NewWithConn(conn),
		users.NewRepository(conn),
		NewResetRepository(conn),
		sessions,
		testJWTConfig(),
		testPasswordConfig(),
		logg,
	)
	require.NoError(t, err)
	return svc
}

func TestSignUpAndSignIn(t *testing.T) {
	conn := setupAuthDB(t)
	sessions := &stubSessions{}
	svc := newAuthService(t, conn, sessions)
	ctx := context.Background()

	creds, err := svc.SignUp(ctx, SignUpInput{
		Email:     "  Shopper@Example.com ",
		Password:  "correct horse battery",
		FirstName: "Amal",
		LastName:  "Perera",
		Phone:     "0771234567",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, creds.AccessToken)
	assert.NotEmpty(t, creds.RefreshToken)
	assert.Equal(t, "shopper@example.com", creds.User.Email)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), creds.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.AccountTypeCustomer, claims.AccountType)
	require.Len(t, sessions.generated, 1)
	assert.Equal(t, claims.ID, sessions.generated[0], "session keyed by the token jti")

	t.Run("duplicate email conflicts", func(t *testing.T) {
		_, err := svc.SignUp(ctx, SignUpInput{Email: "shopper@example.com", Password: "x"})
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
	})

	t.Run("sign in succeeds and stamps last login", func(t *testing.T) {
		creds, err := svc.SignIn(ctx, "shopper@example.com", "correct horse battery")
		require.NoError(t, err)
		assert.NotEmpty(t, creds.AccessToken)

		row, err := users.NewRepository(conn).FindByEmail(ctx, "shopper@example.com")
		require.NoError(t, err)
		assert.NotNil(t, row.LastLoginAt)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		_, err := svc.SignIn(ctx, "shopper@example.com", "nope")
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
	})

	t.Run("unknown email gets the same message", func(t *testing.T) {
		_, err := svc.SignIn(ctx, "ghost@example.com", "nope")
		require.Error(t, err)
		e := pkgerrors.As(err)
		assert.Equal(t, pkgerrors.CodeUnauthorized, e.Code())
		assert.Equal(t, invalidCredentialsMessage, e.Message())
	})
}

func TestSignInRejectsNonCustomerAccounts(t *testing.T) {
	conn := setupAuthDB(t)
	svc := newAuthService(t, conn, &stubSessions{})
	ctx := context.Background()

	hash, err := security.HashPassword("staff pass", testPasswordConfig())
	require.NoError(t, err)
	require.NoError(t, conn.Create(&models.WebsiteUser{
		ID:           uuid.New(),
		Email:        "staff@example.com",
		PasswordHash: hash,
		FirstName:    "Back",
		LastName:     "Office",
		AccountType:  "staff",
	}).Error)

	_, err = svc.SignIn(ctx, "staff@example.com", "staff pass")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestRefreshRotatesSession(t *testing.T) {
	conn := setupAuthDB(t)
	sessions := &stubSessions{}
	svc := newAuthService(t, conn, sessions)
	ctx := context.Background()

	creds, err := svc.SignUp(ctx, SignUpInput{
		Email: "r@example.com", Password: "pw", FirstName: "R", LastName: "L",
	})
	require.NoError(t, err)

	next, err := svc.Refresh(ctx, creds.AccessToken, creds.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, creds.AccessToken, next.AccessToken)
	assert.Equal(t, sessions.generated[0], sessions.lastRotate)

	t.Run("invalid refresh token is unauthorized", func(t *testing.T) {
		sessions.rotateErr = session.ErrInvalidRefreshToken
		_, err := svc.Refresh(ctx, creds.AccessToken, "bogus")
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
	})
}

func TestPasswordResetFlow(t *testing.T) {
	conn := setupAuthDB(t)
	svc := newAuthService(t, conn, &stubSessions{})
	ctx := context.Background()

	_, err := svc.SignUp(ctx, SignUpInput{
		Email: "reset@example.com", Password: "old pass", FirstName: "R", LastName: "S",
	})
	require.NoError(t, err)

	token, err := svc.RequestPasswordReset(ctx, "reset@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	t.Run("unknown email yields no token and no error", func(t *testing.T) {
		token, err := svc.RequestPasswordReset(ctx, "ghost@example.com")
		require.NoError(t, err)
		assert.Empty(t, token)
	})

	require.NoError(t, svc.ResetPassword(ctx, token, "new pass"))

	t.Run("token is single use", func(t *testing.T) {
		err := svc.ResetPassword(ctx, token, "another pass")
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
	})

	t.Run("new password works", func(t *testing.T) {
		_, err := svc.SignIn(ctx, "reset@example.com", "new pass")
		require.NoError(t, err)

		_, err = svc.SignIn(ctx, "reset@example.com", "old pass")
		require.Error(t, err)
	})
}

func TestUpdatePassword(t *testing.T) {
	conn := setupAuthDB(t)
	svc := newAuthService(t, conn, &stubSessions{})
	ctx := context.Background()

	creds, err := svc.SignUp(ctx, SignUpInput{
		Email: "u@example.com", Password: "first pass", FirstName: "U", LastName: "P",
	})
	require.NoError(t, err)

	t.Run("wrong current password rejected", func(t *testing.T) {
		err := svc.UpdatePassword(ctx, creds.User.ID, "wrong", "second pass")
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
	})

	require.NoError(t, svc.UpdatePassword(ctx, creds.User.ID, "first pass", "second pass"))

	_, err = svc.SignIn(ctx, "u@example.com", "second pass")
	require.NoError(t, err)
}

func TestSignOutRevokesSession(t *testing.T) {
	conn := setupAuthDB(t)
	sessions := &stubSessions{}
	svc := newAuthService(t, conn, sessions)

	require.NoError(t, svc.SignOut(context.Background(), "jti-1"))
	assert.Equal(t, []string{"jti-1"}, sessions.revoked)
}
