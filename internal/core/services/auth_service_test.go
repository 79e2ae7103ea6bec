package services

import (
	"context"
	"strings"
	"testing"

	"gadgethub-api/internal/adapters/persistence/repositories"
	"gadgethub-api/internal/config"
	"gadgethub-api/internal/core/domain"
	"gadgethub-api/internal/pkg/jwt"
	"gadgethub-api/internal/pkg/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		AppURL:  "http://app.test",
		JWT: config.JWTConfig{
			Secret:           "access",
			RefreshSecret:    "refresh",
			VerifySecret:     "verify",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
			VerifyTokenHours: 24,
		},
	}
}

type captureMailer struct {
	bodies map[string]string
}

func (m *captureMailer) Send(to, subject, body string) error {
	m.bodies[to] = body
	return nil
}

func newAuthService(t *testing.T) (*AuthService, *captureMailer) {
	t.Helper()
	db := testdb.New(t)
	mailer := &captureMailer{bodies: map[string]string{}}
	svc := NewAuthService(
		repositories.NewUserRepository(db),
		repositories.NewRefreshTokenRepository(db),
		syncNotifier(mailer),
		testConfig(),
	)
	return svc, mailer
}

// verifyTokenFrom pulls the token out of the mailed link
func verifyTokenFrom(t *testing.T, body string) string {
	t.Helper()
	i := strings.Index(body, "/verify/")
	require.GreaterOrEqual(t, i, 0)
	return strings.Fields(body[i+len("/verify/"):])[0]
}

func TestRegisterVerifyLogin(t *testing.T) {
	svc, mailer := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &RegisterInput{Email: "Budi@Mail.com", Password: "password1", Location: "Yogyakarta"})
	require.NoError(t, err)
	assert.Equal(t, "budi@mail.com", user.Email)
	assert.Equal(t, domain.BranchBandung, user.Branch)
	assert.Equal(t, domain.RoleCustomer, user.Role)
	assert.False(t, user.Verified)

	_, err = svc.Login(ctx, &LoginInput{Email: "budi@mail.com", Password: "password1"})
	assert.ErrorIs(t, err, domain.ErrAccountNotVerified)

	token := verifyTokenFrom(t, mailer.bodies["budi@mail.com"])
	verified, err := svc.Verify(ctx, token)
	require.NoError(t, err)
	assert.True(t, verified.Verified)

	// verifying twice is harmless
	_, err = svc.Verify(ctx, token)
	require.NoError(t, err)

	session, err := svc.Login(ctx, &LoginInput{Email: "budi@mail.com", Password: "password1"})
	require.NoError(t, err)
	claims, err := svc.ValidateAccessToken(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "customer", claims.Role)
	assert.Equal(t, domain.BranchBandung, claims.Branch)
}

func TestRegister_Errors(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterInput{Email: "a@b.com", Password: "short"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Register(ctx, &RegisterInput{Email: "not-an-email", Password: "password1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Register(ctx, &RegisterInput{Email: "a@b.com", Password: "password1"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, &RegisterInput{Email: "A@B.com", Password: "password1"})
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
}

func TestVerify_BadTokens(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Verify(ctx, "garbage")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	expired, err := jwt.GenerateVerifyToken(1, "a@b.com", "verify", -1)
	require.NoError(t, err)
	_, err = svc.Verify(ctx, expired)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)

	// well signed, but for an account that does not exist
	orphan, err := jwt.GenerateVerifyToken(42, "ghost@b.com", "verify", 1)
	require.NoError(t, err)
	_, err = svc.Verify(ctx, orphan)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, mailer := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterInput{Email: "x@y.com", Password: "password1"})
	require.NoError(t, err)
	_, err = svc.Verify(ctx, verifyTokenFrom(t, mailer.bodies["x@y.com"]))
	require.NoError(t, err)

	_, err = svc.Login(ctx, &LoginInput{Email: "x@y.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, &LoginInput{Email: "nobody@y.com", Password: "password1"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRefreshRotationAndLogout(t *testing.T) {
	svc, mailer := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterInput{Email: "r@y.com", Password: "password1"})
	require.NoError(t, err)
	_, err = svc.Verify(ctx, verifyTokenFrom(t, mailer.bodies["r@y.com"]))
	require.NoError(t, err)

	session, err := svc.Login(ctx, &LoginInput{Email: "r@y.com", Password: "password1"})
	require.NoError(t, err)

	rotated, err := svc.RefreshToken(ctx, session.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, session.RefreshToken, rotated.RefreshToken)

	_, err = svc.RefreshToken(ctx, session.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)

	require.NoError(t, svc.Logout(ctx, rotated.RefreshToken))
	_, err = svc.RefreshToken(ctx, rotated.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)

	second, err := svc.Login(ctx, &LoginInput{Email: "r@y.com", Password: "password1"})
	require.NoError(t, err)
	require.NoError(t, svc.LogoutAll(ctx, second.User.ID))
	_, err = svc.RefreshToken(ctx, second.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)

	me, err := svc.GetUserByID(ctx, second.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "r@y.com", me.Email)
}
