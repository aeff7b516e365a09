package application

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okadio/microblog/config"
	"github.com/okadio/microblog/pkg/helpers"
)

func newTestAccountService(t *testing.T) (*AccountService, *fakeUserRepo, *fakeSessions, *fakeMail) {
	t.Helper()
	users := newFakeUserRepo()
	sessions := newFakeSessions()
	mail := &fakeMail{}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	cfg := &config.Config{
		AppName:         "microblog",
		MailSendEnabled: true,
		ConfirmEmailURL: "http://localhost:8080/confirm-email",
		CompanyName:     "Microblog",
	}
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", time.Hour, 168*time.Hour)
	svc := NewAccountService(users, sessions, jwt, mail, cfg, logger, nil, "", nil, "")
	return svc, users, sessions, mail
}

func TestRegisterCreatesUnactivatedUser(t *testing.T) {
	svc, _, sessions, mail := newTestAccountService(t)

	u, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Example User",
		Email:    "Example@Example.ORG",
		Password: "password",
	})
	require.NoError(t, err)
	require.NotNil(t, u)

	assert.False(t, u.Activated)
	assert.NotEmpty(t, u.ActivationToken)
	assert.Equal(t, "example@example.org", u.Email)
	assert.NotEqual(t, "password", u.PasswordHash)
	assert.True(t, helpers.CompareHashAndPassword(u.PasswordHash, "password"))

	// No session is established until the token is confirmed.
	assert.Empty(t, sessions.active)

	require.Len(t, mail.jobs, 1)
	assert.Equal(t, "example@example.org", mail.jobs[0].To)
	assert.Contains(t, mail.jobs[0].Data["ConfirmURL"], u.ActivationToken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestAccountService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@example.org", Password: "password"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Name: "B", Email: "A@Example.org", Password: "password"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRegisterSkipsMailWhenDisabled(t *testing.T) {
	svc, _, _, mail := newTestAccountService(t)
	svc.Cfg.MailSendEnabled = false

	_, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@example.org", Password: "password"})
	require.NoError(t, err)
	assert.Empty(t, mail.jobs)
}

func TestConfirmConsumesTokenOnce(t *testing.T) {
	svc, _, sessions, _ := newTestAccountService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@example.org", Password: "password"})
	require.NoError(t, err)

	u, pair, err := svc.Confirm(ctx, reg.ActivationToken)
	require.NoError(t, err)
	assert.True(t, u.Activated)
	assert.Empty(t, u.ActivationToken)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Len(t, sessions.active, 1)

	// Second use of the same token fails; it was consumed.
	_, _, err = svc.Confirm(ctx, reg.ActivationToken)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConfirmUnknownToken(t *testing.T) {
	svc, _, _, _ := newTestAccountService(t)
	_, _, err := svc.Confirm(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoginFailureIsIndistinguishable(t *testing.T) {
	svc, _, _, _ := newTestAccountService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@example.org", Password: "password"})
	require.NoError(t, err)

	_, _, unknownErr := svc.Login(ctx, "nobody@example.org", "password", false)
	_, _, wrongPwErr := svc.Login(ctx, "a@example.org", "wrong-password", false)

	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongPwErr, ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongPwErr.Error())
}

func TestLoginRememberExtendsSession(t *testing.T) {
	svc, _, sessions, _ := newTestAccountService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@example.org", Password: "password"})
	require.NoError(t, err)

	_, pair, err := svc.Login(ctx, "a@example.org", "password", true)
	require.NoError(t, err)
	assert.True(t, sessions.active[u.ID].remember)
	// Refresh expiry tracks the remember lifetime, not the default.
	assert.True(t, pair.RefreshTokenExpiry.After(time.Now().Add(700*time.Hour)))

	_, pair, err = svc.Login(ctx, "a@example.org", "password", false)
	require.NoError(t, err)
	assert.False(t, sessions.active[u.ID].remember)
	assert.True(t, pair.RefreshTokenExpiry.Before(time.Now().Add(25*time.Hour)))
}

func TestRedirectAfterLoginConsumesIntended(t *testing.T) {
	svc, _, sessions, _ := newTestAccountService(t)
	ctx := context.Background()

	sessions.intended["visitor-1"] = "/api/users/42"

	assert.Equal(t, "/api/users/42", svc.RedirectAfterLogin(ctx, "visitor-1", "/api/profile"))
	// Consumed on first read; the fallback wins afterwards.
	assert.Equal(t, "/api/profile", svc.RedirectAfterLogin(ctx, "visitor-1", "/api/profile"))
}

func TestRefreshRotatesSession(t *testing.T) {
	svc, _, sessions, _ := newTestAccountService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@example.org", Password: "password"})
	require.NoError(t, err)
	_, pair, err := svc.Login(ctx, "a@example.org", "password", false)
	require.NoError(t, err)

	oldSID := sessions.active[u.ID].sid
	refreshed, newPair, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, refreshed.ID)
	assert.NotEmpty(t, newPair.AccessToken)
	assert.NotEqual(t, oldSID, sessions.active[u.ID].sid)

	// The new access token carries the rotated session id.
	claims, err := svc.JWT.ParseAccessToken(newPair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, sessions.active[u.ID].sid, claims.SessionID)
}

func TestRefreshInvalidatesPreviousToken(t *testing.T) {
	svc, _, _, _ := newTestAccountService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@example.org", Password: "password"})
	require.NoError(t, err)
	_, pair, err := svc.Login(ctx, "a@example.org", "password", false)
	require.NoError(t, err)

	_, _, err = svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)

	// The pre-rotation refresh token carries a superseded sid and must die,
	// even though its signature is valid and it has not expired.
	_, _, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRejectsTokenFromSupersededLogin(t *testing.T) {
	svc, _, _, _ := newTestAccountService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@example.org", Password: "password"})
	require.NoError(t, err)

	_, firstPair, err := svc.Login(ctx, "a@example.org", "password", false)
	require.NoError(t, err)
	// A second login (another device) replaces the session.
	_, secondPair, err := svc.Login(ctx, "a@example.org", "password", false)
	require.NoError(t, err)

	_, _, err = svc.Refresh(ctx, firstPair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Refresh(ctx, secondPair.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshRejectsGarbageToken(t *testing.T) {
	svc, _, _, _ := newTestAccountService(t)
	_, _, err := svc.Refresh(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshWithoutLiveSession(t *testing.T) {
	svc, _, sessions, _ := newTestAccountService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@example.org", Password: "password"})
	require.NoError(t, err)
	_, pair, err := svc.Login(ctx, "a@example.org", "password", false)
	require.NoError(t, err)

	require.NoError(t, sessions.Destroy(ctx, u.ID))
	_, _, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutIsIdempotent(t *testing.T) {
	svc, _, sessions, _ := newTestAccountService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@example.org", Password: "password"})
	require.NoError(t, err)
	_, _, err = svc.Login(ctx, "a@example.org", "password", false)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, u.ID))
	assert.Empty(t, sessions.active)
	require.NoError(t, svc.Logout(ctx, u.ID))
}

func TestUpdateProfileOwnershipAndPassword(t *testing.T) {
	svc, users, _, _ := newTestAccountService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@example.org", Password: "password"})
	require.NoError(t, err)

	// Someone else cannot update the profile.
	_, err = svc.UpdateProfile(ctx, "user-999", u.ID, UpdateProfileInput{Name: "Mallory"})
	assert.ErrorIs(t, err, ErrForbidden)

	// Name-only update keeps the stored hash.
	updated, err := svc.UpdateProfile(ctx, u.ID, u.ID, UpdateProfileInput{Name: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.Name)
	assert.True(t, helpers.CompareHashAndPassword(updated.PasswordHash, "password"))

	// Password change re-hashes and the old one stops verifying.
	updated, err = svc.UpdateProfile(ctx, u.ID, u.ID, UpdateProfileInput{Password: "newsecret"})
	require.NoError(t, err)
	assert.True(t, helpers.CompareHashAndPassword(updated.PasswordHash, "newsecret"))
	assert.False(t, helpers.CompareHashAndPassword(updated.PasswordHash, "password"))

	stored, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", stored.Name)
}

func TestDeleteAccountOwnershipAndSession(t *testing.T) {
	svc, users, sessions, _ := newTestAccountService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@example.org", Password: "password"})
	require.NoError(t, err)
	_, _, err = svc.Login(ctx, "a@example.org", "password", false)
	require.NoError(t, err)

	// Non-owner deletion is rejected and the record survives.
	err = svc.DeleteAccount(ctx, "user-999", u.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = users.GetByID(ctx, u.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount(ctx, u.ID, u.ID))
	_, err = users.GetByID(ctx, u.ID)
	assert.Error(t, err)
	assert.Empty(t, sessions.active)
}

func TestRegisterConfirmLoginFlow(t *testing.T) {
	svc, _, _, mail := newTestAccountService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterInput{Name: "Flow User", Email: "flow@example.org", Password: "password"})
	require.NoError(t, err)
	require.Len(t, mail.jobs, 1)

	confirmed, _, err := svc.Confirm(ctx, reg.ActivationToken)
	require.NoError(t, err)
	assert.True(t, confirmed.Activated)

	require.NoError(t, svc.Logout(ctx, confirmed.ID))

	loggedIn, pair, err := svc.Login(ctx, "flow@example.org", "password", false)
	require.NoError(t, err)
	assert.Equal(t, confirmed.ID, loggedIn.ID)

	claims, err := svc.JWT.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, loggedIn.ID, claims.UserID)
}
