package service

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/ggowrisankar/weight-tracker/internal/config"
	"github.com/ggowrisankar/weight-tracker/internal/logger"
	"github.com/ggowrisankar/weight-tracker/internal/mock"
	"github.com/ggowrisankar/weight-tracker/internal/store"
	"github.com/ggowrisankar/weight-tracker/internal/utils"
	"github.com/ggowrisankar/weight-tracker/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

// ─────────────────────────────────────────────
// Fixtures
// ─────────────────────────────────────────────

var testAppConfig = config.App{
	AccessTokenSignKey:   "access-key",
	RefreshTokenSignKey:  "refresh-key",
	VerifyTokenSignKey:   "verify-key",
	TokenIssuer:          "weight-tracker",
	AccessTokenDuration:  time.Hour,
	RefreshTokenDuration: 7 * 24 * time.Hour,
	VerifyTokenDuration:  24 * time.Hour,
	ResetTokenDuration:   10 * time.Minute,
	ClientURL:            "https://weights.example.com/",
}

// outbox records mails instead of sending them.
type outbox struct {
	sent []models.Mail
	err  error
}

func (o *outbox) Send(_ context.Context, mail models.Mail) error {
	if o.err != nil {
		return o.err
	}
	o.sent = append(o.sent, mail)
	return nil
}

var hrefRe = regexp.MustCompile(`href="([^"]+)"`)

// mailedLink extracts the first link of the last mail.
func (o *outbox) mailedLink(t *testing.T) *url.URL {
	t.Helper()
	require.NotEmpty(t, o.sent)
	m := hrefRe.FindStringSubmatch(o.sent[len(o.sent)-1].HTML)
	require.Len(t, m, 2)
	u, err := url.Parse(m[1])
	require.NoError(t, err)
	return u
}

func newServerAuth(t *testing.T) (*mock.MockUserRepository, *outbox, *authService) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockUserRepository(ctrl)
	mail := &outbox{}
	svc := NewAuthService(repo, mail, testAppConfig, logger.Nop()).(*authService)
	return repo, mail, svc
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

var ada = models.User{UserID: 7, Email: "ada@example.com"}

// ─────────────────────────────────────────────
// Signup / Login
// ─────────────────────────────────────────────

func TestAuthService_Signup(t *testing.T) {
	repo, _, svc := newServerAuth(t)

	repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u models.User) (models.User, error) {
			assert.Equal(t, "ada@example.com", u.Email)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password1")))
			u.UserID = 7
			return u, nil
		})

	user, err := svc.Signup(context.Background(), models.Credentials{Email: " ada@example.com ", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.UserID)
}

func TestAuthService_Signup_Errors(t *testing.T) {
	repo, _, svc := newServerAuth(t)

	_, err := svc.Signup(context.Background(), models.Credentials{Email: "ada@example.com"})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)

	repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(models.User{}, store.ErrEmailAlreadyExists)
	_, err = svc.Signup(context.Background(), models.Credentials{Email: "ada@example.com", Password: "password1"})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestAuthService_Login(t *testing.T) {
	repo, _, svc := newServerAuth(t)

	user := ada
	user.PasswordHash = hashed(t, "password1")
	repo.EXPECT().FindUserByEmail(gomock.Any(), "ada@example.com").Return(user, nil)

	pair, err := svc.Login(context.Background(), models.Credentials{Email: "ada@example.com", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), pair.User.UserID)

	access, err := svc.ParseAccessToken(context.Background(), pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(7), access.UserID)
	assert.Equal(t, "ada@example.com", access.Email)

	refresh, err := utils.ValidateAndParseJWTToken(pair.RefreshToken, testAppConfig.RefreshTokenSignKey, testAppConfig.TokenIssuer, models.TokenTypeRefresh)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), refresh.ExpiresAt.Time, time.Minute)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	repo, _, svc := newServerAuth(t)

	user := ada
	user.PasswordHash = hashed(t, "password1")

	repo.EXPECT().FindUserByEmail(gomock.Any(), "ghost@example.com").Return(models.User{}, store.ErrNoUserWasFound)
	_, err := svc.Login(context.Background(), models.Credentials{Email: "ghost@example.com", Password: "password1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	repo.EXPECT().FindUserByEmail(gomock.Any(), "ada@example.com").Return(user, nil)
	_, err = svc.Login(context.Background(), models.Credentials{Email: "ada@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

// ─────────────────────────────────────────────
// Tokens
// ─────────────────────────────────────────────

func TestAuthService_Refresh(t *testing.T) {
	_, _, svc := newServerAuth(t)

	refresh, err := svc.issue(ada, models.TokenTypeRefresh, testAppConfig.RefreshTokenSignKey, time.Hour)
	require.NoError(t, err)

	resp, err := svc.Refresh(context.Background(), refresh)
	require.NoError(t, err)
	assert.Equal(t, models.User{UserID: 7, Email: "ada@example.com"}, resp.User)

	_, err = svc.ParseAccessToken(context.Background(), resp.AccessToken)
	assert.NoError(t, err)
}

func TestAuthService_Refresh_Rejected(t *testing.T) {
	_, _, svc := newServerAuth(t)

	access, err := svc.issue(ada, models.TokenTypeAccess, testAppConfig.RefreshTokenSignKey, time.Hour)
	require.NoError(t, err)
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.Token{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testAppConfig.TokenIssuer,
			Subject:   "7",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
		Type: models.TokenTypeRefresh,
	}).SignedString([]byte(testAppConfig.RefreshTokenSignKey))
	require.NoError(t, err)

	for name, token := range map[string]string{"empty": "", "garbage": "x.y.z", "access token": access, "expired": expired} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Refresh(context.Background(), token)
			assert.ErrorIs(t, err, ErrInvalidRefreshToken)
		})
	}
}

func TestAuthService_ParseAccessToken(t *testing.T) {
	_, _, svc := newServerAuth(t)

	refresh, err := svc.issue(ada, models.TokenTypeRefresh, testAppConfig.AccessTokenSignKey, time.Hour)
	require.NoError(t, err)
	_, err = svc.ParseAccessToken(context.Background(), refresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = svc.ParseAccessToken(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}

func TestAuthService_Me(t *testing.T) {
	repo, _, svc := newServerAuth(t)

	repo.EXPECT().FindUserByID(gomock.Any(), int64(7)).Return(ada, nil)
	repo.EXPECT().FindUserByID(gomock.Any(), int64(8)).Return(models.User{}, store.ErrNoUserWasFound)

	user, err := svc.Me(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, ada, user)

	_, err = svc.Me(context.Background(), 8)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

// ─────────────────────────────────────────────
// Verification
// ─────────────────────────────────────────────

func TestAuthService_VerificationRoundTrip(t *testing.T) {
	repo, mail, svc := newServerAuth(t)

	repo.EXPECT().FindUserByID(gomock.Any(), int64(7)).Return(ada, nil).Times(2)
	repo.EXPECT().MarkVerified(gomock.Any(), int64(7)).Return(nil)

	require.NoError(t, svc.SendVerification(context.Background(), 7))
	require.Len(t, mail.sent, 1)
	assert.Equal(t, "ada@example.com", mail.sent[0].To)
	assert.Contains(t, mail.sent[0].HTML, "24hrs")

	link := mail.mailedLink(t)
	assert.Equal(t, "weights.example.com", link.Host)
	assert.Equal(t, "/verify", link.Path)

	require.NoError(t, svc.Verify(context.Background(), link.Query().Get("token")))
}

func TestAuthService_SendVerification_AlreadyVerified(t *testing.T) {
	repo, mail, svc := newServerAuth(t)

	verified := ada
	verified.IsVerified = true
	repo.EXPECT().FindUserByID(gomock.Any(), int64(7)).Return(verified, nil)

	assert.ErrorIs(t, svc.SendVerification(context.Background(), 7), ErrAlreadyVerified)
	assert.Empty(t, mail.sent)
}

func TestAuthService_Verify_Rejected(t *testing.T) {
	_, _, svc := newServerAuth(t)

	access, err := svc.issue(ada, models.TokenTypeAccess, testAppConfig.VerifyTokenSignKey, time.Hour)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Verify(context.Background(), access), ErrWrongTokenType)
	assert.ErrorIs(t, svc.Verify(context.Background(), "bad"), ErrTokenIsExpiredOrInvalid)
}

// ─────────────────────────────────────────────
// Password reset
// ─────────────────────────────────────────────

func TestAuthService_PasswordResetRoundTrip(t *testing.T) {
	repo, mail, svc := newServerAuth(t)

	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	var storedHash string
	repo.EXPECT().FindUserByEmail(gomock.Any(), "ada@example.com").Return(ada, nil)
	repo.EXPECT().SetResetToken(gomock.Any(), int64(7), gomock.Any(), now.Add(10*time.Minute)).
		DoAndReturn(func(_ context.Context, _ int64, hash string, _ time.Time) error {
			storedHash = hash
			return nil
		})

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "ada@example.com"))

	link := mail.mailedLink(t)
	assert.Equal(t, "/reset-password", link.Path)
	assert.Equal(t, "ada@example.com", link.Query().Get("email"))
	token := link.Query().Get("token")
	assert.Len(t, token, 64)
	assert.Equal(t, utils.HashToken(token), storedHash)

	repo.EXPECT().FindUserByResetToken(gomock.Any(), storedHash, now).Return(ada, nil)
	repo.EXPECT().UpdatePassword(gomock.Any(), int64(7), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, hash string) error {
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("new-password")))
			return nil
		})

	err := svc.ResetPassword(context.Background(), token, models.NewPasswordRequest{Email: "ADA@example.com", Password: "new-password"})
	require.NoError(t, err)
}

func TestAuthService_RequestPasswordReset_UnknownEmail(t *testing.T) {
	repo, mail, svc := newServerAuth(t)

	repo.EXPECT().FindUserByEmail(gomock.Any(), "ghost@example.com").Return(models.User{}, store.ErrNoUserWasFound)

	assert.NoError(t, svc.RequestPasswordReset(context.Background(), "ghost@example.com"))
	assert.Empty(t, mail.sent)
}

func TestAuthService_RequestPasswordReset_AlreadyPending(t *testing.T) {
	repo, mail, svc := newServerAuth(t)

	now := time.Now()
	svc.now = func() time.Time { return now }

	pending := ada
	expires := now.Add(5 * time.Minute)
	pending.ResetExpiresAt = &expires
	repo.EXPECT().FindUserByEmail(gomock.Any(), "ada@example.com").Return(pending, nil)

	assert.ErrorIs(t, svc.RequestPasswordReset(context.Background(), "ada@example.com"), ErrResetAlreadyRequested)
	assert.Empty(t, mail.sent)

	stale := ada
	expired := now.Add(-time.Minute)
	stale.ResetExpiresAt = &expired
	repo.EXPECT().FindUserByEmail(gomock.Any(), "ada@example.com").Return(stale, nil)
	repo.EXPECT().SetResetToken(gomock.Any(), int64(7), gomock.Any(), gomock.Any()).Return(nil)

	assert.NoError(t, svc.RequestPasswordReset(context.Background(), "ada@example.com"))
	assert.Len(t, mail.sent, 1)
}

func TestAuthService_RequestPasswordReset_MailFailure(t *testing.T) {
	repo, mail, svc := newServerAuth(t)
	mail.err = ErrMailNotSent

	repo.EXPECT().FindUserByEmail(gomock.Any(), gomock.Any()).Return(ada, nil)
	repo.EXPECT().SetResetToken(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	assert.ErrorIs(t, svc.RequestPasswordReset(context.Background(), "ada@example.com"), ErrMailNotSent)
}

func TestAuthService_ResetPassword_Rejected(t *testing.T) {
	repo, _, svc := newServerAuth(t)
	req := models.NewPasswordRequest{Email: "ada@example.com", Password: "new-password"}

	assert.ErrorIs(t, svc.ResetPassword(context.Background(), "", req), ErrInvalidResetToken)

	repo.EXPECT().FindUserByResetToken(gomock.Any(), utils.HashToken("stale"), gomock.Any()).Return(models.User{}, store.ErrNoUserWasFound)
	assert.ErrorIs(t, svc.ResetPassword(context.Background(), "stale", req), ErrInvalidResetToken)

	other := models.User{UserID: 9, Email: "eve@example.com"}
	repo.EXPECT().FindUserByResetToken(gomock.Any(), utils.HashToken("t"), gomock.Any()).Return(other, nil)
	assert.ErrorIs(t, svc.ResetPassword(context.Background(), "t", req), ErrInvalidResetToken)

	repo.EXPECT().FindUserByResetToken(gomock.Any(), gomock.Any(), gomock.Any()).Return(models.User{}, errors.New("db down"))
	err := svc.ResetPassword(context.Background(), "t", req)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidResetToken)
}

func TestHumanDuration(t *testing.T) {
	assert.Equal(t, "24hrs", humanDuration(24*time.Hour))
	assert.Equal(t, "10m0s", humanDuration(10*time.Minute))
}
