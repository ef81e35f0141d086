package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ggowrisankar/weight-tracker/internal/config"
	"github.com/ggowrisankar/weight-tracker/internal/logger"
	"github.com/ggowrisankar/weight-tracker/internal/store"
	"github.com/ggowrisankar/weight-tracker/internal/utils"
	"github.com/ggowrisankar/weight-tracker/models"
	"golang.org/x/crypto/bcrypt"
)

// resetTokenBytes is the entropy of a password reset token.
const resetTokenBytes = 32

// authService is the concrete implementation of AuthService.
// It keeps accounts in a UserRepository, hashes passwords with bcrypt and
// signs three kinds of JWTs (access, refresh, e-mail verification), each with
// its own key.
type authService struct {
	// userRepository is the data-access layer used to create and look up users.
	userRepository store.UserRepository

	// mailer delivers verification and password reset links.
	mailer Mailer

	// cfg carries sign keys, token lifetimes, the issuer and the client URL.
	cfg config.App

	// now is the clock used for reset token expiry. Tests replace it.
	now func() time.Time

	logger *logger.Logger
}

// NewAuthService constructs a new AuthService wired to the given UserRepository
// and Mailer, populated with security parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only after
// construction.
func NewAuthService(userRepository store.UserRepository, mailer Mailer, cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		userRepository: userRepository,
		mailer:         mailer,
		cfg:            cfg,
		now:            time.Now,
		logger:         logger,
	}
}

// Signup creates a new account.
//
// Returns the persisted user (with a server-assigned UserID) or:
//   - ErrInvalidDataProvided if the e-mail or the password is empty.
//   - ErrUserAlreadyExists if the e-mail is taken.
//   - A wrapped storage error for any other repository failure.
func (a *authService) Signup(ctx context.Context, creds models.Credentials) (models.User, error) {
	log := logger.FromContext(ctx)

	if creds.Email == "" || creds.Password == "" {
		log.Error().Str("email", creds.Email).Msg("invalid user data provided")
		return models.User{}, ErrInvalidDataProvided
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Err(err).Msg("password hashing failed")
		return models.User{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	user, err := a.userRepository.CreateUser(ctx, models.User{
		Email:        strings.TrimSpace(creds.Email),
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailAlreadyExists) {
			return models.User{}, fmt.Errorf("%w: %w", ErrUserAlreadyExists, err)
		}
		log.Err(err).Str("email", creds.Email).Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	return user, nil
}

// Login authenticates an existing user and issues a token pair.
//
// An unknown e-mail and a wrong password are both reported as
// ErrInvalidCredentials.
func (a *authService) Login(ctx context.Context, creds models.Credentials) (models.TokenPair, error) {
	log := logger.FromContext(ctx)

	if creds.Email == "" || creds.Password == "" {
		log.Error().Str("email", creds.Email).Msg("invalid user data provided")
		return models.TokenPair{}, ErrInvalidDataProvided
	}

	user, err := a.userRepository.FindUserByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.TokenPair{}, ErrInvalidCredentials
		}
		log.Err(err).Str("email", creds.Email).Msg("user search by email failed")
		return models.TokenPair{}, fmt.Errorf("user search by email failed: %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		log.Warn().Int64("id", user.UserID).Msg("wrong password")
		return models.TokenPair{}, ErrInvalidCredentials
	}

	access, err := a.issue(user, models.TokenTypeAccess, a.cfg.AccessTokenSignKey, a.cfg.AccessTokenDuration)
	if err != nil {
		return models.TokenPair{}, err
	}
	refresh, err := a.issue(user, models.TokenTypeRefresh, a.cfg.RefreshTokenSignKey, a.cfg.RefreshTokenDuration)
	if err != nil {
		return models.TokenPair{}, err
	}

	return models.TokenPair{AccessToken: access, RefreshToken: refresh, User: user}, nil
}

// Refresh validates a refresh token and issues a new access token for its
// subject. The database is not consulted: the e-mail claim travels in the
// refresh token. Any validation failure is reported as ErrInvalidRefreshToken.
func (a *authService) Refresh(ctx context.Context, refreshToken string) (models.RefreshResponse, error) {
	if refreshToken == "" {
		return models.RefreshResponse{}, ErrInvalidRefreshToken
	}

	claims, err := utils.ValidateAndParseJWTToken(refreshToken, a.cfg.RefreshTokenSignKey, a.cfg.TokenIssuer, models.TokenTypeRefresh)
	if err != nil {
		logger.FromContext(ctx).Err(err).Msg("refresh token rejected")
		return models.RefreshResponse{}, fmt.Errorf("%w: %w", ErrInvalidRefreshToken, err)
	}

	user := models.User{UserID: claims.UserID, Email: claims.Email}
	access, err := a.issue(user, models.TokenTypeAccess, a.cfg.AccessTokenSignKey, a.cfg.AccessTokenDuration)
	if err != nil {
		return models.RefreshResponse{}, err
	}

	return models.RefreshResponse{AccessToken: access, User: user}, nil
}

// ParseAccessToken validates a bearer token. A valid token of another type
// yields ErrWrongTokenType; every other failure ErrTokenIsExpiredOrInvalid.
func (a *authService) ParseAccessToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.cfg.AccessTokenSignKey, a.cfg.TokenIssuer, models.TokenTypeAccess)
	if err != nil {
		if errors.Is(err, utils.ErrWrongTokenType) {
			return models.Token{}, ErrWrongTokenType
		}
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}

func (a *authService) Me(ctx context.Context, userID int64) (models.User, error) {
	user, err := a.userRepository.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("user search by id failed: %w", err)
	}
	return user, nil
}

// SendVerification mails a 24h verification link to the user.
func (a *authService) SendVerification(ctx context.Context, userID int64) error {
	user, err := a.Me(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return ErrAlreadyVerified
	}

	token, err := a.issue(user, models.TokenTypeEmailVerify, a.cfg.VerifyTokenSignKey, a.cfg.VerifyTokenDuration)
	if err != nil {
		return err
	}

	link := a.link("/verify", url.Values{"token": {token}})
	return a.mailer.Send(ctx, models.Mail{
		To:      user.Email,
		Subject: "Verify your account",
		HTML: `<h2>Welcome to Weight Tracker!</h2>
<p>Please verify your email address by clicking the link below:</p>
<a href="` + link + `">Verify My Email</a>
<p>This link will expire in ` + humanDuration(a.cfg.VerifyTokenDuration) + `.</p>`,
	})
}

// Verify consumes an e-mail verification token.
func (a *authService) Verify(ctx context.Context, tokenString string) error {
	log := logger.FromContext(ctx)

	claims, err := utils.ValidateAndParseJWTToken(tokenString, a.cfg.VerifyTokenSignKey, a.cfg.TokenIssuer, models.TokenTypeEmailVerify)
	if err != nil {
		log.Err(err).Msg("verification token rejected")
		if errors.Is(err, utils.ErrWrongTokenType) {
			return ErrWrongTokenType
		}
		return ErrTokenIsExpiredOrInvalid
	}

	user, err := a.Me(ctx, claims.UserID)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return ErrAlreadyVerified
	}

	if err = a.userRepository.MarkVerified(ctx, user.UserID); err != nil {
		return fmt.Errorf("marking user verified failed: %w", err)
	}
	log.Info().Int64("id", user.UserID).Msg("user verified")
	return nil
}

// RequestPasswordReset stores the hash of a fresh reset token and mails the
// token. Unknown e-mails succeed silently; a still valid outstanding token
// yields ErrResetAlreadyRequested.
func (a *authService) RequestPasswordReset(ctx context.Context, email string) error {
	log := logger.FromContext(ctx)

	user, err := a.userRepository.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			log.Info().Msg("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("user search by email failed: %w", err)
	}

	if user.ResetExpiresAt != nil && user.ResetExpiresAt.After(a.now()) {
		log.Info().Int64("id", user.UserID).Msg("password reset already pending")
		return ErrResetAlreadyRequested
	}

	token, err := utils.RandomToken(resetTokenBytes)
	if err != nil {
		return err
	}

	expiresAt := a.now().Add(a.cfg.ResetTokenDuration)
	if err = a.userRepository.SetResetToken(ctx, user.UserID, utils.HashToken(token), expiresAt); err != nil {
		return fmt.Errorf("storing reset token failed: %w", err)
	}

	link := a.link("/reset-password", url.Values{"token": {token}, "email": {user.Email}})
	return a.mailer.Send(ctx, models.Mail{
		To:      user.Email,
		Subject: "Password Reset Request",
		HTML: `<h2>Password Reset for your account</h2>
<p>You requested a password reset.</p>
<p>Click the link below to set a new password:</p>
<a href="` + link + `">Reset Password</a>
<p>If you did not request this, please ignore this email.</p>`,
	})
}

// ResetPassword sets a new password when token is outstanding, unexpired and
// issued to req.Email. The token is consumed.
func (a *authService) ResetPassword(ctx context.Context, token string, req models.NewPasswordRequest) error {
	if token == "" {
		return ErrInvalidResetToken
	}

	user, err := a.userRepository.FindUserByResetToken(ctx, utils.HashToken(token), a.now())
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("reset token lookup failed: %w", err)
	}
	if !strings.EqualFold(user.Email, strings.TrimSpace(req.Email)) {
		return ErrInvalidResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	if err = a.userRepository.UpdatePassword(ctx, user.UserID, string(hash)); err != nil {
		return fmt.Errorf("updating password failed: %w", err)
	}
	logger.FromContext(ctx).Info().Int64("id", user.UserID).Msg("password reset")
	return nil
}

func (a *authService) PurgeExpiredResetTokens(ctx context.Context) (int64, error) {
	return a.userRepository.PurgeExpiredResetTokens(ctx, a.now())
}

func (a *authService) issue(user models.User, tokenType, signKey string, ttl time.Duration) (string, error) {
	token, err := utils.GenerateJWTToken(utils.TokenParams{
		Issuer:   a.cfg.TokenIssuer,
		User:     user,
		Type:     tokenType,
		Duration: ttl,
		SignKey:  signKey,
	})
	if err != nil {
		return "", fmt.Errorf("error issuing %s token: %w", tokenType, err)
	}
	return token.String(), nil
}

func (a *authService) link(path string, query url.Values) string {
	return strings.TrimRight(a.cfg.ClientURL, "/") + path + "?" + query.Encode()
}

// humanDuration renders whole hours as "24hrs" and anything else with
// time.Duration's own format.
func humanDuration(d time.Duration) string {
	if d > 0 && d%time.Hour == 0 {
		return strconv.Itoa(int(d/time.Hour)) + "hrs"
	}
	return d.String()
}
