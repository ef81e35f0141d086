package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/ggowrisankar/weight-tracker/internal/logger"
	"github.com/ggowrisankar/weight-tracker/models"
	"github.com/jackc/pgerrcode"
)

// userRepository is the PostgreSQL-backed implementation of [UserRepository].
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by db.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser inserts a new account. E-mails are stored lower-cased.
//
// Error handling:
//   - unique_violation (23505) → [ErrEmailAlreadyExists].
//   - any other driver error → wrapped as "unexpected DB error".
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createUser, strings.ToLower(user.Email), user.PasswordHash)
	created, err := scanUser(row)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error inserting user")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.User{}, ErrEmailAlreadyExists
		default:
			return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	return created, nil
}

func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findUser(ctx, "*userRepository.FindUserByEmail", sq.Eq{"email": strings.ToLower(email)})
}

func (r *userRepository) FindUserByID(ctx context.Context, userID int64) (models.User, error) {
	return r.findUser(ctx, "*userRepository.FindUserByID", sq.Eq{"user_id": userID})
}

// FindUserByResetToken finds the user whose outstanding reset token hashes to
// tokenHash and has not expired at now.
func (r *userRepository) FindUserByResetToken(ctx context.Context, tokenHash string, now time.Time) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildFindUserByResetTokenQuery(tokenHash, now)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.FindUserByResetToken").Msg("failed to build query")
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.queryUser(ctx, "*userRepository.FindUserByResetToken", query, args)
}

func (r *userRepository) MarkVerified(ctx context.Context, userID int64) error {
	return r.updateUser(ctx, "*userRepository.MarkVerified", userID, map[string]any{"is_verified": true})
}

func (r *userRepository) SetResetToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	return r.updateUser(ctx, "*userRepository.SetResetToken", userID, map[string]any{
		"reset_token_hash": tokenHash,
		"reset_expires_at": expiresAt,
	})
}

// UpdatePassword stores a new hash and consumes any outstanding reset token.
func (r *userRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	return r.updateUser(ctx, "*userRepository.UpdatePassword", userID, map[string]any{
		"password_hash":    passwordHash,
		"reset_token_hash": nil,
		"reset_expires_at": nil,
	})
}

// PurgeExpiredResetTokens clears reset tokens that expired at or before now
// and returns the number of affected users.
func (r *userRepository) PurgeExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildPurgeResetTokensQuery(now)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.PurgeExpiredResetTokens").Msg("failed to purge reset tokens")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return res.RowsAffected()
}

func (r *userRepository) findUser(ctx context.Context, funcName string, where sq.Sqlizer) (models.User, error) {
	query, args, err := buildFindUserQuery(where)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", funcName).Msg("failed to build query")
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.queryUser(ctx, funcName, query, args)
}

func (r *userRepository) queryUser(ctx context.Context, funcName, query string, args []any) (models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNoUserWasFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", funcName).Msg("error finding user")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return user, nil
}

func (r *userRepository) updateUser(ctx context.Context, funcName string, userID int64, set map[string]any) error {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateUserQuery(userID, set)
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("failed to build query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", funcName).Int64("user_id", userID).Msg("failed to update user")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNoUserWasFound
	}

	return nil
}

func scanUser(row *sql.Row) (models.User, error) {
	var (
		user      models.User
		resetHash sql.NullString
		resetExp  sql.NullTime
	)

	if err := row.Scan(&user.UserID, &user.Email, &user.PasswordHash, &user.IsVerified,
		&resetHash, &resetExp, &user.CreatedAt); err != nil {
		return models.User{}, err
	}

	user.ResetTokenHash = resetHash.String
	if resetExp.Valid {
		t := resetExp.Time
		user.ResetExpiresAt = &t
	}

	return user, nil
}
