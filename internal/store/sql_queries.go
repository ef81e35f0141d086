package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"
)

// psql builds PostgreSQL queries with $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var userColumns = []string{
	"user_id", "email", "password_hash", "is_verified",
	"reset_token_hash", "reset_expires_at", "created_at",
}

const (
	createUser = `INSERT INTO users (email, password_hash)
    VALUES ($1, $2)
    RETURNING user_id, email, password_hash, is_verified, reset_token_hash, reset_expires_at, created_at;`

	// Returns a row only when the document was created by this statement.
	ensureWeightDocument = `INSERT INTO weights (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
		RETURNING user_id;`

	lockWeightDocument = `SELECT data FROM weights WHERE user_id = $1 FOR UPDATE;`

	upsertWeatherCache = `INSERT INTO weather_cache (cache_key, body, fetched_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (cache_key) DO UPDATE SET body = EXCLUDED.body, fetched_at = EXCLUDED.fetched_at;`
)

func buildFindUserQuery(where sq.Sqlizer) (string, []any, error) {
	return psql.Select(userColumns...).From("users").Where(where).Limit(1).ToSql()
}

func buildFindUserByResetTokenQuery(tokenHash string, now time.Time) (string, []any, error) {
	return buildFindUserQuery(sq.And{
		sq.Eq{"reset_token_hash": tokenHash},
		sq.Gt{"reset_expires_at": now},
	})
}

func buildUpdateUserQuery(userID int64, set map[string]any) (string, []any, error) {
	return psql.Update("users").SetMap(set).Where(sq.Eq{"user_id": userID}).ToSql()
}

func buildPurgeResetTokensQuery(now time.Time) (string, []any, error) {
	return psql.Update("users").
		Set("reset_token_hash", nil).
		Set("reset_expires_at", nil).
		Where(sq.And{sq.NotEq{"reset_token_hash": nil}, sq.LtOrEq{"reset_expires_at": now}}).
		ToSql()
}

func buildGetDocumentQuery(userID int64) (string, []any, error) {
	return psql.Select("data").From("weights").Where(sq.Eq{"user_id": userID}).ToSql()
}

func buildSaveDocumentQuery(userID int64, data []byte) (string, []any, error) {
	return psql.Update("weights").
		Set("data", data).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
}

func buildGetWeatherQuery(key string, notBefore time.Time) (string, []any, error) {
	return psql.Select("body").From("weather_cache").
		Where(sq.And{sq.Eq{"cache_key": key}, sq.GtOrEq{"fetched_at": notBefore}}).
		ToSql()
}

func buildPurgeWeatherQuery(cutoff time.Time) (string, []any, error) {
	return psql.Delete("weather_cache").Where(sq.Lt{"fetched_at": cutoff}).ToSql()
}
