// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"strings"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_buildFindUserQuery_SelectsAllColumns(t *testing.T) {
	query, args, err := buildFindUserQuery(sq.Eq{"email": "a@b.c"})
	require.NoError(t, err)

	require.Equal(t, []any{"a@b.c"}, args)
	assert.True(t, strings.HasPrefix(query, "SELECT user_id, email, password_hash, is_verified, reset_token_hash, reset_expires_at, created_at FROM users"))
	assert.Contains(t, query, "WHERE email = $1")
	assert.True(t, strings.HasSuffix(query, "LIMIT 1"))
}

func Test_buildFindUserByResetTokenQuery_RequiresUnexpiredToken(t *testing.T) {
	now := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	query, args, err := buildFindUserByResetTokenQuery("hash", now)
	require.NoError(t, err)

	assert.Contains(t, query, "(reset_token_hash = $1 AND reset_expires_at > $2)")
	assert.Equal(t, []any{"hash", now}, args)
}

func Test_buildUpdateUserQuery_SortsColumns(t *testing.T) {
	query, args, err := buildUpdateUserQuery(3, map[string]any{
		"reset_token_hash": "h",
		"is_verified":      true,
	})
	require.NoError(t, err)

	assert.Equal(t, "UPDATE users SET is_verified = $1, reset_token_hash = $2 WHERE user_id = $3", query)
	assert.Equal(t, []any{true, "h", int64(3)}, args)
}

func Test_buildUpdateUserQuery_EmptySetFails(t *testing.T) {
	_, _, err := buildUpdateUserQuery(3, map[string]any{})
	assert.Error(t, err)
}

func Test_buildPurgeResetTokensQuery(t *testing.T) {
	now := time.Now()

	query, args, err := buildPurgeResetTokensQuery(now)
	require.NoError(t, err)

	assert.Equal(t,
		"UPDATE users SET reset_token_hash = $1, reset_expires_at = $2 WHERE (reset_token_hash IS NOT NULL AND reset_expires_at <= $3)",
		query)
	assert.Equal(t, []any{nil, nil, now}, args)
}

func Test_buildDocumentQueries(t *testing.T) {
	query, args, err := buildGetDocumentQuery(9)
	require.NoError(t, err)
	assert.Equal(t, "SELECT data FROM weights WHERE user_id = $1", query)
	assert.Equal(t, []any{int64(9)}, args)

	data := []byte(`{"2025-09":{}}`)
	query, args, err = buildSaveDocumentQuery(9, data)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE weights SET data = $1, updated_at = NOW() WHERE user_id = $2", query)
	assert.Equal(t, []any{data, int64(9)}, args)
}

func Test_buildWeatherQueries(t *testing.T) {
	ts := time.Date(2025, 9, 1, 6, 0, 0, 0, time.UTC)

	query, args, err := buildGetWeatherQuery("k", ts)
	require.NoError(t, err)
	assert.Equal(t, "SELECT body FROM weather_cache WHERE (cache_key = $1 AND fetched_at >= $2)", query)
	assert.Equal(t, []any{"k", ts}, args)

	query, args, err = buildPurgeWeatherQuery(ts)
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM weather_cache WHERE fetched_at < $1", query)
	assert.Equal(t, []any{ts}, args)
}

func Test_rawQueries_UsePostgresPlaceholders(t *testing.T) {
	for name, q := range map[string]string{
		"createUser":           createUser,
		"ensureWeightDocument": ensureWeightDocument,
		"lockWeightDocument":   lockWeightDocument,
		"upsertWeatherCache":   upsertWeatherCache,
	} {
		t.Run(name, func(t *testing.T) {
			assert.Contains(t, q, "$1")
			assert.NotContains(t, q, "?")
		})
	}
}
