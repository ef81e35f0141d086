package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ggowrisankar/weight-tracker/internal/logger"
	"github.com/ggowrisankar/weight-tracker/models"
)

const (
	monthKeyPrefix   = "weights-"
	pendingKeyPrefix = "pending-"
)

// MonthKey returns the storage key of a cached month:
// weights-{owner}-{YYYY}-{MM}.
func MonthKey(owner string, ref models.MonthRef) string {
	return monthKeyPrefix + owner + "-" + ref.Key()
}

func pendingKey(owner string, ref models.MonthRef) string {
	return pendingKeyPrefix + owner + "-" + ref.Key()
}

// localKVStore implements [LocalWeightStore] and [SessionStore] on the SQLite
// local_kv table.
type localKVStore struct {
	*DB
	logger *logger.Logger
}

// NewLocalWeightStore returns the SQLite-backed month cache.
func NewLocalWeightStore(db *DB, log *logger.Logger) LocalWeightStore {
	return &localKVStore{DB: db, logger: log}
}

// NewSessionStore returns the SQLite-backed session singleton store.
func NewSessionStore(db *DB, log *logger.Logger) SessionStore {
	return &localKVStore{DB: db, logger: log}
}

func (s *localKVStore) Read(ctx context.Context, owner string, ref models.MonthRef) models.MonthMap {
	raw, ok, err := s.Get(ctx, MonthKey(owner, ref))
	if err != nil || !ok {
		return models.MonthMap{}
	}

	return s.decodeMonth(MonthKey(owner, ref), raw)
}

func (s *localKVStore) Write(ctx context.Context, owner string, ref models.MonthRef, month models.MonthMap) error {
	if month == nil {
		month = models.MonthMap{}
	}

	data, err := json.Marshal(month)
	if err != nil {
		return fmt.Errorf("error encoding month: %w", err)
	}

	return s.Set(ctx, MonthKey(owner, ref), string(data))
}

func (s *localKVStore) ListKeys(ctx context.Context, owner string) ([]string, error) {
	rows, err := s.listPrefix(ctx, monthKeyPrefix+owner+"-")
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(rows))
	for _, r := range rows {
		keys = append(keys, r.key)
	}
	return keys, nil
}

func (s *localKVStore) ListMonths(ctx context.Context, owner string) (models.WeightDocument, error) {
	prefix := monthKeyPrefix + owner + "-"
	rows, err := s.listPrefix(ctx, prefix)
	if err != nil {
		return nil, err
	}

	doc := make(models.WeightDocument, len(rows))
	for _, r := range rows {
		ref, err := models.ParseMonthKey(strings.TrimPrefix(r.key, prefix))
		if err != nil {
			s.logger.Warn().Str("func", "*localKVStore.ListMonths").Str("key", r.key).Msg("skipping unrecognised cache key")
			continue
		}
		doc[ref.Key()] = s.decodeMonth(r.key, r.value)
	}

	return doc, nil
}

func (s *localKVStore) Clear(ctx context.Context, owner string) error {
	if err := s.deletePrefix(ctx, monthKeyPrefix+owner+"-"); err != nil {
		return err
	}
	return s.deletePrefix(ctx, pendingKeyPrefix+owner+"-")
}

func (s *localKVStore) ClearAll(ctx context.Context) error {
	if err := s.deletePrefix(ctx, monthKeyPrefix); err != nil {
		return err
	}
	return s.deletePrefix(ctx, pendingKeyPrefix)
}

func (s *localKVStore) SetPending(ctx context.Context, owner string, ref models.MonthRef, pending bool) error {
	if pending {
		return s.Set(ctx, pendingKey(owner, ref), "1")
	}
	return s.Delete(ctx, pendingKey(owner, ref))
}

func (s *localKVStore) IsPending(ctx context.Context, owner string, ref models.MonthRef) bool {
	_, ok, err := s.Get(ctx, pendingKey(owner, ref))
	return err == nil && ok
}

// ── SessionStore ─────────────────────────────────────────────────────────────

func (s *localKVStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.DB.QueryRowContext(ctx, localGet, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		s.logger.Err(err).Str("func", "*localKVStore.Get").Str("key", key).Msg("failed to read local key")
		return "", false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return value, true, nil
}

func (s *localKVStore) Set(ctx context.Context, key, value string) error {
	if _, err := s.DB.ExecContext(ctx, localUpsert, key, value); err != nil {
		s.logger.Err(err).Str("func", "*localKVStore.Set").Str("key", key).Msg("failed to write local key")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return nil
}

func (s *localKVStore) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if _, err := s.DB.ExecContext(ctx, localDelete, key); err != nil {
			s.logger.Err(err).Str("func", "*localKVStore.Delete").Str("key", key).Msg("failed to delete local key")
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
	}
	return nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

type kvRow struct {
	key   string
	value string
}

func (s *localKVStore) listPrefix(ctx context.Context, prefix string) ([]kvRow, error) {
	rows, err := s.DB.QueryContext(ctx, localListByPrefix, len(prefix), prefix)
	if err != nil {
		s.logger.Err(err).Str("func", "*localKVStore.listPrefix").Str("prefix", prefix).Msg("failed to list local keys")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var out []kvRow
	for rows.Next() {
		var r kvRow
		if err := rows.Scan(&r.key, &r.value); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return out, nil
}

func (s *localKVStore) deletePrefix(ctx context.Context, prefix string) error {
	if _, err := s.DB.ExecContext(ctx, localDeleteByPrefix, len(prefix), prefix); err != nil {
		s.logger.Err(err).Str("func", "*localKVStore.deletePrefix").Str("prefix", prefix).Msg("failed to clear local keys")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return nil
}

// decodeMonth fails open: corrupt payloads read as empty and invalid days are
// dropped.
func (s *localKVStore) decodeMonth(key, raw string) models.MonthMap {
	var month models.MonthMap
	if err := json.Unmarshal([]byte(raw), &month); err != nil || month == nil {
		s.logger.Warn().Err(err).Str("func", "*localKVStore.decodeMonth").Str("key", key).Msg("corrupt cached month, reading as empty")
		return models.MonthMap{}
	}

	for day, v := range month {
		if !models.ValidDay(day) || !models.InRange(v) {
			delete(month, day)
		}
	}
	return month
}
