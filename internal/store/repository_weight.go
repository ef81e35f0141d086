// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ggowrisankar/weight-tracker/internal/logger"
	"github.com/ggowrisankar/weight-tracker/models"
)

// updateAttempts bounds retries of a document transaction that failed with a
// retryable error (serialization failure, deadlock, lost connection).
const updateAttempts = 3

// weightRepository is the PostgreSQL-backed implementation of
// [WeightRepository]. Each user owns exactly one JSONB document.
type weightRepository struct {
	*DB
	logger *logger.Logger
}

// NewWeightRepository constructs a [WeightRepository] backed by db.
func NewWeightRepository(db *DB, logger *logger.Logger) WeightRepository {
	logger.Debug().Msg("creating weight repository")
	return &weightRepository{
		DB:     db,
		logger: logger,
	}
}

func (w *weightRepository) GetDocument(ctx context.Context, userID int64) (models.WeightDocument, bool, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetDocumentQuery(userID)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var raw []byte
	err = w.DB.QueryRowContext(ctx, query, args...).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return models.WeightDocument{}, false, nil
	}
	if err != nil {
		log.Err(err).Str("func", "*weightRepository.GetDocument").Int64("user_id", userID).Msg("failed to read weight document")
		return nil, false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	doc, err := decodeDocument(raw)
	if err != nil {
		log.Err(err).Str("func", "*weightRepository.GetDocument").Int64("user_id", userID).Msg("corrupt weight document")
		return nil, false, err
	}

	return doc, true, nil
}

// UpdateDocument runs mutate inside a transaction holding the row lock of the
// user's document, creating the row first when needed. Retryable failures
// restart the whole transaction.
func (w *weightRepository) UpdateDocument(ctx context.Context, userID int64, mutate DocumentMutation) (models.WeightDocument, error) {
	var (
		doc models.WeightDocument
		err error
	)

	for attempt := 1; attempt <= updateAttempts; attempt++ {
		doc, err = w.updateOnce(ctx, userID, mutate)
		if err == nil || !w.retryable(err) {
			return doc, err
		}

		logger.FromContext(ctx).Warn().Err(err).
			Str("func", "*weightRepository.UpdateDocument").
			Int("attempt", attempt).
			Msg("retrying weight document transaction")
	}

	return doc, err
}

func (w *weightRepository) updateOnce(ctx context.Context, userID int64, mutate DocumentMutation) (models.WeightDocument, error) {
	log := logger.FromContext(ctx)

	tx, err := w.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*weightRepository.UpdateDocument").Msg("failed to begin transaction")
		return nil, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	exists := true
	var created int64
	switch err = tx.QueryRowContext(ctx, ensureWeightDocument, userID).Scan(&created); {
	case err == nil:
		exists = false
	case errors.Is(err, sql.ErrNoRows):
	default:
		log.Err(err).Str("func", "*weightRepository.UpdateDocument").Int64("user_id", userID).Msg("failed to create weight document")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	var raw []byte
	if err = tx.QueryRowContext(ctx, lockWeightDocument, userID).Scan(&raw); err != nil {
		log.Err(err).Str("func", "*weightRepository.UpdateDocument").Int64("user_id", userID).Msg("failed to lock weight document")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	current, err := decodeDocument(raw)
	if err != nil {
		return nil, err
	}

	next, err := mutate(current, exists)
	if err != nil {
		return nil, err
	}
	if next == nil {
		next = models.WeightDocument{}
	}

	data, err := json.Marshal(next)
	if err != nil {
		return nil, fmt.Errorf("error encoding weight document: %w", err)
	}

	query, args, err := buildSaveDocumentQuery(userID, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*weightRepository.UpdateDocument").Int64("user_id", userID).Msg("failed to save weight document")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "*weightRepository.UpdateDocument").Msg("failed to commit transaction")
		return nil, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return next, nil
}

func decodeDocument(raw []byte) (models.WeightDocument, error) {
	doc := models.WeightDocument{}
	if len(raw) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptDocument, err)
	}
	if doc == nil {
		doc = models.WeightDocument{}
	}
	return doc, nil
}
