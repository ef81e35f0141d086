package service

import (
	"context"
	"fmt"

	"github.com/ggowrisankar/weight-tracker/internal/logger"
	"github.com/ggowrisankar/weight-tracker/internal/store"
	"github.com/ggowrisankar/weight-tracker/models"
)

// weightService keeps one weight document per user. Every write goes through
// WeightRepository.UpdateDocument, so concurrent writers for the same user
// are serialized by the row lock.
type weightService struct {
	weightRepository store.WeightRepository

	logger *logger.Logger
}

func NewWeightService(weightRepository store.WeightRepository, logger *logger.Logger) WeightService {
	return &weightService{
		weightRepository: weightRepository,
		logger:           logger,
	}
}

// GetAll returns the stored document or an empty one.
func (w *weightService) GetAll(ctx context.Context, userID int64) (models.WeightDocument, error) {
	doc, _, err := w.weightRepository.GetDocument(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "weightService.GetAll").Int64("user_id", userID).Msg("error reading weight document")
		return nil, fmt.Errorf("error reading weight document: %w", err)
	}

	return normalizeKeys(doc), nil
}

// GetMonth returns the entries of one month, empty when the month or the whole
// document does not exist.
func (w *weightService) GetMonth(ctx context.Context, userID int64, ref models.MonthRef) (models.MonthMap, error) {
	doc, err := w.GetAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	month, ok := doc[ref.Key()]
	if !ok {
		return models.MonthMap{}, nil
	}
	return month, nil
}

func (w *weightService) SaveMonth(ctx context.Context, userID int64, ref models.MonthRef, month models.MonthMap) (models.MonthMap, error) {
	if month == nil {
		month = models.MonthMap{}
	}

	_, err := w.weightRepository.UpdateDocument(ctx, userID, func(current models.WeightDocument, _ bool) (models.WeightDocument, error) {
		next := normalizeKeys(current)
		next[ref.Key()] = month.Clone()
		return next, nil
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "weightService.SaveMonth").
			Int64("user_id", userID).Str("month", ref.Key()).Msg("error saving month")
		return nil, fmt.Errorf("error saving month %s: %w", ref.Key(), err)
	}

	return month, nil
}

func (w *weightService) SaveAll(ctx context.Context, userID int64, doc models.WeightDocument) (models.WeightDocument, error) {
	stored, err := w.weightRepository.UpdateDocument(ctx, userID, func(models.WeightDocument, bool) (models.WeightDocument, error) {
		return normalizeKeys(doc), nil
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "weightService.SaveAll").Int64("user_id", userID).Msg("error replacing weight document")
		return nil, fmt.Errorf("error replacing weight document: %w", err)
	}

	return stored, nil
}

// Migrate folds req.Data into the stored document:
//   - no document yet: the incoming data becomes the document;
//   - overwrite with no months: the document is cleared;
//   - overwrite: every incoming month replaces the stored one;
//   - otherwise: incoming days are merged into each month, incoming values win.
//
// Months absent from req.Data are never touched.
func (w *weightService) Migrate(ctx context.Context, userID int64, req models.MigrateRequest) (models.WeightDocument, error) {
	incoming := normalizeKeys(req.Data)

	stored, err := w.weightRepository.UpdateDocument(ctx, userID, func(current models.WeightDocument, exists bool) (models.WeightDocument, error) {
		if !exists {
			return incoming, nil
		}
		if req.Overwrite && len(incoming) == 0 {
			return models.WeightDocument{}, nil
		}

		next := normalizeKeys(current)
		for key, month := range incoming {
			if req.Overwrite {
				next[key] = month
				continue
			}
			target, ok := next[key]
			if !ok {
				target = models.MonthMap{}
				next[key] = target
			}
			for day, v := range month {
				target[day] = v
			}
		}
		return next, nil
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "weightService.Migrate").
			Int64("user_id", userID).Bool("overwrite", req.Overwrite).Msg("migration failed")
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	logger.FromContext(ctx).Info().Int64("user_id", userID).Bool("overwrite", req.Overwrite).
		Int("months_in", len(incoming)).Int("months_stored", len(stored)).Msg("weight data migrated")
	return stored, nil
}

func (w *weightService) Reset(ctx context.Context, userID int64) (models.WeightDocument, error) {
	stored, err := w.weightRepository.UpdateDocument(ctx, userID, func(models.WeightDocument, bool) (models.WeightDocument, error) {
		return models.WeightDocument{}, nil
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "weightService.Reset").Int64("user_id", userID).Msg("error resetting weight document")
		return nil, fmt.Errorf("error resetting weight document: %w", err)
	}

	return stored, nil
}

// normalizeKeys returns a deep copy of doc with month keys in zero-padded
// "YYYY-MM" form. Documents written by older clients may hold "2025-9"; when
// both spellings are present their days are merged, the padded key winning.
// Keys that do not parse are kept verbatim.
func normalizeKeys(doc models.WeightDocument) models.WeightDocument {
	out := make(models.WeightDocument, len(doc))
	for key, month := range doc {
		ref, err := models.ParseMonthKey(key)
		if err != nil || ref.Key() == key {
			continue
		}
		target, ok := out[ref.Key()]
		if !ok {
			target = models.MonthMap{}
			out[ref.Key()] = target
		}
		for day, v := range month {
			target[day] = v
		}
	}
	for key, month := range doc {
		ref, err := models.ParseMonthKey(key)
		if err == nil && ref.Key() != key {
			continue
		}
		target, ok := out[key]
		if !ok {
			out[key] = month.Clone()
			continue
		}
		for day, v := range month {
			target[day] = v
		}
	}
	return out
}
