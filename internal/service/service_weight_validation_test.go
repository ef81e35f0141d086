package service

import (
	"context"
	"testing"

	"github.com/ggowrisankar/weight-tracker/internal/utils"
	"github.com/ggowrisankar/weight-tracker/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────
// Mocks
// ─────────────────────────────────────────────

// recordingWeightService counts calls that made it through the wrapper.
type recordingWeightService struct {
	calls int
}

func (r *recordingWeightService) GetAll(context.Context, int64) (models.WeightDocument, error) {
	r.calls++
	return models.WeightDocument{}, nil
}

func (r *recordingWeightService) GetMonth(context.Context, int64, models.MonthRef) (models.MonthMap, error) {
	r.calls++
	return models.MonthMap{}, nil
}

func (r *recordingWeightService) SaveMonth(_ context.Context, _ int64, _ models.MonthRef, month models.MonthMap) (models.MonthMap, error) {
	r.calls++
	return month, nil
}

func (r *recordingWeightService) SaveAll(_ context.Context, _ int64, doc models.WeightDocument) (models.WeightDocument, error) {
	r.calls++
	return doc, nil
}

func (r *recordingWeightService) Migrate(_ context.Context, _ int64, req models.MigrateRequest) (models.WeightDocument, error) {
	r.calls++
	return req.Data, nil
}

func (r *recordingWeightService) Reset(context.Context, int64) (models.WeightDocument, error) {
	r.calls++
	return models.WeightDocument{}, nil
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

func ctxWithUserID(id int64) context.Context {
	return context.WithValue(context.Background(), utils.UserIDCtxKey, id)
}

func newValidatedWeightService() (*recordingWeightService, WeightService) {
	inner := &recordingWeightService{}
	return inner, NewWeightValidationService().Wrap(inner)
}

var september = models.MonthRef{Year: 2025, Month: 9}

// ─────────────────────────────────────────────
// Ownership
// ─────────────────────────────────────────────

func TestWeightValidation_NoUserIDInCtx(t *testing.T) {
	inner, svc := newValidatedWeightService()

	_, err := svc.GetAll(context.Background(), 1)
	assert.ErrorIs(t, err, ErrValidationNoUserID)

	_, err = svc.Reset(ctxWithUserID(1), 0)
	assert.ErrorIs(t, err, ErrValidationNoUserID)
	assert.Zero(t, inner.calls)
}

func TestWeightValidation_DifferentUser(t *testing.T) {
	inner, svc := newValidatedWeightService()
	ctx := ctxWithUserID(1)

	_, err := svc.GetAll(ctx, 2)
	assert.ErrorIs(t, err, ErrUnauthorizedAccessToDifferentUserData)
	_, err = svc.GetMonth(ctx, 2, september)
	assert.ErrorIs(t, err, ErrUnauthorizedAccessToDifferentUserData)
	_, err = svc.SaveMonth(ctx, 2, september, models.MonthMap{})
	assert.ErrorIs(t, err, ErrUnauthorizedAccessToDifferentUserData)
	_, err = svc.SaveAll(ctx, 2, models.WeightDocument{})
	assert.ErrorIs(t, err, ErrUnauthorizedAccessToDifferentUserData)
	_, err = svc.Migrate(ctx, 2, models.MigrateRequest{Data: models.WeightDocument{}})
	assert.ErrorIs(t, err, ErrUnauthorizedAccessToDifferentUserData)
	_, err = svc.Reset(ctx, 2)
	assert.ErrorIs(t, err, ErrUnauthorizedAccessToDifferentUserData)

	assert.Zero(t, inner.calls)
}

// ─────────────────────────────────────────────
// Payloads
// ─────────────────────────────────────────────

func TestWeightValidation_SaveMonth(t *testing.T) {
	tests := []struct {
		name    string
		ref     models.MonthRef
		month   models.MonthMap
		wantErr error
	}{
		{name: "valid", ref: september, month: models.MonthMap{"1": 70}},
		{name: "empty month", ref: september, month: models.MonthMap{}},
		{name: "month 13", ref: models.MonthRef{Year: 2025, Month: 13}, month: models.MonthMap{}, wantErr: ErrInvalidMonth},
		{name: "out of range", ref: september, month: models.MonthMap{"1": 301}, wantErr: ErrInvalidWeightData},
		{name: "bad day", ref: september, month: models.MonthMap{"40": 70}, wantErr: ErrInvalidWeightData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner, svc := newValidatedWeightService()

			_, err := svc.SaveMonth(ctxWithUserID(1), 1, tt.ref, tt.month)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, inner.calls)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1, inner.calls)
		})
	}
}

func TestWeightValidation_GetMonth_InvalidMonth(t *testing.T) {
	_, svc := newValidatedWeightService()

	_, err := svc.GetMonth(ctxWithUserID(1), 1, models.MonthRef{Year: 2025})
	assert.ErrorIs(t, err, ErrInvalidMonth)
}

func TestWeightValidation_SaveAll(t *testing.T) {
	inner, svc := newValidatedWeightService()
	ctx := ctxWithUserID(1)

	_, err := svc.SaveAll(ctx, 1, nil)
	assert.ErrorIs(t, err, ErrInvalidWeightData)

	_, err = svc.SaveAll(ctx, 1, models.WeightDocument{"2025-00": {"1": 70}})
	assert.ErrorIs(t, err, ErrInvalidMonth)

	_, err = svc.SaveAll(ctx, 1, models.WeightDocument{"2025-01": {"1": 70}})
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls)
}

func TestWeightValidation_Migrate(t *testing.T) {
	inner, svc := newValidatedWeightService()
	ctx := ctxWithUserID(1)

	_, err := svc.Migrate(ctx, 1, models.MigrateRequest{})
	assert.ErrorIs(t, err, ErrInvalidWeightData)

	_, err = svc.Migrate(ctx, 1, models.MigrateRequest{Data: models.WeightDocument{"2025-01": {"1": 10}}})
	assert.ErrorIs(t, err, ErrInvalidWeightData)

	doc, err := svc.Migrate(ctx, 1, models.MigrateRequest{Data: models.WeightDocument{}, Overwrite: true})
	require.NoError(t, err)
	assert.Empty(t, doc)
	assert.Equal(t, 1, inner.calls)
}

func TestWeightValidation_PassThrough(t *testing.T) {
	inner, svc := newValidatedWeightService()
	ctx := ctxWithUserID(1)

	_, err := svc.GetAll(ctx, 1)
	require.NoError(t, err)
	_, err = svc.GetMonth(ctx, 1, september)
	require.NoError(t, err)
	_, err = svc.Reset(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, 3, inner.calls)
}
