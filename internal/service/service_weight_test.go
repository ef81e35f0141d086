package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ggowrisankar/weight-tracker/internal/logger"
	"github.com/ggowrisankar/weight-tracker/internal/mock"
	"github.com/ggowrisankar/weight-tracker/internal/store"
	"github.com/ggowrisankar/weight-tracker/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

// applyMutation makes UpdateDocument run the mutation against stored/exists
// and return its result, the way the SQL repository does.
func applyMutation(repo *mock.MockWeightRepository, userID int64, stored models.WeightDocument, exists bool) *models.WeightDocument {
	var written models.WeightDocument
	repo.EXPECT().
		UpdateDocument(gomock.Any(), userID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, mutate store.DocumentMutation) (models.WeightDocument, error) {
			next, err := mutate(stored.Clone(), exists)
			if err != nil {
				return nil, err
			}
			written = next
			return next, nil
		})
	return &written
}

func newTestWeightService(t *testing.T) (*mock.MockWeightRepository, WeightService) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockWeightRepository(ctrl)
	return repo, NewWeightService(repo, logger.Nop())
}

// ── GetAll / GetMonth ────────────────────────────────────────────────────────

func TestWeightService_GetAll(t *testing.T) {
	repo, svc := newTestWeightService(t)

	repo.EXPECT().GetDocument(gomock.Any(), int64(1)).
		Return(models.WeightDocument{"2025-9": {"1": 70}, "2025-10": {"2": 71}}, true, nil)

	doc, err := svc.GetAll(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.WeightDocument{"2025-09": {"1": 70}, "2025-10": {"2": 71}}, doc)
}

func TestWeightService_GetAll_NoDocument(t *testing.T) {
	repo, svc := newTestWeightService(t)

	repo.EXPECT().GetDocument(gomock.Any(), int64(1)).Return(models.WeightDocument{}, false, nil)

	doc, err := svc.GetAll(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, doc)
	assert.Empty(t, doc)
}

func TestWeightService_GetAll_RepositoryError(t *testing.T) {
	repo, svc := newTestWeightService(t)

	repo.EXPECT().GetDocument(gomock.Any(), int64(1)).Return(nil, false, store.ErrExecutingQuery)

	_, err := svc.GetAll(context.Background(), 1)
	assert.ErrorIs(t, err, store.ErrExecutingQuery)
}

func TestWeightService_GetMonth(t *testing.T) {
	repo, svc := newTestWeightService(t)

	repo.EXPECT().GetDocument(gomock.Any(), int64(1)).
		Return(models.WeightDocument{"2025-09": {"1": 70}}, true, nil).Times(2)

	month, err := svc.GetMonth(context.Background(), 1, models.MonthRef{Year: 2025, Month: 9})
	require.NoError(t, err)
	assert.Equal(t, models.MonthMap{"1": 70}, month)

	month, err = svc.GetMonth(context.Background(), 1, models.MonthRef{Year: 2025, Month: 10})
	require.NoError(t, err)
	assert.Equal(t, models.MonthMap{}, month)
}

// ── SaveMonth / SaveAll / Reset ──────────────────────────────────────────────

func TestWeightService_SaveMonth_ReplacesWholeMonth(t *testing.T) {
	repo, svc := newTestWeightService(t)

	written := applyMutation(repo, 1, models.WeightDocument{
		"2025-09": {"1": 70, "2": 71},
		"2025-10": {"5": 80},
	}, true)

	month, err := svc.SaveMonth(context.Background(), 1, models.MonthRef{Year: 2025, Month: 9}, models.MonthMap{"3": 72})
	require.NoError(t, err)
	assert.Equal(t, models.MonthMap{"3": 72}, month)
	assert.Equal(t, models.WeightDocument{
		"2025-09": {"3": 72},
		"2025-10": {"5": 80},
	}, *written)
}

func TestWeightService_SaveMonth_CreatesDocument(t *testing.T) {
	repo, svc := newTestWeightService(t)

	written := applyMutation(repo, 1, models.WeightDocument{}, false)

	_, err := svc.SaveMonth(context.Background(), 1, models.MonthRef{Year: 2025, Month: 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.WeightDocument{"2025-01": {}}, *written)
}

func TestWeightService_SaveMonth_RepositoryError(t *testing.T) {
	repo, svc := newTestWeightService(t)

	repo.EXPECT().UpdateDocument(gomock.Any(), int64(1), gomock.Any()).Return(nil, store.ErrCommitingTransaction)

	_, err := svc.SaveMonth(context.Background(), 1, models.MonthRef{Year: 2025, Month: 1}, models.MonthMap{})
	assert.ErrorIs(t, err, store.ErrCommitingTransaction)
}

func TestWeightService_SaveAll(t *testing.T) {
	repo, svc := newTestWeightService(t)

	written := applyMutation(repo, 1, models.WeightDocument{"2024-01": {"1": 90}}, true)

	doc, err := svc.SaveAll(context.Background(), 1, models.WeightDocument{"2025-2": {"1": 60}})
	require.NoError(t, err)
	assert.Equal(t, models.WeightDocument{"2025-02": {"1": 60}}, doc)
	assert.Equal(t, doc, *written)
}

func TestWeightService_Reset(t *testing.T) {
	repo, svc := newTestWeightService(t)

	applyMutation(repo, 1, models.WeightDocument{"2024-01": {"1": 90}}, true)

	doc, err := svc.Reset(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.WeightDocument{}, doc)
}

// ── Migrate ──────────────────────────────────────────────────────────────────

func TestWeightService_Migrate(t *testing.T) {
	server := models.WeightDocument{
		"2025-09": {"1": 70, "2": 71},
		"2025-10": {"5": 80},
	}

	tests := []struct {
		name   string
		stored models.WeightDocument
		exists bool
		req    models.MigrateRequest
		want   models.WeightDocument
	}{
		{
			name:   "no document creates it from data",
			stored: models.WeightDocument{},
			req:    models.MigrateRequest{Data: models.WeightDocument{"2025-9": {"1": 65}}},
			want:   models.WeightDocument{"2025-09": {"1": 65}},
		},
		{
			name:   "merge keeps untouched months and lets incoming days win",
			stored: server,
			exists: true,
			req:    models.MigrateRequest{Data: models.WeightDocument{"2025-09": {"2": 60, "3": 61}, "2025-11": {"1": 50}}},
			want: models.WeightDocument{
				"2025-09": {"1": 70, "2": 60, "3": 61},
				"2025-10": {"5": 80},
				"2025-11": {"1": 50},
			},
		},
		{
			name:   "overwrite replaces given months only",
			stored: server,
			exists: true,
			req:    models.MigrateRequest{Data: models.WeightDocument{"2025-09": {"3": 61}}, Overwrite: true},
			want: models.WeightDocument{
				"2025-09": {"3": 61},
				"2025-10": {"5": 80},
			},
		},
		{
			name:   "overwrite with empty data clears",
			stored: server,
			exists: true,
			req:    models.MigrateRequest{Data: models.WeightDocument{}, Overwrite: true},
			want:   models.WeightDocument{},
		},
		{
			name:   "merge with empty data is a no-op",
			stored: server,
			exists: true,
			req:    models.MigrateRequest{Data: models.WeightDocument{}},
			want:   server,
		},
		{
			name:   "legacy stored keys are merged into padded ones",
			stored: models.WeightDocument{"2025-9": {"1": 70}},
			exists: true,
			req:    models.MigrateRequest{Data: models.WeightDocument{"2025-09": {"2": 71}}},
			want:   models.WeightDocument{"2025-09": {"1": 70, "2": 71}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, svc := newTestWeightService(t)
			written := applyMutation(repo, 7, tt.stored, tt.exists)

			doc, err := svc.Migrate(context.Background(), 7, tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc)
			assert.Equal(t, tt.want, *written)
		})
	}
}

func TestWeightService_Migrate_DoesNotAliasRequest(t *testing.T) {
	repo, svc := newTestWeightService(t)
	applyMutation(repo, 1, models.WeightDocument{}, false)

	data := models.WeightDocument{"2025-09": {"1": 65}}
	doc, err := svc.Migrate(context.Background(), 1, models.MigrateRequest{Data: data})
	require.NoError(t, err)

	doc["2025-09"]["1"] = 99
	assert.Equal(t, 65.0, data["2025-09"]["1"])
}

func TestWeightService_Migrate_RepositoryError(t *testing.T) {
	repo, svc := newTestWeightService(t)

	repo.EXPECT().UpdateDocument(gomock.Any(), int64(1), gomock.Any()).Return(nil, errors.New("boom"))

	_, err := svc.Migrate(context.Background(), 1, models.MigrateRequest{Data: models.WeightDocument{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration failed")
}

// ── normalizeKeys ────────────────────────────────────────────────────────────

func TestNormalizeKeys(t *testing.T) {
	in := models.WeightDocument{
		"2025-9":  {"1": 70, "2": 71},
		"2025-09": {"2": 72},
		"junk":    {"1": 50},
	}

	out := normalizeKeys(in)
	assert.Equal(t, models.WeightDocument{
		"2025-09": {"1": 70, "2": 72},
		"junk":    {"1": 50},
	}, out)

	out["junk"]["1"] = 1
	assert.Equal(t, 50.0, in["junk"]["1"])
}
