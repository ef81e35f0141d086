package http

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/ggowrisankar/weight-tracker/internal/app"
	"github.com/ggowrisankar/weight-tracker/internal/service"
	"github.com/ggowrisankar/weight-tracker/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weightsRouter(weights *fakeWeightService) http.Handler {
	svcs := testServices()
	svcs.WeightService = weights
	return newTestHandler(svcs).Init()
}

var storedDoc = models.WeightDocument{
	"2025-09": {"1": 72.4, "2": 72.1},
	"2025-10": {"15": 71.8},
}

func TestWeights_RequireBearer(t *testing.T) {
	router := weightsRouter(&fakeWeightService{})

	for _, target := range []string{"/weights", "/weights/2025/9"} {
		rec := serve(t, router, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, target)
		assert.Equal(t, app.MsgNoTokenProvided, errorOf(t, rec))
	}

	rec := serve(t, router, http.MethodGet, "/weights", nil, "Authorization", "Bearer expired")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, app.MsgTokenIsExpiredOrInvalid, errorOf(t, rec))
}

func TestGetWeights(t *testing.T) {
	weights := &fakeWeightService{
		getAllFn: func(_ context.Context, userID int64) (models.WeightDocument, error) {
			assert.Equal(t, testUserID, userID)
			return storedDoc, nil
		},
	}

	rec := serve(t, weightsRouter(weights), http.MethodGet, "/weights", nil, bearer...)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, storedDoc, decodeBody[models.WeightDocument](t, rec))
}

func TestGetWeights_ServiceError(t *testing.T) {
	weights := &fakeWeightService{
		getAllFn: func(context.Context, int64) (models.WeightDocument, error) {
			return nil, errors.New("connection reset")
		},
	}

	rec := serve(t, weightsRouter(weights), http.MethodGet, "/weights", nil, bearer...)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, app.MsgInternalServerError, errorOf(t, rec))
}

func TestPutWeights(t *testing.T) {
	weights := &fakeWeightService{
		saveAllFn: func(_ context.Context, _ int64, doc models.WeightDocument) (models.WeightDocument, error) {
			return doc, nil
		},
	}
	router := weightsRouter(weights)

	rec := serve(t, router, http.MethodPut, "/weights", storedDoc, bearer...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, storedDoc, decodeBody[models.MigrateResponse](t, rec).WeightData)

	rec = serve(t, router, http.MethodPut, "/weights", "null", bearer...)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, app.MsgMissingData, errorOf(t, rec))
}

func TestGetMonth(t *testing.T) {
	weights := &fakeWeightService{
		getMonthFn: func(_ context.Context, _ int64, ref models.MonthRef) (models.MonthMap, error) {
			if !ref.Valid() {
				return nil, service.ErrInvalidMonth
			}
			return storedDoc[ref.Key()], nil
		},
	}
	router := weightsRouter(weights)

	rec := serve(t, router, http.MethodGet, "/weights/2025/9", nil, bearer...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, storedDoc["2025-09"], decodeBody[models.MonthMap](t, rec))

	rec = serve(t, router, http.MethodGet, "/weights/2025/13", nil, bearer...)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, app.MsgMissingData, errorOf(t, rec))

	rec = serve(t, router, http.MethodGet, "/weights/2025/sep", nil, bearer...)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSaveMonth(t *testing.T) {
	var gotRef models.MonthRef
	weights := &fakeWeightService{
		saveMonthFn: func(_ context.Context, userID int64, ref models.MonthRef, month models.MonthMap) (models.MonthMap, error) {
			assert.Equal(t, testUserID, userID)
			gotRef = ref
			if month["3"] > models.MaxWeight {
				return nil, service.ErrInvalidWeightData
			}
			return month, nil
		},
	}
	router := weightsRouter(weights)

	rec := serve(t, router, http.MethodPost, "/weights/2025/9", models.MonthMap{"3": 70.2}, bearer...)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[models.SaveMonthResponse](t, rec)
	assert.Equal(t, app.MsgDataSaved, resp.Message)
	assert.Equal(t, "2025-09", resp.DataKey)
	assert.Equal(t, models.MonthMap{"3": 70.2}, resp.Data)
	assert.Equal(t, models.MonthRef{Year: 2025, Month: 9}, gotRef)

	rec = serve(t, router, http.MethodPost, "/weights/2025/9", models.MonthMap{"3": 512}, bearer...)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, app.MsgInvalidDataProvided, errorOf(t, rec))

	rec = serve(t, router, http.MethodPost, "/weights/2025/9", "", bearer...)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, app.MsgMissingData, errorOf(t, rec))
}

func TestMigrate(t *testing.T) {
	tests := []struct {
		name        string
		body        any
		migrateErr  error
		wantStatus  int
		wantMsg     string
		wantOutcome string
	}{
		{
			name:        "merge",
			body:        models.MigrateRequest{Data: models.WeightDocument{"2025-09": {"5": 70}}},
			wantStatus:  http.StatusOK,
			wantMsg:     app.MsgMigrationSucceded,
			wantOutcome: migrationMerged,
		},
		{
			name:        "overwrite",
			body:        models.MigrateRequest{Data: models.WeightDocument{}, Overwrite: true},
			wantStatus:  http.StatusOK,
			wantMsg:     app.MsgMigrationSucceded,
			wantOutcome: migrationOverwrote,
		},
		{
			name:        "missing data",
			body:        map[string]any{"overwrite": true},
			wantStatus:  http.StatusBadRequest,
			wantMsg:     app.MsgMissingData,
			wantOutcome: migrationRejected,
		},
		{
			name:        "invalid weights",
			body:        models.MigrateRequest{Data: models.WeightDocument{"2025-09": {"5": 7}}},
			migrateErr:  service.ErrInvalidWeightData,
			wantStatus:  http.StatusBadRequest,
			wantMsg:     app.MsgInvalidDataProvided,
			wantOutcome: migrationRejected,
		},
		{
			name:        "store failure",
			body:        models.MigrateRequest{Data: models.WeightDocument{"2025-09": {"5": 70}}},
			migrateErr:  errors.New("deadlock detected"),
			wantStatus:  http.StatusInternalServerError,
			wantMsg:     app.MsgMigrationFailed,
			wantOutcome: migrationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			weights := &fakeWeightService{
				migrateFn: func(_ context.Context, _ int64, req models.MigrateRequest) (models.WeightDocument, error) {
					if tt.migrateErr != nil {
						return nil, tt.migrateErr
					}
					return req.Data, nil
				},
			}
			before := testutil.ToFloat64(migrationsTotal.WithLabelValues(tt.wantOutcome))

			rec := serve(t, weightsRouter(weights), http.MethodPost, "/weights/migrate", tt.body, bearer...)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, before+1, testutil.ToFloat64(migrationsTotal.WithLabelValues(tt.wantOutcome)))
			if tt.wantStatus == http.StatusOK {
				resp := decodeBody[models.MigrateResponse](t, rec)
				assert.Equal(t, tt.wantMsg, resp.Message)
				assert.NotNil(t, resp.WeightData)
				return
			}
			assert.Equal(t, tt.wantMsg, errorOf(t, rec))
		})
	}
}

func TestReset(t *testing.T) {
	weights := &fakeWeightService{
		resetFn: func(_ context.Context, userID int64) (models.WeightDocument, error) {
			assert.Equal(t, testUserID, userID)
			return models.WeightDocument{}, nil
		},
	}

	rec := serve(t, weightsRouter(weights), http.MethodPost, "/weights/reset", struct{}{}, bearer...)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{}}`, rec.Body.String())
}
