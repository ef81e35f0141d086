package http

import (
	"net/http"
	"strconv"

	"github.com/ggowrisankar/weight-tracker/internal/app"
	"github.com/ggowrisankar/weight-tracker/internal/logger"
	"github.com/ggowrisankar/weight-tracker/internal/utils"
	"github.com/ggowrisankar/weight-tracker/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) getWeights(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	doc, err := h.services.WeightService.GetAll(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}

	utils.WriteJSON(w, doc, http.StatusOK)
}

func (h *Handler) putWeights(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var doc models.WeightDocument
	if err := decodeJSON(w, r, &doc); err != nil || doc == nil {
		logger.FromRequest(r).Err(err).Msg("invalid weight document")
		utils.WriteError(w, app.MsgMissingData, http.StatusBadRequest)
		return
	}

	saved, err := h.services.WeightService.SaveAll(r.Context(), userID, doc)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}

	utils.WriteJSON(w, models.MigrateResponse{Message: app.MsgDataSaved, WeightData: saved}, http.StatusOK)
}

func (h *Handler) getMonth(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	ref, ok := monthRefFromPath(r)
	if !ok {
		utils.WriteError(w, app.MsgMissingData, http.StatusBadRequest)
		return
	}

	month, err := h.services.WeightService.GetMonth(r.Context(), userID, ref)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}

	utils.WriteJSON(w, month, http.StatusOK)
}

func (h *Handler) saveMonth(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	ref, ok := monthRefFromPath(r)
	if !ok {
		utils.WriteError(w, app.MsgMissingData, http.StatusBadRequest)
		return
	}

	var month models.MonthMap
	if err := decodeJSON(w, r, &month); err != nil || month == nil {
		logger.FromRequest(r).Err(err).Str("month", ref.Key()).Msg("invalid month body")
		utils.WriteError(w, app.MsgMissingData, http.StatusBadRequest)
		return
	}

	saved, err := h.services.WeightService.SaveMonth(r.Context(), userID, ref, month)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}

	utils.WriteJSON(w, models.SaveMonthResponse{
		Message: app.MsgDataSaved,
		DataKey: ref.Key(),
		Data:    saved,
	}, http.StatusOK)
}

func (h *Handler) migrate(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var req models.MigrateRequest
	if err := decodeJSON(w, r, &req); err != nil || req.Data == nil {
		logger.FromRequest(r).Err(err).Msg("invalid migrate body")
		migrationsTotal.WithLabelValues(migrationRejected).Inc()
		utils.WriteError(w, app.MsgMissingData, http.StatusBadRequest)
		return
	}

	doc, err := h.services.WeightService.Migrate(r.Context(), userID, req)
	if err != nil {
		status, _ := statusFromError(err)
		if status < http.StatusInternalServerError {
			migrationsTotal.WithLabelValues(migrationRejected).Inc()
		} else {
			migrationsTotal.WithLabelValues(migrationFailed).Inc()
		}
		writeServiceError(w, r, err, app.MsgMigrationFailed)
		return
	}

	migrationsTotal.WithLabelValues(migrationOutcome(req.Overwrite)).Inc()
	utils.WriteJSON(w, models.MigrateResponse{Message: app.MsgMigrationSucceded, WeightData: doc}, http.StatusOK)
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	doc, err := h.services.WeightService.Reset(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}

	utils.WriteJSON(w, models.ResetResponse{Data: doc}, http.StatusOK)
}

// monthRefFromPath reads {year} and {month}. Range checks are left to the
// weight service.
func monthRefFromPath(r *http.Request) (models.MonthRef, bool) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		return models.MonthRef{}, false
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		return models.MonthRef{}, false
	}
	return models.MonthRef{Year: year, Month: month}, true
}
