package http

import (
	"net/http"

	"github.com/ggowrisankar/weight-tracker/internal/utils"
	"github.com/ggowrisankar/weight-tracker/models"
)

func (h *Handler) ping(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, models.PingResponse{Status: "ok"}, http.StatusOK)
}

func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, h.services.AppInfoService.GetAppVersion(r.Context()), http.StatusOK)
}
