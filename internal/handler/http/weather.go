package http

import (
	"net/http"
	"strconv"

	"github.com/ggowrisankar/weight-tracker/internal/app"
	"github.com/ggowrisankar/weight-tracker/internal/logger"
	"github.com/ggowrisankar/weight-tracker/internal/utils"
	"github.com/ggowrisankar/weight-tracker/models"
)

// getWeather proxies GET /weather?lat=&lon=. The upstream JSON is written
// unchanged.
func (h *Handler) getWeather(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(q.Get("lon"), 64)
	if errLat != nil || errLon != nil {
		utils.WriteError(w, app.MsgNoLocationProvided, http.StatusBadRequest)
		return
	}
	if err := h.validator.Validate(r.Context(), models.Location{Lat: lat, Lon: lon}); err != nil {
		logger.FromRequest(r).Err(err).Msg("location out of range")
		utils.WriteError(w, app.MsgNoLocationProvided, http.StatusBadRequest)
		return
	}

	body, err := h.services.WeatherService.Forecast(r.Context(), lat, lon)
	if err != nil {
		writeServiceError(w, r, err, app.MsgWeatherFailed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
