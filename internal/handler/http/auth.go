package http

import (
	"errors"
	"net/http"

	"github.com/ggowrisankar/weight-tracker/internal/app"
	"github.com/ggowrisankar/weight-tracker/internal/logger"
	"github.com/ggowrisankar/weight-tracker/internal/service"
	"github.com/ggowrisankar/weight-tracker/internal/utils"
	"github.com/ggowrisankar/weight-tracker/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var creds models.Credentials
	if err := decodeJSON(w, r, &creds); err != nil {
		logger.FromRequest(r).Err(err).Msg("invalid JSON was passed")
		utils.WriteError(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}
	if err := h.validator.Validate(ctx, creds); err != nil {
		logger.FromRequest(r).Err(err).Str("email", creds.Email).Msg("signup data rejected")
		utils.WriteError(w, app.MsgEmailPasswordRequired, http.StatusBadRequest)
		return
	}

	user, err := h.services.AuthService.Signup(ctx, creds)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}

	logger.FromRequest(r).Info().Int64("user_id", user.UserID).Msg("user signed up")
	utils.WriteJSON(w, models.MessageResponse{Success: true, Message: app.MsgUserCreated}, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var creds models.Credentials
	if err := decodeJSON(w, r, &creds); err != nil {
		logger.FromRequest(r).Err(err).Msg("invalid JSON was passed")
		utils.WriteError(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}
	// only presence is checked here; a short legacy password must still log in
	if creds.Email == "" || creds.Password == "" {
		utils.WriteError(w, app.MsgEmailPasswordRequired, http.StatusBadRequest)
		return
	}

	pair, err := h.services.AuthService.Login(ctx, creds)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}

	utils.WriteJSON(w, pair, http.StatusOK)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if err := decodeJSON(w, r, &req); err != nil || req.Token == "" {
		utils.WriteError(w, app.MsgMissingRefreshToken, http.StatusUnauthorized)
		return
	}

	resp, err := h.services.AuthService.Refresh(r.Context(), req.Token)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}

	utils.WriteJSON(w, resp, http.StatusOK)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	user, err := h.services.AuthService.Me(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}

	utils.WriteJSON(w, models.UserResponse{User: user}, http.StatusOK)
}

func (h *Handler) sendVerification(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	err := h.services.AuthService.SendVerification(r.Context(), userID)
	switch {
	case errors.Is(err, service.ErrAlreadyVerified):
		utils.WriteJSON(w, models.MessageResponse{Message: app.MsgUserAlreadyVerified}, http.StatusOK)
	case err != nil:
		writeServiceError(w, r, err, "")
	default:
		utils.WriteJSON(w, models.MessageResponse{Success: true, Message: app.MsgVerificationSent}, http.StatusOK)
	}
}

// verify accepts the token either as a path segment or as ?token=, the form
// used in mailed links.
func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		utils.WriteError(w, app.MsgTokenIsExpiredOrInvalid, http.StatusBadRequest)
		return
	}

	err := h.services.AuthService.Verify(r.Context(), token)
	switch {
	case errors.Is(err, service.ErrAlreadyVerified):
		utils.WriteJSON(w, models.MessageResponse{Message: app.MsgUserAlreadyVerified}, http.StatusOK)
	case errors.Is(err, service.ErrTokenIsExpiredOrInvalid), errors.Is(err, service.ErrWrongTokenType):
		logger.FromRequest(r).Err(err).Msg("verification failed")
		utils.WriteError(w, app.MsgTokenIsExpiredOrInvalid, http.StatusBadRequest)
	case err != nil:
		writeServiceError(w, r, err, "")
	default:
		utils.WriteJSON(w, models.MessageResponse{Success: true, Message: app.MsgVerified}, http.StatusOK)
	}
}

// requestPasswordReset answers the same message whether or not the account
// exists. Only a still pending reset is reported.
func (h *Handler) requestPasswordReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.PasswordResetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}
	if err := h.validator.Validate(ctx, req); err != nil {
		logger.FromRequest(r).Err(err).Msg("password reset request rejected")
		utils.WriteError(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}

	err := h.services.AuthService.RequestPasswordReset(ctx, req.Email)
	if errors.Is(err, service.ErrResetAlreadyRequested) {
		writeServiceError(w, r, err, "")
		return
	}
	if err != nil {
		logger.FromRequest(r).Err(err).Str("email", req.Email).Msg("password reset request failed")
	}

	utils.WriteJSON(w, models.MessageResponse{Success: true, Message: app.MsgPasswordResetRequested}, http.StatusOK)
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := chi.URLParam(r, "token")

	var req models.NewPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}
	if err := h.validator.Validate(ctx, req); err != nil {
		logger.FromRequest(r).Err(err).Msg("new password rejected")
		utils.WriteError(w, app.MsgEmailPasswordRequired, http.StatusBadRequest)
		return
	}

	if err := h.services.AuthService.ResetPassword(ctx, token, req); err != nil {
		writeServiceError(w, r, err, "")
		return
	}

	utils.WriteJSON(w, models.MessageResponse{Success: true, Message: app.MsgPasswordResetDone}, http.StatusOK)
}
