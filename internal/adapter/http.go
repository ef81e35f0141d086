package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/ggowrisankar/weight-tracker/internal/config"
	"github.com/ggowrisankar/weight-tracker/internal/logger"
	"github.com/ggowrisankar/weight-tracker/internal/utils"
	"github.com/ggowrisankar/weight-tracker/models"
	"github.com/go-resty/resty/v2"
)

type httpServerAdapter struct {
	client *utils.HTTPClient

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs the HTTP/REST implementation of
// [ServerAdapter]. The base URL is taken from cfg.HTTPAddress, a missing
// scheme defaults to http.
//
// Returns an error if cfg.HTTPAddress is empty or cannot be parsed as a URL.
func NewHTTPServerAdapter(cfg config.ClientAdapter, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(cfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	return &httpServerAdapter{
		client: utils.NewHTTPClient(baseURL, cfg.RequestTimeout),
		logger: logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

func (h *httpServerAdapter) Ping(ctx context.Context) error {
	resp, err := h.client.R().SetContext(ctx).Get("/ping")
	if err != nil {
		return fmt.Errorf("%w: ping request: %w", ErrServerError, err)
	}

	return mapHTTPError(resp)
}

// ── WeightAPI ────────────────────────────────────────────────────────────────

// FetchAll implements [WeightAPI] with GET /weights.
func (h *httpServerAdapter) FetchAll(ctx context.Context) (models.WeightDocument, error) {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := req.Get("/weights")
	if err != nil {
		return nil, fmt.Errorf("%w: fetch all request: %w", ErrServerError, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	doc := models.WeightDocument{}
	if err = decodeBody(resp, &doc); err != nil {
		return nil, fmt.Errorf("decode weight document: %w", err)
	}
	return doc, nil
}

// FetchMonth implements [WeightAPI] with GET /weights/{year}/{month}.
func (h *httpServerAdapter) FetchMonth(ctx context.Context, ref models.MonthRef) (models.MonthMap, error) {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := req.SetPathParams(monthPathParams(ref)).Get("/weights/{year}/{month}")
	if err != nil {
		return nil, fmt.Errorf("%w: fetch month request: %w", ErrServerError, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	month := models.MonthMap{}
	if err = decodeBody(resp, &month); err != nil {
		return nil, fmt.Errorf("decode month: %w", err)
	}
	return month, nil
}

// SaveMonth implements [WeightAPI] with POST /weights/{year}/{month}.
func (h *httpServerAdapter) SaveMonth(ctx context.Context, ref models.MonthRef, month models.MonthMap) error {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return err
	}
	if month == nil {
		month = models.MonthMap{}
	}

	resp, err := req.
		SetHeader("Content-Type", "application/json").
		SetPathParams(monthPathParams(ref)).
		SetBody(month).
		Post("/weights/{year}/{month}")
	if err != nil {
		return fmt.Errorf("%w: save month request: %w", ErrServerError, err)
	}

	return mapHTTPError(resp)
}

// SaveAll implements [WeightAPI] with PUT /weights.
func (h *httpServerAdapter) SaveAll(ctx context.Context, doc models.WeightDocument) error {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return err
	}
	if doc == nil {
		doc = models.WeightDocument{}
	}

	resp, err := req.
		SetHeader("Content-Type", "application/json").
		SetBody(doc).
		Put("/weights")
	if err != nil {
		return fmt.Errorf("%w: save all request: %w", ErrServerError, err)
	}

	return mapHTTPError(resp)
}

// Migrate implements [WeightAPI] with POST /weights/migrate.
func (h *httpServerAdapter) Migrate(ctx context.Context, data models.WeightDocument, overwrite bool) (models.WeightDocument, error) {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = models.WeightDocument{}
	}

	resp, err := req.
		SetHeader("Content-Type", "application/json").
		SetBody(models.MigrateRequest{Data: data, Overwrite: overwrite}).
		Post("/weights/migrate")
	if err != nil {
		return nil, fmt.Errorf("%w: migrate request: %w", ErrServerError, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var out models.MigrateResponse
	if err = decodeBody(resp, &out); err != nil {
		return nil, fmt.Errorf("decode migrate response: %w", err)
	}
	if out.WeightData == nil {
		out.WeightData = models.WeightDocument{}
	}
	return out.WeightData, nil
}

// Reset implements [WeightAPI] with POST /weights/reset.
func (h *httpServerAdapter) Reset(ctx context.Context) error {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return err
	}

	resp, err := req.
		SetHeader("Content-Type", "application/json").
		SetBody(struct{}{}).
		Post("/weights/reset")
	if err != nil {
		return fmt.Errorf("%w: reset request: %w", ErrServerError, err)
	}

	return mapHTTPError(resp)
}

// ── AuthAPI ──────────────────────────────────────────────────────────────────

func (h *httpServerAdapter) Signup(ctx context.Context, creds models.Credentials) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(creds).
		Post("/auth/signup")
	if err != nil {
		return fmt.Errorf("%w: signup request: %w", ErrServerError, err)
	}

	return mapHTTPError(resp)
}

// Login implements [AuthAPI]. It does not store the returned access token;
// the session controller decides when the adapter becomes authenticated.
func (h *httpServerAdapter) Login(ctx context.Context, creds models.Credentials) (models.TokenPair, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(creds).
		Post("/auth/login")
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("%w: login request: %w", ErrServerError, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.TokenPair{}, err
	}

	var pair models.TokenPair
	if err = decodeBody(resp, &pair); err != nil {
		return models.TokenPair{}, fmt.Errorf("decode login response: %w", err)
	}
	if pair.AccessToken == "" {
		return models.TokenPair{}, fmt.Errorf("%w: login response without access token", ErrServerError)
	}
	return pair, nil
}

func (h *httpServerAdapter) Refresh(ctx context.Context, refreshToken string) (models.RefreshResponse, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.RefreshRequest{Token: refreshToken}).
		Post("/auth/refresh")
	if err != nil {
		return models.RefreshResponse{}, fmt.Errorf("%w: refresh request: %w", ErrServerError, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.RefreshResponse{}, err
	}

	var out models.RefreshResponse
	if err = decodeBody(resp, &out); err != nil {
		return models.RefreshResponse{}, fmt.Errorf("decode refresh response: %w", err)
	}
	return out, nil
}

func (h *httpServerAdapter) Me(ctx context.Context) (models.User, error) {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return models.User{}, err
	}

	resp, err := req.Get("/auth/me")
	if err != nil {
		return models.User{}, fmt.Errorf("%w: me request: %w", ErrServerError, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	var out models.UserResponse
	if err = decodeBody(resp, &out); err != nil {
		return models.User{}, fmt.Errorf("decode me response: %w", err)
	}
	return out.User, nil
}

func (h *httpServerAdapter) SendVerification(ctx context.Context) error {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return err
	}

	resp, err := req.Post("/auth/send-verification")
	if err != nil {
		return fmt.Errorf("%w: send verification request: %w", ErrServerError, err)
	}

	return mapHTTPError(resp)
}

func (h *httpServerAdapter) RequestPasswordReset(ctx context.Context, email string) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.PasswordResetRequest{Email: email}).
		Post("/auth/request-password-reset")
	if err != nil {
		return fmt.Errorf("%w: password reset request: %w", ErrServerError, err)
	}

	return mapHTTPError(resp)
}

func (h *httpServerAdapter) ResetPassword(ctx context.Context, token string, body models.NewPasswordRequest) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetPathParam("token", token).
		SetBody(body).
		Post("/auth/reset-password/{token}")
	if err != nil {
		return fmt.Errorf("%w: reset password request: %w", ErrServerError, err)
	}

	return mapHTTPError(resp)
}

// ── WeatherAPI ───────────────────────────────────────────────────────────────

func (h *httpServerAdapter) Forecast(ctx context.Context, lat, lon float64) ([]byte, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"lat": strconv.FormatFloat(lat, 'f', -1, 64),
			"lon": strconv.FormatFloat(lon, 'f', -1, 64),
		}).
		Get("/weather")
	if err != nil {
		return nil, fmt.Errorf("%w: forecast request: %w", ErrServerError, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return resp.Body(), nil
}

// authedRequest returns a request carrying the bearer token, or
// [ErrNoAuthToken] when none is set.
func (h *httpServerAdapter) authedRequest(ctx context.Context) (*resty.Request, error) {
	token := h.Token()
	if token == "" {
		logger.FromContext(ctx).Debug().Str("func", "*httpServerAdapter.authedRequest").Msg("no auth token")
		return nil, ErrNoAuthToken
	}

	return h.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+token), nil
}

func monthPathParams(ref models.MonthRef) map[string]string {
	return map[string]string{
		"year":  strconv.Itoa(ref.Year),
		"month": fmt.Sprintf("%02d", ref.Month),
	}
}

// decodeBody unmarshals a JSON body into v. An empty body leaves v untouched.
func decodeBody(resp *resty.Response, v any) error {
	body := resp.Body()
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	return json.Unmarshal(body, v)
}
