package adapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// errorBody accepts both {"error": ...} and the older {"message": ...} shape.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	msg := responseMessage(resp)

	switch code := resp.StatusCode(); {
	case code == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, msg)
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	case code == http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrConflict, msg)
	case code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrTooManyRequests, msg)
	case code >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %s", ErrServerError, msg)
	default:
		return fmt.Errorf("http %d: %s", code, msg)
	}
}

func responseMessage(resp *resty.Response) string {
	raw := resp.Body()

	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}

	if text := strings.TrimSpace(string(raw)); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode())
}
