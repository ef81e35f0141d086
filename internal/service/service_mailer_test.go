package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ggowrisankar/weight-tracker/internal/config"
	"github.com/ggowrisankar/weight-tracker/internal/logger"
	"github.com/ggowrisankar/weight-tracker/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMailer_WithoutKeyLogsOnly(t *testing.T) {
	m := NewMailer(config.Mail{}, logger.Nop())

	_, ok := m.(*logMailer)
	require.True(t, ok)
	assert.NoError(t, m.Send(context.Background(), models.Mail{To: "ada@example.com"}))
}

func TestHTTPMailer_Send(t *testing.T) {
	var got sendMailRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"1"}`))
	}))
	defer srv.Close()

	m := NewMailer(config.Mail{APIURL: srv.URL, APIKey: "re_test", From: "Weight Tracker <noreply@example.com>"}, logger.Nop())

	err := m.Send(context.Background(), models.Mail{To: "ada@example.com", Subject: "Verify", HTML: "<a>link</a>"})
	require.NoError(t, err)
	assert.Equal(t, sendMailRequest{
		From:    "Weight Tracker <noreply@example.com>",
		To:      []string{"ada@example.com"},
		Subject: "Verify",
		HTML:    "<a>link</a>",
	}, got)
}

func TestHTTPMailer_Send_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	m := NewMailer(config.Mail{APIURL: srv.URL, APIKey: "k"}, logger.Nop())

	err := m.Send(context.Background(), models.Mail{To: "ada@example.com"})
	assert.ErrorIs(t, err, ErrMailNotSent)
}

func TestHTTPMailer_Send_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	m := NewMailer(config.Mail{APIURL: url, APIKey: "k"}, logger.Nop())

	err := m.Send(context.Background(), models.Mail{To: "ada@example.com"})
	assert.ErrorIs(t, err, ErrMailNotSent)
}
