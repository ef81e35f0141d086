package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ggowrisankar/weight-tracker/internal/logger"
	"github.com/ggowrisankar/weight-tracker/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────
// NewAppInfoService
// ─────────────────────────────────────────────

func TestNewAppInfoService_Success(t *testing.T) {
	svc, err := NewAppInfoService(models.NewAppBuildInfo("1.0.0", "2025-09-01", "abc123"), logger.Nop())

	require.NoError(t, err)
	require.NotNil(t, svc)
}

func TestNewAppInfoService_ZeroInfo_ReturnsError(t *testing.T) {
	svc, err := NewAppInfoService(models.AppBuildInfo{}, logger.Nop())

	assert.Nil(t, svc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrVersionIsNotSpecified))
}

// ─────────────────────────────────────────────
// GetAppVersion
// ─────────────────────────────────────────────

func TestGetAppVersion_ReturnsBuildInfo(t *testing.T) {
	svc, err := NewAppInfoService(models.NewAppBuildInfo("v1.2.3-beta+build.42", "2025-09-01", "abc123"), logger.Nop())
	require.NoError(t, err)

	assert.Equal(t, models.VersionResponse{
		Version: "v1.2.3-beta+build.42",
		Date:    "2025-09-01",
		Commit:  "abc123",
	}, svc.GetAppVersion(context.Background()))
}

func TestGetAppVersion_MissingValuesAreNA(t *testing.T) {
	svc, err := NewAppInfoService(models.NewAppBuildInfo("", "", ""), logger.Nop())
	require.NoError(t, err)

	got := svc.GetAppVersion(context.Background())
	assert.Equal(t, "N/A", got.Version)
	assert.Equal(t, "N/A", got.Commit)
}

func TestGetAppVersion_CancelledContext_StillReturnsVersion(t *testing.T) {
	svc, err := NewAppInfoService(models.NewAppBuildInfo("1.0.0", "", ""), logger.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, "1.0.0", svc.GetAppVersion(ctx).Version)
}
