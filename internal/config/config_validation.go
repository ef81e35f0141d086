// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "strings"

// validate checks that the final merged [StructuredConfig] can start the
// server: a database, three distinct signing keys and sane limits.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	app := cfg.App
	if app.AccessTokenSignKey == "" || app.RefreshTokenSignKey == "" || app.VerifyTokenSignKey == "" {
		return ErrInvalidAppConfigs
	}
	if app.AccessTokenSignKey == app.RefreshTokenSignKey {
		return ErrInvalidAppConfigs
	}
	if app.AccessTokenDuration <= 0 || app.RefreshTokenDuration <= 0 || app.ResetTokenDuration <= 0 {
		return ErrInvalidAppConfigs
	}

	rl := cfg.Server.RateLimit
	if cfg.Server.HTTPAddress == "" || rl.GlobalPerMinute <= 0 || rl.Verification <= 0 ||
		rl.PasswordReset <= 0 || rl.SensitiveWindow <= 0 {
		return ErrInvalidServerConfigs
	}

	if cfg.Workers.CleanupInterval <= 0 || cfg.Weather.CacheTTL <= 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DSN == "" || strings.Contains(cfg.Storage.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout == 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Autosave.Debounce <= 0 || cfg.Autosave.SavedDisplay <= 0 {
		return ErrInvalidClientConfigs
	}

	if cfg.Session.RefreshLead <= 0 || cfg.Session.FlushConcurrency <= 0 {
		return ErrInvalidClientConfigs
	}

	return nil
}
