// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv fills cfg from the process environment. Each section reads its
// own prefix (APP_, STORAGE_, SERVER_, ADAPTER_, WEATHER_, MAIL_, WORKERS_,
// CLIENT_), and CONFIG names the optional JSON file.
//
// Every malformed variable is reported, not only the first one.
func parseEnv(cfg *StructuredConfig) error {
	err := env.Parse(cfg)
	if err == nil {
		return nil
	}

	var agg env.AggregateError
	if errors.As(err, &agg) && len(agg.Errors) > 1 {
		return fmt.Errorf("error getting env configs (%d invalid variables): %w", len(agg.Errors), err)
	}
	return fmt.Errorf("error getting env configs: %w", err)
}
