package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"dario.cat/mergo"
)

type configBuilder struct {
	configs []*StructuredConfig
	args    []string
	err     error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{
		configs: make([]*StructuredConfig, 0, 4),
		args:    os.Args[1:],
	}
}

// build merges the collected sources. mergo only fills fields that are still
// zero, so earlier sources take precedence over later ones.
func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building config: %w", b.err)
	}

	config := new(StructuredConfig)
	for _, cfg := range b.configs {
		if err := mergo.Merge(config, cfg); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	return config, nil
}

func (b *configBuilder) withEnv() *configBuilder {
	envCfg := &StructuredConfig{}
	if err := parseEnv(envCfg); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, envCfg)
	return b
}

func (b *configBuilder) withFlags() *configBuilder {
	flags, err := parseFlags(b.args)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, flags)
	return b
}

func (b *configBuilder) withJSON() *configBuilder {
	var jsonPath string
	for _, cfg := range b.configs {
		if cfg.JSONFilePath != "" {
			jsonPath = cfg.JSONFilePath
			break
		}
	}

	if jsonPath == "" {
		return b
	}

	jsonCfg, err := parseJSON(jsonPath)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}
	b.configs = append(b.configs, jsonCfg)

	return b
}

func (b *configBuilder) withDefaults() *configBuilder {
	b.configs = append(b.configs, defaultConfig())
	return b
}

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer:          "weight-tracker",
			AccessTokenDuration:  time.Hour,
			RefreshTokenDuration: 7 * 24 * time.Hour,
			VerifyTokenDuration:  24 * time.Hour,
			ResetTokenDuration:   10 * time.Minute,
			ClientURL:            "http://localhost:5173",
		},
		Storage: Storage{
			Local: Local{DSN: "weight-tracker.db"},
		},
		Server: Server{
			HTTPAddress:    "localhost:3000",
			RequestTimeout: 30 * time.Second,
			RateLimit: RateLimit{
				GlobalPerMinute: 100,
				Verification:    3,
				PasswordReset:   5,
				SensitiveWindow: 10 * time.Minute,
			},
		},
		Adapter: Adapter{
			HTTPAddress:    "http://localhost:3000",
			RequestTimeout: 15 * time.Second,
		},
		Weather: Weather{
			BaseURL:  "https://api.open-meteo.com/v1/forecast",
			CacheTTL: 6 * time.Hour,
		},
		Mail: Mail{
			APIURL: "https://api.resend.com/emails",
			From:   "Weight Tracker <no-reply@localhost>",
		},
		Workers: Workers{CleanupInterval: 30 * time.Minute},
		Client: Client{
			AutosaveDebounce: 800 * time.Millisecond,
			SavedDisplay:     1500 * time.Millisecond,
			RefreshLead:      30 * time.Second,
			FlushConcurrency: 4,
		},
	}
}
