package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] for the JSON file source.
// Durations accept both Go duration strings ("1h") and nanosecond numbers.
type StructuredJSONConfig struct {
	App struct {
		AccessTokenSignKey   string   `json:"access_token_sign_key"`
		RefreshTokenSignKey  string   `json:"refresh_token_sign_key"`
		VerifyTokenSignKey   string   `json:"verify_token_sign_key"`
		TokenIssuer          string   `json:"token_issuer"`
		AccessTokenDuration  Duration `json:"access_token_duration"`
		RefreshTokenDuration Duration `json:"refresh_token_duration"`
		VerifyTokenDuration  Duration `json:"verify_token_duration"`
		ResetTokenDuration   Duration `json:"reset_token_duration"`
		ClientURL            string   `json:"client_url"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
		Local struct {
			DSN string `json:"dsn"`
		} `json:"local,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
		RateLimit      struct {
			GlobalPerMinute int      `json:"global_per_minute"`
			Verification    int      `json:"verification"`
			PasswordReset   int      `json:"password_reset"`
			SensitiveWindow Duration `json:"sensitive_window"`
		} `json:"rate_limit,omitempty"`
	} `json:"server,omitempty"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"adapter,omitempty"`

	Weather struct {
		BaseURL  string   `json:"base_url"`
		CacheTTL Duration `json:"cache_ttl"`
	} `json:"weather,omitempty"`

	Mail struct {
		APIURL string `json:"api_url"`
		APIKey string `json:"api_key"`
		From   string `json:"from"`
	} `json:"mail,omitempty"`

	Workers struct {
		CleanupInterval Duration `json:"cleanup_interval"`
	} `json:"workers,omitempty"`

	Client struct {
		AutosaveDebounce Duration `json:"autosave_debounce"`
		SavedDisplay     Duration `json:"saved_display"`
		RefreshLead      Duration `json:"refresh_lead"`
		FlushConcurrency int      `json:"flush_concurrency"`
		FreeEdit         bool     `json:"free_edit"`
	} `json:"client,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var j StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&j); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			AccessTokenSignKey:   j.App.AccessTokenSignKey,
			RefreshTokenSignKey:  j.App.RefreshTokenSignKey,
			VerifyTokenSignKey:   j.App.VerifyTokenSignKey,
			TokenIssuer:          j.App.TokenIssuer,
			AccessTokenDuration:  time.Duration(j.App.AccessTokenDuration),
			RefreshTokenDuration: time.Duration(j.App.RefreshTokenDuration),
			VerifyTokenDuration:  time.Duration(j.App.VerifyTokenDuration),
			ResetTokenDuration:   time.Duration(j.App.ResetTokenDuration),
			ClientURL:            j.App.ClientURL,
		},
		Storage: Storage{
			DB:    DB{DSN: j.Storage.DB.DSN},
			Local: Local{DSN: j.Storage.Local.DSN},
		},
		Server: Server{
			HTTPAddress:    j.Server.HTTPAddress,
			RequestTimeout: time.Duration(j.Server.RequestTimeout),
			RateLimit: RateLimit{
				GlobalPerMinute: j.Server.RateLimit.GlobalPerMinute,
				Verification:    j.Server.RateLimit.Verification,
				PasswordReset:   j.Server.RateLimit.PasswordReset,
				SensitiveWindow: time.Duration(j.Server.RateLimit.SensitiveWindow),
			},
		},
		Adapter: Adapter{
			HTTPAddress:    j.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(j.Adapter.RequestTimeout),
		},
		Weather: Weather{
			BaseURL:  j.Weather.BaseURL,
			CacheTTL: time.Duration(j.Weather.CacheTTL),
		},
		Mail: Mail{
			APIURL: j.Mail.APIURL,
			APIKey: j.Mail.APIKey,
			From:   j.Mail.From,
		},
		Workers: Workers{CleanupInterval: time.Duration(j.Workers.CleanupInterval)},
		Client: Client{
			AutosaveDebounce: time.Duration(j.Client.AutosaveDebounce),
			SavedDisplay:     time.Duration(j.Client.SavedDisplay),
			RefreshLead:      time.Duration(j.Client.RefreshLead),
			FlushConcurrency: j.Client.FlushConcurrency,
			FreeEdit:         j.Client.FreeEdit,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case nil:
		return nil
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
