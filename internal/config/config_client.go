package config

import (
	"fmt"
	"time"
)

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the base URL of the weight-tracker server.
	HTTPAddress string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
}

// ClientStorage holds the local cache location.
type ClientStorage struct {
	// DSN is the SQLite file path.
	DSN string
}

// ClientAutosave holds the autosave timings.
type ClientAutosave struct {
	// Debounce is the quiet period after the last edit before a save.
	Debounce time.Duration
	// SavedDisplay is how long the "saved" status is shown before idle.
	SavedDisplay time.Duration
}

// ClientSession holds session timings.
type ClientSession struct {
	// RefreshLead is how long before expiry the access token is refreshed.
	RefreshLead time.Duration
	// FlushConcurrency bounds parallel uploads during logout.
	FlushConcurrency int
}

// ClientUI holds terminal UI preferences.
type ClientUI struct {
	// FreeEdit allows editing past and future days, not just today.
	FreeEdit bool
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	Adapter  ClientAdapter
	Storage  ClientStorage
	Autosave ClientAutosave
	Session  ClientSession
	UI       ClientUI
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := loadStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := newClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

func newClientConfig(cfg *StructuredConfig) *ClientConfig {
	return &ClientConfig{
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Storage: ClientStorage{DSN: cfg.Storage.Local.DSN},
		Autosave: ClientAutosave{
			Debounce:     cfg.Client.AutosaveDebounce,
			SavedDisplay: cfg.Client.SavedDisplay,
		},
		Session: ClientSession{
			RefreshLead:      cfg.Client.RefreshLead,
			FlushConcurrency: cfg.Client.FlushConcurrency,
		},
		UI: ClientUI{FreeEdit: cfg.Client.FreeEdit},
	}
}
