package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/MKhiriev/go-canvas-vault/models"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and
// string-friendly durations ("5m", "1h30m") for the optional config file.
type StructuredJSONConfig struct {
	App struct {
		TokenSignKey  string          `json:"token_sign_key"`
		TokenIssuer   string          `json:"token_issuer"`
		TokenDuration models.Duration `json:"token_duration"`
		HashKey       string          `json:"hash_key"`
		Version       string          `json:"version"`
	} `json:"app,omitempty"`

	Vault struct {
		StorePath     string          `json:"store_path"`
		AutoLockAfter models.Duration `json:"auto_lock_after"`
	} `json:"vault,omitempty"`

	Storage struct {
		DB struct {
			Driver string `json:"driver"`
			DSN    string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string          `json:"http_address"`
		GRPCAddress    string          `json:"grpc_address"`
		RequestTimeout models.Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Events struct {
		WebhookURL     string          `json:"webhook_url"`
		QueueSize      int             `json:"queue_size"`
		RetryCount     int             `json:"retry_count"`
		RequestTimeout models.Duration `json:"request_timeout"`
	} `json:"events,omitempty"`

	Workers struct {
		JanitorInterval models.Duration `json:"janitor_interval"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			TokenSignKey:  jsonCfg.App.TokenSignKey,
			TokenIssuer:   jsonCfg.App.TokenIssuer,
			TokenDuration: time.Duration(jsonCfg.App.TokenDuration),
			HashKey:       jsonCfg.App.HashKey,
			Version:       jsonCfg.App.Version,
		},
		Vault: Vault{
			StorePath:     jsonCfg.Vault.StorePath,
			AutoLockAfter: time.Duration(jsonCfg.Vault.AutoLockAfter),
		},
		Storage: Storage{
			DB: DB{
				Driver: jsonCfg.Storage.DB.Driver,
				DSN:    jsonCfg.Storage.DB.DSN,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			GRPCAddress:    jsonCfg.Server.GRPCAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Events: Events{
			WebhookURL:     jsonCfg.Events.WebhookURL,
			QueueSize:      jsonCfg.Events.QueueSize,
			RetryCount:     jsonCfg.Events.RetryCount,
			RequestTimeout: time.Duration(jsonCfg.Events.RequestTimeout),
		},
		Workers: Workers{
			JanitorInterval: time.Duration(jsonCfg.Workers.JanitorInterval),
		},
	}

	return cfg, nil
}
