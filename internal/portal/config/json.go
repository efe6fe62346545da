package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/edumundo/portal/internal/flagx"
	"github.com/edumundo/portal/internal/timex"
)

// JSONConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so the timeout can be given either as a string like "15s"
// or as integer nanoseconds. Zero-valued fields leave the existing Config
// value untouched, so a partial file only overrides what it names.
type JSONConfig struct {
	ServerBaseURL  string         `json:"server_base_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	Storage        string         `json:"storage"`
	StorePath      string         `json:"store_path"`
	RedisAddr      string         `json:"redis_addr"`
	LogLevel       string         `json:"log_level"`
}

// parseJSON overlays cfg with values loaded from the JSON file named by the
// -c/-config flags. When no file is named, it is a no-op. Read or unmarshal
// errors panic; config is resolved before any session state exists, so
// failing loudly at startup is the right call.
func parseJSON(cfg *Config) {
	jsonConfigFile := flagx.JSONConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JSONConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	applyJSON(cfg, &jc)
}

func applyJSON(cfg *Config, jc *JSONConfig) {
	if jc.ServerBaseURL != "" {
		cfg.ServerBaseURL = jc.ServerBaseURL
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.Storage != "" {
		cfg.Storage = jc.Storage
	}
	if jc.StorePath != "" {
		cfg.StorePath = jc.StorePath
	}
	if jc.RedisAddr != "" {
		cfg.RedisAddr = jc.RedisAddr
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
}
