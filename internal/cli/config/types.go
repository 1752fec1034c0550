// Package config provides configuration management for the GridHub CLI.
package config

import "github.com/gridhub-labs/gridhub/internal/ingest"

// Config holds all CLI configuration options.
type Config struct {
	DBPath             string `koanf:"db_path"`
	Port               int    `koanf:"port"`
	EIABaseURL         string `koanf:"eia_base_url"`
	EIAAPIKey          string `koanf:"eia_api_key"`
	ERCOTBaseURL       string `koanf:"ercot_base_url"`
	ISOIntervalMinutes int    `koanf:"iso_interval_minutes"`
	BatchHour          int    `koanf:"batch_hour"`
	SchedulerEnabled   bool   `koanf:"scheduler_enabled"`
	Verbose            bool   `koanf:"verbose"`
}

// Default configuration values.
const (
	DefaultDBPath     = "gridhub.db"
	DefaultPort       = 7860
	DefaultEIABaseURL = "https://api.eia.gov/v2"
	DefaultISOMinutes = 5
	DefaultBatchHour  = 2
)

// Defaults returns a Config populated with default values.
func Defaults() Config {
	return Config{
		DBPath:             DefaultDBPath,
		Port:               DefaultPort,
		EIABaseURL:         DefaultEIABaseURL,
		ERCOTBaseURL:       ingest.DefaultERCOTBaseURL,
		ISOIntervalMinutes: DefaultISOMinutes,
		BatchHour:          DefaultBatchHour,
		SchedulerEnabled:   true,
	}
}
