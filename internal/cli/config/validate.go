package config

import "fmt"

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.ISOIntervalMinutes < 1 || c.ISOIntervalMinutes > 1440 {
		return fmt.Errorf("iso_interval_minutes must be between 1 and 1440, got %d", c.ISOIntervalMinutes)
	}
	if c.BatchHour < 0 || c.BatchHour > 23 {
		return fmt.Errorf("batch_hour must be between 0 and 23, got %d", c.BatchHour)
	}
	return nil
}
