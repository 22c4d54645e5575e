package mixer

import (
	"time"
)

// Config consolidates settings for the synchronization engine and its
// object-model sources
type Config struct {
	Model    ModelConfig    `json:"model"`
	Database DatabaseConfig `json:"database"`
	Logging  LoggingConfig  `json:"logging"`
	Sync     SyncConfig     `json:"sync"`
}

// ModelConfig selects where the host object-model definition is loaded from.
// Path takes precedence; Table and RootType configure the database source.
type ModelConfig struct {
	Path     string `json:"path"`
	Table    string `json:"table"`
	RootType string `json:"rootType"`
}

// DatabaseConfig contains database connection settings for the
// database-backed object-model source
type DatabaseConfig struct {
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	Database        string        `json:"database"`
	Username        string        `json:"username"`
	Password        string        `json:"password"`
	SSLMode         string        `json:"sslMode"`
	MaxConnections  int           `json:"maxConnections"`
	ConnMaxLifetime time.Duration `json:"connMaxLifetime"`
	Timeout         time.Duration `json:"timeout"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// SyncConfig contains synchronization glue settings
type SyncConfig struct {
	// ReservedRemovalName marks datablocks staged for removal; the
	// differencer ignores them entirely.
	ReservedRemovalName string `json:"reservedRemovalName"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Model: ModelConfig{
			RootType: "RootData",
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxConnections:  10,
			ConnMaxLifetime: 5 * time.Minute,
			Timeout:         30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Sync: SyncConfig{
			ReservedRemovalName: "_mixer_to_be_removed_",
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Model.Path == "" && c.Model.Table == "" {
		return &ConfigError{Field: "model", Message: "either path or table must be set"}
	}
	if c.Model.Table != "" && c.Model.RootType == "" {
		return &ConfigError{Field: "model.rootType", Message: "must be set when loading from a table"}
	}
	if c.Database.MaxConnections <= 0 {
		return &ConfigError{Field: "database.maxConnections", Message: "must be greater than 0"}
	}
	if c.Sync.ReservedRemovalName == "" {
		return &ConfigError{Field: "sync.reservedRemovalName", Message: "must not be empty"}
	}
	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ConfigError) Error() string {
	return "config validation error for field '" + e.Field + "': " + e.Message
}
