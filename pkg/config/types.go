package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Server       ServerConfig    `mapstructure:"server"`
	Database     DatabaseConfig  `mapstructure:"database"`
	Jobs         JobsConfig      `mapstructure:"jobs"`
	Export       ExportConfig    `mapstructure:"export"`
	Ingest       IngestConfig    `mapstructure:"ingest"`
	RateLimiting RateLimitConfig `mapstructure:"rate_limiting"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path        string        `mapstructure:"path"`
	BusyTimeout time.Duration `mapstructure:"busy_timeout"`
	LogQueries  bool          `mapstructure:"log_queries"`
}

// JobsConfig contains work-distribution settings
type JobsConfig struct {
	// BatchSize is the maximum number of transcriptions handed to a
	// worker in one job (NUMBER_OF_TRANSCRIPTIONS_PER_JOB).
	BatchSize int `mapstructure:"batch_size"`
	// ClaimRetries bounds the conditional-update retry loop used to
	// resolve allocation races.
	ClaimRetries int `mapstructure:"claim_retries"`
}

// ExportConfig contains completed-relfile export settings
type ExportConfig struct {
	OutputDir     string        `mapstructure:"output_dir"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
}

// IngestConfig contains relfile ingestion settings
type IngestConfig struct {
	DataDir         string `mapstructure:"data_dir"`
	DefaultLanguage string `mapstructure:"default_language"`
	// FFProbePath enables duration probing of imported audio when set
	// ("ffprobe" resolves via PATH). Empty disables probing.
	FFProbePath string `mapstructure:"ffprobe_path"`
}

// RateLimitConfig contains per-client API rate limiting settings
type RateLimitConfig struct {
	Enabled bool `mapstructure:"enabled"`
	RPS     int  `mapstructure:"rps"`
	Burst   int  `mapstructure:"burst"`
}
