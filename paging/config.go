package paging

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

const (
	// MinFrames and MaxFrames bound the frame count accepted from users
	MinFrames = 3
	MaxFrames = 10
)

// Config holds simulation configuration
type Config struct {
	// Simulation Configuration
	Policy string `json:"policy"` // Replacement policy (fifo, lru, optimal, clock)
	Frames int    `json:"frames"` // Number of physical frames

	// Export Configuration
	Compression     string `json:"compression"`      // Trace compression (none, lz4, snappy)
	ExportDirectory string `json:"export_directory"` // Directory for exported traces

	// Performance Configuration
	CacheSize int    `json:"cache_size"` // Number of traces kept by the memo cache
	LogLevel  string `json:"log_level"`  // Log level (debug, info, warn, error)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Policy:          string(FIFO),
		Frames:          MinFrames,
		Compression:     "snappy",
		ExportDirectory: ".",
		CacheSize:       DefaultMemoSize,
		LogLevel:        "info",
	}
}

// LoadConfigFromFile loads configuration from a JSON file
func LoadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	err = json.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadConfigFromEnv loads configuration from environment variables
// Falls back to default values if environment variables are not set
func LoadConfigFromEnv() *Config {
	config := DefaultConfig()
	config.ApplyEnv()
	return config
}

// ApplyEnv overrides fields with any PAGETRACE_* environment variables that are set
func (c *Config) ApplyEnv() {
	// Simulation
	if val := os.Getenv("PAGETRACE_POLICY"); val != "" {
		c.Policy = val
	}

	if val := os.Getenv("PAGETRACE_FRAMES"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			c.Frames = n
		}
	}

	// Export
	if val := os.Getenv("PAGETRACE_COMPRESSION"); val != "" {
		c.Compression = val
	}

	if val := os.Getenv("PAGETRACE_EXPORT_DIRECTORY"); val != "" {
		c.ExportDirectory = val
	}

	// Performance
	if val := os.Getenv("PAGETRACE_CACHE_SIZE"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			c.CacheSize = n
		}
	}

	if val := os.Getenv("PAGETRACE_LOG_LEVEL"); val != "" {
		c.LogLevel = val
	}
}

// SaveToFile saves the configuration to a JSON file
func (c *Config) SaveToFile(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.WriteFile(path, data, 0644)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := ParsePolicy(c.Policy); err != nil {
		return invalidConfig(err.Error())
	}

	if c.Frames < MinFrames || c.Frames > MaxFrames {
		return invalidConfig(fmt.Sprintf("frames must be between %d and %d, got %d", MinFrames, MaxFrames, c.Frames))
	}

	if _, err := ParseCompression(c.Compression); err != nil {
		return invalidConfig(err.Error())
	}

	if c.CacheSize < 0 {
		return invalidConfig("cache size cannot be negative")
	}

	if _, err := c.SlogLevel(); err != nil {
		return invalidConfig(err.Error())
	}

	return nil
}

// SlogLevel maps LogLevel to a slog.Level
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

func invalidConfig(msg string) *PagingError {
	return NewPagingError(ErrCodeInvalidConfig, "Config.Validate", msg, nil)
}
