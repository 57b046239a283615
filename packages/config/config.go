package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Config represents the sophttp configuration
type Config struct {
	Timeout         int    `json:"timeout,omitempty"` // milliseconds
	Auth            string `json:"auth,omitempty"`    // "user:password"
	Proxy           string `json:"proxy,omitempty"`
	FollowRedirects *bool  `json:"followRedirects,omitempty"`
	MaxRedirects    int    `json:"maxRedirects,omitempty"`
	ValidateSSL     *bool  `json:"validateSSL,omitempty"`
	HistoryPath     string `json:"historyPath,omitempty"`
	NoHistory       *bool  `json:"noHistory,omitempty"`
	Output          string `json:"output,omitempty"` // console or json
	Verbose         *bool  `json:"verbose,omitempty"`
	NoColor         *bool  `json:"noColor,omitempty"`
	Pretty          *bool  `json:"pretty,omitempty"`
}

// BoolPtr returns a pointer to a bool value
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetTimeout returns the request timeout as a duration
func (c *Config) GetTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Millisecond
}

// GetFollowRedirects returns the follow redirects setting, defaulting to false
func (c *Config) GetFollowRedirects() bool {
	return getBool(c.FollowRedirects, false)
}

// GetValidateSSL returns the validate SSL setting, defaulting to true
func (c *Config) GetValidateSSL() bool {
	return getBool(c.ValidateSSL, true)
}

// GetNoHistory returns the no history setting, defaulting to false
func (c *Config) GetNoHistory() bool {
	return getBool(c.NoHistory, false)
}

// GetVerbose returns the verbose setting, defaulting to false
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// GetPretty returns the pretty setting, defaulting to false
func (c *Config) GetPretty() bool {
	return getBool(c.Pretty, false)
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".sophttp.config.json",
	"sophttp.config.json",
	".sophttprc",
	".sophttprc.json",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}

	// Search for config file in current directory
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	// Return defaults if no config file found
	return DefaultConfig(), nil
}

// loadConfigFromFile loads configuration from a specific file
func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.Timeout > 0 {
		result.Timeout = other.Timeout
	}
	if other.Auth != "" {
		result.Auth = other.Auth
	}
	if other.Proxy != "" {
		result.Proxy = other.Proxy
	}
	if other.MaxRedirects > 0 {
		result.MaxRedirects = other.MaxRedirects
	}
	if other.HistoryPath != "" {
		result.HistoryPath = other.HistoryPath
	}
	if other.Output != "" {
		result.Output = other.Output
	}

	// Boolean flags - only override if explicitly set in other config
	if other.FollowRedirects != nil {
		result.FollowRedirects = other.FollowRedirects
	}
	if other.ValidateSSL != nil {
		result.ValidateSSL = other.ValidateSSL
	}
	if other.NoHistory != nil {
		result.NoHistory = other.NoHistory
	}
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}
	if other.Pretty != nil {
		result.Pretty = other.Pretty
	}

	return &result
}

// SaveConfig saves the configuration to a file
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
