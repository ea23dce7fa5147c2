// Package config handles configuration loading and management for archon.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for archon.
type Config struct {
	Defaults DefaultsConfig `mapstructure:"defaults"`
	Planner  PlannerConfig  `mapstructure:"planner"`
	History  HistoryConfig  `mapstructure:"history"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// DefaultsConfig holds execution defaults.
type DefaultsConfig struct {
	// MaxRetries is the shared retry budget per task tree.
	MaxRetries int `mapstructure:"max_retries"`
	// MaxPlanSteps bounds subtasks per decomposition.
	MaxPlanSteps int `mapstructure:"max_plan_steps"`
	// MaxTreeDepth bounds executor recursion.
	MaxTreeDepth int `mapstructure:"max_tree_depth"`
}

// PlannerConfig holds planner settings.
type PlannerConfig struct {
	// PlaybookPath points at a YAML file of extra decomposition rules.
	PlaybookPath string `mapstructure:"playbook_path"`
}

// HistoryConfig holds run-history settings.
type HistoryConfig struct {
	// Enabled toggles run persistence.
	Enabled bool `mapstructure:"enabled"`
	// Path overrides the database location; empty means the default
	// project or global path.
	Path string `mapstructure:"path"`
}

// LoggingConfig holds debug logging settings.
type LoggingConfig struct {
	// DebugLog is the path of the executor debug log; empty disables it.
	DebugLog string `mapstructure:"debug_log"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (ARCHON_HISTORY_PATH, ARCHON_DEBUG_LOG)
// 2. Project config (.archon.yaml in current directory or parent)
// 3. User config (~/.config/archon/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			// Merge project config (takes precedence)
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.BindEnv("history.path", "ARCHON_HISTORY_PATH")
	v.BindEnv("logging.debug_log", "ARCHON_DEBUG_LOG")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.History.Path = expandEnv(cfg.History.Path)
	cfg.Planner.PlaybookPath = expandEnv(cfg.Planner.PlaybookPath)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.History.Path = expandEnv(cfg.History.Path)
	cfg.Planner.PlaybookPath = expandEnv(cfg.Planner.PlaybookPath)

	return cfg, nil
}

// Save writes the current configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("defaults.max_retries", cfg.Defaults.MaxRetries)
	v.Set("defaults.max_plan_steps", cfg.Defaults.MaxPlanSteps)
	v.Set("defaults.max_tree_depth", cfg.Defaults.MaxTreeDepth)
	v.Set("planner.playbook_path", cfg.Planner.PlaybookPath)
	v.Set("history.enabled", cfg.History.Enabled)
	v.Set("history.path", cfg.History.Path)
	v.Set("logging.debug_log", cfg.Logging.DebugLog)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("defaults.max_retries", 3)
	v.SetDefault("defaults.max_plan_steps", 32)
	v.SetDefault("defaults.max_tree_depth", 16)

	v.SetDefault("planner.playbook_path", "")

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", "")

	v.SetDefault("logging.debug_log", "")
}

// getUserConfigDir returns the XDG config directory for archon.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "archon")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "archon")
	}
	return filepath.Join(home, ".config", "archon")
}

// findProjectConfig searches for .archon.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".archon.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// expandEnv expands ${VAR} references in a string.
func expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			MaxRetries:   3,
			MaxPlanSteps: 32,
			MaxTreeDepth: 16,
		},
		History: HistoryConfig{
			Enabled: true,
		},
	}
}
