package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/archonlabs/archon/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify Archon configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/archon/config.yaml
Project-specific overrides can be placed in .archon.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
		case 1:
			displayConfigKey(cfg, args[0])
		default:
			setConfigKey(cfg, args[0], args[1])
		}
	},
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	fmt.Printf("defaults.max_retries: %d\n", cfg.Defaults.MaxRetries)
	fmt.Printf("defaults.max_plan_steps: %d\n", cfg.Defaults.MaxPlanSteps)
	fmt.Printf("defaults.max_tree_depth: %d\n", cfg.Defaults.MaxTreeDepth)
	fmt.Printf("planner.playbook_path: %s\n", orUnset(cfg.Planner.PlaybookPath))
	fmt.Printf("history.enabled: %t\n", cfg.History.Enabled)
	fmt.Printf("history.path: %s\n", orUnset(cfg.History.Path))
	fmt.Printf("logging.debug_log: %s\n", orUnset(cfg.Logging.DebugLog))
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

// setConfigKey sets a configuration value and saves the config.
func setConfigKey(cfg *config.Config, key, value string) {
	if err := setConfigValue(cfg, key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Set %s = %s\n", key, value)
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "defaults.max_retries":
		return strconv.Itoa(cfg.Defaults.MaxRetries), nil
	case "defaults.max_plan_steps":
		return strconv.Itoa(cfg.Defaults.MaxPlanSteps), nil
	case "defaults.max_tree_depth":
		return strconv.Itoa(cfg.Defaults.MaxTreeDepth), nil
	case "planner.playbook_path":
		return orUnset(cfg.Planner.PlaybookPath), nil
	case "history.enabled":
		return strconv.FormatBool(cfg.History.Enabled), nil
	case "history.path":
		return orUnset(cfg.History.Path), nil
	case "logging.debug_log":
		return orUnset(cfg.Logging.DebugLog), nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "defaults.max_retries":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid value for max_retries: %s", value)
		}
		cfg.Defaults.MaxRetries = n
	case "defaults.max_plan_steps":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid value for max_plan_steps: %s", value)
		}
		cfg.Defaults.MaxPlanSteps = n
	case "defaults.max_tree_depth":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid value for max_tree_depth: %s", value)
		}
		cfg.Defaults.MaxTreeDepth = n
	case "planner.playbook_path":
		cfg.Planner.PlaybookPath = value
	case "history.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for history.enabled: %w", err)
		}
		cfg.History.Enabled = b
	case "history.path":
		cfg.History.Path = value
	case "logging.debug_log":
		cfg.Logging.DebugLog = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}
