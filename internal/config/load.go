package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load initializes the configuration from file and environment variables.
func Load(cfgFile string) {
	// explicit .env loading; a missing .env is fine
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Search config in the working directory with name ".membench".
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".membench")
	}

	viper.SetEnvPrefix("MEMBENCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// Harness defaults: 5 trials from 200,000 bytes up to 1 GB.
	viper.SetDefault("base_bytes", 100000)
	viper.SetDefault("max_bytes", 1000000000)
	viper.SetDefault("trials", 5)
	viper.SetDefault("growth", 10)
	viper.SetDefault("multi_pass", false)
	viper.SetDefault("workers", 0)
	viper.SetDefault("metrics_port", 0)
	viper.SetDefault("verbose", false)

	// History store defaults
	viper.SetDefault("store.type", "sqlite")
	viper.SetDefault("store.path", ".membench.db")
	viper.SetDefault("compare.threshold", 10.0)

	// Notification defaults
	viper.SetDefault("notifications.slack.enabled", os.Getenv("SLACK_BOT_USER_TOKEN") != "")
	viper.SetDefault("notifications.slack.channel", "#benchmarks")
	viper.SetDefault("notifications.discord.enabled", false)

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// Validate checks configuration values after viper has loaded them.
func Validate() error {
	var problems []string

	if v := viper.GetInt64("base_bytes"); v <= 0 {
		problems = append(problems, fmt.Sprintf("base_bytes must be positive, got: %d", v))
	}
	if v := viper.GetInt64("max_bytes"); v <= 0 {
		problems = append(problems, fmt.Sprintf("max_bytes must be positive, got: %d", v))
	} else if v < viper.GetInt64("base_bytes") {
		problems = append(problems, "max_bytes must not be smaller than base_bytes")
	}
	if v := viper.GetInt("trials"); v <= 0 {
		problems = append(problems, fmt.Sprintf("trials must be positive, got: %d", v))
	}
	if v := viper.GetInt64("growth"); v < 2 {
		problems = append(problems, fmt.Sprintf("growth must be at least 2, got: %d", v))
	}
	if v := viper.GetInt("metrics_port"); v < 0 || v > 65535 {
		problems = append(problems, fmt.Sprintf("metrics_port must be a valid port, got: %d", v))
	}

	switch t := strings.ToLower(viper.GetString("store.type")); t {
	case "sqlite", "sqlite3", "postgres", "postgresql", "file", "":
	default:
		problems = append(problems, fmt.Sprintf("unsupported store.type: %s", t))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}
