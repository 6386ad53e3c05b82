package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kexlie/bobble/internal/logging"
)

// bindViper wires a command's flags into a viper instance with the standard
// config file search order and BOBBLE_* env var prefix.
//
// Precedence (lowest → highest): defaults → config file → BOBBLE_* env vars → flags
func bindViper(cmd *cobra.Command, v *viper.Viper) error {
	configFlag, _ := cmd.Flags().GetString("config")
	if configFlag != "" {
		v.SetConfigFile(configFlag)
	} else {
		v.SetConfigName("bobble")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc/bobble/")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(fmt.Sprintf("%s/.config/bobble", home))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("config: %w", err)
		}
	}

	v.SetEnvPrefix("BOBBLE")
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	return nil
}

// addLoggingFlags adds the standard logging flags to a command.
func addLoggingFlags(cmd *cobra.Command) {
	cmd.Flags().String("log-format", "auto", "log format: auto|text|json")
	cmd.Flags().String("log-level", "info", "log level: debug|info|warn|error")
}

// addConfigFlag adds the --config flag to a command.
func addConfigFlag(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "path to config file (overrides auto-discovery)")
}

// setupLogging reads logging flags from viper and configures slog.
func setupLogging(v *viper.Viper) {
	logging.Setup(logging.Options{
		Format: v.GetString("log-format"),
		Level:  v.GetString("log-level"),
	})
}

// dataDir returns the daemon's data directory (history database).
func dataDir(v *viper.Viper) string {
	if d := v.GetString("data-dir"); d != "" {
		return d
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bobble"
	}
	return fmt.Sprintf("%s/.local/share/bobble", home)
}

// defaultSource returns a human-readable identifier for this process in
// daemon logs (which client submitted a capture).
func defaultSource() string {
	if h, err := os.Hostname(); err == nil {
		return h
	}
	return "unknown"
}
