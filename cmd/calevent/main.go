package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"calevent/internal/config"
	appLog "calevent/internal/log"
)

const version = "0.1.0-dev"

// Persistent flags shared by every subcommand.
var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:           "calevent",
	Short:         "Render ICS calendar events as styled HTML, terminal and PNG views",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

const fallbackConfigPath = "/etc/calevent/config.yaml"

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "path to config file (env CALEVENT_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log_level from the config (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(agendaCmd)
	rootCmd.AddCommand(snapshotCmd)
}

// defaultConfigPath loads .env from the working directory, then reads
// CALEVENT_CONFIG. Variables already set in the environment win over .env.
func defaultConfigPath() string {
	// A missing .env is fine.
	_ = godotenv.Load()

	if p := os.Getenv("CALEVENT_CONFIG"); p != "" {
		return p
	}
	return fallbackConfigPath
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		appLog.Error("calevent failed", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies the effective log level.
func loadConfig() (*config.Config, error) {
	conf, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	level := conf.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	appLog.SetLevel(appLog.ParseLevel(level))

	appLog.Info("effective config",
		"config_path", configPath,
		"listen", conf.Listen,
		"timezone", conf.Timezone,
		"refresh", conf.RefreshCron,
		"horizon_days", conf.HorizonDays,
		"show_all_day", conf.ShowAllDay,
		"ics_count", len(conf.ICS),
		"view", conf.Display.View,
		"locale", conf.Display.Locale,
	)
	return conf, nil
}
