// Package cli implements the novelgen commands.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/talgya/novelgen/internal/config"
	"github.com/talgya/novelgen/internal/persistence"
)

var (
	dbPath     string
	tuningPath string
	verbose    bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "novelgen",
	Short: "Generate stories from a village of simulated agents",
	Long: "novelgen simulates hungry, sleepy, sociable agents wandering a forest of villages " +
		"and prints the story one of them lives through. Runs are archived to SQLite.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
		// A missing .env is normal.
		if err := godotenv.Load(); err == nil {
			slog.Debug("loaded .env")
		}
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Archive path (default: $NOVELGEN_DB or data/novelgen.db)")
	RootCmd.PersistentFlags().StringVarP(&tuningPath, "config", "c", "", "Tuning YAML (default: $NOVELGEN_TUNING, else built-in values)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	if env := os.Getenv("NOVELGEN_DB"); env != "" {
		return env
	}
	return "data/novelgen.db"
}

func loadTuning() (config.Tuning, error) {
	path := tuningPath
	if path == "" {
		path = os.Getenv("NOVELGEN_TUNING")
	}
	if path == "" {
		return config.Default(), nil
	}
	slog.Info("loading tuning", "path", path)
	return config.Load(path)
}

func openArchive() (*persistence.DB, error) {
	return persistence.Open(getDBPath())
}

func exitErr(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
