package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	logLevel string
	logger   *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "glowdock",
	Short: "Protein docking refinement with glowworm swarm optimization",
	Long: `Glowdock refines protein-protein and protein-DNA docking poses with the
glowworm swarm optimization metaheuristic, scoring candidate poses against
pluggable biophysical energy functions.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A .env next to the working directory may provide GLOWDOCK_DATA.
		godotenv.Load()

		var level slog.Level
		switch logLevel {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			level = slog.LevelInfo
		}

		opts := &slog.HandlerOptions{Level: level}
		handler := slog.NewJSONHandler(os.Stdout, opts)
		logger = slog.New(handler)
		slog.SetDefault(logger)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

// dataDir resolves the directory holding precomputed potential tables.
func dataDir() string {
	if dir := os.Getenv("GLOWDOCK_DATA"); dir != "" {
		return dir
	}
	return "data"
}
