// Command shiftplan is the CLI front end for the schedule optimizer and NL
// patch engine: generate / patch / approve / reject / show. It exercises
// the hard core directly, without the HTTP transport the spec excludes.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/shiftplan/shiftplan/internal/config"
	"github.com/shiftplan/shiftplan/pkg/logger"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.FgMagenta, color.Bold)
)

var (
	dataFile    string
	usePostgres bool
)

var rootCmd = &cobra.Command{
	Use:   "shiftplan",
	Short: "Monthly shift schedule optimizer and NL patch engine",
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		errorColor.Fprintf(os.Stderr, "loading configuration: %v\n", err)
		os.Exit(1)
	}
	logger.Init(logger.Config{Level: cfg.App.LogLevel, Format: "console", Output: "stderr"})

	rootCmd.PersistentFlags().StringVar(&dataFile, "data", "", "path to a JSON roster file (employees, categories, requirements, requests) for the in-memory store")
	rootCmd.PersistentFlags().BoolVar(&usePostgres, "postgres", false, "use the postgres-backed store (configured via DB_* env vars) instead of --data")

	rootCmd.AddCommand(generateCmd, patchCmd, approveCmd, rejectCmd, showCmd)

	if err := rootCmd.Execute(); err != nil {
		errorColor.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func fail(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
