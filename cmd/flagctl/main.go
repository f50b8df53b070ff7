// Package main provides the flagctl CLI entry point.
//
// Overview:
//   - Responsibility: Inspect and mutate resolved configuration from the shell
//   - Key Types: Cobra command structure
//   - Concurrency Model: Single-threaded CLI execution
//   - Error Semantics: Exit codes and user-friendly error messages
//   - Performance Notes: Fast startup, minimal memory footprint
//
// Usage:
//
//	flagctl [command] [flags]
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"go.eggybyte.com/flagx"
	"go.eggybyte.com/flagx/core/value"
	"go.eggybyte.com/flagx/logx"
)

var (
	verbose      bool
	defaultsPath string
	remoteURL    string
	dbDSN        string
	dbDriver     string
)

var rootCmd = &cobra.Command{
	Use:   "flagctl",
	Short: "Inspect and override resolved configuration",
	Long: `flagctl resolves configuration the same way an application embedding
flagx does: remote values from a configuration endpoint, layered under
locally persisted overrides and a static defaults file.

Overrides written here are stored in the configured database and picked
up by any process sharing it.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&defaultsPath, "defaults", "", "path to a YAML/JSON defaults file")
	rootCmd.PersistentFlags().StringVar(&remoteURL, "remote-url", "", "remote configuration endpoint")
	rootCmd.PersistentFlags().StringVar(&dbDSN, "db", "flagctl.db", "override store DSN")
	rootCmd.PersistentFlags().StringVar(&dbDriver, "driver", "sqlite", "override store driver (sqlite, mysql, postgres)")
}

// newEngine builds and initializes an engine from the global flags.
func newEngine(cmd *cobra.Command) (flagx.Engine, func(), error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := logx.New(logx.WithLevel(level), logx.WithColor(true))

	var defaults map[string]value.Value
	if defaultsPath != "" {
		var err error
		defaults, err = flagx.LoadDefaultsFile(defaultsPath)
		if err != nil {
			return nil, nil, err
		}
	}

	var remote flagx.RemoteProvider
	if remoteURL != "" {
		remote = flagx.NewHTTPRemoteProvider(remoteURL, flagx.HTTPRemoteOptions{
			EnableCircuit: true,
			Logger:        logger,
		})
	}

	store, err := flagx.NewGormStore(flagx.GormStoreOptions{
		DSN:    dbDSN,
		Driver: dbDriver,
	})
	if err != nil {
		return nil, nil, err
	}

	eng, err := flagx.New(flagx.Options{
		Logger:   logger,
		Remote:   remote,
		Store:    store,
		Defaults: defaults,
	})
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	if err := eng.Initialize(cmd.Context()); err != nil {
		store.Close()
		return nil, nil, err
	}

	return eng, func() { store.Close() }, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
