// Root command for the slateplan CLI.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/slateplan/slateplan/internal/calendar"
	"github.com/slateplan/slateplan/internal/config"
	"github.com/slateplan/slateplan/internal/githubstore"
)

// Global flag values.
var (
	flagConfigDir string
	flagJSON      bool
	flagVerbose   bool
)

// cfg, logger and svc are initialized by PersistentPreRunE for every
// command that talks to the store.
var (
	cfg    *config.Config
	logger zerolog.Logger
	svc    *calendar.Service
)

var rootCmd = &cobra.Command{
	Use:   "slateplan",
	Short: "Slateplan is a content calendar backed by a file in a git repository",
	Long: `Slateplan manages a content calendar whose single source of truth is
a JSON file in a GitHub repository. Every change is a commit, so the
repository history doubles as the calendar's audit trail.`,
	SilenceUsage:      true,
	PersistentPreRunE: initService,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "directory containing slateplan.yaml (default: current directory)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
}

// initService loads configuration and wires the store client and
// service. Skipped for commands that never reach the store.
func initService(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	level := zerolog.InfoLevel
	if flagVerbose {
		level = zerolog.DebugLevel
	}
	logger = zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	var err error
	cfg, err = config.Load(flagConfigDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, err := githubstore.New(cfg.Store, githubstore.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("create store client: %w", err)
	}

	svc = calendar.NewService(store, calendar.WithLogger(logger))
	return nil
}
