// Package cmd wires the CLI: an interactive multi-cycle session on the root
// command and a single-shot non-interactive cycle under "change".
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/arbaev/commit-date-changer/internal/buildinfo"
	"github.com/arbaev/commit-date-changer/internal/config"
	"github.com/arbaev/commit-date-changer/internal/git"
	"github.com/arbaev/commit-date-changer/internal/history"
	"github.com/arbaev/commit-date-changer/internal/prompt"
)

var (
	cfgFile     string
	verbose     bool
	allCommits  bool
	limit       int
	backendName string

	logger *logrus.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "cdc",
	Short: "Change the date of a git commit without breaking chronology",
	Long: `cdc rewrites the author and committer timestamp of a chosen commit while
keeping the history chronologically consistent: the new date must stay
between the neighboring commits' dates and must not be in the future.
Commits already pushed to a remote require an explicit extra confirmation.`,
	Version:       buildinfo.Version(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logrus.New()
		logger.SetOutput(os.Stderr)

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			if cmd.Flags().Changed("config") {
				return err
			}
			logger.WithError(err).Warn("failed to load config, using defaults")
			cfg = config.Default()
		}
		if cmd.Flags().Changed("limit") {
			cfg.Limit = limit
		}
		if cmd.Flags().Changed("all") {
			cfg.All = allCommits
		}
		if cmd.Flags().Changed("backend") {
			cfg.Backend = backendName
		}
		if verbose {
			cfg.Verbose = true
		}
		if cfg.Verbose {
			logger.SetLevel(logrus.DebugLevel)
		} else {
			logger.SetLevel(logrus.WarnLevel)
		}
		return cfg.Validate()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if !prompt.IsInteractive() {
			return errors.New(`stdin is not a terminal; use "cdc change --commit <id> --date <date>"`)
		}
		session, err := newSession(true, scope())
		if err != nil {
			return err
		}
		return session.Run(prompt.New(os.Stdin, os.Stdout))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .cdc.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&allCommits, "all", "a", false, "consider all recent commits, not only unpushed ones")
	rootCmd.PersistentFlags().IntVarP(&limit, "limit", "n", config.Default().Limit, "number of commits to consider")
	rootCmd.PersistentFlags().StringVar(&backendName, "backend", config.Default().Backend, "repository backend: gitcli or native")

	rootCmd.AddCommand(changeCmd)
	rootCmd.AddCommand(listCmd)
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func scope() history.Scope {
	if cfg.All {
		return history.ScopeAll
	}
	return history.ScopeUnpushed
}

func openBackend() (git.Backend, error) {
	backend, err := git.Open(".", git.BackendKind(cfg.Backend))
	if err != nil {
		return nil, fmt.Errorf("not inside a git repository: %w", err)
	}
	return backend, nil
}

// newSession opens the repository and enforces the session preconditions:
// a git worktree and, when requireClean is set, no uncommitted changes.
func newSession(requireClean bool, sc history.Scope) (*history.Session, error) {
	backend, err := openBackend()
	if err != nil {
		return nil, err
	}
	if requireClean {
		changes, err := backend.LocalChanges()
		if err != nil {
			return nil, err
		}
		if changes.Dirty() {
			return nil, errors.New("uncommitted changes in the worktree; commit or stash them first")
		}
	}
	accessor := history.NewAccessor(backend, logger)
	orchestrator := history.NewOrchestrator(backend, logger)
	return history.NewSession(accessor, orchestrator, logger, sc, cfg.Limit), nil
}
