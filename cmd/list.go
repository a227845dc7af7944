package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arbaev/commit-date-changer/internal/history"
	"github.com/arbaev/commit-date-changer/internal/output"
)

var listCmd = &cobra.Command{
	Use:   "list [commit]",
	Short: "List the commits a rewrite cycle would consider",
	Long: `Prints the scoped commit listing, newest first, with push status. By
default only commits not reachable from the upstream tracking branch are
shown; --all lists the most recent commits regardless of push status. With a
commit argument (hash or unique prefix), prints just that commit.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := openBackend()
		if err != nil {
			return err
		}
		accessor := history.NewAccessor(backend, logger)
		if len(args) == 1 {
			commit, found, err := accessor.FindByIdentifier(args[0], scope(), cfg.Limit)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("commit %q not found in the last %d commits", args[0], cfg.Limit)
			}
			output.New(os.Stdout).Listing([]history.Commit{commit})
			return nil
		}
		commits, err := accessor.ListCommits(scope(), cfg.Limit)
		if err != nil {
			return err
		}
		output.New(os.Stdout).Listing(commits)
		return nil
	},
}
