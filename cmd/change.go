package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/arbaev/commit-date-changer/internal/history"
	"github.com/arbaev/commit-date-changer/internal/output"
)

var (
	changeCommit string
	changeDate   string
	changeForce  bool
	changeJSON   bool
)

var changeCmd = &cobra.Command{
	Use:   "change",
	Short: "Change one commit's date non-interactively",
	Long: `Executes exactly one rewrite cycle with the commit and date supplied up
front. The commit is looked up among the most recent commits regardless of
push status; rewriting one that is already pushed is refused unless --force
is given. With --json the structured result is printed verbatim; the exit
status is 0 only when the rewrite succeeded.`,
	Example: `  cdc change --commit 1a2b3c4 --date "2024-05-01 13:45"
  cdc change --commit 1a2b3c4 --date 2024-05-01T13:45:00Z --force --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// The commit is named explicitly, so resolve it against the full
		// recent listing; the pushed gate is --force, not scope.
		session, err := newSession(true, history.ScopeAll)
		if err != nil {
			return err
		}
		res := session.RunOnce(history.Request{
			Identifier:    changeCommit,
			Date:          changeDate,
			ConfirmPushed: changeForce,
		})
		if err := output.New(os.Stdout).Result(res, changeJSON); err != nil {
			return err
		}
		if !res.Success {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	changeCmd.Flags().StringVarP(&changeCommit, "commit", "c", "", "commit hash or hash prefix")
	changeCmd.Flags().StringVarP(&changeDate, "date", "d", "", "new date, e.g. \"2024-05-01 13:45\"")
	changeCmd.Flags().BoolVarP(&changeForce, "force", "f", false, "confirm rewriting a pushed commit")
	changeCmd.Flags().BoolVar(&changeJSON, "json", false, "emit the structured result as JSON")
	_ = changeCmd.MarkFlagRequired("commit")
	_ = changeCmd.MarkFlagRequired("date")
}
