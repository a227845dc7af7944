// Package prompt renders the interactive session on a terminal. It consumes
// validated data from the session and emits user choices; it never touches
// the repository.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/arbaev/commit-date-changer/internal/history"
	"github.com/arbaev/commit-date-changer/internal/output"
)

// IsInteractive reports whether stdin is attached to a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Terminal implements history.Interactor over a line-based terminal.
type Terminal struct {
	in        *bufio.Reader
	out       io.Writer
	formatter *output.Formatter
}

func New(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		in:        bufio.NewReader(in),
		out:       out,
		formatter: output.New(out),
	}
}

func (t *Terminal) readLine(prompt string) (string, error) {
	fmt.Fprint(t.out, prompt)
	line, err := t.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (t *Terminal) SelectCommit(commits []history.Commit) (int, bool, error) {
	fmt.Fprintln(t.out)
	t.formatter.Listing(commits)
	answer, err := t.readLine(fmt.Sprintf("select a commit (1-%d, q to quit): ", len(commits)))
	if err != nil {
		return 0, false, err
	}
	if answer == "" || answer == "q" || answer == "quit" {
		return 0, true, nil
	}
	n, err := strconv.Atoi(answer)
	if err != nil {
		return -1, false, nil
	}
	return n - 1, false, nil
}

func (t *Terminal) ReadDate(target history.Commit, window history.DateWindow) (string, error) {
	fmt.Fprintf(t.out, "commit %s  %s  %q\n",
		target.ShortID, history.FormatDate(target.AuthorDate), target.Subject())
	lower := "beginning of history"
	if window.Lower != nil {
		lower = history.FormatDate(*window.Lower)
	}
	fmt.Fprintf(t.out, "admissible range: %s .. %s\n", lower, history.FormatDate(window.Upper))
	return t.readLine("new date (YYYY-MM-DD HH:MM, empty to cancel): ")
}

func (t *Terminal) ConfirmRewrite(target history.Commit, newDate time.Time) (bool, error) {
	answer, err := t.readLine(fmt.Sprintf("change date of %s to %s? [y/N]: ",
		target.ShortID, history.FormatDate(newDate)))
	if err != nil {
		return false, err
	}
	return strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes"), nil
}

func (t *Terminal) ConfirmPushedRewrite(target history.Commit) (bool, error) {
	fmt.Fprintf(t.out, "WARNING: commit %s is already pushed (%s).\n",
		target.ShortID, strings.Join(target.RemoteRefs, ", "))
	fmt.Fprintln(t.out, "Rewriting it diverges from shared history; collaborators will need to reset.")
	answer, err := t.readLine(`type "yes" to rewrite anyway: `)
	if err != nil {
		return false, err
	}
	return answer == "yes", nil
}

func (t *Terminal) Notify(message string) {
	fmt.Fprintln(t.out, message)
}
