// Package output renders commit listings and cycle results, either for
// humans or as machine-readable JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/arbaev/commit-date-changer/internal/history"
)

type Formatter struct {
	w io.Writer
}

func New(w io.Writer) *Formatter {
	return &Formatter{w: w}
}

// Listing prints a numbered, aligned commit table, newest first.
func (f *Formatter) Listing(commits []history.Commit) {
	tw := tabwriter.NewWriter(f.w, 2, 4, 2, ' ', 0)
	for i, c := range commits {
		marker := ""
		if c.IsPushed {
			marker = "pushed"
		}
		fmt.Fprintf(tw, "%d)\t%s\t%s\t%s\t%s\t%s\n",
			i+1,
			c.ShortID,
			history.FormatDate(c.AuthorDate),
			marker,
			c.AuthorName,
			c.Subject(),
		)
	}
	tw.Flush()
}

// Result emits the structured result: JSON verbatim when asJSON is set,
// otherwise a one-line human summary.
func (f *Formatter) Result(res history.Result, asJSON bool) error {
	if asJSON {
		data, err := json.Marshal(res)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(f.w, string(data))
		return err
	}
	if res.Success {
		if res.Commit != nil && res.Commit.OldDate != res.Commit.NewDate {
			fmt.Fprintf(f.w, "commit %.7s: %s -> %s\n", res.Commit.Hash, res.Commit.OldDate, res.Commit.NewDate)
		} else {
			fmt.Fprintln(f.w, "nothing to change")
		}
		return nil
	}
	fmt.Fprintf(f.w, "error (%s): %s\n", res.ErrorCode, res.Error)
	return nil
}
