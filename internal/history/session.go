package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Interactor supplies user decisions to an interactive session. The session
// hands it validated data; it owns all prompt rendering.
type Interactor interface {
	// SelectCommit picks a commit from the listing; done=true ends the session.
	SelectCommit(commits []Commit) (index int, done bool, err error)
	// ReadDate obtains a candidate date string for the target; an empty
	// string abandons the current cycle.
	ReadDate(target Commit, window DateWindow) (string, error)
	// ConfirmRewrite gates the mutation itself.
	ConfirmRewrite(target Commit, newDate time.Time) (bool, error)
	// ConfirmPushedRewrite is the stronger gate required when the target is
	// reachable from a remote-tracking branch.
	ConfirmPushedRewrite(target Commit) (bool, error)
	// Notify reports cycle-level outcomes.
	Notify(message string)
}

// Request is a single non-interactive cycle: commit identifier and date
// supplied up front, confirmations pre-supplied.
type Request struct {
	Identifier    string
	Date          string
	ConfirmPushed bool
}

// Session drives repeated cycles of select, validate, rewrite, refresh.
// It is single-threaded and assumes exclusive access to the repository;
// two sessions against the same repository can corrupt history.
type Session struct {
	accessor     *Accessor
	orchestrator *Orchestrator
	logger       *logrus.Logger
	scope        Scope
	limit        int
	now          func() time.Time
}

func NewSession(accessor *Accessor, orchestrator *Orchestrator, logger *logrus.Logger, scope Scope, limit int) *Session {
	return &Session{
		accessor:     accessor,
		orchestrator: orchestrator,
		logger:       logger,
		scope:        scope,
		limit:        limit,
		now:          time.Now,
	}
}

// neighbors returns the timestamps adjacent to index in a newest-first
// listing: prev is the chronologically preceding (older) commit, next the
// following (newer) one. The visible listing defines "neighbor", not the
// commit graph.
func neighbors(commits []Commit, index int) (prev, next *time.Time) {
	if index+1 < len(commits) {
		t := commits[index+1].AuthorDate
		prev = &t
	}
	if index > 0 {
		t := commits[index-1].AuthorDate
		next = &t
	}
	return prev, next
}

// RunOnce executes exactly one cycle and reports a structured result. It
// never mutates the repository on any failure path.
func (s *Session) RunOnce(req Request) Result {
	if !ValidDateSyntax(req.Date) {
		return failure(CodeInvalidDateFormat, "invalid date format %q, expected e.g. 2024-05-01 13:45", req.Date)
	}
	candidate, ok := ParseDate(req.Date)
	if !ok {
		return failure(CodeDateParsingError, "cannot parse date %q", req.Date)
	}

	commits, err := s.accessor.ListCommits(s.scope, s.limit)
	if err != nil {
		return failure(CodeExecutionError, "list commits: %v", err)
	}
	index := matchIndex(commits, req.Identifier)
	if index < 0 {
		return failure(CodeCommitNotFound, "commit %q not found in the last %d commits", req.Identifier, s.limit)
	}
	target := commits[index]

	if SameMinute(candidate, target.AuthorDate) {
		// Same date at minute granularity: nothing to rewrite.
		return Result{Success: true, Commit: resultCommit(target, target.AuthorDate)}
	}

	prev, next := neighbors(commits, index)
	if outcome := Validate(candidate, prev, next, s.now()); !outcome.Valid {
		return failure(CodeDateOutOfRange, "%s", outcome.Reason)
	}

	if target.IsPushed && !req.ConfirmPushed {
		return failure(CodePushedRequiresConfirm,
			"commit %s is pushed (%s); rewriting shared history requires explicit confirmation",
			target.ShortID, strings.Join(target.RemoteRefs, ", "))
	}

	window := ComputeWindow(prev, next, s.now())
	if err := s.orchestrator.Rewrite(RewriteRequest{Target: target, NewDate: candidate, Window: window}); err != nil {
		return failure(CodeExecutionError, "%v", err)
	}
	return Result{Success: true, Commit: resultCommit(target, candidate)}
}

func resultCommit(target Commit, newDate time.Time) *ResultCommit {
	return &ResultCommit{
		Hash:     target.FullID,
		Message:  target.Subject(),
		OldDate:  FormatISO(target.AuthorDate),
		NewDate:  FormatISO(newDate),
		IsPushed: target.IsPushed,
	}
}

// Run drives interactive cycles until the user quits or an execution error
// occurs. Declining a confirmation abandons only the current cycle. After
// every successful rewrite the listing is re-fetched unconditionally: the
// mutated commit and everything after it now have new hashes.
func (s *Session) Run(ui Interactor) error {
	for {
		commits, err := s.accessor.ListCommits(s.scope, s.limit)
		if err != nil {
			return err
		}
		if len(commits) == 0 {
			ui.Notify("no commits to change in the current scope")
			return nil
		}

		index, done, err := ui.SelectCommit(commits)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if index < 0 || index >= len(commits) {
			ui.Notify("selection out of range")
			continue
		}
		target := commits[index]
		prev, next := neighbors(commits, index)
		window := ComputeWindow(prev, next, s.now())

		raw, err := ui.ReadDate(target, window)
		if err != nil {
			return err
		}
		if strings.TrimSpace(raw) == "" {
			continue
		}
		candidate, ok := ParseDate(raw)
		if !ok {
			ui.Notify(fmt.Sprintf("cannot parse date %q", raw))
			continue
		}
		if SameMinute(candidate, target.AuthorDate) {
			ui.Notify("date unchanged, nothing to do")
			continue
		}
		if outcome := Validate(candidate, prev, next, s.now()); !outcome.Valid {
			ui.Notify("invalid date: " + outcome.Reason)
			continue
		}

		confirmed, err := ui.ConfirmRewrite(target, candidate)
		if err != nil {
			return err
		}
		if !confirmed {
			continue
		}
		if target.IsPushed {
			confirmed, err := ui.ConfirmPushedRewrite(target)
			if err != nil {
				return err
			}
			if !confirmed {
				continue
			}
		}

		if err := s.orchestrator.Rewrite(RewriteRequest{Target: target, NewDate: candidate, Window: window}); err != nil {
			return err
		}
		ui.Notify(fmt.Sprintf("commit %s: %s -> %s",
			target.ShortID, FormatDate(target.AuthorDate), FormatDate(candidate)))
		if target.IsPushed {
			ui.Notify("rewritten history diverges from its remotes; use git push --force to propagate")
		}
		s.logger.WithField("commit", target.ShortID).Info("commit date changed")
	}
}
