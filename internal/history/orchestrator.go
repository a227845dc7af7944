package history

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/arbaev/commit-date-changer/internal/git"
)

// RewriteRequest is a validated rewrite: constructed only after the candidate
// date passed Validate against the neighbor window.
type RewriteRequest struct {
	Target  Commit
	NewDate time.Time
	Window  DateWindow
}

// State tracks a single rewrite through its lifecycle. Rejected is terminal
// and non-mutating; Failed is terminal and possibly partially-mutating;
// Committed implies every downstream identifier in the session is stale.
type State uint8

const (
	StateRequested State = iota
	StateValidating
	StateRejected
	StateRewriting
	StateCommitted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateRequested:
		return "requested"
	case StateValidating:
		return "validating"
	case StateRejected:
		return "rejected"
	case StateRewriting:
		return "rewriting"
	case StateCommitted:
		return "committed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Orchestrator performs the history mutation and its safety bookkeeping.
// The operation is not transactional: an interruption mid-rewrite can leave
// the repository partially rewritten, a risk accepted in exchange for relying
// on git's own rewrite mechanism instead of a custom transaction log.
type Orchestrator struct {
	backend git.Backend
	logger  *logrus.Logger
}

func NewOrchestrator(backend git.Backend, logger *logrus.Logger) *Orchestrator {
	return &Orchestrator{backend: backend, logger: logger}
}

// Rewrite sets both timestamps of exactly the target commit, then clears any
// backup refs the rewrite mechanism left behind. Backup cleanup is best
// effort; its failure never fails a rewrite that already committed.
func (o *Orchestrator) Rewrite(req RewriteRequest) error {
	log := o.logger.WithFields(logrus.Fields{
		"commit":   req.Target.ShortID,
		"new_date": FormatDate(req.NewDate),
	})
	log.WithField("state", StateRewriting.String()).Debug("rewriting commit date")

	if err := o.backend.RewriteCommitDate(req.Target.FullID, req.NewDate); err != nil {
		log.WithField("state", StateFailed.String()).WithError(err).Debug("rewrite failed")
		return fmt.Errorf("rewrite commit %s: %w", req.Target.ShortID, err)
	}
	if err := o.backend.DeleteBackupRefs(); err != nil {
		log.WithError(err).Debug("backup ref cleanup failed")
	}
	log.WithField("state", StateCommitted.String()).Debug("rewrite committed")
	return nil
}
