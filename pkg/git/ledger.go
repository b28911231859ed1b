package git

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aurelia-labs/moodvault/pkg/core"
)

// dataPaths is the subtree holding tenant and global documents. Only this
// subtree is ever staged; unrelated runtime artifacts in the working tree
// are never committed.
var dataPaths = []string{"config.json", "users", "logs"}

const defaultIgnoreList = LockFileName + "\nmoodvault-tmp-*\n.DS_Store\n"

// CommitInfo describes the tip commit of the ledger.
type CommitInfo struct {
	Hash      string    `json:"hash"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Status is the ledger's report on the repository.
type Status struct {
	Branch         string      `json:"branch"`
	Head           *CommitInfo `json:"head,omitempty"`
	PendingChanges bool        `json:"pending_changes"`
}

// Ledger snapshots the document tree as commits. Repository mutations
// (init, stage, commit) go through a single process-wide mutex; concurrent
// unsynchronized commits would risk a corrupted index or a lost commit. The
// client's file lock additionally guards against other processes.
//
// A ledger failure never invalidates the document write that triggered it:
// callers treat these errors as loggable, not fatal.
type Ledger struct {
	client      *Client
	logger      *slog.Logger
	authorName  string
	authorEmail string

	mu sync.Mutex
}

// NewLedger creates a ledger over the store root. Commits are authored with
// the given identity; empty values fall back to the application identity.
func NewLedger(root string, logger *slog.Logger, authorName, authorEmail string) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	if authorName == "" {
		authorName = "moodvault"
	}
	if authorEmail == "" {
		authorEmail = "moodvault@local"
	}
	return &Ledger{
		client:      NewClient(root, logger),
		logger:      logger,
		authorName:  authorName,
		authorEmail: authorEmail,
	}
}

// InitRepositoryIfNeeded initializes a repository at the store root if one
// does not exist: git init, a default ignore-list, and an initial commit of
// the current tree. A pre-existing repository is left untouched.
func (l *Ledger) InitRepositoryIfNeeded() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !IsInstalled() {
		return fmt.Errorf("%w: git is not installed", core.ErrVersionControl)
	}
	if l.client.IsRepo() {
		return nil
	}

	unlock, err := l.client.Lock()
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrVersionControl, err)
	}
	defer unlock()

	// Another process may have initialized while we waited for the lock.
	if l.client.IsRepo() {
		return nil
	}

	if err := l.client.Init(); err != nil {
		return fmt.Errorf("%w: init: %v", core.ErrVersionControl, err)
	}
	if err := l.ensureGitignore(); err != nil {
		return fmt.Errorf("%w: gitignore: %v", core.ErrVersionControl, err)
	}
	if err := l.client.Add("."); err != nil {
		return fmt.Errorf("%w: stage initial tree: %v", core.ErrVersionControl, err)
	}
	if err := l.client.CommitAs(l.authorName, l.authorEmail, "chore: initial snapshot", "--allow-empty"); err != nil {
		return fmt.Errorf("%w: initial commit: %v", core.ErrVersionControl, err)
	}
	return nil
}

// CommitPendingChanges stages the document subtree and, if anything
// changed, creates a commit with the given message. When nothing changed it
// is a no-op that returns success: callers invoke it unconditionally after
// every mutation.
func (l *Ledger) CommitPendingChanges(message string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	unlock, err := l.client.Lock()
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrVersionControl, err)
	}
	defer unlock()

	paths := l.existingDataPaths()
	if len(paths) == 0 {
		return nil
	}

	if err := l.client.Add(paths...); err != nil {
		return fmt.Errorf("%w: stage: %v", core.ErrVersionControl, err)
	}

	staged, err := l.client.StagedFiles()
	if err != nil {
		return fmt.Errorf("%w: inspect stage: %v", core.ErrVersionControl, err)
	}
	if len(staged) == 0 {
		l.logger.Debug("nothing to commit", "message", message)
		return nil
	}

	if err := l.client.CommitAs(l.authorName, l.authorEmail, message); err != nil {
		return fmt.Errorf("%w: commit: %v", core.ErrVersionControl, err)
	}
	return nil
}

// Status reports the current branch, the tip commit if one exists, and
// whether the tracked subtree has uncommitted changes. It takes no lock; a
// status racing a commit is eventually consistent, which is acceptable.
func (l *Ledger) Status() (Status, error) {
	if !l.client.IsRepo() {
		return Status{}, fmt.Errorf("%w: not a repository: %s", core.ErrVersionControl, l.client.WorkDir)
	}

	status := Status{Branch: "detached"}
	if branch, err := l.client.Branch(); err == nil {
		status.Branch = branch
	}

	if hash, subject, when, ok := l.client.Head(); ok {
		status.Head = &CommitInfo{
			Hash:      hash,
			Message:   subject,
			Timestamp: when,
		}
	}

	out, err := l.client.Status(l.existingDataPaths()...)
	if err != nil {
		return Status{}, fmt.Errorf("%w: status: %v", core.ErrVersionControl, err)
	}
	status.PendingChanges = out != ""

	return status, nil
}

// existingDataPaths filters the tracked subtree down to paths that exist,
// since git refuses pathspecs that match nothing.
func (l *Ledger) existingDataPaths() []string {
	var paths []string
	for _, p := range dataPaths {
		if _, err := os.Stat(filepath.Join(l.client.WorkDir, p)); err == nil {
			paths = append(paths, p)
		}
	}
	return paths
}

func (l *Ledger) ensureGitignore() error {
	path := filepath.Join(l.client.WorkDir, ".gitignore")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return os.WriteFile(path, []byte(defaultIgnoreList), 0o644)
}
