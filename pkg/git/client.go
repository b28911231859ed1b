// Package git implements the version ledger: a git repository rooted at the
// store's directory tree that snapshots every accepted mutation as a commit.
package git

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// LockFileName is the file-based lock guarding repository mutations across
// processes.
const LockFileName = ".moodvault.lock"

// Client wraps git command execution with a global file-based lock for
// process safety.
type Client struct {
	WorkDir  string
	Logger   *slog.Logger
	lockPath string
}

// NewClient creates a new git client for the given working directory.
func NewClient(workDir string, logger *slog.Logger) *Client {
	return &Client{
		WorkDir:  workDir,
		Logger:   logger,
		lockPath: LockFileName,
	}
}

// IsInstalled checks if git is available in the system path.
func IsInstalled() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// IsRepo reports whether the working directory is already a git repository.
func (c *Client) IsRepo() bool {
	info, err := os.Stat(filepath.Join(c.WorkDir, ".git"))
	return err == nil && info.IsDir()
}

// Lock acquires a file-based lock. It blocks until the lock is acquired.
func (c *Client) Lock() (func(), error) {
	fullLockPath := filepath.Join(c.WorkDir, c.lockPath)

	for {
		// Try to create lock file atomically
		f, err := os.OpenFile(fullLockPath, os.O_CREATE|os.O_EXCL, 0666)
		if err == nil {
			f.Close()
			return func() {
				os.Remove(fullLockPath)
			}, nil
		}

		if os.IsExist(err) {
			// Lock exists, wait and retry
			time.Sleep(10 * time.Millisecond)
			continue
		}

		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
}

// Run executes a raw git command in the working directory.
// NOTE: It does NOT acquire the lock automatically. The caller must manage
// transaction safety via Client.Lock().
func (c *Client) Run(args ...string) (string, error) {
	if c.Logger != nil {
		c.Logger.Debug("executing git", "args", args, "dir", c.WorkDir)
	}

	cmd := exec.Command("git", args...)
	cmd.Dir = c.WorkDir

	out, err := cmd.CombinedOutput()
	output := string(out)

	if err != nil {
		return output, fmt.Errorf("git %s failed: %w\nOutput: %s", args[0], err, output)
	}

	return strings.TrimSpace(output), nil
}

// Init initializes a new git repository.
func (c *Client) Init() error {
	_, err := c.Run("init")
	return err
}

// Add adds paths to the stage.
func (c *Client) Add(paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	args := append([]string{"add", "--"}, paths...)
	_, err := c.Run(args...)
	return err
}

// CommitAs records staged changes with an explicit author identity, so a
// missing global git configuration cannot fail the commit.
func (c *Client) CommitAs(name, email, msg string, extraArgs ...string) error {
	args := []string{
		"-c", "user.name=" + name,
		"-c", "user.email=" + email,
		"commit", "-m", msg,
	}
	args = append(args, extraArgs...)
	_, err := c.Run(args...)
	return err
}

// Status returns the porcelain status of the given pathspecs (or the whole
// tree when none are given).
func (c *Client) Status(paths ...string) (string, error) {
	args := []string{"status", "--porcelain"}
	if len(paths) > 0 {
		args = append(args, "--")
		args = append(args, paths...)
	}
	return c.Run(args...)
}

// StagedFiles lists the files currently staged for commit.
func (c *Client) StagedFiles() ([]string, error) {
	out, err := c.Run("diff", "--cached", "--name-only")
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// Branch returns the current branch name, or an error in a detached or
// headless state. It works on an unborn branch (no commits yet).
func (c *Client) Branch() (string, error) {
	return c.Run("symbolic-ref", "--short", "HEAD")
}

// Head returns the tip commit's hash, subject and timestamp. It returns
// ok=false when the repository has no commits yet.
func (c *Client) Head() (hash, subject string, when time.Time, ok bool) {
	out, err := c.Run("log", "-1", "--format=%H%x09%ct%x09%s")
	if err != nil {
		return "", "", time.Time{}, false
	}
	parts := strings.SplitN(out, "\t", 3)
	if len(parts) != 3 {
		return "", "", time.Time{}, false
	}
	var unix int64
	if _, err := fmt.Sscanf(parts[1], "%d", &unix); err != nil {
		return "", "", time.Time{}, false
	}
	return parts[0], parts[2], time.Unix(unix, 0), true
}
