package git

import (
	"os"
	"path/filepath"
	"testing"
)

func requireGit(t *testing.T) {
	t.Helper()
	if !IsInstalled() {
		t.Skip("git is not installed")
	}
}

func TestLock(t *testing.T) {
	c := NewClient(t.TempDir(), nil)

	unlock, err := c.Lock()
	if err != nil {
		t.Fatalf("Lock failed: %v", err)
	}

	lockPath := filepath.Join(c.WorkDir, LockFileName)
	if _, err := os.Stat(lockPath); err != nil {
		t.Errorf("Lock file not created: %v", err)
	}

	unlock()
	if _, err := os.Stat(lockPath); !os.IsNotExist(err) {
		t.Errorf("Lock file not removed: %v", err)
	}
}

func TestInitAndIsRepo(t *testing.T) {
	requireGit(t)
	c := NewClient(t.TempDir(), nil)

	if c.IsRepo() {
		t.Error("Fresh directory should not be a repo")
	}
	if err := c.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if !c.IsRepo() {
		t.Error("Directory should be a repo after init")
	}
}

func TestHeadOnEmptyRepo(t *testing.T) {
	requireGit(t)
	c := NewClient(t.TempDir(), nil)
	if err := c.Init(); err != nil {
		t.Fatal(err)
	}

	if _, _, _, ok := c.Head(); ok {
		t.Error("Head should report ok=false before the first commit")
	}
}

func TestCommitAs(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	c := NewClient(dir, nil)
	if err := c.Init(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := c.Add("a.txt"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := c.CommitAs("tester", "tester@local", "feat: first"); err != nil {
		t.Fatalf("CommitAs failed: %v", err)
	}

	hash, subject, _, ok := c.Head()
	if !ok {
		t.Fatal("Head should report a commit")
	}
	if hash == "" || subject != "feat: first" {
		t.Errorf("Unexpected head: %s %q", hash, subject)
	}

	author, err := c.Run("log", "-1", "--format=%an <%ae>")
	if err != nil {
		t.Fatal(err)
	}
	if author != "tester <tester@local>" {
		t.Errorf("Unexpected author: %q", author)
	}
}

func TestStagedFiles(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	c := NewClient(dir, nil)
	if err := c.Init(); err != nil {
		t.Fatal(err)
	}

	staged, err := c.StagedFiles()
	if err != nil {
		t.Fatal(err)
	}
	if len(staged) != 0 {
		t.Errorf("Expected empty stage, got %v", staged)
	}

	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := c.Add("a.txt"); err != nil {
		t.Fatal(err)
	}
	staged, err = c.StagedFiles()
	if err != nil {
		t.Fatal(err)
	}
	if len(staged) != 1 || staged[0] != "a.txt" {
		t.Errorf("Expected [a.txt], got %v", staged)
	}
}
