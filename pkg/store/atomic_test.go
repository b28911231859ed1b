package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Run("Creates New File", func(t *testing.T) {
		tmpDir := t.TempDir()
		filename := filepath.Join(tmpDir, "test.json")
		content := []byte(`{"hello":"atomic"}`)

		if err := writeFileAtomic(filename, content, 0o644); err != nil {
			t.Fatalf("writeFileAtomic failed: %v", err)
		}

		got, err := os.ReadFile(filename)
		if err != nil {
			t.Fatalf("Failed to read file: %v", err)
		}
		if string(got) != string(content) {
			t.Errorf("Expected content %q, got %q", content, got)
		}
	})

	t.Run("Overwrites Existing File", func(t *testing.T) {
		tmpDir := t.TempDir()
		filename := filepath.Join(tmpDir, "test.json")

		if err := os.WriteFile(filename, []byte("initial"), 0o644); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}

		newContent := []byte("overwritten")
		if err := writeFileAtomic(filename, newContent, 0o644); err != nil {
			t.Fatalf("writeFileAtomic failed: %v", err)
		}

		got, err := os.ReadFile(filename)
		if err != nil {
			t.Fatalf("Failed to read file: %v", err)
		}
		if string(got) != string(newContent) {
			t.Errorf("Expected content 'overwritten', got %q", got)
		}
	})

	t.Run("Leaves No Temp File Behind On Success", func(t *testing.T) {
		tmpDir := t.TempDir()
		filename := filepath.Join(tmpDir, "test.json")

		if err := writeFileAtomic(filename, []byte("data"), 0o644); err != nil {
			t.Fatalf("writeFileAtomic failed: %v", err)
		}

		entries, err := os.ReadDir(tmpDir)
		if err != nil {
			t.Fatal(err)
		}
		for _, entry := range entries {
			if strings.HasPrefix(entry.Name(), TempFilePrefix) {
				t.Errorf("Temp file left behind: %s", entry.Name())
			}
		}
	})

	t.Run("Fails if Directory Missing", func(t *testing.T) {
		tmpDir := t.TempDir()
		filename := filepath.Join(tmpDir, "missing_folder", "test.json")

		err := writeFileAtomic(filename, []byte("fail"), 0o644)
		if err == nil {
			t.Error("Expected error when directory is missing, got nil")
		}
	})

	t.Run("Crash Before Rename Leaves Target Untouched", func(t *testing.T) {
		// Simulate a crash between temp-write and rename: a stray temp
		// file next to a valid document. The document must stay intact
		// and listings must ignore the leftover.
		tmpDir := t.TempDir()
		filename := filepath.Join(tmpDir, "test.json")
		original := []byte(`{"v":1}`)

		if err := writeFileAtomic(filename, original, 0o644); err != nil {
			t.Fatalf("writeFileAtomic failed: %v", err)
		}
		stray := filepath.Join(tmpDir, TempFilePrefix+"deadbeef")
		if err := os.WriteFile(stray, []byte(`{"v":2`), 0o644); err != nil {
			t.Fatal(err)
		}

		got, err := os.ReadFile(filename)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != string(original) {
			t.Errorf("Target changed: got %q", got)
		}
		if isDocumentFile(filepath.Base(stray)) {
			t.Error("Temp file should not count as a document")
		}
	})
}
