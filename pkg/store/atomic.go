package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	// TempFilePrefix is the prefix used for temporary atomic write files.
	// Listings ignore files carrying it.
	TempFilePrefix = "moodvault-tmp-"
)

// writeFileAtomic writes data to a file atomically: the bytes go to a
// freshly named temp file in the same directory, then a single rename moves
// it onto the target. A reader only ever observes the previous complete
// content or the new complete content, never a partial write.
//
// If the rename itself fails, the temp file is left behind and the error is
// surfaced: hiding a disk-full or permission condition behind a silent
// cleanup would be worse than the stray file.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")
	tmpName := filepath.Join(dir, TempFilePrefix+suffix)

	tmpFile, err := os.OpenFile(tmpName, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, filename); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", filename, err)
	}

	return nil
}
