package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aurelia-labs/moodvault/pkg/core"
)

// SaveCheckin writes one check-in record, creating the tenant's checkins
// directory on demand. Check-ins are immutable once written: a second save
// under the same id is rejected with ErrConflict.
func (s *Store) SaveCheckin(ctx context.Context, tenantID string, checkin core.Checkin) error {
	if err := os.MkdirAll(s.tenantCheckinsDir(tenantID), 0o755); err != nil {
		return fmt.Errorf("failed to create checkins dir: %w", err)
	}
	path := s.checkinPath(tenantID, checkin.ID)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: checkin %s", core.ErrConflict, checkin.ID)
	}
	return s.writeJSONAtomic(path, checkin)
}

// LoadCheckin reads a single check-in by id.
func (s *Store) LoadCheckin(ctx context.Context, tenantID, checkinID string) (core.Checkin, error) {
	path := s.checkinPath(tenantID, checkinID)
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return core.Checkin{}, fmt.Errorf("%w: checkin %s", core.ErrNotFound, checkinID)
		}
		return core.Checkin{}, err
	}
	var checkin core.Checkin
	if err := json.Unmarshal(raw, &checkin); err != nil {
		return core.Checkin{}, fmt.Errorf("%w: checkin %s: %v", core.ErrCorrupt, path, err)
	}
	return checkin, nil
}

// ListCheckins returns all of a tenant's check-ins ordered by timestamp
// descending. Records that cannot be decoded are logged and skipped; one
// corrupt file never hides the rest of the history. A tenant without any
// records yields an empty slice, not an error.
func (s *Store) ListCheckins(ctx context.Context, tenantID string) ([]core.Checkin, error) {
	dir := s.tenantCheckinsDir(tenantID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []core.Checkin{}, nil
		}
		return nil, err
	}

	items := make([]core.Checkin, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if !isDocumentFile(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("could not read checkin file", "path", path, "error", err)
			continue
		}
		if len(raw) == 0 {
			continue
		}
		var checkin core.Checkin
		if err := json.Unmarshal(raw, &checkin); err != nil {
			s.logger.Warn("could not decode checkin", "path", path, "error", err)
			continue
		}
		items = append(items, checkin)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})
	return items, nil
}

// LatestCheckin returns the most recent check-in, or nil when the tenant
// has none.
func (s *Store) LatestCheckin(ctx context.Context, tenantID string) (*core.Checkin, error) {
	items, err := s.ListCheckins(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

// isDocumentFile reports whether a directory entry looks like a store
// document (and not a temp file left by an interrupted atomic write).
func isDocumentFile(name string) bool {
	if strings.HasPrefix(name, TempFilePrefix) {
		return false
	}
	return strings.HasSuffix(strings.ToLower(name), ".json")
}
