package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/aurelia-labs/moodvault/pkg/core"
)

// SavePanicEvent appends a panic event to the shared log directory. The
// filename embeds the UTC timestamp, so lexicographic order on disk matches
// chronological order.
func (s *Store) SavePanicEvent(ctx context.Context, event core.PanicEvent) error {
	if err := os.MkdirAll(s.panicLogDir(), 0o755); err != nil {
		return fmt.Errorf("failed to create panic log dir: %w", err)
	}
	return s.writeJSONAtomic(s.panicEventPath(event.Timestamp, event.ID), event)
}

// ListPanicEvents returns all panic events across tenants, ordered by
// timestamp descending, with the same skip-on-corruption rule as check-in
// listings.
func (s *Store) ListPanicEvents(ctx context.Context) ([]core.PanicEvent, error) {
	dir := s.panicLogDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []core.PanicEvent{}, nil
		}
		return nil, err
	}

	items := make([]core.PanicEvent, 0, len(entries))
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
			s.logger.Warn("could not read panic event file", "path", path, "error", err)
			continue
		}
		if len(raw) == 0 {
			continue
		}
		var event core.PanicEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			s.logger.Warn("could not decode panic event", "path", path, "error", err)
			continue
		}
		items = append(items, event)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})
	return items, nil
}
