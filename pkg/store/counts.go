package store

import (
	"context"
	"os"
)

// Cardinality queries derived by listing. No separate index is maintained;
// at the expected scale (one person's history) a directory scan is cheap
// enough. Known scaling limit, not a bug.

// CountTenantCheckins counts a tenant's check-in documents.
func (s *Store) CountTenantCheckins(ctx context.Context, tenantID string) (int, error) {
	entries, err := os.ReadDir(s.tenantCheckinsDir(tenantID))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	count := 0
	for _, entry := range entries {
		if entry.Type().IsRegular() && isDocumentFile(entry.Name()) {
			count++
		}
	}
	return count, nil
}

// CountTenantPanicEvents counts the panic events belonging to one tenant.
// The log is shared across tenants, so this scans the full log.
func (s *Store) CountTenantPanicEvents(ctx context.Context, tenantID string) (int, error) {
	events, err := s.ListPanicEvents(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, event := range events {
		if event.TenantID == tenantID {
			count++
		}
	}
	return count, nil
}

// CountAllCheckins counts check-in documents across all tenants.
func (s *Store) CountAllCheckins(ctx context.Context) (int, error) {
	tenants, err := s.TenantIDs(ctx)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, tenantID := range tenants {
		n, err := s.CountTenantCheckins(ctx, tenantID)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// TenantIDs returns the ids of all scaffolded tenants.
func (s *Store) TenantIDs(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.usersRoot())
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			ids = append(ids, entry.Name())
		}
	}
	return ids, nil
}
