// Package store implements the filesystem-backed, multi-tenant document
// store: one JSON file per record, atomic temp-and-rename writes, and
// listings that tolerate corrupt files.
//
// Layout under the root:
//
//	config.json                                  global configuration
//	users/<tenant_id>/config.json                tenant configuration
//	users/<tenant_id>/checkins/<id>.json         one file per check-in
//	users/<tenant_id>/trips/                     reserved derived view
//	logs/panic_events/<UTCstamp>-<id>.json       shared panic event log
//
// Tenant ids are opaque and never derived from user-supplied text, so they
// are safe as path segments. Tenants write to disjoint subtrees; no
// cross-tenant locking is needed.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aurelia-labs/moodvault/pkg/core"
)

// Store is a synchronous facade over filesystem calls. It holds no open
// handles between calls and performs no internal locking beyond the
// per-path atomicity of rename.
type Store struct {
	root   string
	logger *slog.Logger

	mu            sync.RWMutex
	watcherActive bool
}

// New creates a store rooted at the given directory. The directory tree is
// created lazily by EnsureStructure.
func New(root string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{root: root, logger: logger}
}

// Root returns the store's root directory.
func (s *Store) Root() string {
	return s.root
}

// --- Path layout ---

func (s *Store) globalConfigPath() string {
	return filepath.Join(s.root, "config.json")
}

func (s *Store) usersRoot() string {
	return filepath.Join(s.root, "users")
}

func (s *Store) logsRoot() string {
	return filepath.Join(s.root, "logs")
}

func (s *Store) panicLogDir() string {
	return filepath.Join(s.logsRoot(), "panic_events")
}

func (s *Store) tenantDir(tenantID string) string {
	return filepath.Join(s.usersRoot(), tenantID)
}

func (s *Store) tenantCheckinsDir(tenantID string) string {
	return filepath.Join(s.tenantDir(tenantID), "checkins")
}

func (s *Store) tenantTripsDir(tenantID string) string {
	return filepath.Join(s.tenantDir(tenantID), "trips")
}

func (s *Store) tenantConfigPath(tenantID string) string {
	return filepath.Join(s.tenantDir(tenantID), "config.json")
}

func (s *Store) checkinPath(tenantID, checkinID string) string {
	return filepath.Join(s.tenantCheckinsDir(tenantID), checkinID+".json")
}

func (s *Store) panicEventPath(timestamp time.Time, id string) string {
	stamp := timestamp.UTC().Format("20060102T150405Z")
	return filepath.Join(s.panicLogDir(), fmt.Sprintf("%s-%s.json", stamp, id))
}

// --- Scaffolding ---

// EnsureStructure idempotently creates the root tree and, if absent, writes
// the default global configuration. Safe to call on every process start,
// including concurrently from multiple processes: "already exists" is
// success, and the config write is atomic.
func (s *Store) EnsureStructure(ctx context.Context) error {
	for _, dir := range []string{s.root, s.usersRoot(), s.panicLogDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if _, err := os.Stat(s.globalConfigPath()); os.IsNotExist(err) {
		return s.SaveGlobalConfig(ctx, core.DefaultGlobalConfig())
	} else if err != nil {
		return err
	}
	return nil
}

// EnsureTenantScaffold idempotently creates a tenant's subdirectories and,
// if no configuration exists yet, writes a default seeded from displayName.
// An existing configuration is never overwritten; it is returned as-is.
func (s *Store) EnsureTenantScaffold(ctx context.Context, tenantID, displayName string) (core.TenantConfig, error) {
	dirs := []string{
		s.tenantDir(tenantID),
		s.tenantCheckinsDir(tenantID),
		s.tenantTripsDir(tenantID),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return core.TenantConfig{}, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	if _, err := os.Stat(s.tenantConfigPath(tenantID)); err == nil {
		return s.LoadTenantConfig(ctx, tenantID)
	} else if !os.IsNotExist(err) {
		return core.TenantConfig{}, err
	}

	cfg := core.ForNewTenant(displayName)
	if err := s.SaveTenantConfig(ctx, tenantID, cfg); err != nil {
		return core.TenantConfig{}, err
	}
	return cfg, nil
}

// --- Configuration documents ---

// LoadGlobalConfig reads the global configuration, creating it with
// defaults first if it does not exist yet.
func (s *Store) LoadGlobalConfig(ctx context.Context) (core.GlobalConfig, error) {
	path := s.globalConfigPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.SaveGlobalConfig(ctx, core.DefaultGlobalConfig()); err != nil {
			return core.GlobalConfig{}, err
		}
	} else if err != nil {
		return core.GlobalConfig{}, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return core.GlobalConfig{}, err
	}
	var cfg core.GlobalConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return core.GlobalConfig{}, fmt.Errorf("%w: global config %s: %v", core.ErrCorrupt, path, err)
	}
	return cfg, nil
}

// SaveGlobalConfig overwrites the global configuration document.
func (s *Store) SaveGlobalConfig(ctx context.Context, cfg core.GlobalConfig) error {
	return s.writeJSONAtomic(s.globalConfigPath(), cfg)
}

// LoadTenantConfig reads a tenant's configuration. It returns
// core.ErrNotFound when scaffolding never ran for the tenant; it does not
// synthesize a default.
func (s *Store) LoadTenantConfig(ctx context.Context, tenantID string) (core.TenantConfig, error) {
	path := s.tenantConfigPath(tenantID)
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return core.TenantConfig{}, fmt.Errorf("%w: tenant config for %s", core.ErrNotFound, tenantID)
		}
		return core.TenantConfig{}, err
	}
	var cfg core.TenantConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return core.TenantConfig{}, fmt.Errorf("%w: tenant config %s: %v", core.ErrCorrupt, path, err)
	}
	if strings.TrimSpace(cfg.Username) == "" {
		cfg.Username = tenantID
	}
	return cfg, nil
}

// SaveTenantConfig overwrites a tenant's configuration document.
func (s *Store) SaveTenantConfig(ctx context.Context, tenantID string, cfg core.TenantConfig) error {
	return s.writeJSONAtomic(s.tenantConfigPath(tenantID), cfg)
}

// writeJSONAtomic encodes a document fully in memory and writes it with the
// temp-and-rename algorithm, creating the parent directory on demand.
func (s *Store) writeJSONAtomic(path string, value any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create parent of %s: %w", path, err)
	}
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", core.ErrSerialization, path, err)
	}
	if err := writeFileAtomic(path, data, 0o644); err != nil {
		s.logger.Error("atomic write failed", "path", path, "error", err)
		return err
	}
	return nil
}

func (s *Store) setWatcherActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watcherActive = active
}
