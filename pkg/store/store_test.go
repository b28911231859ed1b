package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aurelia-labs/moodvault/pkg/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(t.TempDir(), nil)
}

func TestEnsureStructure(t *testing.T) {
	t.Run("Creates Tree And Default Global Config", func(t *testing.T) {
		s := newTestStore(t)
		if err := s.EnsureStructure(context.Background()); err != nil {
			t.Fatalf("EnsureStructure failed: %v", err)
		}

		for _, dir := range []string{"users", filepath.Join("logs", "panic_events")} {
			if info, err := os.Stat(filepath.Join(s.Root(), dir)); err != nil || !info.IsDir() {
				t.Errorf("Expected directory %s", dir)
			}
		}

		cfg, err := s.LoadGlobalConfig(context.Background())
		if err != nil {
			t.Fatalf("LoadGlobalConfig failed: %v", err)
		}
		if cfg.DefaultLowMoodThreshold != 1 {
			t.Errorf("Expected default threshold 1, got %d", cfg.DefaultLowMoodThreshold)
		}
		if !cfg.DefaultAutoNotifyOnMood {
			t.Error("Expected auto-notify default on")
		}
	})

	t.Run("Idempotent And Preserves Edited Config", func(t *testing.T) {
		s := newTestStore(t)
		ctx := context.Background()
		if err := s.EnsureStructure(ctx); err != nil {
			t.Fatal(err)
		}

		cfg, err := s.LoadGlobalConfig(ctx)
		if err != nil {
			t.Fatal(err)
		}
		cfg.DefaultLowMoodThreshold = -2
		if err := s.SaveGlobalConfig(ctx, cfg); err != nil {
			t.Fatal(err)
		}

		if err := s.EnsureStructure(ctx); err != nil {
			t.Fatalf("Second EnsureStructure failed: %v", err)
		}
		got, err := s.LoadGlobalConfig(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if got.DefaultLowMoodThreshold != -2 {
			t.Errorf("EnsureStructure overwrote config: threshold %d", got.DefaultLowMoodThreshold)
		}
	})
}

func TestEnsureTenantScaffold(t *testing.T) {
	t.Run("Creates Directories And Default Config", func(t *testing.T) {
		s := newTestStore(t)
		cfg, err := s.EnsureTenantScaffold(context.Background(), "tenant-1", "Jo")
		if err != nil {
			t.Fatalf("EnsureTenantScaffold failed: %v", err)
		}
		if cfg.DisplayName != "Jo" || cfg.Username != "Jo" {
			t.Errorf("Default config not seeded from display name: %+v", cfg)
		}
		if cfg.AutoNotifyThresh != 1 || !cfg.AutoNotifyOnMood {
			t.Errorf("Unexpected notification defaults: %+v", cfg)
		}

		for _, dir := range []string{"checkins", "trips"} {
			path := filepath.Join(s.Root(), "users", "tenant-1", dir)
			if info, err := os.Stat(path); err != nil || !info.IsDir() {
				t.Errorf("Expected directory %s", path)
			}
		}
	})

	t.Run("Second Call Keeps First Call's Values", func(t *testing.T) {
		s := newTestStore(t)
		ctx := context.Background()
		if _, err := s.EnsureTenantScaffold(ctx, "tenant-1", "Jo"); err != nil {
			t.Fatal(err)
		}

		cfg, err := s.LoadTenantConfig(ctx, "tenant-1")
		if err != nil {
			t.Fatal(err)
		}
		cfg.AutoNotifyThresh = -3
		if err := s.SaveTenantConfig(ctx, "tenant-1", cfg); err != nil {
			t.Fatal(err)
		}

		got, err := s.EnsureTenantScaffold(ctx, "tenant-1", "Somebody Else")
		if err != nil {
			t.Fatalf("Second scaffold failed: %v", err)
		}
		if got.AutoNotifyThresh != -3 || got.DisplayName != "Jo" {
			t.Errorf("Scaffold overwrote existing config: %+v", got)
		}
	})
}

func TestTenantConfig(t *testing.T) {
	t.Run("NotFound When Never Scaffolded", func(t *testing.T) {
		s := newTestStore(t)
		_, err := s.LoadTenantConfig(context.Background(), "ghost")
		if !errors.Is(err, core.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Blank Username Repaired To Tenant ID", func(t *testing.T) {
		s := newTestStore(t)
		ctx := context.Background()
		if _, err := s.EnsureTenantScaffold(ctx, "tenant-1", "Jo"); err != nil {
			t.Fatal(err)
		}
		cfg, err := s.LoadTenantConfig(ctx, "tenant-1")
		if err != nil {
			t.Fatal(err)
		}
		cfg.Username = "   "
		if err := s.SaveTenantConfig(ctx, "tenant-1", cfg); err != nil {
			t.Fatal(err)
		}

		got, err := s.LoadTenantConfig(ctx, "tenant-1")
		if err != nil {
			t.Fatal(err)
		}
		if got.Username != "tenant-1" {
			t.Errorf("Expected repaired username, got %q", got.Username)
		}
	})

	t.Run("Corrupt Config Reported As Corrupt", func(t *testing.T) {
		s := newTestStore(t)
		ctx := context.Background()
		if _, err := s.EnsureTenantScaffold(ctx, "tenant-1", "Jo"); err != nil {
			t.Fatal(err)
		}
		path := filepath.Join(s.Root(), "users", "tenant-1", "config.json")
		if err := os.WriteFile(path, []byte("{nope"), 0o644); err != nil {
			t.Fatal(err)
		}

		_, err := s.LoadTenantConfig(ctx, "tenant-1")
		if !errors.Is(err, core.ErrCorrupt) {
			t.Errorf("Expected ErrCorrupt, got %v", err)
		}
	})

	t.Run("Unknown Fields Ignored", func(t *testing.T) {
		s := newTestStore(t)
		ctx := context.Background()
		path := filepath.Join(s.Root(), "users", "tenant-1", "config.json")
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		doc := `{"username":"jo","display_name":"Jo","future_field":42,"emergency_contacts":[]}`
		if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
			t.Fatal(err)
		}

		cfg, err := s.LoadTenantConfig(ctx, "tenant-1")
		if err != nil {
			t.Fatalf("Forward-compatible read failed: %v", err)
		}
		if cfg.DisplayName != "Jo" {
			t.Errorf("Unexpected config: %+v", cfg)
		}
	})
}
