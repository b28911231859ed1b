package moodvault_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	moodvault "github.com/aurelia-labs/moodvault"
	"github.com/aurelia-labs/moodvault/pkg/git"
)

func TestGitlessLifecycle(t *testing.T) {
	ctx := context.Background()
	app, err := moodvault.New(t.TempDir(), moodvault.WithVersioning(false))
	require.NoError(t, err)
	require.Nil(t, app.Ledger)

	_, err = app.Store.EnsureTenantScaffold(ctx, "u1", "Jo")
	require.NoError(t, err)

	principal := moodvault.Principal{TenantID: "u1", Username: "Jo"}
	checkin, err := app.Service.SubmitCheckin(ctx, principal, moodvault.CheckinDraft{Mood: 3})
	require.NoError(t, err)
	require.NotEmpty(t, checkin.ID)

	items, err := app.Service.ListCheckins(ctx, principal)
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestVersionedLifecycle(t *testing.T) {
	if !git.IsInstalled() {
		t.Skip("git is not installed")
	}
	ctx := context.Background()
	root := t.TempDir()

	app, err := moodvault.New(root, moodvault.WithIdentity("tester", "tester@local"))
	require.NoError(t, err)
	require.NotNil(t, app.Ledger)
	require.DirExists(t, filepath.Join(root, ".git"))

	// Fresh repository: an initial snapshot and a clean tree.
	status, err := app.Ledger.Status()
	require.NoError(t, err)
	require.NotNil(t, status.Head)
	require.False(t, status.PendingChanges)

	// Scaffold a tenant with the default notification settings.
	cfg, err := app.Store.EnsureTenantScaffold(ctx, "u1", "Jo")
	require.NoError(t, err)
	require.Equal(t, 1, cfg.AutoNotifyThresh)

	// Submit a low-mood check-in; without a dispatcher no flag is set,
	// but the record persists and the ledger snapshots it.
	principal := moodvault.Principal{TenantID: "u1", Username: "Jo"}
	checkin, err := app.Service.SubmitCheckin(ctx, principal, moodvault.CheckinDraft{
		Mood:      -4,
		HighLevel: 8,
	})
	require.NoError(t, err)
	require.NotEmpty(t, checkin.ID)
	require.False(t, checkin.AutoNotify.MoodThresholdTriggered)

	items, err := app.Service.ListCheckins(ctx, principal)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, checkin.ID, items[0].ID)
	require.Equal(t, -4, items[0].Mood)

	status, err = app.Ledger.Status()
	require.NoError(t, err)
	require.False(t, status.PendingChanges)
	require.Contains(t, status.Head.Message, "new mood check-in")

	// A standalone panic captures the latest check-in's state.
	event, err := app.Service.TriggerPanic(ctx, principal)
	require.NoError(t, err)
	require.NotNil(t, event.MoodAtPanic)
	require.Equal(t, -4, *event.MoodAtPanic)

	status, err = app.Ledger.Status()
	require.NoError(t, err)
	require.Contains(t, status.Head.Message, "panic event")

	// Reopening over the same root leaves history intact.
	again, err := moodvault.New(root, moodvault.WithMustExist(true))
	require.NoError(t, err)
	items, err = again.Service.ListCheckins(ctx, principal)
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestMustExistRejectsMissingRoot(t *testing.T) {
	_, err := moodvault.New(filepath.Join(t.TempDir(), "nope"), moodvault.WithMustExist(true))
	require.Error(t, err)
}
