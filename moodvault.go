package moodvault

import (
	"log/slog"

	"github.com/aurelia-labs/moodvault/internal/platform"
	"github.com/aurelia-labs/moodvault/pkg/core"
)

// --- Types ---

// App bundles the wired components.
type App = platform.App

// Service is the business-flow entry point.
type Service = core.Service

// Checkin is a single mood check-in document.
type Checkin = core.Checkin

// CheckinDraft is the caller-supplied input for a new check-in.
type CheckinDraft = core.CheckinDraft

// PanicEvent is an append-only help-trigger record.
type PanicEvent = core.PanicEvent

// TenantConfig is the per-tenant configuration document.
type TenantConfig = core.TenantConfig

// GlobalConfig is the process-wide configuration document.
type GlobalConfig = core.GlobalConfig

// Principal is the authenticated identity handed in by the session layer.
type Principal = core.Principal

// --- Configuration ---

// Option defines a functional option for configuring moodvault.
type Option = platform.Option

// WithLogger sets the logger for all components.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithVersioning enables or disables the git-backed version ledger.
func WithVersioning(enabled bool) Option {
	return platform.WithVersioning(enabled)
}

// WithAutoInit controls whether the ledger repository is initialized on
// startup when missing.
func WithAutoInit(auto bool) Option {
	return platform.WithAutoInit(auto)
}

// WithMustExist requires the store root to already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithDispatcher injects the notification dispatcher.
func WithDispatcher(d core.Dispatcher) Option {
	return platform.WithDispatcher(d)
}

// WithIdentity sets the author identity for ledger commits.
func WithIdentity(name, email string) Option {
	return platform.WithIdentity(name, email)
}

// --- Entry point ---

// New wires a store, version ledger and service rooted at the given
// directory.
//
//	app, err := moodvault.New("./data", moodvault.WithVersioning(true))
func New(root string, opts ...Option) (*App, error) {
	return platform.New(root, opts...)
}
