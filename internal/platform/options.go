package platform

import (
	"log/slog"

	"github.com/aurelia-labs/moodvault/pkg/core"
)

// options holds the internal configuration for the moodvault application.
type options struct {
	logger      *slog.Logger
	gitless     bool
	autoInit    bool
	mustExist   bool
	dispatcher  core.Dispatcher
	authorName  string
	authorEmail string
}

// Option defines a functional option for configuring moodvault.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		autoInit: true,
	}
}

// WithLogger sets the logger for all components.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithVersioning enables or disables the git-backed version ledger.
// By default, versioning is enabled.
func WithVersioning(enabled bool) Option {
	return func(o *options) {
		o.gitless = !enabled
	}
}

// WithAutoInit controls whether the ledger repository is initialized on
// startup when missing. Enabled by default.
func WithAutoInit(auto bool) Option {
	return func(o *options) {
		o.autoInit = auto
	}
}

// WithMustExist requires the store root to already exist.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithDispatcher injects the notification dispatcher. Without one,
// automatic notifications are disabled.
func WithDispatcher(d core.Dispatcher) Option {
	return func(o *options) {
		o.dispatcher = d
	}
}

// WithIdentity sets the author identity for ledger commits.
func WithIdentity(name, email string) Option {
	return func(o *options) {
		o.authorName = name
		o.authorEmail = email
	}
}
