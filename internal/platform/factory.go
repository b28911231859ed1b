package platform

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aurelia-labs/moodvault/pkg/core"
	"github.com/aurelia-labs/moodvault/pkg/git"
	"github.com/aurelia-labs/moodvault/pkg/store"
)

// App bundles the wired components. The Service is the primary entry
// point; Store and Ledger are exposed for callers that need direct access
// (listings, counts, status).
type App struct {
	Service *core.Service
	Store   *store.Store
	Ledger  *git.Ledger
	Logger  *slog.Logger
}

// New wires a store, ledger and service rooted at the given directory:
// scaffolds the directory tree and, unless versioning is disabled,
// initializes the ledger repository.
func New(root string, opts ...Option) (*App, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	if o.mustExist {
		info, err := os.Stat(root)
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("store root does not exist: %s", root)
		}
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("store root is not a directory: %s", root)
		}
	}

	st := store.New(root, logger)
	if err := st.EnsureStructure(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to scaffold store: %w", err)
	}

	var ledger *git.Ledger
	if !o.gitless {
		ledger = git.NewLedger(root, logger, o.authorName, o.authorEmail)
		if o.autoInit {
			if err := ledger.InitRepositoryIfNeeded(); err != nil {
				return nil, err
			}
		}
	}

	// Avoid handing the service a typed-nil interface.
	var svcLedger core.Ledger
	if ledger != nil {
		svcLedger = ledger
	}

	return &App{
		Service: core.NewService(st, svcLedger, o.dispatcher, logger),
		Store:   st,
		Ledger:  ledger,
		Logger:  logger,
	}, nil
}
