package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Store is the contract the service needs from the document store.
// The filesystem adapter in pkg/store implements it.
type Store interface {
	EnsureTenantScaffold(ctx context.Context, tenantID, displayName string) (TenantConfig, error)
	LoadGlobalConfig(ctx context.Context) (GlobalConfig, error)
	SaveGlobalConfig(ctx context.Context, cfg GlobalConfig) error
	LoadTenantConfig(ctx context.Context, tenantID string) (TenantConfig, error)
	SaveTenantConfig(ctx context.Context, tenantID string, cfg TenantConfig) error
	SaveCheckin(ctx context.Context, tenantID string, checkin Checkin) error
	LoadCheckin(ctx context.Context, tenantID, checkinID string) (Checkin, error)
	ListCheckins(ctx context.Context, tenantID string) ([]Checkin, error)
	LatestCheckin(ctx context.Context, tenantID string) (*Checkin, error)
	SavePanicEvent(ctx context.Context, event PanicEvent) error
}

// Ledger snapshots accepted mutations as commits. Failures are recoverable:
// a document is durably saved once its atomic write completes, independent
// of whether the audit commit succeeds.
type Ledger interface {
	CommitPendingChanges(message string) error
}

// Dispatcher delivers notifications to a tenant's contacts and reports
// which contacts were actually reached.
type Dispatcher interface {
	SendLowMood(ctx context.Context, tenant TenantConfig, global GlobalConfig, checkin Checkin) ([]string, error)
	SendPanic(ctx context.Context, tenant TenantConfig, global GlobalConfig, checkin *Checkin) ([]string, error)
	SendTest(ctx context.Context, tenant TenantConfig) ([]string, error)
}

// CheckinDraft is the caller-supplied input for a new check-in.
type CheckinDraft struct {
	Mood         int
	HighLevel    int
	SafetyAnswer string
	Panic        bool
	Notes        string
	Drugs        []DrugEntry
	StatusTags   []string
}

// Service handles the business flow around the store: persist, notify,
// then snapshot. It performs no internal locking; the store and ledger
// bring their own guarantees.
type Service struct {
	store      Store
	ledger     Ledger
	dispatcher Dispatcher
	logger     *slog.Logger
}

// NewService wires a service. Ledger and dispatcher may be nil: a nil
// ledger skips snapshots, a nil dispatcher disables notifications.
func NewService(store Store, ledger Ledger, dispatcher Dispatcher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:      store,
		ledger:     ledger,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// SubmitCheckin persists a new check-in for the principal and fires the
// automatic notifications. The two triggers are independent: a submission
// can fire both the low-mood threshold and the panic alarm; notified
// contact lists are unioned. A trigger flag is only set when at least one
// contact was actually reached.
func (s *Service) SubmitCheckin(ctx context.Context, principal Principal, draft CheckinDraft) (Checkin, error) {
	checkin := NewCheckin(principal.TenantID)
	checkin.Mood = ClampMood(draft.Mood)
	checkin.HighLevel = ClampHighLevel(draft.HighLevel)
	checkin.FeelsSafe = !draft.Panic
	checkin.StatusTags = draft.StatusTags
	if answer := strings.TrimSpace(draft.SafetyAnswer); answer != "" {
		checkin.SafetyAnswer = &answer
	}
	if notes := strings.TrimSpace(draft.Notes); notes != "" {
		checkin.Notes = &notes
	}
	if draft.Drugs != nil {
		checkin.Drugs = draft.Drugs
	}

	global, err := s.store.LoadGlobalConfig(ctx)
	if err != nil {
		return Checkin{}, err
	}
	tenant, err := s.store.LoadTenantConfig(ctx, principal.TenantID)
	if err != nil {
		// Scaffolding never ran for this tenant; fall back to an
		// in-memory default rather than failing the submission.
		tenant = ForNewTenant(principal.Username)
	}

	notifications := AutoNotifications{NotifiedContacts: []string{}}

	if s.dispatcher != nil && tenant.AutoNotifyOnMood && checkin.Mood < tenant.AutoNotifyThresh {
		reached, err := s.dispatcher.SendLowMood(ctx, tenant, global, checkin)
		if err != nil {
			s.logger.Warn("low-mood notification failed", "tenant", principal.TenantID, "error", err)
		} else if len(reached) > 0 {
			notifications.MoodThresholdTriggered = true
			notifications.NotifiedContacts = unionContacts(notifications.NotifiedContacts, reached)
		}
	}

	if s.dispatcher != nil && draft.Panic {
		reached, err := s.dispatcher.SendPanic(ctx, tenant, global, &checkin)
		if err != nil {
			s.logger.Warn("panic notification failed", "tenant", principal.TenantID, "error", err)
		} else if len(reached) > 0 {
			notifications.PanicTriggered = true
			notifications.NotifiedContacts = unionContacts(notifications.NotifiedContacts, reached)
		}
	}

	checkin.AutoNotify = notifications

	if err := s.store.SaveCheckin(ctx, principal.TenantID, checkin); err != nil {
		return Checkin{}, err
	}

	s.commit(fmt.Sprintf("feat: new mood check-in for %s", principal.Username))
	return checkin, nil
}

// TriggerPanic records a standalone panic event (the dedicated panic
// button, outside any check-in) and notifies the tenant's contacts.
func (s *Service) TriggerPanic(ctx context.Context, principal Principal) (PanicEvent, error) {
	global, err := s.store.LoadGlobalConfig(ctx)
	if err != nil {
		return PanicEvent{}, err
	}
	tenant, err := s.store.LoadTenantConfig(ctx, principal.TenantID)
	if err != nil {
		tenant = ForNewTenant(principal.Username)
	}

	latest, err := s.store.LatestCheckin(ctx, principal.TenantID)
	if err != nil {
		return PanicEvent{}, err
	}

	// The safety record must survive a down homeserver: a delivery
	// failure is logged and the event still persists, with nobody
	// recorded as reached.
	var reached []string
	if s.dispatcher != nil {
		reached, err = s.dispatcher.SendPanic(ctx, tenant, global, latest)
		if err != nil {
			s.logger.Warn("panic notification failed", "tenant", principal.TenantID, "error", err)
			reached = nil
		}
	}

	event := NewPanicEvent(principal.TenantID)
	if latest != nil {
		mood := latest.Mood
		high := latest.HighLevel
		event.MoodAtPanic = &mood
		event.HighLevelAtPanic = &high
	}
	if reached != nil {
		event.NotifiedContacts = reached
	}

	if err := s.store.SavePanicEvent(ctx, event); err != nil {
		return PanicEvent{}, err
	}

	s.commit(fmt.Sprintf("feat: panic event for %s", principal.Username))
	return event, nil
}

// UpdateTenantSettings overwrites the tenant configuration document.
func (s *Service) UpdateTenantSettings(ctx context.Context, principal Principal, cfg TenantConfig) error {
	if err := s.store.SaveTenantConfig(ctx, principal.TenantID, cfg); err != nil {
		return err
	}
	s.commit(fmt.Sprintf("chore: settings updated for %s", principal.Username))
	return nil
}

// UpdateGlobalSettings overwrites the global configuration document.
// Administrative action only.
func (s *Service) UpdateGlobalSettings(ctx context.Context, cfg GlobalConfig) error {
	if err := s.store.SaveGlobalConfig(ctx, cfg); err != nil {
		return err
	}
	s.commit("chore: global settings updated")
	return nil
}

// SendTestMessage asks the dispatcher to message the tenant themselves,
// verifying their messaging credentials.
func (s *Service) SendTestMessage(ctx context.Context, principal Principal) ([]string, error) {
	if s.dispatcher == nil {
		return nil, nil
	}
	tenant, err := s.store.LoadTenantConfig(ctx, principal.TenantID)
	if err != nil {
		return nil, err
	}
	return s.dispatcher.SendTest(ctx, tenant)
}

// GetCheckin retrieves a single check-in for the principal.
func (s *Service) GetCheckin(ctx context.Context, principal Principal, checkinID string) (Checkin, error) {
	return s.store.LoadCheckin(ctx, principal.TenantID, checkinID)
}

// ListCheckins returns the principal's history, newest first.
func (s *Service) ListCheckins(ctx context.Context, principal Principal) ([]Checkin, error) {
	return s.store.ListCheckins(ctx, principal.TenantID)
}

// commit snapshots pending changes, logging a warning on failure. A
// mutation that persisted correctly must never appear failed merely
// because its audit snapshot could not be taken.
func (s *Service) commit(message string) {
	if s.ledger == nil {
		return
	}
	if err := s.ledger.CommitPendingChanges(message); err != nil {
		s.logger.Warn("ledger commit failed", "message", message, "error", err)
	}
}

func unionContacts(existing, extra []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, contact := range existing {
		seen[contact] = true
	}
	for _, contact := range extra {
		if seen[contact] {
			continue
		}
		seen[contact] = true
		existing = append(existing, contact)
	}
	return existing
}
