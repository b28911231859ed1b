package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/aurelia-labs/moodvault/pkg/core"
)

// Matrix delivers notifications as direct messages over the Matrix
// client-server API, using the tenant's own homeserver and access token.
// A tenant without credentials is silently disabled: sends succeed with an
// empty reached list.
type Matrix struct {
	logger  *slog.Logger
	timeout time.Duration
}

// NewMatrix creates a Matrix dispatcher.
func NewMatrix(logger *slog.Logger) *Matrix {
	if logger == nil {
		logger = slog.Default()
	}
	return &Matrix{
		logger:  logger,
		timeout: 15 * time.Second,
	}
}

// SendLowMood implements core.Dispatcher.
func (m *Matrix) SendLowMood(ctx context.Context, tenant core.TenantConfig, global core.GlobalConfig, checkin core.Checkin) ([]string, error) {
	client := m.prepareClient(tenant)
	if client == nil {
		return nil, nil
	}
	message := RenderTemplate(global.LowMoodMessageTemplate, tenant, &checkin, checkin.Timestamp)
	contacts := tenant.Contacts()
	if len(contacts) == 0 {
		m.logger.Warn("no contacts configured for low-mood notification")
		return nil, nil
	}
	return m.notifyContacts(ctx, client, contacts, message), nil
}

// SendPanic implements core.Dispatcher. The check-in is optional: a
// standalone panic trigger has none.
func (m *Matrix) SendPanic(ctx context.Context, tenant core.TenantConfig, global core.GlobalConfig, checkin *core.Checkin) ([]string, error) {
	client := m.prepareClient(tenant)
	if client == nil {
		return nil, nil
	}
	message := RenderTemplate(global.PanicMessageTemplate, tenant, checkin, time.Now().UTC())
	contacts := tenant.Contacts()
	if len(contacts) == 0 {
		m.logger.Warn("no contacts configured for panic alarm")
		return nil, nil
	}
	return m.notifyContacts(ctx, client, contacts, message), nil
}

// SendTest implements core.Dispatcher: messages the tenant themselves to
// verify their credentials.
func (m *Matrix) SendTest(ctx context.Context, tenant core.TenantConfig) ([]string, error) {
	client := m.prepareClient(tenant)
	if client == nil {
		return nil, nil
	}
	message := "Hi, this is a test message from your mood tracker. Everything works."
	return m.notifyContacts(ctx, client, []string{tenant.MatrixUserID}, message), nil
}

// prepareClient builds an authenticated client for the tenant's homeserver,
// or nil when messaging is not configured.
func (m *Matrix) prepareClient(tenant core.TenantConfig) *resty.Client {
	token := strings.TrimSpace(tenant.MatrixAccessToken)
	if token == "" {
		return nil
	}
	if tenant.MatrixDeviceID == nil || strings.TrimSpace(*tenant.MatrixDeviceID) == "" {
		m.logger.Warn("matrix access token set but no device id configured")
		return nil
	}
	return resty.New().
		SetBaseURL(strings.TrimRight(tenant.HomeserverURL, "/")).
		SetAuthToken(token).
		SetTimeout(m.timeout)
}

func (m *Matrix) notifyContacts(ctx context.Context, client *resty.Client, contacts []string, message string) []string {
	var reached []string
	for _, contact := range contacts {
		contact = strings.TrimSpace(contact)
		if contact == "" {
			continue
		}
		if err := m.sendDirectMessage(ctx, client, contact, message); err != nil {
			m.logger.Warn("matrix contact unreachable", "contact", contact, "error", err)
			continue
		}
		reached = append(reached, contact)
	}
	if len(reached) == 0 {
		m.logger.Warn("matrix notification reached nobody")
	} else {
		m.logger.Info("matrix messages sent", "targets", reached)
	}
	return reached
}

func (m *Matrix) sendDirectMessage(ctx context.Context, client *resty.Client, userID, message string) error {
	var room struct {
		RoomID string `json:"room_id"`
	}
	resp, err := client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"is_direct": true,
			"invite":    []string{userID},
			"preset":    "trusted_private_chat",
		}).
		SetResult(&room).
		Post("/_matrix/client/v3/createRoom")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("createRoom returned %s", resp.Status())
	}
	if room.RoomID == "" {
		return fmt.Errorf("createRoom returned no room id")
	}

	txnID := uuid.NewString()
	resp, err = client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"msgtype": "m.text",
			"body":    message,
		}).
		Put(fmt.Sprintf("/_matrix/client/v3/rooms/%s/send/m.room.message/%s", room.RoomID, txnID))
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("send returned %s", resp.Status())
	}
	return nil
}

var _ core.Dispatcher = (*Matrix)(nil)
