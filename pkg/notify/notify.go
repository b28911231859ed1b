// Package notify delivers rendered notifications to a tenant's contacts
// and reports which contacts were actually reached. The store only records
// the outcome; delivery failures never fail the triggering mutation.
package notify

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/aurelia-labs/moodvault/pkg/core"
)

// timestampLayout is the human-readable format used in message templates.
const timestampLayout = "02.01.2006 15:04"

// RenderTemplate substitutes the {username}, {mood}, {high_level} and
// {timestamp} placeholders. A nil check-in renders mood as "unknown" and
// high level as "0".
func RenderTemplate(template string, tenant core.TenantConfig, checkin *core.Checkin, timestamp time.Time) string {
	mood := "unknown"
	high := "0"
	if checkin != nil {
		mood = strconv.Itoa(checkin.Mood)
		high = strconv.Itoa(checkin.HighLevel)
	}
	message := template
	message = strings.ReplaceAll(message, "{username}", tenant.DisplayName)
	message = strings.ReplaceAll(message, "{mood}", mood)
	message = strings.ReplaceAll(message, "{high_level}", high)
	message = strings.ReplaceAll(message, "{timestamp}", timestamp.Local().Format(timestampLayout))
	return message
}

// Noop is a dispatcher that reaches nobody. Useful for offline wiring and
// tests.
type Noop struct{}

// SendLowMood implements core.Dispatcher.
func (Noop) SendLowMood(ctx context.Context, tenant core.TenantConfig, global core.GlobalConfig, checkin core.Checkin) ([]string, error) {
	return nil, nil
}

// SendPanic implements core.Dispatcher.
func (Noop) SendPanic(ctx context.Context, tenant core.TenantConfig, global core.GlobalConfig, checkin *core.Checkin) ([]string, error) {
	return nil, nil
}

// SendTest implements core.Dispatcher.
func (Noop) SendTest(ctx context.Context, tenant core.TenantConfig) ([]string, error) {
	return nil, nil
}

var _ core.Dispatcher = Noop{}
