package notify

import (
	"strings"
	"testing"
	"time"

	"github.com/aurelia-labs/moodvault/pkg/core"
)

func TestRenderTemplate(t *testing.T) {
	tenant := core.TenantConfig{DisplayName: "Jo"}
	when := time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)

	t.Run("Substitutes All Placeholders", func(t *testing.T) {
		checkin := core.NewCheckin("u1")
		checkin.Mood = -4
		checkin.HighLevel = 8

		got := RenderTemplate("{username}: mood {mood}, high {high_level} at {timestamp}", tenant, &checkin, when)
		if !strings.HasPrefix(got, "Jo: mood -4, high 8 at ") {
			t.Errorf("Unexpected rendering: %q", got)
		}
		if strings.Contains(got, "{") {
			t.Errorf("Unsubstituted placeholder remains: %q", got)
		}
	})

	t.Run("Nil Checkin Renders Unknown Mood", func(t *testing.T) {
		got := RenderTemplate("mood {mood}, high {high_level}", tenant, nil, when)
		if got != "mood unknown, high 0" {
			t.Errorf("Unexpected rendering: %q", got)
		}
	})

	t.Run("Template Without Placeholders Unchanged", func(t *testing.T) {
		got := RenderTemplate("static text", tenant, nil, when)
		if got != "static text" {
			t.Errorf("Unexpected rendering: %q", got)
		}
	})
}
