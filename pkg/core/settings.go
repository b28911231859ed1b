package core

import "strings"

// GlobalConfig is the single process-wide configuration document.
// It is created with defaults on first boot and mutated by admin action only.
type GlobalConfig struct {
	DefaultLowMoodThreshold int    `json:"default_low_mood_threshold"`
	DefaultAutoNotifyOnMood bool   `json:"default_auto_notify_on_low_mood"`
	LowMoodMessageTemplate  string `json:"low_mood_message_template"`
	PanicMessageTemplate    string `json:"panic_message_template"`
}

// DefaultGlobalConfig returns the configuration written on first boot.
// Templates support {username}, {mood}, {high_level} and {timestamp}
// placeholders.
func DefaultGlobalConfig() GlobalConfig {
	return GlobalConfig{
		DefaultLowMoodThreshold: 1,
		DefaultAutoNotifyOnMood: true,
		LowMoodMessageTemplate:  "Hey, this is the mood tracker of {username}. Mood: {mood}, high level: {high_level}/10 at {timestamp}. Just a gentle hint that a quick check-in could help.",
		PanicMessageTemplate:    "ALERT: {username} pressed 'I need help' in the app. Mood: {mood} / high level: {high_level}/10. Maybe check in on them.",
	}
}

// TenantConfig is the per-tenant configuration document. It is created once
// at scaffolding time and mutated in place thereafter (whole-document
// overwrite, not a delta).
type TenantConfig struct {
	Username          string   `json:"username"`
	DisplayName       string   `json:"display_name"`
	HomeserverURL     string   `json:"homeserver_url"`
	MatrixUserID      string   `json:"matrix_user_id"`
	MatrixAccessToken string   `json:"matrix_access_token"`
	MatrixDeviceID    *string  `json:"matrix_device_id,omitempty"`
	PrimaryContact    *string  `json:"primary_contact"`
	EmergencyContacts []string `json:"emergency_contacts"`
	AutoNotifyOnMood  bool     `json:"auto_notify_on_low_mood"`
	AutoNotifyThresh  int      `json:"auto_notify_threshold"`
}

// ForNewTenant returns the default configuration seeded from a display name,
// written exactly once at scaffolding time.
func ForNewTenant(displayName string) TenantConfig {
	name := strings.TrimSpace(displayName)
	if name == "" {
		name = "friend"
	}
	return TenantConfig{
		Username:          name,
		DisplayName:       name,
		HomeserverURL:     "https://matrix.org",
		EmergencyContacts: []string{},
		AutoNotifyOnMood:  true,
		AutoNotifyThresh:  1,
	}
}

// Contacts merges the primary contact and the emergency contacts into one
// list: trimmed, empty entries dropped, duplicates removed, first
// appearance wins.
func (c TenantConfig) Contacts() []string {
	var contacts []string
	if c.PrimaryContact != nil {
		if primary := strings.TrimSpace(*c.PrimaryContact); primary != "" {
			contacts = append(contacts, primary)
		}
	}
	for _, entry := range c.EmergencyContacts {
		if trimmed := strings.TrimSpace(entry); trimmed != "" {
			contacts = append(contacts, trimmed)
		}
	}
	seen := make(map[string]bool, len(contacts))
	deduped := contacts[:0]
	for _, contact := range contacts {
		if seen[contact] {
			continue
		}
		seen[contact] = true
		deduped = append(deduped, contact)
	}
	return deduped
}
