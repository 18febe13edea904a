package settings

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gogotex/pingbot/internal/wiki"
)

const (
	// MaxSlots is the number of configurable group slots.
	MaxSlots = 12
	// MaxNameLength matches the group name limit enforced by the store.
	MaxNameLength = 12
)

// Slot is one configurable group.
type Slot struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Name    string `json:"name" yaml:"name"`
}

// PingSettings is the moderator configuration of one community.
type PingSettings struct {
	EnablePingBot bool   `json:"enablePingBot" yaml:"enablePingBot"`
	Groups        []Slot `json:"groups" yaml:"groups"`
}

// Default is what a community gets before a moderator saves anything.
func Default() PingSettings {
	return PingSettings{EnablePingBot: true}
}

// SettingsError reports the first invalid slot (1-based). Slot is 0 for
// errors that are not tied to a slot.
type SettingsError struct {
	Slot   int
	Reason string
}

func (e *SettingsError) Error() string {
	if e.Slot == 0 {
		return "settings: " + e.Reason
	}
	return fmt.Sprintf("settings: group %d: %s", e.Slot, e.Reason)
}

// Validate checks slots in order and fails on the first violation. The
// settings are returned unchanged.
func Validate(s PingSettings) (PingSettings, error) {
	if len(s.Groups) > MaxSlots {
		return s, &SettingsError{Reason: fmt.Sprintf("at most %d group slots are supported, got %d", MaxSlots, len(s.Groups))}
	}
	for i, slot := range s.Groups {
		n := i + 1
		name := strings.TrimSpace(slot.Name)
		if slot.Enabled && !s.EnablePingBot {
			return s, &SettingsError{Slot: n, Reason: fmt.Sprintf("cannot enable Group %d when Ping Bot is disabled", n)}
		}
		if slot.Enabled && name == "" {
			return s, &SettingsError{Slot: n, Reason: fmt.Sprintf("Group %d is enabled but has no name", n)}
		}
		if name != "" && wiki.IsReserved(name) {
			return s, &SettingsError{Slot: n, Reason: fmt.Sprintf("'%s' is a reserved group name", name)}
		}
	}
	return s, nil
}

// ValidateForm is Validate plus the per-field length limit applied when a
// moderator saves the settings.
func ValidateForm(s PingSettings) error {
	if _, err := Validate(s); err != nil {
		return err
	}
	for i, slot := range s.Groups {
		name := strings.TrimSpace(slot.Name)
		if l := utf8.RuneCountInString(name); l > MaxNameLength {
			return &SettingsError{Slot: i + 1, Reason: fmt.Sprintf("text too long: %d/%d", l, MaxNameLength)}
		}
	}
	return nil
}

// EnabledGroups returns the stored form of every enabled, named slot in slot
// order. Duplicates are kept; command matching takes the first.
func (s PingSettings) EnabledGroups() []string {
	out := []string{}
	for _, slot := range s.Groups {
		name := strings.ToLower(strings.TrimSpace(slot.Name))
		if slot.Enabled && name != "" {
			out = append(out, name)
		}
	}
	return out
}

// ConfiguredGroups is EnabledGroups without duplicates.
func (s PingSettings) ConfiguredGroups() []string {
	seen := map[string]bool{}
	out := []string{}
	for _, g := range s.EnabledGroups() {
		if !seen[g] {
			seen[g] = true
			out = append(out, g)
		}
	}
	return out
}

// HasGroup reports whether group is one of the enabled groups.
func (s PingSettings) HasGroup(group string) bool {
	g := strings.ToLower(strings.TrimSpace(group))
	for _, name := range s.EnabledGroups() {
		if name == g {
			return true
		}
	}
	return false
}
