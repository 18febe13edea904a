package groups

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gogotex/pingbot/internal/wiki"
)

// MaxGroupNameLength is the longest group name a moderator can configure.
const MaxGroupNameLength = 12

var (
	ErrInvalidGroupName = errors.New("invalid group name")
	ErrInvalidUser      = errors.New("invalid user identifier")
)

// NormalizeUser lower-cases and trims a user identifier for storage and comparison.
func NormalizeUser(user string) string {
	return strings.ToLower(strings.TrimSpace(user))
}

// NormalizeGroup is the stored form of a configured group name.
func NormalizeGroup(group string) string {
	return strings.ToLower(strings.TrimSpace(group))
}

// ValidateGroupName rejects empty, reserved and over-long names.
func ValidateGroupName(group string) error {
	g := strings.TrimSpace(group)
	if g == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidGroupName)
	}
	if wiki.IsReserved(g) {
		return fmt.Errorf("%w: '%s' is a reserved group name", ErrInvalidGroupName, g)
	}
	if utf8.RuneCountInString(g) > MaxGroupNameLength {
		return fmt.Errorf("%w: '%s' exceeds maximum length (%d)", ErrInvalidGroupName, g, MaxGroupNameLength)
	}
	return nil
}

func indexOfUser(list []string, user string) int {
	for i, m := range list {
		if NormalizeUser(m) == user {
			return i
		}
	}
	return -1
}
