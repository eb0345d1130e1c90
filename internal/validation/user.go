// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// ValidateUsername checks that a username is 3-30 characters of letters,
// digits and underscores.
func ValidateUsername(username string) error {
	if !usernameRe.MatchString(username) {
		return fmt.Errorf("username must be 3-30 characters and contain only letters, digits and underscores")
	}
	return nil
}

// ValidateEmail performs a basic shape check on an email address.
func ValidateEmail(email string) error {
	if len(email) > 254 || !emailRe.MatchString(email) {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

// NormalizeTag lowercases and trims a tag name. Returns "" for tags that are
// empty after normalization.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// NormalizeTags normalizes a list of raw tag names, dropping empties and
// duplicates while preserving first-seen order.
func NormalizeTags(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	var tags []string
	for _, t := range raw {
		n := NormalizeTag(t)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		tags = append(tags, n)
	}
	return tags
}
