package validation

import (
	"regexp"
	"strings"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Fullname: letters, spaces, hyphens, apostrophes only.
var fullnameRe = regexp.MustCompile(`^[A-Za-z\s\-']+$`)

// MinPasswordLen is the minimum accepted password length.
const MinPasswordLen = 6

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

func IsValidPassword(password string) bool {
	return len(password) >= MinPasswordLen
}

func IsValidFullname(fullname string) bool {
	return fullname != "" && fullnameRe.MatchString(fullname)
}

// NormalizeEmail lowercases and trims an email for storage and comparison.
// All email equality in the codebase goes through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
