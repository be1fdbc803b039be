// utils/validator.go - Input validation
package utils

import (
	"regexp"
	"strings"
)

const MinResearchDomains = 3

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks if email is valid
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidateEmailDomain checks the address against the allowed signup domains.
// An empty allowlist accepts any valid address.
func ValidateEmailDomain(email string, allowedDomains []string) bool {
	if !ValidateEmail(email) {
		return false
	}
	if len(allowedDomains) == 0 {
		return true
	}

	at := strings.LastIndex(email, "@")
	domain := strings.ToLower(email[at+1:])
	for _, allowed := range allowedDomains {
		if domain == strings.ToLower(strings.TrimSpace(allowed)) {
			return true
		}
	}
	return false
}

// ParseAllowedDomains splits the ALLOWED_EMAIL_DOMAINS env value.
func ParseAllowedDomains(raw string) []string {
	parts := strings.Split(raw, ",")
	domains := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			domains = append(domains, part)
		}
	}
	return domains
}

// ValidatePassword checks password strength
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters"
	}

	return true, ""
}

// ValidateDomainSelection enforces the minimum research-domain count for
// teacher and student signups.
func ValidateDomainSelection(role string, domainIDs []int) (bool, string) {
	if role != "teacher" && role != "student" {
		return true, ""
	}
	seen := make(map[int]bool, len(domainIDs))
	for _, id := range domainIDs {
		seen[id] = true
	}
	if len(seen) < MinResearchDomains {
		return false, "At least 3 research domains must be selected"
	}
	return true, ""
}

// SanitizeInput removes potentially harmful characters
func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")

	return input
}
