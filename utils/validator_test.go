package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"user@cell.edu",
		"first.last@dept.university.ac.th",
		"name+tag@example.org",
	}
	for _, email := range valid {
		assert.True(t, ValidateEmail(email), "expected %q to be valid", email)
	}

	invalid := []string{
		"",
		"plainaddress",
		"@no-local-part.edu",
		"user@",
		"user@nodot",
	}
	for _, email := range invalid {
		assert.False(t, ValidateEmail(email), "expected %q to be invalid", email)
	}
}

func TestValidateEmailDomain(t *testing.T) {
	allowed := []string{"cell.edu", "university.ac.th"}

	assert.True(t, ValidateEmailDomain("user@cell.edu", allowed))
	assert.True(t, ValidateEmailDomain("user@CELL.EDU", allowed))
	assert.False(t, ValidateEmailDomain("user@gmail.com", allowed))
	assert.False(t, ValidateEmailDomain("not-an-email", allowed))

	// Empty allowlist accepts any valid address.
	assert.True(t, ValidateEmailDomain("user@gmail.com", nil))
	assert.False(t, ValidateEmailDomain("not-an-email", nil))
}

func TestParseAllowedDomains(t *testing.T) {
	assert.Equal(t, []string{"cell.edu", "university.ac.th"},
		ParseAllowedDomains("cell.edu, university.ac.th"))
	assert.Empty(t, ParseAllowedDomains(""))
	assert.Equal(t, []string{"cell.edu"}, ParseAllowedDomains(" cell.edu ,, "))
}

func TestValidatePassword(t *testing.T) {
	ok, _ := ValidatePassword("longenough")
	assert.True(t, ok)

	ok, msg := ValidatePassword("short")
	assert.False(t, ok)
	assert.Equal(t, "Password must be at least 8 characters", msg)
}

func TestValidateDomainSelection(t *testing.T) {
	tests := []struct {
		name      string
		role      string
		domainIDs []int
		want      bool
	}{
		{"teacher with three domains", "teacher", []int{1, 2, 3}, true},
		{"student with three domains", "student", []int{4, 5, 6}, true},
		{"teacher with too few", "teacher", []int{1, 2}, false},
		{"duplicates do not count twice", "student", []int{1, 1, 2}, false},
		{"teacher with none", "teacher", nil, false},
		{"general user exempt", "generaluser", nil, true},
		{"admin exempt", "admin", []int{1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, _ := ValidateDomainSelection(tt.role, tt.domainIDs)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "hello", SanitizeInput("  hello  "))
	assert.Equal(t, "ab", SanitizeInput("a\x00b"))
	assert.Equal(t, "", SanitizeInput("   "))
}
