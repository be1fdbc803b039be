package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadSMTPSettingsReadsEnvAtCallTime(t *testing.T) {
	// Values set after package init (the .env case) must still be seen.
	t.Setenv("SMTP_HOST", "smtp.cell.edu")
	t.Setenv("SMTP_PORT", "465")
	t.Setenv("SMTP_USER", "mailer")
	t.Setenv("SMTP_PASS", "secret")
	t.Setenv("SMTP_FROM", "Research Cell <no-reply@cell.edu>")
	t.Setenv("SMTP_SKIP_TLS_VERIFY", "1")

	settings := loadSMTPSettings()
	assert.Equal(t, "smtp.cell.edu", settings.host)
	assert.Equal(t, 465, settings.port)
	assert.Equal(t, "mailer", settings.user)
	assert.Equal(t, "secret", settings.pass)
	assert.Equal(t, "Research Cell <no-reply@cell.edu>", settings.from)
	assert.True(t, settings.skipTLSVerify)

	t.Setenv("SMTP_HOST", "smtp2.cell.edu")
	t.Setenv("SMTP_SKIP_TLS_VERIFY", "")
	settings = loadSMTPSettings()
	assert.Equal(t, "smtp2.cell.edu", settings.host)
	assert.False(t, settings.skipTLSVerify)
}

func TestLoadSMTPSettingsDefaultPort(t *testing.T) {
	t.Setenv("SMTP_PORT", "")
	assert.Equal(t, 587, loadSMTPSettings().port)
}

func TestSendMailNoRecipientsIsNoop(t *testing.T) {
	assert.NoError(t, SendMail(nil, "subject", "<p>body</p>"))
}

func TestSendMailRequiresConfiguration(t *testing.T) {
	t.Setenv("SMTP_HOST", "")
	t.Setenv("SMTP_FROM", "")
	err := SendMail([]string{"user@cell.edu"}, "subject", "<p>body</p>")
	assert.Error(t, err)
}
