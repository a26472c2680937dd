package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"CONFIG_PATH", "SERPAPI_KEY", "SERPAPI_RPS", "MAX_RESULTS_PER_QUERY", "DAYS_BACK_LIMIT",
	"STRICT_MATCH", "REQUIRE_SPONSORSHIP", "TITLE_CASE", "DEDUPLICATE",
	"SENDER_EMAIL", "SENDER_NAME", "SMTP_SERVER", "SMTP_PORT", "SMTP_SECURITY",
	"SMTP_USERNAME", "SMTP_PASSWORD", "RECIPIENT_EMAILS",
	"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "ATTACH_PDF", "ARCHIVE_DIR",
	"LOCK_PATH", "LOG_LEVEL", "DRY_RUN",
}

// isolate runs the test in an empty directory with every recognized variable blank.
func isolate(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("SERPAPI_KEY", "key")
	t.Setenv("SENDER_EMAIL", "bot@example.com")
	t.Setenv("SMTP_USERNAME", "bot@example.com")
	t.Setenv("RECIPIENT_EMAILS", "a@example.com, b@example.com,")
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	setRequired(t)

	cfg, err := Load(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, defaultKeywords, cfg.Keywords)
	assert.Equal(t, defaultLocations, cfg.Locations)
	assert.Equal(t, "Daily Job Alerts", cfg.Subject)
	assert.Equal(t, 20, cfg.MaxResultsPerQuery)
	assert.Equal(t, 7, cfg.DaysBackLimit)
	assert.False(t, cfg.StrictMatch)
	assert.False(t, cfg.RequireSponsorship)
	assert.False(t, cfg.Deduplicate)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTP.Server)
	assert.Equal(t, 465, cfg.SMTP.Port)
	assert.Equal(t, "Job Bot", cfg.SMTP.SenderName)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.SMTP.Recipients)
	assert.False(t, cfg.Telegram.Enabled())
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t)
	setRequired(t)
	t.Setenv("DAYS_BACK_LIMIT", "3")
	t.Setenv("STRICT_MATCH", "true")
	t.Setenv("SENDER_NAME", "Alerts_Bot")
	t.Setenv("SMTP_PORT", "587")
	t.Setenv("SMTP_SECURITY", "STARTTLS")
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("TELEGRAM_CHAT_ID", "-1001")

	cfg, err := Load(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.DaysBackLimit)
	assert.True(t, cfg.StrictMatch)
	assert.Equal(t, "Alerts Bot", cfg.SMTP.SenderName)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, "starttls", cfg.SMTP.Security)
	assert.True(t, cfg.Telegram.Enabled())
	assert.Equal(t, int64(-1001), cfg.Telegram.ChatID)
}

func TestLoadMalformedNumbersFallBack(t *testing.T) {
	isolate(t)
	setRequired(t)
	t.Setenv("DAYS_BACK_LIMIT", "seven")
	t.Setenv("MAX_RESULTS_PER_QUERY", "-4")
	t.Setenv("SMTP_PORT", "abc")
	t.Setenv("STRICT_MATCH", "maybe")

	cfg, err := Load(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.DaysBackLimit)
	assert.Equal(t, 20, cfg.MaxResultsPerQuery)
	assert.Equal(t, 465, cfg.SMTP.Port)
	assert.False(t, cfg.StrictMatch)
}

func TestLoadYAMLThenEnvThenFlags(t *testing.T) {
	isolate(t)
	setRequired(t)

	path := filepath.Join(t.TempDir(), "alerts.yaml")
	yamlData := []byte(`keywords: ["Go Developer"]
locations: ["Berlin"]
subject: "From YAML"
days_back_limit: 2
smtp:
  server: mail.example.com
`)
	require.NoError(t, os.WriteFile(path, yamlData, 0o644))
	t.Setenv("DAYS_BACK_LIMIT", "5")

	cfg, err := Load([]string{"--config", path, "--locations", "Paris, Lyon", "--subject", "Weekly"}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"Go Developer"}, cfg.Keywords)
	assert.Equal(t, []string{"Paris", "Lyon"}, cfg.Locations)
	assert.Equal(t, "Weekly", cfg.Subject)
	assert.Equal(t, 5, cfg.DaysBackLimit)
	assert.Equal(t, "mail.example.com", cfg.SMTP.Server)
}

func TestLoadMissingExplicitConfigIsNotFatal(t *testing.T) {
	isolate(t)
	setRequired(t)

	cfg, err := Load([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}, nil)
	require.NoError(t, err)
	assert.Equal(t, defaultKeywords, cfg.Keywords)
}

func TestLoadInvalidYAML(t *testing.T) {
	isolate(t)
	setRequired(t)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("keywords: [unterminated"), 0o644))

	_, err := Load([]string{"--config", path}, nil)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Run("api key required", func(t *testing.T) {
		isolate(t)
		_, err := Load([]string{"--dry-run"}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SERPAPI_KEY")
	})

	t.Run("dry run skips email settings", func(t *testing.T) {
		isolate(t)
		t.Setenv("SERPAPI_KEY", "key")
		cfg, err := Load([]string{"--dry-run"}, nil)
		require.NoError(t, err)
		assert.True(t, cfg.DryRun)
	})

	t.Run("email settings required", func(t *testing.T) {
		isolate(t)
		t.Setenv("SERPAPI_KEY", "key")
		_, err := Load(nil, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SENDER_EMAIL")
		assert.Contains(t, err.Error(), "SMTP_USERNAME")
		assert.Contains(t, err.Error(), "RECIPIENT_EMAILS")
	})

	t.Run("unknown security", func(t *testing.T) {
		isolate(t)
		setRequired(t)
		t.Setenv("SMTP_SECURITY", "plain")
		_, err := Load(nil, nil)
		require.Error(t, err)
	})
}

func TestLoadHelpFlag(t *testing.T) {
	isolate(t)
	setRequired(t)

	_, err := Load([]string{"--help"}, nil)
	require.ErrorIs(t, err, flag.ErrHelp)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b c"}, SplitList(" a ,, b c ,"))
	assert.Nil(t, SplitList(" , "))
}
