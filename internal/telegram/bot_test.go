package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artistritesh/Job-Alerts/internal/logging"
	"github.com/artistritesh/Job-Alerts/internal/models"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func digestWith(n int) models.Digest {
	d := models.Digest{Subject: fmt.Sprintf("Alerts: %d new jobs", n)}
	for i := 0; i < n; i++ {
		d.Jobs = append(d.Jobs, models.Job{
			Title:    fmt.Sprintf("Scrum Master %d", i),
			Company:  "Acme & Co",
			Location: "Berlin",
			Link:     fmt.Sprintf("https://a.example/jobs/%d?ref=x&y=1", i),
		})
	}
	return d
}

func TestFormatDigest_EscapesHTML(t *testing.T) {
	d := digestWith(1)
	d.Jobs[0].Sponsorship = models.SponsorshipYes

	chunks := FormatDigest(d)

	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0], "<b>Alerts: 1 new jobs</b>")
	assert.Contains(t, chunks[0], `<a href="https://a.example/jobs/0?ref=x&amp;y=1">Scrum Master 0</a>`)
	assert.Contains(t, chunks[0], "Acme &amp; Co")
	assert.Contains(t, chunks[0], "Visa/relocation")
}

func TestFormatDigest_SplitsLongDigests(t *testing.T) {
	chunks := FormatDigest(digestWith(200))

	require.Greater(t, len(chunks), 1)
	total := 0
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), maxMessageLen)
		total += strings.Count(c, "<a href=")
	}
	assert.Equal(t, 200, total)
}

func TestFormatDigest_LongTitleKeepsValidHTML(t *testing.T) {
	d := models.Digest{Subject: "S", Jobs: []models.Job{{
		Title: strings.Repeat("é", 3000),
		Link:  "https://x",
	}}}

	chunks := FormatDigest(d)

	require.Len(t, chunks, 1)
	c := chunks[0]
	assert.True(t, strings.HasPrefix(c, "📬 <b>S</b>"))
	assert.True(t, utf8.ValidString(c))
	assert.LessOrEqual(t, len(c), maxMessageLen)
	assert.Contains(t, c, `<a href="https://x">`)
	assert.Contains(t, c, "…</a>")
}

func TestFormatDigest_OversizedLinkDropsAnchor(t *testing.T) {
	d := models.Digest{Subject: "S", Jobs: []models.Job{{
		Title: "Scrum Master",
		Link:  "https://x/" + strings.Repeat("a", 5000),
	}}}

	chunks := FormatDigest(d)

	require.Len(t, chunks, 1)
	assert.LessOrEqual(t, len(chunks[0]), maxMessageLen)
	assert.Contains(t, chunks[0], "1. <b>Scrum Master</b>")
	assert.NotContains(t, chunks[0], "<a href=")
}

func TestDeliver(t *testing.T) {
	fake := &fakeSender{}
	bot := &Bot{api: fake, chatID: 42, logger: logging.Discard()}

	require.NoError(t, bot.Deliver(context.Background(), digestWith(2), nil))

	require.Len(t, fake.sent, 1)
	assert.Equal(t, int64(42), fake.sent[0].ChatID)
	assert.Equal(t, tgbotapi.ModeHTML, fake.sent[0].ParseMode)
	assert.True(t, fake.sent[0].DisableWebPagePreview)
}

func TestDeliver_Error(t *testing.T) {
	bot := &Bot{api: &fakeSender{err: errors.New("Bad Request: chat not found")}, chatID: 42, logger: logging.Discard()}

	err := bot.Deliver(context.Background(), digestWith(1), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}
