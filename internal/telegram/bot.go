package telegram

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/artistritesh/Job-Alerts/internal/logging"
	"github.com/artistritesh/Job-Alerts/internal/models"
)

const (
	// maxMessageLen is Telegram's limit for one message text.
	maxMessageLen = 4096
	// Escaped, these keep one entry well under maxMessageLen.
	maxTitleRunes = 200
	maxFieldRunes = 100
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot mirrors the digest into a Telegram chat.
type Bot struct {
	api    sender
	chatID int64
	pause  time.Duration
	logger *slog.Logger
}

func NewBot(token string, chatID int64, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Bot{api: api, chatID: chatID, pause: time.Second, logger: logger}, nil
}

func (b *Bot) Name() string {
	return "telegram"
}

// Deliver posts the digest to the configured chat. recipients is ignored:
// the chat is fixed by configuration.
func (b *Bot) Deliver(ctx context.Context, d models.Digest, _ []string) error {
	chunks := FormatDigest(d)
	for i, text := range chunks {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg := tgbotapi.NewMessage(b.chatID, text)
		msg.ParseMode = tgbotapi.ModeHTML
		msg.DisableWebPagePreview = true
		if _, err := b.api.Send(msg); err != nil {
			return fmt.Errorf("send chunk %d/%d: %w", i+1, len(chunks), err)
		}
		//1 second delay to avoid 429
		if i < len(chunks)-1 && b.pause > 0 {
			time.Sleep(b.pause)
		}
	}
	b.logger.Info("telegram digest sent", "chunks", len(chunks), "jobs", len(d.Jobs))
	return nil
}

// FormatDigest renders the digest as HTML messages no longer than
// maxMessageLen each. A single job is never split across messages.
func FormatDigest(d models.Digest) []string {
	header := fmt.Sprintf("📬 <b>%s</b>\n\n", html.EscapeString(d.Subject))

	var chunks []string
	var cur strings.Builder
	cur.WriteString(header)
	hasJobs := false
	for i, job := range d.Jobs {
		entry := formatJob(i+1, job, true)
		if len(header)+len(entry) > maxMessageLen {
			//an oversized link cannot be shortened, so drop the anchor
			entry = formatJob(i+1, job, false)
		}
		if hasJobs && cur.Len()+len(entry) > maxMessageLen {
			chunks = append(chunks, strings.TrimRight(cur.String(), "\n"))
			cur.Reset()
		}
		cur.WriteString(entry)
		hasJobs = true
	}
	chunks = append(chunks, strings.TrimRight(cur.String(), "\n"))
	return chunks
}

func formatJob(n int, job models.Job, withLink bool) string {
	title := html.EscapeString(truncate(job.Title, maxTitleRunes))
	var b strings.Builder
	if withLink {
		fmt.Fprintf(&b, "%d. <a href=\"%s\">%s</a>\n", n, html.EscapeString(job.Link), title)
	} else {
		fmt.Fprintf(&b, "%d. <b>%s</b>\n", n, title)
	}
	if job.Company != "" {
		fmt.Fprintf(&b, "🏢 %s\n", html.EscapeString(truncate(job.Company, maxFieldRunes)))
	}
	if job.Location != "" {
		fmt.Fprintf(&b, "📍 %s\n", html.EscapeString(truncate(job.Location, maxFieldRunes)))
	}
	if job.Sponsorship == models.SponsorshipYes {
		b.WriteString("✈️ Visa/relocation mentioned\n")
	}
	b.WriteString("\n")
	return b.String()
}

// truncate cuts s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
