package mailer

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-message/mail"

	"github.com/artistritesh/Job-Alerts/internal/digest"
	"github.com/artistritesh/Job-Alerts/internal/models"
)

type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// BuildMessage composes a multipart/alternative (text + HTML) message with
// optional attachments.
func BuildMessage(from *mail.Address, to []*mail.Address, d models.Digest, attachments ...Attachment) ([]byte, error) {
	htmlBody, err := digest.RenderHTML(d)
	if err != nil {
		return nil, err
	}

	var h mail.Header
	h.SetDate(d.GeneratedAt)
	h.SetAddressList("From", []*mail.Address{from})
	h.SetAddressList("To", to)
	h.SetSubject(d.Subject)
	h.SetMessageID(messageID(d.RunID, from.Address))

	var buf bytes.Buffer
	mw, err := mail.CreateWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("create mail writer: %w", err)
	}

	tw, err := mw.CreateInline()
	if err != nil {
		return nil, fmt.Errorf("create inline part: %w", err)
	}
	if err := writePart(tw, "text/plain", digest.RenderText(d)); err != nil {
		return nil, err
	}
	if err := writePart(tw, "text/html", htmlBody); err != nil {
		return nil, err
	}
	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("close inline part: %w", err)
	}

	for _, a := range attachments {
		var ah mail.AttachmentHeader
		ah.Set("Content-Type", a.ContentType)
		ah.SetFilename(a.Filename)
		w, err := mw.CreateAttachment(ah)
		if err != nil {
			return nil, fmt.Errorf("create attachment %s: %w", a.Filename, err)
		}
		if _, err := w.Write(a.Data); err != nil {
			return nil, fmt.Errorf("write attachment %s: %w", a.Filename, err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("close attachment %s: %w", a.Filename, err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close mail writer: %w", err)
	}
	return buf.Bytes(), nil
}

func writePart(tw *mail.InlineWriter, contentType, body string) error {
	var ph mail.InlineHeader
	ph.SetContentType(contentType, map[string]string{"charset": "utf-8"})
	w, err := tw.CreatePart(ph)
	if err != nil {
		return fmt.Errorf("create %s part: %w", contentType, err)
	}
	if _, err := io.WriteString(w, body); err != nil {
		return fmt.Errorf("write %s part: %w", contentType, err)
	}
	return w.Close()
}

func messageID(runID, sender string) string {
	domain := "job-alerts.local"
	if at := strings.LastIndex(sender, "@"); at >= 0 && at < len(sender)-1 {
		domain = sender[at+1:]
	}
	return runID + "@" + domain
}

// ParseRecipients parses each address, skipping blanks.
func ParseRecipients(list []string) ([]*mail.Address, error) {
	out := make([]*mail.Address, 0, len(list))
	for _, r := range list {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		addr, err := mail.ParseAddress(r)
		if err != nil {
			return nil, fmt.Errorf("invalid recipient %q: %w", r, err)
		}
		out = append(out, addr)
	}
	return out, nil
}
