package filter

import (
	"errors"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/artistritesh/Job-Alerts/internal/models"
	"github.com/artistritesh/Job-Alerts/internal/search"
)

const noTitle = "No title"

// ErrMissingLink marks a record with no apply, related or share link.
var ErrMissingLink = errors.New("missing link")

var (
	htmlTagRegex   = regexp.MustCompile(`<[a-zA-Z/][^>]*>`)
	postedExtRegex = regexp.MustCompile(`(?i)\b\d+\+?\s*(hour|hours|day|days)\s+ago\b`)
)

// Normalizer turns raw search records into models.Job.
// TitleCase is off by default; it mangles names like "SAFe" or "McKinsey".
type Normalizer struct {
	TitleCase bool
}

func (n Normalizer) Normalize(raw search.RawJob) (models.Job, error) {
	link := resolveLink(raw)
	if link == "" {
		return models.Job{}, ErrMissingLink
	}

	title := cleanText(raw.Title)
	if title == "" {
		title = noTitle
	} else if n.TitleCase {
		title = cases.Title(language.English).String(title)
	}

	return models.Job{
		Title:       title,
		Company:     cleanText(raw.CompanyName),
		Location:    cleanText(raw.Location),
		Link:        link,
		Description: descriptionText(raw),
		PostedAtRaw: postedAtRaw(raw),
		Query:       raw.Query,
	}, nil
}

// resolveLink: first apply option, then related links, then the share link.
func resolveLink(raw search.RawJob) string {
	for _, opt := range raw.ApplyOptions {
		if l := strings.TrimSpace(opt.Link); l != "" {
			return l
		}
	}
	for _, rel := range raw.RelatedLinks {
		if l := strings.TrimSpace(rel.Link); l != "" {
			return l
		}
	}
	return strings.TrimSpace(raw.ShareLink)
}

func descriptionText(raw search.RawJob) string {
	parts := make([]string, 0, len(raw.Extensions)+1)
	if d := stripHTML(raw.Description); d != "" {
		parts = append(parts, d)
	}
	for _, ext := range raw.Extensions {
		if e := cleanText(ext); e != "" {
			parts = append(parts, e)
		}
	}
	return strings.Join(parts, " ")
}

// stripHTML flattens markup some listings embed in the description.
func stripHTML(s string) string {
	if !htmlTagRegex.MatchString(s) {
		return cleanText(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return cleanText(htmlTagRegex.ReplaceAllString(s, " "))
	}
	var parts []string
	collectText(doc.Find("body"), &parts)
	return strings.Join(parts, " ")
}

func collectText(sel *goquery.Selection, parts *[]string) {
	sel.Contents().Each(func(_ int, c *goquery.Selection) {
		if goquery.NodeName(c) == "#text" {
			if t := cleanText(c.Text()); t != "" {
				*parts = append(*parts, t)
			}
			return
		}
		collectText(c, parts)
	})
}

func postedAtRaw(raw search.RawJob) string {
	if p := cleanText(raw.DetectedExtensions.PostedAt); p != "" {
		return p
	}
	for _, ext := range raw.Extensions {
		if postedExtRegex.MatchString(ext) {
			return cleanText(ext)
		}
	}
	return ""
}
