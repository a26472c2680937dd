package filter

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const DefaultDaysBack = 7

var (
	isoDateRegex   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	slashDateRegex = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	monthDateRegex = regexp.MustCompile(`^[A-Za-z]{3,9}\.? \d{1,2}, \d{4}$`)
	relativeRegex  = regexp.MustCompile(`(?i)\b(\d+)\s*\+?\s*(days?|hours?)\b`)
)

// Recency decides whether a posting falls inside the look-back window.
// Everything is computed on local calendar dates.
type Recency struct {
	DaysBack int
	Now      func() time.Time
}

func (r Recency) today() time.Time {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	return dateOf(now())
}

func (r Recency) daysBack() int {
	if r.DaysBack <= 0 {
		return DefaultDaysBack
	}
	return r.DaysBack
}

// Cutoff is the earliest posting date still considered recent.
func (r Recency) Cutoff() time.Time {
	return r.today().AddDate(0, 0, -r.daysBack())
}

// PostedDate resolves a free-text posting date. Anything it cannot make
// sense of is treated as posted today, so a bad date never hides a job.
func (r Recency) PostedDate(raw string) time.Time {
	today := r.today()
	s := strings.TrimSpace(raw)
	if s == "" {
		return today
	}

	//absolute dates: parse exactly or give up and treat as today
	if d, matched := parseAbsolute(s); matched {
		if d.IsZero() {
			return today
		}
		return d
	}

	//relative: "3 days ago", "30+ days ago", "5 hours ago"
	if m := relativeRegex.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return today
		}
		if strings.HasPrefix(strings.ToLower(m[2]), "day") {
			return today.AddDate(0, 0, -n)
		}
		//no sub-day precision
		return today
	}

	return today
}

// IsRecent reports whether the posting is not strictly earlier than Cutoff.
func (r Recency) IsRecent(raw string) (time.Time, bool) {
	posted := r.PostedDate(raw)
	return posted, !posted.Before(r.Cutoff())
}

// parseAbsolute returns matched=true when s looks like an absolute date.
// A zero time with matched=true means the pattern matched but the date is invalid.
func parseAbsolute(s string) (time.Time, bool) {
	switch {
	case isoDateRegex.MatchString(s):
		d, err := time.ParseInLocation("2006-01-02", s[:10], time.Local)
		if err != nil {
			return time.Time{}, true
		}
		return d, true

	case slashDateRegex.MatchString(s):
		//assume dd/mm/yyyy
		d, err := time.ParseInLocation("2/1/2006", s, time.Local)
		if err != nil {
			return time.Time{}, true
		}
		return d, true

	case monthDateRegex.MatchString(s):
		s = strings.Replace(s, ".", "", 1)
		for _, layout := range []string{"Jan 2, 2006", "January 2, 2006"} {
			if d, err := time.ParseInLocation(layout, s, time.Local); err == nil {
				return d, true
			}
		}
		return time.Time{}, true
	}
	return time.Time{}, false
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
