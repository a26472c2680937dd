package models

import "time"

type Sponsorship int

const (
	SponsorshipNo Sponsorship = iota
	SponsorshipYes
)

func (s Sponsorship) String() string {
	if s == SponsorshipYes {
		return "Yes"
	}
	return "No"
}

func (s Sponsorship) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Job is the canonical posting every raw search record is normalized into.
// Link is never empty for a job that made it past normalization.
type Job struct {
	Title       string      `json:"title"`
	Company     string      `json:"company"`
	Location    string      `json:"location"`
	Link        string      `json:"link"`
	Description string      `json:"-"`
	PostedAtRaw string      `json:"posted_at_raw,omitempty"`
	PostedDate  *time.Time  `json:"posted_date,omitempty"`
	Sponsorship Sponsorship `json:"sponsorship"`
	Query       SearchQuery `json:"query"`
}
