package filter

import (
	"errors"
	"log/slog"

	"github.com/artistritesh/Job-Alerts/internal/logging"
	"github.com/artistritesh/Job-Alerts/internal/models"
	"github.com/artistritesh/Job-Alerts/internal/search"
)

// Drop reasons reported in Stats and logs.
const (
	ReasonMissingLink   = "missing_link"
	ReasonStale         = "stale"
	ReasonNoSponsorship = "no_sponsorship"
	ReasonNoMatch       = "no_match"
)

type Stats struct {
	Input   int
	Kept    int
	Dropped map[string]int
}

// Pipeline runs normalize -> recency -> sponsorship -> strict match over raw
// records, keeping arrival order.
type Pipeline struct {
	Normalizer         Normalizer
	Recency            Recency
	Keywords           []string
	StrictMatch        bool
	RequireSponsorship bool
	Logger             *slog.Logger
}

func (p Pipeline) Apply(raws []search.RawJob) ([]models.Job, Stats) {
	logger := p.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	stats := Stats{Input: len(raws), Dropped: map[string]int{}}
	kept := make([]models.Job, 0, len(raws))
	for _, raw := range raws {
		job, reason := p.evaluate(raw)
		if reason != "" {
			stats.Dropped[reason]++
			logger.Debug("job skipped",
				"reason", reason, "title", raw.Title, "company", raw.CompanyName, "query", raw.Query.String())
			continue
		}
		kept = append(kept, job)
	}
	stats.Kept = len(kept)
	return kept, stats
}

func (p Pipeline) evaluate(raw search.RawJob) (models.Job, string) {
	job, err := p.Normalizer.Normalize(raw)
	if err != nil {
		if errors.Is(err, ErrMissingLink) {
			return models.Job{}, ReasonMissingLink
		}
		return models.Job{}, err.Error()
	}

	posted, recent := p.Recency.IsRecent(job.PostedAtRaw)
	if !recent {
		return models.Job{}, ReasonStale
	}
	job.PostedDate = &posted

	job.Sponsorship = Classify(job.Description)
	if p.RequireSponsorship && job.Sponsorship != models.SponsorshipYes {
		return models.Job{}, ReasonNoSponsorship
	}

	if !Matches(job.Title, p.Keywords, p.StrictMatch) {
		return models.Job{}, ReasonNoMatch
	}
	return job, ""
}
