package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/artistritesh/Job-Alerts/internal/config"
	"github.com/artistritesh/Job-Alerts/internal/dedup"
	"github.com/artistritesh/Job-Alerts/internal/digest"
	"github.com/artistritesh/Job-Alerts/internal/filter"
	"github.com/artistritesh/Job-Alerts/internal/logging"
	"github.com/artistritesh/Job-Alerts/internal/models"
	"github.com/artistritesh/Job-Alerts/internal/search"
)

// Deliverer sends a finished digest somewhere (email, telegram).
type Deliverer interface {
	Name() string
	Deliver(ctx context.Context, d models.Digest, recipients []string) error
}

type Runner struct {
	Config     *config.Config
	Searcher   search.Searcher
	Pipeline   filter.Pipeline
	Deliverers []Deliverer
	Logger     *slog.Logger
	Now        func() time.Time
}

// Result summarizes one run.
type Result struct {
	Queries        int
	FailedQueries  int
	Fetched        int
	Stats          filter.Stats
	Duplicates     int
	Digest         *models.Digest
	ArchivePath    string
	Delivered      []string
	DeliveryErrors map[string]error
}

// New wires a Runner from config; the pipeline is derived from the filter settings.
func New(cfg *config.Config, s search.Searcher, logger *slog.Logger, deliverers ...Deliverer) *Runner {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Runner{
		Config:   cfg,
		Searcher: s,
		Pipeline: filter.Pipeline{
			Normalizer:         filter.Normalizer{TitleCase: cfg.TitleCase},
			Recency:            filter.Recency{DaysBack: cfg.DaysBackLimit},
			Keywords:           cfg.Keywords,
			StrictMatch:        cfg.StrictMatch,
			RequireSponsorship: cfg.RequireSponsorship,
			Logger:             logger.With("component", "filter"),
		},
		Deliverers: deliverers,
		Logger:     logger,
	}
}

// Run searches every keyword/location pair, filters, builds the digest and
// hands it to each deliverer. Only a canceled context makes it fail; search
// and delivery problems are logged and reported in Result.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	logger := r.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	pipeline := r.Pipeline
	if pipeline.Recency.Now == nil {
		pipeline.Recency.Now = now
	}

	var res Result
	queries := models.Queries(r.Config.Keywords, r.Config.Locations)
	res.Queries = len(queries)

	var raws []search.RawJob
	for _, q := range queries {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("run canceled: %w", err)
		}
		logger.Info("searching", "query", q.String())
		found, err := r.Searcher.Search(ctx, q)
		if err != nil {
			res.FailedQueries++
			logger.Error("search failed, skipping query", "query", q.String(), "error", err)
			continue
		}
		logger.Debug("search finished", "query", q.String(), "results", len(found))
		raws = append(raws, found...)
	}
	res.Fetched = len(raws)

	jobs, stats := pipeline.Apply(raws)
	res.Stats = stats
	logger.Info("filtering finished", "fetched", stats.Input, "kept", stats.Kept, "dropped", stats.Dropped)

	if r.Config.Deduplicate {
		jobs, res.Duplicates = dedup.Filter(jobs)
		logger.Info("deduplication", "unique", len(jobs), "duplicates", res.Duplicates)
	}

	d, err := digest.Build(jobs, r.Config.Subject, now())
	if errors.Is(err, digest.ErrEmptyDigest) {
		logger.Info("no new jobs, nothing to send")
		return res, nil
	}
	if err != nil {
		return res, err
	}
	res.Digest = &d
	logger.Info("digest built", "run_id", d.RunID, "subject", d.Subject, "jobs", len(d.Jobs))

	if dir := r.Config.ArchiveDir; dir != "" {
		path, err := digest.Archive(dir, d)
		if err != nil {
			logger.Warn("failed to archive digest", "dir", dir, "error", err)
		} else {
			res.ArchivePath = path
			logger.Info("digest archived", "path", path)
		}
	}

	if r.Config.DryRun {
		logger.Info("dry run, skipping delivery")
		for i, job := range d.Jobs {
			logger.Info("job", "n", i+1, "title", job.Title, "company", job.Company,
				"location", job.Location, "sponsorship", job.Sponsorship.String(), "link", job.Link)
		}
		return res, nil
	}

	for _, dl := range r.Deliverers {
		if err := dl.Deliver(ctx, d, r.Config.SMTP.Recipients); err != nil {
			if res.DeliveryErrors == nil {
				res.DeliveryErrors = map[string]error{}
			}
			res.DeliveryErrors[dl.Name()] = err
			logger.Error("delivery failed", "channel", dl.Name(), "error", err)
			continue
		}
		res.Delivered = append(res.Delivered, dl.Name())
		logger.Info("digest delivered", "channel", dl.Name())
	}
	return res, nil
}
