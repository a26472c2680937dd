package digest

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/artistritesh/Job-Alerts/internal/models"
)

const DefaultLabel = "Daily Job Alerts"

// ErrEmptyDigest is returned by Build when no job survived filtering; the
// caller skips delivery.
var ErrEmptyDigest = errors.New("empty digest")

// Build assembles the digest in arrival order. Jobs are not re-sorted.
func Build(jobs []models.Job, label string, now time.Time) (models.Digest, error) {
	if len(jobs) == 0 {
		return models.Digest{}, ErrEmptyDigest
	}
	if label == "" {
		label = DefaultLabel
	}
	out := make([]models.Job, len(jobs))
	copy(out, jobs)

	return models.Digest{
		RunID:       uuid.NewString(),
		Label:       label,
		Subject:     Subject(label, len(out)),
		GeneratedAt: now,
		Jobs:        out,
	}, nil
}

func Subject(label string, count int) string {
	noun := "jobs"
	if count == 1 {
		noun = "job"
	}
	return fmt.Sprintf("%s: %d new %s", label, count, noun)
}
