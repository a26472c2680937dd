// Raw search records and the interface every search backend implements

package search

import (
	"context"

	"github.com/artistritesh/Job-Alerts/internal/models"
)

// RawJob is one google_jobs result as SerpAPI returns it. Any field may be
// missing; filter.Normalizer absorbs the variance.
type RawJob struct {
	JobID              string             `json:"job_id"`
	Title              string             `json:"title"`
	CompanyName        string             `json:"company_name"`
	Location           string             `json:"location"`
	Via                string             `json:"via"`
	Description        string             `json:"description"`
	Extensions         []string           `json:"extensions"`
	DetectedExtensions DetectedExtensions `json:"detected_extensions"`
	ApplyOptions       []Link             `json:"apply_options"`
	RelatedLinks       []Link             `json:"related_links"`
	ShareLink          string             `json:"share_link"`

	// Query is filled in by the client, not by the API.
	Query models.SearchQuery `json:"-"`
}

type DetectedExtensions struct {
	PostedAt     string `json:"posted_at"`
	ScheduleType string `json:"schedule_type"`
	WorkFromHome bool   `json:"work_from_home"`
}

type Link struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	Link  string `json:"link"`
}

// Searcher defines the interface that every search backend must implement
type Searcher interface {
	// Search returns at most the configured number of raw records for one query.
	Search(ctx context.Context, q models.SearchQuery) ([]RawJob, error)

	// Name is the backend name (SerpAPI, ...)
	Name() string
}
