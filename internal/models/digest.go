package models

import "time"

// Digest is the ordered set of jobs assembled for one notification.
type Digest struct {
	RunID       string    `json:"run_id"`
	Label       string    `json:"label"`
	Subject     string    `json:"subject"`
	GeneratedAt time.Time `json:"generated_at"`
	Jobs        []Job     `json:"jobs"`
}
