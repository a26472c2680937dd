package dedup

import (
	"net/url"
	"strings"

	"github.com/artistritesh/Job-Alerts/internal/models"
)

// Set remembers links seen during one run. Nothing is written to disk:
// every run starts empty.
type Set struct {
	seen map[string]struct{}
}

func NewSet() *Set {
	return &Set{seen: make(map[string]struct{})}
}

// Add records the link and reports whether it was new.
func (s *Set) Add(link string) bool {
	k := Key(link)
	if _, exists := s.seen[k]; exists {
		return false
	}
	s.seen[k] = struct{}{}
	return true
}

// Filter keeps the first occurrence of every link, preserving order.
func Filter(jobs []models.Job) (unique []models.Job, dropped int) {
	set := NewSet()
	unique = make([]models.Job, 0, len(jobs))
	for _, job := range jobs {
		if !set.Add(job.Link) {
			dropped++
			continue
		}
		unique = append(unique, job)
	}
	return unique, dropped
}

// Key canonicalizes a link: scheme and host lower-cased, utm_* and fragment
// removed, trailing slash trimmed.
func Key(link string) string {
	link = strings.TrimSpace(link)
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return strings.TrimSuffix(link, "/")
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for k := range q {
		if strings.HasPrefix(strings.ToLower(k), "utm_") {
			q.Del(k)
		}
	}
	u.RawQuery = q.Encode()
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String()
}
