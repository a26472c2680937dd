package models

import "fmt"

// SearchQuery pairs one keyword with one location.
type SearchQuery struct {
	Keyword  string `json:"keyword" yaml:"keyword"`
	Location string `json:"location" yaml:"location"`
}

func (q SearchQuery) String() string {
	return fmt.Sprintf("%s jobs in %s", q.Keyword, q.Location)
}

// Queries enumerates keywords x locations, keyword-major.
func Queries(keywords, locations []string) []SearchQuery {
	out := make([]SearchQuery, 0, len(keywords)*len(locations))
	for _, kw := range keywords {
		for _, loc := range locations {
			out = append(out, SearchQuery{Keyword: kw, Location: loc})
		}
	}
	return out
}
