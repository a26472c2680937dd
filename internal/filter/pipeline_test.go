package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artistritesh/Job-Alerts/internal/models"
	"github.com/artistritesh/Job-Alerts/internal/search"
)

func rawJob(title, link, posted, desc string) search.RawJob {
	raw := search.RawJob{
		Title:              title,
		CompanyName:        "Acme",
		Location:           "Berlin",
		Description:        desc,
		DetectedExtensions: search.DetectedExtensions{PostedAt: posted},
	}
	if link != "" {
		raw.ApplyOptions = []search.Link{{Title: "Acme", Link: link}}
	}
	return raw
}

func TestPipeline_Apply(t *testing.T) {
	p := Pipeline{
		Recency:  fixedRecency(7),
		Keywords: []string{"Scrum Master"},
	}

	raws := []search.RawJob{
		rawJob("Scrum Master", "https://a.example", "2 days ago", "Relocation offered"),
		rawJob("Scrum Master", "", "1 day ago", "visa"),
		rawJob("Scrum Master", "https://b.example", "10 days ago", "visa"),
		rawJob("Senior Developer", "https://c.example", "", "Remote work"),
	}

	jobs, stats := p.Apply(raws)

	require.Len(t, jobs, 2)
	assert.Equal(t, "https://a.example", jobs[0].Link)
	assert.Equal(t, models.SponsorshipYes, jobs[0].Sponsorship)
	require.NotNil(t, jobs[0].PostedDate)
	assert.True(t, day(2024, 5, 18).Equal(*jobs[0].PostedDate))
	assert.Equal(t, "https://c.example", jobs[1].Link)
	assert.Equal(t, models.SponsorshipNo, jobs[1].Sponsorship)

	assert.Equal(t, 4, stats.Input)
	assert.Equal(t, 2, stats.Kept)
	assert.Equal(t, map[string]int{ReasonMissingLink: 1, ReasonStale: 1}, stats.Dropped)
}

func TestPipeline_RequireSponsorship(t *testing.T) {
	p := Pipeline{Recency: fixedRecency(7), RequireSponsorship: true}

	jobs, stats := p.Apply([]search.RawJob{
		rawJob("Program Manager", "https://a.example", "", "Sponsorship available"),
		rawJob("Program Manager", "https://b.example", "", "Remote work"),
	})

	require.Len(t, jobs, 1)
	assert.Equal(t, "https://a.example", jobs[0].Link)
	assert.Equal(t, 1, stats.Dropped[ReasonNoSponsorship])
}

func TestPipeline_StrictMatch(t *testing.T) {
	p := Pipeline{Recency: fixedRecency(7), Keywords: []string{"Scrum Master"}, StrictMatch: true}

	jobs, stats := p.Apply([]search.RawJob{
		rawJob("Junior Scrum Master", "https://a.example", "", ""),
		rawJob("Senior Developer", "https://b.example", "", ""),
	})

	require.Len(t, jobs, 1)
	assert.Equal(t, "Junior Scrum Master", jobs[0].Title)
	assert.Equal(t, 1, stats.Dropped[ReasonNoMatch])
}
