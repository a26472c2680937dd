package filter

import (
	"strings"

	"github.com/artistritesh/Job-Alerts/internal/models"
)

// SponsorshipKeywords signal visa or relocation support in a description.
var SponsorshipKeywords = []string{"visa", "relocation", "sponsorship", "work permit"}

// Classify returns SponsorshipYes iff text mentions any sponsorship keyword,
// case-insensitively.
func Classify(text string) models.Sponsorship {
	folded := foldText(cleanText(text))
	for _, kw := range SponsorshipKeywords {
		if strings.Contains(folded, kw) {
			return models.SponsorshipYes
		}
	}
	return models.SponsorshipNo
}
