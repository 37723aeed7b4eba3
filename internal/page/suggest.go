package page

import (
	"net/url"
	"strings"

	"github.com/nao1215/stopverifage/internal/model"
)

// Suggestion is a submission of the suggestion form. It is only
// acknowledged and logged; nothing is stored.
type Suggestion struct {
	Name             string
	URL              string
	Category         []string
	VerificationType string
	Country          []string
	Description      string
	Alternatives     []model.Alternative
}

// ParseSuggestion reads a suggestion from submitted form values.
// Alternatives are given one per line as "name | url | description";
// lines with fewer than two fields are ignored.
func ParseSuggestion(form url.Values) Suggestion {
	return Suggestion{
		Name:             strings.TrimSpace(form.Get("name")),
		URL:              strings.TrimSpace(form.Get("url")),
		Category:         nonBlank(form["category"]),
		VerificationType: strings.TrimSpace(form.Get("verification_type")),
		Country:          nonBlank(form["country"]),
		Description:      strings.TrimSpace(form.Get("description")),
		Alternatives:     parseAlternatives(form.Get("alternatives")),
	}
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseAlternatives(raw string) []model.Alternative {
	var out []model.Alternative
	for _, line := range strings.Split(raw, "\n") {
		parts := strings.Split(line, "|")
		if len(parts) < 2 {
			continue
		}
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		alt := model.Alternative{Name: parts[0], URL: parts[1]}
		if len(parts) > 2 {
			alt.Description = parts[2]
		}
		out = append(out, alt)
	}
	return out
}
