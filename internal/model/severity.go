package model

import "strings"

// Severity represents how intrusive a site's verification is for visitors.
// Levels are ordered so that comparisons and sorting work directly.
type Severity int

const (
	// SeverityLow is an optional verification that is not tied to a single country.
	SeverityLow Severity = iota

	// SeverityMedium covers planned or experimental verification, optional
	// verification limited to some countries, and anything unclassified.
	SeverityMedium

	// SeverityHigh is a mandatory verification limited to one country.
	SeverityHigh

	// SeverityVeryHigh is a mandatory verification applied globally, or a
	// site that blocks access altogether.
	SeverityVeryHigh
)

// String returns the machine-readable name of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityVeryHigh:
		return "very-high"
	default:
		return "unknown"
	}
}

// Label returns the label shown to visitors.
func (s Severity) Label() string {
	switch s {
	case SeverityLow:
		return "Faible"
	case SeverityHigh:
		return "Élevé"
	case SeverityVeryHigh:
		return "Très élevé"
	default:
		return "Moyen"
	}
}

// CSSClass returns the stylesheet class used for the severity badge.
func (s Severity) CSSClass() string {
	if s < SeverityLow || s > SeverityVeryHigh {
		return "severity-medium"
	}
	return "severity-" + s.String()
}

// Status keywords, matched against the lower-cased status text.
var (
	optionalKeywords  = []string{"facultatif", "facultative", "optionnel", "optionnelle"}
	mandatoryKeywords = []string{"obligatoire", "requise", "requis", "mandatory"}
	blockedKeywords   = []string{"bloqué", "blocage", "non accessible"}

	// globalScopes are country values that mean "everywhere".
	globalScopes = []string{"international", "global", "monde"}
)

// ComputeSeverity derives a severity from a status text and the list of
// countries where the verification applies.
//
// Blocking always wins. A mandatory verification is very high when its
// scope is global and high otherwise. An optional one is low when global
// and medium otherwise. Anything else is medium.
func ComputeSeverity(status string, countries []string) Severity {
	lower := strings.ToLower(status)

	switch {
	case containsAny(lower, blockedKeywords):
		return SeverityVeryHigh
	case containsAny(lower, mandatoryKeywords):
		if isGlobalScope(countries) {
			return SeverityVeryHigh
		}
		return SeverityHigh
	case containsAny(lower, optionalKeywords):
		if isGlobalScope(countries) {
			return SeverityLow
		}
		return SeverityMedium
	default:
		return SeverityMedium
	}
}

// isGlobalScope reports whether a country list covers more than one
// country. No country at all counts as global.
func isGlobalScope(countries []string) bool {
	codes := make([]string, 0, len(countries))
	for _, c := range countries {
		if c = strings.TrimSpace(c); c != "" {
			codes = append(codes, strings.ToLower(c))
		}
	}
	if len(codes) != 1 {
		return true
	}
	for _, scope := range globalScopes {
		if codes[0] == scope {
			return true
		}
	}
	return false
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
