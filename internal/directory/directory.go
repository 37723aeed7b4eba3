// Package directory implements the read-only queries the pages are built
// from: filtering, locale-aware sorting, option lists, recent entries and
// lookup by identifier.
//
// Every function takes the site list as loaded and never modifies it.
// Functions that reorder sites work on a copy.
package directory

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/nao1215/stopverifage/internal/model"
)

// DefaultLocale is the locale used for name collation when none is configured.
const DefaultLocale = "fr"

// DefaultRecentCount is the number of entries shown as recent on the landing page.
const DefaultRecentCount = 4

// Filter narrows the site list. Empty fields are ignored.
type Filter struct {
	// Query is matched case-insensitively as a substring of the site name.
	Query string

	// Category keeps sites whose category list contains exactly this value.
	Category string

	// Country keeps sites whose country list contains exactly this value.
	Country string

	// Verification keeps sites whose verification type mentions any of
	// these keywords, caselessly.
	Verification []string
}

// VerificationKeywords are the verification methods offered as filters.
var VerificationKeywords = []string{
	"Pièce d’identité",
	"Selfie",
	"Selfie vidéo",
	"Estimation faciale",
	"Carte bancaire",
	"Numéro de téléphone",
	"Yoti",
	"Persona",
	"Veriff",
	"FaceTec",
	"Stripe",
	"k‑iD",
	"Pas d’ID requis",
}

// IsZero reports whether the filter keeps every site.
func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.Query) == "" && f.Category == "" && f.Country == "" &&
		!slices.ContainsFunc(f.Verification, isKeyword)
}

// Match reports whether a site passes every non-empty criterion.
func (f Filter) Match(site model.Site) bool {
	if q := strings.TrimSpace(f.Query); q != "" {
		if !strings.Contains(fold(site.Name), fold(q)) {
			return false
		}
	}
	if f.Category != "" && !site.HasCategory(f.Category) {
		return false
	}
	if f.Country != "" && !site.HasCountry(f.Country) {
		return false
	}
	return f.matchVerification(site.VerificationType)
}

// matchVerification reports whether any non-blank keyword occurs in
// verificationType. Blank keywords are ignored.
func (f Filter) matchVerification(verificationType string) bool {
	wanted := false
	folded := fold(verificationType)
	for _, k := range f.Verification {
		if !isKeyword(k) {
			continue
		}
		if strings.Contains(folded, fold(strings.TrimSpace(k))) {
			return true
		}
		wanted = true
	}
	return !wanted
}

func isKeyword(k string) bool {
	return strings.TrimSpace(k) != ""
}

// Apply returns the sites that match the filter, in their original order.
// The result is a new slice; the input is left untouched.
func (f Filter) Apply(sites []model.Site) []model.Site {
	out := make([]model.Site, 0, len(sites))
	for _, s := range sites {
		if f.Match(s) {
			out = append(out, s)
		}
	}
	return out
}

// fold returns the case-folded form of s for caseless comparison.
func fold(s string) string {
	return cases.Fold().String(s)
}

// Collator compares strings under the rules of a locale.
// A Collator is not safe for concurrent use; create one per call site.
type Collator struct {
	c *collate.Collator
}

// NewCollator returns a collator for the given BCP 47 locale.
// Unknown or malformed locales fall back to DefaultLocale.
func NewCollator(locale string) *Collator {
	tag, err := language.Parse(locale)
	if err != nil || locale == "" {
		tag = language.MustParse(DefaultLocale)
	}
	return &Collator{c: collate.New(tag)}
}

// Compare returns an integer comparing a and b under the locale rules.
func (c *Collator) Compare(a, b string) int {
	return c.c.CompareString(a, b)
}

// SortByName returns a copy of sites sorted by name under the locale's
// collation. Sites with equal names keep their relative order.
func SortByName(sites []model.Site, locale string) []model.Site {
	out := slices.Clone(sites)
	col := NewCollator(locale)
	slices.SortStableFunc(out, func(a, b model.Site) int {
		return col.Compare(a.Name, b.Name)
	})
	return out
}

// Search filters then sorts, which is what the list page shows.
func Search(sites []model.Site, f Filter, locale string) []model.Site {
	return SortByName(f.Apply(sites), locale)
}

// Categories returns the distinct categories across all sites, sorted
// under the locale's collation.
func Categories(sites []model.Site, locale string) []string {
	return distinct(sites, func(s model.Site) []string { return s.Category }, locale)
}

// Countries returns the distinct countries across all sites, sorted under
// the locale's collation.
func Countries(sites []model.Site, locale string) []string {
	return distinct(sites, func(s model.Site) []string { return s.Country }, locale)
}

func distinct(sites []model.Site, values func(model.Site) []string, locale string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, s := range sites {
		for _, v := range values(s) {
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	col := NewCollator(locale)
	slices.SortStableFunc(out, col.Compare)
	return out
}

// Recent returns the n sites with the highest identifiers, highest first.
// A non-positive n returns an empty slice.
func Recent(sites []model.Site, n int) []model.Site {
	if n <= 0 {
		return []model.Site{}
	}
	out := slices.Clone(sites)
	slices.SortStableFunc(out, func(a, b model.Site) int {
		return cmp.Compare(b.ID, a.ID)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Find returns the site with the given identifier.
// The boolean is false when no site has that identifier.
func Find(sites []model.Site, id int) (model.Site, bool) {
	for _, s := range sites {
		if s.ID == id {
			return s, true
		}
	}
	return model.Site{}, false
}
