package web

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/nao1215/stopverifage/internal/directory"
	"github.com/nao1215/stopverifage/internal/model"
	"github.com/nao1215/stopverifage/internal/page"
)

// DynamicLinks is the URL scheme of the preview server.
type DynamicLinks struct {
	// Prefix is prepended to every path, e.g. "/annuaire". Empty serves
	// from the root.
	Prefix string
}

// Index implements page.Links.
func (l DynamicLinks) Index() string { return l.Prefix + "/" }

// List implements page.Links.
func (l DynamicLinks) List(f directory.Filter) string {
	if v := page.FilterValues(f); len(v) > 0 {
		return l.Prefix + "/list?" + v.Encode()
	}
	return l.Prefix + "/list"
}

// Search implements page.Links.
func (l DynamicLinks) Search() string { return l.Prefix + "/search" }

// Site implements page.Links.
func (l DynamicLinks) Site(id int) string { return l.Prefix + "/sites/" + strconv.Itoa(id) }

// Suggest implements page.Links.
func (l DynamicLinks) Suggest() string { return l.Prefix + "/suggest" }

// Asset implements page.Links.
func (l DynamicLinks) Asset(name string) string { return l.Prefix + "/static/" + name }

// ClientSide implements page.Links.
func (DynamicLinks) ClientSide() bool { return false }

// Paths of a static export, relative to its root.
const (
	IndexFile    = "index.html"
	ListFile     = "list.html"
	SuggestFile  = "suggest.html"
	SitesDir     = "sites"
	CategoryDir  = "categories"
	CountryDir   = "countries"
	StaticDir    = "static"
	DataFile     = "data/sites.json"
	ManifestFile = "manifest.json"
)

// StaticLinks is the URL scheme of a static export. Links are relative so
// the export can be served from any directory or opened from disk.
type StaticLinks struct {
	root       string
	categories map[string]string
	countries  map[string]string
}

// NewStaticLinks returns the links of an export of sites. Each category
// and country gets its own pre-rendered list page.
func NewStaticLinks(sites []model.Site, locale string) *StaticLinks {
	return &StaticLinks{
		categories: uniqueSlugs(directory.Categories(sites, locale)),
		countries:  uniqueSlugs(directory.Countries(sites, locale)),
	}
}

// At returns the same links as seen from a page depth directories below the root.
func (l *StaticLinks) At(depth int) *StaticLinks {
	c := *l
	c.root = strings.Repeat("../", depth)
	return &c
}

// CategoryPath returns the export path of a category's list page.
func (l *StaticLinks) CategoryPath(category string) (string, bool) {
	slug, ok := l.categories[category]
	if !ok {
		return "", false
	}
	return CategoryDir + "/" + slug + ".html", true
}

// CountryPath returns the export path of a country's list page.
func (l *StaticLinks) CountryPath(country string) (string, bool) {
	slug, ok := l.countries[country]
	if !ok {
		return "", false
	}
	return CountryDir + "/" + slug + ".html", true
}

// SitePath returns the export path of a detail page.
func SitePath(id int) string {
	return fmt.Sprintf("%s/%d.html", SitesDir, id)
}

// Index implements page.Links.
func (l *StaticLinks) Index() string { return l.root + IndexFile }

// List implements page.Links. Single-criterion filters on a category or
// a country point to their pre-rendered page; any other filter points to
// the full list, which the browser narrows.
func (l *StaticLinks) List(f directory.Filter) string {
	if strings.TrimSpace(f.Query) == "" && len(f.Verification) == 0 {
		switch {
		case f.Category != "" && f.Country == "":
			if p, ok := l.CategoryPath(f.Category); ok {
				return l.root + p
			}
		case f.Country != "" && f.Category == "":
			if p, ok := l.CountryPath(f.Country); ok {
				return l.root + p
			}
		}
	}
	if v := page.FilterValues(f); len(v) > 0 {
		return l.root + ListFile + "?" + v.Encode()
	}
	return l.root + ListFile
}

// Search implements page.Links.
func (l *StaticLinks) Search() string { return l.root + ListFile }

// Site implements page.Links.
func (l *StaticLinks) Site(id int) string { return l.root + SitePath(id) }

// Suggest implements page.Links.
func (l *StaticLinks) Suggest() string { return l.root + SuggestFile }

// Asset implements page.Links.
func (l *StaticLinks) Asset(name string) string { return l.root + StaticDir + "/" + name }

// ClientSide implements page.Links.
func (*StaticLinks) ClientSide() bool { return true }

// Slug returns a file-name-safe form of s: accents removed, lower case,
// runs of other characters collapsed to a hyphen.
func Slug(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, s)
	if err != nil {
		plain = s
	}

	var b strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(plain) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			hyphen = false
			continue
		}
		if !hyphen && b.Len() > 0 {
			b.WriteByte('-')
			hyphen = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return "x"
	}
	return slug
}

// uniqueSlugs assigns each value a distinct slug, suffixing collisions
// with -2, -3 ... in the order given.
func uniqueSlugs(values []string) map[string]string {
	out := make(map[string]string, len(values))
	used := make(map[string]bool, len(values))
	for _, v := range values {
		base := Slug(v)
		slug := base
		for n := 2; used[slug]; n++ {
			slug = base + "-" + strconv.Itoa(n)
		}
		used[slug] = true
		out[v] = slug
	}
	return out
}
