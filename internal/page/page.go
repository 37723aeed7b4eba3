// Package page builds the view models of the directory's pages.
//
// Builders are pure: they take the loaded site list and the request
// parameters and return a value the templates render. They never modify
// the site list and never fail because of missing data; an unknown site
// identifier produces a "not found" view, an empty result a placeholder.
package page

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/nao1215/stopverifage/internal/directory"
	"github.com/nao1215/stopverifage/internal/model"
)

// ID identifies a page. Each page declares its identifier and the
// renderer dispatches on it.
type ID string

// Page identifiers.
const (
	Index   ID = "index"
	List    ID = "list"
	Site    ID = "site"
	Suggest ID = "suggest"
)

// ErrUnknownPage is returned when dispatching on an undeclared page identifier.
var ErrUnknownPage = errors.New("unknown page")

// IDs returns every page identifier.
func IDs() []ID {
	return []ID{Index, List, Site, Suggest}
}

// ParseID returns the page identifier named by s.
func ParseID(s string) (ID, error) {
	for _, id := range IDs() {
		if string(id) == s {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPage, s)
}

// Query parameter names read by the list and site pages.
const (
	ParamQuery    = "q"
	ParamCategory = "category"
	ParamCountry  = "country"
	ParamID       = "id"

	// ParamVerification may repeat; sites matching any value are kept.
	ParamVerification = "verification_type"
)

// Messages shown by the pages.
const (
	MsgNoResults       = "Aucun site ne correspond à vos critères."
	MsgSiteNotFound    = "Site introuvable."
	MsgNoAlternatives  = "Aucune alternative connue."
	MsgSuggestionThank = "Merci pour votre suggestion ! Nous la prendrons en compte après vérification."
)

// ListColumns is the number of columns of the list table.
const ListColumns = 4

// Links produces the URLs pages point to. The server and the static
// build use different URL schemes.
type Links interface {
	// Index is the landing page.
	Index() string

	// List is the list page narrowed by f.
	List(f directory.Filter) string

	// Search is the action of the search forms.
	Search() string

	// Site is the detail page of a site.
	Site(id int) string

	// Suggest is the suggestion form.
	Suggest() string

	// Asset is a file under the static asset directory.
	Asset(name string) string

	// ClientSide reports whether filtering and form handling happen in
	// the browser, as on a static export with no server behind it.
	ClientSide() bool
}

// View is a page view model.
type View interface {
	// Page returns the identifier of the page the view renders.
	Page() ID
}

// Builder builds page views.
type Builder struct {
	links  Links
	locale string
	recent int
}

// Option configures a Builder.
type Option func(*Builder)

// WithLocale sets the locale used to collate names and options.
func WithLocale(locale string) Option {
	return func(b *Builder) {
		if locale != "" {
			b.locale = locale
		}
	}
}

// WithRecentCount sets the number of recent entries on the landing page.
func WithRecentCount(n int) Option {
	return func(b *Builder) {
		b.recent = n
	}
}

// NewBuilder returns a Builder producing URLs with links.
func NewBuilder(links Links, opts ...Option) *Builder {
	b := &Builder{
		links:  links,
		locale: directory.DefaultLocale,
		recent: directory.DefaultRecentCount,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Links returns the URL scheme of the builder.
func (b *Builder) Links() Links {
	return b.links
}

// Build dispatches on the page identifier. params are the page's query
// (or form) parameters.
func (b *Builder) Build(id ID, sites []model.Site, params url.Values) (View, error) {
	switch id {
	case Index:
		return b.Index(sites), nil
	case List:
		return b.List(sites, FilterFromValues(params)), nil
	case Site:
		return b.Site(sites, params.Get(ParamID)), nil
	case Suggest:
		return b.Suggest(sites, false), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPage, id)
	}
}

// FilterFromValues reads the list filter from query parameters.
// The query is kept as typed; matching is caseless.
func FilterFromValues(v url.Values) directory.Filter {
	f := directory.Filter{
		Query:    strings.TrimSpace(v.Get(ParamQuery)),
		Category: v.Get(ParamCategory),
		Country:  v.Get(ParamCountry),
	}
	if keywords := nonBlank(v[ParamVerification]); len(keywords) > 0 {
		f.Verification = keywords
	}
	return f
}

// FilterValues encodes a filter as query parameters, omitting empty fields.
func FilterValues(f directory.Filter) url.Values {
	v := url.Values{}
	if q := strings.TrimSpace(f.Query); q != "" {
		v.Set(ParamQuery, q)
	}
	if f.Category != "" {
		v.Set(ParamCategory, f.Category)
	}
	if f.Country != "" {
		v.Set(ParamCountry, f.Country)
	}
	for _, k := range nonBlank(f.Verification) {
		v.Add(ParamVerification, k)
	}
	return v
}

// SearchTarget is where a search form submission leads: the list filtered
// by q, or the bare list when q is blank.
func (b *Builder) SearchTarget(q string) string {
	return b.links.List(directory.Filter{Query: strings.TrimSpace(q)})
}

// ParseSiteID parses a site identifier the way links have always been
// read: leading spaces are skipped, then an optional sign and the digits
// that follow, ignoring any trailing text ("2abc" is 2). ok is false
// when no digit comes first.
func ParseSiteID(s string) (id int, ok bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	id, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return id, true
}
