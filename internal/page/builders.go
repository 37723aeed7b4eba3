package page

import (
	"slices"

	"github.com/nao1215/stopverifage/internal/directory"
	"github.com/nao1215/stopverifage/internal/model"
)

// Stylesheet and Script are the static assets every page references.
const (
	Stylesheet = "style.css"
	Script     = "app.js"
)

func (b *Builder) nav() Nav {
	return Nav{
		Index:      b.links.Index(),
		List:       b.links.List(directory.Filter{}),
		Suggest:    b.links.Suggest(),
		Search:     b.links.Search(),
		Stylesheet: b.links.Asset(Stylesheet),
		Script:     b.links.Asset(Script),
		ClientSide: b.links.ClientSide(),
	}
}

// Index builds the landing page: every category linking to the list
// narrowed to it, and the most recently added sites.
func (b *Builder) Index(sites []model.Site) IndexView {
	cats := directory.Categories(sites, b.locale)
	links := make([]CategoryLink, len(cats))
	for i, c := range cats {
		links[i] = CategoryLink{Name: c, URL: b.links.List(directory.Filter{Category: c})}
	}

	recent := directory.Recent(sites, b.recent)
	summaries := make([]Summary, len(recent))
	for i, s := range recent {
		summaries[i] = Summary{
			Name:             s.Name,
			CategoryText:     s.CategoryText(),
			VerificationType: s.VerificationType,
			URL:              b.links.Site(s.ID),
		}
	}

	return IndexView{Nav: b.nav(), Categories: links, Recent: summaries}
}

// List builds the list page for a filter: option lists with the current
// selection marked and the matching sites sorted by name.
func (b *Builder) List(sites []model.Site, f directory.Filter) ListView {
	matched := directory.Search(sites, f, b.locale)
	rows := make([]Row, len(matched))
	for i, s := range matched {
		rows[i] = Row{
			ID:               s.ID,
			Name:             s.Name,
			URL:              b.links.Site(s.ID),
			CategoryText:     s.CategoryText(),
			VerificationType: s.VerificationType,
			Status:           s.Status,
			Severity:         s.Severity(),
			Category:         s.Category,
			Country:          s.Country,
		}
	}

	return ListView{
		Nav:         b.nav(),
		Filter:      f,
		Categories:  options(directory.Categories(sites, b.locale), f.Category),
		Countries:   options(directory.Countries(sites, b.locale), f.Country),
		Rows:        rows,
		Placeholder: MsgNoResults,
		Columns:     ListColumns,

		Verifications: keywordOptions(directory.VerificationKeywords, f.Verification),
	}
}

func keywordOptions(values, selected []string) []SelectOption {
	out := make([]SelectOption, len(values))
	for i, v := range values {
		out[i] = SelectOption{Value: v, Selected: slices.Contains(selected, v)}
	}
	return out
}

func options(values []string, selected string) []SelectOption {
	out := make([]SelectOption, len(values))
	for i, v := range values {
		out[i] = SelectOption{Value: v, Selected: v == selected}
	}
	return out
}

// Site builds the detail page for the raw identifier parameter.
// Unparsable or unknown identifiers yield a not-found view.
func (b *Builder) Site(sites []model.Site, rawID string) SiteView {
	notFound := SiteView{Nav: b.nav(), NotFound: MsgSiteNotFound}

	id, ok := ParseSiteID(rawID)
	if !ok {
		return notFound
	}
	s, ok := directory.Find(sites, id)
	if !ok {
		return notFound
	}
	return b.SiteView(s)
}

// SiteView builds the detail page of a known site.
func (b *Builder) SiteView(s model.Site) SiteView {
	alts := make([]AlternativeView, len(s.Alternatives))
	for i, a := range s.Alternatives {
		alts[i] = AlternativeView(a)
	}

	return SiteView{
		Nav:              b.nav(),
		Found:            true,
		ID:               s.ID,
		Name:             s.Name,
		URL:              s.URL,
		CategoryText:     s.CategoryText(),
		CountryText:      s.CountryText(),
		Flags:            s.Flags(),
		Description:      s.Description,
		VerificationType: s.VerificationType,
		Context:          s.Context,
		DateInEffect:     s.DateInEffect,
		Status:           s.Status,
		Severity:         s.Severity(),
		SourcesText:      s.SourcesText(),
		Alternatives:     alts,
		NoAlternatives:   MsgNoAlternatives,
	}
}

// Suggest builds the suggestion form. When submitted is set the view
// carries the acknowledgement and an empty form.
func (b *Builder) Suggest(sites []model.Site, submitted bool) SuggestView {
	v := SuggestView{
		Nav:        b.nav(),
		Action:     b.links.Suggest(),
		Categories: directory.Categories(sites, b.locale),
		Countries:  directory.Countries(sites, b.locale),
		Submitted:  submitted,
		Thanks:     MsgSuggestionThank,
	}
	if submitted {
		v.Message = MsgSuggestionThank
	}
	return v
}
