package page

import (
	"github.com/nao1215/stopverifage/internal/directory"
	"github.com/nao1215/stopverifage/internal/model"
)

// Nav holds the links shared by every page.
type Nav struct {
	Index      string
	List       string
	Suggest    string
	Search     string
	Stylesheet string
	Script     string
	ClientSide bool
}

// CategoryLink is a category card of the landing page.
type CategoryLink struct {
	Name string
	URL  string
}

// Summary is a recent entry on the landing page.
type Summary struct {
	Name             string
	CategoryText     string
	VerificationType string
	URL              string
}

// IndexView is the landing page.
type IndexView struct {
	Nav        Nav
	Categories []CategoryLink
	Recent     []Summary
}

// Page implements View.
func (IndexView) Page() ID { return Index }

// SelectOption is an entry of a filter drop-down.
type SelectOption struct {
	Value    string
	Selected bool
}

// Row is one line of the list table.
type Row struct {
	ID               int
	Name             string
	URL              string
	CategoryText     string
	VerificationType string
	Status           string
	Severity         model.Severity

	// Category and Country are the raw lists, used for client-side filtering.
	Category []string
	Country  []string
}

// ListView is the filterable list page.
type ListView struct {
	Nav        Nav
	Filter     directory.Filter
	Categories []SelectOption
	Countries  []SelectOption
	Rows       []Row

	// Verifications are the verification keywords; any selected one matches.
	Verifications []SelectOption

	// Placeholder is shown as a single row spanning Columns when Rows is empty.
	Placeholder string
	Columns     int
}

// Page implements View.
func (ListView) Page() ID { return List }

// Empty reports whether no site matched.
func (v ListView) Empty() bool {
	return len(v.Rows) == 0
}

// AlternativeView is an alternative listed on a detail page.
type AlternativeView struct {
	Name        string
	URL         string
	Description string
}

// SiteView is the detail page. When Found is false only NotFound is shown.
type SiteView struct {
	Nav      Nav
	Found    bool
	NotFound string

	ID               int
	Name             string
	URL              string
	CategoryText     string
	CountryText      string
	Flags            string
	Description      string
	VerificationType string
	Context          string
	DateInEffect     string
	Status           string
	Severity         model.Severity
	SourcesText      string
	Alternatives     []AlternativeView
	NoAlternatives   string
}

// Page implements View.
func (SiteView) Page() ID { return Site }

// SuggestView is the suggestion form.
type SuggestView struct {
	Nav        Nav
	Action     string
	Categories []string
	Countries  []string

	// Submitted is set after a submission; Message acknowledges it.
	// Nothing is stored.
	Submitted bool
	Message   string

	// Thanks is the acknowledgement shown when the form is handled
	// client-side.
	Thanks string
}

// Page implements View.
func (SuggestView) Page() ID { return Suggest }
