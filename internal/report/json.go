package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/stopverifage/internal/linkcheck"
	"github.com/nao1215/stopverifage/internal/model"
)

// JSONWriter writes results as JSON documents.
type JSONWriter struct {
	baseWriter

	indent       bool
	indentPrefix string
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables indented output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint indents with two spaces.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter returns a JSONWriter writing to output.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// SiteRecord is a site with its derived attributes.
type SiteRecord struct {
	model.Site

	Severity string `json:"severity"`
	Flags    string `json:"flags,omitempty"`
}

// NewSiteRecord returns the record of s.
func NewSiteRecord(s model.Site) SiteRecord {
	return SiteRecord{Site: s, Severity: s.Severity().String(), Flags: s.Flags()}
}

// SiteList is the document written for a list of sites.
type SiteList struct {
	Summary Summary      `json:"summary"`
	Sites   []SiteRecord `json:"sites"`
}

// LinkReport is the document written for a link check.
type LinkReport struct {
	Checked int                `json:"checked"`
	Failed  int                `json:"failed"`
	Results []linkcheck.Result `json:"results"`
}

// WriteSites implements Writer.
func (w *JSONWriter) WriteSites(sites []model.Site) (int, error) {
	records := make([]SiteRecord, len(sites))
	for i, s := range sites {
		records[i] = NewSiteRecord(s)
	}
	return w.writeJSON(SiteList{Summary: Summarize(sites), Sites: records})
}

// WriteSite implements Writer.
func (w *JSONWriter) WriteSite(site model.Site) (int, error) {
	return w.writeJSON(NewSiteRecord(site))
}

// WriteLinks implements Writer.
func (w *JSONWriter) WriteLinks(results []linkcheck.Result) (int, error) {
	if results == nil {
		results = []linkcheck.Result{}
	}
	return w.writeJSON(LinkReport{
		Checked: len(results),
		Failed:  len(linkcheck.Failed(results)),
		Results: results,
	})
}

func (w *JSONWriter) writeJSON(v any) (int, error) {
	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}
	return w.output.Write(append(data, '\n'))
}
