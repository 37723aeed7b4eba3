package report

import (
	"io"

	"github.com/nao1215/stopverifage/internal/linkcheck"
	"github.com/nao1215/stopverifage/internal/model"
)

// Writer writes query results in one format.
type Writer interface {
	// WriteSites writes a list of sites, in the order given.
	WriteSites(sites []model.Site) (int, error)

	// WriteSite writes every field of a single site.
	WriteSite(site model.Site) (int, error)

	// WriteLinks writes the results of a link check.
	WriteLinks(results []linkcheck.Result) (int, error)
}

// MultiWriter writes to several Writers in turn.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter returns a Writer that writes to all writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteSites implements Writer. It stops at the first error.
func (m *MultiWriter) WriteSites(sites []model.Site) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteSites(sites) })
}

// WriteSite implements Writer. It stops at the first error.
func (m *MultiWriter) WriteSite(site model.Site) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteSite(site) })
}

// WriteLinks implements Writer. It stops at the first error.
func (m *MultiWriter) WriteLinks(results []linkcheck.Result) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteLinks(results) })
}

func (m *MultiWriter) each(write func(Writer) (int, error)) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := write(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// Summary counts sites per severity level.
type Summary struct {
	Total    int `json:"total"`
	Low      int `json:"low"`
	Medium   int `json:"medium"`
	High     int `json:"high"`
	VeryHigh int `json:"very_high"`
}

// Summarize counts sites per severity level.
func Summarize(sites []model.Site) Summary {
	s := Summary{Total: len(sites)}
	for _, site := range sites {
		switch site.Severity() {
		case model.SeverityLow:
			s.Low++
		case model.SeverityHigh:
			s.High++
		case model.SeverityVeryHigh:
			s.VeryHigh++
		default:
			s.Medium++
		}
	}
	return s
}

// dash replaces an empty value with a dash.
func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncate shortens s to at most maxLen runes, marking the cut with "...".
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
