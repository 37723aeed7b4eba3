package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/nao1215/stopverifage/internal/linkcheck"
	"github.com/nao1215/stopverifage/internal/model"
)

const ruleWidth = 70

// SimpleWriter writes aligned plain text for terminal display.
type SimpleWriter struct {
	baseWriter

	// verbose adds the verification method and status to site lists.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose adds detail columns to site lists.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter returns a SimpleWriter writing to output.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteSites implements Writer.
func (w *SimpleWriter) WriteSites(sites []model.Site) (int, error) {
	if len(sites) == 0 {
		return io.WriteString(w.output, "No site matches the filters.\n")
	}

	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	if w.verbose {
		fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tCOUNTRY\tSEVERITY\tVERIFICATION\tSTATUS")
	} else {
		fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tCOUNTRY\tSEVERITY")
	}
	for _, s := range sites {
		if w.verbose {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				s.ID, s.Name, dash(s.CategoryText()), dash(s.CountryText()), s.Severity(),
				truncate(dash(s.VerificationType), 40), truncate(dash(s.Status), 50))
			continue
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			s.ID, s.Name, dash(s.CategoryText()), dash(s.CountryText()), s.Severity())
	}
	if err := tw.Flush(); err != nil {
		return 0, err
	}

	sum := Summarize(sites)
	fmt.Fprintf(&sb, "\n%d site(s): %d very high, %d high, %d medium, %d low\n",
		sum.Total, sum.VeryHigh, sum.High, sum.Medium, sum.Low)

	return io.WriteString(w.output, sb.String())
}

// WriteSite implements Writer.
func (w *SimpleWriter) WriteSite(s model.Site) (int, error) {
	var sb strings.Builder

	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%s %s\n", s.Name, s.Flags())
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")

	fields := []struct {
		label string
		value string
	}{
		{"ID", fmt.Sprint(s.ID)},
		{"URL", s.URL},
		{"Category", s.CategoryText()},
		{"Country", s.CountryText()},
		{"Verification", s.VerificationType},
		{"Status", s.Status},
		{"Severity", s.Severity().String()},
		{"In effect", s.DateInEffect},
		{"Description", s.Description},
		{"Context", s.Context},
		{"Sources", s.SourcesText()},
	}
	for _, f := range fields {
		fmt.Fprintf(&sb, "%-13s %s\n", f.label+":", dash(f.value))
	}

	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\nALTERNATIVES\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n\n")
	if len(s.Alternatives) == 0 {
		sb.WriteString("  No known alternative\n")
	}
	for _, a := range s.Alternatives {
		fmt.Fprintf(&sb, "  [+] %s  %s\n", a.Name, a.URL)
		if a.Description != "" {
			fmt.Fprintf(&sb, "      %s\n", a.Description)
		}
	}

	return io.WriteString(w.output, sb.String())
}

// WriteLinks implements Writer. Only failing links are listed unless the
// writer is verbose.
func (w *SimpleWriter) WriteLinks(results []linkcheck.Result) (int, error) {
	var sb strings.Builder

	failed := linkcheck.Failed(results)
	shown := failed
	if w.verbose {
		shown = results
	}

	if len(shown) > 0 {
		tw := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "RESULT\tSITE\tKIND\tURL\tSTATUS")
		for _, r := range shown {
			result := "OK"
			status := fmt.Sprint(r.Status)
			if !r.OK() {
				result = "FAIL"
				if r.Error != "" {
					status = truncate(r.Error, 60)
				}
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", result, r.Site, r.Kind, r.URL, status)
		}
		if err := tw.Flush(); err != nil {
			return 0, err
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "%d link(s) checked, %d failed\n", len(results), len(failed))
	return io.WriteString(w.output, sb.String())
}
