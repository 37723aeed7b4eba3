package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/stopverifage/internal/linkcheck"
	"github.com/nao1215/stopverifage/internal/model"
)

// MarkdownWriter writes results as GitHub-flavored Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter returns a MarkdownWriter writing to output.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// WriteSites implements Writer.
func (w *MarkdownWriter) WriteSites(sites []model.Site) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1("Age verification sites")
	md.PlainText("")

	if len(sites) == 0 {
		md.Note("No site matches the filters.")
		return len(md.String()), md.Build()
	}

	rows := make([][]string, len(sites))
	for i, s := range sites {
		rows[i] = []string{
			strconv.Itoa(s.ID),
			markdown.Link(s.Name, s.URL),
			dash(s.CategoryText()),
			dash(s.CountryText()),
			s.Severity().Label(),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"ID", "Name", "Category", "Country", "Severity"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writeSummary(md, Summarize(sites))
	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, sum Summary) {
	md.H2("Severity")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Severity", "Sites"},
		Rows: [][]string{
			{model.SeverityVeryHigh.Label(), strconv.Itoa(sum.VeryHigh)},
			{model.SeverityHigh.Label(), strconv.Itoa(sum.High)},
			{model.SeverityMedium.Label(), strconv.Itoa(sum.Medium)},
			{model.SeverityLow.Label(), strconv.Itoa(sum.Low)},
			{"**Total**", "**" + strconv.Itoa(sum.Total) + "**"},
		},
	})
	md.PlainText("")

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Severity distribution"),
		piechart.WithShowData(true),
	)
	parts := []struct {
		sev   model.Severity
		count int
	}{
		{model.SeverityVeryHigh, sum.VeryHigh},
		{model.SeverityHigh, sum.High},
		{model.SeverityMedium, sum.Medium},
		{model.SeverityLow, sum.Low},
	}
	for _, s := range parts {
		if s.count > 0 {
			chart.LabelAndIntValue(s.sev.Label(), uint64(s.count))
		}
	}
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")

	if sum.VeryHigh > 0 {
		md.Warningf("%d site(s) require a mandatory verification worldwide or are blocked.", sum.VeryHigh)
		md.PlainText("")
	}
}

// WriteSite implements Writer.
func (w *MarkdownWriter) WriteSite(s model.Site) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1(s.Name + " " + s.Flags())
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Field", "Value"},
		Rows: [][]string{
			{"URL", markdown.Link(s.URL, s.URL)},
			{"Category", dash(s.CategoryText())},
			{"Country", dash(s.CountryText())},
			{"Verification", dash(s.VerificationType)},
			{"Status", dash(s.Status)},
			{"Severity", s.Severity().Label()},
			{"In effect", dash(s.DateInEffect)},
			{"Sources", dash(s.SourcesText())},
		},
	})
	md.PlainText("")

	if s.Description != "" {
		md.H2("Description")
		md.PlainText(s.Description)
		md.PlainText("")
	}
	if s.Context != "" {
		md.H2("Context")
		md.PlainText(s.Context)
		md.PlainText("")
	}

	md.H2("Alternatives")
	md.PlainText("")
	if len(s.Alternatives) == 0 {
		md.PlainText("No known alternative.")
		return len(md.String()), md.Build()
	}
	items := make([]string, len(s.Alternatives))
	for i, a := range s.Alternatives {
		items[i] = markdown.Link(a.Name, a.URL)
		if a.Description != "" {
			items[i] += ": " + a.Description
		}
	}
	md.BulletList(items...)
	return len(md.String()), md.Build()
}

// WriteLinks implements Writer.
func (w *MarkdownWriter) WriteLinks(results []linkcheck.Result) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1("Link check")
	md.PlainText("")

	failed := linkcheck.Failed(results)
	if len(failed) == 0 {
		md.Tip(fmt.Sprintf("All %d link(s) answered.", len(results)))
		return len(md.String()), md.Build()
	}

	md.Cautionf("%d of %d link(s) did not answer.", len(failed), len(results))
	md.PlainText("")

	rows := make([][]string, len(failed))
	for i, r := range failed {
		status := strconv.Itoa(r.Status)
		if r.Error != "" {
			status = truncate(r.Error, 60)
		}
		rows[i] = []string{r.Site, string(r.Kind), r.URL, status}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Site", "Kind", "URL", "Status"},
		Rows:   rows,
	})
	return len(md.String()), md.Build()
}
