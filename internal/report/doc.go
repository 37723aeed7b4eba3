// Package report writes directory query results for the terminal and for
// other tools.
//
// Three formats are available:
//   - SimpleWriter: aligned plain text for terminal display
//   - JSONWriter: structured JSON for scripts
//   - MarkdownWriter: Markdown with a severity pie chart, for sharing
//
// Writers implement the Writer interface and can be combined with
// MultiWriter to emit several formats at once.
package report
