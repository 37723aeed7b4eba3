// Package web renders the directory's pages to HTML and delivers them,
// either from a local HTTP server or as a static export.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/url"
	"strings"

	"github.com/nao1215/stopverifage/internal/metrics"
	"github.com/nao1215/stopverifage/internal/model"
	"github.com/nao1215/stopverifage/internal/page"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// StaticFS returns the stylesheet and script shared by every page.
func StaticFS() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err) // the directory is embedded at build time
	}
	return sub
}

// Renderer turns page views into HTML. Templates are parsed once.
// A Renderer is safe for concurrent use.
type Renderer struct {
	pages map[page.ID]*template.Template
}

var funcs = template.FuncMap{
	"pageID": func(v page.View) string { return string(v.Page()) },
	"join":   strings.Join,
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[page.ID]*template.Template, len(page.IDs()))}
	for _, id := range page.IDs() {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/"+string(id)+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", id, err)
		}
		r.pages[id] = t
	}
	return r, nil
}

// RenderView writes the HTML of v to w. Nothing is written when the
// template fails.
func (r *Renderer) RenderView(w io.Writer, v page.View) error {
	t, ok := r.pages[v.Page()]
	if !ok {
		return fmt.Errorf("%w: %q", page.ErrUnknownPage, v.Page())
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", v); err != nil {
		return fmt.Errorf("failed to render %s page: %w", v.Page(), err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return err
	}
	metrics.RecordPageRender(string(v.Page()))
	return nil
}

// Render builds the page named by id and writes it to w.
// Unknown identifiers return page.ErrUnknownPage and write nothing.
func (r *Renderer) Render(w io.Writer, b *page.Builder, id page.ID, sites []model.Site, params url.Values) error {
	v, err := b.Build(id, sites, params)
	if err != nil {
		return err
	}
	return r.RenderView(w, v)
}
