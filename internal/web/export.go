package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/renameio/v2"
	"golang.org/x/sync/errgroup"

	"github.com/nao1215/stopverifage/internal/dataset"
	"github.com/nao1215/stopverifage/internal/directory"
	"github.com/nao1215/stopverifage/internal/model"
	"github.com/nao1215/stopverifage/internal/page"
)

// DefaultExportConcurrency is the number of files written in parallel.
const DefaultExportConcurrency = 8

// Manifest describes a static export. It is written as manifest.json.
type Manifest struct {
	GeneratedAt time.Time `json:"generated_at"`
	Digest      string    `json:"digest"`
	Source      string    `json:"source"`
	Sites       int       `json:"sites"`
	Files       []string  `json:"files"`
}

// ExportConfig configures a StaticBuilder.
type ExportConfig struct {
	// OutputDir receives the export. It is created when missing; existing
	// files with the same names are replaced.
	OutputDir string

	// Concurrency bounds parallel writes.
	Concurrency int

	// Locale and RecentCount are passed to the page builder.
	Locale      string
	RecentCount int
}

// StaticBuilder pre-renders every page of the directory into a directory
// that any static file host can serve.
type StaticBuilder struct {
	cfg      ExportConfig
	renderer *Renderer
	logger   *slog.Logger
	now      func() time.Time
}

// NewStaticBuilder returns a StaticBuilder.
func NewStaticBuilder(cfg ExportConfig, renderer *Renderer, logger *slog.Logger) *StaticBuilder {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultExportConcurrency
	}
	if cfg.Locale == "" {
		cfg.Locale = directory.DefaultLocale
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StaticBuilder{cfg: cfg, renderer: renderer, logger: logger, now: time.Now}
}

// exportFile is one file of the export.
type exportFile struct {
	path   string
	render func() ([]byte, error)
}

// Build writes the export of snap: the landing page, the full list, a
// list page per category and per country, a detail page per site, the
// suggestion form, the static assets, the dataset and the manifest.
func (b *StaticBuilder) Build(ctx context.Context, snap *dataset.Snapshot) (*Manifest, error) {
	sites := snap.Sites()
	files, err := b.plan(sites, snap.Dataset)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(b.cfg.OutputDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var (
		mu      sync.Mutex
		written = make([]string, 0, len(files)+1)
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.Concurrency)
	for _, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := f.render()
			if err != nil {
				return fmt.Errorf("%s: %w", f.path, err)
			}
			if err := writeFileAtomic(filepath.Join(b.cfg.OutputDir, filepath.FromSlash(f.path)), data); err != nil {
				return err
			}
			b.logger.Debug("file written", "path", f.path, "bytes", len(data))

			mu.Lock()
			written = append(written, f.path)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Strings(written)
	m := &Manifest{
		GeneratedAt: b.now().UTC(),
		Digest:      snap.Digest,
		Source:      snap.Source,
		Sites:       len(sites),
		Files:       written,
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(b.cfg.OutputDir, ManifestFile), append(data, '\n')); err != nil {
		return nil, err
	}
	return m, nil
}

// plan lists every file of the export with its renderer.
func (b *StaticBuilder) plan(sites []model.Site, ds *model.Dataset) ([]exportFile, error) {
	links := NewStaticLinks(sites, b.cfg.Locale)
	builderAt := func(depth int) *page.Builder {
		return page.NewBuilder(links.At(depth),
			page.WithLocale(b.cfg.Locale),
			page.WithRecentCount(b.cfg.RecentCount),
		)
	}
	root, nested := builderAt(0), builderAt(1)

	view := func(v page.View) func() ([]byte, error) {
		return func() ([]byte, error) {
			var buf bytes.Buffer
			if err := b.renderer.RenderView(&buf, v); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		}
	}

	files := []exportFile{
		{path: IndexFile, render: view(root.Index(sites))},
		{path: ListFile, render: view(root.List(sites, directory.Filter{}))},
		{path: SuggestFile, render: view(root.Suggest(sites, false))},
		{path: DataFile, render: ds.Encode},
	}
	for _, c := range directory.Categories(sites, b.cfg.Locale) {
		p, _ := links.CategoryPath(c)
		files = append(files, exportFile{path: p, render: view(nested.List(sites, directory.Filter{Category: c}))})
	}
	for _, c := range directory.Countries(sites, b.cfg.Locale) {
		p, _ := links.CountryPath(c)
		files = append(files, exportFile{path: p, render: view(nested.List(sites, directory.Filter{Country: c}))})
	}

	seen := make(map[int]bool, len(sites))
	for _, s := range sites {
		if seen[s.ID] {
			b.logger.Warn("duplicate site identifier, keeping the first entry", "id", s.ID, "site", s.Name)
			continue
		}
		seen[s.ID] = true
		files = append(files, exportFile{path: SitePath(s.ID), render: view(nested.SiteView(s))})
	}

	assets, err := staticAssets()
	if err != nil {
		return nil, err
	}
	return append(files, assets...), nil
}

func staticAssets() ([]exportFile, error) {
	var files []exportFile
	assets := StaticFS()
	err := fs.WalkDir(assets, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		files = append(files, exportFile{
			path:   path.Join(StaticDir, p),
			render: func() ([]byte, error) { return fs.ReadFile(assets, p) },
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list static assets: %w", err)
	}
	return files, nil
}

// writeFileAtomic replaces name with data, creating parent directories.
// Readers see either the old or the new content.
func writeFileAtomic(name string, data []byte) (err error) {
	if err := os.MkdirAll(filepath.Dir(name), 0o750); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", name, err)
	}

	pending, err := renameio.NewPendingFile(name, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("failed to create pending file %s: %w", name, err)
	}
	defer func() {
		if cerr := pending.Cleanup(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if _, err := pending.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}

// ExportedPages returns the HTML files listed in a manifest.
func (m *Manifest) ExportedPages() []string {
	return slices.DeleteFunc(slices.Clone(m.Files), func(f string) bool {
		return !strings.HasSuffix(f, ".html")
	})
}
