package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/stopverifage/internal/model"
)

// Table names of the legacy schema.
const (
	SitesTable        = "sites"
	AlternativesTable = "alternatives"
)

var (
	// ErrNotFound is returned when the database file does not exist.
	ErrNotFound = errors.New("legacy database not found")

	// ErrNoSitesTable is returned when the database has no sites table.
	ErrNoSitesTable = errors.New("legacy database has no sites table")
)

// LegacyDB is a read-only handle on a legacy database.
type LegacyDB struct {
	db   *sql.DB
	path string
}

// Open opens the database at path read-only. The file must exist.
func Open(ctx context.Context, path string) (*LegacyDB, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	} else if err != nil {
		return nil, fmt.Errorf("failed to check database path: %w", err)
	}

	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &LegacyDB{db: db, path: path}, nil
}

// Close closes the database.
func (l *LegacyDB) Close() error {
	return l.db.Close()
}

// Path returns the database file path.
func (l *LegacyDB) Path() string {
	return l.path
}

func (l *LegacyDB) hasTable(ctx context.Context, name string) (bool, error) {
	var n int
	err := l.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to inspect schema: %w", err)
	}
	return n > 0, nil
}

// Sites returns every site with its alternatives, ordered by identifier.
// A database without an alternatives table yields sites without
// alternatives.
func (l *LegacyDB) Sites(ctx context.Context) ([]model.Site, error) {
	ok, err := l.hasTable(ctx, SitesTable)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoSitesTable
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT id, name, url, category, description, verification_type,
		       context, date_in_effect, status, country, sources
		FROM sites
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sites: %w", err)
	}
	defer rows.Close()

	sites := make([]model.Site, 0)
	index := make(map[int]int)
	for rows.Next() {
		var s model.Site
		var category, country, sources sql.NullString
		var description, verification, ctxText, doe, status sql.NullString
		if err := rows.Scan(&s.ID, &s.Name, &s.URL, &category, &description, &verification,
			&ctxText, &doe, &status, &country, &sources); err != nil {
			return nil, fmt.Errorf("failed to scan site: %w", err)
		}
		s.Category = SplitList(category.String)
		s.Country = SplitList(country.String)
		s.Sources = SplitList(sources.String)
		s.Description = description.String
		s.VerificationType = verification.String
		s.Context = ctxText.String
		s.DateInEffect = doe.String
		s.Status = status.String
		s.Alternatives = []model.Alternative{}

		index[s.ID] = len(sites)
		sites = append(sites, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sites: %w", err)
	}

	if err := l.attachAlternatives(ctx, sites, index); err != nil {
		return nil, err
	}
	return sites, nil
}

func (l *LegacyDB) attachAlternatives(ctx context.Context, sites []model.Site, index map[int]int) error {
	ok, err := l.hasTable(ctx, AlternativesTable)
	if err != nil || !ok {
		return err
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT site_id, alt_name, alt_url, alt_description
		FROM alternatives
		ORDER BY site_id, id`)
	if err != nil {
		return fmt.Errorf("failed to query alternatives: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			siteID int
			a      model.Alternative
			desc   sql.NullString
		)
		if err := rows.Scan(&siteID, &a.Name, &a.URL, &desc); err != nil {
			return fmt.Errorf("failed to scan alternative: %w", err)
		}
		a.Description = desc.String

		// Orphaned alternatives are skipped.
		i, ok := index[siteID]
		if !ok {
			continue
		}
		sites[i].Alternatives = append(sites[i].Alternatives, a)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate alternatives: %w", err)
	}
	return nil
}

// Dataset returns the database content as a dataset document.
func (l *LegacyDB) Dataset(ctx context.Context) (*model.Dataset, error) {
	sites, err := l.Sites(ctx)
	if err != nil {
		return nil, err
	}
	return &model.Dataset{Sites: sites}, nil
}

// SplitList splits a comma-separated column value, trimming spaces and
// dropping empty items.
func SplitList(s string) []string {
	out := make([]string, 0)
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Source reads a legacy database as a dataset source. It opens the file
// on every load and closes it afterwards.
type Source struct {
	path string
}

// NewSource returns a Source reading the database at path.
func NewSource(path string) *Source {
	return &Source{path: path}
}

// Name returns the source name used in logs and metrics.
func (s *Source) Name() string { return "sqlite" }

// Path returns the database file path.
func (s *Source) Path() string { return s.path }

// Load reads the database.
func (s *Source) Load(ctx context.Context) (_ *model.Dataset, err error) {
	db, err := Open(ctx, s.path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return db.Dataset(ctx)
}

// IsDatabasePath reports whether path names a SQLite file by its extension.
func IsDatabasePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	default:
		return false
	}
}
