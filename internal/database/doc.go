// Package database reads the SQLite database of the former server-side
// version of the directory.
//
// That version kept its entries in a `sites` table whose multi-valued
// columns (category, country, sources) held comma-separated text, and
// their alternatives in an `alternatives` table keyed by site_id. The
// database is opened read-only and converted to the JSON dataset model;
// the `suggestions` table is never read.
//
// The driver is modernc.org/sqlite, a CGO-free SQLite implementation, so
// the importer cross-compiles like the rest of the binary.
package database
