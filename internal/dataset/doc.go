// Package dataset obtains the directory's site list and keeps it for the
// lifetime of a page.
//
// An Accessor reads its sources in order and memoizes the first dataset
// that loads. The usual chain is an embedded document (compiled into the
// binary or read from a local file) followed by a same-origin fetch of
// data/sites.json. When every source fails the failure is logged and an
// empty directory is memoized, so pages render empty instead of failing.
//
// # Usage
//
//	acc := dataset.NewAccessor(
//	    []dataset.Source{
//	        dataset.Embedded(dataset.DefaultDocument()),
//	        dataset.HTTP("https://example.org/annuaire/"),
//	    },
//	    dataset.WithLogger(logger),
//	)
//	snap := acc.Load(ctx)
//	for _, site := range snap.Sites() {
//	    ...
//	}
//
// Concurrent first calls share a single load. Watch drops the memoized
// dataset whenever a file source changes on disk.
package dataset
