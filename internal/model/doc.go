// Package model defines the data structures of the StopVerifAge directory.
//
// This package contains the following main types:
//   - Site: one directory entry describing a web service and the way it
//     verifies the age or identity of its visitors
//   - Alternative: a suggested substitute service listed under a Site
//   - Dataset: the JSON document holding every Site
//   - Severity: the derived intrusiveness level of a Site's verification
//
// Multiple packages (dataset, directory, page, report, web) use these
// types, so they live here to avoid import cycles.
//
// The dataset is read-only once loaded. Nothing in this package mutates a
// Site after decoding.
package model
