// Package linkcheck verifies that the URLs listed in the directory still
// answer.
//
// Every site URL and every alternative URL is requested with HEAD. Servers
// that refuse HEAD (405 Method Not Allowed or 501 Not Implemented) are
// asked again with GET, and only the status line is read. Requests run
// concurrently up to a configurable limit.
//
// The checker only reports; it never edits the dataset. A link that fails
// is a hint for a maintainer, not proof that the site is gone: some sites
// block automated clients or geo-restrict their content.
package linkcheck
