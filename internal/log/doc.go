// Package log builds the application's slog loggers.
//
// Every logger returned here is wrapped in a RedactingHandler. The
// directory itself holds nothing private, but the suggestion form and the
// HTTP layer can carry contact details, cookies or credentials embedded in
// a dataset URL. The handler masks them before they reach any output:
//   - attributes whose key names contact details or secrets
//     (email, contact, cookie, authorization, password, token ...)
//   - string values that look like e-mail addresses or bearer tokens
//   - the password part of URLs carrying user information
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, log.FormatText, verbose)
//	slog.SetDefault(logger)
//
//	logger.Warn("suggestion received", "contact", "jane@example.org")
//	// contact=***REDACTED***
package log
