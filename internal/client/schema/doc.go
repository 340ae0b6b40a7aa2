// Package schema translates between local models and the remote wire rows.
//
// Every function in this package is pure. Remote to local conversions never
// fail as a whole: a field that cannot be parsed falls back to a default and
// is reported as a Diagnostic so the caller can decide whether to skip the
// record.
package schema
