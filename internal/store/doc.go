// Package store persists company records and run outcomes in SQLite.
//
// It implements the engine's Source and Sink: records come out of the
// companies table, and classifications go back in batched transactions.
// Synthesized primaries created by earlier runs are removed on reset so a
// run always starts from source data.
package store
