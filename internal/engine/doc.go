// Package engine orchestrates one deduplication run end to end: load
// records, normalize, block candidate pairs, score them in parallel,
// classify against the thresholds, adjudicate the uncertain band with an
// oracle, merge confirmed pairs into groups, and pick a primary for each
// group. Persistence happens through the Source and Sink interfaces so the
// pipeline itself stays storage-agnostic.
package engine
