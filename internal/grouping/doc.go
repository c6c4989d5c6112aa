// Package grouping maintains the transitive duplicate partition with a
// disjoint-set forest. Confirmed pairs are fed through Union; afterwards
// Groups materializes every equivalence class of two or more records.
//
// Union and Find are not safe for concurrent use. The pipeline applies
// them single-threaded after parallel scoring has finished.
package grouping
