// Package normalize reduces raw company labels to a canonical comparison
// form and derives the token signatures used as blocking keys.
//
// Normalization is pure and idempotent: applying it to its own output is a
// no-op. Legal-entity suffixes are stripped exactly once and only as whole
// trailing tokens so that load-bearing business words survive.
package normalize
