// Package source turns published documents into raw coordinate records.
//
// Documents are HTML exports whose first table lists one character per row in
// the column order x, character, y. The first row is a header and is skipped.
//
//   - [ParseTable]: extract records from an HTML stream
//   - [Fetcher]: HTTP retrieval with an in-memory LRU cache
//   - [ReadFile]: the same extraction over a local export
//   - [Open]: choose between the two by location
package source
