// Package shared holds cross-cutting helpers that belong to no single
// domain or layer of the lease revenue analyzer.
//
// The testutil subpackage provides an in-memory slog handler so tests can
// assert on structured log output without parsing serialized records.
// Nothing under shared may import other internal packages; it sits below
// all of them.
package shared
