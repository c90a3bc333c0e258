// Package translation defines the boundary between the session engine
// and external text-evaluation providers, and implements the fallback
// chain that keeps that boundary reliable: try the primary provider,
// then at most one secondary, then a deterministic local heuristic.
package translation
