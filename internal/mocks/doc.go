// Package mocks provides hand-rolled test doubles for the store and
// translation interfaces. Each mock keeps simple in-memory default
// behavior and exposes function fields for overriding individual calls,
// plus call tracking for verification.
package mocks
