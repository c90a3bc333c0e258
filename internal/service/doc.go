// Package service contains the practice-session engine: deck
// selection, session progress tracking, answer evaluation, and the
// façade that composes them into the session lifecycle.
package service
