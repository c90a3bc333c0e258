// Package postgres provides PostgreSQL implementations of the store
// interfaces, backed by pgx.
package postgres
