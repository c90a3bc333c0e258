// Package store defines the persistence interfaces the session engine
// depends on, along with the errors store implementations return.
package store
