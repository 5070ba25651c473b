// Package session houses concrete implementations of core.SessionStore. The
// interface itself (and the Session struct) live in the core package to
// centralize domain contracts. Additional backends (Redis, Postgres, ...)
// can be added here without changing any calling code; session history is
// deliberately in-memory and process-lifetime only in this repository.
package session
