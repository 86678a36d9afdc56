// Package session ties one conversation log to an identifier and provides a
// volatile in-memory store so independent sessions (e.g. multiple users) can
// run concurrently. There is no persistence: discarding a session discards
// its history.
package session
