// Package testutil contains helper doubles used across tests to reduce
// boilerplate when exercising the conversation loop against a scripted
// language model. These helpers are intentionally minimal and are not
// intended for production usage.
package testutil
