// Package logging provides a tiny abstraction over slog so downstream code
// depends on a minimal interface (Logger) while users can plug any
// structured logger.
package logging
