// Package core defines the shared conversational data model: turns, tool
// call requests, the uniform tool result envelope and ID generation. All
// types are plain values treated as immutable once appended to a
// conversation log.
package core
