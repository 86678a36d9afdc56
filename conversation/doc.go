// Package conversation implements the append-only log of turns that forms
// the sole context a model conditions on. The log only grows for the
// lifetime of a session; historical turns are never rewritten.
package conversation
