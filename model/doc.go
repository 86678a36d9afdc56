// Package model defines the provider-neutral chat-completion interface the
// orchestration loop drives, together with the transient-error taxonomy
// (rate limiting, timeouts) the loop's retry policy branches on. Concrete
// providers live in the openai and anthropic subpackages.
package model
