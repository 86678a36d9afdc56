package openai

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calebsh/toolchat/core"
	"github.com/calebsh/toolchat/model"
)

func TestComplete_TimeoutBoundsStalledEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		// Drain the body so the server detects the client disconnect and
		// cancels r.Context(); otherwise this handler and srv.Close deadlock.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	m := NewModel(func(o *Options) {
		o.APIKey = "test-key"
		o.BaseURL = srv.URL
		o.Timeout = 50 * time.Millisecond
	})

	start := time.Now()
	_, err := m.Complete(context.Background(), model.Request{
		Turns:     []core.Turn{core.NewUserTurn("hi")},
		MaxTokens: 16,
	})
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.True(t, model.IsTimeout(err), "expected timeout classification, got %v", err)
	assert.Less(t, elapsed, 2*time.Second)
}

func TestInfo(t *testing.T) {
	m := NewModel(func(o *Options) {
		o.APIKey = "test-key"
		o.Model = "gpt-4o-mini"
	})

	info := m.Info()
	assert.Equal(t, "openai", info.Provider)
	assert.Equal(t, "gpt-4o-mini", info.Name)
	assert.True(t, info.SupportsTools)
}
