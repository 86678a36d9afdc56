package message

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calebsh/toolchat/tool"
)

type fakeSink struct {
	err   error
	calls []string
}

func (f *fakeSink) Deliver(_ context.Context, userName, content string) error {
	f.calls = append(f.calls, userName+": "+content)
	return f.err
}

func TestCall_Success(t *testing.T) {
	sink := &fakeSink{}
	tl := New(sink)

	out, err := tl.Call(context.Background(), map[string]any{
		"user_name": "alice",
		"content":   "meeting moved to 3pm",
	})
	require.NoError(t, err)

	receipt, ok := out.(Receipt)
	require.True(t, ok)
	assert.Equal(t, "alice", receipt.UserName)
	assert.Equal(t, "message sent", receipt.Message)
	assert.NotEmpty(t, receipt.SentAt)

	require.Len(t, sink.calls, 1)
	assert.Equal(t, "alice: meeting moved to 3pm", sink.calls[0])
}

func TestCall_SinkFailure(t *testing.T) {
	sink := &fakeSink{err: errors.New("provider unreachable")}
	tl := New(sink)

	_, err := tl.Call(context.Background(), map[string]any{
		"user_name": "bob",
		"content":   "hi",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "message delivery failed")
	assert.Len(t, sink.calls, 1)
}

func TestCall_MissingArguments(t *testing.T) {
	tl := New(&fakeSink{})

	for _, field := range []string{"user_name", "content"} {
		args := map[string]any{"user_name": "alice", "content": "hi"}
		delete(args, field)

		_, err := tl.Call(context.Background(), args)
		require.Error(t, err)

		var argErr *tool.ArgumentError
		require.ErrorAs(t, err, &argErr)
		assert.Equal(t, field, argErr.Field)
	}
}

func TestCall_NoSink(t *testing.T) {
	tl := New(nil)

	_, err := tl.Call(context.Background(), map[string]any{
		"user_name": "alice",
		"content":   "hi",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestConsoleSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewConsoleSink(&buf)

	require.NoError(t, sink.Deliver(context.Background(), "alice", "hello"))
	assert.Equal(t, "[message to alice] hello\n", buf.String())
}

func TestNewTwilioSink_RequiresCredentials(t *testing.T) {
	_, err := NewTwilioSink(TwilioConfig{From: "+15550001111"})
	assert.Error(t, err)

	_, err = NewTwilioSink(TwilioConfig{AccountSID: "AC123", AuthToken: "tok"})
	assert.Error(t, err)
}
