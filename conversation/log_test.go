package conversation

import (
	"fmt"
	"testing"

	"github.com/calebsh/toolchat/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogAppendSnapshotOrder(t *testing.T) {
	log := NewLog()
	const n = 25
	for i := 0; i < n; i++ {
		log.Append(core.NewUserTurn(fmt.Sprintf("message %d", i)))
	}

	snap := log.Snapshot()
	require.Len(t, snap, n)
	assert.Equal(t, n, log.Len())
	for i, turn := range snap {
		assert.Equal(t, fmt.Sprintf("message %d", i), turn.Content)
	}

	// Repeated reads yield the same sequence.
	assert.Equal(t, snap, log.Snapshot())
}

func TestSnapshotIsDefensiveCopy(t *testing.T) {
	log := NewLog()
	log.Append(core.NewUserTurn("original"))

	snap := log.Snapshot()
	snap[0].Content = "mutated"

	fresh := log.Snapshot()
	assert.Equal(t, "original", fresh[0].Content)
}

func TestLast(t *testing.T) {
	log := NewLog()
	_, ok := log.Last()
	assert.False(t, ok)

	log.Append(core.NewUserTurn("first"))
	log.Append(core.NewAssistantTurn("second"))
	last, ok := log.Last()
	require.True(t, ok)
	assert.Equal(t, core.RoleAssistant, last.Role)
	assert.Equal(t, "second", last.Content)
}
