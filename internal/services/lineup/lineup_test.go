package lineup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoves(t *testing.T) {
	l := New()
	assert.False(t, l.WasMoved(1))

	l.MarkMoved(1)
	assert.True(t, l.WasMoved(1))

	l.Unmark(1)
	assert.False(t, l.WasMoved(1))
}

func TestReadyToggle(t *testing.T) {
	l := New()

	assert.True(t, l.ToggleReady(2))
	assert.True(t, l.IsReady(2))
	assert.False(t, l.ToggleReady(2))
	assert.False(t, l.IsReady(2))

	l.ToggleReady(3)
	l.ClearReady()
	assert.False(t, l.IsReady(3))
}

func TestForget(t *testing.T) {
	l := New()
	l.MarkMoved(4)
	l.ToggleReady(4)

	l.Forget(4)

	assert.False(t, l.WasMoved(4))
	assert.False(t, l.IsReady(4))
}
