// Package history provides the linear undo stack of scene snapshots.
package history

// Buffer is a linear undo stack. Entries are serialized scene snapshots in
// chronological order; there is no redo, and a new action after an undo
// simply begins a fresh forward history.
type Buffer struct {
	stack [][]byte
}

// Push records a snapshot taken before a mutating action.
func (b *Buffer) Push(snapshot []byte) {
	b.stack = append(b.stack, snapshot)
}

// Pop removes and returns the most recent snapshot. It returns false when the
// stack is empty; undoing past an empty stack is the caller's no-op.
func (b *Buffer) Pop() ([]byte, bool) {
	if len(b.stack) == 0 {
		return nil, false
	}
	last := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	return last, true
}

// Len returns the number of stored snapshots.
func (b *Buffer) Len() int {
	return len(b.stack)
}
