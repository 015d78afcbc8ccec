package scene

import (
	"github.com/Carmen-Shannon/oxy-world/engine/game_object"
	"github.com/Carmen-Shannon/oxy-world/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// DrawCall is one subgeometry draw held back for the transparent pass.
type DrawCall struct {
	Model       model.Model
	Chunk       int
	Subgeometry int
	Matrix      mgl32.Mat4
	Object      game_object.GameObject
}

// DeferralQueue holds transparent draws in submission order. Entries are not depth sorted.
type DeferralQueue struct {
	entries []DrawCall
}

func (q *DeferralQueue) Push(c DrawCall) {
	q.entries = append(q.entries, c)
}

func (q *DeferralQueue) Len() int {
	return len(q.entries)
}

// Flush replays every entry once, in insertion order, and empties the queue. Entries pushed
// from inside fn are not replayed.
//
// Parameters:
//   - fn: called with each entry
//
// Returns:
//   - int: the number of entries replayed
func (q *DeferralQueue) Flush(fn func(DrawCall)) int {
	entries := q.entries
	q.entries = nil
	for _, e := range entries {
		fn(e)
	}
	clear(entries)
	if q.entries == nil {
		q.entries = entries[:0]
	}
	return len(entries)
}
