package impl

import (
	"strconv"
	"sync"
	"time"
)

// timestampIDs hands out millisecond timestamps as ids, bumping by one when two requests land in the same millisecond.
type timestampIDs struct {
	mu   sync.Mutex
	last int64
}

func (g *timestampIDs) next(now time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := now.UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id

	return strconv.FormatInt(id, 10)
}
