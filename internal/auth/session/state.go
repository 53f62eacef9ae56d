package session

import (
	"sync"

	"github.com/collabblog/blogclient/internal/auth/model"
)

// cell is the single broadcast value holding the current user or none.
// Late subscribers immediately receive the latest value; every publish
// replaces any undelivered value so readers only ever see the newest state.
type cell struct {
	mu       sync.Mutex
	current  *model.User
	resolved bool
	subs     map[int]chan *model.User
	nextID   int
}

func newCell() *cell {
	return &cell{subs: make(map[int]chan *model.User)}
}

// publish sets the current value and fans it out. Publishing nil when the
// cell already holds nil is a no-op, which makes redundant session clears
// (concurrent 401s, repeated logouts) observable exactly once.
func (c *cell) publish(u *model.User) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if u == nil && c.current == nil && c.resolved {
		return
	}
	c.current = u
	c.resolved = true

	for _, ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		ch <- u
	}
}

func (c *cell) value() (*model.User, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current, c.resolved
}

// subscribe registers a replay-latest listener. The returned channel has a
// one-slot buffer primed with the current value once the cell is resolved.
func (c *cell) subscribe() (<-chan *model.User, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	ch := make(chan *model.User, 1)
	if c.resolved {
		ch <- c.current
	}
	c.subs[id] = ch

	cancel := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
	return ch, cancel
}
