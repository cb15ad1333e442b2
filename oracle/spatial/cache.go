package spatial

import (
	"sync"

	"github.com/skibsted/adm0reverse/oracle"
)

type latticePoint struct{ ilat, ilon int64 }

type generation struct {
	mu sync.Mutex
	m  map[latticePoint]oracle.CountryID
}

func (g *generation) reset(capacity int) {
	g.mu.Lock()
	g.m = make(map[latticePoint]oracle.CountryID, capacity)
	g.mu.Unlock()
}

// cache is a two-generation rotating lookup cache: reads only ever check
// the active generation, writes land in both, and once active reaches
// limit entries the generations swap and the new pending (the old active) is
// cleared. Grounded on duplicateTester.go's DuplicateTester/Table pair,
// re-keyed from a time-windowed "have we seen this message" test to a
// size-bounded country-id memo, since a build's sampling pattern makes
// point reuse spatial (neighboring rectangles share sample corners) rather
// than temporal.
type cache struct {
	mu      sync.Mutex
	active  *generation
	pending *generation
	limit   int
}

func newCache(limit int) *cache {
	if limit <= 0 {
		limit = 1
	}
	a := &generation{m: make(map[latticePoint]oracle.CountryID, limit)}
	b := &generation{m: make(map[latticePoint]oracle.CountryID, limit)}
	return &cache{active: a, pending: b, limit: limit}
}

func (c *cache) get(ilat, ilon int64) (oracle.CountryID, bool) {
	c.mu.Lock()
	active := c.active
	c.mu.Unlock()

	active.mu.Lock()
	id, ok := active.m[latticePoint{ilat, ilon}]
	active.mu.Unlock()
	return id, ok
}

func (c *cache) put(ilat, ilon int64, id oracle.CountryID) {
	c.mu.Lock()
	active, pending := c.active, c.pending
	c.mu.Unlock()

	key := latticePoint{ilat, ilon}

	active.mu.Lock()
	active.m[key] = id
	full := len(active.m) >= c.limit
	active.mu.Unlock()

	pending.mu.Lock()
	pending.m[key] = id
	pending.mu.Unlock()

	if full {
		c.rotate(active)
	}
}

// rotate swaps active and pending, provided active is still the
// generation that triggered the rotation (another goroutine may have
// already rotated past it).
func (c *cache) rotate(observedActive *generation) {
	c.mu.Lock()
	if c.active != observedActive {
		c.mu.Unlock()
		return
	}
	oldActive := c.active
	c.active = c.pending
	c.pending = oldActive
	c.mu.Unlock()

	oldActive.reset(c.limit)
}
