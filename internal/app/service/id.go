package service

import (
	"sync"
	"time"
)

// IDGenerator hands out dealer ids. taken reports ids already in the collection.
type IDGenerator interface {
	Next(taken func(int64) bool) int64
}

// ClockIDGenerator derives ids from Unix milliseconds. Ids are strictly
// increasing for the life of the generator and skip any taken value, so
// creates within the same millisecond never collide.
type ClockIDGenerator struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

func NewClockIDGenerator(now func() time.Time) *ClockIDGenerator {
	if now == nil {
		now = time.Now
	}
	return &ClockIDGenerator{now: now}
}

func (g *ClockIDGenerator) Next(taken func(int64) bool) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	for taken != nil && taken(id) {
		id++
	}
	g.last = id
	return id
}
