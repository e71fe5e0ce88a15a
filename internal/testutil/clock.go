package testutil

import (
	"strconv"
	"sync"
	"time"
)

// StepClock reports start, start+step, start+2*step, ... on successive calls,
// so journal runs recorded one after another sort in that order.
type StepClock struct {
	mu   sync.Mutex
	next time.Time
	step time.Duration
}

func NewStepClock(start time.Time, step time.Duration) *StepClock {
	return &StepClock{next: start, step: step}
}

func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.next
	c.next = c.next.Add(c.step)
	return t
}

// RunIDs hands out "run-1", "run-2", ... in call order. The zero value is
// ready to use.
type RunIDs struct {
	mu sync.Mutex
	n  int
}

func (r *RunIDs) New() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.n++
	return "run-" + strconv.Itoa(r.n)
}
