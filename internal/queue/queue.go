package queue

import (
	"sync"

	"github.com/go-scripts/docgen/internal/config"
)

// Queue is a thread-safe FIFO of documentation sections.
// A section name is accepted only once per queue.
type Queue struct {
	items   []config.Section
	seen    map[string]bool
	visited map[string]bool
	mu      sync.Mutex
}

// New creates a Queue holding sections in the given order
func New(sections ...config.Section) *Queue {
	q := &Queue{
		items:   make([]config.Section, 0, len(sections)),
		seen:    make(map[string]bool),
		visited: make(map[string]bool),
	}
	for _, s := range sections {
		q.Add(s)
	}
	return q
}

// Add appends s unless a section with the same name was already added
func (q *Queue) Add(s config.Section) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.seen[s.Name] {
		return false
	}
	q.seen[s.Name] = true
	q.items = append(q.items, s)
	return true
}

// Next returns the next section and marks it as visited
func (q *Queue) Next() (config.Section, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return config.Section{}, false
	}
	s := q.items[0]
	q.items = q.items[1:]
	q.visited[s.Name] = true
	return s, true
}

// Len returns the number of sections still queued
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Total returns the number of distinct sections ever added
func (q *Queue) Total() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.seen)
}

// VisitedCount returns the number of sections handed out
func (q *Queue) VisitedCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.visited)
}
