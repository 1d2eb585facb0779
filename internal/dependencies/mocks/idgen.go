package mocks

import (
	"fmt"
	"sync"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/dependencies/idgen"
)

// MockIDGen is a mock implementation of idgen.Generator for testing
type MockIDGen struct {
	mu sync.Mutex

	// IDs is a queue of results to return from NewID
	IDs   []string
	index int
	count int
}

// Ensure MockIDGen implements Generator
var _ idgen.Generator = (*MockIDGen)(nil)

// NewMockIDGen creates a new MockIDGen
func NewMockIDGen() *MockIDGen {
	return &MockIDGen{}
}

// NewID returns the next queued id, or a sequential "id-N" once the queue is empty
func (g *MockIDGen) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.count++
	if g.index >= len(g.IDs) {
		return fmt.Sprintf("id-%d", g.count)
	}
	result := g.IDs[g.index]
	g.index++
	return result
}

// Queue adds values to the result queue
func (g *MockIDGen) Queue(values ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.IDs = append(g.IDs, values...)
}
