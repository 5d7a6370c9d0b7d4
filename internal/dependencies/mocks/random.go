package mocks

import (
	"github.com/mcoot/roomwarden/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing
type MockRandom struct {
	// IntnResults is a queue of results to return from Intn
	IntnResults []int
	intnIndex   int

	// ShuffleOrders is a queue of permutations applied by Shuffle
	ShuffleOrders [][]int
	shuffleIndex  int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued result, or 0 if none remaining
func (r *MockRandom) Intn(n int) int {
	if r.intnIndex >= len(r.IntnResults) {
		return 0
	}
	result := r.IntnResults[r.intnIndex]
	r.intnIndex++
	return result
}

// Shuffle applies the next queued permutation, or leaves the order unchanged.
// A permutation lists, for each output position, the input index to place there.
func (r *MockRandom) Shuffle(n int, swap func(i, j int)) {
	if r.shuffleIndex >= len(r.ShuffleOrders) {
		return
	}
	order := r.ShuffleOrders[r.shuffleIndex]
	r.shuffleIndex++
	if len(order) != n {
		return
	}
	// pos[k] is where original element k currently sits
	pos := make([]int, n)
	at := make([]int, n)
	for i := range n {
		pos[i] = i
		at[i] = i
	}
	for i, want := range order {
		j := pos[want]
		if i == j {
			continue
		}
		swap(i, j)
		a, b := at[i], at[j]
		at[i], at[j] = b, a
		pos[a], pos[b] = j, i
	}
}

// QueueIntn adds values to the Intn result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.IntnResults = append(r.IntnResults, values...)
}

// QueueShuffle adds a permutation to the Shuffle queue
func (r *MockRandom) QueueShuffle(order ...int) {
	r.ShuffleOrders = append(r.ShuffleOrders, order)
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.IntnResults = nil
	r.intnIndex = 0
	r.ShuffleOrders = nil
	r.shuffleIndex = 0
}
