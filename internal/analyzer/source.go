package analyzer

import (
	"math/rand"
	"sync"
)

// Source draws uniform integers from the closed range [lo, hi].
type Source interface {
	IntRange(lo, hi int) int
}

type randSource struct{}

// NewRandSource returns the process-wide, unseeded source.
func NewRandSource() Source { return randSource{} }

func (randSource) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rand.Intn(hi-lo+1)
}

// Sequence replays fixed draws in order. Values outside the requested range are
// clamped into it, and the last value repeats once the sequence is exhausted.
type Sequence struct {
	mu     sync.Mutex
	values []int
	next   int
}

func NewSequence(values ...int) *Sequence {
	return &Sequence{values: values}
}

func (s *Sequence) IntRange(lo, hi int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.values) == 0 {
		return lo
	}
	i := s.next
	if i >= len(s.values) {
		i = len(s.values) - 1
	} else {
		s.next++
	}
	return min(max(s.values[i], lo), hi)
}
