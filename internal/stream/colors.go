package stream

import (
	"math/rand"
	"sync"

	"github.com/a-abella/docklog/internal/model"
)

// Color pools. Normal-intensity codes are preferred; once all five are issued,
// allocation moves to the bright-intensity pool.
var (
	normalPool = []model.ColorToken{31, 32, 33, 34, 35}
	brightPool = []model.ColorToken{91, 92, 93, 94}
)

// Allocator hands out one ColorToken per container. Tokens are unique for the
// run while the pools last; past nine containers the bright pool is reused
// rather than failing. Safe for concurrent use, though allocation only happens
// during session start.
type Allocator struct {
	mu         sync.Mutex
	rng        *rand.Rand
	used       map[model.ColorToken]bool
	issued     int
	retryLimit int
}

func NewAllocator(retryLimit int, seed int64) *Allocator {
	if retryLimit <= 0 {
		retryLimit = 64
	}
	return &Allocator{
		rng:        rand.New(rand.NewSource(seed)),
		used:       make(map[model.ColorToken]bool),
		retryLimit: retryLimit,
	}
}

// Next draws a token at random, rejecting collisions with already-issued
// tokens. When the retry budget runs out it returns an already-issued bright
// token instead of looping forever.
func (a *Allocator) Next() model.ColorToken {
	a.mu.Lock()
	defer a.mu.Unlock()

	pool := normalPool
	if a.issued >= len(normalPool) {
		pool = brightPool
	}
	for i := 0; i < a.retryLimit; i++ {
		token := pool[a.rng.Intn(len(pool))]
		if !a.used[token] {
			a.used[token] = true
			a.issued++
			return token
		}
	}
	// Both pools exhausted: reuse a bright token.
	a.issued++
	return brightPool[a.rng.Intn(len(brightPool))]
}
