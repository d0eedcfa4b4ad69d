package util

import "math/rand"

// streamStride spaces the seeds of one batch apart.
const streamStride = 7919

// Stream is the source for draw i of a batch seeded with seed. Every draw
// gets its own source, so a single sample can be replayed without the ones
// before it.
func Stream(seed int64, i int) *rand.Rand {
	s := seed + int64(i)*streamStride
	if s == 0 {
		s = 1
	}
	return rand.New(rand.NewSource(s))
}
