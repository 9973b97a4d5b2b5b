package playlist

import (
	"encoding/binary"
	"math/rand"
	"time"

	cryptorand "crypto/rand"
)

// NewRand creates a pseudo-random source seeded from crypto/rand.
func NewRand() *rand.Rand {
	return rand.New(rand.NewSource(trueRandSeed()))
}

// Meme.
func trueRandSeed() (seed int64) {
	err := binary.Read(cryptorand.Reader, binary.LittleEndian, &seed)
	if err == nil {
		return
	}
	return time.Now().UnixNano()
}

// ResetQueue resets the queue to the identity order.
func ResetQueue(queue []int) {
	for i := range queue {
		queue[i] = i
	}
}

// ShuffleQueue shuffles the queue in place.
func ShuffleQueue(r *rand.Rand, queue []int) {
	r.Shuffle(len(queue), func(i, j int) {
		queue[i], queue[j] = queue[j], queue[i]
	})
}
