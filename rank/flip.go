package rank

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
)

// Coin yields one uniform random bit per flip. The contraction step is
// correct under any bit sequence; only its convergence rate depends on the
// coin being fair. Tests inject a seeded coin to reproduce runs.
type Coin interface {
	Flip() uint32
}

type seededCoin struct {
	rng *rand.Rand
}

func (c *seededCoin) Flip() uint32 {
	return uint32(c.rng.Int63() & 1)
}

// NewCoin returns a deterministic coin for a given seed.
func NewCoin(seed int64) Coin {
	return &seededCoin{rng: rand.New(rand.NewSource(seed))}
}

// NewEntropyCoin seeds a coin from platform entropy.
func NewEntropyCoin() Coin {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		// Entropy failure degrades convergence, never correctness.
		return NewCoin(1)
	}
	return NewCoin(int64(binary.LittleEndian.Uint64(b[:])))
}
