// Package entropy provides the simulation's random source and the weighted
// arbitration primitive every decision layer draws from.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"log/slog"
	mrand "math/rand"
)

// New returns a seeded pseudo-random source. A zero seed is replaced by one
// drawn from crypto/rand so unseeded runs differ from each other.
func New(seed int64) *mrand.Rand {
	if seed == 0 {
		seed = CryptoSeed()
		slog.Debug("entropy seeded from crypto/rand", "seed", seed)
	}
	return mrand.New(mrand.NewSource(seed))
}

// CryptoSeed returns a non-zero seed read from crypto/rand.
func CryptoSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// This should never happen; fall back to a fixed seed.
		return 1
	}
	seed := int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
	if seed == 0 {
		seed = 1
	}
	return seed
}
