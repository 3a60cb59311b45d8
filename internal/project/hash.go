package project

import (
	"crypto/sha256"
	"encoding/binary"
	"math"

	"squiggle/internal/value"
)

// Digest is a SHA-256 hash.
type Digest [32]byte

// Combine hashes content followed by deps. Callers pass deps in a
// deterministic order.
func Combine(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// HashText hashes a source text.
func HashText(text string) Digest {
	return sha256.Sum256([]byte(text))
}

// HashEnv hashes the environment fields that influence evaluation.
func HashEnv(env value.Env) Digest {
	var buf [8 * 4]byte
	binary.LittleEndian.PutUint64(buf[0:], uint64(max(env.SampleCount, 0)))
	binary.LittleEndian.PutUint64(buf[8:], env.Seed)
	binary.LittleEndian.PutUint64(buf[16:], uint64(max(env.XYPointLength, 0)))
	if env.Profile {
		binary.LittleEndian.PutUint64(buf[24:], math.MaxUint64)
	}
	return sha256.Sum256(buf[:])
}
