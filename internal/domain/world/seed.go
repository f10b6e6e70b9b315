package world

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"math/rand"
)

// SeedFromString returns a 64-bit seed from an arbitrary string using SHA256.
func SeedFromString(s string) uint64 {
	h := sha256.Sum256([]byte(s))
	return binary.LittleEndian.Uint64(h[:8])
}

// Derive returns a deterministic child seed for a stable label such as
// "quests:day:3".
func Derive(base uint64, label string) uint64 {
	key := make([]byte, 8)
	binary.LittleEndian.PutUint64(key, base)
	m := hmac.New(sha256.New, key)
	_, _ = m.Write([]byte(label))
	sum := m.Sum(nil)
	return binary.LittleEndian.Uint64(sum[:8])
}

// Stream returns a math/rand source seeded from base and label. The result
// also implements io.Reader, which lets it mint deterministic UUIDs.
func Stream(base uint64, label string) *rand.Rand {
	return rand.New(rand.NewSource(int64(Derive(base, label))))
}
