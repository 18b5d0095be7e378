package hashtable

import (
	"encoding/binary"
	"hash/fnv"
)

// DefaultSeed is an arbitrary odd 64-bit constant (the golden-ratio-derived
// constant also used by the teacher's DeterministicHasher64) used where a
// stable, process-independent seed is desired.
const DefaultSeed uint64 = 0x9e3779b97f4a7c15

// Hasher produces a deterministic 64-bit digest for a key. The extendible
// hash table only ever looks at the digest's low bits (per GlobalDepth), so
// any function with good low-bit distribution works.
type Hasher[K any] func(K) uint64

// NewFNV1aHasher wraps the standard library's FNV-1a with a seed mixed into
// the hash state before the key bytes, mirroring the teacher's
// DeterministicHasher64: two tables built with different seeds route the
// same keys to different buckets without changing the underlying algorithm.
// marshal turns a key into the bytes that get hashed.
func NewFNV1aHasher[K any](seed uint64, marshal func(K) []byte) Hasher[K] {
	return func(key K) uint64 {
		h := fnv.New64a()

		var seedBuf [8]byte
		binary.LittleEndian.PutUint64(seedBuf[:], seed)
		_, _ = h.Write(seedBuf[:])

		_, _ = h.Write(marshal(key))

		return h.Sum64()
	}
}

// Int64Bytes is a marshal func for signed 64-bit integer keys such as
// common.PageID.
func Int64Bytes(key int64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(key))
	return buf[:]
}
