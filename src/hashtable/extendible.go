// Package hashtable implements an extendible hash table: a directory of
// buckets that grows by doubling, splitting one overfull bucket at a time.
// It is the lookup substrate the buffer pool uses to map page ids to
// frames; grounded on original_source/cmuDB/src/hash/extendible_hash.cpp.
package hashtable

import (
	"sync"

	"github.com/Blackdeer1524/pagecache/src/metrics"
	"github.com/Blackdeer1524/pagecache/src/pkg/assert"
	"github.com/Blackdeer1524/pagecache/src/pkg/optional"
)

type bucket[K comparable, V any] struct {
	localDepth int
	items      map[K]V
}

func newBucket[K comparable, V any](localDepth, capacity int) *bucket[K, V] {
	return &bucket[K, V]{
		localDepth: localDepth,
		items:      make(map[K]V, capacity),
	}
}

// Table is a generic extendible hash table mapping K to V. All operations
// are atomic under a single internal mutex.
type Table[K comparable, V any] struct {
	mu sync.Mutex

	hasher         Hasher[K]
	bucketCapacity int

	globalDepth int
	directory   []*bucket[K, V]

	metrics metrics.Sink
}

// New constructs a table with a single bucket of local depth 0 and global
// depth 0, per spec. bucketCapacity must be positive. metricsSink receives
// this table's split instrumentation; pass metrics.Nop{} if none is wanted.
func New[K comparable, V any](bucketCapacity int, hasher Hasher[K], metricsSink metrics.Sink) *Table[K, V] {
	assert.Assert(bucketCapacity > 0, "bucket capacity must be positive")

	root := newBucket[K, V](0, bucketCapacity)

	return &Table[K, V]{
		hasher:         hasher,
		bucketCapacity: bucketCapacity,
		globalDepth:    0,
		directory:      []*bucket[K, V]{root},
		metrics:        metricsSink,
	}
}

// directoryIndex returns the low globalDepth bits of the key's hash.
func (t *Table[K, V]) directoryIndex(key K) int {
	if t.globalDepth == 0 {
		return 0
	}
	mask := uint64(1)<<uint(t.globalDepth) - 1
	return int(t.hasher(key) & mask)
}

func (t *Table[K, V]) getBucket(key K) *bucket[K, V] {
	return t.directory[t.directoryIndex(key)]
}

// Find returns the value stored for key, if any.
func (t *Table[K, V]) Find(key K) optional.Optional[V] {
	t.mu.Lock()
	defer t.mu.Unlock()

	b := t.getBucket(key)
	if v, ok := b.items[key]; ok {
		return optional.Some(v)
	}
	return optional.None[V]()
}

// Remove deletes key if present, reporting whether it was present. No
// rebalancing (bucket merge) happens on removal — merging is a non-goal.
func (t *Table[K, V]) Remove(key K) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	b := t.getBucket(key)
	if _, ok := b.items[key]; !ok {
		return false
	}
	delete(b.items, key)
	return true
}

// Insert stores (key, value), overwriting any existing value for key, and
// splitting buckets as needed to make room for a genuinely new key.
func (t *Table[K, V]) Insert(key K, value V) {
	t.mu.Lock()
	defer t.mu.Unlock()

	target := t.getBucket(key)
	if _, exists := target.items[key]; exists {
		target.items[key] = value
		return
	}

	for len(target.items) >= t.bucketCapacity {
		t.split(target)
		target = t.getBucket(key)
	}

	target.items[key] = value
}

// split grows b to make room for one more key, per the algorithm in
// spec.md §4.2: double the directory if b's local depth has caught up with
// the global depth, allocate a peer bucket, repoint the directory entries
// whose newly-significant bit is set, and rehash b's existing items between
// b and its new peer.
func (t *Table[K, V]) split(b *bucket[K, V]) {
	if b.localDepth == t.globalDepth {
		length := len(t.directory)
		t.directory = append(t.directory, t.directory[:length]...)
		t.globalDepth++
		t.metrics.IncrCounter([]string{"hashtable", "directory_doubled"}, 1)
	}

	mask := 1 << uint(b.localDepth)
	b.localDepth++

	peer := newBucket[K, V](b.localDepth, t.bucketCapacity)

	for i, d := range t.directory {
		if d == b && i&mask != 0 {
			t.directory[i] = peer
		}
	}

	for k, v := range b.items {
		if t.getBucket(k) != b {
			peer.items[k] = v
			delete(b.items, k)
		}
	}

	t.metrics.IncrCounter([]string{"hashtable", "split"}, 1)
}

// GlobalDepth reports the directory's current depth.
func (t *Table[K, V]) GlobalDepth() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.globalDepth
}

// LocalDepth reports the local depth of the bucket referenced by the given
// directory index.
func (t *Table[K, V]) LocalDepth(directoryIndex int) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.directory[directoryIndex].localDepth
}

// NumBuckets reports the number of distinct buckets currently referenced by
// the directory, counting each bucket once at its canonical entry: the
// lowest directory index i such that i's low localDepth bits are exactly
// the bucket's own discriminator (equivalently, the first index at or below
// globalDepth width that addresses it without an alias bit set above its
// local depth).
func (t *Table[K, V]) NumBuckets() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	count := 0
	for i, b := range t.directory {
		if i < 1<<uint(b.localDepth) {
			count++
		}
	}
	return count
}
