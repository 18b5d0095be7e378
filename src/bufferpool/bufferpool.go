// Package bufferpool implements the fixed-capacity page cache: a pool of
// frames backed by a disk manager, indexed by an extendible hash table, and
// evicted through an LRU replacer. Grounded on the teacher's
// src/bufferpool/bufferpool.go (free-list-before-replacer victim
// selection) generalized from the teacher's slotted-page payload to a plain
// fixed-size byte buffer, since page content format is out of this
// module's scope. The teacher's fast/slow-path locking is not kept: every
// public operation holds one mutex for its whole duration.
package bufferpool

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/Blackdeer1524/pagecache/src/hashtable"
	"github.com/Blackdeer1524/pagecache/src/logging"
	"github.com/Blackdeer1524/pagecache/src/logmanager"
	"github.com/Blackdeer1524/pagecache/src/metrics"
	"github.com/Blackdeer1524/pagecache/src/pkg/assert"
	"github.com/Blackdeer1524/pagecache/src/pkg/common"
	"github.com/Blackdeer1524/pagecache/src/replacer"
)

// DiskManager is the buffer pool's external disk collaborator, matching
// src/disk.Manager's shape without binding to its concrete type.
type DiskManager interface {
	ReadPage(pageID common.PageID, buf []byte) error
	WritePage(pageID common.PageID, buf []byte) error
	AllocatePage() common.PageID
	DeallocatePage(pageID common.PageID) error
}

type frame struct {
	pageID   common.PageID
	pinCount int
	isDirty  bool
	data     []byte
}

// PoolStats is a point-in-time snapshot of pool occupancy, returned by
// GetPoolStats for the inspect CLI command.
type PoolStats struct {
	PoolSize      int
	FramesInUse   int
	FreeListSize  int
	ReplacerSize  int
	GlobalDepth   int
	NumBuckets    int
}

// Manager is the buffer pool manager: owner of the frame array, free list,
// page table, and replacer described by this module's page-cache-core
// design.
type Manager struct {
	mu sync.Mutex

	pageSize int
	frames   []frame
	freeList []common.FrameID

	table    *hashtable.Table[common.PageID, common.FrameID]
	replacer *replacer.LRU[common.FrameID]

	disk DiskManager
	log  logmanager.Manager

	logger  logging.Logger
	metrics metrics.Sink

	instanceID uuid.UUID
}

// New constructs a Manager with poolSize frames of pageSize bytes each, a
// hash table with the given bucket capacity, and the supplied
// collaborators. New does not substitute no-op defaults for a nil log,
// logger, or metrics sink, mirroring the teacher's constructor, which
// never second-guesses what it's handed; no-op implementations
// (logmanager.NopManager, logging.Nop, metrics.Nop) exist for callers that
// want none.
func New(
	poolSize int,
	pageSize int,
	bucketCapacity int,
	disk DiskManager,
	log logmanager.Manager,
	logger logging.Logger,
	metricsSink metrics.Sink,
) *Manager {
	assert.Assert(poolSize > 0, "pool size must be positive")
	assert.Assert(pageSize > 0, "page size must be positive")

	frames := make([]frame, poolSize)
	freeList := make([]common.FrameID, poolSize)
	for i := range frames {
		frames[i] = frame{pageID: common.InvalidPageID, data: make([]byte, pageSize)}
		freeList[i] = common.FrameID(i)
	}

	hasher := hashtable.NewFNV1aHasher[common.PageID](hashtable.DefaultSeed, func(k common.PageID) []byte {
		return hashtable.Int64Bytes(int64(k))
	})

	return &Manager{
		pageSize:   pageSize,
		frames:     frames,
		freeList:   freeList,
		table:      hashtable.New[common.PageID, common.FrameID](bucketCapacity, hasher, metricsSink),
		replacer:   replacer.New[common.FrameID](),
		disk:       disk,
		log:        log,
		logger:     logger,
		metrics:    metricsSink,
		instanceID: uuid.New(),
	}
}

// reserveVictim returns a frame ready to receive a new page's contents:
// popped from the free list if nonempty, otherwise chosen by the
// replacer. Must be called with mu held. ok is false if the pool is
// exhausted (every frame pinned).
func (m *Manager) reserveVictim() (frameID common.FrameID, ok bool) {
	if n := len(m.freeList); n > 0 {
		frameID = m.freeList[n-1]
		m.freeList = m.freeList[:n-1]
		return frameID, true
	}

	victim, present := m.replacer.Victim()
	if !present {
		m.metrics.IncrCounter([]string{"bufferpool", "pool_exhausted"}, 1)
		return 0, false
	}
	return victim, true
}

// evictInto prepares frameID to hold a different page: writes back a dirty
// resident, removes its EHT mapping, and clears the frame. Must be called
// with mu held.
func (m *Manager) evictInto(frameID common.FrameID) error {
	f := &m.frames[frameID]

	if f.pageID.IsValid() {
		if f.isDirty {
			if err := m.disk.WritePage(f.pageID, f.data); err != nil {
				return err
			}
			m.metrics.IncrCounter([]string{"bufferpool", "eviction", "dirty_writeback"}, 1)
		}
		m.table.Remove(f.pageID)
		m.replacer.Erase(frameID)
		m.metrics.IncrCounter([]string{"bufferpool", "eviction"}, 1)
	}

	f.pageID = common.InvalidPageID
	f.pinCount = 0
	f.isDirty = false
	for i := range f.data {
		f.data[i] = 0
	}
	return nil
}

// FetchPage pins and returns pageID's frame payload, reading it from disk
// on a miss. ok is false for an invalid id or a pool-exhausted miss; err
// carries any disk I/O failure encountered on a miss.
func (m *Manager) FetchPage(pageID common.PageID) (data []byte, ok bool, err error) {
	if !pageID.IsValid() {
		return nil, false, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sampleLocked()

	if found := m.table.Find(pageID); found.IsSome() {
		frameID := found.Unwrap()
		f := &m.frames[frameID]
		f.pinCount++
		m.replacer.Erase(frameID)
		m.metrics.IncrCounter([]string{"bufferpool", "hit"}, 1)
		return f.data, true, nil
	}

	m.metrics.IncrCounter([]string{"bufferpool", "miss"}, 1)

	frameID, gotVictim := m.reserveVictim()
	if !gotVictim {
		return nil, false, nil
	}

	if err := m.evictInto(frameID); err != nil {
		return nil, false, err
	}

	f := &m.frames[frameID]
	if err := m.disk.ReadPage(pageID, f.data); err != nil {
		m.freeList = append(m.freeList, frameID)
		return nil, false, err
	}

	f.pageID = pageID
	f.pinCount = 1
	f.isDirty = false

	m.table.Insert(pageID, frameID)

	return f.data, true, nil
}

type unpinOutcome int

const (
	unpinAbsent unpinOutcome = iota
	unpinOverUnpin
	unpinOK
)

// unpinLocked is UnpinPage's single atomic critical section, distinguishing
// "page not present" from "already at pin count zero" so callers that need
// the distinction (UnpinPageErr) don't have to split the check from the act
// across two lock acquisitions. Must be called with mu held.
func (m *Manager) unpinLocked(pageID common.PageID, isDirty bool) unpinOutcome {
	m.sampleLocked()

	found := m.table.Find(pageID)
	if found.IsNone() {
		return unpinAbsent
	}
	frameID := found.Unwrap()

	f := &m.frames[frameID]
	if f.pinCount <= 0 {
		return unpinOverUnpin
	}

	f.pinCount--
	f.isDirty = f.isDirty || isDirty

	if f.pinCount == 0 {
		m.replacer.Insert(frameID)
	}

	return unpinOK
}

// UnpinPage decrements pageID's pin count, moving the frame into the
// replacer once the count reaches zero. isDirty is OR'd into the frame's
// existing dirty bit rather than overwriting it (spec §9 open question 1):
// once dirty, a frame stays dirty until flushed or written back on
// eviction.
func (m *Manager) UnpinPage(pageID common.PageID, isDirty bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.unpinLocked(pageID, isDirty) == unpinOK
}

// FlushPage writes pageID's current payload to disk and clears its dirty
// bit, without touching pin state or replacer membership.
func (m *Manager) FlushPage(pageID common.PageID) (bool, error) {
	if !pageID.IsValid() {
		return false, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	found := m.table.Find(pageID)
	if found.IsNone() {
		return false, nil
	}
	frameID := found.Unwrap()

	f := &m.frames[frameID]
	if err := m.disk.WritePage(pageID, f.data); err != nil {
		return false, err
	}
	f.isDirty = false

	return true, nil
}

// FlushAllPages flushes every dirty resident frame, accumulating per-page
// failures rather than aborting on the first one (supplemental over the
// distilled spec; grounded in the teacher's Manager.FlushAllPages).
func (m *Manager) FlushAllPages() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs error
	for i := range m.frames {
		f := &m.frames[i]
		if !f.pageID.IsValid() || !f.isDirty {
			continue
		}
		if err := m.disk.WritePage(f.pageID, f.data); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		f.isDirty = false
	}
	return errs
}

// DeletePage removes pageID from the pool entirely. Absent pages report
// success (spec §9 open question 4: "successfully absent"); pinned pages
// cannot be deleted.
func (m *Manager) DeletePage(pageID common.PageID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	found := m.table.Find(pageID)
	if found.IsNone() {
		return true, nil
	}
	frameID := found.Unwrap()

	f := &m.frames[frameID]
	if f.pinCount != 0 {
		return false, nil
	}

	if f.isDirty {
		if err := m.disk.WritePage(pageID, f.data); err != nil {
			return false, err
		}
	}

	m.table.Remove(pageID)
	m.replacer.Erase(frameID)

	if err := m.disk.DeallocatePage(pageID); err != nil {
		return false, err
	}

	f.pageID = common.InvalidPageID
	f.pinCount = 0
	f.isDirty = false
	for i := range f.data {
		f.data[i] = 0
	}
	m.freeList = append(m.freeList, frameID)

	return true, nil
}

// NewPage allocates a fresh page id, reserves a frame for it via the usual
// free-list-then-replacer victim selection, and returns the pinned,
// zeroed frame.
func (m *Manager) NewPage() (pageID common.PageID, data []byte, ok bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sampleLocked()

	frameID, gotVictim := m.reserveVictim()
	if !gotVictim {
		return common.InvalidPageID, nil, false, nil
	}

	if err := m.evictInto(frameID); err != nil {
		return common.InvalidPageID, nil, false, err
	}

	newID := m.disk.AllocatePage()

	f := &m.frames[frameID]
	f.pageID = newID
	f.pinCount = 1
	f.isDirty = false

	m.table.Insert(newID, frameID)

	return newID, f.data, true, nil
}

// GetPoolStats reports a point-in-time snapshot of pool occupancy.
func (m *Manager) GetPoolStats() PoolStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	return PoolStats{
		PoolSize:     len(m.frames),
		FramesInUse:  len(m.frames) - len(m.freeList) - m.replacer.Size(),
		FreeListSize: len(m.freeList),
		ReplacerSize: m.replacer.Size(),
		GlobalDepth:  m.table.GlobalDepth(),
		NumBuckets:   m.table.NumBuckets(),
	}
}

// sampleLocked emits the free-list/replacer gauges; called from within
// public operations while mu is already held.
func (m *Manager) sampleLocked() {
	m.metrics.SetGauge([]string{"bufferpool", "free_list_size"}, float32(len(m.freeList)))
	m.metrics.SetGauge([]string{"bufferpool", "replacer_size"}, float32(m.replacer.Size()))
}

// FetchPageErr is FetchPage's error-returning counterpart for callers that
// prefer errors.Is over an ok bool.
func (m *Manager) FetchPageErr(pageID common.PageID) ([]byte, error) {
	if !pageID.IsValid() {
		return nil, ErrInvalidPageID
	}
	data, ok, err := m.FetchPage(pageID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPoolExhausted
	}
	return data, nil
}

// UnpinPageErr is UnpinPage's error-returning counterpart.
func (m *Manager) UnpinPageErr(pageID common.PageID, isDirty bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.unpinLocked(pageID, isDirty) {
	case unpinAbsent:
		return ErrPageNotPresent
	case unpinOverUnpin:
		return ErrOverUnpin
	default:
		return nil
	}
}

// FlushPageErr is FlushPage's error-returning counterpart.
func (m *Manager) FlushPageErr(pageID common.PageID) error {
	if !pageID.IsValid() {
		return ErrInvalidPageID
	}
	ok, err := m.FlushPage(pageID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPageNotPresent
	}
	return nil
}

// DeletePageErr is DeletePage's error-returning counterpart.
func (m *Manager) DeletePageErr(pageID common.PageID) error {
	ok, err := m.DeletePage(pageID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPagePinned
	}
	return nil
}
