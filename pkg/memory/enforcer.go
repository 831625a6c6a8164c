// Package memory enforces per-partition byte budgets at buffer granularity.
// The enforcer is an independent ledger keyed by partition id: it
// complements the manager's coarse fraction accounting and is consulted by
// workloads at buffer allocation time.
package memory

import (
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	cerrors "github.com/chronos-gpu/chronos/pkg/errors"
)

// ledger tracks buffer-level usage for one partition. The used counter is
// always the sum of the tracked buffer sizes.
type ledger struct {
	limit   uint64
	used    uint64
	buffers map[string]uint64
}

// Enforcer holds one ledger per registered partition.
type Enforcer struct {
	mu      sync.Mutex
	ledgers map[string]*ledger
	logger  *logrus.Entry
}

// NewEnforcer returns an empty enforcer.
func NewEnforcer(logger *logrus.Entry) *Enforcer {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}

	return &Enforcer{
		ledgers: map[string]*ledger{},
		logger:  logger,
	}
}

// AllocatePartition registers a ledger with the given byte budget. A
// partition can hold at most one ledger.
func (e *Enforcer) AllocatePartition(id string, limit uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.ledgers[id]; exists {
		return cerrors.ErrLedgerExists
	}

	e.ledgers[id] = &ledger{
		limit:   limit,
		buffers: map[string]uint64{},
	}

	e.logger.WithFields(logrus.Fields{
		"partition": id,
		"limit":     limit,
	}).Debug("registered memory ledger")

	return nil
}

// CanAllocate reports whether a buffer of the given size would fit within
// the partition's budget. Pure check, no side effect.
func (e *Enforcer) CanAllocate(id string, size uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	l, exists := e.ledgers[id]

	return exists && l.used+size <= l.limit
}

// TrackBuffer records a buffer against the partition's budget. Nothing is
// recorded when the buffer would exceed the limit or the handle is already
// tracked.
func (e *Enforcer) TrackBuffer(id, handle string, size uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	l, exists := e.ledgers[id]
	if !exists {
		return cerrors.ErrLedgerNotFound
	}

	if _, tracked := l.buffers[handle]; tracked {
		return cerrors.ErrBufferAlreadyTracked
	}

	if l.used+size > l.limit {
		return cerrors.MemoryLimitError{
			PartitionID: id,
			Requested:   size,
			Used:        l.used,
			Limit:       l.limit,
		}
	}

	l.used += size
	l.buffers[handle] = size

	return nil
}

// ReleaseBuffer removes a tracked buffer and returns its size to the budget.
func (e *Enforcer) ReleaseBuffer(id, handle string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	l, exists := e.ledgers[id]
	if !exists {
		return cerrors.ErrLedgerNotFound
	}

	size, tracked := l.buffers[handle]
	if !tracked {
		return cerrors.ErrBufferNotTracked
	}

	l.used -= size
	delete(l.buffers, handle)

	return nil
}

// ReleasePartition drops the ledger and all tracked handles. The caller is
// responsible for having released the real allocations first.
func (e *Enforcer) ReleasePartition(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	delete(e.ledgers, id)
}

// ActivePartitions returns the ids of every registered ledger, sorted.
func (e *Enforcer) ActivePartitions() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	ids := make([]string, 0, len(e.ledgers))
	for id := range e.ledgers {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}

// MemoryLimit returns the partition's byte budget.
func (e *Enforcer) MemoryLimit(id string) (uint64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	l, exists := e.ledgers[id]
	if !exists {
		return 0, false
	}

	return l.limit, true
}

// CurrentUsage returns the sum of the partition's tracked buffer sizes.
func (e *Enforcer) CurrentUsage(id string) (uint64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	l, exists := e.ledgers[id]
	if !exists {
		return 0, false
	}

	return l.used, true
}
