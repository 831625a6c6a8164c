package partition

import (
	"time"

	multierror "github.com/hashicorp/go-multierror"
)

// monitor is the expiry sweep loop. It runs until Close signals it and
// keeps running through individual sweep failures.
func (m *Manager) monitor(tick time.Duration) {
	defer close(m.monitorDone)

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-m.monitorQuit:
			return
		case <-ticker.C:
			if err := m.sweep(); err != nil {
				m.logger.WithError(err).Warn("expiry sweep")
			}
		}
	}
}

// sweep reclaims every overdue partition and then compacts the list. The
// monitor acts with system authority, so no ownership check happens here.
// This is the only place inactive entries are removed; read paths filter on
// Active rather than depending on when compaction runs.
func (m *Manager) sweep() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.plat.Now()

	var errs *multierror.Error

	for i := range m.partitions {
		p := &m.partitions[i]
		if !p.Active || !p.Expired(now) {
			continue
		}

		if err := m.reclaimLocked(p); err != nil {
			errs = multierror.Append(errs, err)
		}

		p.Active = false

		partitionsExpired.Inc()
		activePartitions.Dec()

		m.logger.WithField("partition", p.ID).Info("partition expired and released")
	}

	kept := m.partitions[:0]

	for _, p := range m.partitions {
		if p.Active {
			kept = append(kept, p)
		}
	}

	m.partitions = kept

	return errs.ErrorOrNil()
}
