package partition

import "github.com/prometheus/client_golang/prometheus"

var (
	partitionsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chronos_partitions_created_total",
		Help: "Total number of partitions created.",
	})
	partitionsReleased = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chronos_partitions_released_total",
		Help: "Total number of partitions released explicitly by their owner.",
	})
	partitionsExpired = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chronos_partitions_expired_total",
		Help: "Total number of partitions reclaimed by the expiry monitor.",
	})
	lockConflicts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chronos_lock_conflicts_total",
		Help: "Total number of partition creations rejected because the lock slot was held.",
	})
	activePartitions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "chronos_active_partitions",
		Help: "Number of currently active partitions.",
	})
	deviceAvailableBytes = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "chronos_device_available_memory_bytes",
		Help: "Available memory per device as tracked by the partition manager.",
	}, []string{"device"})
)

func init() {
	prometheus.MustRegister(
		partitionsCreated,
		partitionsReleased,
		partitionsExpired,
		lockConflicts,
		activePartitions,
		deviceAvailableBytes,
	)
}
