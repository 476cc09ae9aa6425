// Package metrics wires the grid's runtime counters into Prometheus.
// Metrics carry bounded cardinality only (no per-item labels) so output
// size stays flat under high query volume.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	itemCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "grid_item_count",
		Help: "Current number of live items in the grid",
	})

	bucketItemCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "grid_bucket_item_count",
		Help: "Total (cell, item) entries across every bucket",
	})

	cellCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "grid_cell_count",
		Help: "Total addressable cells in the grid (X*Y*Z)",
	})

	queryAABBDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "grid_query_aabb_duration_seconds",
		Help:    "Time spent executing an AABB query",
		Buckets: []float64{0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
	})

	queryOBBDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "grid_query_obb_duration_seconds",
		Help:    "Time spent executing an OBB query",
		Buckets: []float64{0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
	})

	raycastDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "grid_raycast_duration_seconds",
		Help:    "Time spent executing a ray cast",
		Buckets: []float64{0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
	})

	insertDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "grid_insert_duration_seconds",
		Help:    "Time spent inserting a single item",
		Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005},
	})

	capacityExhaustedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "grid_capacity_exhausted_total",
		Help: "Total ErrCapacityExhausted returns from a concurrent writer",
	})

	invariantViolationTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "grid_invariant_violation_total",
		Help: "Total debug-mode invariant-violation assertions raised",
	})
)

// UpdateGridStats sets the three gauge metrics from a single snapshot.
func UpdateGridStats(items, bucketItems, cells int) {
	itemCount.Set(float64(items))
	bucketItemCount.Set(float64(bucketItems))
	cellCount.Set(float64(cells))
}

// RecordQueryAABB records how long an AABB query took.
func RecordQueryAABB(d time.Duration) { queryAABBDuration.Observe(d.Seconds()) }

// RecordQueryOBB records how long an OBB query took.
func RecordQueryOBB(d time.Duration) { queryOBBDuration.Observe(d.Seconds()) }

// RecordRaycast records how long a ray cast took.
func RecordRaycast(d time.Duration) { raycastDuration.Observe(d.Seconds()) }

// RecordInsert records how long a single insert took.
func RecordInsert(d time.Duration) { insertDuration.Observe(d.Seconds()) }

// RecordCapacityExhausted increments the capacity-exhaustion counter.
func RecordCapacityExhausted() { capacityExhaustedTotal.Inc() }

// RecordInvariantViolation increments the invariant-violation counter.
func RecordInvariantViolation() { invariantViolationTotal.Inc() }
