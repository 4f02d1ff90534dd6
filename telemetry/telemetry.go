// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package telemetry exposes the vehicle core's runtime counters and gauges
// as Prometheus metrics: welded-group rebuilds, separation events, plumbing
// reducer iterations, retained flow paths, and fluid mass moved per tick.
// Nothing in the rest of this module depends on a live Prometheus server;
// a Registry is just a handle other packages report numbers through.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every metric this module reports. A Context (see package
// vehicle) carries one Registry, constructed once per process.
type Registry struct {
	registry *prometheus.Registry

	WeldedGroupRebuildsTotal   prometheus.Counter
	WeldedGroupsActive         prometheus.Gauge
	SeparationEventsTotal      prometheus.Counter
	PiecesSeparatedTotal       prometheus.Counter
	PlumbingTicksTotal         prometheus.Counter
	PlumbingReducerIterations  prometheus.Histogram
	PlumbingRetainedPaths      prometheus.Gauge
	PlumbingFluidMassMoved     prometheus.Counter
}

// NewRegistry constructs and registers every metric against a fresh
// Prometheus registry.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{registry: reg}

	r.WeldedGroupRebuildsTotal = promauto.With(reg).NewCounter(prometheus.CounterOpts{
		Name: "vehiclecore_welded_group_rebuilds_total",
		Help: "Total number of welded-group rebuild passes.",
	})
	r.WeldedGroupsActive = promauto.With(reg).NewGauge(prometheus.GaugeOpts{
		Name: "vehiclecore_welded_groups_active",
		Help: "Current number of welded groups across all vehicles.",
	})
	r.SeparationEventsTotal = promauto.With(reg).NewCounter(prometheus.CounterOpts{
		Name: "vehiclecore_separation_events_total",
		Help: "Total number of separation sweeps that produced at least one new vehicle.",
	})
	r.PiecesSeparatedTotal = promauto.With(reg).NewCounter(prometheus.CounterOpts{
		Name: "vehiclecore_pieces_separated_total",
		Help: "Total number of pieces moved into a new vehicle by separation.",
	})
	r.PlumbingTicksTotal = promauto.With(reg).NewCounter(prometheus.CounterOpts{
		Name: "vehiclecore_plumbing_ticks_total",
		Help: "Total number of plumbing solver ticks run.",
	})
	r.PlumbingReducerIterations = promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
		Name:    "vehiclecore_plumbing_reducer_iterations",
		Help:    "Forced-path reduction sweeps needed to converge, per tick.",
		Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64, 100},
	})
	r.PlumbingRetainedPaths = promauto.With(reg).NewGauge(prometheus.GaugeOpts{
		Name: "vehiclecore_plumbing_retained_paths",
		Help: "Number of flow paths retained after the last tick's reduction.",
	})
	r.PlumbingFluidMassMoved = promauto.With(reg).NewCounter(prometheus.CounterOpts{
		Name: "vehiclecore_plumbing_fluid_mass_moved_total",
		Help: "Cumulative fluid mass (gas+liquid) moved across all retained paths.",
	})

	return r
}

// PrometheusRegistry returns the underlying registry for wiring into an
// HTTP /metrics handler; this module does not start one itself.
func (r *Registry) PrometheusRegistry() *prometheus.Registry { return r.registry }
