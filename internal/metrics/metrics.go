// Package metrics exposes the bot's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	TriggerScheduled = "scheduled"
	TriggerOnDemand  = "on_demand"
)

var (
	// Deliveries counts forecast delivery attempts by trigger and outcome.
	Deliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "weatherbot_deliveries_total",
		Help: "Weather forecast deliveries by trigger and outcome.",
	}, []string{"trigger", "status"})

	// ActiveJobs tracks the number of installed per-user notification jobs.
	ActiveJobs = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "weatherbot_active_jobs",
		Help: "Installed per-user daily notification jobs.",
	})
)
