package customscan

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	relationsInspected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "zdbscan",
		Subsystem: "planner",
		Name:      "relations_inspected_total",
		Help:      "number of base relations handed to the path generation hook",
	})

	pathsProposed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "zdbscan",
		Subsystem: "planner",
		Name:      "paths_proposed_total",
		Help:      "number of custom paths registered with the planner",
	})

	scanPhaseTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zdbscan",
		Subsystem: "executor",
		Name:      "scans_total",
		Help:      "number of scan states entering each lifecycle phase",
	}, []string{"phase"})

	cleanupFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "zdbscan",
		Subsystem: "executor",
		Name:      "cleanup_failures_total",
		Help:      "number of scan resource releases that failed and were swallowed",
	})
)
