package analysispool

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultOK          = "ok"
	resultPartial     = "partial"
	resultCached      = "cached"
	resultUnavailable = "unavailable"
	resultCanceled    = "canceled"
)

var (
	analysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "esocheck_analyses_total",
			Help: "Analyses served, by result (ok, partial, cached, unavailable, canceled).",
		},
		[]string{"result"},
	)
	analysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "esocheck_analysis_duration_seconds",
			Help:    "Time to collect and assemble one report.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)
	queueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "esocheck_queue_length",
			Help: "Websocket analyses waiting for the worker.",
		},
	)
	sectionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "esocheck_section_failures_total",
			Help: "Report sections that failed and were left out, by section.",
		},
		[]string{"section"},
	)
)
