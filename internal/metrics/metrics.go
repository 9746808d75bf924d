package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ANIKETSHETTY47/carbon-aware-scheduler/internal/domain"
)

var (
	analysesCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_analyses_total",
			Help: "Total number of task analyses run, by resource tier.",
		},
		[]string{"tier"},
	)
	skippedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "task_analyses_skipped_total",
			Help: "Submissions ignored because no resource tier was selected.",
		},
	)
	reductionHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "task_analysis_reduction_percent",
			Help:    "Carbon intensity reduction reported per analysis.",
			Buckets: prometheus.LinearBuckets(5, 5, 10),
		},
	)
	savedHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "task_analysis_co2_saved_kg",
			Help:    "Estimated CO2 saved per analysis in kg.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
	)
)

func init() {
	prometheus.MustRegister(analysesCounter)
	prometheus.MustRegister(skippedCounter)
	prometheus.MustRegister(reductionHistogram)
	prometheus.MustRegister(savedHistogram)
}

func ObserveAnalysis(a domain.Analysis) {
	analysesCounter.WithLabelValues(string(a.Task.Tier)).Inc()
	reductionHistogram.Observe(a.Result.ReductionPercent)
	savedHistogram.Observe(a.Result.CO2SavedKg)
}

func ObserveSkipped() { skippedCounter.Inc() }

func Handler() http.Handler { return promhttp.Handler() }
