package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/ANIKETSHETTY47/carbon-aware-scheduler/internal/domain"
)

func TestObserveAnalysisCountsByTier(t *testing.T) {
	before := testutil.ToFloat64(analysesCounter.WithLabelValues(string(domain.TierMediumGPU)))

	ObserveAnalysis(domain.Analysis{
		Task:   domain.TaskConfig{DurationHours: 2, Tier: domain.TierMediumGPU},
		Result: domain.OptimizationResult{ReductionPercent: 20, CO2SavedKg: 0.48},
	})

	after := testutil.ToFloat64(analysesCounter.WithLabelValues(string(domain.TierMediumGPU)))
	if after-before != 1 {
		t.Fatalf("task_analyses_total{tier=Medium GPU} grew by %v, expected 1", after-before)
	}
}

func TestObserveSkipped(t *testing.T) {
	before := testutil.ToFloat64(skippedCounter)
	ObserveSkipped()
	if got := testutil.ToFloat64(skippedCounter) - before; got != 1 {
		t.Fatalf("task_analyses_skipped_total grew by %v, expected 1", got)
	}
}
