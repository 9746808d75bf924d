package analyzer

import (
	"time"

	"github.com/google/uuid"

	"github.com/ANIKETSHETTY47/carbon-aware-scheduler/internal/domain"
)

const (
	MinDurationHours = 1
	MaxDurationHours = 24
	hoursPerDay      = 24

	minBaseIntensity = 480
	maxBaseIntensity = 620
	minReductionDraw = 120
	maxReductionDraw = 200
	// optimized intensity always sits at least this far below the base
	minReduction = 60
)

// Weights maps a resource tier to its energy multiplier.
type Weights map[domain.ResourceTier]float64

func DefaultWeights() Weights {
	return Weights{
		domain.TierLowGPU:    0.6,
		domain.TierMediumGPU: 1.2,
		domain.TierHighGPU:   2.0,
	}
}

// Analyzer turns a task configuration into a randomized optimization result.
// It holds no per-request state and is safe for concurrent use when its Source is.
type Analyzer struct {
	src     Source
	weights Weights
	now     func() time.Time
	newID   func() string
}

type Option func(*Analyzer)

func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

func WithIDGenerator(fn func() string) Option {
	return func(a *Analyzer) { a.newID = fn }
}

func New(src Source, opts ...Option) *Analyzer {
	if src == nil {
		src = NewRandSource()
	}
	a := &Analyzer{
		src:     src,
		weights: DefaultWeights(),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Weight reports the energy multiplier for tier. The unselected sentinel has none.
func (a *Analyzer) Weight(tier domain.ResourceTier) (float64, bool) {
	if tier == domain.TierUnselected {
		return 0, false
	}
	w, ok := a.weights[tier]
	return w, ok
}

// Analyze runs one analysis. It reports false, and does nothing, when the tier
// is unselected or has no weight.
func (a *Analyzer) Analyze(cfg domain.TaskConfig) (domain.Analysis, bool) {
	weight, ok := a.Weight(cfg.Tier)
	if !ok {
		return domain.Analysis{}, false
	}

	cfg.DurationHours = ClampDuration(cfg.DurationHours)
	sample := Sample(a.src)
	start := WindowStart(a.src, cfg.DurationHours)
	res := Derive(cfg, sample, start, weight)

	return domain.Analysis{
		ID:           a.newID(),
		Task:         cfg,
		Sample:       sample,
		Result:       res,
		StartLabel:   FormatHour(res.WindowStart),
		EndLabel:     FormatHour(res.WindowEnd),
		Confidence:   domain.ConfidenceHigh,
		EnergyWeight: weight,
		CreatedAt:    a.now().UTC(),
	}, true
}

// Sample draws the base intensity first and the reduction second.
func Sample(src Source) domain.IntensitySample {
	base := src.IntRange(minBaseIntensity, maxBaseIntensity)
	optimized := base - src.IntRange(minReductionDraw, maxReductionDraw)
	return domain.IntensitySample{
		BaseIntensity:      base,
		OptimizedIntensity: min(optimized, base-minReduction),
	}
}

// WindowStart draws a start hour so that a block of duration hours ends by 24.
func WindowStart(src Source, duration int) int {
	return src.IntRange(0, hoursPerDay-ClampDuration(duration))
}

// Derive is the deterministic part of the analysis.
func Derive(cfg domain.TaskConfig, s domain.IntensitySample, windowStart int, weight float64) domain.OptimizationResult {
	reduction := float64(s.BaseIntensity-s.OptimizedIntensity) / float64(s.BaseIntensity) * 100
	return domain.OptimizationResult{
		WindowStart:      windowStart,
		WindowEnd:        windowStart + cfg.DurationHours,
		ReductionPercent: reduction,
		CO2SavedKg:       reduction * float64(cfg.DurationHours) * weight / 100,
	}
}

// ClampDuration pins d to [MinDurationHours, MaxDurationHours], the same range
// the form's number input enforces.
func ClampDuration(d int) int {
	return min(max(d, MinDurationHours), MaxDurationHours)
}
