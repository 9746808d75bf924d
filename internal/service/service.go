package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/carbon-aware-scheduler/internal/analyzer"
	"github.com/ANIKETSHETTY47/carbon-aware-scheduler/internal/domain"
	"github.com/ANIKETSHETTY47/carbon-aware-scheduler/internal/metrics"
	"github.com/ANIKETSHETTY47/carbon-aware-scheduler/internal/repository"
)

var ErrUnknownTier = errors.New("unknown resource tier")

type Services struct {
	Tiers    repository.Catalog
	Analyses *AnalysisService
}

func New(catalog repository.Catalog, src analyzer.Source, pub Publisher, opts ...analyzer.Option) *Services {
	return &Services{
		Tiers: catalog,
		Analyses: &AnalysisService{
			catalog:   catalog,
			src:       src,
			publisher: pub,
			opts:      opts,
		},
	}
}

// Request is one form submission as it arrives from a client.
type Request struct {
	Name          string `json:"name" form:"name"`
	DurationHours int    `json:"duration_hours" form:"duration_hours"`
	Tier          string `json:"tier" form:"tier"`
}

type AnalysisService struct {
	catalog   repository.Catalog
	src       analyzer.Source
	publisher Publisher
	opts      []analyzer.Option
}

// Analyze runs one analysis for req. A request without a selected tier is a
// no-op and returns (nil, nil).
func (s *AnalysisService) Analyze(ctx context.Context, req Request) (*domain.Analysis, error) {
	label := strings.TrimSpace(req.Tier)
	if label == "" || strings.EqualFold(label, string(domain.TierUnselected)) {
		metrics.ObserveSkipped()
		log.Debug().Str("task", req.Name).Msg("analysis skipped: no resource tier selected")
		return nil, nil
	}

	tiers, err := s.catalog.ListTiers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tiers: %w", err)
	}
	tier, ok := ResolveTier(repository.Normalize(tiers), label)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTier, label)
	}

	a, ok := analyzer.New(s.src, s.opts...).Analyze(domain.TaskConfig{
		Name:          req.Name,
		DurationHours: req.DurationHours,
		Tier:          tier.Label,
	})
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTier, label)
	}

	metrics.ObserveAnalysis(a)
	log.Info().
		Str("analysis_id", a.ID).
		Str("tier", string(a.Task.Tier)).
		Int("duration_hours", a.Task.DurationHours).
		Int("base_intensity", a.Sample.BaseIntensity).
		Int("optimized_intensity", a.Sample.OptimizedIntensity).
		Float64("reduction_percent", a.Result.ReductionPercent).
		Float64("co2_saved_kg", a.Result.CO2SavedKg).
		Msg("task analyzed")

	s.publish(ctx, a)
	return &a, nil
}

func (s *AnalysisService) publish(ctx context.Context, a domain.Analysis) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, a); err != nil {
		log.Warn().Err(err).Str("analysis_id", a.ID).Msg("analysis event not delivered")
	}
}

// ResolveTier matches a tier by label or code, ignoring case.
func ResolveTier(tiers []domain.Tier, s string) (domain.Tier, bool) {
	for _, t := range tiers {
		if strings.EqualFold(string(t.Label), s) || strings.EqualFold(t.Code, s) {
			return t, true
		}
	}
	return domain.Tier{}, false
}
