package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/carbon-aware-scheduler/internal/analyzer"
	"github.com/ANIKETSHETTY47/carbon-aware-scheduler/internal/domain"
)

var (
	ErrEmptyCatalog    = errors.New("resource tier catalog is empty")
	ErrCatalogMismatch = errors.New("resource tier catalog disagrees with built-in tiers")
)

// Catalog lists the selectable resource tiers.
type Catalog interface {
	ListTiers(ctx context.Context) ([]domain.Tier, error)
}

// BuiltinTiers are the tiers offered when no database is configured.
func BuiltinTiers() []domain.Tier {
	w := analyzer.DefaultWeights()
	return []domain.Tier{
		{Code: "low", Label: domain.TierLowGPU, EnergyWeight: w[domain.TierLowGPU]},
		{Code: "medium", Label: domain.TierMediumGPU, EnergyWeight: w[domain.TierMediumGPU]},
		{Code: "high", Label: domain.TierHighGPU, EnergyWeight: w[domain.TierHighGPU]},
	}
}

type Static struct {
	tiers []domain.Tier
}

func NewStatic(tiers []domain.Tier) *Static {
	return &Static{tiers: Normalize(tiers)}
}

func (s *Static) ListTiers(context.Context) ([]domain.Tier, error) {
	out := make([]domain.Tier, len(s.tiers))
	copy(out, s.tiers)
	return out, nil
}

// Tiers reads the catalog from the resource_tiers table.
type Tiers struct {
	db *sqlx.DB
}

func NewTiers(db *sqlx.DB) *Tiers { return &Tiers{db: db} }

func (r *Tiers) ListTiers(ctx context.Context) ([]domain.Tier, error) {
	var out []domain.Tier
	err := r.db.SelectContext(ctx, &out, `SELECT code, label, energy_weight FROM resource_tiers ORDER BY energy_weight`)
	if err != nil {
		return nil, fmt.Errorf("list resource tiers: %w", err)
	}
	if len(out) == 0 {
		return nil, ErrEmptyCatalog
	}
	if err := Validate(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Fallback serves the primary catalog and drops to the secondary on any error.
type Fallback struct {
	Primary   Catalog
	Secondary Catalog
}

func (f Fallback) ListTiers(ctx context.Context) ([]domain.Tier, error) {
	tiers, err := f.Primary.ListTiers(ctx)
	if err == nil {
		return tiers, nil
	}
	log.Warn().Err(err).Msg("tier catalog unavailable, using built-in tiers")
	return f.Secondary.ListTiers(ctx)
}

// Validate checks that tiers hold exactly the built-in labels, once each, with
// the built-in weights. Codes and order are free.
func Validate(tiers []domain.Tier) error {
	builtin := analyzer.DefaultWeights()
	if len(tiers) != len(builtin) {
		return fmt.Errorf("%w: %d tiers, expected %d", ErrCatalogMismatch, len(tiers), len(builtin))
	}
	seen := make(map[domain.ResourceTier]bool, len(tiers))
	for _, t := range tiers {
		w, ok := builtin[t.Label]
		if !ok || seen[t.Label] {
			return fmt.Errorf("%w: unexpected tier %q", ErrCatalogMismatch, t.Label)
		}
		if t.EnergyWeight != w {
			return fmt.Errorf("%w: %q weight %v, expected %v", ErrCatalogMismatch, t.Label, t.EnergyWeight, w)
		}
		seen[t.Label] = true
	}
	return nil
}

// Normalize returns tiers when they pass Validate and the built-in tiers otherwise.
func Normalize(tiers []domain.Tier) []domain.Tier {
	if len(tiers) == 0 {
		return BuiltinTiers()
	}
	if err := Validate(tiers); err != nil {
		log.Warn().Err(err).Msg("ignoring resource tier catalog")
		return BuiltinTiers()
	}
	out := make([]domain.Tier, len(tiers))
	copy(out, tiers)
	return out
}
