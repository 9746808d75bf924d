package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ANIKETSHETTY47/carbon-aware-scheduler/internal/domain"
)

// Publisher delivers a completed analysis to an outside listener.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, a domain.Analysis) error
}

// MultiPublisher fans an analysis out to every publisher and joins their errors.
type MultiPublisher []Publisher

func (m MultiPublisher) Name() string { return "multi" }

func (m MultiPublisher) Publish(ctx context.Context, a domain.Analysis) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, a); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
		}
	}
	return errors.Join(errs...)
}
