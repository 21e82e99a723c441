package repository

import (
	"context"
	"time"

	"address-api/internal/models"
	"address-api/internal/observability"
)

// InstrumentedRepository records the outcome and latency of every call to the wrapped store.
type InstrumentedRepository struct {
	next    Store
	metrics *observability.Metrics
}

// NewInstrumentedRepository wraps next with store metrics.
func NewInstrumentedRepository(next Store, metrics *observability.Metrics) *InstrumentedRepository {
	return &InstrumentedRepository{next: next, metrics: metrics}
}

func (r *InstrumentedRepository) CreateAddress(ctx context.Context, address *models.Address) (*models.Address, error) {
	start := time.Now()
	created, err := r.next.CreateAddress(ctx, address)
	r.metrics.ObserveStoreOperation("create", outcome(err, false), time.Since(start))
	return created, err
}

func (r *InstrumentedRepository) UpdateAddress(ctx context.Context, id string, address *models.Address) (*models.Address, error) {
	start := time.Now()
	updated, err := r.next.UpdateAddress(ctx, id, address)
	r.metrics.ObserveStoreOperation("update", outcome(err, updated == nil), time.Since(start))
	return updated, err
}

func (r *InstrumentedRepository) DeleteAddress(ctx context.Context, id string) error {
	start := time.Now()
	err := r.next.DeleteAddress(ctx, id)
	r.metrics.ObserveStoreOperation("delete", outcome(err, false), time.Since(start))
	return err
}

func (r *InstrumentedRepository) FindAddressesNear(ctx context.Context, point models.GeoPoint, maxDistance float64) ([]models.Address, error) {
	start := time.Now()
	addresses, err := r.next.FindAddressesNear(ctx, point, maxDistance)
	r.metrics.ObserveStoreOperation("find_near", outcome(err, len(addresses) == 0), time.Since(start))
	return addresses, err
}

func (r *InstrumentedRepository) Ping(ctx context.Context) error {
	return r.next.Ping(ctx)
}

func (r *InstrumentedRepository) Close(ctx context.Context) error {
	return r.next.Close(ctx)
}

func outcome(err error, empty bool) string {
	switch {
	case err != nil:
		return observability.OutcomeError
	case empty:
		return observability.OutcomeEmpty
	default:
		return observability.OutcomeSuccess
	}
}
