package repository

import (
	"context"
	"testing"

	"address-api/internal/models"
	"address-api/internal/observability"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	*MemoryRepository
}

func (failingStore) FindAddressesNear(context.Context, models.GeoPoint, float64) ([]models.Address, error) {
	return nil, assert.AnError
}

func TestInstrumentedRepository_RecordsOutcomes(t *testing.T) {
	ctx := context.Background()
	metrics := observability.NewMetricsForTesting()
	repo := NewInstrumentedRepository(NewMemoryRepository(), metrics)

	created, err := repo.CreateAddress(ctx, newAddress("cafe", 10, 20))
	require.NoError(t, err)

	_, err = repo.UpdateAddress(ctx, "missing", newAddress("x", 1, 1))
	require.NoError(t, err)
	_, err = repo.UpdateAddress(ctx, created.ID, newAddress("bar", 10, 20))
	require.NoError(t, err)

	_, err = repo.FindAddressesNear(ctx, models.NewGeoPoint(10, 20), 10)
	require.NoError(t, err)
	_, err = repo.FindAddressesNear(ctx, models.NewGeoPoint(-10, -20), 10)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteAddress(ctx, created.ID))

	count := func(op, outcome string) float64 {
		return testutil.ToFloat64(metrics.StoreOperations.WithLabelValues(op, outcome))
	}
	assert.Equal(t, 1.0, count("create", observability.OutcomeSuccess))
	assert.Equal(t, 1.0, count("update", observability.OutcomeEmpty))
	assert.Equal(t, 1.0, count("update", observability.OutcomeSuccess))
	assert.Equal(t, 1.0, count("find_near", observability.OutcomeSuccess))
	assert.Equal(t, 1.0, count("find_near", observability.OutcomeEmpty))
	assert.Equal(t, 1.0, count("delete", observability.OutcomeSuccess))
}

func TestInstrumentedRepository_RecordsErrors(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	repo := NewInstrumentedRepository(failingStore{NewMemoryRepository()}, metrics)

	_, err := repo.FindAddressesNear(context.Background(), models.NewGeoPoint(10, 20), 10)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.StoreOperations.WithLabelValues("find_near", observability.OutcomeError)))
}
