package service

import (
	"context"
	"testing"

	"address-api/internal/models"
	"address-api/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoreBackedService() *AddressService {
	return NewAddressService(repository.NewMemoryRepository())
}

func TestAddressService_CreateThenFindNear(t *testing.T) {
	ctx := context.Background()
	service := newStoreBackedService()

	created, err := service.Create(ctx, cafeInput())
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, []float64{-74.0060, 40.7128}, created.Location.Coordinates)

	for _, distance := range []float64{0.001, 1, 1000, 20000000} {
		found, err := service.FindNear(ctx, models.NearQuery{Latitude: 40.7128, Longitude: -74.0060, MaxDistance: distance})
		require.NoError(t, err)
		assert.Contains(t, found, *created)
	}
}

func TestAddressService_UpdateReplacesAllFields(t *testing.T) {
	ctx := context.Background()
	service := newStoreBackedService()

	created, err := service.Create(ctx, cafeInput())
	require.NoError(t, err)

	updated, err := service.Update(ctx, created.ID, models.AddressInput{
		Name:      "Bakery",
		Address:   "9 Elm St",
		Latitude:  51.5074,
		Longitude: -0.1278,
	})
	require.NoError(t, err)
	require.NotNil(t, updated)

	found, err := service.FindNear(ctx, models.NearQuery{Latitude: 51.5074, Longitude: -0.1278, MaxDistance: 1})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, created.ID, found[0].ID)
	assert.Equal(t, "Bakery", found[0].Name)
	assert.Equal(t, "9 Elm St", found[0].Address)
	assert.Equal(t, []float64{-0.1278, 51.5074}, found[0].Location.Coordinates)

	old, err := service.FindNear(ctx, models.NearQuery{Latitude: 40.7128, Longitude: -74.0060, MaxDistance: 1000})
	require.NoError(t, err)
	assert.Empty(t, old)
}

func TestAddressService_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	service := newStoreBackedService()

	created, err := service.Create(ctx, cafeInput())
	require.NoError(t, err)

	assert.NoError(t, service.Delete(ctx, created.ID))
	assert.NoError(t, service.Delete(ctx, created.ID))
	assert.NoError(t, service.Delete(ctx, "never-existed"))
}

func TestAddressService_FindNearOrdersNearestFirst(t *testing.T) {
	ctx := context.Background()
	service := newStoreBackedService()

	var ids []string
	for _, lat := range []float64{40.7328, 40.7138, 40.7178} {
		created, err := service.Create(ctx, models.AddressInput{
			Name:      "place",
			Address:   "somewhere",
			Latitude:  lat,
			Longitude: -74.0060,
		})
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	found, err := service.FindNear(ctx, models.NearQuery{Latitude: 40.7128, Longitude: -74.0060, MaxDistance: 10000})
	require.NoError(t, err)
	require.Len(t, found, 3)
	assert.Equal(t, []string{ids[1], ids[2], ids[0]}, []string{found[0].ID, found[1].ID, found[2].ID})

	none, err := service.FindNear(ctx, models.NearQuery{Latitude: 40.7128, Longitude: -74.0060, MaxDistance: 10})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
