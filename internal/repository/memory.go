package repository

import (
	"context"
	"sort"
	"sync"

	"address-api/internal/models"

	"github.com/google/uuid"
	"github.com/paulmach/orb/geo"
)

// MemoryRepository keeps addresses in process memory. Proximity queries scan
// every record and sort by great-circle distance.
type MemoryRepository struct {
	mu        sync.RWMutex
	addresses map[string]models.Address
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{addresses: make(map[string]models.Address)}
}

func (r *MemoryRepository) CreateAddress(_ context.Context, address *models.Address) (*models.Address, error) {
	created := cloneAddress(*address)
	created.ID = uuid.NewString()

	r.mu.Lock()
	r.addresses[created.ID] = created
	r.mu.Unlock()

	out := cloneAddress(created)
	return &out, nil
}

func (r *MemoryRepository) UpdateAddress(_ context.Context, id string, address *models.Address) (*models.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.addresses[id]; !ok {
		return nil, nil
	}

	updated := cloneAddress(*address)
	updated.ID = id
	r.addresses[id] = updated

	out := cloneAddress(updated)
	return &out, nil
}

func (r *MemoryRepository) DeleteAddress(_ context.Context, id string) error {
	r.mu.Lock()
	delete(r.addresses, id)
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepository) FindAddressesNear(_ context.Context, point models.GeoPoint, maxDistance float64) ([]models.Address, error) {
	type match struct {
		address  models.Address
		distance float64
	}

	origin := point.Orb()

	r.mu.RLock()
	matches := make([]match, 0)
	for _, a := range r.addresses {
		d := geo.DistanceHaversine(origin, a.Location.Orb())
		if d <= maxDistance {
			matches = append(matches, match{address: cloneAddress(a), distance: d})
		}
	}
	r.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].distance != matches[j].distance {
			return matches[i].distance < matches[j].distance
		}
		return matches[i].address.ID < matches[j].address.ID
	})

	addresses := make([]models.Address, 0, len(matches))
	for _, m := range matches {
		addresses = append(addresses, m.address)
	}
	return addresses, nil
}

func (r *MemoryRepository) Ping(_ context.Context) error { return nil }

func (r *MemoryRepository) Close(_ context.Context) error { return nil }

func cloneAddress(a models.Address) models.Address {
	a.Location.Coordinates = append([]float64(nil), a.Location.Coordinates...)
	return a
}
