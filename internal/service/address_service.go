package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"address-api/internal/models"

	"github.com/go-playground/validator/v10"
)

// AddressService validates requests and translates them into stored address documents.
type AddressService struct {
	repo     AddressRepository
	validate *validator.Validate
}

// AddressRepository interface for dependency injection
type AddressRepository interface {
	CreateAddress(ctx context.Context, address *models.Address) (*models.Address, error)
	UpdateAddress(ctx context.Context, id string, address *models.Address) (*models.Address, error)
	DeleteAddress(ctx context.Context, id string) error
	FindAddressesNear(ctx context.Context, point models.GeoPoint, maxDistance float64) ([]models.Address, error)
}

// NewAddressService creates a new address service
func NewAddressService(repo AddressRepository) *AddressService {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)

	return &AddressService{repo: repo, validate: v}
}

// Create stores a new address and returns it with the identifier assigned by the store.
func (s *AddressService) Create(ctx context.Context, input models.AddressInput) (*models.Address, error) {
	if err := s.check(input); err != nil {
		return nil, err
	}

	address, err := s.repo.CreateAddress(ctx, toAddress(input))
	if err != nil {
		return nil, fmt.Errorf("service: failed to create address: %w", err)
	}

	return address, nil
}

// Update replaces every field of the address identified by id.
// A missing record is not an error: the result is nil.
func (s *AddressService) Update(ctx context.Context, id string, input models.AddressInput) (*models.Address, error) {
	if err := s.check(input); err != nil {
		return nil, err
	}

	address, err := s.repo.UpdateAddress(ctx, id, toAddress(input))
	if err != nil {
		return nil, fmt.Errorf("service: failed to update address: %w", err)
	}

	return address, nil
}

// Delete removes the address identified by id. Deleting a missing record succeeds.
func (s *AddressService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteAddress(ctx, id); err != nil {
		return fmt.Errorf("service: failed to delete address: %w", err)
	}
	return nil
}

// FindNear returns the addresses within query.MaxDistance meters of the query point, nearest first.
func (s *AddressService) FindNear(ctx context.Context, query models.NearQuery) ([]models.Address, error) {
	if err := s.check(query); err != nil {
		return nil, err
	}

	addresses, err := s.repo.FindAddressesNear(ctx, query.Point(), query.MaxDistance)
	if err != nil {
		return nil, fmt.Errorf("service: failed to find addresses: %w", err)
	}

	if addresses == nil {
		addresses = []models.Address{}
	}

	return addresses, nil
}

func (s *AddressService) check(v interface{}) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{cause: err}
	}

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field())
	}

	return &ValidationError{Fields: fields, cause: err}
}

func toAddress(input models.AddressInput) *models.Address {
	return &models.Address{
		Name:     input.Name,
		Address:  input.Address,
		Location: models.NewGeoPoint(input.Latitude, input.Longitude),
	}
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}
