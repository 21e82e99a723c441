package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"address-api/internal/models"
	"address-api/internal/repository"
	"address-api/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []AddressRecord
		wantErr bool
	}{
		{
			name:  "standard header",
			input: "name,address,latitude,longitude\nCafe,123 Main St,40.7128,-74.0060\n",
			want: []AddressRecord{
				{Line: 2, Input: models.AddressInput{Name: "Cafe", Address: "123 Main St", Latitude: 40.7128, Longitude: -74.0060}},
			},
		},
		{
			name:  "reordered columns with extra field",
			input: "Longitude, Latitude, Name, Address, Note\n-0.1278,51.5074,Bakery,9 Elm St,fresh\n",
			want: []AddressRecord{
				{Line: 2, Input: models.AddressInput{Name: "Bakery", Address: "9 Elm St", Latitude: 51.5074, Longitude: -0.1278}},
			},
		},
		{
			name:  "bad coordinate left at zero",
			input: "name,address,latitude,longitude\nCafe,123 Main St,north,-74.0060\n",
			want: []AddressRecord{
				{Line: 2, Input: models.AddressInput{Name: "Cafe", Address: "123 Main St", Longitude: -74.0060}},
			},
		},
		{
			name:  "short row",
			input: "name,address,latitude,longitude\nCafe\n",
			want: []AddressRecord{
				{Line: 2, Input: models.AddressInput{Name: "Cafe"}},
			},
		},
		{
			name:    "missing column",
			input:   "name,address,latitude\nCafe,123 Main St,40.7128\n",
			wantErr: true,
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCSV(strings.NewReader(tt.input))

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type failingCreator struct{}

func (failingCreator) Create(context.Context, models.AddressInput) (*models.Address, error) {
	return nil, errors.New("connection refused")
}

func TestImportRecords(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryRepository()
	svc := service.NewAddressService(store)

	records := []AddressRecord{
		{Line: 2, Input: models.AddressInput{Name: "Cafe", Address: "123 Main St", Latitude: 40.7128, Longitude: -74.0060}},
		{Line: 3, Input: models.AddressInput{Name: "Nowhere", Address: "0 Null Island", Latitude: 0, Longitude: 0}},
		{Line: 4, Input: models.AddressInput{Name: "Bakery", Address: "125 Main St", Latitude: 40.7130, Longitude: -74.0062}},
	}

	imported, skipped, err := importRecords(ctx, svc, records, zerolog.Nop())

	require.NoError(t, err)
	assert.Equal(t, 2, imported)
	assert.Equal(t, 1, skipped)

	found, err := svc.FindNear(ctx, models.NearQuery{Latitude: 40.7128, Longitude: -74.0060, MaxDistance: 100})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Cafe", found[0].Name)
}

func TestImportRecords_StopsOnStoreError(t *testing.T) {
	records := []AddressRecord{
		{Line: 2, Input: models.AddressInput{Name: "Cafe", Address: "123 Main St", Latitude: 40.7128, Longitude: -74.0060}},
	}

	imported, skipped, err := importRecords(context.Background(), failingCreator{}, records, zerolog.Nop())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Zero(t, imported)
	assert.Zero(t, skipped)
}
