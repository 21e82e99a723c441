package repository

import (
	"context"
	"errors"
	"fmt"

	"address-api/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// PostgresRepository stores addresses in a PostGIS geography column.
type PostgresRepository struct {
	db    *pgxpool.Pool
	table string
	index string
}

// NewPostgresRepository creates a new PostgreSQL repository backed by the given table
func NewPostgresRepository(db *pgxpool.Pool, table string) *PostgresRepository {
	return &PostgresRepository{
		db:    db,
		table: pq.QuoteIdentifier(table),
		index: pq.QuoteIdentifier(table + "_location_idx"),
	}
}

// EnsureSchema creates the addresses table and its GIST index when missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
	CREATE EXTENSION IF NOT EXISTS postgis;
	CREATE TABLE IF NOT EXISTS %[1]s (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL,
		address TEXT NOT NULL,
		location GEOGRAPHY(POINT, 4326) NOT NULL
	);
	CREATE INDEX IF NOT EXISTS %[2]s ON %[1]s USING GIST (location);
	`, r.table, r.index)

	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("repository: failed to create schema: %w", err)
	}
	return nil
}

// CreateAddress inserts a row and returns it with the generated UUID.
func (r *PostgresRepository) CreateAddress(ctx context.Context, address *models.Address) (*models.Address, error) {
	sql := fmt.Sprintf(`
		INSERT INTO %s (name, address, location)
		VALUES ($1, $2, ST_SetSRID(ST_MakePoint($3, $4), 4326)::geography)
		RETURNING
			id::text,
			name,
			address,
			ST_X(location::geometry) as longitude,
			ST_Y(location::geometry) as latitude
	`, r.table)

	row := r.db.QueryRow(ctx, sql,
		address.Name,
		address.Address,
		address.Location.Longitude(),
		address.Location.Latitude(),
	)

	created, err := scanAddress(row)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to insert address: %w", err)
	}

	return created, nil
}

// UpdateAddress overwrites every column of the row with the given id.
// It returns nil without error when no row matches.
func (r *PostgresRepository) UpdateAddress(ctx context.Context, id string, address *models.Address) (*models.Address, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("repository: invalid address id %q: %w", id, err)
	}

	sql := fmt.Sprintf(`
		UPDATE %s
		SET
			name = $2,
			address = $3,
			location = ST_SetSRID(ST_MakePoint($4, $5), 4326)::geography
		WHERE id = $1::text::uuid
		RETURNING
			id::text,
			name,
			address,
			ST_X(location::geometry) as longitude,
			ST_Y(location::geometry) as latitude
	`, r.table)

	row := r.db.QueryRow(ctx, sql,
		parsed.String(),
		address.Name,
		address.Address,
		address.Location.Longitude(),
		address.Location.Latitude(),
	)

	updated, err := scanAddress(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: failed to update address: %w", err)
	}

	return updated, nil
}

// DeleteAddress removes the row with the given id if it exists.
func (r *PostgresRepository) DeleteAddress(ctx context.Context, id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("repository: invalid address id %q: %w", id, err)
	}

	sql := fmt.Sprintf(`DELETE FROM %s WHERE id = $1::text::uuid`, r.table)
	if _, err := r.db.Exec(ctx, sql, parsed.String()); err != nil {
		return fmt.Errorf("repository: failed to delete address: %w", err)
	}
	return nil
}

// FindAddressesNear returns rows within maxDistance meters, ordered by the GIST index distance operator.
func (r *PostgresRepository) FindAddressesNear(ctx context.Context, point models.GeoPoint, maxDistance float64) ([]models.Address, error) {
	sql := fmt.Sprintf(`
		SELECT
			id::text,
			name,
			address,
			ST_X(location::geometry) as longitude,
			ST_Y(location::geometry) as latitude
		FROM %s
		WHERE ST_DWithin(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)
		ORDER BY location <-> ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography
	`, r.table)

	rows, err := r.db.Query(ctx, sql, point.Longitude(), point.Latitude(), maxDistance)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute spatial query: %w", err)
	}
	defer rows.Close()

	addresses := []models.Address{}
	for rows.Next() {
		address, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan address: %w", err)
		}
		addresses = append(addresses, *address)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return addresses, nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *PostgresRepository) Close(_ context.Context) error {
	r.db.Close()
	return nil
}

func scanAddress(row pgx.Row) (*models.Address, error) {
	var (
		address   models.Address
		longitude float64
		latitude  float64
	)

	err := row.Scan(
		&address.ID,
		&address.Name,
		&address.Address,
		&longitude,
		&latitude,
	)
	if err != nil {
		return nil, err
	}

	address.Location = models.NewGeoPoint(latitude, longitude)
	return &address, nil
}
