// README: Vehicle store backed by PostgreSQL.
package vehicle

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fixme/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, v *Vehicle) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO vehicles (id, owner_id, plate_number, make, model, year, category, deleted, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		string(v.ID), string(v.OwnerID), v.PlateNumber, v.Make, v.Model,
		v.Year, string(v.Category), v.Deleted, v.CreatedAt,
	)
	return err
}

// Get returns the vehicle whether or not it is soft-deleted; callers decide
// what a deleted row means for them.
func (s *Store) Get(ctx context.Context, id types.ID) (*Vehicle, error) {
	row := s.db.QueryRow(ctx, `
        SELECT id, owner_id, plate_number, make, model, year, category, deleted, created_at
        FROM vehicles
        WHERE id = $1`, string(id),
	)

	var v Vehicle
	var year sql.NullInt64
	err := row.Scan(
		&v.ID, &v.OwnerID, &v.PlateNumber, &v.Make, &v.Model,
		&year, &v.Category, &v.Deleted, &v.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if year.Valid {
		y := int(year.Int64)
		v.Year = &y
	}
	return &v, nil
}

func (s *Store) Update(ctx context.Context, v *Vehicle) error {
	tag, err := s.db.Exec(ctx, `
        UPDATE vehicles
        SET plate_number = $1, make = $2, model = $3, year = $4, category = $5
        WHERE id = $6`,
		v.PlateNumber, v.Make, v.Model, v.Year, string(v.Category), string(v.ID),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListByOwner(ctx context.Context, ownerID types.ID) ([]Vehicle, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, owner_id, plate_number, make, model, year, category, deleted, created_at
        FROM vehicles
        WHERE owner_id = $1 AND deleted = FALSE
        ORDER BY created_at DESC`, string(ownerID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Vehicle
	for rows.Next() {
		var v Vehicle
		var year sql.NullInt64
		if err := rows.Scan(
			&v.ID, &v.OwnerID, &v.PlateNumber, &v.Make, &v.Model,
			&year, &v.Category, &v.Deleted, &v.CreatedAt,
		); err != nil {
			return nil, err
		}
		if year.Valid {
			y := int(year.Int64)
			v.Year = &y
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) MarkDeleted(ctx context.Context, id types.ID) error {
	tag, err := s.db.Exec(ctx, `UPDATE vehicles SET deleted = TRUE WHERE id = $1`, string(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
