// README: Actor store backed by PostgreSQL (read-mostly mirror of the auth service).
package identity

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fixme/internal/types"
)

var ErrNotFound = errors.New("actor not found")

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Actor, error) {
	row := s.db.QueryRow(ctx, `
        SELECT id, first_name, last_name, email, phone, role, verified, provider_approval, created_at
        FROM users
        WHERE id = $1`, string(id),
	)

	var a Actor
	err := row.Scan(
		&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.Phone,
		&a.Role, &a.Verified, &a.Approval, &a.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Put inserts or refreshes a mirrored actor record. The auth collaborator owns
// the canonical copy; this is the sync entry point.
func (s *Store) Put(ctx context.Context, a *Actor) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO users (id, first_name, last_name, email, phone, role, verified, provider_approval, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        ON CONFLICT (id) DO UPDATE SET
            first_name = EXCLUDED.first_name,
            last_name = EXCLUDED.last_name,
            email = EXCLUDED.email,
            phone = EXCLUDED.phone,
            role = EXCLUDED.role,
            verified = EXCLUDED.verified,
            provider_approval = EXCLUDED.provider_approval`,
		string(a.ID), a.FirstName, a.LastName, a.Email, a.Phone,
		string(a.Role), a.Verified, string(a.Approval), a.CreatedAt,
	)
	return err
}
