// README: Request store backed by PostgreSQL with compare-and-swap status writes.
package request

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

const requestColumns = `
        id, customer_id, provider_id, vehicle_id, vehicle_category, service_type,
        lat, lng, address, description, status, progress_stage, status_version, created_at`

func (s *Store) Create(ctx context.Context, r *ServiceRequest) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO service_requests (
            id, customer_id, provider_id, vehicle_id, vehicle_category, service_type,
            lat, lng, address, description, status, progress_stage, status_version, created_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6,
            $7, $8, $9, $10, $11, $12, $13, $14
        )`,
		string(r.ID), string(r.CustomerID), idPtr(r.ProviderID), string(r.VehicleID),
		string(r.VehicleCategory), string(r.ServiceType),
		r.Location.Lat, r.Location.Lng, r.Address, r.Description,
		string(r.Status), string(r.ProgressStage), r.StatusVersion, r.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*ServiceRequest, error) {
	row := s.db.QueryRow(ctx, `
        SELECT`+requestColumns+`
        FROM service_requests
        WHERE id = $1`, string(id),
	)
	r, err := scanRequest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// UpdateStatus applies one guarded transition: the write only lands when both
// the expected status and the expected version still hold, so two racing
// transitions on the same record cannot both succeed.
func (s *Store) UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int, providerID *types.ID) (bool, error) {
	tag, err := s.db.Exec(ctx, `
        UPDATE service_requests
        SET status = $1,
            status_version = status_version + 1,
            provider_id = COALESCE($2, provider_id)
        WHERE id = $3 AND status = $4 AND status_version = $5`,
		string(to), idPtr(providerID), string(id), string(from), version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// UpdateProgress writes the progress stage (and, for stage DONE, the DONE
// status) under the same compare-and-swap discipline as UpdateStatus.
func (s *Store) UpdateProgress(ctx context.Context, id types.ID, from, to Status, version int, stage ProgressStage) (bool, error) {
	tag, err := s.db.Exec(ctx, `
        UPDATE service_requests
        SET progress_stage = $1,
            status = $2,
            status_version = status_version + 1
        WHERE id = $3 AND status = $4 AND status_version = $5`,
		string(stage), string(to), string(id), string(from), version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) AppendEvent(ctx context.Context, e *Event) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO request_state_events (
            request_id, from_status, to_status, actor_type, actor_id, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6)`,
		string(e.RequestID), string(e.FromStatus), string(e.ToStatus),
		e.ActorType, idPtr(e.ActorID), e.CreatedAt,
	)
	return err
}

func (s *Store) ListByCustomer(ctx context.Context, customerID types.ID) ([]ServiceRequest, error) {
	rows, err := s.db.Query(ctx, `
        SELECT`+requestColumns+`
        FROM service_requests
        WHERE customer_id = $1
        ORDER BY created_at DESC`, string(customerID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

// ListByProvider returns the provider's inbox, optionally narrowed to one
// status, newest first.
func (s *Store) ListByProvider(ctx context.Context, providerID types.ID, status *Status) ([]ServiceRequest, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if status == nil {
		rows, err = s.db.Query(ctx, `
            SELECT`+requestColumns+`
            FROM service_requests
            WHERE provider_id = $1
            ORDER BY created_at DESC`, string(providerID),
		)
	} else {
		rows, err = s.db.Query(ctx, `
            SELECT`+requestColumns+`
            FROM service_requests
            WHERE provider_id = $1 AND status = $2
            ORDER BY created_at DESC`, string(providerID), string(*status),
		)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

// ListPending returns all unassigned requests in insertion order, the input of
// the provider-side matching query.
func (s *Store) ListPending(ctx context.Context) ([]ServiceRequest, error) {
	rows, err := s.db.Query(ctx, `
        SELECT`+requestColumns+`
        FROM service_requests
        WHERE status = 'PENDING'
        ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

// ExistsActiveByVehicle backs the vehicle integrity guard.
func (s *Store) ExistsActiveByVehicle(ctx context.Context, vehicleID types.ID) (bool, error) {
	row := s.db.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM service_requests
            WHERE vehicle_id = $1
              AND status IN ('PENDING','WAITING_PROVIDER','WAITING_CUSTOMER','ACCEPTED')
        )`, string(vehicleID),
	)
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*ServiceRequest, error) {
	var r ServiceRequest
	var providerID, address sql.NullString
	err := row.Scan(
		&r.ID, &r.CustomerID, &providerID, &r.VehicleID, &r.VehicleCategory, &r.ServiceType,
		&r.Location.Lat, &r.Location.Lng, &address, &r.Description,
		&r.Status, &r.ProgressStage, &r.StatusVersion, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if providerID.Valid {
		p := types.ID(providerID.String)
		r.ProviderID = &p
	}
	if address.Valid {
		r.Address = address.String
	}
	return &r, nil
}

func collectRequests(rows pgx.Rows) ([]ServiceRequest, error) {
	var out []ServiceRequest
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func idPtr(v *types.ID) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}
