// README: DB-backed tests for nearby-provider visibility (approval gating, tie order).
package provider

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"fixme/internal/modules/identity"
	"fixme/internal/types"
)

type nearbyFixture struct {
	db       *pgxpool.Pool
	actors   *identity.Store
	business *Service
}

func setupNearbyFixture(t *testing.T) *nearbyFixture {
	t.Helper()

	dsn := os.Getenv("FIXME_TEST_DSN")
	if dsn == "" {
		t.Skip("FIXME_TEST_DSN not set; skipping DB-backed nearby tests")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := applyMigration(ctx, db); err != nil {
		t.Fatalf("apply migration: %v", err)
	}
	if _, err := db.Exec(ctx, "TRUNCATE TABLE request_state_events, service_requests, provider_business, vehicles, users"); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}

	actors := identity.NewStore(db)
	return &nearbyFixture{
		db:       db,
		actors:   actors,
		business: NewService(NewStore(db, nil), actors),
	}
}

// seedLocatedBusiness creates a provider account with the given approval and a
// located business offering towing for all categories.
func (f *nearbyFixture) seedLocatedBusiness(t *testing.T, id string, approval identity.ApprovalStatus, at types.Point) {
	t.Helper()
	ctx := context.Background()

	if err := f.actors.Put(ctx, &identity.Actor{
		ID: types.ID(id), Role: identity.RoleProvider,
		Approval: approval, Verified: true, CreatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("seed provider %s: %v", id, err)
	}
	if _, err := f.business.Upsert(ctx, UpsertCommand{
		UserID: types.ID(id), Name: "shop " + id, City: "Tel Aviv", Address: "Main St 1",
		Categories: []types.VehicleCategory{types.CategoryAll},
		Offered:    []types.ServiceType{types.ServiceTowing},
		Location:   &at,
	}); err != nil {
		t.Fatalf("seed business %s: %v", id, err)
	}
}

func TestNearbyExcludesUnapprovedProviders(t *testing.T) {
	f := setupNearbyFixture(t)
	origin := types.Point{Lat: 32.0, Lng: 34.8}
	near := types.Point{Lat: 32.01, Lng: 34.81}

	f.seedLocatedBusiness(t, "approved", identity.ApprovalApproved, near)
	f.seedLocatedBusiness(t, "pending", identity.ApprovalPending, near)
	f.seedLocatedBusiness(t, "rejected", identity.ApprovalRejected, near)

	got, err := f.business.Nearby(context.Background(), NearbyQuery{
		Origin:      origin,
		RadiusKm:    10,
		Category:    types.CategoryPrivate,
		ServiceType: types.ServiceTowing,
	})
	if err != nil {
		t.Fatalf("nearby: %v", err)
	}
	if len(got) != 1 || got[0].Business.UserID != "approved" {
		t.Fatalf("expected only the approved provider, got %v", got)
	}
}

func TestNearbyTiesResolveByProviderID(t *testing.T) {
	f := setupNearbyFixture(t)
	origin := types.Point{Lat: 32.0, Lng: 34.8}
	same := types.Point{Lat: 32.02, Lng: 34.8}

	// Seeded in reverse ID order on purpose: the candidate fetch, not
	// insertion time, decides the tie.
	f.seedLocatedBusiness(t, "pb", identity.ApprovalApproved, same)
	f.seedLocatedBusiness(t, "pa", identity.ApprovalApproved, same)

	got, err := f.business.Nearby(context.Background(), NearbyQuery{
		Origin:      origin,
		RadiusKm:    10,
		Category:    types.CategoryAll,
		ServiceType: types.ServiceTowing,
	})
	if err != nil {
		t.Fatalf("nearby: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if got[0].Business.UserID != "pa" || got[1].Business.UserID != "pb" {
		t.Fatalf("tie order = %s, %s; want pa, pb", got[0].Business.UserID, got[1].Business.UserID)
	}
}

// --- migration plumbing ---

func applyMigration(ctx context.Context, db *pgxpool.Pool) error {
	root, err := repoRoot()
	if err != nil {
		return err
	}
	content, err := os.ReadFile(filepath.Join(root, "migrations", "0001_init.sql"))
	if err != nil {
		return err
	}

	cleaned := stripSQLComments(string(content))
	for _, stmt := range splitSQL(cleaned) {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func repoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for i := 0; i < 6; i++ {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

func stripSQLComments(input string) string {
	var b strings.Builder
	sc := bufio.NewScanner(strings.NewReader(input))
	for sc.Scan() {
		line := sc.Text()
		if idx := strings.Index(line, "--"); idx >= 0 {
			line = line[:idx]
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func splitSQL(input string) []string {
	var out []string
	for _, stmt := range strings.Split(input, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
