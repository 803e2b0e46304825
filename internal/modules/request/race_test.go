// README: Concurrency tests for the compare-and-swap transition writes.
package request

import (
	"context"
	"errors"
	"sync"
	"testing"

	"fixme/internal/modules/identity"
	"fixme/internal/types"
)

// Two racing transitions on the same record must never both land. Run with
// -race.

func TestConcurrentAcceptSingleWinner(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	customer := f.seedCustomer(t, "c1")
	prov := f.seedProvider(t, "p1", identity.ApprovalApproved)
	vehicleID := f.seedVehicle(t, customer, types.CategoryAll)

	r := f.mustCreate(t, customer, vehicleID)
	if _, err := f.requests.Assign(ctx, AssignCommand{CustomerID: customer, RequestID: r.ID, ProviderID: prov}); err != nil {
		t.Fatalf("assign: %v", err)
	}

	const attempts = 8
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.requests.Accept(ctx, AcceptCommand{ProviderID: prov, RequestID: r.ID})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrConflict), errors.Is(err, ErrInvalidState):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("accept wins = %d, want exactly 1", wins)
	}

	got, err := f.store.Get(ctx, r.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Status != StatusWaitingCustomer {
		t.Fatalf("status = %s, want WAITING_CUSTOMER", got.Status)
	}
	// One assign plus one accept: exactly two version bumps.
	if got.StatusVersion != 2 {
		t.Fatalf("status_version = %d, want 2", got.StatusVersion)
	}
}

func TestConcurrentAssignSingleWinner(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	customer := f.seedCustomer(t, "c1")
	vehicleID := f.seedVehicle(t, customer, types.CategoryAll)

	providers := make([]types.ID, 4)
	for i := range providers {
		providers[i] = f.seedProvider(t, "p"+string(rune('A'+i)), identity.ApprovalApproved)
	}

	r := f.mustCreate(t, customer, vehicleID)

	var wg sync.WaitGroup
	results := make(chan error, len(providers))
	for _, p := range providers {
		wg.Add(1)
		go func(p types.ID) {
			defer wg.Done()
			_, err := f.requests.Assign(ctx, AssignCommand{CustomerID: customer, RequestID: r.ID, ProviderID: p})
			results <- err
		}(p)
	}
	wg.Wait()
	close(results)

	var wins int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrConflict), errors.Is(err, ErrInvalidState):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("assign wins = %d, want exactly 1", wins)
	}

	got, err := f.store.Get(ctx, r.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Status != StatusWaitingProvider || got.ProviderID == nil {
		t.Fatalf("status=%s provider=%v, want WAITING_PROVIDER with a provider", got.Status, got.ProviderID)
	}
}
