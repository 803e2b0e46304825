// README: Property test: provider is set exactly when the request left PENDING.
package request

import (
	"context"
	"math/rand"
	"testing"

	"fixme/internal/modules/identity"
	"fixme/internal/types"
)

// TestPendingInvariantRandomSequences fires random operation sequences at
// fresh requests and checks, after every single call, that provider == nil
// holds exactly while status == PENDING. Failed calls are expected and must
// leave state untouched, so the invariant survives them too.
func TestPendingInvariantRandomSequences(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	customer := f.seedCustomer(t, "c1")
	provA := f.seedProvider(t, "pA", identity.ApprovalApproved)
	provB := f.seedProvider(t, "pB", identity.ApprovalApproved)
	vehicleID := f.seedVehicle(t, customer, types.CategoryAll)

	stages := []ProgressStage{StageOnTheWay, StageArrived, StageInProgress, StageDone}

	rng := rand.New(rand.NewSource(1))

	const sequences = 20
	const opsPerSequence = 12

	for seq := 0; seq < sequences; seq++ {
		r := f.mustCreate(t, customer, vehicleID)

		for step := 0; step < opsPerSequence; step++ {
			prov := provA
			if rng.Intn(2) == 1 {
				prov = provB
			}

			switch rng.Intn(4) {
			case 0:
				_, _ = f.requests.Assign(ctx, AssignCommand{CustomerID: customer, RequestID: r.ID, ProviderID: prov})
			case 1:
				_, _ = f.requests.Accept(ctx, AcceptCommand{ProviderID: prov, RequestID: r.ID})
			case 2:
				_, _ = f.requests.Confirm(ctx, ConfirmCommand{CustomerID: customer, RequestID: r.ID})
			case 3:
				_, _ = f.requests.UpdateProgress(ctx, ProgressCommand{
					ProviderID: prov,
					RequestID:  r.ID,
					Stage:      stages[rng.Intn(len(stages))],
				})
			}

			got, err := f.store.Get(ctx, r.ID)
			if err != nil {
				t.Fatalf("seq %d step %d: reload: %v", seq, step, err)
			}
			if (got.Status == StatusPending) != (got.ProviderID == nil) {
				t.Fatalf("seq %d step %d: invariant broken: status=%s provider=%v",
					seq, step, got.Status, got.ProviderID)
			}
		}
	}
}
