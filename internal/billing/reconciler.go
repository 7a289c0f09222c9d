// AngelaMos | 2026
// reconciler.go

package billing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/defensordigital/defensor-api/internal/account"
	"github.com/defensordigital/defensor-api/internal/core"
)

// PlanStore is the slice of the account repository the reconciler
// needs: find every account behind an email, and move them all to a
// tier in one atomic batch.
type PlanStore interface {
	FindByEmail(ctx context.Context, email string) ([]account.Account, error)
	UpdatePlanByEmail(ctx context.Context, email, tier string) (int64, error)
}

type Result struct {
	Applied         bool
	AccountsUpdated int
}

// Reconciler applies a payment event's implied tier change to every
// matching account. The operation is idempotent by construction:
// re-delivering the same event lands accounts on the tier they are
// already on. Duplicate delivery is normal for webhooks, so no
// event-id dedup is kept.
type Reconciler struct {
	store  PlanStore
	policy *StatusPolicy
}

func NewReconciler(store PlanStore, policy *StatusPolicy) *Reconciler {
	return &Reconciler{store: store, policy: policy}
}

func (r *Reconciler) Reconcile(
	ctx context.Context,
	event PaymentEvent,
) (Result, error) {
	if event.CustomerEmail == "" {
		return Result{}, fmt.Errorf(
			"reconcile: missing customer email: %w",
			core.ErrInvalidInput,
		)
	}

	action := r.policy.Classify(event.Status)
	if action == ActionIgnore {
		slog.Info("webhook status ignored",
			"status", event.Status,
		)
		return Result{Applied: false}, nil
	}

	accounts, err := r.store.FindByEmail(ctx, event.CustomerEmail)
	if err != nil {
		return Result{}, fmt.Errorf("reconcile: %w", err)
	}

	// Zero matches is a soft failure: the account may simply not
	// exist yet on our side.
	if len(accounts) == 0 {
		return Result{}, fmt.Errorf(
			"reconcile: no account for customer email: %w",
			core.ErrNotFound,
		)
	}

	tier := r.policy.TargetTier(action)

	updated, err := r.store.UpdatePlanByEmail(ctx, event.CustomerEmail, tier)
	if err != nil {
		return Result{}, fmt.Errorf("reconcile: %w", err)
	}

	slog.Info("entitlement reconciled",
		"action", action.String(),
		"tier", tier,
		"accounts_updated", updated,
	)

	return Result{Applied: true, AccountsUpdated: int(updated)}, nil
}
