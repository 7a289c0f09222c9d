// AngelaMos | 2026
// entity.go

package account

import (
	"time"
)

// Account is the plan record for one user. The identity provider
// owns authentication; this row only decides what the user may
// access. PlanTier is mutated exclusively by the webhook reconciler
// after creation.
type Account struct {
	ID        string    `db:"id"`
	Email     string    `db:"email"`
	PlanTier  string    `db:"plan_tier"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

const (
	TierFree    = "free"
	TierPlus    = "plus"
	TierPremium = "premium"
)

// PaidTier reports whether a tier unlocks the specialist routes.
func PaidTier(tier string) bool {
	return tier == TierPlus || tier == TierPremium
}
