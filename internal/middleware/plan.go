// AngelaMos | 2026
// plan.go

package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/defensordigital/defensor-api/internal/account"
	"github.com/defensordigital/defensor-api/internal/core"
)

// PlanLookup loads the current plan tier for a verified subject. The
// stored tier is the single source of truth for access decisions;
// nothing carried in the credential overrides it.
type PlanLookup interface {
	PlanTier(ctx context.Context, subjectID string) (string, error)
}

// RequirePaidPlan is the plan gate stage for specialist routes. It
// must run after Authenticator.
func RequirePaidPlan(lookup PlanLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsAuthenticated(r.Context()) {
				core.JSONError(
					w,
					core.UnauthorizedError("authentication required"),
				)
				return
			}

			tier, err := lookup.PlanTier(r.Context(), GetSubjectID(r.Context()))
			if err != nil {
				if errors.Is(err, core.ErrNotFound) {
					core.NotFound(w, "account")
					return
				}
				core.InternalServerError(w, err)
				return
			}

			if !account.PaidTier(tier) {
				core.JSONError(
					w,
					core.ForbiddenError("a paid plan is required for this route"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
