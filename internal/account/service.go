// AngelaMos | 2026
// service.go

package account

import (
	"context"
	"strings"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateRecord stores the plan record for an account the identity
// provider has just created. The identifier comes from the provider;
// every account starts on the free tier.
func (s *Service) CreateRecord(
	ctx context.Context,
	uid, email string,
) (*Account, error) {
	account := &Account{
		ID:       uid,
		Email:    strings.ToLower(email),
		PlanTier: TierFree,
	}

	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// PlanTier implements middleware.PlanLookup.
func (s *Service) PlanTier(
	ctx context.Context,
	subjectID string,
) (string, error) {
	account, err := s.repo.GetByID(ctx, subjectID)
	if err != nil {
		return "", err
	}

	return account.PlanTier, nil
}
