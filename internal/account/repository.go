// AngelaMos | 2026
// repository.go

package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/defensordigital/defensor-api/internal/core"
)

// Repository is the plan store. Email is not a unique key: multiple
// accounts may share one, and entitlement updates address all of
// them together.
type Repository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id string) (*Account, error)
	FindByEmail(ctx context.Context, email string) ([]Account, error)
	UpdatePlanByEmail(
		ctx context.Context,
		email, tier string,
	) (int64, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, account *Account) error {
	query := `
		INSERT INTO accounts (id, email, plan_tier)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, account, query,
		account.ID,
		account.Email,
		account.PlanTier,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create account: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create account: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id string,
) (*Account, error) {
	query := `
		SELECT id, email, plan_tier, created_at, updated_at
		FROM accounts
		WHERE id = $1`

	var account Account
	err := r.db.GetContext(ctx, &account, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get account: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}

	return &account, nil
}

func (r *repository) FindByEmail(
	ctx context.Context,
	email string,
) ([]Account, error) {
	query := `
		SELECT id, email, plan_tier, created_at, updated_at
		FROM accounts
		WHERE email = $1
		ORDER BY created_at`

	var accounts []Account
	err := r.db.SelectContext(ctx, &accounts, query, strings.ToLower(email))
	if err != nil {
		return nil, fmt.Errorf("find accounts by email: %w", err)
	}

	return accounts, nil
}

// UpdatePlanByEmail moves every matching account to the target tier
// in one statement inside a transaction, so readers never observe a
// half-applied batch.
func (r *repository) UpdatePlanByEmail(
	ctx context.Context,
	email, tier string,
) (int64, error) {
	var updated int64

	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			UPDATE accounts
			SET plan_tier = $2, updated_at = NOW()
			WHERE email = $1`

		result, err := tx.ExecContext(ctx, query, strings.ToLower(email), tier)
		if err != nil {
			return fmt.Errorf("update plan by email: %w", err)
		}

		updated, err = result.RowsAffected()
		if err != nil {
			return fmt.Errorf("update plan by email: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return updated, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
