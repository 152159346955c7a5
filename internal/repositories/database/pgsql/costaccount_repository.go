package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wegsoft/weg_abrechnung_app/internal/apperrors"
	"github.com/wegsoft/weg_abrechnung_app/internal/core/domain"
	portsrepo "github.com/wegsoft/weg_abrechnung_app/internal/core/ports/repositories"
)

// PgxCostAccountRepository persists cost accounts in PostgreSQL.
type PgxCostAccountRepository struct {
	pool *pgxpool.Pool
}

// newPgxCostAccountRepository creates a new repository for cost account data.
func newPgxCostAccountRepository(pool *pgxpool.Pool) portsrepo.CostAccountRepositoryFacade {
	return &PgxCostAccountRepository{pool: pool}
}

var _ portsrepo.CostAccountRepositoryFacade = (*PgxCostAccountRepository)(nil)

const costAccountColumns = `account_id, number, description, category, distribution_key, is_active, tax_deductible,
       created_at, created_by, last_updated_at, last_updated_by`

// ListCostAccounts returns all cost accounts, ordered by account number.
func (r *PgxCostAccountRepository) ListCostAccounts(ctx context.Context) ([]domain.CostAccount, error) {
	query := `SELECT ` + costAccountColumns + ` FROM cost_accounts ORDER BY number`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying cost accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.CostAccount{}
	for rows.Next() {
		account, err := scanCostAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cost accounts: %w", err)
	}

	return accounts, nil
}

// FindCostAccountByNumber returns a single cost account.
func (r *PgxCostAccountRepository) FindCostAccountByNumber(ctx context.Context, number string) (*domain.CostAccount, error) {
	query := `SELECT ` + costAccountColumns + ` FROM cost_accounts WHERE number = $1`

	account, err := scanCostAccount(r.pool.QueryRow(ctx, query, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("cost account %s: %w", number, apperrors.ErrNotFound)
		}
		return nil, err
	}
	return &account, nil
}

// SaveCostAccount inserts a new cost account.
func (r *PgxCostAccountRepository) SaveCostAccount(ctx context.Context, account domain.CostAccount) error {
	query := `
		INSERT INTO cost_accounts (account_id, number, description, category, distribution_key, is_active, tax_deductible,
		                           created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.pool.Exec(ctx, query,
		account.AccountID,
		account.Number,
		account.Description,
		string(account.Category),
		string(account.Key),
		account.IsActive,
		account.TaxDeductible,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("error inserting cost account: %w", err)
	}
	return nil
}

func scanCostAccount(row pgx.Row) (domain.CostAccount, error) {
	var account domain.CostAccount
	var category, key string
	err := row.Scan(
		&account.AccountID,
		&account.Number,
		&account.Description,
		&category,
		&key,
		&account.IsActive,
		&account.TaxDeductible,
		&account.CreatedAt,
		&account.CreatedBy,
		&account.LastUpdatedAt,
		&account.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CostAccount{}, err
		}
		return domain.CostAccount{}, fmt.Errorf("error scanning cost account: %w", err)
	}

	account.Category = domain.LegalCategory(category)
	account.Key, err = domain.ParseDistributionKey(key)
	if err != nil {
		return domain.CostAccount{}, fmt.Errorf("stored distribution key for account %s: %w", account.Number, err)
	}

	return account, nil
}
