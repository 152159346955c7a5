package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wegsoft/weg_abrechnung_app/internal/core/domain"
	portsrepo "github.com/wegsoft/weg_abrechnung_app/internal/core/ports/repositories"
)

// PgxBalanceRepository reads the monthly bank balance history.
type PgxBalanceRepository struct {
	pool *pgxpool.Pool
}

// newPgxBalanceRepository creates a new repository for balance history.
func newPgxBalanceRepository(pool *pgxpool.Pool) portsrepo.BalanceRepositoryFacade {
	return &PgxBalanceRepository{pool: pool}
}

var _ portsrepo.BalanceRepositoryFacade = (*PgxBalanceRepository)(nil)

// FindMonthlyBalances returns the property's monthly records for the year.
func (r *PgxBalanceRepository) FindMonthlyBalances(ctx context.Context, propertyID string, year int) ([]domain.MonthlyBalanceRecord, error) {
	query := `
		SELECT property_id, year, month, opening_balance, closing_balance, transaction_sum, transaction_count
		FROM monthly_balances
		WHERE property_id = $1 AND year = $2
		ORDER BY month
	`
	rows, err := r.pool.Query(ctx, query, propertyID, year)
	if err != nil {
		return nil, fmt.Errorf("error querying monthly balances: %w", err)
	}
	defer rows.Close()

	records := []domain.MonthlyBalanceRecord{}
	for rows.Next() {
		var record domain.MonthlyBalanceRecord
		if err := rows.Scan(
			&record.PropertyID,
			&record.Year,
			&record.Month,
			&record.OpeningBalance,
			&record.ClosingBalance,
			&record.TransactionSum,
			&record.TransactionCount,
		); err != nil {
			return nil, fmt.Errorf("error scanning monthly balance: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly balances: %w", err)
	}

	return records, nil
}
