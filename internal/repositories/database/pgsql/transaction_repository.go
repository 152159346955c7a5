package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/wegsoft/weg_abrechnung_app/internal/core/domain"
	portsrepo "github.com/wegsoft/weg_abrechnung_app/internal/core/ports/repositories"
)

// PgxTransactionRepository persists transactions and their invoices in PostgreSQL.
type PgxTransactionRepository struct {
	pool *pgxpool.Pool
}

// newPgxTransactionRepository creates a new repository for transaction data.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{pool: pool}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const transactionSelect = `
	SELECT t.transaction_id, t.property_id, t.date, t.description, t.amount,
	       COALESCE(t.account_number, ''), COALESCE(t.unit_id, ''), COALESCE(t.year_override, 0),
	       t.created_at, t.created_by, t.last_updated_at, t.last_updated_by,
	       i.invoice_id, i.total_amount, i.labor_portion, i.service_date
	FROM transactions t
	LEFT JOIN invoices i ON i.transaction_id = t.transaction_id
`

// FindForPropertyAndYear returns all transactions belonging to the
// property's statement year: dated inside it and not overridden away, or
// explicitly overridden into it.
func (r *PgxTransactionRepository) FindForPropertyAndYear(ctx context.Context, propertyID string, year int) ([]domain.Transaction, error) {
	query := transactionSelect + `
	WHERE t.property_id = $1
	  AND (
	        (t.year_override IS NULL AND t.date >= $2 AND t.date < $3)
	     OR t.year_override = $4
	  )
	ORDER BY t.date, t.transaction_id
	`
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := yearStart.AddDate(1, 0, 0)

	rows, err := r.pool.Query(ctx, query, propertyID, yearStart, yearEnd, year)
	if err != nil {
		return nil, fmt.Errorf("error querying transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// FindUnitPaymentsForYear returns the unit-linked income transactions of the year.
func (r *PgxTransactionRepository) FindUnitPaymentsForYear(ctx context.Context, unitID string, year int) ([]domain.Transaction, error) {
	query := transactionSelect + `
	WHERE t.unit_id = $1
	  AND t.amount > 0
	  AND (
	        (t.year_override IS NULL AND t.date >= $2 AND t.date < $3)
	     OR t.year_override = $4
	  )
	ORDER BY t.date, t.transaction_id
	`
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := yearStart.AddDate(1, 0, 0)

	rows, err := r.pool.Query(ctx, query, unitID, yearStart, yearEnd, year)
	if err != nil {
		return nil, fmt.Errorf("error querying unit payments: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// SaveTransaction inserts a transaction and, when present, its invoice in
// one database transaction.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	insertTxn := `
		INSERT INTO transactions (transaction_id, property_id, date, description, amount,
		                          account_number, unit_id, year_override,
		                          created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, 0), $9, $10, $11, $12)
	`
	_, err = tx.Exec(ctx, insertTxn,
		txn.TransactionID,
		txn.PropertyID,
		txn.Date,
		txn.Description,
		txn.Amount,
		txn.AccountNumber,
		txn.UnitID,
		txn.YearOverride,
		txn.CreatedAt,
		txn.CreatedBy,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("error inserting transaction: %w", err)
	}

	if txn.Invoice != nil {
		insertInvoice := `
			INSERT INTO invoices (invoice_id, transaction_id, total_amount, labor_portion, service_date)
			VALUES ($1, $2, $3, $4, $5)
		`
		_, err = tx.Exec(ctx, insertInvoice,
			txn.Invoice.InvoiceID,
			txn.TransactionID,
			txn.Invoice.TotalAmount,
			txn.Invoice.LaborPortion,
			txn.Invoice.ServiceDate,
		)
		if err != nil {
			return fmt.Errorf("error inserting invoice: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

func collectTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	var result []domain.Transaction
	for rows.Next() {
		var txn domain.Transaction
		var invoiceID *string
		var totalAmount, laborPortion *decimal.Decimal
		var serviceDate *time.Time

		if err := rows.Scan(
			&txn.TransactionID,
			&txn.PropertyID,
			&txn.Date,
			&txn.Description,
			&txn.Amount,
			&txn.AccountNumber,
			&txn.UnitID,
			&txn.YearOverride,
			&txn.CreatedAt,
			&txn.CreatedBy,
			&txn.LastUpdatedAt,
			&txn.LastUpdatedBy,
			&invoiceID,
			&totalAmount,
			&laborPortion,
			&serviceDate,
		); err != nil {
			return nil, fmt.Errorf("error scanning transaction: %w", err)
		}

		if invoiceID != nil {
			txn.Invoice = &domain.Invoice{
				InvoiceID:    *invoiceID,
				TotalAmount:  *totalAmount,
				LaborPortion: *laborPortion,
				ServiceDate:  *serviceDate,
			}
		}
		result = append(result, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	if len(result) == 0 {
		return []domain.Transaction{}, nil
	}
	return result, nil
}
