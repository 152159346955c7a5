package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/wegsoft/weg_abrechnung_app/internal/core/ports/repositories"
)

// NewRepositoryProvider wires all PostgreSQL repositories.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		PropertyRepo:    newPgxPropertyRepository(dbPool),
		CostAccountRepo: newPgxCostAccountRepository(dbPool),
		TransactionRepo: newPgxTransactionRepository(dbPool),
		ScheduleRepo:    newPgxScheduleRepository(dbPool),
		MeteringRepo:    newPgxMeteringRepository(dbPool),
		BalanceRepo:     newPgxBalanceRepository(dbPool),
	}
}
