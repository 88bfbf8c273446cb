package pgsql

import (
	portsrepo "github.com/GokhanYmn/NakitAkisGrafana/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the pgx repositories behind their port facades.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		RateSeriesRepo: newPgxRateSeriesRepository(dbPool),
		LedgerRepo:     newPgxLedgerRepository(dbPool),
	}
}

// Interface implementation checks.
var (
	_ portsrepo.RateSeriesRepositoryFacade = (*PgxRateSeriesRepository)(nil)
	_ portsrepo.LedgerRepositoryFacade     = (*PgxLedgerRepository)(nil)
)
