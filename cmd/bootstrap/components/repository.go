package components

import (
	"tablebook/internal/infra"
	"tablebook/internal/infra/db"
	"tablebook/internal/infra/repository"
	"tablebook/internal/pkg/config"
	"tablebook/internal/usecase"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		fx.Annotate(
			NewTableRepository,
			fx.As(new(usecase.TableRepository)),
		),
		fx.Annotate(
			NewReservationRepository,
			fx.As(new(usecase.ReservationRepository)),
		),
		fx.Annotate(
			infra.NewPgxTxRunner,
			fx.As(new(usecase.TxRunner)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}

func NewTableRepository(dbtx db.DBTX, cfg config.Config) *repository.TableRepository {
	return repository.NewTableRepository(dbtx, cfg.DB.QueryTimeout)
}

func NewReservationRepository(dbtx db.DBTX, cfg config.Config) *repository.ReservationRepository {
	return repository.NewReservationRepository(dbtx, cfg.DB.QueryTimeout)
}
