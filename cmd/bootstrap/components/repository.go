package components

import (
	"gearlend/internal/infra/db"
	repo_impl "gearlend/internal/infra/repository"
	"gearlend/internal/usecase/commands"
	"gearlend/internal/usecase/queries"
	"gearlend/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		shared.NewUnitOfWork,
		fx.Annotate(
			repo_impl.NewUnitRepository,
			fx.As(new(commands.UnitRepository)),
			fx.As(new(queries.InventoryReadRepo)),
		),
		fx.Annotate(
			repo_impl.NewReservationRepository,
			fx.As(new(commands.ReservationRepository)),
			fx.As(new(queries.ReservationViewRepo)),
			fx.As(new(commands.DueReservationReader)),
		),
		fx.Annotate(
			repo_impl.NewRequestRepository,
			fx.As(new(commands.RequestRepository)),
		),
		fx.Annotate(
			repo_impl.NewRequestViewRepository,
			fx.As(new(queries.RequestViewRepo)),
		),
		fx.Annotate(
			repo_impl.NewUserRepository,
			fx.As(new(commands.UserRepository)),
		),
		fx.Annotate(
			repo_impl.NewUserViewRepository,
			fx.As(new(queries.UserViewRepo)),
		),
		fx.Annotate(
			repo_impl.NewPenaltyRepository,
			fx.As(new(commands.PenaltyRepository)),
		),
		fx.Annotate(
			repo_impl.NewPenaltyViewRepository,
			fx.As(new(queries.PenaltyViewRepo)),
		),
		fx.Annotate(
			repo_impl.NewAnalyticsRepository,
			fx.As(new(queries.AnalyticsReadRepo)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
