package components

import (
	"gearlend/internal/pkg/clock"
	"gearlend/internal/usecase/commands"
	"gearlend/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewPenaltyUseCase,
		// The penalty engine doubles as the ban gate for borrowing paths.
		func(p commands.PenaltyCommands) commands.BorrowGate { return p },
		commands.NewBorrowUseCase,
		commands.NewRequestUseCase,
		commands.NewInventoryUseCase,
		commands.NewUserUseCase,
		commands.NewReminderUseCase,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewInventoryQueries,
		queries.NewReservationQueries,
		queries.NewPenaltyQueries,
		queries.NewUserQueries,
		queries.NewAnalyticsQueries,
	),
)
