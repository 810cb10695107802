package components

import (
	"gearlend/internal/handler"
	"gearlend/internal/handler/api"
	"gearlend/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewEquipmentHandler,
		api.NewReservationHandler,
		api.NewBorrowRequestHandler,
		api.NewPenaltyHandler,
		api.NewUserHandler,
		api.NewAnalyticsHandler,
		middleware.NewAuthMiddleware,
		NewHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func NewHandlers(
	auth *api.AuthHandler,
	equipment *api.EquipmentHandler,
	reservation *api.ReservationHandler,
	borrowRequest *api.BorrowRequestHandler,
	penalty *api.PenaltyHandler,
	user *api.UserHandler,
	analytics *api.AnalyticsHandler,
) handler.Handlers {
	return handler.Handlers{
		Auth:          auth,
		Equipment:     equipment,
		Reservation:   reservation,
		BorrowRequest: borrowRequest,
		Penalty:       penalty,
		User:          user,
		Analytics:     analytics,
	}
}
