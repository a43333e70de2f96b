package components

import (
	"tablebook/internal/pkg/clock"
	"tablebook/internal/pkg/config"
	"tablebook/internal/usecase"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		usecase.NewConflictChecker,
		usecase.NewTokenValidator,
		NewReservationUseCase,
		usecase.NewAvailabilityUseCase,
		usecase.NewTableUseCase,
	),
)

func NewReservationUseCase(
	reservationRepo usecase.ReservationRepository,
	tableRepo usecase.TableRepository,
	checker usecase.ConflictChecker,
	tx usecase.TxRunner,
	clock clock.Clock,
	cfg config.Config,
) usecase.ReservationUseCase {
	return usecase.NewReservationUseCase(
		reservationRepo, tableRepo, checker, tx, clock,
		cfg.Booking.RecheckOnEdit,
	)
}
