package usecase

import (
	"context"
	"errors"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/domain/user"
	"tablebook/internal/infra"
	"tablebook/internal/infra/db"
	"tablebook/internal/pkg/clock"
	"tablebook/internal/pkg/errs"
	"tablebook/internal/pkg/patch"
	"tablebook/internal/usecase/readmodel"

	"github.com/google/uuid"
)

var (
	ErrReservationNotFound     = errors.New("reservation not found")
	ErrForbidden               = errors.New("not allowed to modify this reservation")
	ErrNoActiveBookingsForDate = errors.New("no active bookings for this date")
	ErrInvalidStatusChange     = errors.New("invalid status change")
	ErrInvalidGuestCount       = errors.New("invalid guest count")
)

type CreateReservationParams struct {
	TableID    uuid.UUID
	Slot       reservation.Slot
	GuestCount int
	Details    reservation.Details
}

// EditReservationParams patches a reservation; nil fields are left unchanged.
type EditReservationParams struct {
	ReservationID   uuid.UUID
	Date            *reservation.Date
	TimeOfDay       *reservation.TimeOfDay
	GuestCount      *int
	Status          *reservation.Status
	SpecialRequests *string
	Occasion        *string
}

type ReservationUseCase interface {
	Create(ctx context.Context, params CreateReservationParams, actor Principal) (*readmodel.ReservationRM, error)
	Edit(ctx context.Context, params EditReservationParams, actor Principal) (*readmodel.ReservationRM, error)
	Cancel(ctx context.Context, id uuid.UUID, actor Principal) error
	CancelAllForDate(ctx context.Context, date reservation.Date, actor Principal) (int, error)
	Get(ctx context.Context, id uuid.UUID) (*readmodel.ReservationRM, error)
	GetUserReservations(ctx context.Context, userID uuid.UUID) ([]*readmodel.ReservationListRM, error)
	ListAll(ctx context.Context, filter readmodel.ReservationFilter, actor Principal) ([]*readmodel.ReservationRM, error)
}

type reservationUseCaseImpl struct {
	reservationRepo ReservationRepository
	tableRepo       TableRepository
	checker         ConflictChecker
	tx              TxRunner
	clock           clock.Clock

	// recheckOnEdit re-runs the conflict predicate when an edit moves the
	// slot. The legacy behavior writes through without re-checking; both
	// modes are supported behind this switch.
	recheckOnEdit bool
}

func NewReservationUseCase(
	reservationRepo ReservationRepository,
	tableRepo TableRepository,
	checker ConflictChecker,
	tx TxRunner,
	clock clock.Clock,
	recheckOnEdit bool,
) ReservationUseCase {
	return &reservationUseCaseImpl{
		reservationRepo: reservationRepo,
		tableRepo:       tableRepo,
		checker:         checker,
		tx:              tx,
		clock:           clock,
		recheckOnEdit:   recheckOnEdit,
	}
}

// Create books a table slot. A successful conflict check auto-confirms the
// reservation; there is no pending review step on this path.
func (r *reservationUseCaseImpl) Create(
	ctx context.Context,
	params CreateReservationParams,
	actor Principal,
) (*readmodel.ReservationRM, error) {
	check := CheckRequest{
		TableID:    params.TableID,
		Slot:       params.Slot,
		GuestCount: params.GuestCount,
	}
	if err := r.checker.Check(ctx, check); err != nil {
		return nil, err
	}

	entity, err := reservation.NewReservation(
		params.TableID, actor.UserID,
		params.Slot, params.GuestCount,
		params.Details, actor.Role,
		r.clock.Now(),
	)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidGuestCount)
	}

	var reservationID uuid.UUID
	err = r.tx.WithinTx(ctx, func(tx db.DBTX) error {
		id, createErr := r.reservationRepo.Create(ctx, tx, entity)
		if createErr != nil {
			// A racing writer can win the slot between the check and
			// this insert; the storage constraint decides the winner.
			if infra.IsKind(createErr, infra.KindConflict) {
				return ErrSlotTaken
			}
			return translateRepoErr(createErr, ErrTableNotFound)
		}
		reservationID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	view, err := r.reservationRepo.ViewByID(ctx, reservationID)
	if err != nil {
		return nil, translateRepoErr(err, ErrReservationNotFound)
	}

	return view, nil
}

func (r *reservationUseCaseImpl) Edit(
	ctx context.Context,
	params EditReservationParams,
	actor Principal,
) (*readmodel.ReservationRM, error) {
	entity, err := r.reservationRepo.FindByID(ctx, params.ReservationID)
	if err != nil {
		return nil, translateRepoErr(err, ErrReservationNotFound)
	}

	if err := authorize(entity, actor); err != nil {
		return nil, err
	}

	slot := entity.Slot()
	newSlot := reservation.NewSlot(
		patch.Coalesce(params.Date, slot.Date()),
		patch.Coalesce(params.TimeOfDay, slot.TimeOfDay()),
	)
	slotChanged := !newSlot.Equal(slot)

	newGuestCount := patch.Coalesce(params.GuestCount, entity.GuestCount())
	if newGuestCount != entity.GuestCount() {
		tbl, tblErr := r.tableRepo.FindByID(ctx, entity.TableID())
		if tblErr != nil {
			return nil, translateRepoErr(tblErr, ErrTableNotFound)
		}
		if !tbl.CanSeat(newGuestCount) {
			if newGuestCount < 1 {
				return nil, ErrInvalidGuestCount
			}
			return nil, ErrCapacityExceeded
		}
	}

	// Moving the slot does not re-run the conflict predicate unless the
	// recheck policy is enabled; this preserves the legacy write-through.
	if r.recheckOnEdit && slotChanged {
		check := CheckRequest{
			TableID:    entity.TableID(),
			Slot:       newSlot,
			GuestCount: newGuestCount,
		}
		if checkErr := r.checker.Check(ctx, check); checkErr != nil {
			return nil, checkErr
		}
	}

	if slotChanged {
		entity.Reschedule(newSlot)
	}
	if newGuestCount != entity.GuestCount() {
		if gcErr := entity.UpdateGuestCount(newGuestCount); gcErr != nil {
			return nil, ErrInvalidGuestCount
		}
	}
	if params.SpecialRequests != nil || params.Occasion != nil {
		details := entity.Details()
		details.SpecialRequests = patch.Coalesce(params.SpecialRequests, details.SpecialRequests)
		details.Occasion = patch.Coalesce(params.Occasion, details.Occasion)
		entity.UpdateDetails(details)
	}

	if params.Status != nil && *params.Status != entity.Status() {
		statusErr := entity.ChangeStatus(*params.Status, actor.Role, "Status changed by "+actor.Role.String(), r.clock.Now())
		if statusErr != nil {
			return nil, errs.Mark(statusErr, ErrInvalidStatusChange)
		}
	}

	err = r.tx.WithinTx(ctx, func(tx db.DBTX) error {
		if updateErr := r.reservationRepo.Update(ctx, tx, entity); updateErr != nil {
			if infra.IsKind(updateErr, infra.KindConflict) {
				return ErrSlotTaken
			}
			return translateRepoErr(updateErr, ErrReservationNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	view, err := r.reservationRepo.ViewByID(ctx, entity.ID())
	if err != nil {
		return nil, translateRepoErr(err, ErrReservationNotFound)
	}

	return view, nil
}

func (r *reservationUseCaseImpl) Cancel(ctx context.Context, id uuid.UUID, actor Principal) error {
	entity, err := r.reservationRepo.FindByID(ctx, id)
	if err != nil {
		return translateRepoErr(err, ErrReservationNotFound)
	}

	if err := authorize(entity, actor); err != nil {
		return err
	}

	if err := entity.Cancel(actor.Role, "Cancelled by "+actor.Role.String(), r.clock.Now()); err != nil {
		return errs.Mark(err, ErrInvalidStatusChange)
	}

	return r.tx.WithinTx(ctx, func(tx db.DBTX) error {
		if updateErr := r.reservationRepo.Update(ctx, tx, entity); updateErr != nil {
			return translateRepoErr(updateErr, ErrReservationNotFound)
		}
		return nil
	})
}

// CancelAllForDate cancels every pending or confirmed booking on the date in
// one transaction. The selected set either cancels entirely or the operation
// fails; there is no partial application.
func (r *reservationUseCaseImpl) CancelAllForDate(
	ctx context.Context,
	date reservation.Date,
	actor Principal,
) (int, error) {
	if actor.Role != user.RoleAdmin {
		return 0, ErrForbidden
	}

	cancellable := []string{
		reservation.StatusPending.String(),
		reservation.StatusConfirmed.String(),
	}
	entities, err := r.reservationRepo.FindForDate(ctx, date, cancellable)
	if err != nil {
		return 0, translateRepoErr(err, ErrNoActiveBookingsForDate)
	}
	if len(entities) == 0 {
		return 0, ErrNoActiveBookingsForDate
	}

	now := r.clock.Now()
	note := "Cancelled by " + actor.Role.String()

	err = r.tx.WithinTx(ctx, func(tx db.DBTX) error {
		for _, entity := range entities {
			if cancelErr := entity.Cancel(actor.Role, note, now); cancelErr != nil {
				return errs.Mark(cancelErr, ErrInvalidStatusChange)
			}
			if updateErr := r.reservationRepo.Update(ctx, tx, entity); updateErr != nil {
				return translateRepoErr(updateErr, ErrReservationNotFound)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return len(entities), nil
}

func (r *reservationUseCaseImpl) Get(ctx context.Context, id uuid.UUID) (*readmodel.ReservationRM, error) {
	view, err := r.reservationRepo.ViewByID(ctx, id)
	if err != nil {
		return nil, translateRepoErr(err, ErrReservationNotFound)
	}
	return view, nil
}

func (r *reservationUseCaseImpl) GetUserReservations(ctx context.Context, userID uuid.UUID) ([]*readmodel.ReservationListRM, error) {
	reservations, err := r.reservationRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, translateRepoErr(err, ErrReservationNotFound)
	}
	return reservations, nil
}

func (r *reservationUseCaseImpl) ListAll(
	ctx context.Context,
	filter readmodel.ReservationFilter,
	actor Principal,
) ([]*readmodel.ReservationRM, error) {
	if !actor.Role.IsStaff() {
		return nil, ErrForbidden
	}

	reservations, err := r.reservationRepo.ListAll(ctx, filter)
	if err != nil {
		return nil, translateRepoErr(err, ErrReservationNotFound)
	}
	return reservations, nil
}

// authorize allows the owning user, or staff, to mutate a reservation.
func authorize(entity *reservation.Reservation, actor Principal) error {
	if entity.IsOwnedBy(actor.UserID) || actor.Role.IsStaff() {
		return nil
	}
	return ErrForbidden
}
