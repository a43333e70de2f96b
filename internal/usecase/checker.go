package usecase

import (
	"context"
	"errors"

	"tablebook/internal/domain/reservation"

	"github.com/google/uuid"
)

var (
	ErrTableNotFound    = errors.New("table not found")
	ErrCapacityExceeded = errors.New("guest count exceeds table capacity")
	ErrSlotTaken        = errors.New("table is already reserved for this time slot")
)

// CheckRequest is a candidate reservation: the (table, date, time)
// fingerprint plus the party size.
type CheckRequest struct {
	TableID    uuid.UUID
	Slot       reservation.Slot
	GuestCount int
}

// ConflictChecker decides whether a candidate reservation is acceptable.
// It reads but never writes; nil means accept. The availability search and
// the lifecycle manager share this predicate so a table reported available
// is guaranteed acceptable to a following create call, modulo the race
// resolved by the storage uniqueness constraint.
type ConflictChecker interface {
	Check(ctx context.Context, req CheckRequest) error
}

type conflictCheckerImpl struct {
	tableRepo       TableRepository
	reservationRepo ReservationRepository
}

func NewConflictChecker(tableRepo TableRepository, reservationRepo ReservationRepository) ConflictChecker {
	return &conflictCheckerImpl{
		tableRepo:       tableRepo,
		reservationRepo: reservationRepo,
	}
}

func (c *conflictCheckerImpl) Check(ctx context.Context, req CheckRequest) error {
	tbl, err := c.tableRepo.FindByID(ctx, req.TableID)
	if err != nil {
		return translateRepoErr(err, ErrTableNotFound)
	}

	if req.GuestCount > tbl.Capacity() {
		return ErrCapacityExceeded
	}

	// Exact-minute equality on the reservation's calendar date; duration
	// never widens the match to adjacent slots.
	conflicts, err := c.reservationRepo.FindConflicting(ctx, req.TableID, req.Slot, reservation.InUseStatusStrings())
	if err != nil {
		return translateRepoErr(err, ErrTableNotFound)
	}
	if len(conflicts) > 0 {
		return ErrSlotTaken
	}

	return nil
}
