package usecase

import (
	"context"
	"errors"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/usecase/readmodel"
)

var ErrNoMatchingTables = errors.New("no tables match the requested capacity")

// AvailabilityUseCase answers read-only availability queries. It applies the
// same conflict predicate as the checker: a table it reports free will be
// accepted by a create call issued before any other writer.
type AvailabilityUseCase interface {
	Search(ctx context.Context, slot reservation.Slot, guestCount int) (*readmodel.AvailabilityRM, error)
}

type availabilityUseCaseImpl struct {
	tableRepo       TableRepository
	reservationRepo ReservationRepository
}

func NewAvailabilityUseCase(tableRepo TableRepository, reservationRepo ReservationRepository) AvailabilityUseCase {
	return &availabilityUseCaseImpl{
		tableRepo:       tableRepo,
		reservationRepo: reservationRepo,
	}
}

// Search returns the active tables seating at least guestCount that hold no
// in-use reservation at the slot. guestCount of 0 means any party size.
func (a *availabilityUseCaseImpl) Search(
	ctx context.Context,
	slot reservation.Slot,
	guestCount int,
) (*readmodel.AvailabilityRM, error) {
	filter := readmodel.TableFilter{MinCapacity: guestCount}

	candidates, err := a.tableRepo.FindBookable(ctx, filter)
	if err != nil {
		return nil, translateRepoErr(err, ErrNoMatchingTables)
	}
	if len(candidates) == 0 {
		return nil, ErrNoMatchingTables
	}

	conflictedIDs, err := a.reservationRepo.FindConflictedTableIDs(ctx, slot)
	if err != nil {
		return nil, translateRepoErr(err, ErrNoMatchingTables)
	}

	conflicted := make(map[string]struct{}, len(conflictedIDs))
	for _, id := range conflictedIDs {
		conflicted[id.String()] = struct{}{}
	}

	// Candidates minus the conflicted set, preserving registry ordering.
	free := make([]*readmodel.TableRM, 0, len(candidates))
	for _, t := range candidates {
		if _, taken := conflicted[t.ID.String()]; !taken {
			free = append(free, t)
		}
	}

	return &readmodel.AvailabilityRM{
		Available: len(free) > 0,
		Tables:    free,
	}, nil
}
