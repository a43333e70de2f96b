package usecase

import (
	"context"
	"errors"
	"time"

	"tablebook/internal/domain/table"
	"tablebook/internal/domain/user"
	"tablebook/internal/infra"
	"tablebook/internal/infra/db"
	"tablebook/internal/pkg/clock"
	"tablebook/internal/pkg/errs"
	"tablebook/internal/usecase/readmodel"

	"github.com/google/uuid"
)

var (
	ErrDuplicateTableNumber       = errors.New("table number already exists")
	ErrTableHasActiveReservations = errors.New("table has active reservations")
	ErrTableHasBookingHistory     = errors.New("table has booking history")
	ErrInvalidTableStatus         = errors.New("invalid table status change")
)

type CreateTableParams struct {
	Number   int
	Capacity int
	Section  table.Section
	Notes    string
}

// SetTableStatusParams drives the status setter. Occupancy is required when
// moving to occupied; Until is required when moving to reserved. Active
// toggles the soft deactivation flag alongside the floor status.
type SetTableStatusParams struct {
	TableID   uuid.UUID
	Status    table.Status
	Occupancy int
	Until     *time.Time
	Active    *bool
}

type TableUseCase interface {
	CreateTable(ctx context.Context, params CreateTableParams, actor Principal) (*readmodel.TableRM, error)
	GetTable(ctx context.Context, id uuid.UUID) (*readmodel.TableRM, error)
	ListTables(ctx context.Context, filter readmodel.TableFilter) ([]*readmodel.TableRM, error)
	FindAvailableTables(ctx context.Context, filter readmodel.TableFilter) ([]*readmodel.TableRM, error)
	SetStatus(ctx context.Context, params SetTableStatusParams, actor Principal) (*readmodel.TableRM, error)
	DeleteTable(ctx context.Context, id uuid.UUID, actor Principal) error
}

type tableUseCaseImpl struct {
	tableRepo       TableRepository
	reservationRepo ReservationRepository
	tx              TxRunner
	clock           clock.Clock
}

func NewTableUseCase(
	tableRepo TableRepository,
	reservationRepo ReservationRepository,
	tx TxRunner,
	clock clock.Clock,
) TableUseCase {
	return &tableUseCaseImpl{
		tableRepo:       tableRepo,
		reservationRepo: reservationRepo,
		tx:              tx,
		clock:           clock,
	}
}

func (t *tableUseCaseImpl) CreateTable(
	ctx context.Context,
	params CreateTableParams,
	actor Principal,
) (*readmodel.TableRM, error) {
	if !actor.Role.IsStaff() {
		return nil, ErrForbidden
	}

	entity, err := table.NewTable(params.Number, params.Capacity, params.Section, params.Notes)
	if err != nil {
		return nil, err
	}

	err = t.tx.WithinTx(ctx, func(tx db.DBTX) error {
		if _, createErr := t.tableRepo.Create(ctx, tx, entity); createErr != nil {
			if infra.IsKind(createErr, infra.KindDuplicateKey) {
				return ErrDuplicateTableNumber
			}
			return translateRepoErr(createErr, ErrTableNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return t.GetTable(ctx, entity.ID())
}

func (t *tableUseCaseImpl) GetTable(ctx context.Context, id uuid.UUID) (*readmodel.TableRM, error) {
	entity, err := t.tableRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translateRepoErr(err, ErrTableNotFound)
	}
	return readmodel.NewTableRM(entity), nil
}

func (t *tableUseCaseImpl) ListTables(ctx context.Context, filter readmodel.TableFilter) ([]*readmodel.TableRM, error) {
	tables, err := t.tableRepo.List(ctx, filter)
	if err != nil {
		return nil, translateRepoErr(err, ErrTableNotFound)
	}
	return tables, nil
}

// FindAvailableTables lists active tables in available floor status matching
// the filter, ordered by table number.
func (t *tableUseCaseImpl) FindAvailableTables(ctx context.Context, filter readmodel.TableFilter) ([]*readmodel.TableRM, error) {
	tables, err := t.tableRepo.FindAvailable(ctx, filter)
	if err != nil {
		return nil, translateRepoErr(err, ErrTableNotFound)
	}
	return tables, nil
}

func (t *tableUseCaseImpl) SetStatus(
	ctx context.Context,
	params SetTableStatusParams,
	actor Principal,
) (*readmodel.TableRM, error) {
	if !actor.Role.IsStaff() {
		return nil, ErrForbidden
	}

	entity, err := t.tableRepo.FindByID(ctx, params.TableID)
	if err != nil {
		return nil, translateRepoErr(err, ErrTableNotFound)
	}

	switch params.Status {
	case table.StatusOccupied:
		err = entity.Occupy(params.Occupancy, t.clock.Now())
	case table.StatusReserved:
		if params.Until == nil {
			return nil, errs.Mark(table.ErrReservedUntilNotFuture, ErrInvalidTableStatus)
		}
		err = entity.Reserve(*params.Until, t.clock.Now())
	case table.StatusAvailable:
		entity.Release()
	case table.StatusMaintenance:
		entity.SetMaintenance()
	default:
		return nil, errs.Mark(table.ErrInvalidStatus, ErrInvalidTableStatus)
	}
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidTableStatus)
	}

	if params.Active != nil {
		if *params.Active {
			entity.Activate()
		} else {
			entity.Deactivate()
		}
	}

	err = t.tx.WithinTx(ctx, func(tx db.DBTX) error {
		if updateErr := t.tableRepo.Update(ctx, tx, entity); updateErr != nil {
			return translateRepoErr(updateErr, ErrTableNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return readmodel.NewTableRM(entity), nil
}

// DeleteTable hard-deletes a table. Non-terminal reservations refuse the
// delete outright; terminal rows still hold the foreign key, so tables with
// booking history report that distinctly and stay deactivatable instead.
func (t *tableUseCaseImpl) DeleteTable(ctx context.Context, id uuid.UUID, actor Principal) error {
	if actor.Role != user.RoleAdmin {
		return ErrForbidden
	}

	if _, err := t.tableRepo.FindByID(ctx, id); err != nil {
		return translateRepoErr(err, ErrTableNotFound)
	}

	count, err := t.reservationRepo.CountActiveByTable(ctx, id)
	if err != nil {
		return translateRepoErr(err, ErrTableNotFound)
	}
	if count > 0 {
		return ErrTableHasActiveReservations
	}

	return t.tx.WithinTx(ctx, func(tx db.DBTX) error {
		if deleteErr := t.tableRepo.Delete(ctx, tx, id); deleteErr != nil {
			if infra.IsKind(deleteErr, infra.KindForeignKeyViolated) {
				return ErrTableHasBookingHistory
			}
			return translateRepoErr(deleteErr, ErrTableNotFound)
		}
		return nil
	})
}

