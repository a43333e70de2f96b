package usecase

import (
	"context"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/domain/table"
	"tablebook/internal/domain/user"
	"tablebook/internal/infra/db"
	"tablebook/internal/usecase/readmodel"

	"github.com/google/uuid"
)

// Principal is the authenticated actor supplied by the auth collaborator.
// Role claims are trusted as-is; credential validation happens upstream.
type Principal struct {
	UserID uuid.UUID
	Email  string
	Role   user.Role
}

type TableRepository interface {
	Create(ctx context.Context, tx db.DBTX, t *table.Table) (uuid.UUID, error)
	Update(ctx context.Context, tx db.DBTX, t *table.Table) error
	FindByID(ctx context.Context, id uuid.UUID) (*table.Table, error)
	FindByNumber(ctx context.Context, number int) (*table.Table, error)
	List(ctx context.Context, filter readmodel.TableFilter) ([]*readmodel.TableRM, error)
	FindAvailable(ctx context.Context, filter readmodel.TableFilter) ([]*readmodel.TableRM, error)
	FindBookable(ctx context.Context, filter readmodel.TableFilter) ([]*readmodel.TableRM, error)
	Delete(ctx context.Context, tx db.DBTX, id uuid.UUID) error
}

type ReservationRepository interface {
	Create(ctx context.Context, tx db.DBTX, res *reservation.Reservation) (uuid.UUID, error)
	Update(ctx context.Context, tx db.DBTX, res *reservation.Reservation) error
	FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	FindConflicting(ctx context.Context, tableID uuid.UUID, slot reservation.Slot, statuses []string) ([]*reservation.Reservation, error)
	FindConflictedTableIDs(ctx context.Context, slot reservation.Slot) ([]uuid.UUID, error)
	FindForDate(ctx context.Context, date reservation.Date, statuses []string) ([]*reservation.Reservation, error)
	CountActiveByTable(ctx context.Context, tableID uuid.UUID) (int64, error)
	ViewByID(ctx context.Context, id uuid.UUID) (*readmodel.ReservationRM, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*readmodel.ReservationListRM, error)
	ListAll(ctx context.Context, filter readmodel.ReservationFilter) ([]*readmodel.ReservationRM, error)
}

// TxRunner runs a function inside a storage transaction. Abstracted so the
// lifecycle manager can be exercised against in-memory fakes.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(tx db.DBTX) error) error
}
