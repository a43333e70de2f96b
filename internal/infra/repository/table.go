package repository

import (
	"context"
	"strconv"
	"time"

	"tablebook/internal/domain/table"
	"tablebook/internal/infra"
	"tablebook/internal/infra/db"
	"tablebook/internal/pkg/pgconv"
	"tablebook/internal/usecase/readmodel"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type TableRepository struct {
	db           db.DBTX
	queryTimeout time.Duration
}

func NewTableRepository(dbtx db.DBTX, queryTimeout time.Duration) *TableRepository {
	return &TableRepository{
		db:           dbtx,
		queryTimeout: queryTimeout,
	}
}

const tableColumns = `id, table_number, capacity, section, status, active, notes,
	current_occupancy, occupied_since, reserved_until, created_at, updated_at`

func (r *TableRepository) Create(ctx context.Context, tx db.DBTX, t *table.Table) (uuid.UUID, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	const query = `
		INSERT INTO tables (id, table_number, capacity, section, status, active, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	var id uuid.UUID
	err := tx.QueryRow(ctx, query,
		t.ID(), t.Number(), t.Capacity(), t.Section().String(), t.Status().String(), t.IsActive(), t.Notes(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create table", err)
	}

	return id, nil
}

func (r *TableRepository) Update(ctx context.Context, tx db.DBTX, t *table.Table) error {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	const query = `
		UPDATE tables
		SET capacity = $2, section = $3, status = $4, active = $5, notes = $6,
		    current_occupancy = $7, occupied_since = $8, reserved_until = $9,
		    updated_at = now()
		WHERE id = $1`

	tag, err := tx.Exec(ctx, query,
		t.ID(), t.Capacity(), t.Section().String(), t.Status().String(), t.IsActive(), t.Notes(),
		t.CurrentOccupancy(), pgconv.TimePtrToPgtype(t.OccupiedSince()), pgconv.TimePtrToPgtype(t.ReservedUntil()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update table", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("table not found", nil, infra.KindNotFound)
	}

	return nil
}

func (r *TableRepository) FindByID(ctx context.Context, id uuid.UUID) (*table.Table, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	row := r.db.QueryRow(ctx, `SELECT `+tableColumns+` FROM tables WHERE id = $1`, id)

	entity, err := scanTable(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("table not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find table by ID", err)
	}

	return entity, nil
}

func (r *TableRepository) FindByNumber(ctx context.Context, number int) (*table.Table, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	row := r.db.QueryRow(ctx, `SELECT `+tableColumns+` FROM tables WHERE table_number = $1`, number)

	entity, err := scanTable(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("table not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find table by number", err)
	}

	return entity, nil
}

// List returns table views matching the filter, ordered by table number.
func (r *TableRepository) List(ctx context.Context, filter readmodel.TableFilter) ([]*readmodel.TableRM, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	query := `SELECT ` + tableColumns + ` FROM tables WHERE 1=1`
	args := []any{}

	if filter.MinCapacity > 0 {
		args = append(args, filter.MinCapacity)
		query += ` AND capacity >= $` + itoa(len(args))
	}
	if filter.Section != "" {
		args = append(args, filter.Section)
		query += ` AND section = $` + itoa(len(args))
	}
	if filter.ActiveOnly {
		query += ` AND active = true`
	}
	query += ` ORDER BY table_number ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list tables", err)
	}
	defer rows.Close()

	var result []*readmodel.TableRM
	for rows.Next() {
		rm, scanErr := scanTableRM(rows)
		if scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan table row", scanErr)
		}
		result = append(result, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read table rows", err)
	}

	return result, nil
}

// FindAvailable returns active tables in available status matching the
// filter, ordered by table number ascending.
func (r *TableRepository) FindAvailable(ctx context.Context, filter readmodel.TableFilter) ([]*readmodel.TableRM, error) {
	filter.ActiveOnly = true

	tables, err := r.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := make([]*readmodel.TableRM, 0, len(tables))
	for _, t := range tables {
		if t.Status == table.StatusAvailable.String() {
			result = append(result, t)
		}
	}

	return result, nil
}

// FindBookable returns active tables matching the filter regardless of the
// floor status; reservation availability is decided against the reservation
// set, not the walk-in status.
func (r *TableRepository) FindBookable(ctx context.Context, filter readmodel.TableFilter) ([]*readmodel.TableRM, error) {
	filter.ActiveOnly = true
	return r.List(ctx, filter)
}

func (r *TableRepository) Delete(ctx context.Context, tx db.DBTX, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	tag, err := tx.Exec(ctx, `DELETE FROM tables WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete table", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("table not found", nil, infra.KindNotFound)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTable(row rowScanner) (*table.Table, error) {
	var (
		id                           uuid.UUID
		number, capacity, occupancy  int
		section, status, notes       string
		active                       bool
		occupiedSince, reservedUntil pgtype.Timestamptz
		createdAt, updatedAt         pgtype.Timestamptz
	)

	err := row.Scan(&id, &number, &capacity, &section, &status, &active, &notes,
		&occupancy, &occupiedSince, &reservedUntil, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	return table.ReconstructTable(
		id, number, capacity,
		table.Section(section), table.Status(status),
		active, notes, occupancy,
		pgconv.TimePtrFromPgtype(occupiedSince),
		pgconv.TimePtrFromPgtype(reservedUntil),
		pgconv.TimeFromPgtype(createdAt),
		pgconv.TimeFromPgtype(updatedAt),
	), nil
}

func scanTableRM(row rowScanner) (*readmodel.TableRM, error) {
	entity, err := scanTable(row)
	if err != nil {
		return nil, err
	}
	return readmodel.NewTableRM(entity), nil
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
