package repository

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/domain/user"
	"tablebook/internal/infra"
	"tablebook/internal/infra/db"
	"tablebook/internal/pkg/pgconv"
	"tablebook/internal/usecase/readmodel"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ReservationRepository struct {
	db           db.DBTX
	queryTimeout time.Duration
}

func NewReservationRepository(dbtx db.DBTX, queryTimeout time.Duration) *ReservationRepository {
	return &ReservationRepository{
		db:           dbtx,
		queryTimeout: queryTimeout,
	}
}

const reservationColumns = `id, table_id, user_id, reserved_date, reserved_time, guest_count,
	status, history, special_requests, occasion, duration_minutes, contact_phone, channel, notes,
	created_at, updated_at`

// Create inserts a reservation. The partial unique index on
// (table_id, reserved_date, reserved_time) over in-use statuses makes the
// second of two racing writers fail here with a conflict.
func (r *ReservationRepository) Create(ctx context.Context, tx db.DBTX, res *reservation.Reservation) (uuid.UUID, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	historyJSON, err := json.Marshal(res.History())
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to encode history", err)
	}

	const query = `
		INSERT INTO reservations (id, table_id, user_id, reserved_date, reserved_time, guest_count,
			status, history, special_requests, occasion, duration_minutes, contact_phone, channel, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`

	d := res.Details()

	var id uuid.UUID
	err = tx.QueryRow(ctx, query,
		res.ID(), res.TableID(), res.UserID(),
		res.Slot().Date().Time(), res.Slot().TimeOfDay().String(), res.GuestCount(),
		res.Status().String(), historyJSON,
		d.SpecialRequests, d.Occasion, d.DurationMinutes, d.ContactPhone, d.Channel, d.Notes,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create reservation", err)
	}

	return id, nil
}

// Update writes the mutable fields and the full history list. History is
// append-only in the domain, so persisting the whole list never loses entries.
func (r *ReservationRepository) Update(ctx context.Context, tx db.DBTX, res *reservation.Reservation) error {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	historyJSON, err := json.Marshal(res.History())
	if err != nil {
		return infra.WrapRepoErr("failed to encode history", err)
	}

	const query = `
		UPDATE reservations
		SET reserved_date = $2, reserved_time = $3, guest_count = $4, status = $5, history = $6,
		    special_requests = $7, occasion = $8, duration_minutes = $9, contact_phone = $10,
		    channel = $11, notes = $12, updated_at = now()
		WHERE id = $1`

	d := res.Details()

	tag, err := tx.Exec(ctx, query,
		res.ID(),
		res.Slot().Date().Time(), res.Slot().TimeOfDay().String(), res.GuestCount(),
		res.Status().String(), historyJSON,
		d.SpecialRequests, d.Occasion, d.DurationMinutes, d.ContactPhone, d.Channel, d.Notes,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update reservation", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}

	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	row := r.db.QueryRow(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id)

	entity, err := scanReservation(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by ID", err)
	}

	return entity, nil
}

// FindConflicting returns reservations on the same table, calendar date and
// exact minute whose status is in the given in-use set.
func (r *ReservationRepository) FindConflicting(
	ctx context.Context,
	tableID uuid.UUID,
	slot reservation.Slot,
	statuses []string,
) ([]*reservation.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	const query = `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE table_id = $1 AND reserved_date = $2 AND reserved_time = $3 AND status = ANY($4)`

	rows, err := r.db.Query(ctx, query, tableID, slot.Date().Time(), slot.TimeOfDay().String(), statuses)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find conflicting reservations", err)
	}
	defer rows.Close()

	return collectReservations(rows)
}

// FindConflictedTableIDs returns every table id holding an in-use reservation
// at the given slot; the availability search subtracts these from the
// candidate set.
func (r *ReservationRepository) FindConflictedTableIDs(ctx context.Context, slot reservation.Slot) ([]uuid.UUID, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	const query = `
		SELECT DISTINCT table_id
		FROM reservations
		WHERE reserved_date = $1 AND reserved_time = $2 AND status = ANY($3)`

	rows, err := r.db.Query(ctx, query, slot.Date().Time(), slot.TimeOfDay().String(), reservation.InUseStatusStrings())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find conflicted tables", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if scanErr := rows.Scan(&id); scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan table id", scanErr)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read conflicted table rows", err)
	}

	return ids, nil
}

func (r *ReservationRepository) FindForDate(
	ctx context.Context,
	date reservation.Date,
	statuses []string,
) ([]*reservation.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	const query = `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE reserved_date = $1 AND status = ANY($2)
		ORDER BY reserved_time ASC`

	rows, err := r.db.Query(ctx, query, date.Time(), statuses)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find reservations for date", err)
	}
	defer rows.Close()

	return collectReservations(rows)
}

// CountActiveByTable counts non-terminal reservations referencing a table.
// The registry refuses to delete a table while this is non-zero.
func (r *ReservationRepository) CountActiveByTable(ctx context.Context, tableID uuid.UUID) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	const query = `
		SELECT COUNT(*)
		FROM reservations
		WHERE table_id = $1 AND status = ANY($2)`

	var count int64
	err := r.db.QueryRow(ctx, query, tableID, reservation.InUseStatusStrings()).Scan(&count)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count active reservations", err)
	}

	return count, nil
}

const reservationViewColumns = `r.id, r.table_id, t.table_number, t.section, r.user_id, u.email,
	r.reserved_date, r.reserved_time, r.guest_count, r.status, r.history,
	r.special_requests, r.occasion, r.duration_minutes, r.contact_phone, r.channel, r.notes,
	r.created_at, r.updated_at`

const reservationViewJoins = `
	FROM reservations r
	JOIN tables t ON t.id = r.table_id
	JOIN users u ON u.id = r.user_id`

func (r *ReservationRepository) ViewByID(ctx context.Context, id uuid.UUID) (*readmodel.ReservationRM, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	row := r.db.QueryRow(ctx, `SELECT `+reservationViewColumns+reservationViewJoins+` WHERE r.id = $1`, id)

	rm, err := scanReservationRM(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation view", err)
	}

	return rm, nil
}

// ListByUser returns a user's bookings ordered by (date, time) ascending.
func (r *ReservationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*readmodel.ReservationListRM, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	const query = `
		SELECT r.id, r.table_id, t.table_number, r.reserved_date, r.reserved_time,
		       r.guest_count, r.status, r.created_at
		FROM reservations r
		JOIN tables t ON t.id = r.table_id
		WHERE r.user_id = $1
		ORDER BY r.reserved_date ASC, r.reserved_time ASC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations by user", err)
	}
	defer rows.Close()

	var result []*readmodel.ReservationListRM
	for rows.Next() {
		var (
			rm           readmodel.ReservationListRM
			reservedDate pgtype.Date
			createdAt    pgtype.Timestamptz
		)
		if scanErr := rows.Scan(&rm.ID, &rm.TableID, &rm.TableNumber, &reservedDate, &rm.Time,
			&rm.GuestCount, &rm.Status, &createdAt); scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation row", scanErr)
		}
		rm.Date = reservedDate.Time.Format("2006-01-02")
		rm.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		result = append(result, &rm)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read reservation rows", err)
	}

	return result, nil
}

// ListAll returns the admin listing with table and user summaries joined in.
func (r *ReservationRepository) ListAll(ctx context.Context, filter readmodel.ReservationFilter) ([]*readmodel.ReservationRM, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	query := `SELECT ` + reservationViewColumns + reservationViewJoins + ` WHERE 1=1`
	args := []any{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += ` AND r.status = $` + strconv.Itoa(len(args))
	}
	if filter.Date != "" {
		args = append(args, filter.Date)
		query += ` AND r.reserved_date = $` + strconv.Itoa(len(args))
	}
	if filter.TableID != nil {
		args = append(args, *filter.TableID)
		query += ` AND r.table_id = $` + strconv.Itoa(len(args))
	}
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		query += ` AND r.user_id = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY r.reserved_date ASC, r.reserved_time ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations", err)
	}
	defer rows.Close()

	var result []*readmodel.ReservationRM
	for rows.Next() {
		rm, scanErr := scanReservationRM(rows)
		if scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation view", scanErr)
		}
		result = append(result, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read reservation views", err)
	}

	return result, nil
}

type storedHistoryEntry struct {
	Status    string    `json:"status"`
	At        time.Time `json:"at"`
	ActorRole string    `json:"actor_role"`
	Note      string    `json:"note,omitempty"`
}

func scanReservation(row rowScanner) (*reservation.Reservation, error) {
	var (
		id, tableID, userID  uuid.UUID
		reservedDate         pgtype.Date
		reservedTime         string
		guestCount           int
		status               string
		historyJSON          []byte
		details              reservation.Details
		createdAt, updatedAt pgtype.Timestamptz
	)

	err := row.Scan(&id, &tableID, &userID, &reservedDate, &reservedTime, &guestCount,
		&status, &historyJSON,
		&details.SpecialRequests, &details.Occasion, &details.DurationMinutes,
		&details.ContactPhone, &details.Channel, &details.Notes,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	slot, err := reservation.ParseSlot(reservedDate.Time.Format("2006-01-02"), reservedTime)
	if err != nil {
		return nil, err
	}

	history, err := decodeHistory(historyJSON)
	if err != nil {
		return nil, err
	}

	return reservation.ReconstructReservation(
		id, tableID, userID,
		slot, guestCount,
		reservation.Status(status),
		history, details,
		pgconv.TimeFromPgtype(createdAt),
		pgconv.TimeFromPgtype(updatedAt),
	), nil
}

func scanReservationRM(row rowScanner) (*readmodel.ReservationRM, error) {
	var (
		rm           readmodel.ReservationRM
		reservedDate pgtype.Date
		historyJSON  []byte
		createdAt    pgtype.Timestamptz
		updatedAt    pgtype.Timestamptz
	)

	err := row.Scan(&rm.ID, &rm.TableID, &rm.TableNumber, &rm.TableSection, &rm.UserID, &rm.UserEmail,
		&reservedDate, &rm.Time, &rm.GuestCount, &rm.Status, &historyJSON,
		&rm.SpecialRequests, &rm.Occasion, &rm.DurationMinutes, &rm.ContactPhone, &rm.Channel, &rm.Notes,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	var stored []storedHistoryEntry
	if err := json.Unmarshal(historyJSON, &stored); err != nil {
		return nil, err
	}
	rm.History = make([]readmodel.HistoryEntryRM, len(stored))
	for i, e := range stored {
		rm.History[i] = readmodel.HistoryEntryRM{
			Status:    e.Status,
			At:        e.At,
			ActorRole: e.ActorRole,
			Note:      e.Note,
		}
	}

	rm.Date = reservedDate.Time.Format("2006-01-02")
	rm.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	rm.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &rm, nil
}

func decodeHistory(historyJSON []byte) ([]reservation.HistoryEntry, error) {
	var stored []storedHistoryEntry
	if err := json.Unmarshal(historyJSON, &stored); err != nil {
		return nil, err
	}

	history := make([]reservation.HistoryEntry, len(stored))
	for i, e := range stored {
		history[i] = reservation.HistoryEntry{
			Status:    reservation.Status(e.Status),
			At:        e.At,
			ActorRole: user.Role(e.ActorRole),
			Note:      e.Note,
		}
	}
	return history, nil
}

func collectReservations(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]*reservation.Reservation, error) {
	var result []*reservation.Reservation
	for rows.Next() {
		entity, err := scanReservation(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation row", err)
		}
		result = append(result, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read reservation rows", err)
	}
	return result, nil
}
