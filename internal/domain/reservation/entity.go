package reservation

import (
	"errors"
	"time"

	"tablebook/internal/domain/user"

	"github.com/google/uuid"
)

var (
	ErrInvalidGuestCount        = errors.New("guest count must be at least 1")
	ErrInvalidStatusTransition  = errors.New("invalid status transition")
	ErrReservationTerminal      = errors.New("reservation is in a terminal status")
	ErrHistoryTimestampReversed = errors.New("history entry timestamp precedes previous entry")
)

// AutoConfirmNote is recorded with the history entry written on creation.
// New bookings skip the pending review step and confirm immediately.
const AutoConfirmNote = "Automatically confirmed on creation"

// HistoryEntry is one element of a reservation's append-only audit trail.
type HistoryEntry struct {
	Status    Status    `json:"status"`
	At        time.Time `json:"at"`
	ActorRole user.Role `json:"actor_role"`
	Note      string    `json:"note,omitempty"`
}

// Reservation is a request to use one table at one date+time for a party.
// It references its table by id only; table state is owned by the registry.
type Reservation struct {
	id         uuid.UUID
	tableID    uuid.UUID
	userID     uuid.UUID
	slot       Slot
	guestCount int
	status     Status
	history    []HistoryEntry
	details    Details
	createdAt  time.Time
	updatedAt  time.Time
}

// NewReservation creates a booking in confirmed status with its first
// history entry. Capacity is validated by the caller against the table,
// which this entity deliberately does not hold.
func NewReservation(
	tableID, userID uuid.UUID,
	slot Slot,
	guestCount int,
	details Details,
	actorRole user.Role,
	now time.Time,
) (*Reservation, error) {
	if guestCount < 1 {
		return nil, ErrInvalidGuestCount
	}

	return &Reservation{
		id:         uuid.New(),
		tableID:    tableID,
		userID:     userID,
		slot:       slot,
		guestCount: guestCount,
		status:     StatusConfirmed,
		history: []HistoryEntry{{
			Status:    StatusConfirmed,
			At:        now,
			ActorRole: actorRole,
			Note:      AutoConfirmNote,
		}},
		details: details,
	}, nil
}

func ReconstructReservation(
	id, tableID, userID uuid.UUID,
	slot Slot,
	guestCount int,
	status Status,
	history []HistoryEntry,
	details Details,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:         id,
		tableID:    tableID,
		userID:     userID,
		slot:       slot,
		guestCount: guestCount,
		status:     status,
		history:    history,
		details:    details,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

// ChangeStatus applies a lifecycle transition and appends exactly one history
// entry. History timestamps are monotonically non-decreasing.
func (r *Reservation) ChangeStatus(next Status, actorRole user.Role, note string, now time.Time) error {
	if r.status.IsTerminal() {
		return ErrReservationTerminal
	}
	if !r.status.CanTransitionTo(next) {
		return ErrInvalidStatusTransition
	}
	if n := len(r.history); n > 0 && now.Before(r.history[n-1].At) {
		return ErrHistoryTimestampReversed
	}

	r.status = next
	r.history = append(r.history, HistoryEntry{
		Status:    next,
		At:        now,
		ActorRole: actorRole,
		Note:      note,
	})
	return nil
}

func (r *Reservation) Cancel(actorRole user.Role, note string, now time.Time) error {
	return r.ChangeStatus(StatusCancelled, actorRole, note, now)
}

// Reschedule moves the booking to another slot. Conflict re-validation is
// the lifecycle manager's policy decision, not enforced here.
func (r *Reservation) Reschedule(slot Slot) {
	r.slot = slot
}

func (r *Reservation) UpdateGuestCount(guestCount int) error {
	if guestCount < 1 {
		return ErrInvalidGuestCount
	}
	r.guestCount = guestCount
	return nil
}

func (r *Reservation) UpdateDetails(details Details) {
	r.details = details
}

func (r *Reservation) IsOwnedBy(userID uuid.UUID) bool {
	return r.userID == userID
}

func (r *Reservation) IsActive() bool {
	return !r.status.IsTerminal()
}

// History returns a copy; the audit trail is never edited in place.
func (r *Reservation) History() []HistoryEntry {
	out := make([]HistoryEntry, len(r.history))
	copy(out, r.history)
	return out
}

func (r *Reservation) ID() uuid.UUID        { return r.id }
func (r *Reservation) TableID() uuid.UUID   { return r.tableID }
func (r *Reservation) UserID() uuid.UUID    { return r.userID }
func (r *Reservation) Slot() Slot           { return r.slot }
func (r *Reservation) GuestCount() int      { return r.guestCount }
func (r *Reservation) Status() Status       { return r.status }
func (r *Reservation) Details() Details     { return r.details }
func (r *Reservation) CreatedAt() time.Time { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time { return r.updatedAt }
