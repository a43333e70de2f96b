package table

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidCapacity          = errors.New("capacity must be at least 1")
	ErrInvalidTableNumber       = errors.New("table number must be positive")
	ErrInvalidSection           = errors.New("invalid section")
	ErrInvalidStatus            = errors.New("invalid table status")
	ErrOccupancyExceedsCapacity = errors.New("occupancy exceeds table capacity")
	ErrInvalidOccupancy         = errors.New("occupancy must be at least 1")
	ErrReservedUntilNotFuture   = errors.New("reserved-until must be in the future")
	ErrTableInactive            = errors.New("table is inactive")
)

const MaxNotesLength = 500

// Table is a physical seating resource. The number is the staff-facing
// identifier and is unique across the inventory; id is the storage key.
type Table struct {
	id               uuid.UUID
	number           int
	capacity         int
	section          Section
	status           Status
	active           bool
	notes            string
	currentOccupancy int
	occupiedSince    *time.Time
	reservedUntil    *time.Time
	createdAt        time.Time
	updatedAt        time.Time
}

func NewTable(number, capacity int, section Section, notes string) (*Table, error) {
	if number <= 0 {
		return nil, ErrInvalidTableNumber
	}
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	if !section.IsValid() {
		return nil, ErrInvalidSection
	}

	notes = strings.TrimSpace(notes)
	if len(notes) > MaxNotesLength {
		notes = notes[:MaxNotesLength]
	}

	return &Table{
		id:       uuid.New(),
		number:   number,
		capacity: capacity,
		section:  section,
		status:   StatusAvailable,
		active:   true,
		notes:    notes,
	}, nil
}

func ReconstructTable(
	id uuid.UUID,
	number, capacity int,
	section Section,
	status Status,
	active bool,
	notes string,
	currentOccupancy int,
	occupiedSince, reservedUntil *time.Time,
	createdAt, updatedAt time.Time,
) *Table {
	return &Table{
		id:               id,
		number:           number,
		capacity:         capacity,
		section:          section,
		status:           status,
		active:           active,
		notes:            notes,
		currentOccupancy: currentOccupancy,
		occupiedSince:    occupiedSince,
		reservedUntil:    reservedUntil,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

// Occupy marks the table as seated by a walk-in or arrived party.
func (t *Table) Occupy(partySize int, now time.Time) error {
	if !t.active {
		return ErrTableInactive
	}
	if partySize < 1 {
		return ErrInvalidOccupancy
	}
	if partySize > t.capacity {
		return ErrOccupancyExceedsCapacity
	}

	t.status = StatusOccupied
	t.currentOccupancy = partySize
	t.occupiedSince = &now
	t.reservedUntil = nil
	return nil
}

// Reserve blocks the table until the given instant, which must be in the future.
func (t *Table) Reserve(until, now time.Time) error {
	if !t.active {
		return ErrTableInactive
	}
	if !until.After(now) {
		return ErrReservedUntilNotFuture
	}

	t.status = StatusReserved
	t.reservedUntil = &until
	return nil
}

// Release returns the table to the available pool, clearing occupancy state.
func (t *Table) Release() {
	t.status = StatusAvailable
	t.currentOccupancy = 0
	t.occupiedSince = nil
	t.reservedUntil = nil
}

func (t *Table) SetMaintenance() {
	t.status = StatusMaintenance
	t.currentOccupancy = 0
	t.occupiedSince = nil
	t.reservedUntil = nil
}

// Deactivate soft-deletes the table. The registry refuses hard deletion
// while non-terminal reservations reference it.
func (t *Table) Deactivate() {
	t.active = false
}

func (t *Table) Activate() {
	t.active = true
}

func (t *Table) UpdateNotes(notes string) {
	notes = strings.TrimSpace(notes)
	if len(notes) > MaxNotesLength {
		notes = notes[:MaxNotesLength]
	}
	t.notes = notes
}

// CanSeat reports whether a party of the given size fits this table.
func (t *Table) CanSeat(guestCount int) bool {
	return guestCount >= 1 && guestCount <= t.capacity
}

// IsBookable reports whether the registry lists this table for new walk-in
// seating: active and currently available.
func (t *Table) IsBookable() bool {
	return t.active && t.status == StatusAvailable
}

func (t *Table) ID() uuid.UUID             { return t.id }
func (t *Table) Number() int               { return t.number }
func (t *Table) Capacity() int             { return t.capacity }
func (t *Table) Section() Section          { return t.section }
func (t *Table) Status() Status            { return t.status }
func (t *Table) IsActive() bool            { return t.active }
func (t *Table) Notes() string             { return t.notes }
func (t *Table) CurrentOccupancy() int     { return t.currentOccupancy }
func (t *Table) OccupiedSince() *time.Time { return t.occupiedSince }
func (t *Table) ReservedUntil() *time.Time { return t.reservedUntil }
func (t *Table) CreatedAt() time.Time      { return t.createdAt }
func (t *Table) UpdatedAt() time.Time      { return t.updatedAt }
