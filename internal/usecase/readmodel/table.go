package readmodel

import (
	"time"

	"tablebook/internal/domain/table"

	"github.com/google/uuid"
)

type TableRM struct {
	ID               uuid.UUID  `json:"id"`
	Number           int        `json:"number"`
	Capacity         int        `json:"capacity"`
	Section          string     `json:"section"`
	Status           string     `json:"status"`
	Active           bool       `json:"active"`
	Notes            string     `json:"notes,omitempty"`
	CurrentOccupancy int        `json:"current_occupancy"`
	OccupiedSince    *time.Time `json:"occupied_since,omitempty"`
	ReservedUntil    *time.Time `json:"reserved_until,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// NewTableRM projects a table entity into its boundary view.
func NewTableRM(t *table.Table) *TableRM {
	return &TableRM{
		ID:               t.ID(),
		Number:           t.Number(),
		Capacity:         t.Capacity(),
		Section:          t.Section().String(),
		Status:           t.Status().String(),
		Active:           t.IsActive(),
		Notes:            t.Notes(),
		CurrentOccupancy: t.CurrentOccupancy(),
		OccupiedSince:    t.OccupiedSince(),
		ReservedUntil:    t.ReservedUntil(),
		CreatedAt:        t.CreatedAt(),
		UpdatedAt:        t.UpdatedAt(),
	}
}

// TableFilter narrows table listings. MinCapacity of 0 means "any size".
type TableFilter struct {
	MinCapacity int
	Section     string
	ActiveOnly  bool
}

type AvailabilityRM struct {
	Available bool       `json:"available"`
	Tables    []*TableRM `json:"tables"`
}
