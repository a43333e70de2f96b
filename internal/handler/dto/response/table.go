package response

import (
	"time"

	"tablebook/internal/usecase/readmodel"

	"github.com/google/uuid"
)

type TableResponse struct {
	ID               uuid.UUID  `json:"id"`
	Number           int        `json:"number"`
	Capacity         int        `json:"capacity"`
	Section          string     `json:"section"`
	Status           string     `json:"status"`
	Active           bool       `json:"active"`
	Notes            string     `json:"notes,omitempty"`
	CurrentOccupancy int        `json:"currentOccupancy"`
	OccupiedSince    *time.Time `json:"occupiedSince,omitempty"`
	ReservedUntil    *time.Time `json:"reservedUntil,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

type AvailabilityResponse struct {
	Available       bool             `json:"available"`
	AvailableTables []*TableResponse `json:"availableTables"`
}

func FromTableRM(rm *readmodel.TableRM) *TableResponse {
	return &TableResponse{
		ID:               rm.ID,
		Number:           rm.Number,
		Capacity:         rm.Capacity,
		Section:          rm.Section,
		Status:           rm.Status,
		Active:           rm.Active,
		Notes:            rm.Notes,
		CurrentOccupancy: rm.CurrentOccupancy,
		OccupiedSince:    rm.OccupiedSince,
		ReservedUntil:    rm.ReservedUntil,
		CreatedAt:        rm.CreatedAt,
		UpdatedAt:        rm.UpdatedAt,
	}
}

func FromAvailabilityRM(rm *readmodel.AvailabilityRM) *AvailabilityResponse {
	tables := make([]*TableResponse, len(rm.Tables))
	for i, t := range rm.Tables {
		tables[i] = FromTableRM(t)
	}

	return &AvailabilityResponse{
		Available:       rm.Available,
		AvailableTables: tables,
	}
}
