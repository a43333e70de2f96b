package request

import (
	"strings"
	"time"

	"tablebook/internal/domain/table"
	"tablebook/internal/usecase"

	"github.com/google/uuid"
)

type CreateTableRequest struct {
	Number   int     `json:"number" binding:"required,min=1"`
	Capacity int     `json:"capacity" binding:"required,min=1"`
	Section  string  `json:"section" binding:"required"`
	Notes    *string `json:"notes,omitempty"`
}

func (r CreateTableRequest) ToParams() (usecase.CreateTableParams, error) {
	section, err := table.NewSection(r.Section)
	if err != nil {
		return usecase.CreateTableParams{}, err
	}

	notes := ""
	if r.Notes != nil {
		notes = strings.TrimSpace(*r.Notes)
	}

	return usecase.CreateTableParams{
		Number:   r.Number,
		Capacity: r.Capacity,
		Section:  section,
		Notes:    notes,
	}, nil
}

type SetTableStatusRequest struct {
	Status    string     `json:"status" binding:"required"`
	Occupancy int        `json:"occupancy" binding:"omitempty,min=1"`
	Until     *time.Time `json:"until,omitempty"`
	Active    *bool      `json:"active,omitempty"`
}

func (r SetTableStatusRequest) ToParams(tableID uuid.UUID) (usecase.SetTableStatusParams, error) {
	status, err := table.NewStatus(r.Status)
	if err != nil {
		return usecase.SetTableStatusParams{}, err
	}

	return usecase.SetTableStatusParams{
		TableID:   tableID,
		Status:    status,
		Occupancy: r.Occupancy,
		Until:     r.Until,
		Active:    r.Active,
	}, nil
}
