package response

import (
	"time"

	"tablebook/internal/usecase/readmodel"

	"github.com/google/uuid"
)

type HistoryEntryResponse struct {
	Status    string    `json:"status"`
	At        time.Time `json:"at"`
	ActorRole string    `json:"actorRole"`
	Note      string    `json:"note,omitempty"`
}

type ReservationResponse struct {
	ID              uuid.UUID              `json:"id"`
	TableID         uuid.UUID              `json:"tableId"`
	TableNumber     int                    `json:"tableNumber"`
	TableSection    string                 `json:"tableSection"`
	UserID          uuid.UUID              `json:"userId"`
	UserEmail       string                 `json:"userEmail"`
	Date            string                 `json:"date"`
	Time            string                 `json:"time"`
	GuestCount      int                    `json:"guestCount"`
	Status          string                 `json:"status"`
	History         []HistoryEntryResponse `json:"history"`
	SpecialRequests string                 `json:"specialRequests,omitempty"`
	Occasion        string                 `json:"occasion,omitempty"`
	DurationMinutes int                    `json:"durationMinutes,omitempty"`
	ContactPhone    string                 `json:"contactPhone,omitempty"`
	Channel         string                 `json:"channel,omitempty"`
	Notes           string                 `json:"notes,omitempty"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}

type ReservationListResponse struct {
	ID          uuid.UUID `json:"id"`
	TableID     uuid.UUID `json:"tableId"`
	TableNumber int       `json:"tableNumber"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	GuestCount  int       `json:"guestCount"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

type CancelAllResponse struct {
	CancelledCount int    `json:"cancelledCount"`
	Date           string `json:"date"`
}

func FromReservationRM(rm *readmodel.ReservationRM) *ReservationResponse {
	history := make([]HistoryEntryResponse, len(rm.History))
	for i, entry := range rm.History {
		history[i] = HistoryEntryResponse{
			Status:    entry.Status,
			At:        entry.At,
			ActorRole: entry.ActorRole,
			Note:      entry.Note,
		}
	}

	return &ReservationResponse{
		ID:              rm.ID,
		TableID:         rm.TableID,
		TableNumber:     rm.TableNumber,
		TableSection:    rm.TableSection,
		UserID:          rm.UserID,
		UserEmail:       rm.UserEmail,
		Date:            rm.Date,
		Time:            rm.Time,
		GuestCount:      rm.GuestCount,
		Status:          rm.Status,
		History:         history,
		SpecialRequests: rm.SpecialRequests,
		Occasion:        rm.Occasion,
		DurationMinutes: rm.DurationMinutes,
		ContactPhone:    rm.ContactPhone,
		Channel:         rm.Channel,
		Notes:           rm.Notes,
		CreatedAt:       rm.CreatedAt,
		UpdatedAt:       rm.UpdatedAt,
	}
}

func FromReservationListRM(rm *readmodel.ReservationListRM) *ReservationListResponse {
	return &ReservationListResponse{
		ID:          rm.ID,
		TableID:     rm.TableID,
		TableNumber: rm.TableNumber,
		Date:        rm.Date,
		Time:        rm.Time,
		GuestCount:  rm.GuestCount,
		Status:      rm.Status,
		CreatedAt:   rm.CreatedAt,
	}
}
