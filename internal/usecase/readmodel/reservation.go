package readmodel

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side). Table and user details are denormalized
// here, at the boundary, never inside the store.

type HistoryEntryRM struct {
	Status    string    `json:"status"`
	At        time.Time `json:"at"`
	ActorRole string    `json:"actor_role"`
	Note      string    `json:"note,omitempty"`
}

type ReservationRM struct {
	ID              uuid.UUID        `json:"id"`
	TableID         uuid.UUID        `json:"table_id"`
	TableNumber     int              `json:"table_number"`
	TableSection    string           `json:"table_section"`
	UserID          uuid.UUID        `json:"user_id"`
	UserEmail       string           `json:"user_email"`
	Date            string           `json:"date"`
	Time            string           `json:"time"`
	GuestCount      int              `json:"guest_count"`
	Status          string           `json:"status"`
	History         []HistoryEntryRM `json:"history"`
	SpecialRequests string           `json:"special_requests,omitempty"`
	Occasion        string           `json:"occasion,omitempty"`
	DurationMinutes int              `json:"duration_minutes,omitempty"`
	ContactPhone    string           `json:"contact_phone,omitempty"`
	Channel         string           `json:"channel,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

type ReservationListRM struct {
	ID          uuid.UUID `json:"id"`
	TableID     uuid.UUID `json:"table_id"`
	TableNumber int       `json:"table_number"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	GuestCount  int       `json:"guest_count"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReservationFilter narrows the admin listing. Zero values mean "no filter".
type ReservationFilter struct {
	Status  string
	Date    string
	TableID *uuid.UUID
	UserID  *uuid.UUID
}
