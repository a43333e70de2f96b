package request

import (
	"errors"
	"strings"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/usecase"

	"github.com/google/uuid"
)

var ErrInvalidStatusValue = errors.New("invalid status value")

type ReserveRequest struct {
	TableID         uuid.UUID `json:"tableId" binding:"required"`
	Date            string    `json:"date" binding:"required"`
	Time            string    `json:"time" binding:"required"`
	GuestCount      int       `json:"guestCount" binding:"required,min=1"`
	SpecialRequests *string   `json:"specialRequests,omitempty"`
	Occasion        *string   `json:"occasion,omitempty"`
	DurationMinutes *int      `json:"durationMinutes,omitempty"`
	ContactPhone    *string   `json:"contactPhone,omitempty"`
	Channel         *string   `json:"channel,omitempty"`
	Notes           *string   `json:"notes,omitempty"`
}

func (r ReserveRequest) ToParams() (usecase.CreateReservationParams, error) {
	slot, err := reservation.ParseSlot(r.Date, r.Time)
	if err != nil {
		return usecase.CreateReservationParams{}, err
	}

	details := reservation.Details{
		SpecialRequests: trimmed(r.SpecialRequests),
		Occasion:        trimmed(r.Occasion),
		ContactPhone:    trimmed(r.ContactPhone),
		Channel:         trimmed(r.Channel),
		Notes:           trimmed(r.Notes),
	}
	if r.DurationMinutes != nil {
		details.DurationMinutes = *r.DurationMinutes
	}

	return usecase.CreateReservationParams{
		TableID:    r.TableID,
		Slot:       slot,
		GuestCount: r.GuestCount,
		Details:    details,
	}, nil
}

type EditRequest struct {
	BookingID       uuid.UUID `json:"bookingId" binding:"required"`
	Date            *string   `json:"date,omitempty"`
	Time            *string   `json:"time,omitempty"`
	GuestCount      *int      `json:"guestCount,omitempty"`
	Status          *string   `json:"status,omitempty"`
	SpecialRequests *string   `json:"specialRequests,omitempty"`
	Occasion        *string   `json:"occasion,omitempty"`
}

func (r EditRequest) ToParams() (usecase.EditReservationParams, error) {
	params := usecase.EditReservationParams{
		ReservationID:   r.BookingID,
		GuestCount:      r.GuestCount,
		SpecialRequests: r.SpecialRequests,
		Occasion:        r.Occasion,
	}

	if r.Date != nil {
		date, err := reservation.ParseDate(*r.Date)
		if err != nil {
			return usecase.EditReservationParams{}, err
		}
		params.Date = &date
	}

	if r.Time != nil {
		timeOfDay, err := reservation.ParseTimeOfDay(*r.Time)
		if err != nil {
			return usecase.EditReservationParams{}, err
		}
		params.TimeOfDay = &timeOfDay
	}

	if r.Status != nil {
		status := reservation.Status(*r.Status)
		if !status.IsValid() {
			return usecase.EditReservationParams{}, ErrInvalidStatusValue
		}
		params.Status = &status
	}

	return params, nil
}

type CheckAvailabilityRequest struct {
	Date       string `json:"date" binding:"required"`
	Time       string `json:"time" binding:"required"`
	GuestCount int    `json:"guestCount" binding:"omitempty,min=1"`
}

func (r CheckAvailabilityRequest) ToSlot() (reservation.Slot, error) {
	return reservation.ParseSlot(r.Date, r.Time)
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
