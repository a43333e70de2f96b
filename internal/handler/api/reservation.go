package api

import (
	"errors"
	"net/http"

	"tablebook/internal/domain/reservation"
	reqdto "tablebook/internal/handler/dto/request"
	resdto "tablebook/internal/handler/dto/response"
	"tablebook/internal/handler/middleware"
	"tablebook/internal/usecase"
	"tablebook/internal/usecase/readmodel"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReservationHandler struct {
	reservationUseCase usecase.ReservationUseCase
}

func NewReservationHandler(reservationUseCase usecase.ReservationUseCase) *ReservationHandler {
	return &ReservationHandler{
		reservationUseCase: reservationUseCase,
	}
}

// @Summary Reserve a table
// @Description Book a table for an exact date and time slot
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ReserveRequest true "Booking request"
// @Success 201 {object} resdto.ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/reserve [post]
func (h *ReservationHandler) Reserve(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.ReserveRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	params, err := req.ToParams()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid date or time format",
		})
		return
	}

	reservationRM, err := h.reservationUseCase.Create(c.Request.Context(), params, principal)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrTableNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Table not found",
			})
		case errors.Is(err, usecase.ErrSlotTaken):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Table is already reserved for this time slot",
			})
		case errors.Is(err, usecase.ErrCapacityExceeded):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Guest count exceeds table capacity",
			})
		case errors.Is(err, usecase.ErrInvalidGuestCount):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid guest count",
			})
		case errors.Is(err, usecase.ErrStorageTimeout):
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Storage timeout, please try again",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromReservationRM(reservationRM))
}

// @Summary Edit a booking
// @Description Patch the slot, guest count, status or details of a booking
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.EditRequest true "Edit request"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/edit [put]
func (h *ReservationHandler) Edit(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.EditRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	params, err := req.ToParams()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid field value",
		})
		return
	}

	reservationRM, err := h.reservationUseCase.Edit(c.Request.Context(), params, principal)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Booking not found",
			})
		case errors.Is(err, usecase.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Not allowed to modify this booking",
			})
		case errors.Is(err, usecase.ErrTableNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Table not found",
			})
		case errors.Is(err, usecase.ErrSlotTaken):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Table is already reserved for this time slot",
			})
		case errors.Is(err, usecase.ErrCapacityExceeded):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Guest count exceeds table capacity",
			})
		case errors.Is(err, usecase.ErrInvalidGuestCount):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid guest count",
			})
		case errors.Is(err, usecase.ErrInvalidStatusChange):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid status change",
			})
		case errors.Is(err, usecase.ErrStorageTimeout):
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Storage timeout, please try again",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationRM(reservationRM))
}

// @Summary Cancel a booking
// @Description Cancel a single booking by ID
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param bookingId path string true "Booking ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/{bookingId} [delete]
func (h *ReservationHandler) Cancel(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return
	}

	if err := h.reservationUseCase.Cancel(c.Request.Context(), id, principal); err != nil {
		switch {
		case errors.Is(err, usecase.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Booking not found",
			})
		case errors.Is(err, usecase.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Not allowed to cancel this booking",
			})
		case errors.Is(err, usecase.ErrInvalidStatusChange):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Booking is already finalized",
			})
		case errors.Is(err, usecase.ErrStorageTimeout):
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Storage timeout, please try again",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking cancelled",
	})
}

// @Summary Cancel all bookings for a date
// @Description Cancel every pending or confirmed booking on the given date
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} resdto.CancelAllResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/cancel-all [delete]
func (h *ReservationHandler) CancelAll(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	date, err := reservation.ParseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid date format, expected YYYY-MM-DD",
		})
		return
	}

	count, err := h.reservationUseCase.CancelAllForDate(c.Request.Context(), date, principal)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Admin access required",
			})
		case errors.Is(err, usecase.ErrNoActiveBookingsForDate):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "No active bookings for this date",
			})
		case errors.Is(err, usecase.ErrStorageTimeout):
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Storage timeout, please try again",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.CancelAllResponse{
		CancelledCount: count,
		Date:           date.String(),
	})
}

// @Summary Get a booking
// @Description Get a booking by ID with its status history
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param bookingId path string true "Booking ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/{bookingId} [get]
func (h *ReservationHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return
	}

	reservationRM, err := h.reservationUseCase.Get(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Booking not found",
			})
		case errors.Is(err, usecase.ErrStorageTimeout):
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Storage timeout, please try again",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationRM(reservationRM))
}

// @Summary List my bookings
// @Description List the caller's bookings ordered by date and time
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.ReservationListResponse
// @Failure 401 {object} map[string]string
// @Router /bookings/my-bookings [get]
func (h *ReservationHandler) MyBookings(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	reservationsRM, err := h.reservationUseCase.GetUserReservations(c.Request.Context(), principal.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.ReservationListResponse, len(reservationsRM))
	for i, rm := range reservationsRM {
		response[i] = resdto.FromReservationListRM(rm)
	}

	c.JSON(http.StatusOK, response)
}

// @Summary List all bookings
// @Description Staff listing of every booking with optional filters
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param date query string false "Filter by date (YYYY-MM-DD)"
// @Param tableId query string false "Filter by table ID"
// @Param userId query string false "Filter by user ID"
// @Success 200 {array} resdto.ReservationResponse
// @Failure 403 {object} map[string]string
// @Router /bookings/all [get]
func (h *ReservationHandler) ListAll(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	filter, err := parseReservationFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	reservationsRM, err := h.reservationUseCase.ListAll(c.Request.Context(), filter, principal)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Staff access required",
			})
		case errors.Is(err, usecase.ErrStorageTimeout):
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Storage timeout, please try again",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	response := make([]*resdto.ReservationResponse, len(reservationsRM))
	for i, rm := range reservationsRM {
		response[i] = resdto.FromReservationRM(rm)
	}

	c.JSON(http.StatusOK, response)
}

func parseReservationFilter(c *gin.Context) (readmodel.ReservationFilter, error) {
	filter := readmodel.ReservationFilter{
		Status: c.Query("status"),
	}

	if dateStr := c.Query("date"); dateStr != "" {
		if _, err := reservation.ParseDate(dateStr); err != nil {
			return readmodel.ReservationFilter{}, errors.New("invalid date filter, expected YYYY-MM-DD")
		}
		filter.Date = dateStr
	}

	if tableIDStr := c.Query("tableId"); tableIDStr != "" {
		tableID, err := uuid.Parse(tableIDStr)
		if err != nil {
			return readmodel.ReservationFilter{}, errors.New("invalid table ID filter")
		}
		filter.TableID = &tableID
	}

	if userIDStr := c.Query("userId"); userIDStr != "" {
		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			return readmodel.ReservationFilter{}, errors.New("invalid user ID filter")
		}
		filter.UserID = &userID
	}

	return filter, nil
}
