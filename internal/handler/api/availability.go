package api

import (
	"errors"
	"net/http"

	reqdto "tablebook/internal/handler/dto/request"
	resdto "tablebook/internal/handler/dto/response"
	"tablebook/internal/usecase"

	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	availabilityUseCase usecase.AvailabilityUseCase
}

func NewAvailabilityHandler(availabilityUseCase usecase.AvailabilityUseCase) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityUseCase: availabilityUseCase,
	}
}

// @Summary Check availability
// @Description List tables free at the given date and time for the party size
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CheckAvailabilityRequest true "Availability query"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/check-availability [post]
func (h *AvailabilityHandler) Check(c *gin.Context) {
	var req reqdto.CheckAvailabilityRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	slot, err := req.ToSlot()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid date or time format",
		})
		return
	}

	availabilityRM, err := h.availabilityUseCase.Search(c.Request.Context(), slot, req.GuestCount)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrNoMatchingTables):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "No tables match the requested capacity",
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

	c.JSON(http.StatusOK, resdto.FromAvailabilityRM(availabilityRM))
}
