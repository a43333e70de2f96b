package api

import (
	"errors"
	"net/http"
	"strconv"

	"tablebook/internal/domain/table"
	reqdto "tablebook/internal/handler/dto/request"
	resdto "tablebook/internal/handler/dto/response"
	"tablebook/internal/handler/middleware"
	"tablebook/internal/usecase"
	"tablebook/internal/usecase/readmodel"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TableHandler struct {
	tableUseCase usecase.TableUseCase
}

func NewTableHandler(tableUseCase usecase.TableUseCase) *TableHandler {
	return &TableHandler{
		tableUseCase: tableUseCase,
	}
}

// @Summary Create table
// @Description Register a new table in the floor layout
// @Tags tables
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateTableRequest true "Table definition"
// @Success 201 {object} resdto.TableResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /tables [post]
func (h *TableHandler) Create(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.CreateTableRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	params, err := req.ToParams()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid section",
		})
		return
	}

	tableRM, err := h.tableUseCase.CreateTable(c.Request.Context(), params, principal)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Staff access required",
			})
		case errors.Is(err, usecase.ErrDuplicateTableNumber):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Table number already exists",
			})
		case errors.Is(err, table.ErrInvalidCapacity), errors.Is(err, table.ErrInvalidTableNumber):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid table definition",
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

	c.JSON(http.StatusCreated, resdto.FromTableRM(tableRM))
}

// @Summary Get table
// @Description Get a table by ID
// @Tags tables
// @Produce json
// @Security BearerAuth
// @Param id path string true "Table ID"
// @Success 200 {object} resdto.TableResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tables/{id} [get]
func (h *TableHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid table ID format",
		})
		return
	}

	tableRM, err := h.tableUseCase.GetTable(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrTableNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Table not found",
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

	c.JSON(http.StatusOK, resdto.FromTableRM(tableRM))
}

// @Summary List tables
// @Description List tables with optional capacity, section and active filters
// @Tags tables
// @Produce json
// @Security BearerAuth
// @Param minCapacity query int false "Minimum capacity"
// @Param section query string false "Section filter"
// @Param activeOnly query bool false "Only active tables"
// @Param available query bool false "Only bookable tables in available status"
// @Success 200 {array} resdto.TableResponse
// @Failure 400 {object} map[string]string
// @Router /tables [get]
func (h *TableHandler) List(c *gin.Context) {
	filter, err := parseTableFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	var tablesRM []*readmodel.TableRM
	if c.Query("available") == "true" {
		tablesRM, err = h.tableUseCase.FindAvailableTables(c.Request.Context(), filter)
	} else {
		tablesRM, err = h.tableUseCase.ListTables(c.Request.Context(), filter)
	}
	if err != nil {
		switch {
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

	response := make([]*resdto.TableResponse, len(tablesRM))
	for i, rm := range tablesRM {
		response[i] = resdto.FromTableRM(rm)
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Set table status
// @Description Move a table between available, occupied, reserved and maintenance
// @Tags tables
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Table ID"
// @Param request body reqdto.SetTableStatusRequest true "Status change"
// @Success 200 {object} resdto.TableResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tables/{id}/status [patch]
func (h *TableHandler) SetStatus(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid table ID format",
		})
		return
	}

	var req reqdto.SetTableStatusRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	params, err := req.ToParams(id)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid table status",
		})
		return
	}

	tableRM, err := h.tableUseCase.SetStatus(c.Request.Context(), params, principal)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Staff access required",
			})
		case errors.Is(err, usecase.ErrTableNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Table not found",
			})
		case errors.Is(err, usecase.ErrInvalidTableStatus):
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

	c.JSON(http.StatusOK, resdto.FromTableRM(tableRM))
}

// @Summary Delete table
// @Description Remove a table with no active bookings from the layout
// @Tags tables
// @Produce json
// @Security BearerAuth
// @Param id path string true "Table ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tables/{id} [delete]
func (h *TableHandler) Delete(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid table ID format",
		})
		return
	}

	if err := h.tableUseCase.DeleteTable(c.Request.Context(), id, principal); err != nil {
		switch {
		case errors.Is(err, usecase.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Admin access required",
			})
		case errors.Is(err, usecase.ErrTableNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Table not found",
			})
		case errors.Is(err, usecase.ErrTableHasActiveReservations):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Table has active bookings and cannot be deleted",
			})
		case errors.Is(err, usecase.ErrTableHasBookingHistory):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Table has booking history, deactivate it instead of deleting",
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
		"message": "Table deleted",
	})
}

func parseTableFilter(c *gin.Context) (readmodel.TableFilter, error) {
	filter := readmodel.TableFilter{
		Section:    c.Query("section"),
		ActiveOnly: c.Query("activeOnly") == "true",
	}

	if minStr := c.Query("minCapacity"); minStr != "" {
		min, err := strconv.Atoi(minStr)
		if err != nil || min < 0 {
			return readmodel.TableFilter{}, errors.New("invalid minCapacity filter")
		}
		filter.MinCapacity = min
	}

	return filter, nil
}
