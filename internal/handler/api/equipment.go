package api

import (
	"errors"
	"net/http"
	"time"

	reqdto "gearlend/internal/handler/dto/request"
	resdto "gearlend/internal/handler/dto/response"
	"gearlend/internal/pkg/clock"
	"gearlend/internal/usecase/commands"
	"gearlend/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type EquipmentHandler struct {
	inventoryCommands commands.InventoryCommands
	inventoryQueries  queries.InventoryQueries
	clock             clock.Clock
}

func NewEquipmentHandler(inventoryCommands commands.InventoryCommands, inventoryQueries queries.InventoryQueries, clk clock.Clock) *EquipmentHandler {
	return &EquipmentHandler{
		inventoryCommands: inventoryCommands,
		inventoryQueries:  inventoryQueries,
		clock:             clk,
	}
}

// @Summary List pools
// @Description List equipment pools with availability for a date range (defaults to today)
// @Tags equipment
// @Produce json
// @Param start query string false "Start date YYYY-MM-DD"
// @Param end query string false "End date YYYY-MM-DD"
// @Success 200 {array} queries.PoolView
// @Failure 400 {object} map[string]string
// @Router /equipment [get]
func (h *EquipmentHandler) ListPools(c *gin.Context) {
	start, end, err := h.rangeFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	pools, err := h.inventoryQueries.ListPools(c.Request.Context(), start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, pools)
}

// @Summary Pool availability
// @Description Availability of one pool for a date range
// @Tags equipment
// @Produce json
// @Param name path string true "Pool name"
// @Param start query string false "Start date YYYY-MM-DD"
// @Param end query string false "End date YYYY-MM-DD"
// @Success 200 {object} queries.AvailabilityView
// @Failure 400 {object} map[string]string
// @Router /equipment/{name}/availability [get]
func (h *EquipmentHandler) Availability(c *gin.Context) {
	start, end, err := h.rangeFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	view, err := h.inventoryQueries.Availability(c.Request.Context(), c.Param("name"), start, end)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrInvalidRange):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "End date must not be before start date",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary Create pool
// @Description Create an equipment pool of identical units
// @Tags equipment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreatePoolRequest true "Pool definition"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /equipment [post]
func (h *EquipmentHandler) CreatePool(c *gin.Context) {
	var req reqdto.CreatePoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	err := h.inventoryCommands.CreatePool(c.Request.Context(), commands.CreatePoolInput{
		Name:     req.Name,
		Category: req.Category,
		ImageRef: req.ImageRef,
		Quantity: req.Quantity,
	})
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrPoolAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Pool already exists",
			})
		case errors.Is(err, commands.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Quantity must be at least 1",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"name": req.Name})
}

// @Summary Resize pool
// @Description Grow or shrink a pool; reserved units block shrinking
// @Tags equipment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param name path string true "Pool name"
// @Param request body reqdto.ResizePoolRequest true "Target size"
// @Success 200 {object} resdto.ResizePoolResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /equipment/{name}/resize [put]
func (h *EquipmentHandler) ResizePool(c *gin.Context) {
	var req reqdto.ResizePoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.inventoryCommands.ResizePool(c.Request.Context(), c.Param("name"), req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrPoolNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Pool not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromResizePoolResult(result))
}

// @Summary Update pool
// @Description Rename a pool or change its category and image
// @Tags equipment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param name path string true "Pool name"
// @Param request body reqdto.UpdatePoolRequest true "New pool info"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /equipment/{name} [put]
func (h *EquipmentHandler) UpdatePool(c *gin.Context) {
	var req reqdto.UpdatePoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	err := h.inventoryCommands.UpdatePool(c.Request.Context(), c.Param("name"), req.Name, req.Category, req.ImageRef)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrPoolNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Pool not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Delete pool
// @Description Delete all units of a pool; refused while any unit is reserved
// @Tags equipment
// @Produce json
// @Security BearerAuth
// @Param name path string true "Pool name"
// @Success 204
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /equipment/{name} [delete]
func (h *EquipmentHandler) DeletePool(c *gin.Context) {
	err := h.inventoryCommands.DeletePool(c.Request.Context(), c.Param("name"))
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrPoolNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Pool not found",
			})
		case errors.Is(err, commands.ErrUnitsStillReserved):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Pool has reserved units",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// rangeFromQuery defaults both bounds to today so a bare listing shows
// current availability.
func (h *EquipmentHandler) rangeFromQuery(c *gin.Context) (time.Time, time.Time, error) {
	today := clock.Today(h.clock)
	start, end := today, today

	var err error
	if s := c.Query("start"); s != "" {
		if start, err = reqdto.ParseDate(s); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if s := c.Query("end"); s != "" {
		if end, err = reqdto.ParseDate(s); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return start, end, nil
}
