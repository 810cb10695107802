package api

import (
	"errors"
	"net/http"

	reqdto "gearlend/internal/handler/dto/request"
	resdto "gearlend/internal/handler/dto/response"
	"gearlend/internal/handler/middleware"
	"gearlend/internal/usecase/commands"
	"gearlend/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReservationHandler struct {
	borrowCommands     commands.BorrowCommands
	reservationQueries queries.ReservationQueries
}

func NewReservationHandler(borrowCommands commands.BorrowCommands, reservationQueries queries.ReservationQueries) *ReservationHandler {
	return &ReservationHandler{
		borrowCommands:     borrowCommands,
		reservationQueries: reservationQueries,
	}
}

// @Summary Reserve units
// @Description Claim units of a pool for an inclusive date range
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ReserveRequest true "Reservation request"
// @Success 201 {object} resdto.ReserveResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]any
// @Router /reservations [post]
func (h *ReservationHandler) Reserve(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	start, end, err := req.ParseDates()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	result, err := h.borrowCommands.Reserve(c.Request.Context(), req.PoolName, req.Quantity, start, end, userID)
	if err != nil {
		h.writeReserveError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromReserveResult(result))
}

func (h *ReservationHandler) writeReserveError(c *gin.Context, err error) {
	var insufficient *commands.InsufficientAvailabilityError
	var banned *commands.BannedError

	switch {
	case errors.As(err, &insufficient):
		c.JSON(http.StatusConflict, gin.H{
			"error":     "Not enough units available",
			"pool":      insufficient.PoolName,
			"available": insufficient.Available,
			"requested": insufficient.Requested,
		})
	case errors.As(err, &banned):
		c.JSON(http.StatusForbidden, gin.H{
			"error": banned.Error(),
		})
	case errors.Is(err, commands.ErrPoolNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Pool not found",
		})
	case errors.Is(err, commands.ErrReservationConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Reservation conflicts with a concurrent claim, please retry",
		})
	case errors.Is(err, commands.ErrInvalidDateRange):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "End date must not be before start date",
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
}

// @Summary Return reservation
// @Description Close an active reservation and free its unit
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReturnResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /reservations/{id}/return [post]
func (h *ReservationHandler) Return(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid reservation ID format",
		})
		return
	}

	result, err := h.borrowCommands.Return(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Reservation not found",
			})
		case errors.Is(err, commands.ErrAlreadyReturned):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Reservation already returned",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromReturnResult(result))
}

// @Summary My borrowings
// @Description Active reservations of the current user with due badges
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Success 200 {array} queries.BorrowingView
// @Failure 401 {object} map[string]string
// @Router /reservations [get]
func (h *ReservationHandler) MyBorrowings(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	views, err := h.reservationQueries.MyBorrowings(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, views)
}

// @Summary Borrowing history
// @Description Full borrowing history with filters; status accepts active, returned and overdue
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param pool query string false "Pool name"
// @Param borrower_id query string false "Borrower ID"
// @Param status query string false "active | returned | overdue"
// @Param from query string false "Window start YYYY-MM-DD"
// @Param to query string false "Window end YYYY-MM-DD"
// @Success 200 {array} queries.BorrowingView
// @Failure 400 {object} map[string]string
// @Router /reservations/history [get]
func (h *ReservationHandler) History(c *gin.Context) {
	filter := queries.HistoryFilter{
		PoolName: c.Query("pool"),
		Status:   c.Query("status"),
	}

	if s := c.Query("borrower_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid borrower ID format",
			})
			return
		}
		filter.BorrowerID = &id
	}
	if s := c.Query("from"); s != "" {
		t, err := reqdto.ParseDate(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		filter.From = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := reqdto.ParseDate(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		filter.To = &t
	}

	views, err := h.reservationQueries.History(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, views)
}
