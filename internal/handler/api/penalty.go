package api

import (
	"errors"
	"net/http"

	reqdto "gearlend/internal/handler/dto/request"
	resdto "gearlend/internal/handler/dto/response"
	"gearlend/internal/domain/penalty"
	"gearlend/internal/usecase/commands"
	"gearlend/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PenaltyHandler struct {
	penaltyCommands commands.PenaltyCommands
	penaltyQueries  queries.PenaltyQueries
}

func NewPenaltyHandler(penaltyCommands commands.PenaltyCommands, penaltyQueries queries.PenaltyQueries) *PenaltyHandler {
	return &PenaltyHandler{
		penaltyCommands: penaltyCommands,
		penaltyQueries:  penaltyQueries,
	}
}

// @Summary Record penalty
// @Description Record an incident, add strikes and apply the resulting ban tier
// @Tags penalties
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.RecordPenaltyRequest true "Incident"
// @Success 201 {object} resdto.RecordPenaltyResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /penalties [post]
func (h *PenaltyHandler) Record(c *gin.Context) {
	var req reqdto.RecordPenaltyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.penaltyCommands.RecordPenalty(c.Request.Context(), commands.RecordPenaltyInput{
		BorrowerID:         req.BorrowerID,
		ReservationID:      req.ReservationID,
		UnitID:             req.UnitID,
		Type:               penalty.Type(req.PenaltyType),
		DaysLate:           req.DaysLate,
		Description:        req.Description,
		CompensationAmount: req.CompensationAmount,
	})
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Borrower not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromRecordPenaltyResult(result))
}

// @Summary Borrow eligibility
// @Description Check whether a borrower may currently borrow; expired bans are lifted here
// @Tags penalties
// @Produce json
// @Security BearerAuth
// @Param id path string true "Borrower ID"
// @Success 200 {object} resdto.CanBorrowResponse
// @Failure 400 {object} map[string]string
// @Router /penalties/can-borrow/{id} [get]
func (h *PenaltyHandler) CanBorrow(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid borrower ID format",
		})
		return
	}

	result, err := h.penaltyCommands.CheckCanBorrow(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromCanBorrowResult(result))
}

// @Summary List penalties
// @Description All penalty records, newest first
// @Tags penalties
// @Produce json
// @Security BearerAuth
// @Success 200 {array} queries.PenaltyView
// @Router /penalties [get]
func (h *PenaltyHandler) List(c *gin.Context) {
	views, err := h.penaltyQueries.ListPenalties(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, views)
}

// @Summary Borrower penalties
// @Description Penalty records for one borrower
// @Tags penalties
// @Produce json
// @Security BearerAuth
// @Param id path string true "Borrower ID"
// @Success 200 {array} queries.PenaltyView
// @Failure 400 {object} map[string]string
// @Router /penalties/borrower/{id} [get]
func (h *PenaltyHandler) ListByBorrower(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid borrower ID format",
		})
		return
	}

	views, err := h.penaltyQueries.PenaltiesByBorrower(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, views)
}
