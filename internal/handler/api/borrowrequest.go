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

type BorrowRequestHandler struct {
	requestCommands    commands.RequestCommands
	reservationQueries queries.ReservationQueries
}

func NewBorrowRequestHandler(requestCommands commands.RequestCommands, reservationQueries queries.ReservationQueries) *BorrowRequestHandler {
	return &BorrowRequestHandler{
		requestCommands:    requestCommands,
		reservationQueries: reservationQueries,
	}
}

// @Summary Submit borrow request
// @Description Ask for one or more pools over a date range; each item awaits approval
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.SubmitRequestRequest true "Request payload"
// @Success 201 {object} resdto.SubmitRequestResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /requests [post]
func (h *BorrowRequestHandler) Submit(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.SubmitRequestRequest
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

	items := make([]commands.SubmitRequestItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, commands.SubmitRequestItem{
			PoolName: item.PoolName,
			Quantity: item.Quantity,
		})
	}

	requestID, err := h.requestCommands.Submit(c.Request.Context(), commands.SubmitRequestInput{
		BorrowerID: userID,
		StartDate:  start,
		EndDate:    end,
		Note:       req.Note,
		Items:      items,
	})
	if err != nil {
		var banned *commands.BannedError
		switch {
		case errors.As(err, &banned):
			c.JSON(http.StatusForbidden, gin.H{
				"error": banned.Error(),
			})
		case errors.Is(err, commands.ErrInvalidDateRange):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "End date must not be before start date",
			})
		case errors.Is(err, commands.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Every item quantity must be at least 1",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.SubmitRequestResponse{RequestID: requestID})
}

// @Summary Open requests
// @Description List requests with at least one pending item
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Success 200 {array} queries.RequestView
// @Router /requests/open [get]
func (h *BorrowRequestHandler) ListOpen(c *gin.Context) {
	views, err := h.reservationQueries.ListOpenRequests(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, views)
}

// @Summary My requests
// @Description List the current user's borrow requests
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Success 200 {array} queries.RequestView
// @Router /requests [get]
func (h *BorrowRequestHandler) MyRequests(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	views, err := h.reservationQueries.MyRequests(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, views)
}

// @Summary Get request
// @Description Fetch one borrow request with its items
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} queries.RequestView
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /requests/{id} [get]
func (h *BorrowRequestHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request ID format",
		})
		return
	}

	view, err := h.reservationQueries.GetRequest(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Request not found",
		})
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Approve item
// @Description Approve one item, spawning its reservations
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param pool path string true "Pool name"
// @Success 200 {object} resdto.ItemApprovalResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]any
// @Router /requests/{id}/items/{pool}/approve [post]
func (h *BorrowRequestHandler) ApproveItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request ID format",
		})
		return
	}

	result, err := h.requestCommands.ApproveItem(c.Request.Context(), id, c.Param("pool"))
	if err != nil {
		h.writeApprovalError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromItemApprovalResult(result))
}

func (h *BorrowRequestHandler) writeApprovalError(c *gin.Context, err error) {
	var insufficient *commands.InsufficientAvailabilityError

	switch {
	case errors.As(err, &insufficient):
		c.JSON(http.StatusConflict, gin.H{
			"error":     "Not enough units available",
			"pool":      insufficient.PoolName,
			"available": insufficient.Available,
			"requested": insufficient.Requested,
		})
	case errors.Is(err, commands.ErrRequestNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Request not found",
		})
	case errors.Is(err, commands.ErrRequestItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Request item not found",
		})
	case errors.Is(err, commands.ErrItemNotPending):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Item already resolved",
		})
	case errors.Is(err, commands.ErrReservationConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Approval conflicts with a concurrent claim, please retry",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

// @Summary Reject item
// @Description Reject one pending item with an optional reason
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param pool path string true "Pool name"
// @Param request body reqdto.RejectItemRequest false "Rejection reason"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /requests/{id}/items/{pool}/reject [post]
func (h *BorrowRequestHandler) RejectItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request ID format",
		})
		return
	}

	var req reqdto.RejectItemRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request format",
			})
			return
		}
	}

	if err := h.requestCommands.RejectItem(c.Request.Context(), id, c.Param("pool"), req.Reason); err != nil {
		h.writeApprovalError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Approve all items
// @Description Approve every pending item; failures are collected, not fatal
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} resdto.ApproveAllResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /requests/{id}/approve [post]
func (h *BorrowRequestHandler) ApproveAll(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request ID format",
		})
		return
	}

	result, err := h.requestCommands.ApproveAll(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrRequestNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Request not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromApproveAllResult(result))
}

// @Summary Delete request
// @Description Withdraw an own borrow request
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /requests/{id} [delete]
func (h *BorrowRequestHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request ID format",
		})
		return
	}

	if err := h.requestCommands.Delete(c.Request.Context(), id, userID); err != nil {
		switch {
		case errors.Is(err, commands.ErrRequestNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Request not found",
			})
		case errors.Is(err, commands.ErrNotRequestOwner):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Only the request owner may delete it",
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
