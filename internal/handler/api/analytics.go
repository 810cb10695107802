package api

import (
	"net/http"

	"gearlend/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsQueries queries.AnalyticsQueries
}

func NewAnalyticsHandler(analyticsQueries queries.AnalyticsQueries) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsQueries: analyticsQueries,
	}
}

// @Summary Usage overview
// @Description Fleet counts, overdue totals, borrow rates and top usage
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} queries.AnalyticsOverview
// @Router /analytics/overview [get]
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	overview, err := h.analyticsQueries.Overview(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, overview)
}
