package api

import (
	"errors"
	"net/http"

	reqdto "gearlend/internal/handler/dto/request"
	"gearlend/internal/usecase/commands"
	"gearlend/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserHandler struct {
	userCommands commands.UserCommands
	userQueries  queries.UserQueries
}

func NewUserHandler(userCommands commands.UserCommands, userQueries queries.UserQueries) *UserHandler {
	return &UserHandler{
		userCommands: userCommands,
		userQueries:  userQueries,
	}
}

// @Summary List users
// @Description List all accounts with strike and ban state
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} queries.UserView
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	views, err := h.userQueries.ListUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, views)
}

// @Summary Get user
// @Description One account with strike and ban state
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} queries.UserView
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid user ID format",
		})
		return
	}

	view, err := h.userQueries.GetUser(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "User not found",
		})
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Update role
// @Description Change an account's role
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body reqdto.UpdateRoleRequest true "New role"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /users/{id}/role [put]
func (h *UserHandler) UpdateRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid user ID format",
		})
		return
	}

	var req reqdto.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	if err := h.userCommands.UpdateRole(c.Request.Context(), id, req.Role); err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Unknown role",
			})
		case errors.Is(err, commands.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "User not found",
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
