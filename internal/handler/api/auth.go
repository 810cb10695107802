package api

import (
	"errors"
	"net/http"

	reqdto "gearlend/internal/handler/dto/request"
	resdto "gearlend/internal/handler/dto/response"
	"gearlend/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	userCommands commands.UserCommands
}

func NewAuthHandler(userCommands commands.UserCommands) *AuthHandler {
	return &AuthHandler{
		userCommands: userCommands,
	}
}

// @Summary Register account
// @Description Create a borrower account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.RegisterRequest true "Registration payload"
// @Success 201 {object} resdto.RegisterResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req reqdto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	userID, err := h.userCommands.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrUsernameTaken):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Username already taken",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.RegisterResponse{UserID: userID})
}

// @Summary Login
// @Description Exchange credentials for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.LoginRequest true "Login payload"
// @Success 200 {object} resdto.LoginResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req reqdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.userCommands.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid username or password",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromLoginResult(result))
}
