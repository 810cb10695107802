package response

import (
	"github.com/google/uuid"

	"gearlend/internal/usecase/commands"
)

type RegisterResponse struct {
	UserID uuid.UUID `json:"user_id"`
}

type LoginResponse struct {
	Token    string    `json:"token"`
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
}

func FromLoginResult(r *commands.LoginResult) *LoginResponse {
	return &LoginResponse{
		Token:    r.Token,
		UserID:   r.UserID,
		Username: r.Username,
		Role:     r.Role.String(),
	}
}
