package admin

import "github.com/google/uuid"

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AdminResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
}

type LoginResponse struct {
	Token string        `json:"token"`
	Admin AdminResponse `json:"admin"`
}

func (a *Admin) ToResponse() AdminResponse {
	return AdminResponse{
		ID:       a.ID,
		Username: a.Username,
		Name:     a.Name,
	}
}
