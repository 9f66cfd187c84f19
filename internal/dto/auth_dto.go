package dto

import "github.com/google/uuid"

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token        string          `json:"token"`
	RefreshToken string          `json:"refresh_token"`
	Usuario      UsuarioResponse `json:"usuario"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type UsuarioRequest struct {
	Username string  `json:"username" binding:"required,min=3"`
	Nombre   string  `json:"nombre" binding:"required"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password string  `json:"password" binding:"required,min=8"`
	Rol      string  `json:"rol" binding:"required,oneof=vendedor administrador"`
}

type UsuarioResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Nombre   string    `json:"nombre"`
	Email    *string   `json:"email,omitempty"`
	Rol      string    `json:"rol"`
	Activo   bool      `json:"activo"`
}
