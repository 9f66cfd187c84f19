package dto

import "github.com/google/uuid"

type CategoriaRequest struct {
	Nombre      string  `json:"nombre" binding:"required,min=2"`
	Descripcion *string `json:"descripcion"`
}

type CategoriaResponse struct {
	ID          uuid.UUID `json:"id"`
	Nombre      string    `json:"nombre"`
	Descripcion *string   `json:"descripcion,omitempty"`
	Activo      bool      `json:"activo"`
}
