package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DomiciliarioRequest struct {
	Nombre   string          `json:"nombre" binding:"required,min=2"`
	Telefono string          `json:"telefono" binding:"required,min=7"`
	Tarifa   decimal.Decimal `json:"tarifa" binding:"required"`
}

type DomiciliarioResponse struct {
	ID       uuid.UUID       `json:"id"`
	Nombre   string          `json:"nombre"`
	Telefono string          `json:"telefono"`
	Tarifa   decimal.Decimal `json:"tarifa"`
	Activo   bool            `json:"activo"`
}
