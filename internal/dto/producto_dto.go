package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RecetaLineaRequest struct {
	InsumoID uuid.UUID       `json:"insumo_id" binding:"required"`
	Cantidad decimal.Decimal `json:"cantidad" binding:"required"`
}

type ProductoRequest struct {
	Nombre        string               `json:"nombre" binding:"required,min=2"`
	Variante      *string              `json:"variante"`
	Precio        decimal.Decimal      `json:"precio" binding:"required"`
	Descripcion   *string              `json:"descripcion"`
	CategoriaID   *uuid.UUID           `json:"categoria_id"`
	StockCantidad *int                 `json:"stock_cantidad"` // nil => 0; -1 => bajo demanda
	StockMinimo   int                  `json:"stock_minimo"`
	Receta        []RecetaLineaRequest `json:"receta" binding:"dive"`
}

type RecetaLineaResponse struct {
	InsumoID     uuid.UUID       `json:"insumo_id"`
	NombreInsumo string          `json:"nombre_insumo"`
	Unidad       string          `json:"unidad"`
	Cantidad     decimal.Decimal `json:"cantidad"`
}

type ProductoResponse struct {
	ID            uuid.UUID             `json:"id"`
	Nombre        string                `json:"nombre"`
	Variante      *string               `json:"variante,omitempty"`
	Precio        decimal.Decimal       `json:"precio"`
	Descripcion   *string               `json:"descripcion,omitempty"`
	CategoriaID   *uuid.UUID            `json:"categoria_id,omitempty"`
	Categoria     *string               `json:"categoria,omitempty"`
	Activo        bool                  `json:"activo"`
	StockCantidad int                   `json:"stock_cantidad"`
	StockMinimo   int                   `json:"stock_minimo"`
	Receta        []RecetaLineaResponse `json:"receta,omitempty"`
}
