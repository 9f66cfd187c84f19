package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InsumoRequest struct {
	Nombre              string          `json:"nombre" binding:"required,min=2"`
	Unidad              string          `json:"unidad" binding:"required"`
	CantidadUnitaria    decimal.Decimal `json:"cantidad_unitaria" binding:"required"`
	PrecioPresentacion  decimal.Decimal `json:"precio_presentacion"`
	CantidadUtilizada   decimal.Decimal `json:"cantidad_utilizada"`
	CantidadPorProducto decimal.Decimal `json:"cantidad_por_producto"`
	StockMinimo         decimal.Decimal `json:"stock_minimo"`
	SitioReferencia     *string         `json:"sitio_referencia"`
}

type InsumoResponse struct {
	ID                  uuid.UUID       `json:"id"`
	Nombre              string          `json:"nombre"`
	Unidad              string          `json:"unidad"`
	CantidadUnitaria    decimal.Decimal `json:"cantidad_unitaria"`
	PrecioPresentacion  decimal.Decimal `json:"precio_presentacion"`
	CantidadUtilizada   decimal.Decimal `json:"cantidad_utilizada"`
	CantidadPorProducto decimal.Decimal `json:"cantidad_por_producto"`
	Disponible          decimal.Decimal `json:"disponible"`
	CostoPorUnidad      decimal.Decimal `json:"costo_por_unidad"`
	StockMinimo         decimal.Decimal `json:"stock_minimo"`
	StockBajo           bool            `json:"stock_bajo"`
	SitioReferencia     *string         `json:"sitio_referencia,omitempty"`
}

// AjusteInsumoRequest applies a manual correction to an insumo's counters.
type AjusteInsumoRequest struct {
	CantidadUnitaria  *decimal.Decimal `json:"cantidad_unitaria"`
	CantidadUtilizada *decimal.Decimal `json:"cantidad_utilizada"`
	Motivo            string           `json:"motivo" binding:"required,min=5"`
}
