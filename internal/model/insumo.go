package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Insumo is a raw material consumed to produce sellable products.
// CantidadUnitaria is the purchased/on-hand amount in Unidad;
// CantidadUtilizada accumulates everything consumed by sales.
// Disponible() must never go negative: the stock mutator enforces
// CantidadUtilizada <= CantidadUnitaria on every update.
type Insumo struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre string    `gorm:"uniqueIndex;not null"`
	Unidad string    `gorm:"type:varchar(50);not null"`
	// CantidadUnitaria is the total purchased amount of the presentation.
	CantidadUnitaria   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PrecioPresentacion decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	CantidadUtilizada  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	// CantidadPorProducto, when > 0, overrides the recipe-line quantity in
	// the derived-stock calculation.
	CantidadPorProducto decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	StockMinimo         decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	SitioReferencia     *string         `gorm:"type:varchar(255)"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (Insumo) TableName() string { return "insumos" }

// Disponible returns the amount still available for consumption.
func (i *Insumo) Disponible() decimal.Decimal {
	return i.CantidadUnitaria.Sub(i.CantidadUtilizada)
}

// CostoPorUnidad derives the unit cost from the presentation price.
func (i *Insumo) CostoPorUnidad() decimal.Decimal {
	if i.CantidadUnitaria.IsPositive() {
		return i.PrecioPresentacion.Div(i.CantidadUnitaria)
	}
	return decimal.Zero
}

// StockBajo reports whether the remaining stock is at or below the minimum.
func (i *Insumo) StockBajo() bool {
	return i.Disponible().LessThanOrEqual(i.StockMinimo)
}
