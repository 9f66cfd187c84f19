package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecetaProducto links one Producto to one Insumo: Cantidad is the amount
// of the insumo consumed per unit of product sold. A product with zero
// recipe lines cannot be sold (data-setup gap), unlike an on-demand
// product which simply skips the finished-goods counter.
type RecetaProducto struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_producto_insumo;not null"`
	InsumoID   uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_producto_insumo;not null"`
	Cantidad   decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Insumo *Insumo `gorm:"foreignKey:InsumoID"`
}

func (RecetaProducto) TableName() string { return "recetas_producto" }
