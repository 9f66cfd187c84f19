package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovimientoInsumo registers every change to an insumo's consumed amount.
// One row is written per recipe line on sale and on cancellation, so the
// full consumption history of each ingredient can be reconstructed.
type MovimientoInsumo struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InsumoID uuid.UUID `gorm:"type:uuid;not null;index"`
	Tipo     string    `gorm:"type:varchar(20);not null"` // "venta" | "anulacion" | "ajuste"
	// Cantidad is signed: positive = consumed, negative = restored.
	Cantidad           decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	UtilizadaAnterior  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	UtilizadaNueva     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Motivo             string
	VentaID            *uuid.UUID `gorm:"type:uuid"`
	CreatedAt          time.Time

	Insumo *Insumo `gorm:"foreignKey:InsumoID"`
}

func (MovimientoInsumo) TableName() string { return "movimientos_insumo" }
