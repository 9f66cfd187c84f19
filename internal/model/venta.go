package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Venta is a sale header. Ventas are never deleted: cancellation flips
// Anulada and restores consumed stock, preserving the audit trail.
type Venta struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NumeroFactura string    `gorm:"uniqueIndex;not null"`
	Fecha         time.Time `gorm:"type:date;index;not null"`
	Hora          string    `gorm:"type:varchar(8);not null"` // HH:MM:SS
	ClienteNombre string    `gorm:"not null"`
	ClienteTel    *string
	// VendedorUsername references usuarios.username, not the uuid: sellers
	// are looked up by username at registration time.
	VendedorUsername string `gorm:"index;not null"`

	TieneDomicilio   bool `gorm:"not null;default:false"`
	DireccionEntrega *string
	Domiciliario     *string
	TarifaDomicilio  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`

	SubtotalProductos decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	MontoTotal        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	MontoPagado       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Vuelto            decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	MetodoPago        string          `gorm:"not null"`
	ReferenciaPago    *string

	Anulada        bool `gorm:"not null;default:false;index"`
	MotivoAnulacion *string
	AnuladaAt       *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Detalles []VentaDetalle `gorm:"foreignKey:VentaID"`
}

func (Venta) TableName() string { return "ventas" }

// VentaDetalle is one sold line. Product name/variant are a denormalized
// snapshot rather than a foreign key, so history survives renames and
// deletions; recipe resolution re-derives the product by name+variant
// when stock is mutated or restored.
type VentaDetalle struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID           uuid.UUID `gorm:"type:uuid;index;not null"`
	NombreProducto    string    `gorm:"index;not null"`
	VarianteProducto  *string
	Cantidad          int             `gorm:"not null"`
	PrecioUnitario    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal          decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt         time.Time
}

func (VentaDetalle) TableName() string { return "venta_detalles" }
