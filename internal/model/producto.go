package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockBajoDemanda is the sentinel for products made on demand: their
// finished-goods counter is never decremented or incremented by sales.
const StockBajoDemanda = -1

// Producto is a sellable item. Its real availability is usually derived
// from insumo stock through its recipe; StockCantidad is an explicit
// finished-goods counter kept in sync by the stock mutator.
type Producto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string    `gorm:"index;not null"`
	Variante    *string
	Precio      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Descripcion *string
	CategoriaID *uuid.UUID `gorm:"type:uuid;index"`
	UsuarioID   *uuid.UUID `gorm:"type:uuid"`
	Activo      bool       `gorm:"not null;default:true"`
	// StockCantidad == StockBajoDemanda means "made on demand".
	StockCantidad int `gorm:"not null;default:0"`
	StockMinimo   int `gorm:"not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`

	Categoria *Categoria       `gorm:"foreignKey:CategoriaID"`
	Receta    []RecetaProducto `gorm:"foreignKey:ProductoID"`
}

func (Producto) TableName() string { return "productos" }

// BajoDemanda reports whether the product is exempt from the discrete
// finished-goods counter.
func (p *Producto) BajoDemanda() bool {
	return p.StockCantidad == StockBajoDemanda
}
