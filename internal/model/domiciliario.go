package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Domiciliario is a delivery rider. Tarifa is the rider's flat delivery fee.
type Domiciliario struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre   string    `gorm:"type:varchar(100);not null"`
	Telefono string    `gorm:"type:varchar(20);uniqueIndex;not null"`
	Tarifa   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Activo   bool            `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Domiciliario) TableName() string { return "domiciliarios" }
