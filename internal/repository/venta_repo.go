package repository

import (
	"context"
	"time"

	"github.com/chocoartesanto/backend-inventory/internal/dto"
	"github.com/chocoartesanto/backend-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MetodoPagoTotal is one row of the payment-method breakdown aggregation.
type MetodoPagoTotal struct {
	MetodoPago string
	Total      string
}

// VentaTotales aggregates sales for a period; Total arrives as string so
// the service can parse it into a decimal without float round-trips.
type VentaTotales struct {
	Cantidad   int64
	Domicilios int64
	Total      string
}

// ProductoVendido is one row of the top-sellers aggregation, grouped by
// the denormalized name/variant snapshot on the sale lines.
type ProductoVendido struct {
	NombreProducto   string
	VarianteProducto *string
	Unidades         int64
	Total            string
}

type VentaRepository interface {
	CreateTx(tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	FindByNumeroFactura(ctx context.Context, numero string) (*model.Venta, error)
	List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error)
	ListRango(ctx context.Context, desde, hasta time.Time) ([]model.Venta, error)
	// MarcarAnuladaTx flips the cancelled flag only when it is still false;
	// it reports whether a row was updated so the caller can detect a
	// concurrent double cancel.
	MarcarAnuladaTx(tx *gorm.DB, id uuid.UUID, motivo string, cuando time.Time) (bool, error)
	Totales(ctx context.Context, desde, hasta time.Time) (*VentaTotales, error)
	TotalesPorMetodoPago(ctx context.Context, desde, hasta time.Time) ([]MetodoPagoTotal, error)
	TopProductos(ctx context.Context, desde, hasta time.Time, limite int) ([]ProductoVendido, error)
	DB() *gorm.DB
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) CreateTx(tx *gorm.DB, v *model.Venta) error {
	return tx.Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).Preload("Detalles").First(&v, "id = ?", id).Error
	return &v, err
}

func (r *ventaRepo) FindByNumeroFactura(ctx context.Context, numero string) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).Preload("Detalles").
		Where("numero_factura = ?", numero).First(&v).Error
	return &v, err
}

func (r *ventaRepo) List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var ventas []model.Venta
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Venta{})

	switch filter.Anuladas {
	case "true":
		q = q.Where("anulada = true")
	case "all":
		// no filter
	default:
		q = q.Where("anulada = false")
	}
	if filter.Fecha != "" {
		q = q.Where("fecha = ?", filter.Fecha)
	} else if filter.Desde != "" && filter.Hasta != "" {
		q = q.Where("fecha BETWEEN ? AND ?", filter.Desde, filter.Hasta)
	}
	if filter.Cliente != "" {
		q = q.Where("cliente_nombre ILIKE ?", "%"+filter.Cliente+"%")
	}
	if filter.Vendedor != "" {
		q = q.Where("vendedor_username = ?", filter.Vendedor)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Detalles").
		Order("fecha DESC, hora DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&ventas).Error

	return ventas, total, err
}

func (r *ventaRepo) ListRango(ctx context.Context, desde, hasta time.Time) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).
		Where("fecha BETWEEN ? AND ?", desde.Format("2006-01-02"), hasta.Format("2006-01-02")).
		Preload("Detalles").
		Order("fecha ASC, hora ASC").
		Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) MarcarAnuladaTx(tx *gorm.DB, id uuid.UUID, motivo string, cuando time.Time) (bool, error) {
	res := tx.Model(&model.Venta{}).
		Where("id = ? AND anulada = false", id).
		Updates(map[string]interface{}{
			"anulada":          true,
			"motivo_anulacion": motivo,
			"anulada_at":       cuando,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *ventaRepo) Totales(ctx context.Context, desde, hasta time.Time) (*VentaTotales, error) {
	var t VentaTotales
	err := r.db.WithContext(ctx).Model(&model.Venta{}).
		Select("COUNT(*) AS cantidad, COALESCE(SUM(monto_total), 0)::text AS total, COUNT(*) FILTER (WHERE tiene_domicilio) AS domicilios").
		Where("anulada = false AND fecha BETWEEN ? AND ?",
			desde.Format("2006-01-02"), hasta.Format("2006-01-02")).
		Scan(&t).Error
	return &t, err
}

func (r *ventaRepo) TotalesPorMetodoPago(ctx context.Context, desde, hasta time.Time) ([]MetodoPagoTotal, error) {
	var rows []MetodoPagoTotal
	err := r.db.WithContext(ctx).Model(&model.Venta{}).
		Select("metodo_pago, COALESCE(SUM(monto_total), 0)::text AS total").
		Where("anulada = false AND fecha BETWEEN ? AND ?",
			desde.Format("2006-01-02"), hasta.Format("2006-01-02")).
		Group("metodo_pago").
		Scan(&rows).Error
	return rows, err
}

func (r *ventaRepo) TopProductos(ctx context.Context, desde, hasta time.Time, limite int) ([]ProductoVendido, error) {
	var rows []ProductoVendido
	err := r.db.WithContext(ctx).Model(&model.VentaDetalle{}).
		Select("venta_detalles.nombre_producto, venta_detalles.variante_producto, SUM(venta_detalles.cantidad) AS unidades, COALESCE(SUM(venta_detalles.subtotal), 0)::text AS total").
		Joins("JOIN ventas ON ventas.id = venta_detalles.venta_id").
		Where("ventas.anulada = false AND ventas.fecha BETWEEN ? AND ?",
			desde.Format("2006-01-02"), hasta.Format("2006-01-02")).
		Group("venta_detalles.nombre_producto, venta_detalles.variante_producto").
		Order("unidades DESC").
		Limit(limite).
		Scan(&rows).Error
	return rows, err
}
