package repository

import (
	"context"

	"github.com/chocoartesanto/backend-inventory/internal/dto"
	"github.com/chocoartesanto/backend-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	// FindByNombreVariante resolves a product by exact name. When variante is
	// non-nil the variant must match too; otherwise any variant qualifies.
	FindByNombreVariante(ctx context.Context, nombre string, variante *string) (*model.Producto, error)
	List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error)
	ListActivos(ctx context.Context) ([]model.Producto, error)
	Update(ctx context.Context, p *model.Producto) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error

	// Used inside transactions; callers must pass the tx instance.
	UpdateStockTx(tx *gorm.DB, id uuid.UUID, delta int) error
	FindByNombreVarianteTx(tx *gorm.DB, nombre string, variante *string) (*model.Producto, error)

	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) DB() *gorm.DB { return r.db }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).
		Preload("Categoria").
		Preload("Receta.Insumo").
		First(&p, "id = ?", id).Error
	return &p, err
}

func buscarPorNombreVariante(q *gorm.DB, nombre string, variante *string) *gorm.DB {
	q = q.Where("nombre = ?", nombre)
	if variante != nil && *variante != "" {
		q = q.Where("variante = ?", *variante)
	}
	return q
}

func (r *productoRepo) FindByNombreVariante(ctx context.Context, nombre string, variante *string) (*model.Producto, error) {
	var p model.Producto
	q := buscarPorNombreVariante(r.db.WithContext(ctx), nombre, variante)
	err := q.Preload("Receta.Insumo").First(&p).Error
	return &p, err
}

func (r *productoRepo) FindByNombreVarianteTx(tx *gorm.DB, nombre string, variante *string) (*model.Producto, error) {
	var p model.Producto
	err := buscarPorNombreVariante(tx, nombre, variante).Preload("Receta.Insumo").First(&p).Error
	return &p, err
}

func (r *productoRepo) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var productos []model.Producto
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Producto{})

	switch filter.Activo {
	case "false":
		q = q.Where("activo = false")
	case "all":
		// no filter
	default:
		q = q.Where("activo = true")
	}
	if filter.Categoria != "" {
		q = q.Where("categoria_id = ?", filter.Categoria)
	}
	if filter.Buscar != "" {
		q = q.Where("nombre ILIKE ?", "%"+filter.Buscar+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Categoria").Preload("Receta.Insumo").
		Order("nombre ASC").
		Offset(offset).Limit(filter.Limit).
		Find(&productos).Error

	return productos, total, err
}

func (r *productoRepo) ListActivos(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).
		Where("activo = true").
		Preload("Categoria").
		Preload("Receta.Insumo").
		Order("nombre ASC").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productoRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("id = ?", id).Update("activo", false).Error
}

func (r *productoRepo) Reactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("id = ?", id).Update("activo", true).Error
}

// UpdateStockTx applies a delta to the finished-goods counter. Products
// with the on-demand sentinel are skipped at the service layer, never here.
func (r *productoRepo) UpdateStockTx(tx *gorm.DB, id uuid.UUID, delta int) error {
	return tx.Model(&model.Producto{}).Where("id = ?", id).
		Update("stock_cantidad", gorm.Expr("stock_cantidad + ?", delta)).Error
}
