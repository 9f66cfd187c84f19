package repository

import (
	"context"

	"github.com/chocoartesanto/backend-inventory/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InsumoRepository defines the data access contract for ingredients and
// their movement log. Services depend on this interface, not on the
// concrete GORM implementation, enabling clean unit testing via stubs.
type InsumoRepository interface {
	Create(ctx context.Context, i *model.Insumo) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Insumo, error)
	FindByNombre(ctx context.Context, nombre string) (*model.Insumo, error)
	List(ctx context.Context) ([]model.Insumo, error)
	ListStockBajo(ctx context.Context) ([]model.Insumo, error)
	Update(ctx context.Context, i *model.Insumo) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Used inside transactions; callers must pass the tx instance.
	// FindByIDForUpdateTx locks the row (SELECT ... FOR UPDATE) so the
	// read-check-write of the consume path is safe under concurrency.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Insumo, error)
	UpdateUtilizadaTx(tx *gorm.DB, id uuid.UUID, nueva decimal.Decimal) error
	CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoInsumo) error

	ListMovimientos(ctx context.Context, insumoID uuid.UUID, limit int) ([]model.MovimientoInsumo, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type insumoRepo struct{ db *gorm.DB }

func NewInsumoRepository(db *gorm.DB) InsumoRepository { return &insumoRepo{db: db} }

func (r *insumoRepo) DB() *gorm.DB { return r.db }

func (r *insumoRepo) Create(ctx context.Context, i *model.Insumo) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *insumoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Insumo, error) {
	var i model.Insumo
	err := r.db.WithContext(ctx).First(&i, "id = ?", id).Error
	return &i, err
}

func (r *insumoRepo) FindByNombre(ctx context.Context, nombre string) (*model.Insumo, error) {
	var i model.Insumo
	err := r.db.WithContext(ctx).Where("nombre = ?", nombre).First(&i).Error
	return &i, err
}

func (r *insumoRepo) List(ctx context.Context) ([]model.Insumo, error) {
	var insumos []model.Insumo
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&insumos).Error
	return insumos, err
}

func (r *insumoRepo) ListStockBajo(ctx context.Context) ([]model.Insumo, error) {
	var insumos []model.Insumo
	err := r.db.WithContext(ctx).
		Where("cantidad_unitaria - cantidad_utilizada <= stock_minimo").
		Order("nombre ASC").
		Find(&insumos).Error
	return insumos, err
}

func (r *insumoRepo) Update(ctx context.Context, i *model.Insumo) error {
	return r.db.WithContext(ctx).Save(i).Error
}

func (r *insumoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Insumo{}, "id = ?", id).Error
}

func (r *insumoRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Insumo, error) {
	var i model.Insumo
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&i, "id = ?", id).Error
	return &i, err
}

func (r *insumoRepo) UpdateUtilizadaTx(tx *gorm.DB, id uuid.UUID, nueva decimal.Decimal) error {
	return tx.Model(&model.Insumo{}).Where("id = ?", id).
		Update("cantidad_utilizada", nueva).Error
}

func (r *insumoRepo) CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoInsumo) error {
	return tx.Create(m).Error
}

func (r *insumoRepo) ListMovimientos(ctx context.Context, insumoID uuid.UUID, limit int) ([]model.MovimientoInsumo, error) {
	var movs []model.MovimientoInsumo
	q := r.db.WithContext(ctx).Where("insumo_id = ?", insumoID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&movs).Error
	return movs, err
}
