package repository

import (
	"context"

	"github.com/chocoartesanto/backend-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RecetaRepository interface {
	// FindByProductoID returns the recipe lines with Insumo preloaded.
	FindByProductoID(ctx context.Context, productoID uuid.UUID) ([]model.RecetaProducto, error)
	FindByProductoIDTx(tx *gorm.DB, productoID uuid.UUID) ([]model.RecetaProducto, error)
	ReplaceTx(tx *gorm.DB, productoID uuid.UUID, lineas []model.RecetaProducto) error
	// ListTodas returns every recipe line of active products, Insumo
	// preloaded, for the derived-stock sweep.
	ListTodas(ctx context.Context) ([]model.RecetaProducto, error)
	DB() *gorm.DB
}

type recetaRepo struct{ db *gorm.DB }

func NewRecetaRepository(db *gorm.DB) RecetaRepository { return &recetaRepo{db: db} }

func (r *recetaRepo) DB() *gorm.DB { return r.db }

func (r *recetaRepo) FindByProductoID(ctx context.Context, productoID uuid.UUID) ([]model.RecetaProducto, error) {
	var lineas []model.RecetaProducto
	err := r.db.WithContext(ctx).
		Where("producto_id = ?", productoID).
		Preload("Insumo").
		Find(&lineas).Error
	return lineas, err
}

func (r *recetaRepo) FindByProductoIDTx(tx *gorm.DB, productoID uuid.UUID) ([]model.RecetaProducto, error) {
	var lineas []model.RecetaProducto
	err := tx.Where("producto_id = ?", productoID).Preload("Insumo").Find(&lineas).Error
	return lineas, err
}

// ReplaceTx swaps the full recipe of a product atomically: delete then insert.
func (r *recetaRepo) ReplaceTx(tx *gorm.DB, productoID uuid.UUID, lineas []model.RecetaProducto) error {
	if err := tx.Where("producto_id = ?", productoID).Delete(&model.RecetaProducto{}).Error; err != nil {
		return err
	}
	if len(lineas) == 0 {
		return nil
	}
	for i := range lineas {
		lineas[i].ProductoID = productoID
	}
	return tx.Create(&lineas).Error
}

func (r *recetaRepo) ListTodas(ctx context.Context) ([]model.RecetaProducto, error) {
	var lineas []model.RecetaProducto
	err := r.db.WithContext(ctx).
		Joins("JOIN productos ON productos.id = recetas_producto.producto_id AND productos.activo = true AND productos.deleted_at IS NULL").
		Preload("Insumo").
		Find(&lineas).Error
	return lineas, err
}
