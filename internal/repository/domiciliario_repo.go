package repository

import (
	"context"

	"github.com/chocoartesanto/backend-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DomiciliarioRepository interface {
	Create(ctx context.Context, d *model.Domiciliario) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Domiciliario, error)
	List(ctx context.Context, soloActivos bool) ([]model.Domiciliario, error)
	Update(ctx context.Context, d *model.Domiciliario) error
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type domiciliarioRepo struct{ db *gorm.DB }

func NewDomiciliarioRepository(db *gorm.DB) DomiciliarioRepository {
	return &domiciliarioRepo{db: db}
}

func (r *domiciliarioRepo) Create(ctx context.Context, d *model.Domiciliario) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *domiciliarioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Domiciliario, error) {
	var d model.Domiciliario
	err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error
	return &d, err
}

func (r *domiciliarioRepo) List(ctx context.Context, soloActivos bool) ([]model.Domiciliario, error) {
	var domiciliarios []model.Domiciliario
	q := r.db.WithContext(ctx)
	if soloActivos {
		q = q.Where("activo = true")
	}
	err := q.Order("nombre ASC").Find(&domiciliarios).Error
	return domiciliarios, err
}

func (r *domiciliarioRepo) Update(ctx context.Context, d *model.Domiciliario) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *domiciliarioRepo) Desactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Domiciliario{}).
		Where("id = ?", id).Update("activo", false).Error
}
