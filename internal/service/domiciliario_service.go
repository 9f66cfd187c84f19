package service

import (
	"context"
	"errors"

	"github.com/chocoartesanto/backend-inventory/internal/dto"
	"github.com/chocoartesanto/backend-inventory/internal/model"
	"github.com/chocoartesanto/backend-inventory/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrDomiciliarioNoEncontrado = errors.New("domiciliario no encontrado")

type DomiciliarioService interface {
	Crear(ctx context.Context, req dto.DomiciliarioRequest) (*dto.DomiciliarioResponse, error)
	Listar(ctx context.Context, soloActivos bool) ([]dto.DomiciliarioResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.DomiciliarioRequest) (*dto.DomiciliarioResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type domiciliarioService struct {
	repo repository.DomiciliarioRepository
}

func NewDomiciliarioService(repo repository.DomiciliarioRepository) DomiciliarioService {
	return &domiciliarioService{repo: repo}
}

func (s *domiciliarioService) Crear(ctx context.Context, req dto.DomiciliarioRequest) (*dto.DomiciliarioResponse, error) {
	d := &model.Domiciliario{
		Nombre:   req.Nombre,
		Telefono: req.Telefono,
		Tarifa:   req.Tarifa,
		Activo:   true,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return domiciliarioToResponse(d), nil
}

func (s *domiciliarioService) Listar(ctx context.Context, soloActivos bool) ([]dto.DomiciliarioResponse, error) {
	domiciliarios, err := s.repo.List(ctx, soloActivos)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DomiciliarioResponse, 0, len(domiciliarios))
	for i := range domiciliarios {
		out = append(out, *domiciliarioToResponse(&domiciliarios[i]))
	}
	return out, nil
}

func (s *domiciliarioService) Actualizar(ctx context.Context, id uuid.UUID, req dto.DomiciliarioRequest) (*dto.DomiciliarioResponse, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDomiciliarioNoEncontrado
		}
		return nil, err
	}
	d.Nombre = req.Nombre
	d.Telefono = req.Telefono
	d.Tarifa = req.Tarifa
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return domiciliarioToResponse(d), nil
}

func (s *domiciliarioService) Desactivar(ctx context.Context, id uuid.UUID) error {
	return s.repo.Desactivar(ctx, id)
}

func domiciliarioToResponse(d *model.Domiciliario) *dto.DomiciliarioResponse {
	return &dto.DomiciliarioResponse{
		ID:       d.ID,
		Nombre:   d.Nombre,
		Telefono: d.Telefono,
		Tarifa:   d.Tarifa,
		Activo:   d.Activo,
	}
}
