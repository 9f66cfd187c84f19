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

var ErrInsumoNoEncontrado = errors.New("insumo no encontrado")

type InsumoService interface {
	Crear(ctx context.Context, req dto.InsumoRequest) (*dto.InsumoResponse, error)
	FindByID(ctx context.Context, id uuid.UUID) (*dto.InsumoResponse, error)
	Listar(ctx context.Context) ([]dto.InsumoResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.InsumoRequest) (*dto.InsumoResponse, error)
	Ajustar(ctx context.Context, id uuid.UUID, req dto.AjusteInsumoRequest) (*dto.InsumoResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	Movimientos(ctx context.Context, id uuid.UUID, limit int) ([]model.MovimientoInsumo, error)
}

type insumoService struct {
	repo  repository.InsumoRepository
	stock StockService
}

func NewInsumoService(repo repository.InsumoRepository, stock StockService) InsumoService {
	return &insumoService{repo: repo, stock: stock}
}

func (s *insumoService) Crear(ctx context.Context, req dto.InsumoRequest) (*dto.InsumoResponse, error) {
	if !req.CantidadUnitaria.IsPositive() {
		return nil, solicitudInvalida("cantidad_unitaria debe ser mayor a cero")
	}
	if req.CantidadUtilizada.GreaterThan(req.CantidadUnitaria) {
		return nil, solicitudInvalida("cantidad_utilizada no puede exceder cantidad_unitaria")
	}

	ins := &model.Insumo{
		Nombre:              req.Nombre,
		Unidad:              req.Unidad,
		CantidadUnitaria:    req.CantidadUnitaria,
		PrecioPresentacion:  req.PrecioPresentacion,
		CantidadUtilizada:   req.CantidadUtilizada,
		CantidadPorProducto: req.CantidadPorProducto,
		StockMinimo:         req.StockMinimo,
		SitioReferencia:     req.SitioReferencia,
	}
	if err := s.repo.Create(ctx, ins); err != nil {
		return nil, err
	}
	s.stock.InvalidarCache(ctx)
	return insumoToResponse(ins), nil
}

func (s *insumoService) FindByID(ctx context.Context, id uuid.UUID) (*dto.InsumoResponse, error) {
	ins, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInsumoNoEncontrado
		}
		return nil, err
	}
	return insumoToResponse(ins), nil
}

func (s *insumoService) Listar(ctx context.Context) ([]dto.InsumoResponse, error) {
	insumos, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InsumoResponse, 0, len(insumos))
	for i := range insumos {
		out = append(out, *insumoToResponse(&insumos[i]))
	}
	return out, nil
}

func (s *insumoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.InsumoRequest) (*dto.InsumoResponse, error) {
	ins, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInsumoNoEncontrado
		}
		return nil, err
	}
	if req.CantidadUtilizada.GreaterThan(req.CantidadUnitaria) {
		return nil, solicitudInvalida("cantidad_utilizada no puede exceder cantidad_unitaria")
	}

	ins.Nombre = req.Nombre
	ins.Unidad = req.Unidad
	ins.CantidadUnitaria = req.CantidadUnitaria
	ins.PrecioPresentacion = req.PrecioPresentacion
	ins.CantidadUtilizada = req.CantidadUtilizada
	ins.CantidadPorProducto = req.CantidadPorProducto
	ins.StockMinimo = req.StockMinimo
	ins.SitioReferencia = req.SitioReferencia

	if err := s.repo.Update(ctx, ins); err != nil {
		return nil, err
	}
	s.stock.InvalidarCache(ctx)
	return insumoToResponse(ins), nil
}

// Ajustar applies a manual counter correction and leaves an audit movement,
// so hand edits show up in the same history as sales and cancellations.
func (s *insumoService) Ajustar(ctx context.Context, id uuid.UUID, req dto.AjusteInsumoRequest) (*dto.InsumoResponse, error) {
	ins, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInsumoNoEncontrado
		}
		return nil, err
	}

	anterior := ins.CantidadUtilizada
	if req.CantidadUnitaria != nil {
		ins.CantidadUnitaria = *req.CantidadUnitaria
	}
	if req.CantidadUtilizada != nil {
		ins.CantidadUtilizada = *req.CantidadUtilizada
	}
	if ins.CantidadUtilizada.GreaterThan(ins.CantidadUnitaria) {
		return nil, solicitudInvalida("cantidad_utilizada no puede exceder cantidad_unitaria")
	}
	if ins.CantidadUtilizada.IsNegative() {
		return nil, solicitudInvalida("cantidad_utilizada no puede ser negativa")
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if tx == nil {
			return s.repo.Update(ctx, ins)
		}
		if err := tx.Save(ins).Error; err != nil {
			return err
		}
		return s.repo.CreateMovimientoTx(tx, &model.MovimientoInsumo{
			InsumoID:          ins.ID,
			Tipo:              MovimientoAjuste,
			Cantidad:          ins.CantidadUtilizada.Sub(anterior),
			UtilizadaAnterior: anterior,
			UtilizadaNueva:    ins.CantidadUtilizada,
			Motivo:            req.Motivo,
		})
	})
	if err != nil {
		return nil, err
	}
	s.stock.InvalidarCache(ctx)
	return insumoToResponse(ins), nil
}

func (s *insumoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInsumoNoEncontrado
		}
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.stock.InvalidarCache(ctx)
	return nil
}

func (s *insumoService) Movimientos(ctx context.Context, id uuid.UUID, limit int) ([]model.MovimientoInsumo, error) {
	return s.repo.ListMovimientos(ctx, id, limit)
}

func insumoToResponse(ins *model.Insumo) *dto.InsumoResponse {
	return &dto.InsumoResponse{
		ID:                  ins.ID,
		Nombre:              ins.Nombre,
		Unidad:              ins.Unidad,
		CantidadUnitaria:    ins.CantidadUnitaria,
		PrecioPresentacion:  ins.PrecioPresentacion,
		CantidadUtilizada:   ins.CantidadUtilizada,
		CantidadPorProducto: ins.CantidadPorProducto,
		Disponible:          ins.Disponible(),
		CostoPorUnidad:      ins.CostoPorUnidad(),
		StockMinimo:         ins.StockMinimo,
		StockBajo:           ins.StockBajo(),
		SitioReferencia:     ins.SitioReferencia,
	}
}
