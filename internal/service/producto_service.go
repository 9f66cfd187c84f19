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

var ErrProductoNoEncontrado = errors.New("producto no encontrado")

type ProductoService interface {
	Crear(ctx context.Context, req dto.ProductoRequest) (*dto.ProductoResponse, error)
	FindByID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) ([]dto.ProductoResponse, int64, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ProductoRequest) (*dto.ProductoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
}

type productoService struct {
	repo       repository.ProductoRepository
	recetaRepo repository.RecetaRepository
	stock      StockService
}

func NewProductoService(
	repo repository.ProductoRepository,
	recetaRepo repository.RecetaRepository,
	stock StockService,
) ProductoService {
	return &productoService{repo: repo, recetaRepo: recetaRepo, stock: stock}
}

// Crear persists the product and its recipe in one transaction: a product
// half-saved without its recipe lines would be unsellable.
func (s *productoService) Crear(ctx context.Context, req dto.ProductoRequest) (*dto.ProductoResponse, error) {
	stockInicial := 0
	if req.StockCantidad != nil {
		stockInicial = *req.StockCantidad
	}
	p := &model.Producto{
		ID:            uuid.New(),
		Nombre:        req.Nombre,
		Variante:      req.Variante,
		Precio:        req.Precio,
		Descripcion:   req.Descripcion,
		CategoriaID:   req.CategoriaID,
		Activo:        true,
		StockCantidad: stockInicial,
		StockMinimo:   req.StockMinimo,
	}

	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if tx == nil {
			return s.repo.Create(ctx, p)
		}
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		return s.recetaRepo.ReplaceTx(tx, p.ID, recetaLineas(req.Receta))
	})
	if err != nil {
		return nil, err
	}

	s.stock.InvalidarCache(ctx)
	return s.FindByID(ctx, p.ID)
}

func (s *productoService) FindByID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductoNoEncontrado
		}
		return nil, err
	}
	return productoToResponse(p), nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) ([]dto.ProductoResponse, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 200 {
		filter.Limit = 50
	}
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		out = append(out, *productoToResponse(&productos[i]))
	}
	return out, total, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductoNoEncontrado
		}
		return nil, err
	}

	p.Nombre = req.Nombre
	p.Variante = req.Variante
	p.Precio = req.Precio
	p.Descripcion = req.Descripcion
	p.CategoriaID = req.CategoriaID
	p.StockMinimo = req.StockMinimo
	if req.StockCantidad != nil {
		p.StockCantidad = *req.StockCantidad
	}
	// Save would upsert preloaded recipe associations with stale data;
	// the recipe is replaced explicitly below.
	p.Receta = nil

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if tx == nil {
			return s.repo.Update(ctx, p)
		}
		if err := tx.Omit("Receta", "Categoria").Save(p).Error; err != nil {
			return err
		}
		return s.recetaRepo.ReplaceTx(tx, p.ID, recetaLineas(req.Receta))
	})
	if err != nil {
		return nil, err
	}

	s.stock.InvalidarCache(ctx)
	return s.FindByID(ctx, id)
}

func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.stock.InvalidarCache(ctx)
	return nil
}

func (s *productoService) Reactivar(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Reactivar(ctx, id); err != nil {
		return err
	}
	s.stock.InvalidarCache(ctx)
	return nil
}

func recetaLineas(req []dto.RecetaLineaRequest) []model.RecetaProducto {
	lineas := make([]model.RecetaProducto, 0, len(req))
	for _, l := range req {
		lineas = append(lineas, model.RecetaProducto{
			InsumoID: l.InsumoID,
			Cantidad: l.Cantidad,
		})
	}
	return lineas
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	resp := &dto.ProductoResponse{
		ID:            p.ID,
		Nombre:        p.Nombre,
		Variante:      p.Variante,
		Precio:        p.Precio,
		Descripcion:   p.Descripcion,
		CategoriaID:   p.CategoriaID,
		Activo:        p.Activo,
		StockCantidad: p.StockCantidad,
		StockMinimo:   p.StockMinimo,
	}
	if p.Categoria != nil {
		resp.Categoria = &p.Categoria.Nombre
	}
	for _, l := range p.Receta {
		linea := dto.RecetaLineaResponse{
			InsumoID: l.InsumoID,
			Cantidad: l.Cantidad,
		}
		if l.Insumo != nil {
			linea.NombreInsumo = l.Insumo.Nombre
			linea.Unidad = l.Insumo.Unidad
		}
		resp.Receta = append(resp.Receta, linea)
	}
	return resp
}
