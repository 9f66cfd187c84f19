package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/chocoartesanto/backend-inventory/internal/dto"
	"github.com/chocoartesanto/backend-inventory/internal/model"
	"github.com/chocoartesanto/backend-inventory/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	cacheKeyStockProductos = "cache:stock_productos"
	cacheTTLStockProductos = 60 * time.Second

	MovimientoVenta     = "venta"
	MovimientoAnulacion = "anulacion"
	MovimientoAjuste    = "ajuste"
)

// StockService is the ingredient-stock consistency engine. Every sale and
// cancellation funnels its stock effects through here, inside the caller's
// transaction, so ingredient counters and sale records always move together.
type StockService interface {
	// ResolverProducto maps a display name (optionally "Nombre - Variante")
	// to the product row, with recipe preloaded.
	ResolverProducto(ctx context.Context, nombre string, variante *string) (*model.Producto, error)

	// ValidarDisponibilidad checks a whole cart against ingredient stock
	// without mutating anything. It never stops at the first problem: the
	// response carries every shortage found.
	ValidarDisponibilidad(ctx context.Context, items []dto.ItemCarrito) (*dto.ValidarStockResponse, error)

	// ConsumirInsumosTx consumes ingredients for each cart line inside tx.
	// Any shortage aborts with a typed error so the caller's transaction
	// rolls back whole.
	ConsumirInsumosTx(tx *gorm.DB, items []dto.ItemCarrito, ventaID *uuid.UUID) error

	// RestaurarInsumosTx reverses a prior consumption. It is best-effort:
	// products or recipes that no longer resolve are logged and skipped so
	// a renamed product cannot block a cancellation.
	RestaurarInsumosTx(tx *gorm.DB, items []dto.ItemCarrito, ventaID *uuid.UUID) error

	// RecetaDeProducto returns the recipe lines of a product with the
	// current counters of each ingredient.
	RecetaDeProducto(ctx context.Context, productoID uuid.UUID) ([]dto.RecetaDetalleResponse, error)

	// CalcularStockProductos derives how many units of each active product
	// can still be made from the ingredients on hand.
	CalcularStockProductos(ctx context.Context) ([]dto.StockProductoResponse, error)

	ResumenStock(ctx context.Context) (*dto.ResumenStockResponse, error)
	ProductosStockBajo(ctx context.Context) ([]dto.StockProductoResponse, error)
	InvalidarCache(ctx context.Context)
}

type stockService struct {
	insumoRepo   repository.InsumoRepository
	productoRepo repository.ProductoRepository
	recetaRepo   repository.RecetaRepository
	rdb          *redis.Client // nil in unit tests: cache becomes a no-op
	umbralBajo   int
}

func NewStockService(
	insumoRepo repository.InsumoRepository,
	productoRepo repository.ProductoRepository,
	recetaRepo repository.RecetaRepository,
	rdb *redis.Client,
	umbralBajo int,
) StockService {
	if umbralBajo <= 0 {
		umbralBajo = 5
	}
	return &stockService{
		insumoRepo:   insumoRepo,
		productoRepo: productoRepo,
		recetaRepo:   recetaRepo,
		rdb:          rdb,
		umbralBajo:   umbralBajo,
	}
}

// ── Resolución de productos ──────────────────────────────────────────────────

// ResolverProducto first tries the exact name. Carts built by the frontend
// sometimes collapse name and variant into "Nombre - Variante", so on a
// miss the trailing " - <sufijo>" is stripped and the suffix retried as
// the variant before giving up.
func (s *stockService) ResolverProducto(ctx context.Context, nombre string, variante *string) (*model.Producto, error) {
	p, err := s.productoRepo.FindByNombreVariante(ctx, nombre, variante)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if idx := strings.LastIndex(nombre, " - "); idx > 0 {
		base := nombre[:idx]
		sufijo := nombre[idx+3:]
		if p, err := s.productoRepo.FindByNombreVariante(ctx, base, &sufijo); err == nil {
			return p, nil
		}
		if p, err := s.productoRepo.FindByNombreVariante(ctx, base, variante); err == nil {
			return p, nil
		}
	}
	return nil, &ProductoNoEncontradoError{Nombre: nombre, Variante: variante}
}

func (s *stockService) resolverProductoTx(tx *gorm.DB, nombre string, variante *string) (*model.Producto, error) {
	p, err := s.productoRepo.FindByNombreVarianteTx(tx, nombre, variante)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if idx := strings.LastIndex(nombre, " - "); idx > 0 {
		base := nombre[:idx]
		sufijo := nombre[idx+3:]
		if p, err := s.productoRepo.FindByNombreVarianteTx(tx, base, &sufijo); err == nil {
			return p, nil
		}
		if p, err := s.productoRepo.FindByNombreVarianteTx(tx, base, variante); err == nil {
			return p, nil
		}
	}
	return nil, &ProductoNoEncontradoError{Nombre: nombre, Variante: variante}
}

func (s *stockService) RecetaDeProducto(ctx context.Context, productoID uuid.UUID) ([]dto.RecetaDetalleResponse, error) {
	lineas, err := s.recetaRepo.FindByProductoID(ctx, productoID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RecetaDetalleResponse, 0, len(lineas))
	for _, linea := range lineas {
		if linea.Insumo == nil {
			continue
		}
		out = append(out, dto.RecetaDetalleResponse{
			InsumoID:          linea.InsumoID,
			NombreInsumo:      linea.Insumo.Nombre,
			Unidad:            linea.Insumo.Unidad,
			CantidadPorUnidad: linea.Cantidad,
			CantidadUnitaria:  linea.Insumo.CantidadUnitaria,
			CantidadUtilizada: linea.Insumo.CantidadUtilizada,
			Disponible:        linea.Insumo.Disponible(),
		})
	}
	return out, nil
}

// ── Validación ───────────────────────────────────────────────────────────────

func (s *stockService) ValidarDisponibilidad(ctx context.Context, items []dto.ItemCarrito) (*dto.ValidarStockResponse, error) {
	var errores []dto.ErrorStockItem

	for _, item := range items {
		p, err := s.ResolverProducto(ctx, item.NombreProducto, item.VarianteProducto)
		if err != nil {
			var notFound *ProductoNoEncontradoError
			if errors.As(err, &notFound) {
				errores = append(errores, dto.ErrorStockItem{
					Producto: item.NombreProducto,
					Mensaje:  notFound.Error(),
				})
				continue
			}
			return nil, err
		}

		lineas, err := s.recetaRepo.FindByProductoID(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		if len(lineas) == 0 {
			errores = append(errores, dto.ErrorStockItem{
				Producto: p.Nombre,
				Mensaje:  (&RecetaNoDefinidaError{Producto: p.Nombre}).Error(),
			})
			continue
		}

		cantidad := decimal.NewFromInt(int64(item.Cantidad))
		for _, linea := range lineas {
			if linea.Insumo == nil {
				continue
			}
			requerida := linea.Cantidad.Mul(cantidad)
			disponible := linea.Insumo.Disponible()
			if requerida.GreaterThan(disponible) {
				errores = append(errores, dto.ErrorStockItem{
					Producto:   p.Nombre,
					Insumo:     linea.Insumo.Nombre,
					Requerida:  requerida,
					Disponible: disponible,
					Mensaje: (&StockInsuficienteError{
						Producto:   p.Nombre,
						Insumo:     linea.Insumo.Nombre,
						Requerida:  requerida,
						Disponible: disponible,
					}).Error(),
				})
			}
		}
	}

	return &dto.ValidarStockResponse{
		Valido:  len(errores) == 0,
		Errores: errores,
	}, nil
}

// ── Consumo ──────────────────────────────────────────────────────────────────

func (s *stockService) ConsumirInsumosTx(tx *gorm.DB, items []dto.ItemCarrito, ventaID *uuid.UUID) error {
	for _, item := range items {
		p, err := s.resolverProductoTx(tx, item.NombreProducto, item.VarianteProducto)
		if err != nil {
			return err
		}

		lineas, err := s.recetaRepo.FindByProductoIDTx(tx, p.ID)
		if err != nil {
			return err
		}
		if len(lineas) == 0 {
			return &RecetaNoDefinidaError{Producto: p.Nombre}
		}

		cantidad := decimal.NewFromInt(int64(item.Cantidad))
		for _, linea := range lineas {
			// Row lock: the read-check-write below must not race with a
			// concurrent sale of the same ingredient.
			ins, err := s.insumoRepo.FindByIDForUpdateTx(tx, linea.InsumoID)
			if err != nil {
				return err
			}

			requerida := linea.Cantidad.Mul(cantidad)
			nueva := ins.CantidadUtilizada.Add(requerida)
			if nueva.GreaterThan(ins.CantidadUnitaria) {
				return &StockInsuficienteError{
					Producto:   p.Nombre,
					Insumo:     ins.Nombre,
					Requerida:  requerida,
					Disponible: ins.Disponible(),
				}
			}

			if err := s.insumoRepo.UpdateUtilizadaTx(tx, ins.ID, nueva); err != nil {
				return err
			}
			mov := &model.MovimientoInsumo{
				InsumoID:          ins.ID,
				Tipo:              MovimientoVenta,
				Cantidad:          requerida,
				UtilizadaAnterior: ins.CantidadUtilizada,
				UtilizadaNueva:    nueva,
				Motivo:            "consumo por venta de " + p.Nombre,
				VentaID:           ventaID,
			}
			if err := s.insumoRepo.CreateMovimientoTx(tx, mov); err != nil {
				return err
			}
		}

		if !p.BajoDemanda() {
			if err := s.productoRepo.UpdateStockTx(tx, p.ID, -item.Cantidad); err != nil {
				return err
			}
		}
	}
	return nil
}

// ── Restauración ─────────────────────────────────────────────────────────────

func (s *stockService) RestaurarInsumosTx(tx *gorm.DB, items []dto.ItemCarrito, ventaID *uuid.UUID) error {
	for _, item := range items {
		p, err := s.resolverProductoTx(tx, item.NombreProducto, item.VarianteProducto)
		if err != nil {
			// The product was renamed or removed since the sale. Skip the
			// line instead of blocking the whole cancellation.
			log.Warn().Str("producto", item.NombreProducto).Err(err).
				Msg("restauracion: producto no resuelto, linea omitida")
			continue
		}

		lineas, err := s.recetaRepo.FindByProductoIDTx(tx, p.ID)
		if err != nil {
			return err
		}
		if len(lineas) == 0 {
			log.Warn().Str("producto", p.Nombre).
				Msg("restauracion: producto sin receta, linea omitida")
			continue
		}

		cantidad := decimal.NewFromInt(int64(item.Cantidad))
		for _, linea := range lineas {
			ins, err := s.insumoRepo.FindByIDForUpdateTx(tx, linea.InsumoID)
			if err != nil {
				return err
			}

			restaurada := linea.Cantidad.Mul(cantidad)
			nueva := ins.CantidadUtilizada.Sub(restaurada)
			// Manual adjustments may have lowered the counter since the
			// sale; never restore below zero.
			if nueva.IsNegative() {
				nueva = decimal.Zero
			}

			if err := s.insumoRepo.UpdateUtilizadaTx(tx, ins.ID, nueva); err != nil {
				return err
			}
			mov := &model.MovimientoInsumo{
				InsumoID:          ins.ID,
				Tipo:              MovimientoAnulacion,
				Cantidad:          restaurada.Neg(),
				UtilizadaAnterior: ins.CantidadUtilizada,
				UtilizadaNueva:    nueva,
				Motivo:            "restauracion por anulacion de venta de " + p.Nombre,
				VentaID:           ventaID,
			}
			if err := s.insumoRepo.CreateMovimientoTx(tx, mov); err != nil {
				return err
			}
		}

		if !p.BajoDemanda() {
			if err := s.productoRepo.UpdateStockTx(tx, p.ID, item.Cantidad); err != nil {
				return err
			}
		}
	}
	return nil
}

// ── Stock derivado ───────────────────────────────────────────────────────────

// CalcularStockProductos computes, per active product, the minimum over its
// recipe lines of floor(disponible / consumoPorUnidad). The per-unit
// consumption comes from the recipe line, unless the ingredient declares
// its own cantidad_por_producto override.
func (s *stockService) CalcularStockProductos(ctx context.Context) ([]dto.StockProductoResponse, error) {
	if cached, ok := s.leerCache(ctx); ok {
		return cached, nil
	}

	productos, err := s.productoRepo.ListActivos(ctx)
	if err != nil {
		return nil, err
	}

	resultado := make([]dto.StockProductoResponse, 0, len(productos))
	for i := range productos {
		p := &productos[i]
		resp := dto.StockProductoResponse{
			ProductoID:    p.ID,
			Nombre:        p.Nombre,
			Variante:      p.Variante,
			Precio:        p.Precio,
			StockCantidad: p.StockCantidad,
			BajoDemanda:   p.BajoDemanda(),
		}
		if p.Categoria != nil {
			resp.Categoria = &p.Categoria.Nombre
		}

		if len(p.Receta) == 0 {
			resp.SinReceta = true
			resp.StockBajo = true
			resultado = append(resultado, resp)
			continue
		}

		resp.StockCalculado = stockDerivado(p.Receta)
		resp.StockBajo = resp.StockCalculado <= s.umbralBajo
		resultado = append(resultado, resp)
	}

	s.escribirCache(ctx, resultado)
	return resultado, nil
}

func stockDerivado(lineas []model.RecetaProducto) int {
	minimo := -1
	for _, linea := range lineas {
		if linea.Insumo == nil {
			continue
		}
		consumo := linea.Cantidad
		if linea.Insumo.CantidadPorProducto.IsPositive() {
			consumo = linea.Insumo.CantidadPorProducto
		}
		if !consumo.IsPositive() {
			consumo = decimal.NewFromInt(1)
		}

		unidades := int(linea.Insumo.Disponible().Div(consumo).Floor().IntPart())
		if unidades < 0 {
			unidades = 0
		}
		if minimo < 0 || unidades < minimo {
			minimo = unidades
		}
	}
	if minimo < 0 {
		return 0
	}
	return minimo
}

// ── Resumen y alertas ────────────────────────────────────────────────────────

func (s *stockService) ResumenStock(ctx context.Context) (*dto.ResumenStockResponse, error) {
	insumos, err := s.insumoRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.ResumenStockResponse{
		TotalInsumos: len(insumos),
		Insumos:      make([]dto.InsumoStockResponse, 0, len(insumos)),
	}
	for i := range insumos {
		ins := &insumos[i]
		bajo := ins.StockBajo()
		if bajo {
			resp.InsumosStockBajo++
		}
		resp.Insumos = append(resp.Insumos, dto.InsumoStockResponse{
			InsumoID:          ins.ID,
			Nombre:            ins.Nombre,
			Unidad:            ins.Unidad,
			CantidadUnitaria:  ins.CantidadUnitaria,
			CantidadUtilizada: ins.CantidadUtilizada,
			Disponible:        ins.Disponible(),
			StockMinimo:       ins.StockMinimo,
			StockBajo:         bajo,
			SitioReferencia:   ins.SitioReferencia,
		})
	}
	return resp, nil
}

func (s *stockService) ProductosStockBajo(ctx context.Context) ([]dto.StockProductoResponse, error) {
	todos, err := s.CalcularStockProductos(ctx)
	if err != nil {
		return nil, err
	}
	bajos := make([]dto.StockProductoResponse, 0)
	for _, p := range todos {
		if p.BajoDemanda {
			continue
		}
		if p.StockBajo {
			bajos = append(bajos, p)
		}
	}
	return bajos, nil
}

// ── Cache ────────────────────────────────────────────────────────────────────

func (s *stockService) leerCache(ctx context.Context) ([]dto.StockProductoResponse, bool) {
	if s.rdb == nil {
		return nil, false
	}
	raw, err := s.rdb.Get(ctx, cacheKeyStockProductos).Bytes()
	if err != nil {
		return nil, false
	}
	var cached []dto.StockProductoResponse
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, false
	}
	return cached, true
}

func (s *stockService) escribirCache(ctx context.Context, resultado []dto.StockProductoResponse) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(resultado)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, cacheKeyStockProductos, raw, cacheTTLStockProductos).Err(); err != nil {
		log.Warn().Err(err).Msg("stock: no se pudo escribir el cache")
	}
}

// InvalidarCache drops the derived-stock cache. Called after any mutation
// that changes ingredient availability.
func (s *stockService) InvalidarCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, cacheKeyStockProductos).Err(); err != nil {
		log.Warn().Err(err).Msg("stock: no se pudo invalidar el cache")
	}
}
