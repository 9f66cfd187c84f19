package service

import (
	"context"
	"errors"
	"time"

	"github.com/chocoartesanto/backend-inventory/internal/dto"
	"github.com/chocoartesanto/backend-inventory/internal/model"
	"github.com/chocoartesanto/backend-inventory/internal/repository"
	"github.com/chocoartesanto/backend-inventory/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VentaService interface {
	RegistrarVenta(ctx context.Context, req dto.VentaRequest) (*dto.VentaResponse, error)
	AnularVenta(ctx context.Context, numeroFactura string, motivo string) (*dto.VentaResponse, error)
	FindByID(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error)
	FindByNumeroFactura(ctx context.Context, numero string) (*dto.VentaResponse, error)
	ListVentas(ctx context.Context, filter dto.VentaFilter) ([]dto.VentaResponse, int64, error)
	ResumenVentas(ctx context.Context, periodo string) (*dto.ResumenVentasResponse, error)
}

type ventaService struct {
	repo        repository.VentaRepository
	usuarioRepo repository.UsuarioRepository
	stock       StockService
	dispatcher  *worker.Dispatcher
	alertEmail  string
}

func NewVentaService(
	repo repository.VentaRepository,
	usuarioRepo repository.UsuarioRepository,
	stock StockService,
	dispatcher *worker.Dispatcher,
	alertEmail string,
) VentaService {
	return &ventaService{
		repo:        repo,
		usuarioRepo: usuarioRepo,
		stock:       stock,
		dispatcher:  dispatcher,
		alertEmail:  alertEmail,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// errorTx passes domain errors through untouched and wraps anything else,
// so raw datastore errors never reach API clients. The cause goes to the
// log with the sale context.
func errorTx(op, factura string, err error) error {
	var faltante *StockInsuficienteError
	var noEncontrado *ProductoNoEncontradoError
	var sinReceta *RecetaNoDefinidaError
	if errors.As(err, &faltante) || errors.As(err, &noEncontrado) ||
		errors.As(err, &sinReceta) || errors.Is(err, ErrVentaYaAnulada) {
		return err
	}
	log.Error().Err(err).Str("factura", factura).Str("operacion", op).
		Msg("fallo de persistencia")
	return &PersistenciaError{Op: op, Err: err}
}

// ── RegistrarVenta ────────────────────────────────────────────────────────────
// Registration is one atomic unit:
//   1. Pre-flight outside the TX: seller exists, invoice number is free,
//      the whole cart passes availability validation.
//   2. BEGIN TX: create venta + detalles, consume ingredients per recipe
//      line (row-locked), adjust finished-goods counters.
//   3. COMMIT, invalidate the derived-stock cache, queue low-stock alerts.
// Any failure inside the TX leaves no trace of the sale.

func (s *ventaService) RegistrarVenta(ctx context.Context, req dto.VentaRequest) (*dto.VentaResponse, error) {
	fecha, err := time.Parse("2006-01-02", req.Fecha)
	if err != nil {
		return nil, solicitudInvalida("fecha inválida: %v", err)
	}

	vendedor, err := s.usuarioRepo.FindByUsername(ctx, req.VendedorUsername)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, solicitudInvalida("vendedor %s no encontrado", req.VendedorUsername)
		}
		return nil, err
	}
	if !vendedor.Activo {
		return nil, solicitudInvalida("vendedor %s está inactivo", req.VendedorUsername)
	}

	if _, err := s.repo.FindByNumeroFactura(ctx, req.NumeroFactura); err == nil {
		return nil, ErrFacturaDuplicada
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	items := make([]dto.ItemCarrito, 0, len(req.Productos))
	for _, p := range req.Productos {
		items = append(items, dto.ItemCarrito{
			NombreProducto:   p.NombreProducto,
			VarianteProducto: p.VarianteProducto,
			Cantidad:         p.Cantidad,
		})
	}

	validacion, err := s.stock.ValidarDisponibilidad(ctx, items)
	if err != nil {
		return nil, err
	}
	if !validacion.Valido {
		return nil, &ValidacionStockError{Errores: validacion.Errores}
	}

	subtotal := decimal.Zero
	detalles := make([]model.VentaDetalle, 0, len(req.Productos))
	for _, p := range req.Productos {
		lineSubtotal := p.PrecioUnitario.Mul(decimal.NewFromInt(int64(p.Cantidad)))
		subtotal = subtotal.Add(lineSubtotal)
		detalles = append(detalles, model.VentaDetalle{
			NombreProducto:   p.NombreProducto,
			VarianteProducto: p.VarianteProducto,
			Cantidad:         p.Cantidad,
			PrecioUnitario:   p.PrecioUnitario,
			Subtotal:         lineSubtotal,
		})
	}

	total := subtotal
	if req.TieneDomicilio {
		total = total.Add(req.TarifaDomicilio)
	}
	if req.MontoPagado.LessThan(total) {
		return nil, solicitudInvalida("monto pagado %s es menor al total %s",
			req.MontoPagado.String(), total.String())
	}

	venta := &model.Venta{
		ID:               uuid.New(),
		NumeroFactura:    req.NumeroFactura,
		Fecha:            fecha,
		Hora:             req.Hora,
		ClienteNombre:    req.ClienteNombre,
		ClienteTel:       req.ClienteTelefono,
		VendedorUsername: req.VendedorUsername,
		TieneDomicilio:   req.TieneDomicilio,
		DireccionEntrega: req.DireccionEntrega,
		Domiciliario:     req.Domiciliario,
		TarifaDomicilio:  req.TarifaDomicilio,
		SubtotalProductos: subtotal,
		MontoTotal:       total,
		MontoPagado:      req.MontoPagado,
		Vuelto:           req.MontoPagado.Sub(total),
		MetodoPago:       req.MetodoPago,
		ReferenciaPago:   req.ReferenciaPago,
		Detalles:         detalles,
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, venta); err != nil {
			return err
		}
		return s.stock.ConsumirInsumosTx(tx, items, &venta.ID)
	})
	if err != nil {
		return nil, errorTx("registro de venta", venta.NumeroFactura, err)
	}

	s.stock.InvalidarCache(ctx)
	s.notificarStockBajo(ctx)

	log.Info().
		Str("factura", venta.NumeroFactura).
		Str("vendedor", venta.VendedorUsername).
		Str("total", venta.MontoTotal.String()).
		Msg("venta registrada")

	return ventaToResponse(venta), nil
}

// ── AnularVenta ──────────────────────────────────────────────────────────────

// AnularVenta is a guarded one-way transition keyed by invoice number: the
// cancelled flag flips at most once, and ingredient restoration happens in
// the same transaction as the flip. A second cancellation attempt gets
// ErrVentaYaAnulada and restores nothing.
func (s *ventaService) AnularVenta(ctx context.Context, numeroFactura string, motivo string) (*dto.VentaResponse, error) {
	venta, err := s.repo.FindByNumeroFactura(ctx, numeroFactura)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVentaNoEncontrada
		}
		return nil, err
	}
	if venta.Anulada {
		return nil, ErrVentaYaAnulada
	}

	items := make([]dto.ItemCarrito, 0, len(venta.Detalles))
	for _, d := range venta.Detalles {
		items = append(items, dto.ItemCarrito{
			NombreProducto:   d.NombreProducto,
			VarianteProducto: d.VarianteProducto,
			Cantidad:         d.Cantidad,
		})
	}

	ahora := time.Now()
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		flipped, err := s.repo.MarcarAnuladaTx(tx, venta.ID, motivo, ahora)
		if err != nil {
			return err
		}
		if !flipped {
			// Lost the race against a concurrent cancellation.
			return ErrVentaYaAnulada
		}
		return s.stock.RestaurarInsumosTx(tx, items, &venta.ID)
	})
	if err != nil {
		return nil, errorTx("anulación de venta", venta.NumeroFactura, err)
	}

	s.stock.InvalidarCache(ctx)

	venta.Anulada = true
	venta.MotivoAnulacion = &motivo
	venta.AnuladaAt = &ahora

	log.Info().
		Str("factura", venta.NumeroFactura).
		Str("motivo", motivo).
		Msg("venta anulada, stock restaurado")

	return ventaToResponse(venta), nil
}

// ── Consultas ────────────────────────────────────────────────────────────────

func (s *ventaService) FindByID(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVentaNoEncontrada
		}
		return nil, err
	}
	return ventaToResponse(venta), nil
}

func (s *ventaService) FindByNumeroFactura(ctx context.Context, numero string) (*dto.VentaResponse, error) {
	venta, err := s.repo.FindByNumeroFactura(ctx, numero)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVentaNoEncontrada
		}
		return nil, err
	}
	return ventaToResponse(venta), nil
}

func (s *ventaService) ListVentas(ctx context.Context, filter dto.VentaFilter) ([]dto.VentaResponse, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 200 {
		filter.Limit = 50
	}
	ventas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		out = append(out, *ventaToResponse(&ventas[i]))
	}
	return out, total, nil
}

// ResumenVentas aggregates sales for today, this week, this month or this
// year. Weeks start on Monday.
func (s *ventaService) ResumenVentas(ctx context.Context, periodo string) (*dto.ResumenVentasResponse, error) {
	hoy := time.Now()
	var desde time.Time
	switch periodo {
	case "hoy", "":
		periodo = "hoy"
		desde = hoy
	case "semana":
		offset := (int(hoy.Weekday()) + 6) % 7
		desde = hoy.AddDate(0, 0, -offset)
	case "mes":
		desde = time.Date(hoy.Year(), hoy.Month(), 1, 0, 0, 0, 0, hoy.Location())
	case "anio":
		desde = time.Date(hoy.Year(), 1, 1, 0, 0, 0, 0, hoy.Location())
	default:
		return nil, solicitudInvalida("periodo inválido: %s", periodo)
	}

	totales, err := s.repo.Totales(ctx, desde, hoy)
	if err != nil {
		return nil, err
	}
	monto, err := decimal.NewFromString(totales.Total)
	if err != nil {
		monto = decimal.Zero
	}

	porMetodo, err := s.repo.TotalesPorMetodoPago(ctx, desde, hoy)
	if err != nil {
		return nil, err
	}
	desglose := make(map[string]decimal.Decimal, len(porMetodo))
	for _, row := range porMetodo {
		m, err := decimal.NewFromString(row.Total)
		if err != nil {
			continue
		}
		desglose[row.MetodoPago] = m
	}

	vendidos, err := s.repo.TopProductos(ctx, desde, hoy, 10)
	if err != nil {
		return nil, err
	}
	top := make([]dto.ProductoVendidoResponse, 0, len(vendidos))
	for _, row := range vendidos {
		t, err := decimal.NewFromString(row.Total)
		if err != nil {
			t = decimal.Zero
		}
		top = append(top, dto.ProductoVendidoResponse{
			NombreProducto:   row.NombreProducto,
			VarianteProducto: row.VarianteProducto,
			Unidades:         row.Unidades,
			Total:            t,
		})
	}

	return &dto.ResumenVentasResponse{
		Periodo:         periodo,
		Desde:           desde.Format("2006-01-02"),
		Hasta:           hoy.Format("2006-01-02"),
		TotalVentas:     totales.Cantidad,
		MontoTotal:      monto,
		TotalDomicilios: totales.Domicilios,
		PorMetodoPago:   desglose,
		TopProductos:    top,
	}, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

// notificarStockBajo queues one alert email when any ingredient crossed its
// minimum. Best-effort: a queue failure never fails the sale.
func (s *ventaService) notificarStockBajo(ctx context.Context) {
	if s.dispatcher == nil || s.alertEmail == "" {
		return
	}
	resumen, err := s.stock.ResumenStock(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("alerta stock: no se pudo leer el resumen")
		return
	}
	if resumen.InsumosStockBajo == 0 {
		return
	}

	bajos := make([]worker.InsumoBajo, 0, resumen.InsumosStockBajo)
	for _, ins := range resumen.Insumos {
		if ins.StockBajo {
			bajos = append(bajos, worker.InsumoBajo{
				Nombre:     ins.Nombre,
				Unidad:     ins.Unidad,
				Disponible: ins.Disponible.String(),
				Minimo:     ins.StockMinimo.String(),
			})
		}
	}
	payload := worker.AlertaStockPayload{ToEmail: s.alertEmail, Insumos: bajos}
	if err := s.dispatcher.EnqueueAlertaStock(ctx, payload); err != nil {
		log.Warn().Err(err).Msg("alerta stock: no se pudo encolar")
	}
}

func ventaToResponse(v *model.Venta) *dto.VentaResponse {
	detalles := make([]dto.VentaDetalleResponse, 0, len(v.Detalles))
	for _, d := range v.Detalles {
		detalles = append(detalles, dto.VentaDetalleResponse{
			NombreProducto:   d.NombreProducto,
			VarianteProducto: d.VarianteProducto,
			Cantidad:         d.Cantidad,
			PrecioUnitario:   d.PrecioUnitario,
			Subtotal:         d.Subtotal,
		})
	}
	return &dto.VentaResponse{
		ID:               v.ID,
		NumeroFactura:    v.NumeroFactura,
		Fecha:            v.Fecha.Format("2006-01-02"),
		Hora:             v.Hora,
		ClienteNombre:    v.ClienteNombre,
		ClienteTelefono:  v.ClienteTel,
		VendedorUsername: v.VendedorUsername,
		TieneDomicilio:   v.TieneDomicilio,
		DireccionEntrega: v.DireccionEntrega,
		Domiciliario:     v.Domiciliario,
		TarifaDomicilio:  v.TarifaDomicilio,
		Subtotal:         v.SubtotalProductos,
		MontoTotal:       v.MontoTotal,
		MontoPagado:      v.MontoPagado,
		Vuelto:           v.Vuelto,
		MetodoPago:       v.MetodoPago,
		ReferenciaPago:   v.ReferenciaPago,
		Anulada:          v.Anulada,
		MotivoAnulacion:  v.MotivoAnulacion,
		AnuladaAt:        v.AnuladaAt,
		Detalles:         detalles,
	}
}
