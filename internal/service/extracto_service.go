package service

import (
	"context"
	"fmt"
	"time"

	"github.com/chocoartesanto/backend-inventory/internal/dto"
	"github.com/chocoartesanto/backend-inventory/internal/infra"
	"github.com/chocoartesanto/backend-inventory/internal/repository"
	"github.com/chocoartesanto/backend-inventory/internal/worker"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ExtractoService builds sales extracts (daily, monthly or arbitrary range),
// renders them to PDF and optionally queues the PDF for email delivery.
type ExtractoService interface {
	Generar(ctx context.Context, req dto.ExtractoRequest) (*dto.ExtractoResponse, error)
}

type extractoService struct {
	ventaRepo  repository.VentaRepository
	dispatcher *worker.Dispatcher
	pdfPath    string
}

func NewExtractoService(ventaRepo repository.VentaRepository, dispatcher *worker.Dispatcher, pdfPath string) ExtractoService {
	return &extractoService{ventaRepo: ventaRepo, dispatcher: dispatcher, pdfPath: pdfPath}
}

func (s *extractoService) Generar(ctx context.Context, req dto.ExtractoRequest) (*dto.ExtractoResponse, error) {
	desde, hasta, err := resolverPeriodo(req)
	if err != nil {
		return nil, err
	}

	ventas, err := s.ventaRepo.ListRango(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}

	resp := &dto.ExtractoResponse{
		Tipo:   req.Tipo,
		Desde:  desde.Format("2006-01-02"),
		Hasta:  hasta.Format("2006-01-02"),
		Lineas: make([]dto.ExtractoLinea, 0, len(ventas)),
	}
	total := decimal.Zero
	for i := range ventas {
		v := &ventas[i]
		resp.Lineas = append(resp.Lineas, dto.ExtractoLinea{
			NumeroFactura: v.NumeroFactura,
			Fecha:         v.Fecha.Format("2006-01-02"),
			Hora:          v.Hora,
			Cliente:       v.ClienteNombre,
			Vendedor:      v.VendedorUsername,
			MetodoPago:    v.MetodoPago,
			MontoTotal:    v.MontoTotal,
			Anulada:       v.Anulada,
		})
		if v.Anulada {
			resp.TotalAnuladas++
			continue
		}
		resp.TotalVentas++
		total = total.Add(v.MontoTotal)
	}
	resp.MontoTotal = total

	if s.pdfPath != "" {
		pdfFile, err := infra.GenerateExtractoPDF(resp, s.pdfPath)
		if err != nil {
			return nil, fmt.Errorf("extracto: generar PDF: %w", err)
		}
		resp.PDFPath = pdfFile
	}

	if req.Email != nil && *req.Email != "" && s.dispatcher != nil {
		payload := worker.EmailJobPayload{
			ToEmail: *req.Email,
			Subject: fmt.Sprintf("Extracto de ventas %s a %s", resp.Desde, resp.Hasta),
			Body:    fmt.Sprintf("Adjunto el extracto de ventas. Total: $%s en %d venta(s).", total.StringFixed(2), resp.TotalVentas),
			PDFPath: resp.PDFPath,
		}
		if err := s.dispatcher.EnqueueEmail(ctx, payload); err != nil {
			// Delivery is best-effort; the extract itself already succeeded.
			log.Warn().Err(err).Str("to", *req.Email).Msg("extracto: no se pudo encolar el email")
		}
	}

	return resp, nil
}

func resolverPeriodo(req dto.ExtractoRequest) (time.Time, time.Time, error) {
	switch req.Tipo {
	case "diario":
		if req.Fecha == nil {
			return time.Time{}, time.Time{}, solicitudInvalida("extracto diario requiere fecha")
		}
		dia, err := time.Parse("2006-01-02", *req.Fecha)
		if err != nil {
			return time.Time{}, time.Time{}, solicitudInvalida("fecha inválida: %v", err)
		}
		return dia, dia, nil
	case "mensual":
		if req.Anio == nil || req.Mes == nil {
			return time.Time{}, time.Time{}, solicitudInvalida("extracto mensual requiere anio y mes")
		}
		desde := time.Date(*req.Anio, time.Month(*req.Mes), 1, 0, 0, 0, 0, time.UTC)
		hasta := desde.AddDate(0, 1, -1)
		return desde, hasta, nil
	case "rango":
		if req.FechaInicio == nil || req.FechaFin == nil {
			return time.Time{}, time.Time{}, solicitudInvalida("extracto por rango requiere fecha_inicio y fecha_fin")
		}
		desde, err := time.Parse("2006-01-02", *req.FechaInicio)
		if err != nil {
			return time.Time{}, time.Time{}, solicitudInvalida("fecha_inicio inválida: %v", err)
		}
		hasta, err := time.Parse("2006-01-02", *req.FechaFin)
		if err != nil {
			return time.Time{}, time.Time{}, solicitudInvalida("fecha_fin inválida: %v", err)
		}
		if hasta.Before(desde) {
			return time.Time{}, time.Time{}, solicitudInvalida("fecha_fin no puede ser anterior a fecha_inicio")
		}
		return desde, hasta, nil
	default:
		return time.Time{}, time.Time{}, solicitudInvalida("tipo de extracto inválido: %s", req.Tipo)
	}
}
