package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/chocoartesanto/backend-inventory/internal/dto"
	"github.com/chocoartesanto/backend-inventory/internal/model"
	"github.com/chocoartesanto/backend-inventory/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sembrarVenta(repo *stubVentaRepo, factura string, monto string, anulada bool) {
	v := &model.Venta{
		ID:               uuid.New(),
		NumeroFactura:    factura,
		Fecha:            time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
		Hora:             "10:00:00",
		ClienteNombre:    "Cliente",
		VendedorUsername: "vendedor1",
		MetodoPago:       "efectivo",
		MontoTotal:       dec(monto),
		Anulada:          anulada,
	}
	repo.ventas[v.ID] = v
}

func TestExtractoMensualTotaliza(t *testing.T) {
	ventaRepo := newStubVentaRepo()
	sembrarVenta(ventaRepo, "FAC-100", "40", false)
	sembrarVenta(ventaRepo, "FAC-101", "25", false)
	sembrarVenta(ventaRepo, "FAC-102", "60", true) // anulada: listed, not summed

	svc := service.NewExtractoService(ventaRepo, nil, "")

	anio, mes := 2026, 8
	resp, err := svc.Generar(context.Background(), dto.ExtractoRequest{
		Tipo: "mensual", Anio: &anio, Mes: &mes,
	})
	require.NoError(t, err)

	assert.Equal(t, "2026-08-01", resp.Desde)
	assert.Equal(t, "2026-08-31", resp.Hasta)
	assert.Equal(t, 2, resp.TotalVentas)
	assert.Equal(t, 1, resp.TotalAnuladas)
	assert.True(t, resp.MontoTotal.Equal(dec("65")))
	assert.Len(t, resp.Lineas, 3)
}

func TestExtractoRangoInvalido(t *testing.T) {
	svc := service.NewExtractoService(newStubVentaRepo(), nil, "")

	inicio, fin := "2026-08-20", "2026-08-10"
	_, err := svc.Generar(context.Background(), dto.ExtractoRequest{
		Tipo: "rango", FechaInicio: &inicio, FechaFin: &fin,
	})
	require.Error(t, err)

	_, err = svc.Generar(context.Background(), dto.ExtractoRequest{Tipo: "diario"})
	require.Error(t, err)
}
