package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VentaItemRequest is one cart line of an incoming sale. Products travel
// by display name (optionally "Nombre - Variante") plus unit count.
type VentaItemRequest struct {
	NombreProducto   string          `json:"nombre_producto" binding:"required"`
	VarianteProducto *string         `json:"variante_producto"`
	Cantidad         int             `json:"cantidad" binding:"required,gt=0"`
	PrecioUnitario   decimal.Decimal `json:"precio_unitario" binding:"required"`
}

type VentaRequest struct {
	NumeroFactura    string             `json:"numero_factura" binding:"required"`
	ClienteNombre    string             `json:"cliente_nombre" binding:"required"`
	ClienteTelefono  *string            `json:"cliente_telefono"`
	VendedorUsername string             `json:"vendedor_username" binding:"required"`
	Fecha            string             `json:"fecha" binding:"required"` // YYYY-MM-DD
	Hora             string             `json:"hora" binding:"required"`  // HH:MM:SS
	MetodoPago       string             `json:"metodo_pago" binding:"required,oneof=efectivo tarjeta transferencia nequi daviplata"`
	ReferenciaPago   *string            `json:"referencia_pago"`
	MontoPagado      decimal.Decimal    `json:"monto_pagado" binding:"required"`
	TieneDomicilio   bool               `json:"tiene_domicilio"`
	DireccionEntrega *string            `json:"direccion_entrega"`
	Domiciliario     *string            `json:"domiciliario"`
	TarifaDomicilio  decimal.Decimal    `json:"tarifa_domicilio"`
	Productos        []VentaItemRequest `json:"productos" binding:"required,min=1,dive"`
}

type AnulacionRequest struct {
	Motivo string `json:"motivo" binding:"required,min=5"`
}

type VentaDetalleResponse struct {
	NombreProducto   string          `json:"nombre_producto"`
	VarianteProducto *string         `json:"variante_producto,omitempty"`
	Cantidad         int             `json:"cantidad"`
	PrecioUnitario   decimal.Decimal `json:"precio_unitario"`
	Subtotal         decimal.Decimal `json:"subtotal"`
}

type VentaResponse struct {
	ID               uuid.UUID              `json:"id"`
	NumeroFactura    string                 `json:"numero_factura"`
	Fecha            string                 `json:"fecha"`
	Hora             string                 `json:"hora"`
	ClienteNombre    string                 `json:"cliente_nombre"`
	ClienteTelefono  *string                `json:"cliente_telefono,omitempty"`
	VendedorUsername string                 `json:"vendedor_username"`
	TieneDomicilio   bool                   `json:"tiene_domicilio"`
	DireccionEntrega *string                `json:"direccion_entrega,omitempty"`
	Domiciliario     *string                `json:"domiciliario,omitempty"`
	TarifaDomicilio  decimal.Decimal        `json:"tarifa_domicilio"`
	Subtotal         decimal.Decimal        `json:"subtotal_productos"`
	MontoTotal       decimal.Decimal        `json:"monto_total"`
	MontoPagado      decimal.Decimal        `json:"monto_pagado"`
	Vuelto           decimal.Decimal        `json:"vuelto"`
	MetodoPago       string                 `json:"metodo_pago"`
	ReferenciaPago   *string                `json:"referencia_pago,omitempty"`
	Anulada          bool                   `json:"anulada"`
	MotivoAnulacion  *string                `json:"motivo_anulacion,omitempty"`
	AnuladaAt        *time.Time             `json:"anulada_at,omitempty"`
	Detalles         []VentaDetalleResponse `json:"detalles"`
}

type ProductoVendidoResponse struct {
	NombreProducto   string          `json:"nombre_producto"`
	VarianteProducto *string         `json:"variante_producto,omitempty"`
	Unidades         int64           `json:"unidades"`
	Total            decimal.Decimal `json:"total"`
}

// ResumenVentasResponse aggregates sales for a dashboard period.
type ResumenVentasResponse struct {
	Periodo         string                     `json:"periodo"`
	Desde           string                     `json:"desde"`
	Hasta           string                     `json:"hasta"`
	TotalVentas     int64                      `json:"total_ventas"`
	MontoTotal      decimal.Decimal            `json:"monto_total"`
	TotalDomicilios int64                      `json:"total_domicilios"`
	PorMetodoPago   map[string]decimal.Decimal `json:"por_metodo_pago"`
	TopProductos    []ProductoVendidoResponse  `json:"top_productos"`
}
