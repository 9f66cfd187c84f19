package dto

import "github.com/shopspring/decimal"

// ExtractoRequest selects the period of a sales extract. Tipo decides which
// date fields apply: diario uses Fecha, mensual uses Anio+Mes, rango uses
// FechaInicio+FechaFin.
type ExtractoRequest struct {
	Tipo        string  `json:"tipo" binding:"required,oneof=diario mensual rango"`
	Fecha       *string `json:"fecha"`
	Anio        *int    `json:"anio"`
	Mes         *int    `json:"mes" binding:"omitempty,min=1,max=12"`
	FechaInicio *string `json:"fecha_inicio"`
	FechaFin    *string `json:"fecha_fin"`
	// Email, when set, queues the generated PDF for delivery.
	Email *string `json:"email" binding:"omitempty,email"`
}

type ExtractoLinea struct {
	NumeroFactura string          `json:"numero_factura"`
	Fecha         string          `json:"fecha"`
	Hora          string          `json:"hora"`
	Cliente       string          `json:"cliente"`
	Vendedor      string          `json:"vendedor"`
	MetodoPago    string          `json:"metodo_pago"`
	MontoTotal    decimal.Decimal `json:"monto_total"`
	Anulada       bool            `json:"anulada"`
}

type ExtractoResponse struct {
	Tipo         string          `json:"tipo"`
	Desde        string          `json:"desde"`
	Hasta        string          `json:"hasta"`
	TotalVentas  int             `json:"total_ventas"`
	TotalAnuladas int            `json:"total_anuladas"`
	MontoTotal   decimal.Decimal `json:"monto_total"`
	Lineas       []ExtractoLinea `json:"lineas"`
	PDFPath      string          `json:"pdf_path,omitempty"`
}
