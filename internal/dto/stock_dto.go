package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemCarrito is the minimal shape the stock engine needs to validate or
// mutate stock for one cart line.
type ItemCarrito struct {
	NombreProducto   string  `json:"nombre_producto" binding:"required"`
	VarianteProducto *string `json:"variante_producto"`
	Cantidad         int     `json:"cantidad" binding:"required,gt=0"`
}

type ValidarStockRequest struct {
	Productos []ItemCarrito `json:"productos" binding:"required,min=1,dive"`
}

// ErrorStockItem describes one availability failure found during validation.
type ErrorStockItem struct {
	Producto   string          `json:"producto"`
	Insumo     string          `json:"insumo,omitempty"`
	Requerida  decimal.Decimal `json:"cantidad_requerida"`
	Disponible decimal.Decimal `json:"cantidad_disponible"`
	Mensaje    string          `json:"mensaje"`
}

type ValidarStockResponse struct {
	Valido  bool             `json:"valido"`
	Errores []ErrorStockItem `json:"errores,omitempty"`
}

// StockProductoResponse reports the derived availability of one product.
type StockProductoResponse struct {
	ProductoID     uuid.UUID       `json:"producto_id"`
	Nombre         string          `json:"nombre"`
	Variante       *string         `json:"variante,omitempty"`
	Precio         decimal.Decimal `json:"precio"`
	Categoria      *string         `json:"categoria,omitempty"`
	StockCalculado int             `json:"stock_calculado"`
	StockCantidad  int             `json:"stock_cantidad"`
	BajoDemanda    bool            `json:"bajo_demanda"`
	SinReceta      bool            `json:"sin_receta"`
	StockBajo      bool            `json:"stock_bajo"`
}

// RecetaDetalleResponse is one recipe line with a snapshot of the
// ingredient's current counters.
type RecetaDetalleResponse struct {
	InsumoID          uuid.UUID       `json:"insumo_id"`
	NombreInsumo      string          `json:"nombre_insumo"`
	Unidad            string          `json:"unidad"`
	CantidadPorUnidad decimal.Decimal `json:"cantidad_por_unidad"`
	CantidadUnitaria  decimal.Decimal `json:"cantidad_unitaria"`
	CantidadUtilizada decimal.Decimal `json:"cantidad_utilizada"`
	Disponible        decimal.Decimal `json:"disponible"`
}

type InsumoStockResponse struct {
	InsumoID          uuid.UUID       `json:"insumo_id"`
	Nombre            string          `json:"nombre"`
	Unidad            string          `json:"unidad"`
	CantidadUnitaria  decimal.Decimal `json:"cantidad_unitaria"`
	CantidadUtilizada decimal.Decimal `json:"cantidad_utilizada"`
	Disponible        decimal.Decimal `json:"disponible"`
	StockMinimo       decimal.Decimal `json:"stock_minimo"`
	StockBajo         bool            `json:"stock_bajo"`
	SitioReferencia   *string         `json:"sitio_referencia,omitempty"`
}

type ResumenStockResponse struct {
	TotalInsumos    int                   `json:"total_insumos"`
	InsumosStockBajo int                  `json:"insumos_stock_bajo"`
	Insumos         []InsumoStockResponse `json:"insumos"`
}
