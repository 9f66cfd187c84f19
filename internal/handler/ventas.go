package handler

import (
	"net/http"

	"github.com/chocoartesanto/backend-inventory/internal/apierror"
	"github.com/chocoartesanto/backend-inventory/internal/dto"
	"github.com/chocoartesanto/backend-inventory/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type VentasHandler struct{ svc service.VentaService }

func NewVentasHandler(svc service.VentaService) *VentasHandler { return &VentasHandler{svc: svc} }

// RegistrarVenta godoc
// @Summary      Registrar una nueva venta
// @Description  Crea una venta atómica: valida el carrito completo, consume insumos según receta y ajusta contadores de producto.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.VentaRequest true "Detalle de la venta"
// @Success      201  {object} dto.VentaResponse
// @Failure      409  {object} apierror.StockError
// @Failure      400  {object} apierror.APIError
// @Router       /v1/ventas [post]
func (h *VentasHandler) RegistrarVenta(c *gin.Context) {
	var req dto.VentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarVenta(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// AnularVenta godoc
// @Summary      Anular venta
// @Description  Anula una venta por número de factura y restaura los insumos consumidos. Una venta ya anulada no puede anularse de nuevo.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        numero path     string               true "Número de factura"
// @Param        body   body     dto.AnulacionRequest true "Motivo de anulación"
// @Success      200    {object} dto.VentaResponse
// @Failure      404    {object} apierror.APIError
// @Failure      409    {object} apierror.APIError
// @Router       /v1/ventas/{numero} [delete]
func (h *VentasHandler) AnularVenta(c *gin.Context) {
	numero := c.Param("numero")
	var req dto.AnulacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AnularVenta(c.Request.Context(), numero, req.Motivo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerVenta returns one sale by UUID or by invoice number (?factura=).
func (h *VentasHandler) ObtenerVenta(c *gin.Context) {
	if factura := c.Query("factura"); factura != "" {
		resp, err := h.svc.FindByNumeroFactura(c.Request.Context(), factura)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarVentas godoc
// @Summary      Listar ventas
// @Description  Retorna lista paginada de ventas filtrada por fecha, cliente y estado.
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        fecha    query string false "Fecha YYYY-MM-DD"
// @Param        desde    query string false "Inicio del rango YYYY-MM-DD"
// @Param        hasta    query string false "Fin del rango YYYY-MM-DD"
// @Param        cliente  query string false "Nombre de cliente (parcial)"
// @Param        anuladas query string false "true | all (default: activas)"
// @Success      200      {object} map[string]interface{}
// @Router       /v1/ventas [get]
func (h *VentasHandler) ListarVentas(c *gin.Context) {
	var filter dto.VentaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("filtros inválidos: "+err.Error()))
		return
	}
	ventas, total, err := h.svc.ListVentas(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ventas": ventas,
		"total":  total,
		"page":   filter.Page,
		"limit":  filter.Limit,
	})
}

// ResumenVentas godoc
// @Summary      Resumen de ventas por período
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        periodo query string false "hoy | semana | mes | anio (default: hoy)"
// @Success      200 {object} dto.ResumenVentasResponse
// @Router       /v1/ventas/resumen [get]
func (h *VentasHandler) ResumenVentas(c *gin.Context) {
	resp, err := h.svc.ResumenVentas(c.Request.Context(), c.Query("periodo"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
