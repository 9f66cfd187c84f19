package handler

import (
	"net/http"

	"github.com/chocoartesanto/backend-inventory/internal/apierror"
	"github.com/chocoartesanto/backend-inventory/internal/dto"
	"github.com/chocoartesanto/backend-inventory/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type StockHandler struct{ svc service.StockService }

func NewStockHandler(svc service.StockService) *StockHandler { return &StockHandler{svc: svc} }

// ValidarStock godoc
// @Summary      Validar disponibilidad de un carrito
// @Description  Revisa todo el carrito contra el stock de insumos sin consumir nada. Reporta todos los faltantes, no solo el primero.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.ValidarStockRequest true "Carrito a validar"
// @Success      200 {object} dto.ValidarStockResponse
// @Router       /v1/stock/validar [post]
func (h *StockHandler) ValidarStock(c *gin.Context) {
	var req dto.ValidarStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ValidarDisponibilidad(c.Request.Context(), req.Productos)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// StockProductos godoc
// @Summary      Stock derivado por producto
// @Description  Calcula cuántas unidades de cada producto activo pueden producirse con los insumos disponibles.
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.StockProductoResponse
// @Router       /v1/stock/productos [get]
func (h *StockHandler) StockProductos(c *gin.Context) {
	resp, err := h.svc.CalcularStockProductos(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RecetaProducto lists the recipe lines of one product with each
// ingredient's current counters.
func (h *StockHandler) RecetaProducto(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.RecetaDeProducto(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ResumenStock returns every ingredient with availability and low-stock flags.
func (h *StockHandler) ResumenStock(c *gin.Context) {
	resp, err := h.svc.ResumenStock(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ProductosStockBajo lists products whose derived stock sits at or below
// the configured threshold.
func (h *StockHandler) ProductosStockBajo(c *gin.Context) {
	resp, err := h.svc.ProductosStockBajo(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
