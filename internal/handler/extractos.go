package handler

import (
	"net/http"

	"github.com/chocoartesanto/backend-inventory/internal/dto"
	"github.com/chocoartesanto/backend-inventory/internal/service"

	"github.com/gin-gonic/gin"
)

type ExtractosHandler struct{ svc service.ExtractoService }

func NewExtractosHandler(svc service.ExtractoService) *ExtractosHandler {
	return &ExtractosHandler{svc: svc}
}

// Generar godoc
// @Summary      Generar extracto de ventas
// @Description  Construye un extracto diario, mensual o por rango, lo renderiza a PDF y opcionalmente lo envía por correo.
// @Tags         extractos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.ExtractoRequest true "Período del extracto"
// @Success      200 {object} dto.ExtractoResponse
// @Router       /v1/extractos [post]
func (h *ExtractosHandler) Generar(c *gin.Context) {
	var req dto.ExtractoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Generar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
