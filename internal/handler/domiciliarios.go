package handler

import (
	"net/http"

	"github.com/chocoartesanto/backend-inventory/internal/apierror"
	"github.com/chocoartesanto/backend-inventory/internal/dto"
	"github.com/chocoartesanto/backend-inventory/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DomiciliariosHandler struct{ svc service.DomiciliarioService }

func NewDomiciliariosHandler(svc service.DomiciliarioService) *DomiciliariosHandler {
	return &DomiciliariosHandler{svc: svc}
}

func (h *DomiciliariosHandler) Crear(c *gin.Context) {
	var req dto.DomiciliarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *DomiciliariosHandler) Listar(c *gin.Context) {
	soloActivos := c.DefaultQuery("activos", "true") != "false"
	resp, err := h.svc.Listar(c.Request.Context(), soloActivos)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DomiciliariosHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.DomiciliarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DomiciliariosHandler) Desactivar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := h.svc.Desactivar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
