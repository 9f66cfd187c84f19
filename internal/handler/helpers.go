package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/chocoartesanto/backend-inventory/internal/apierror"
	"github.com/chocoartesanto/backend-inventory/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON inválido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps service errors to HTTP status codes and the canonical
// error envelope. Stock shortages become a 409 with the full per-ingredient
// breakdown.
func respondError(c *gin.Context, err error) {
	var valStock *service.ValidacionStockError
	if errors.As(err, &valStock) {
		detalles := make([]apierror.StockDetail, 0, len(valStock.Errores))
		for _, e := range valStock.Errores {
			detalles = append(detalles, apierror.StockDetail{
				Producto:   e.Producto,
				Insumo:     e.Insumo,
				Requerida:  e.Requerida.String(),
				Disponible: e.Disponible.String(),
				Mensaje:    e.Mensaje,
			})
		}
		c.JSON(http.StatusConflict, &apierror.StockError{
			Detail:  "stock insuficiente para completar la venta",
			Errores: detalles,
		})
		return
	}

	var stockInsuf *service.StockInsuficienteError
	if errors.As(err, &stockInsuf) {
		c.JSON(http.StatusConflict, &apierror.StockError{
			Detail: stockInsuf.Error(),
			Errores: []apierror.StockDetail{{
				Producto:   stockInsuf.Producto,
				Insumo:     stockInsuf.Insumo,
				Requerida:  stockInsuf.Requerida.String(),
				Disponible: stockInsuf.Disponible.String(),
				Mensaje:    stockInsuf.Error(),
			}},
		})
		return
	}

	var notFound *service.ProductoNoEncontradoError
	var sinReceta *service.RecetaNoDefinidaError
	var solicitud *service.SolicitudInvalidaError
	switch {
	case errors.As(err, &sinReceta):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.As(err, &notFound),
		errors.Is(err, service.ErrVentaNoEncontrada),
		errors.Is(err, service.ErrInsumoNoEncontrado),
		errors.Is(err, service.ErrProductoNoEncontrado),
		errors.Is(err, service.ErrCategoriaNoEncontrada),
		errors.Is(err, service.ErrDomiciliarioNoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrVentaYaAnulada),
		errors.Is(err, service.ErrFacturaDuplicada):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrCredencialesInvalidas),
		errors.Is(err, service.ErrUsuarioInactivo):
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
	case errors.As(err, &solicitud):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	default:
		// Anything unrecognized is an infrastructure failure; never echo
		// raw datastore errors to the client.
		c.JSON(http.StatusInternalServerError, apierror.New("error interno del servidor"))
	}
}
