package service

import (
	"errors"
	"fmt"

	"github.com/chocoartesanto/backend-inventory/internal/dto"

	"github.com/shopspring/decimal"
)

var (
	ErrVentaNoEncontrada     = errors.New("venta no encontrada")
	ErrVentaYaAnulada        = errors.New("la venta ya fue anulada")
	ErrFacturaDuplicada      = errors.New("el número de factura ya existe")
	ErrCredencialesInvalidas = errors.New("credenciales inválidas")
	ErrUsuarioInactivo       = errors.New("el usuario está inactivo")
)

// SolicitudInvalidaError marks a request the business rules reject. It maps
// to a client error at the HTTP boundary, unlike infrastructure failures.
type SolicitudInvalidaError struct {
	Mensaje string
}

func (e *SolicitudInvalidaError) Error() string { return e.Mensaje }

func solicitudInvalida(format string, args ...interface{}) error {
	return &SolicitudInvalidaError{Mensaje: fmt.Sprintf(format, args...)}
}

// PersistenciaError hides raw datastore errors from API clients. The cause
// stays reachable through Unwrap for logs and tests.
type PersistenciaError struct {
	Op  string
	Err error
}

func (e *PersistenciaError) Error() string {
	return fmt.Sprintf("error de persistencia durante %s", e.Op)
}

func (e *PersistenciaError) Unwrap() error { return e.Err }

// ProductoNoEncontradoError signals that a cart line names a product that
// does not exist, even after stripping a " - variante" suffix.
type ProductoNoEncontradoError struct {
	Nombre   string
	Variante *string
}

func (e *ProductoNoEncontradoError) Error() string {
	if e.Variante != nil && *e.Variante != "" {
		return fmt.Sprintf("producto no encontrado: %s (variante %s)", e.Nombre, *e.Variante)
	}
	return fmt.Sprintf("producto no encontrado: %s", e.Nombre)
}

// RecetaNoDefinidaError signals a product with no recipe lines: it can be
// listed but never sold until its recipe is loaded.
type RecetaNoDefinidaError struct {
	Producto string
}

func (e *RecetaNoDefinidaError) Error() string {
	return fmt.Sprintf("el producto %s no tiene receta definida", e.Producto)
}

// StockInsuficienteError reports one ingredient shortage with exact
// required and available amounts so the frontend can show actionable detail.
type StockInsuficienteError struct {
	Producto   string
	Insumo     string
	Requerida  decimal.Decimal
	Disponible decimal.Decimal
}

func (e *StockInsuficienteError) Error() string {
	return fmt.Sprintf("stock insuficiente de %s para %s: se requiere %s, disponible %s",
		e.Insumo, e.Producto, e.Requerida.String(), e.Disponible.String())
}

// ValidacionStockError wraps every availability failure found in a cart.
// Validation never stops at the first problem: the caller gets the full
// picture in one round trip.
type ValidacionStockError struct {
	Errores []dto.ErrorStockItem
}

func (e *ValidacionStockError) Error() string {
	return fmt.Sprintf("el carrito tiene %d problema(s) de stock", len(e.Errores))
}
