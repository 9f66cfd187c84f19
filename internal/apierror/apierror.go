// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// StockError carries the per-ingredient availability failures collected by
// the sale validator, so the client can show every problem at once.
type StockError struct {
	Detail  string        `json:"detail"`
	Errores []StockDetail `json:"errores"`
}

// StockDetail names one offending product/insumo pair with the numbers.
type StockDetail struct {
	Producto   string `json:"producto"`
	Insumo     string `json:"insumo,omitempty"`
	Requerida  string `json:"requerida,omitempty"`
	Disponible string `json:"disponible,omitempty"`
	Mensaje    string `json:"mensaje,omitempty"`
}
