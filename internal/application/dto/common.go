package dto

// ErrorResponse cuerpo de error HTTP. Code es estable para el cliente
// (VALIDATION, NOT_FOUND, CONFLICT, INSUFFICIENT_STOCK, ...); Message lleva el
// contexto accionable (campo, cantidades en conflicto, id duplicado).
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PageResponse metadatos de página en respuestas de listado.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}
