package products

import "errors"

// Errores de dominio (no HTTP). El handler los traduce a status codes.
var (
	ErrorValidation      = errors.New("validation failed")
	ErrorInvalidArgument = errors.New("invalid argument")
	ErrorDuplicateName   = errors.New("duplicate product name")
	ErrorNotFound        = errors.New("product not found")
)
