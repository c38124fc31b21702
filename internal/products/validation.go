package products

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	// numeric(10,2): hasta 8 dígitos enteros.
	priceIntegerDigits = 8
	// Escala aceptada antes de mirar los decimales: 9.990 es válido, 1e-100000000 no.
	priceMaxScale = 10
	// Un coeficiente de más de 64 bits (>= 20 dígitos) nunca entra en 8 enteros + 10 decimales.
	priceMaxCoefficientBits = 64
)

var (
	priceFloor = decimal.RequireFromString("0.01")

	validate = newValidator()
)

// FieldViolation describe un campo inválido del payload.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (violation FieldViolation) String() string {
	return violation.Field + ": " + violation.Message
}

// ValidationError agrupa las violaciones de un payload.
// Se compara con errors.Is contra ErrorValidation.
type ValidationError struct {
	Violations []FieldViolation
}

func (validationError *ValidationError) Error() string {
	parts := make([]string, 0, len(validationError.Violations))
	for _, violation := range validationError.Violations {
		parts = append(parts, violation.String())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (validationError *ValidationError) Is(target error) bool {
	return target == ErrorValidation
}

func newValidator() *validator.Validate {
	v := validator.New()
	// Reportamos los campos con el nombre JSON, que es lo que ve el cliente.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate chequea el payload y devuelve las violaciones encontradas (nil si es válido).
// Se espera un input ya normalizado.
func (input ProductInput) Validate() []FieldViolation {
	var violations []FieldViolation

	if err := validate.Struct(input); err != nil {
		var fieldErrors validator.ValidationErrors
		if !errors.As(err, &fieldErrors) {
			return []FieldViolation{{Field: "body", Message: err.Error()}}
		}
		for _, fieldError := range fieldErrors {
			violations = append(violations, FieldViolation{
				Field:   fieldError.Field(),
				Message: violationMessage(fieldError),
			})
		}
	}

	// Los decimales no tienen tags útiles en validator: se chequean a mano.
	if message := priceViolation(input.Price); message != "" {
		violations = append(violations, FieldViolation{Field: "price", Message: message})
	}

	return violations
}

// priceViolation chequea magnitud antes de comparar: decimal reescala a un
// big.Int de N dígitos en cada comparación, y con 1e100000000 eso son minutos de CPU.
func priceViolation(price *decimal.Decimal) string {
	if price == nil {
		return "Price is required"
	}
	if price.Sign() <= 0 {
		return "Price must be greater than 0"
	}

	integerDigits, scale := priceMagnitude(*price)
	switch {
	case integerDigits > priceIntegerDigits:
		return "Price must have at most 8 integer digits"
	case scale > priceMaxScale:
		return "Price must have at most 2 decimal places"
	case price.LessThan(priceFloor):
		return "Price must be greater than 0"
	case !price.Equal(price.Truncate(2)):
		return "Price must have at most 2 decimal places"
	default:
		return ""
	}
}

// withinPriceMagnitude indica si value tiene a lo sumo 8 dígitos enteros y 10 decimales.
// No hace aritmética sobre el valor, así que es seguro con exponentes arbitrarios.
func withinPriceMagnitude(value decimal.Decimal) bool {
	integerDigits, scale := priceMagnitude(value)
	return integerDigits <= priceIntegerDigits && scale <= priceMaxScale
}

// priceMagnitude devuelve la cantidad de dígitos enteros y la escala de value
// leyendo solo coeficiente y exponente.
func priceMagnitude(value decimal.Decimal) (integerDigits, scale int64) {
	exponent := int64(value.Exponent())
	if exponent < 0 {
		scale = -exponent
	}
	return coefficientDigits(value) + exponent, scale
}

func coefficientDigits(value decimal.Decimal) int64 {
	bits := value.Coefficient().BitLen()
	if bits <= priceMaxCoefficientBits {
		return int64(value.NumDigits())
	}
	// NumDigits calcula 10^n para coeficientes grandes; acá alcanza con estimar por bits.
	return int64(float64(bits)*math.Log10(2)) + 1
}

func violationMessage(fieldError validator.FieldError) string {
	switch fieldError.Field() {
	case "name":
		if fieldError.Tag() == "required" {
			return "Product name is required"
		}
		return "Name must be between 2 and 100 characters"
	case "description":
		return "Description cannot exceed 500 characters"
	case "quantity":
		switch fieldError.Tag() {
		case "required":
			return "Quantity is required"
		case "max":
			return "Quantity cannot exceed 2147483647"
		default:
			return "Quantity cannot be negative"
		}
	case "category":
		if fieldError.Tag() == "required" {
			return "Category is required"
		}
		return "Category cannot exceed 100 characters"
	default:
		return fmt.Sprintf("failed on %s", fieldError.Tag())
	}
}
