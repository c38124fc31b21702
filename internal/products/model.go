package products

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un registro persistido en DB.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Category    string          `json:"category"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// MarshalJSON serializa price como número JSON con exactamente dos decimales (ej: 9.90).
func (product Product) MarshalJSON() ([]byte, error) {
	type alias Product
	return json.Marshal(struct {
		alias
		Price json.Number `json:"price"`
	}{
		alias: alias(product),
		Price: json.Number(product.Price.StringFixed(2)),
	})
}

// ProductInput es el payload de create y update (PUT reemplaza todos los campos).
// Price y Quantity son punteros para distinguir "no vino" de cero. El máximo de
// Quantity es el de la columna integer de PostgreSQL.
type ProductInput struct {
	Name        string           `json:"name" validate:"required,min=2,max=100"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=500"`
	Price       *decimal.Decimal `json:"price"`
	Quantity    *int             `json:"quantity" validate:"required,min=0,max=2147483647"`
	Category    string           `json:"category" validate:"required,max=100"`
}

// Normalize limpia espacios en campos de texto que participan en búsquedas y unicidad.
func (input ProductInput) Normalize() ProductInput {
	input.Name = strings.TrimSpace(input.Name)
	input.Category = strings.TrimSpace(input.Category)
	return input
}
