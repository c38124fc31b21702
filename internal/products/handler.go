package products

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Lelo88/product-catalog-api/internal/httpx"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ServiceAPI define lo que el handler necesita.
// Permite testear handlers con stubs sin tocar DB.
type ServiceAPI interface {
	Create(ctx context.Context, input ProductInput) (Product, error)
	Get(ctx context.Context, id string) (Product, error)
	List(ctx context.Context) ([]Product, error)
	Update(ctx context.Context, id string, input ProductInput) (Product, error)
	Delete(ctx context.Context, id string) error

	ListByCategory(ctx context.Context, category string) ([]Product, error)
	SearchByName(ctx context.Context, fragment string) ([]Product, error)
	ListByPriceRange(ctx context.Context, minPrice, maxPrice decimal.Decimal) ([]Product, error)
	ListInStock(ctx context.Context) ([]Product, error)
	ListOutOfStock(ctx context.Context) ([]Product, error)
}

// Handler HTTP para productos.
// Solo traduce HTTP <-> dominio (service); es el único lugar que conoce status codes.
type Handler struct {
	service ServiceAPI
	logger  *zap.Logger
}

// NewHandler crea un handler de productos.
func NewHandler(service ServiceAPI, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}
}

// Create maneja POST /products.
func (handler *Handler) Create(writer http.ResponseWriter, request *http.Request) {
	input, ok := handler.decodeInput(writer, request)
	if !ok {
		return
	}

	product, err := handler.service.Create(request.Context(), input)
	if err != nil {
		handler.fail(writer, request, err, failureContext{name: input.Name})
		return
	}

	httpx.OK(writer, http.StatusCreated, "Product created successfully", product)
}

// List maneja GET /products.
func (handler *Handler) List(writer http.ResponseWriter, request *http.Request) {
	products, err := handler.service.List(request.Context())
	if err != nil {
		handler.fail(writer, request, err, failureContext{})
		return
	}

	httpx.OK(writer, http.StatusOK, fmt.Sprintf("Fetched %d products", len(products)), products)
}

// GetByID maneja GET /products/{id}.
// Valida que el id sea UUID porque en DB es uuid; esto evita errores innecesarios.
func (handler *Handler) GetByID(writer http.ResponseWriter, request *http.Request) {
	id, ok := parseID(writer, request)
	if !ok {
		return
	}

	product, err := handler.service.Get(request.Context(), id)
	if err != nil {
		handler.fail(writer, request, err, failureContext{id: id})
		return
	}

	httpx.OK(writer, http.StatusOK, "Product fetched", product)
}

// ListByCategory maneja GET /products/category/{category}.
func (handler *Handler) ListByCategory(writer http.ResponseWriter, request *http.Request) {
	category := chi.URLParam(request, "category")

	products, err := handler.service.ListByCategory(request.Context(), category)
	if err != nil {
		handler.fail(writer, request, err, failureContext{})
		return
	}

	httpx.OK(writer, http.StatusOK, fmt.Sprintf("Found %d products in: %s", len(products), category), products)
}

// Search maneja GET /products/search?name=.
// El parámetro es obligatorio; vacío ("name=") matchea todo.
func (handler *Handler) Search(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()
	if !query.Has("name") {
		httpx.Fail(writer, http.StatusBadRequest, "Validation failed: name: query parameter is required")
		return
	}

	products, err := handler.service.SearchByName(request.Context(), query.Get("name"))
	if err != nil {
		handler.fail(writer, request, err, failureContext{})
		return
	}

	httpx.OK(writer, http.StatusOK, fmt.Sprintf("Search returned %d results", len(products)), products)
}

// ListByPriceRange maneja GET /products/price-range?minPrice=&maxPrice=.
func (handler *Handler) ListByPriceRange(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()

	var violations []FieldViolation
	minPrice, violation := parsePriceParam(query, "minPrice")
	if violation != nil {
		violations = append(violations, *violation)
	}
	maxPrice, violation := parsePriceParam(query, "maxPrice")
	if violation != nil {
		violations = append(violations, *violation)
	}
	if len(violations) > 0 {
		handler.fail(writer, request, &ValidationError{Violations: violations}, failureContext{})
		return
	}

	products, err := handler.service.ListByPriceRange(request.Context(), minPrice, maxPrice)
	if err != nil {
		handler.fail(writer, request, err, failureContext{})
		return
	}

	httpx.OK(writer, http.StatusOK, fmt.Sprintf("Found %d products in price range", len(products)), products)
}

// ListInStock maneja GET /products/in-stock.
func (handler *Handler) ListInStock(writer http.ResponseWriter, request *http.Request) {
	products, err := handler.service.ListInStock(request.Context())
	if err != nil {
		handler.fail(writer, request, err, failureContext{})
		return
	}

	httpx.OK(writer, http.StatusOK, fmt.Sprintf("Found %d in-stock products", len(products)), products)
}

// ListOutOfStock maneja GET /products/out-of-stock.
func (handler *Handler) ListOutOfStock(writer http.ResponseWriter, request *http.Request) {
	products, err := handler.service.ListOutOfStock(request.Context())
	if err != nil {
		handler.fail(writer, request, err, failureContext{})
		return
	}

	httpx.OK(writer, http.StatusOK, fmt.Sprintf("Found %d out-of-stock products", len(products)), products)
}

// Update maneja PUT /products/{id}: reemplazo completo de los campos mutables.
func (handler *Handler) Update(writer http.ResponseWriter, request *http.Request) {
	id, ok := parseID(writer, request)
	if !ok {
		return
	}

	input, ok := handler.decodeInput(writer, request)
	if !ok {
		return
	}

	product, err := handler.service.Update(request.Context(), id, input)
	if err != nil {
		handler.fail(writer, request, err, failureContext{id: id, name: input.Name})
		return
	}

	httpx.OK(writer, http.StatusOK, "Product updated successfully", product)
}

// Delete maneja DELETE /products/{id}.
func (handler *Handler) Delete(writer http.ResponseWriter, request *http.Request) {
	id, ok := parseID(writer, request)
	if !ok {
		return
	}

	if err := handler.service.Delete(request.Context(), id); err != nil {
		handler.fail(writer, request, err, failureContext{id: id})
		return
	}

	httpx.OK(writer, http.StatusOK, "Product deleted successfully", nil)
}

// Tope del body de create/update; un producto válido ocupa menos de 1KB.
const maxBodyBytes = 64 << 10

// decodeInput lee, normaliza y valida el body. Si algo falla ya respondió 400
// y el service nunca se invoca.
func (handler *Handler) decodeInput(writer http.ResponseWriter, request *http.Request) (ProductInput, bool) {
	var input ProductInput
	body := http.MaxBytesReader(writer, request.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&input); err != nil {
		httpx.Fail(writer, http.StatusBadRequest, "Validation failed: invalid JSON body")
		return ProductInput{}, false
	}

	input = input.Normalize()
	if violations := input.Validate(); len(violations) > 0 {
		handler.fail(writer, request, &ValidationError{Violations: violations}, failureContext{})
		return ProductInput{}, false
	}

	return input, true
}

// maxPriceParamLength acota lo que se le pasa al parser de decimal.
const maxPriceParamLength = 32

// parsePriceParam valida formato y magnitud antes de que el valor llegue a
// cualquier comparación.
func parsePriceParam(query url.Values, name string) (decimal.Decimal, *FieldViolation) {
	raw := strings.TrimSpace(query.Get(name))
	if len(raw) > maxPriceParamLength {
		return decimal.Decimal{}, &FieldViolation{Field: name, Message: "must be a valid decimal number"}
	}

	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, &FieldViolation{Field: name, Message: "must be a valid decimal number"}
	}
	if !withinPriceMagnitude(value) {
		return decimal.Decimal{}, &FieldViolation{Field: name, Message: "must have at most 8 integer digits and 10 decimal places"}
	}
	return value, nil
}

func parseID(writer http.ResponseWriter, request *http.Request) (string, bool) {
	id := chi.URLParam(request, "id")
	if _, err := uuid.Parse(id); err != nil {
		httpx.Fail(writer, http.StatusBadRequest, "Validation failed: id: must be a valid UUID")
		return "", false
	}
	return id, true
}

// failureContext aporta los datos que aparecen en los mensajes de error.
type failureContext struct {
	id   string
	name string
}

// fail traduce errores de dominio a status code + mensaje del sobre.
func (handler *Handler) fail(writer http.ResponseWriter, request *http.Request, err error, failure failureContext) {
	var validationError *ValidationError

	switch {
	case errors.As(err, &validationError):
		httpx.Fail(writer, http.StatusBadRequest, "Validation failed: "+joinViolations(validationError.Violations))
	case errors.Is(err, ErrorInvalidArgument):
		httpx.Fail(writer, http.StatusBadRequest, strings.TrimPrefix(err.Error(), ErrorInvalidArgument.Error()+": "))
	case errors.Is(err, ErrorNotFound):
		httpx.Fail(writer, http.StatusNotFound, "Product not found with id: "+failure.id)
	case errors.Is(err, ErrorDuplicateName):
		httpx.Fail(writer, http.StatusConflict, "Product already exists with name: "+failure.name)
	default:
		// No filtramos detalles internos: quedan solo en el log.
		handler.logger.Error("unexpected error",
			zap.String("request_id", httpx.RequestIDFrom(request)),
			zap.String("method", request.Method),
			zap.String("path", request.URL.Path),
			zap.Error(err),
		)
		httpx.Fail(writer, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

func joinViolations(violations []FieldViolation) string {
	parts := make([]string, 0, len(violations))
	for _, violation := range violations {
		parts = append(parts, violation.String())
	}
	return strings.Join(parts, "; ")
}
