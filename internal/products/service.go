package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RepositoryAPI define lo que el service necesita del storage.
// Permite testear reglas de negocio con fakes sin tocar DB.
type RepositoryAPI interface {
	WithinTx(ctx context.Context, fn func(tx RepositoryAPI) error) error

	Insert(ctx context.Context, input ProductInput) (Product, error)
	GetByID(ctx context.Context, id string) (Product, error)
	List(ctx context.Context) ([]Product, error)
	Update(ctx context.Context, id string, input ProductInput) (Product, error)
	Delete(ctx context.Context, id string) error

	ExistsByName(ctx context.Context, name string) (bool, error)
	FindByCategory(ctx context.Context, category string) ([]Product, error)
	FindByNameContaining(ctx context.Context, fragment string) ([]Product, error)
	FindByPriceRange(ctx context.Context, minPrice, maxPrice decimal.Decimal) ([]Product, error)
	FindInStock(ctx context.Context) ([]Product, error)
	FindOutOfStock(ctx context.Context) ([]Product, error)
}

// Service contiene reglas de negocio de productos.
// Las escrituras corren dentro de una única transacción; las lecturas van directo al pool.
type Service struct {
	repository RepositoryAPI
	logger     *zap.Logger
}

// NewService crea un service de productos.
func NewService(repository RepositoryAPI, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repository: repository, logger: logger}
}

// Create crea un producto si no existe otro con el mismo nombre (sin importar mayúsculas).
func (service *Service) Create(ctx context.Context, input ProductInput) (Product, error) {
	service.logger.Info("creating product", zap.String("name", input.Name))

	var created Product
	err := service.repository.WithinTx(ctx, func(tx RepositoryAPI) error {
		exists, err := tx.ExistsByName(ctx, input.Name)
		if err != nil {
			return err
		}
		if exists {
			return ErrorDuplicateName
		}

		created, err = tx.Insert(ctx, input)
		return err
	})
	if err != nil {
		return Product{}, err
	}

	service.logger.Info("product created", zap.String("id", created.ID))
	return created, nil
}

// Get obtiene un producto por ID.
// Nota: el service no valida formato UUID; eso es responsabilidad del handler.
func (service *Service) Get(ctx context.Context, id string) (Product, error) {
	service.logger.Debug("fetching product", zap.String("id", id))

	product, err := service.repository.GetByID(ctx, id)
	if err != nil {
		return Product{}, notFoundOr(err)
	}
	return product, nil
}

// List devuelve todos los productos en el orden por defecto del storage.
func (service *Service) List(ctx context.Context) ([]Product, error) {
	service.logger.Debug("fetching all products")
	return service.repository.List(ctx)
}

// Update reemplaza todos los campos mutables de un producto existente.
// La unicidad solo se chequea si el nombre cambia: renombrar a sí mismo
// (aunque cambie el casing) nunca es duplicado.
func (service *Service) Update(ctx context.Context, id string, input ProductInput) (Product, error) {
	service.logger.Info("updating product", zap.String("id", id))

	var updated Product
	err := service.repository.WithinTx(ctx, func(tx RepositoryAPI) error {
		existing, err := tx.GetByID(ctx, id)
		if err != nil {
			return notFoundOr(err)
		}

		if !strings.EqualFold(existing.Name, input.Name) {
			exists, err := tx.ExistsByName(ctx, input.Name)
			if err != nil {
				return err
			}
			if exists {
				return ErrorDuplicateName
			}
		}

		updated, err = tx.Update(ctx, id, input)
		return notFoundOr(err)
	})
	if err != nil {
		return Product{}, err
	}

	service.logger.Info("product updated", zap.String("id", updated.ID))
	return updated, nil
}

// Delete elimina un producto por ID.
func (service *Service) Delete(ctx context.Context, id string) error {
	service.logger.Info("deleting product", zap.String("id", id))

	err := service.repository.WithinTx(ctx, func(tx RepositoryAPI) error {
		return notFoundOr(tx.Delete(ctx, id))
	})
	if err != nil {
		return err
	}

	service.logger.Info("product deleted", zap.String("id", id))
	return nil
}

// ListByCategory devuelve los productos con categoría exactamente igual.
func (service *Service) ListByCategory(ctx context.Context, category string) ([]Product, error) {
	return service.repository.FindByCategory(ctx, category)
}

// SearchByName busca por substring del nombre, sin distinguir mayúsculas.
func (service *Service) SearchByName(ctx context.Context, fragment string) ([]Product, error) {
	return service.repository.FindByNameContaining(ctx, fragment)
}

// ListByPriceRange devuelve productos con min <= price <= max, ordenados por precio ascendente.
func (service *Service) ListByPriceRange(ctx context.Context, minPrice, maxPrice decimal.Decimal) ([]Product, error) {
	if minPrice.GreaterThan(maxPrice) {
		return nil, fmt.Errorf("%w: minPrice cannot be greater than maxPrice", ErrorInvalidArgument)
	}
	return service.repository.FindByPriceRange(ctx, minPrice, maxPrice)
}

// ListInStock devuelve productos con stock, de mayor a menor cantidad.
func (service *Service) ListInStock(ctx context.Context) ([]Product, error) {
	return service.repository.FindInStock(ctx)
}

// ListOutOfStock devuelve productos con cantidad cero.
func (service *Service) ListOutOfStock(ctx context.Context) ([]Product, error) {
	return service.repository.FindOutOfStock(ctx)
}

// notFoundOr traduce la ausencia de filas a error de dominio.
func notFoundOr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrorNotFound
	}
	return err
}
