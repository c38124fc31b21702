package products

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// memoryRepository implementa RepositoryAPI en memoria para tests de service y de punta a punta.
// Replica las reglas del storage real: nombre único sin distinguir mayúsculas,
// pgx.ErrNoRows en lookups y rollback cuando el callback de WithinTx falla.
type memoryRepository struct {
	products []Product
	nextID   int
	clock    time.Time

	// errs fuerza errores por operación ("Insert", "ExistsByName", ...).
	errs  map[string]error
	calls []string

	txStarted   int
	txCommitted int
	txRolled    int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		errs:  map[string]error{},
		clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (repository *memoryRepository) record(operation string) error {
	repository.calls = append(repository.calls, operation)
	return repository.errs[operation]
}

func (repository *memoryRepository) called(operation string) bool {
	for _, call := range repository.calls {
		if call == operation {
			return true
		}
	}
	return false
}

func (repository *memoryRepository) tick() time.Time {
	repository.clock = repository.clock.Add(time.Second)
	return repository.clock
}

func (repository *memoryRepository) WithinTx(ctx context.Context, fn func(tx RepositoryAPI) error) error {
	if err := repository.record("WithinTx"); err != nil {
		return err
	}
	repository.txStarted++

	snapshot := append([]Product(nil), repository.products...)
	if err := fn(repository); err != nil {
		repository.products = snapshot
		repository.txRolled++
		return err
	}
	repository.txCommitted++
	return nil
}

func (repository *memoryRepository) Insert(ctx context.Context, input ProductInput) (Product, error) {
	if err := repository.record("Insert"); err != nil {
		return Product{}, err
	}
	if repository.indexOfName(input.Name, "") >= 0 {
		return Product{}, ErrorDuplicateName
	}

	repository.nextID++
	now := repository.tick()
	product := Product{
		ID:        fmt.Sprintf("00000000-0000-0000-0000-%012d", repository.nextID),
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyInput(&product, input)
	repository.products = append(repository.products, product)
	return product, nil
}

func (repository *memoryRepository) GetByID(ctx context.Context, id string) (Product, error) {
	if err := repository.record("GetByID"); err != nil {
		return Product{}, err
	}
	index := repository.indexOfID(id)
	if index < 0 {
		return Product{}, pgx.ErrNoRows
	}
	return repository.products[index], nil
}

func (repository *memoryRepository) List(ctx context.Context) ([]Product, error) {
	if err := repository.record("List"); err != nil {
		return nil, err
	}
	return repository.filter(func(Product) bool { return true }), nil
}

func (repository *memoryRepository) Update(ctx context.Context, id string, input ProductInput) (Product, error) {
	if err := repository.record("Update"); err != nil {
		return Product{}, err
	}
	index := repository.indexOfID(id)
	if index < 0 {
		return Product{}, pgx.ErrNoRows
	}
	if repository.indexOfName(input.Name, id) >= 0 {
		return Product{}, ErrorDuplicateName
	}

	product := repository.products[index]
	applyInput(&product, input)
	product.UpdatedAt = repository.tick()
	repository.products[index] = product
	return product, nil
}

func (repository *memoryRepository) Delete(ctx context.Context, id string) error {
	if err := repository.record("Delete"); err != nil {
		return err
	}
	index := repository.indexOfID(id)
	if index < 0 {
		return ErrorNotFound
	}
	repository.products = append(repository.products[:index:index], repository.products[index+1:]...)
	return nil
}

func (repository *memoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	if err := repository.record("ExistsByName"); err != nil {
		return false, err
	}
	return repository.indexOfName(name, "") >= 0, nil
}

func (repository *memoryRepository) FindByCategory(ctx context.Context, category string) ([]Product, error) {
	if err := repository.record("FindByCategory"); err != nil {
		return nil, err
	}
	return repository.filter(func(product Product) bool { return product.Category == category }), nil
}

func (repository *memoryRepository) FindByNameContaining(ctx context.Context, fragment string) ([]Product, error) {
	if err := repository.record("FindByNameContaining"); err != nil {
		return nil, err
	}
	needle := strings.ToLower(fragment)
	return repository.filter(func(product Product) bool {
		return strings.Contains(strings.ToLower(product.Name), needle)
	}), nil
}

func (repository *memoryRepository) FindByPriceRange(ctx context.Context, minPrice, maxPrice decimal.Decimal) ([]Product, error) {
	if err := repository.record("FindByPriceRange"); err != nil {
		return nil, err
	}
	products := repository.filter(func(product Product) bool {
		return product.Price.GreaterThanOrEqual(minPrice) && product.Price.LessThanOrEqual(maxPrice)
	})
	sort.SliceStable(products, func(i, j int) bool { return products[i].Price.LessThan(products[j].Price) })
	return products, nil
}

func (repository *memoryRepository) FindInStock(ctx context.Context) ([]Product, error) {
	if err := repository.record("FindInStock"); err != nil {
		return nil, err
	}
	products := repository.filter(func(product Product) bool { return product.Quantity > 0 })
	sort.SliceStable(products, func(i, j int) bool { return products[i].Quantity > products[j].Quantity })
	return products, nil
}

func (repository *memoryRepository) FindOutOfStock(ctx context.Context) ([]Product, error) {
	if err := repository.record("FindOutOfStock"); err != nil {
		return nil, err
	}
	return repository.filter(func(product Product) bool { return product.Quantity == 0 }), nil
}

func (repository *memoryRepository) filter(keep func(Product) bool) []Product {
	products := make([]Product, 0)
	for _, product := range repository.products {
		if keep(product) {
			products = append(products, product)
		}
	}
	return products
}

func (repository *memoryRepository) indexOfID(id string) int {
	for i, product := range repository.products {
		if product.ID == id {
			return i
		}
	}
	return -1
}

// indexOfName ignora el producto exceptID, igual que un UPDATE sobre la propia fila.
func (repository *memoryRepository) indexOfName(name, exceptID string) int {
	for i, product := range repository.products {
		if product.ID != exceptID && strings.EqualFold(product.Name, name) {
			return i
		}
	}
	return -1
}

func applyInput(product *Product, input ProductInput) {
	product.Name = input.Name
	product.Description = input.Description
	product.Price = input.Price.Round(2)
	product.Quantity = *input.Quantity
	product.Category = input.Category
}
