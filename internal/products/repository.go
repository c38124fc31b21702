package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// Database es el subconjunto de pgx que usa el repositorio.
// Lo cumplen *pgxpool.Pool y pgx.Tx, así el mismo código corre dentro y fuera de transacción.
type Database interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository accede a la tabla products.
// Contiene SQL y mapeo DB → modelo.
type Repository struct {
	database Database
}

// NewRepository crea un repositorio de productos.
func NewRepository(database Database) *Repository {
	return &Repository{database: database}
}

// Postgres: unique_violation.
const uniqueViolationCode = "23505"

// price se lee como texto para no perder precisión en el scan.
const productColumns = `id, name, description, price::text, quantity, category, created_at, updated_at`

// WithinTx ejecuta fn con un repositorio atado a una transacción.
// Commit si fn termina sin error; rollback en cualquier otro caso.
func (repository *Repository) WithinTx(ctx context.Context, fn func(tx RepositoryAPI) error) (err error) {
	tx, err := repository.database.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				err = errors.Join(err, fmt.Errorf("rollback: %w", rollbackErr))
			}
		}
	}()

	if err = fn(&Repository{database: tx}); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Insert crea un producto y devuelve el registro persistido.
// Usamos RETURNING para obtener id y timestamps generados por DB.
func (repository *Repository) Insert(ctx context.Context, input ProductInput) (Product, error) {
	query := `
		INSERT INTO products (name, description, price, quantity, category)
		VALUES ($1, $2, $3::numeric, $4, $5)
		RETURNING ` + productColumns + `;
	`

	row := repository.database.QueryRow(ctx, query, input.Name, input.Description, priceArgument(input.Price), input.Quantity, input.Category)
	product, err := scanProduct(row)
	if err != nil {
		return Product{}, mapWriteError(err)
	}

	return product, nil
}

// GetByID devuelve pgx.ErrNoRows si no existe; el service lo traduce.
func (repository *Repository) GetByID(ctx context.Context, id string) (Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1;`

	return scanProduct(repository.database.QueryRow(ctx, query, id))
}

// List devuelve todos los productos.
func (repository *Repository) List(ctx context.Context) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at, id;`

	return repository.queryProducts(ctx, query)
}

// Update reemplaza los campos mutables. id y created_at no se tocan.
func (repository *Repository) Update(ctx context.Context, id string, input ProductInput) (Product, error) {
	query := `
		UPDATE products
		SET name = $2,
		    description = $3,
		    price = $4::numeric,
		    quantity = $5,
		    category = $6,
		    updated_at = now()
		WHERE id = $1
		RETURNING ` + productColumns + `;
	`

	row := repository.database.QueryRow(ctx, query, id, input.Name, input.Description, priceArgument(input.Price), input.Quantity, input.Category)
	product, err := scanProduct(row)
	if err != nil {
		return Product{}, mapWriteError(err)
	}

	return product, nil
}

// Delete elimina por id. Devuelve ErrorNotFound si no había fila.
func (repository *Repository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM products WHERE id = $1 RETURNING id;`

	var deletedID string
	if err := repository.database.QueryRow(ctx, query, id).Scan(&deletedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrorNotFound
		}
		return err
	}
	return nil
}

// ExistsByName compara sin distinguir mayúsculas, igual que el índice ux_products_name_lower.
func (repository *Repository) ExistsByName(ctx context.Context, name string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM products WHERE lower(name) = lower($1::text));`

	var exists bool
	if err := repository.database.QueryRow(ctx, query, name).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// FindByCategory hace match exacto.
func (repository *Repository) FindByCategory(ctx context.Context, category string) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE category = $1 ORDER BY created_at, id;`

	return repository.queryProducts(ctx, query, category)
}

// FindByNameContaining busca el fragmento como literal: %, _ y \ no actúan como comodines.
func (repository *Repository) FindByNameContaining(ctx context.Context, fragment string) ([]Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE name ILIKE '%' || $1::text || '%'
		ORDER BY created_at, id;
	`

	return repository.queryProducts(ctx, query, escapeLike(fragment))
}

// FindByPriceRange incluye ambos extremos y ordena por precio ascendente.
func (repository *Repository) FindByPriceRange(ctx context.Context, minPrice, maxPrice decimal.Decimal) ([]Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE price BETWEEN $1::numeric AND $2::numeric
		ORDER BY price ASC, id;
	`

	return repository.queryProducts(ctx, query, minPrice.String(), maxPrice.String())
}

// FindInStock devuelve quantity > 0, de mayor a menor.
func (repository *Repository) FindInStock(ctx context.Context) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE quantity > 0 ORDER BY quantity DESC, id;`

	return repository.queryProducts(ctx, query)
}

// FindOutOfStock devuelve quantity = 0.
func (repository *Repository) FindOutOfStock(ctx context.Context) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE quantity = 0 ORDER BY created_at, id;`

	return repository.queryProducts(ctx, query)
}

func (repository *Repository) queryProducts(ctx context.Context, query string, args ...any) ([]Product, error) {
	rows, err := repository.database.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Slice vacío (no nil) para que el JSON sea [] y no null.
	products := make([]Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (Product, error) {
	var (
		product Product
		price   string
	)

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&price,
		&product.Quantity,
		&product.Category,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return Product{}, err
	}

	product.Price, err = decimal.NewFromString(price)
	if err != nil {
		return Product{}, fmt.Errorf("parsing price %q: %w", price, err)
	}

	return product, nil
}

// mapWriteError traduce el conflicto del índice único a error de dominio.
// Cubre la carrera check-then-insert entre requests concurrentes.
func mapWriteError(err error) error {
	var postgresError *pgconn.PgError
	if errors.As(err, &postgresError) && postgresError.Code == uniqueViolationCode {
		return ErrorDuplicateName
	}
	return err
}

func priceArgument(price *decimal.Decimal) any {
	if price == nil {
		return nil
	}
	return price.StringFixed(2)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(fragment string) string {
	return likeEscaper.Replace(fragment)
}
