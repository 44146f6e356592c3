package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Pesokrava/storefront/internal/domain"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

func pgCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// reviewRow is a review joined to its product id
type reviewRow struct {
	ProductID uuid.UUID `db:"product_id"`
	domain.Review
}

// ProductRepository implements domain.ProductRepository for PostgreSQL
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new PostgreSQL product repository
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// List returns all products in insertion order with their reviews in
// submission order
func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	productsQuery := `
		SELECT id, name, description, image, price, category, stock, status
		FROM products
		ORDER BY position
	`

	var products []domain.Product
	if err := r.db.SelectContext(ctx, &products, productsQuery); err != nil {
		return nil, err
	}

	reviewsQuery := `
		SELECT product_id, id, user_id, rating, comment, date
		FROM reviews
		ORDER BY product_id, seq
	`

	var rows []reviewRow
	if err := r.db.SelectContext(ctx, &rows, reviewsQuery); err != nil {
		return nil, err
	}

	byProduct := make(map[uuid.UUID][]domain.Review, len(products))
	for _, row := range rows {
		byProduct[row.ProductID] = append(byProduct[row.ProductID], row.Review)
	}

	for i := range products {
		products[i].Reviews = byProduct[products[i].ID]
		products[i].RecomputeRating()
	}

	return products, nil
}

// Create creates a new product
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (id, name, description, image, price, category, stock, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Description,
		product.Image,
		product.Price,
		product.Category,
		product.Stock,
		product.Status,
		time.Now(),
	)
	if err != nil {
		if pgCode(err) == uniqueViolation {
			return domain.ErrDuplicateID
		}
		return err
	}

	return nil
}

// Update updates the scalar fields of an existing product
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $1, description = $2, image = $3, price = $4, category = $5, stock = $6, status = $7, updated_at = $8
		WHERE id = $9
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.Name,
		product.Description,
		product.Image,
		product.Price,
		product.Category,
		product.Stock,
		product.Status,
		time.Now(),
		product.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// Delete removes a product; its reviews go with it through the foreign key
func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}
