package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"homestock/internal/models"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	ListByOwner(ctx context.Context, ownerID int64) ([]*models.Product, error)
	ListLowStock(ctx context.Context, ownerID int64) ([]*models.Product, error)
	ListByCategory(ctx context.Context, ownerID, categoryID int64) ([]*models.Product, error)
	ListOrphans(ctx context.Context, ownerID int64) ([]*models.Product, error)
	ListOwners(ctx context.Context) ([]int64, error)
	GetByID(ctx context.Context, ownerID, id int64) (*models.Product, error)
	UpdateQuantity(ctx context.Context, ownerID, id int64, quantity float64) error
	UpdateThreshold(ctx context.Context, ownerID, id int64, threshold float64) error
	UpdateCategory(ctx context.Context, ownerID, id int64, categoryID *int64) error
	Delete(ctx context.Context, ownerID, id int64) error
}

type productRepo struct {
	db Database
}

func NewProductRepo(db Database) ProductRepository {
	return &productRepo{db: db}
}

// Categoryless products join with a '~' placeholder so they sort after every
// real category name and cluster together. The formatter relies on this
// ordering and never re-sorts.
const (
	productInsertSQL = `INSERT INTO products (owner_id, category_id, name, quantity, unit, threshold) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	productListSQL   = `SELECT p.id, p.owner_id, p.category_id, p.name, p.quantity, p.unit, p.threshold, c.name AS category_name
		FROM products p LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.owner_id = $1
		ORDER BY COALESCE(c.name, '~'), p.name`
	productLowStockSQL = `SELECT p.id, p.owner_id, p.category_id, p.name, p.quantity, p.unit, p.threshold, c.name AS category_name
		FROM products p LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.owner_id = $1 AND p.quantity <= p.threshold
		ORDER BY COALESCE(c.name, '~'), p.name`
	productByCategorySQL = `SELECT id, owner_id, category_id, name, quantity, unit, threshold FROM products
		WHERE owner_id = $1 AND category_id = $2 ORDER BY name`
	productOrphansSQL = `SELECT id, owner_id, category_id, name, quantity, unit, threshold FROM products
		WHERE owner_id = $1 AND category_id IS NULL ORDER BY name`
	productOwnersSQL       = `SELECT DISTINCT owner_id FROM products ORDER BY owner_id`
	productGetSQL          = `SELECT id, owner_id, category_id, name, quantity, unit, threshold FROM products WHERE owner_id = $1 AND id = $2`
	productSetQuantitySQL  = `UPDATE products SET quantity = GREATEST($3, 0) WHERE owner_id = $1 AND id = $2`
	productSetThresholdSQL = `UPDATE products SET threshold = GREATEST($3, 0) WHERE owner_id = $1 AND id = $2`
	productSetCategorySQL  = `UPDATE products SET category_id = $3 WHERE owner_id = $1 AND id = $2`
	productDeleteSQL       = `DELETE FROM products WHERE owner_id = $1 AND id = $2`
)

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	if product.Unit == "" {
		product.Unit = models.DefaultUnit
	}
	err := r.db.QueryRow(ctx, productInsertSQL,
		product.OwnerID, product.CategoryID, product.Name,
		product.Quantity, product.Unit, product.Threshold,
	).Scan(&product.ID)
	if err != nil {
		return fmt.Errorf("creating product: %w", err)
	}
	return nil
}

func (r *productRepo) ListByOwner(ctx context.Context, ownerID int64) ([]*models.Product, error) {
	return r.queryJoined(ctx, productListSQL, ownerID)
}

func (r *productRepo) ListLowStock(ctx context.Context, ownerID int64) ([]*models.Product, error) {
	return r.queryJoined(ctx, productLowStockSQL, ownerID)
}

func (r *productRepo) queryJoined(ctx context.Context, query string, ownerID int64) ([]*models.Product, error) {
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product := &models.Product{}
		if err := rows.Scan(&product.ID, &product.OwnerID, &product.CategoryID, &product.Name,
			&product.Quantity, &product.Unit, &product.Threshold, &product.CategoryName); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (r *productRepo) ListByCategory(ctx context.Context, ownerID, categoryID int64) ([]*models.Product, error) {
	return r.queryPlain(ctx, productByCategorySQL, ownerID, categoryID)
}

func (r *productRepo) ListOrphans(ctx context.Context, ownerID int64) ([]*models.Product, error) {
	return r.queryPlain(ctx, productOrphansSQL, ownerID)
}

func (r *productRepo) queryPlain(ctx context.Context, query string, args ...any) ([]*models.Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product := &models.Product{}
		if err := rows.Scan(&product.ID, &product.OwnerID, &product.CategoryID, &product.Name,
			&product.Quantity, &product.Unit, &product.Threshold); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (r *productRepo) ListOwners(ctx context.Context) ([]int64, error) {
	rows, err := r.db.Query(ctx, productOwnersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing owners: %w", err)
	}
	defer rows.Close()

	var owners []int64
	for rows.Next() {
		var owner int64
		if err := rows.Scan(&owner); err != nil {
			return nil, fmt.Errorf("scanning owner: %w", err)
		}
		owners = append(owners, owner)
	}
	return owners, rows.Err()
}

func (r *productRepo) GetByID(ctx context.Context, ownerID, id int64) (*models.Product, error) {
	product := &models.Product{}
	err := r.db.QueryRow(ctx, productGetSQL, ownerID, id).Scan(&product.ID, &product.OwnerID,
		&product.CategoryID, &product.Name, &product.Quantity, &product.Unit, &product.Threshold)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting product: %w", err)
	}
	return product, nil
}

func (r *productRepo) UpdateQuantity(ctx context.Context, ownerID, id int64, quantity float64) error {
	return r.exec(ctx, productSetQuantitySQL, ownerID, id, quantity)
}

func (r *productRepo) UpdateThreshold(ctx context.Context, ownerID, id int64, threshold float64) error {
	return r.exec(ctx, productSetThresholdSQL, ownerID, id, threshold)
}

func (r *productRepo) UpdateCategory(ctx context.Context, ownerID, id int64, categoryID *int64) error {
	return r.exec(ctx, productSetCategorySQL, ownerID, id, categoryID)
}

func (r *productRepo) Delete(ctx context.Context, ownerID, id int64) error {
	return r.exec(ctx, productDeleteSQL, ownerID, id)
}

func (r *productRepo) exec(ctx context.Context, query string, args ...any) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
