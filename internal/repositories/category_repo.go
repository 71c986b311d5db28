package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"homestock/internal/models"
)

type CategoryRepository interface {
	Create(ctx context.Context, ownerID int64, name string) (*models.Category, error)
	List(ctx context.Context, ownerID int64) ([]*models.Category, error)
	GetByID(ctx context.Context, ownerID, id int64) (*models.Category, error)
	Rename(ctx context.Context, ownerID, id int64, newName string) error
	Delete(ctx context.Context, ownerID, id int64) error
	CountProducts(ctx context.Context, ownerID, categoryID int64) (int, error)
}

type categoryRepo struct {
	db Database
}

func NewCategoryRepo(db Database) CategoryRepository {
	return &categoryRepo{db: db}
}

const (
	categoryInsertSQL = `INSERT INTO categories (owner_id, name) VALUES ($1, $2) RETURNING id`
	categoryListSQL   = `SELECT id, owner_id, name FROM categories WHERE owner_id = $1 ORDER BY id`
	categoryGetSQL    = `SELECT id, owner_id, name FROM categories WHERE owner_id = $1 AND id = $2`
	categoryRenameSQL = `UPDATE categories SET name = $3 WHERE owner_id = $1 AND id = $2`
	categoryDetachSQL = `UPDATE products SET category_id = NULL WHERE owner_id = $1 AND category_id = $2`
	categoryDeleteSQL = `DELETE FROM categories WHERE owner_id = $1 AND id = $2`
	categoryCountSQL  = `SELECT COUNT(*) FROM products WHERE owner_id = $1 AND category_id = $2`
)

func (r *categoryRepo) Create(ctx context.Context, ownerID int64, name string) (*models.Category, error) {
	category := &models.Category{OwnerID: ownerID, Name: name}
	err := r.db.QueryRow(ctx, categoryInsertSQL, ownerID, name).Scan(&category.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, models.ErrDuplicateName
		}
		return nil, fmt.Errorf("creating category: %w", err)
	}
	return category, nil
}

func (r *categoryRepo) List(ctx context.Context, ownerID int64) ([]*models.Category, error) {
	rows, err := r.db.Query(ctx, categoryListSQL, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category := &models.Category{}
		if err := rows.Scan(&category.ID, &category.OwnerID, &category.Name); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *categoryRepo) GetByID(ctx context.Context, ownerID, id int64) (*models.Category, error) {
	category := &models.Category{}
	err := r.db.QueryRow(ctx, categoryGetSQL, ownerID, id).Scan(&category.ID, &category.OwnerID, &category.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting category: %w", err)
	}
	return category, nil
}

func (r *categoryRepo) Rename(ctx context.Context, ownerID, id int64, newName string) error {
	tag, err := r.db.Exec(ctx, categoryRenameSQL, ownerID, id, newName)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrDuplicateName
		}
		return fmt.Errorf("renaming category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Delete detaches every product in the category before removing the row,
// inside a single transaction so products never point at a dangling id.
func (r *categoryRepo) Delete(ctx context.Context, ownerID, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning delete: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, categoryDetachSQL, ownerID, id); err != nil {
		return fmt.Errorf("detaching products: %w", err)
	}
	tag, err := tx.Exec(ctx, categoryDeleteSQL, ownerID, id)
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return tx.Commit(ctx)
}

func (r *categoryRepo) CountProducts(ctx context.Context, ownerID, categoryID int64) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, categoryCountSQL, ownerID, categoryID).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting products: %w", err)
	}
	return count, nil
}
