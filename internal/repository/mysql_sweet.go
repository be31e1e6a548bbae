package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"sweetshop/internal/models"
)

type MySQLSweetRepository struct {
	db *sql.DB
}

func NewMySQLSweetRepository(db *sql.DB) *MySQLSweetRepository {
	return &MySQLSweetRepository{db: db}
}

const sweetColumns = "id, name, category, price, quantity, created_by, created_at, updated_at"

// likeEscaper neutralizes LIKE wildcards so filter text is matched literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *MySQLSweetRepository) Create(ctx context.Context, sweet *models.Sweet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sweets (`+sweetColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sweet.ID, sweet.Name, sweet.Category, sweet.Price, sweet.Quantity,
		sweet.CreatedBy, sweet.CreatedAt, sweet.UpdatedAt,
	)
	if isDuplicateEntry(err) {
		return ErrDuplicateName
	}
	if err != nil {
		return fmt.Errorf("insert sweet: %w", err)
	}
	return nil
}

func (r *MySQLSweetRepository) FindByID(ctx context.Context, id string) (*models.Sweet, error) {
	var sweet models.Sweet
	var createdBy sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT `+sweetColumns+` FROM sweets WHERE id = ?`, id,
	).Scan(
		&sweet.ID, &sweet.Name, &sweet.Category, &sweet.Price, &sweet.Quantity,
		&createdBy, &sweet.CreatedAt, &sweet.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSweetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query sweet: %w", err)
	}
	sweet.CreatedBy = createdBy.String
	return &sweet, nil
}

func (r *MySQLSweetRepository) FindAll(ctx context.Context) ([]models.Sweet, error) {
	return r.selectMany(ctx, `SELECT `+sweetColumns+` FROM sweets ORDER BY created_at, id`)
}

func (r *MySQLSweetRepository) Search(ctx context.Context, filter SweetFilter) ([]models.Sweet, error) {
	query := `SELECT ` + sweetColumns + ` FROM sweets WHERE 1=1`
	var args []any

	if filter.Name != "" {
		query += ` AND LOWER(name) LIKE ?`
		args = append(args, "%"+likeEscaper.Replace(strings.ToLower(filter.Name))+"%")
	}
	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, filter.Category)
	}
	if filter.MinPrice != nil {
		query += ` AND price >= ?`
		args = append(args, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query += ` AND price <= ?`
		args = append(args, *filter.MaxPrice)
	}
	query += ` ORDER BY created_at, id`

	return r.selectMany(ctx, query, args...)
}

func (r *MySQLSweetRepository) selectMany(ctx context.Context, query string, args ...any) ([]models.Sweet, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sweets: %w", err)
	}
	defer rows.Close()

	sweets := []models.Sweet{}
	for rows.Next() {
		var sweet models.Sweet
		var createdBy sql.NullString
		err := rows.Scan(
			&sweet.ID, &sweet.Name, &sweet.Category, &sweet.Price, &sweet.Quantity,
			&createdBy, &sweet.CreatedAt, &sweet.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan sweet: %w", err)
		}
		sweet.CreatedBy = createdBy.String
		sweets = append(sweets, sweet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sweets: %w", err)
	}
	return sweets, nil
}

func (r *MySQLSweetRepository) Update(ctx context.Context, sweet *models.Sweet) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE sweets
		SET name = ?, category = ?, price = ?, quantity = ?, updated_at = ?
		WHERE id = ?`,
		sweet.Name, sweet.Category, sweet.Price, sweet.Quantity, sweet.UpdatedAt, sweet.ID,
	)
	if isDuplicateEntry(err) {
		return ErrDuplicateName
	}
	if err != nil {
		return fmt.Errorf("update sweet: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		// Either the row is gone or nothing changed; disambiguate.
		if _, err := r.FindByID(ctx, sweet.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *MySQLSweetRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sweets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete sweet: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrSweetNotFound
	}
	return nil
}

func (r *MySQLSweetRepository) DecrementQuantity(ctx context.Context, id string) (int, error) {
	// Conditional update is the per-row compare-and-set: concurrent purchases
	// of the same sweet serialize on the row and can never oversell.
	result, err := r.db.ExecContext(ctx, `
		UPDATE sweets
		SET quantity = quantity - 1, updated_at = NOW()
		WHERE id = ? AND quantity > 0`, id,
	)
	if err != nil {
		return 0, fmt.Errorf("decrement quantity: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return 0, err
		}
		return 0, ErrOutOfStock
	}
	return r.quantityOf(ctx, id)
}

func (r *MySQLSweetRepository) IncrementQuantity(ctx context.Context, id string, delta int) (int, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE sweets
		SET quantity = quantity + ?, updated_at = NOW()
		WHERE id = ?`, delta, id,
	)
	if err != nil {
		return 0, fmt.Errorf("increment quantity: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return 0, ErrSweetNotFound
	}
	return r.quantityOf(ctx, id)
}

func (r *MySQLSweetRepository) quantityOf(ctx context.Context, id string) (int, error) {
	var quantity int
	err := r.db.QueryRowContext(ctx, `SELECT quantity FROM sweets WHERE id = ?`, id).Scan(&quantity)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrSweetNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("query quantity: %w", err)
	}
	return quantity, nil
}
