package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"quitanda/internal/common"
	"quitanda/internal/models"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	// GetByID resolves the category eagerly and the supplier when one is
	// attached. Soft-deleted rows are only visible with includeDeleted.
	GetByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.Product, error)
	// GetByName checks all rows, soft-deleted included; it backs the
	// name-uniqueness check.
	GetByName(ctx context.Context, name string) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	UpdateStock(ctx context.Context, id uuid.UUID, quantity int) error
	SoftDelete(ctx context.Context, id uuid.UUID) (time.Time, error)
	Restore(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, includeDeleted bool) ([]*models.Product, error)
	ListActive(ctx context.Context) ([]*models.Product, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*models.Product, error)
	ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]*models.Product, error)
	SearchByName(ctx context.Context, name string) ([]*models.Product, error)
	ListByPriceRange(ctx context.Context, min, max decimal.Decimal) ([]*models.Product, error)
	ListLowStock(ctx context.Context, threshold int) ([]*models.Product, error)
	// Count spans every row, soft-deleted included.
	Count(ctx context.Context) (int, error)
}

type productRepo struct {
	db DB
}

func NewProductRepo(db DB) ProductRepository {
	return &productRepo{db: db}
}

// productSelect joins the category on every read and left-joins the supplier
// so the reference stays nullable even if the supplier row is gone.
const productSelect = `
	SELECT p.id, p.name, p.categoria_id, p.fornecedor_id,
	       p.cost_price, p.sell_price, p.profit_margin, p.promotional_price,
	       p.stock_quantity, p.unit, p.active, p.notes,
	       p.created_at, p.updated_at, p.deleted_at,
	       c.id, c.name, c.description, c.icon, c.parent_id, c.created_at, c.updated_at,
	       s.id, s.name, s.email, s.phone, s.pix_key, s.created_at, s.updated_at
	FROM product p
	JOIN category c ON c.id = p.categoria_id
	LEFT JOIN supplier s ON s.id = p.fornecedor_id
`

func (r *productRepo) scan(row pgx.Row) (*models.Product, error) {
	p := &models.Product{Category: &models.Category{}}
	c := p.Category

	var (
		supplierID        *uuid.UUID
		supplierName      *string
		supplierEmail     *string
		supplierPhone     *string
		supplierPixKey    *string
		supplierCreatedAt *time.Time
		supplierUpdatedAt *time.Time
	)

	err := row.Scan(
		&p.ID, &p.Name, &p.CategoryID, &p.SupplierID,
		&p.CostPrice, &p.SellPrice, &p.ProfitMargin, &p.PromotionalPrice,
		&p.StockQuantity, &p.Unit, &p.Active, &p.Notes,
		&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
		&c.ID, &c.Name, &c.Description, &c.Icon, &c.ParentID, &c.CreatedAt, &c.UpdatedAt,
		&supplierID, &supplierName, &supplierEmail, &supplierPhone, &supplierPixKey,
		&supplierCreatedAt, &supplierUpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if supplierID != nil {
		p.Supplier = &models.Supplier{
			ID:        *supplierID,
			Name:      *supplierName,
			Email:     supplierEmail,
			Phone:     supplierPhone,
			PixKey:    supplierPixKey,
			CreatedAt: *supplierCreatedAt,
			UpdatedAt: *supplierUpdatedAt,
		}
	}
	return p, nil
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO product (id, name, categoria_id, fornecedor_id, cost_price, sell_price,
			profit_margin, promotional_price, stock_quantity, unit, active, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, product.ID, product.Name, product.CategoryID,
		product.SupplierID, product.CostPrice, product.SellPrice, product.ProfitMargin,
		product.PromotionalPrice, product.StockQuantity, product.Unit, product.Active,
		product.Notes).Scan(&product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.Product, error) {
	query := productSelect + ` WHERE p.id = $1`
	if !includeDeleted {
		query += ` AND p.deleted_at IS NULL`
	}
	product, err := r.scan(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFoundf("product %q", id)
	}
	return product, err
}

func (r *productRepo) GetByName(ctx context.Context, name string) (*models.Product, error) {
	query := productSelect + ` WHERE p.name = $1`
	product, err := r.scan(r.db.QueryRow(ctx, query, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFoundf("product named %q", name)
	}
	return product, err
}

func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE product
		SET name = $1, categoria_id = $2, fornecedor_id = $3, cost_price = $4, sell_price = $5,
			profit_margin = $6, promotional_price = $7, stock_quantity = $8, unit = $9,
			active = $10, notes = $11, updated_at = NOW()
		WHERE id = $12
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, product.Name, product.CategoryID, product.SupplierID,
		product.CostPrice, product.SellPrice, product.ProfitMargin, product.PromotionalPrice,
		product.StockQuantity, product.Unit, product.Active, product.Notes,
		product.ID).Scan(&product.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return common.NotFoundf("product %q", product.ID)
	}
	return err
}

func (r *productRepo) UpdateStock(ctx context.Context, id uuid.UUID, quantity int) error {
	query := `UPDATE product SET stock_quantity = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, quantity, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFoundf("product %q", id)
	}
	return nil
}

// SoftDelete stamps deleted_at and returns the stamp. Re-deleting an already
// deleted row just refreshes the stamp.
func (r *productRepo) SoftDelete(ctx context.Context, id uuid.UUID) (time.Time, error) {
	var deletedAt time.Time
	query := `UPDATE product SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 RETURNING deleted_at`
	err := r.db.QueryRow(ctx, query, id).Scan(&deletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, common.NotFoundf("product %q", id)
	}
	return deletedAt, err
}

func (r *productRepo) Restore(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE product SET deleted_at = NULL, updated_at = NOW() WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFoundf("product %q", id)
	}
	return nil
}

func (r *productRepo) List(ctx context.Context, includeDeleted bool) ([]*models.Product, error) {
	query := productSelect
	if !includeDeleted {
		query += ` WHERE p.deleted_at IS NULL`
	}
	query += ` ORDER BY p.name ASC`
	return r.queryMany(ctx, query)
}

func (r *productRepo) ListActive(ctx context.Context) ([]*models.Product, error) {
	query := productSelect + ` WHERE p.deleted_at IS NULL AND p.active = TRUE ORDER BY p.name ASC`
	return r.queryMany(ctx, query)
}

func (r *productRepo) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*models.Product, error) {
	query := productSelect + ` WHERE p.deleted_at IS NULL AND p.categoria_id = $1 ORDER BY p.name ASC`
	return r.queryMany(ctx, query, categoryID)
}

func (r *productRepo) ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]*models.Product, error) {
	query := productSelect + ` WHERE p.deleted_at IS NULL AND p.fornecedor_id = $1 ORDER BY p.name ASC`
	return r.queryMany(ctx, query, supplierID)
}

func (r *productRepo) SearchByName(ctx context.Context, name string) ([]*models.Product, error) {
	query := productSelect + ` WHERE p.deleted_at IS NULL AND p.name ILIKE $1 ORDER BY p.name ASC`
	return r.queryMany(ctx, query, "%"+name+"%")
}

func (r *productRepo) ListByPriceRange(ctx context.Context, min, max decimal.Decimal) ([]*models.Product, error) {
	query := productSelect + ` WHERE p.deleted_at IS NULL AND p.sell_price BETWEEN $1 AND $2 ORDER BY p.sell_price ASC`
	return r.queryMany(ctx, query, min, max)
}

func (r *productRepo) ListLowStock(ctx context.Context, threshold int) ([]*models.Product, error) {
	query := productSelect + ` WHERE p.deleted_at IS NULL AND p.active = TRUE AND p.stock_quantity <= $1 ORDER BY p.stock_quantity ASC`
	return r.queryMany(ctx, query, threshold)
}

func (r *productRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM product`).Scan(&count)
	return count, err
}

func (r *productRepo) queryMany(ctx context.Context, query string, args ...any) ([]*models.Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}
