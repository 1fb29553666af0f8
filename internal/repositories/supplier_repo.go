package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"quitanda/internal/common"
	"quitanda/internal/models"
)

type SupplierRepository interface {
	Create(ctx context.Context, supplier *models.Supplier) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	GetByName(ctx context.Context, name string) (*models.Supplier, error)
	GetByEmail(ctx context.Context, email string) (*models.Supplier, error)
	Update(ctx context.Context, supplier *models.Supplier) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*models.Supplier, error)
	SearchByName(ctx context.Context, name string) ([]*models.Supplier, error)
	Count(ctx context.Context) (int, error)
}

type supplierRepo struct {
	db DB
}

func NewSupplierRepo(db DB) SupplierRepository {
	return &supplierRepo{db: db}
}

const supplierColumns = `id, name, email, phone, pix_key, created_at, updated_at`

func (r *supplierRepo) scan(row pgx.Row) (*models.Supplier, error) {
	s := &models.Supplier{}
	err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.PixKey, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *supplierRepo) Create(ctx context.Context, supplier *models.Supplier) error {
	query := `
		INSERT INTO supplier (id, name, email, phone, pix_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, supplier.ID, supplier.Name, supplier.Email,
		supplier.Phone, supplier.PixKey).Scan(&supplier.CreatedAt, &supplier.UpdatedAt)
}

func (r *supplierRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM supplier WHERE id = $1`
	supplier, err := r.scan(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFoundf("supplier %q", id)
	}
	return supplier, err
}

func (r *supplierRepo) GetByName(ctx context.Context, name string) (*models.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM supplier WHERE name = $1`
	supplier, err := r.scan(r.db.QueryRow(ctx, query, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFoundf("supplier named %q", name)
	}
	return supplier, err
}

func (r *supplierRepo) GetByEmail(ctx context.Context, email string) (*models.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM supplier WHERE email = $1`
	supplier, err := r.scan(r.db.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFoundf("supplier with email %q", email)
	}
	return supplier, err
}

func (r *supplierRepo) Update(ctx context.Context, supplier *models.Supplier) error {
	query := `
		UPDATE supplier
		SET name = $1, email = $2, phone = $3, pix_key = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, supplier.Name, supplier.Email, supplier.Phone,
		supplier.PixKey, supplier.ID).Scan(&supplier.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return common.NotFoundf("supplier %q", supplier.ID)
	}
	return err
}

func (r *supplierRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM supplier WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFoundf("supplier %q", id)
	}
	return nil
}

func (r *supplierRepo) List(ctx context.Context) ([]*models.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM supplier ORDER BY name ASC`
	return r.queryMany(ctx, query)
}

// SearchByName does a case-sensitive substring match.
func (r *supplierRepo) SearchByName(ctx context.Context, name string) ([]*models.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM supplier WHERE name LIKE $1 ORDER BY name ASC`
	return r.queryMany(ctx, query, "%"+name+"%")
}

func (r *supplierRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM supplier`).Scan(&count)
	return count, err
}

func (r *supplierRepo) queryMany(ctx context.Context, query string, args ...any) ([]*models.Supplier, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var suppliers []*models.Supplier
	for rows.Next() {
		supplier, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		suppliers = append(suppliers, supplier)
	}
	return suppliers, rows.Err()
}
