package services

import (
	"context"

	"github.com/google/uuid"

	"quitanda/internal/common"
	"quitanda/internal/models"
	"quitanda/internal/repositories"
	"quitanda/internal/validation"
)

type SupplierService interface {
	Create(ctx context.Context, supplier *models.Supplier) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	List(ctx context.Context) ([]*models.Supplier, error)
	SearchByName(ctx context.Context, name string) ([]*models.Supplier, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, id uuid.UUID, update *models.SupplierUpdate) (*models.Supplier, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type supplierService struct {
	supplierRepo repositories.SupplierRepository
}

func NewSupplierService(supplierRepo repositories.SupplierRepository) SupplierService {
	return &supplierService{supplierRepo: supplierRepo}
}

// checkNameFree reports a conflict when another supplier already holds name.
func (s *supplierService) checkNameFree(ctx context.Context, name string, self uuid.UUID) error {
	existing, err := s.supplierRepo.GetByName(ctx, name)
	if err == nil && existing.ID != self {
		return common.Conflictf("supplier named %q already exists", name)
	}
	if err != nil && !common.IsNotFound(err) {
		return err
	}
	return nil
}

// checkEmailFree reports a conflict when another supplier already uses email.
func (s *supplierService) checkEmailFree(ctx context.Context, email string, self uuid.UUID) error {
	existing, err := s.supplierRepo.GetByEmail(ctx, email)
	if err == nil && existing.ID != self {
		return common.Conflictf("supplier email %q is already in use", email)
	}
	if err != nil && !common.IsNotFound(err) {
		return err
	}
	return nil
}

func (s *supplierService) Create(ctx context.Context, supplier *models.Supplier) error {
	if err := validation.Supplier(supplier).AsError(); err != nil {
		return err
	}

	if err := s.checkNameFree(ctx, supplier.Name, uuid.Nil); err != nil {
		return err
	}
	if supplier.Email != nil {
		if err := s.checkEmailFree(ctx, *supplier.Email, uuid.Nil); err != nil {
			return err
		}
	}

	supplier.ID = uuid.New()
	return s.supplierRepo.Create(ctx, supplier)
}

func (s *supplierService) GetByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	return s.supplierRepo.GetByID(ctx, id)
}

func (s *supplierService) List(ctx context.Context) ([]*models.Supplier, error) {
	return s.supplierRepo.List(ctx)
}

func (s *supplierService) SearchByName(ctx context.Context, name string) ([]*models.Supplier, error) {
	return s.supplierRepo.SearchByName(ctx, name)
}

func (s *supplierService) Count(ctx context.Context) (int, error) {
	return s.supplierRepo.Count(ctx)
}

func (s *supplierService) Update(ctx context.Context, id uuid.UUID, update *models.SupplierUpdate) (*models.Supplier, error) {
	supplier, err := s.supplierRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := validation.SupplierUpdate(update).AsError(); err != nil {
		return nil, err
	}

	if update.Name != nil && *update.Name != supplier.Name {
		if err := s.checkNameFree(ctx, *update.Name, id); err != nil {
			return nil, err
		}
	}
	if update.Email != nil && (supplier.Email == nil || *update.Email != *supplier.Email) {
		if err := s.checkEmailFree(ctx, *update.Email, id); err != nil {
			return nil, err
		}
	}

	if update.Name != nil {
		supplier.Name = *update.Name
	}
	if update.Email != nil {
		supplier.Email = update.Email
	}
	if update.Phone != nil {
		supplier.Phone = update.Phone
	}
	if update.PixKey != nil {
		supplier.PixKey = update.PixKey
	}

	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// Delete removes the supplier unconditionally. Products keep their supplier
// reference as a nullable link that simply resolves to nothing afterwards.
func (s *supplierService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.supplierRepo.Delete(ctx, id)
}
