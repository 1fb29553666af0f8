package services

import (
	"context"

	"github.com/google/uuid"

	"quitanda/internal/common"
	"quitanda/internal/models"
	"quitanda/internal/repositories"
	"quitanda/internal/validation"
)

type CategoryService interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	List(ctx context.Context) ([]*models.Category, error)
	ListChildren(ctx context.Context, parentID uuid.UUID) ([]*models.Category, error)
	Update(ctx context.Context, id uuid.UUID, update *models.CategoryUpdate) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	categoryRepo repositories.CategoryRepository
}

func NewCategoryService(categoryRepo repositories.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) Create(ctx context.Context, category *models.Category) error {
	if err := validation.Category(category).AsError(); err != nil {
		return err
	}

	if _, err := s.categoryRepo.GetByName(ctx, category.Name); err == nil {
		return common.Conflictf("category named %q already exists", category.Name)
	} else if !common.IsNotFound(err) {
		return err
	}

	if category.ParentID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *category.ParentID); err != nil {
			if common.IsNotFound(err) {
				return common.NotFoundf("parent category %q", *category.ParentID)
			}
			return err
		}
	}

	category.ID = uuid.New()
	return s.categoryRepo.Create(ctx, category)
}

func (s *categoryService) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}

func (s *categoryService) List(ctx context.Context) ([]*models.Category, error) {
	return s.categoryRepo.List(ctx)
}

// ListChildren requires the parent itself to resolve, even though an empty
// child list is a valid answer.
func (s *categoryService) ListChildren(ctx context.Context, parentID uuid.UUID) ([]*models.Category, error) {
	if _, err := s.categoryRepo.GetByID(ctx, parentID); err != nil {
		return nil, err
	}
	return s.categoryRepo.ListByParent(ctx, parentID)
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, update *models.CategoryUpdate) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := validation.CategoryUpdate(update).AsError(); err != nil {
		return nil, err
	}

	if update.Name != nil && *update.Name != category.Name {
		existing, err := s.categoryRepo.GetByName(ctx, *update.Name)
		if err == nil && existing.ID != id {
			return nil, common.Conflictf("category named %q already exists", *update.Name)
		} else if err != nil && !common.IsNotFound(err) {
			return nil, err
		}
	}

	if update.ParentID != nil {
		if *update.ParentID == id {
			return nil, common.Invalidf("category %q cannot be its own parent", id)
		}
		if _, err := s.categoryRepo.GetByID(ctx, *update.ParentID); err != nil {
			if common.IsNotFound(err) {
				return nil, common.NotFoundf("parent category %q", *update.ParentID)
			}
			return nil, err
		}
		category.ParentID = update.ParentID
	}

	if update.Name != nil {
		category.Name = *update.Name
	}
	if update.Description != nil {
		category.Description = update.Description
	}
	if update.Icon != nil {
		category.Icon = update.Icon
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes the category for good. A category with subcategories cannot
// be removed until its children are re-parented or deleted.
func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categoryRepo.GetByID(ctx, id); err != nil {
		return err
	}

	children, err := s.categoryRepo.CountChildren(ctx, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return common.Invalidf("category %q has %d subcategories and cannot be deleted", id, children)
	}

	return s.categoryRepo.Delete(ctx, id)
}
