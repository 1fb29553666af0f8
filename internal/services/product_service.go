package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"quitanda/internal/caching"
	"quitanda/internal/common"
	"quitanda/internal/models"
	"quitanda/internal/repositories"
	"quitanda/internal/validation"
)

const (
	// DefaultLowStockThreshold is used when a caller asks for low-stock
	// products without naming a threshold.
	DefaultLowStockThreshold = 10

	productCacheTTL = 15 * time.Minute

	imageBucket = "product-images"
)

type ProductService interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context) ([]*models.Product, error)
	ListActive(ctx context.Context) ([]*models.Product, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*models.Product, error)
	ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]*models.Product, error)
	SearchByName(ctx context.Context, name string) ([]*models.Product, error)
	ListByPriceRange(ctx context.Context, min, max decimal.Decimal) ([]*models.Product, error)
	ListLowStock(ctx context.Context, threshold int) ([]*models.Product, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, id uuid.UUID, update *models.ProductUpdate) (*models.Product, error)
	UpdateStock(ctx context.Context, id uuid.UUID, quantity int) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) (*models.Product, error)

	UploadImage(ctx context.Context, productID uuid.UUID, filename string, reader io.Reader, size int64, altText *string) (*models.ProductImage, error)
	ListImages(ctx context.Context, productID uuid.UUID) ([]*models.ProductImage, error)
	ImageURL(ctx context.Context, imageID uuid.UUID, expiry time.Duration) (string, error)
	DeleteImage(ctx context.Context, imageID uuid.UUID) error
}

type productService struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
	supplierRepo repositories.SupplierRepository
	imageRepo    repositories.ProductImageRepository
	storage      StorageService
	cache        caching.CacheService
	logger       *zap.Logger
}

func NewProductService(
	productRepo repositories.ProductRepository,
	categoryRepo repositories.CategoryRepository,
	supplierRepo repositories.SupplierRepository,
	imageRepo repositories.ProductImageRepository,
	storage StorageService,
	cache caching.CacheService,
	logger *zap.Logger,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		supplierRepo: supplierRepo,
		imageRepo:    imageRepo,
		storage:      storage,
		cache:        cache,
		logger:       logger,
	}
}

func (s *productService) Create(ctx context.Context, product *models.Product) error {
	if product.Unit == "" {
		product.Unit = models.DefaultUnit
	}
	if err := validation.Product(product).AsError(); err != nil {
		return err
	}

	// Name uniqueness spans soft-deleted rows too: a deleted product still
	// holds its name until it is restored or the row is purged by hand.
	if _, err := s.productRepo.GetByName(ctx, product.Name); err == nil {
		return common.Conflictf("product named %q already exists", product.Name)
	} else if !common.IsNotFound(err) {
		return err
	}

	category, err := s.categoryRepo.GetByID(ctx, product.CategoryID)
	if err != nil {
		return err
	}

	var supplier *models.Supplier
	if product.SupplierID != nil {
		supplier, err = s.supplierRepo.GetByID(ctx, *product.SupplierID)
		if err != nil {
			return err
		}
	}

	if product.SellPrice.LessThan(product.CostPrice) {
		return common.Invalidf("sell price %s cannot be below cost price %s",
			product.SellPrice, product.CostPrice)
	}

	if product.ProfitMargin.IsZero() {
		product.ProfitMargin = models.ProfitMarginFor(product.CostPrice, product.SellPrice)
	}

	product.ID = uuid.New()
	if err := s.productRepo.Create(ctx, product); err != nil {
		return err
	}
	product.Category = category
	product.Supplier = supplier
	return nil
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if cached, err := s.cache.GetProduct(ctx, id); err != nil {
		s.logger.Warn("product cache read failed", zap.String("id", id.String()), zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	product, err := s.productRepo.GetByID(ctx, id, false)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetProduct(ctx, product, productCacheTTL); err != nil {
		s.logger.Warn("product cache write failed", zap.String("id", id.String()), zap.Error(err))
	}
	return product, nil
}

func (s *productService) List(ctx context.Context) ([]*models.Product, error) {
	return s.productRepo.List(ctx, false)
}

func (s *productService) ListActive(ctx context.Context) ([]*models.Product, error) {
	return s.productRepo.ListActive(ctx)
}

func (s *productService) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*models.Product, error) {
	return s.productRepo.ListByCategory(ctx, categoryID)
}

func (s *productService) ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]*models.Product, error) {
	return s.productRepo.ListBySupplier(ctx, supplierID)
}

func (s *productService) SearchByName(ctx context.Context, name string) ([]*models.Product, error) {
	return s.productRepo.SearchByName(ctx, name)
}

func (s *productService) ListByPriceRange(ctx context.Context, min, max decimal.Decimal) ([]*models.Product, error) {
	return s.productRepo.ListByPriceRange(ctx, min, max)
}

func (s *productService) ListLowStock(ctx context.Context, threshold int) ([]*models.Product, error) {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	return s.productRepo.ListLowStock(ctx, threshold)
}

func (s *productService) Count(ctx context.Context) (int, error) {
	return s.productRepo.Count(ctx)
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, update *models.ProductUpdate) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id, false)
	if err != nil {
		return nil, err
	}

	if err := validation.ProductUpdate(update).AsError(); err != nil {
		return nil, err
	}

	if update.Name != nil && *update.Name != product.Name {
		existing, err := s.productRepo.GetByName(ctx, *update.Name)
		if err == nil && existing.ID != id {
			return nil, common.Conflictf("product named %q already exists", *update.Name)
		} else if err != nil && !common.IsNotFound(err) {
			return nil, err
		}
	}

	if update.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *update.CategoryID)
		if err != nil {
			return nil, err
		}
		product.CategoryID = *update.CategoryID
		product.Category = category
	}

	if update.SupplierID != nil {
		supplier, err := s.supplierRepo.GetByID(ctx, *update.SupplierID)
		if err != nil {
			return nil, err
		}
		product.SupplierID = update.SupplierID
		product.Supplier = supplier
	}

	// The price invariant is checked against the effective pair: new values
	// where supplied, prior values otherwise.
	cost := product.CostPrice
	if update.CostPrice != nil {
		cost = *update.CostPrice
	}
	sell := product.SellPrice
	if update.SellPrice != nil {
		sell = *update.SellPrice
	}
	if sell.LessThan(cost) {
		return nil, common.Invalidf("sell price %s cannot be below cost price %s", sell, cost)
	}

	product.CostPrice = cost
	product.SellPrice = sell
	if update.CostPrice != nil || update.SellPrice != nil {
		// A price change always recomputes the margin, even when the caller
		// supplied one in the same call.
		product.ProfitMargin = models.ProfitMarginFor(cost, sell)
	} else if update.ProfitMargin != nil {
		product.ProfitMargin = *update.ProfitMargin
	}

	if update.Name != nil {
		product.Name = *update.Name
	}
	if update.PromotionalPrice != nil {
		product.PromotionalPrice = update.PromotionalPrice
	}
	if update.StockQuantity != nil {
		product.StockQuantity = *update.StockQuantity
	}
	if update.Unit != nil {
		product.Unit = *update.Unit
	}
	if update.Active != nil {
		product.Active = *update.Active
	}
	if update.Notes != nil {
		product.Notes = update.Notes
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return product, nil
}

// UpdateStock overwrites the stock quantity as-is. Unlike create and update
// it applies negative values too; callers wanting the guard go through
// Update with a StockQuantity field.
func (s *productService) UpdateStock(ctx context.Context, id uuid.UUID, quantity int) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id, false)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.UpdateStock(ctx, id, quantity); err != nil {
		return nil, err
	}
	product.StockQuantity = quantity
	s.invalidate(ctx, id)
	return product, nil
}

// Delete soft-deletes. Deleting an already-deleted product refreshes the
// deletion stamp rather than failing.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productRepo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// Restore brings a soft-deleted product back. Restoring a live product is a
// no-op success.
func (s *productService) Restore(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id, true)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Restore(ctx, id); err != nil {
		return nil, err
	}
	product.DeletedAt = nil
	s.invalidate(ctx, id)
	return product, nil
}

func (s *productService) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.cache.DeleteProduct(ctx, id); err != nil {
		s.logger.Warn("product cache invalidation failed", zap.String("id", id.String()), zap.Error(err))
	}
}

func (s *productService) UploadImage(ctx context.Context, productID uuid.UUID, filename string, reader io.Reader, size int64, altText *string) (*models.ProductImage, error) {
	if _, err := s.productRepo.GetByID(ctx, productID, false); err != nil {
		return nil, err
	}

	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filepath.Base(filename), ext)
	objectKey := fmt.Sprintf("%s/%s%s", productID, base, ext)

	if err := s.storage.EnsureBucket(ctx, imageBucket); err != nil {
		return nil, fmt.Errorf("ensure bucket: %w", err)
	}
	if err := s.storage.Upload(ctx, imageBucket, objectKey, reader, size, "image/jpeg"); err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	image := &models.ProductImage{
		ID:        uuid.New(),
		ProductID: productID,
		ObjectKey: objectKey,
		AltText:   altText,
	}
	if err := s.imageRepo.Create(ctx, image); err != nil {
		return nil, err
	}
	return image, nil
}

func (s *productService) ListImages(ctx context.Context, productID uuid.UUID) ([]*models.ProductImage, error) {
	return s.imageRepo.ListByProduct(ctx, productID)
}

func (s *productService) ImageURL(ctx context.Context, imageID uuid.UUID, expiry time.Duration) (string, error) {
	image, err := s.imageRepo.GetByID(ctx, imageID)
	if err != nil {
		return "", err
	}
	return s.storage.PresignedURL(ctx, imageBucket, image.ObjectKey, expiry)
}

func (s *productService) DeleteImage(ctx context.Context, imageID uuid.UUID) error {
	image, err := s.imageRepo.GetByID(ctx, imageID)
	if err != nil {
		return err
	}

	if err := s.storage.Remove(ctx, imageBucket, image.ObjectKey); err != nil {
		s.logger.Warn("failed to delete image object", zap.String("key", image.ObjectKey), zap.Error(err))
	}
	return s.imageRepo.Delete(ctx, imageID)
}
