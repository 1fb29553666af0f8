package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"quitanda/internal/models"
	"quitanda/internal/services"
)

// ProductHandlers handles product-related HTTP requests
type ProductHandlers struct {
	productService services.ProductService
}

func NewProductHandlers(productService services.ProductService) *ProductHandlers {
	return &ProductHandlers{productService: productService}
}

// CreateProductRequest represents the product creation payload
type CreateProductRequest struct {
	Name             string           `json:"name"`
	CategoryID       uuid.UUID        `json:"category_id"`
	SupplierID       *uuid.UUID       `json:"supplier_id"`
	CostPrice        decimal.Decimal  `json:"cost_price"`
	SellPrice        decimal.Decimal  `json:"sell_price"`
	ProfitMargin     *decimal.Decimal `json:"profit_margin"`
	PromotionalPrice *decimal.Decimal `json:"promotional_price"`
	StockQuantity    *int             `json:"stock_quantity"`
	Unit             string           `json:"unit"`
	Active           *bool            `json:"active"`
	Notes            *string          `json:"notes"`
}

func (h *ProductHandlers) CreateProduct(c echo.Context) error {
	var req CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	product := &models.Product{
		Name:             req.Name,
		CategoryID:       req.CategoryID,
		SupplierID:       req.SupplierID,
		CostPrice:        req.CostPrice,
		SellPrice:        req.SellPrice,
		PromotionalPrice: req.PromotionalPrice,
		Unit:             req.Unit,
		Active:           true,
		Notes:            req.Notes,
	}
	if req.ProfitMargin != nil {
		product.ProfitMargin = *req.ProfitMargin
	}
	if req.StockQuantity != nil {
		product.StockQuantity = *req.StockQuantity
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	if err := h.productService.Create(c.Request().Context(), product); err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHandlers) ListProducts(c echo.Context) error {
	products, err := h.productService.List(c.Request().Context())
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandlers) ListActiveProducts(c echo.Context) error {
	products, err := h.productService.ListActive(c.Request().Context())
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandlers) ListLowStock(c echo.Context) error {
	threshold := 0
	if raw := c.QueryParam("threshold"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid threshold")
		}
		threshold = parsed
	}

	products, err := h.productService.ListLowStock(c.Request().Context(), threshold)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandlers) SearchProducts(c echo.Context) error {
	products, err := h.productService.SearchByName(c.Request().Context(), c.QueryParam("name"))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandlers) ListByPriceRange(c echo.Context) error {
	min, err := decimal.NewFromString(c.QueryParam("min"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid min price")
	}
	max, err := decimal.NewFromString(c.QueryParam("max"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid max price")
	}

	products, err := h.productService.ListByPriceRange(c.Request().Context(), min, max)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandlers) CountProducts(c echo.Context) error {
	count, err := h.productService.Count(c.Request().Context())
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, map[string]int{"count": count})
}

func (h *ProductHandlers) ListByCategory(c echo.Context) error {
	categoryID, err := uuid.Parse(c.Param("categoryId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid category ID")
	}

	products, err := h.productService.ListByCategory(c.Request().Context(), categoryID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandlers) ListBySupplier(c echo.Context) error {
	supplierID, err := uuid.Parse(c.Param("supplierId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid supplier ID")
	}

	products, err := h.productService.ListBySupplier(c.Request().Context(), supplierID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandlers) GetProduct(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid product ID")
	}

	product, err := h.productService.GetByID(c.Request().Context(), id)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandlers) UpdateProduct(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid product ID")
	}

	var update models.ProductUpdate
	if err := c.Bind(&update); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	product, err := h.productService.Update(c.Request().Context(), id, &update)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, product)
}

// UpdateStockRequest represents the stock replacement payload
type UpdateStockRequest struct {
	Quantity int `json:"quantity"`
}

func (h *ProductHandlers) UpdateStock(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid product ID")
	}

	var req UpdateStockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	product, err := h.productService.UpdateStock(c.Request().Context(), id, req.Quantity)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandlers) DeleteProduct(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid product ID")
	}

	if err := h.productService.Delete(c.Request().Context(), id); err != nil {
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHandlers) RestoreProduct(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid product ID")
	}

	product, err := h.productService.Restore(c.Request().Context(), id)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandlers) UploadProductImage(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid product ID")
	}

	file, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Image file is required")
	}
	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to open uploaded file")
	}
	defer src.Close()

	var altText *string
	if alt := c.FormValue("alt_text"); alt != "" {
		altText = &alt
	}

	image, err := h.productService.UploadImage(c.Request().Context(), id, file.Filename, src, file.Size, altText)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, image)
}

func (h *ProductHandlers) ListProductImages(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid product ID")
	}

	images, err := h.productService.ListImages(c.Request().Context(), id)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, images)
}

func (h *ProductHandlers) GetProductImageURL(c echo.Context) error {
	imageID, err := uuid.Parse(c.Param("imageId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid image ID")
	}

	url, err := h.productService.ImageURL(c.Request().Context(), imageID, 15*time.Minute)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}

func (h *ProductHandlers) DeleteProductImage(c echo.Context) error {
	imageID, err := uuid.Parse(c.Param("imageId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid image ID")
	}

	if err := h.productService.DeleteImage(c.Request().Context(), imageID); err != nil {
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
