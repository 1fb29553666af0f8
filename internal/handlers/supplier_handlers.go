package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"quitanda/internal/models"
	"quitanda/internal/services"
)

// SupplierHandlers handles supplier-related HTTP requests
type SupplierHandlers struct {
	supplierService services.SupplierService
}

func NewSupplierHandlers(supplierService services.SupplierService) *SupplierHandlers {
	return &SupplierHandlers{supplierService: supplierService}
}

// CreateSupplierRequest represents the supplier creation payload
type CreateSupplierRequest struct {
	Name   string  `json:"name"`
	Email  *string `json:"email"`
	Phone  *string `json:"phone"`
	PixKey *string `json:"pix_key"`
}

func (h *SupplierHandlers) CreateSupplier(c echo.Context) error {
	var req CreateSupplierRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	supplier := &models.Supplier{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		PixKey: req.PixKey,
	}
	if err := h.supplierService.Create(c.Request().Context(), supplier); err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, supplier)
}

func (h *SupplierHandlers) ListSuppliers(c echo.Context) error {
	suppliers, err := h.supplierService.List(c.Request().Context())
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, suppliers)
}

func (h *SupplierHandlers) SearchSuppliers(c echo.Context) error {
	suppliers, err := h.supplierService.SearchByName(c.Request().Context(), c.QueryParam("name"))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, suppliers)
}

func (h *SupplierHandlers) CountSuppliers(c echo.Context) error {
	count, err := h.supplierService.Count(c.Request().Context())
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, map[string]int{"count": count})
}

func (h *SupplierHandlers) GetSupplier(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid supplier ID")
	}

	supplier, err := h.supplierService.GetByID(c.Request().Context(), id)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, supplier)
}

func (h *SupplierHandlers) UpdateSupplier(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid supplier ID")
	}

	var update models.SupplierUpdate
	if err := c.Bind(&update); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	supplier, err := h.supplierService.Update(c.Request().Context(), id, &update)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, supplier)
}

func (h *SupplierHandlers) DeleteSupplier(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid supplier ID")
	}

	if err := h.supplierService.Delete(c.Request().Context(), id); err != nil {
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
