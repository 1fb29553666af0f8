package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Units of measure accepted for a product.
var Units = []string{"UN", "KG", "LT", "CX", "PC", "MT", "DZ", "ML", "G"}

const DefaultUnit = "UN"

type Product struct {
	ID               uuid.UUID        `json:"id" db:"id"`
	Name             string           `json:"name" db:"name"`
	CategoryID       uuid.UUID        `json:"category_id" db:"categoria_id"`
	Category         *Category        `json:"category,omitempty" db:"-"`
	SupplierID       *uuid.UUID       `json:"supplier_id" db:"fornecedor_id"`
	Supplier         *Supplier        `json:"supplier,omitempty" db:"-"`
	CostPrice        decimal.Decimal  `json:"cost_price" db:"cost_price"`
	SellPrice        decimal.Decimal  `json:"sell_price" db:"sell_price"`
	ProfitMargin     decimal.Decimal  `json:"profit_margin" db:"profit_margin"`
	PromotionalPrice *decimal.Decimal `json:"promotional_price" db:"promotional_price"`
	StockQuantity    int              `json:"stock_quantity" db:"stock_quantity"`
	Unit             string           `json:"unit" db:"unit"`
	Active           bool             `json:"active" db:"active"`
	Notes            *string          `json:"notes" db:"notes"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at" db:"updated_at"`
	DeletedAt        *time.Time       `json:"deleted_at,omitempty" db:"deleted_at"`
}

// Deleted reports whether the product is soft-deleted.
func (p *Product) Deleted() bool {
	return p.DeletedAt != nil
}

// ProfitMarginFor derives the margin percentage from a cost/sell price pair,
// rounded half-up to two decimal places.
func ProfitMarginFor(cost, sell decimal.Decimal) decimal.Decimal {
	return sell.Sub(cost).Div(cost).Mul(decimal.NewFromInt(100)).Round(2)
}

// ProductUpdate carries a partial update: nil fields keep their prior value.
type ProductUpdate struct {
	Name             *string          `json:"name,omitempty"`
	CategoryID       *uuid.UUID       `json:"category_id,omitempty"`
	SupplierID       *uuid.UUID       `json:"supplier_id,omitempty"`
	CostPrice        *decimal.Decimal `json:"cost_price,omitempty"`
	SellPrice        *decimal.Decimal `json:"sell_price,omitempty"`
	ProfitMargin     *decimal.Decimal `json:"profit_margin,omitempty"`
	PromotionalPrice *decimal.Decimal `json:"promotional_price,omitempty"`
	StockQuantity    *int             `json:"stock_quantity,omitempty"`
	Unit             *string          `json:"unit,omitempty"`
	Active           *bool            `json:"active,omitempty"`
	Notes            *string          `json:"notes,omitempty"`
}
