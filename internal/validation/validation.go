// Package validation holds the field constraints for catalog entities as
// plain data, and explicit check functions run by the services before every
// create and update.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"quitanda/internal/common"
	"quitanda/internal/models"
)

// maxLen is the single source of truth for string length bounds.
var maxLen = map[string]int{
	"category.name":    100,
	"category.icon":    50,
	"supplier.name":    200,
	"supplier.email":   100,
	"supplier.phone":   20,
	"supplier.pix_key": 100,
	"product.name":     200,
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// phone accepts digits, +, -, spaces and parentheses only.
const phoneCharset = "0123456789+- ()"

var validUnits = func() map[string]bool {
	m := make(map[string]bool, len(models.Units))
	for _, u := range models.Units {
		m[u] = true
	}
	return m
}()

type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Violations []Violation

func (v *Violations) add(field, message string) {
	*v = append(*v, Violation{Field: field, Message: message})
}

// AsError collapses the collected violations into a single InvalidArgument
// error, or nil when everything checked out.
func (v Violations) AsError() error {
	if len(v) == 0 {
		return nil
	}
	msgs := make([]string, len(v))
	for i, viol := range v {
		msgs[i] = viol.Field + " " + viol.Message
	}
	return common.Invalidf("validation failed: %s", strings.Join(msgs, "; "))
}

func (v *Violations) checkRequired(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.add(field, "is required")
	}
}

func (v *Violations) checkMaxLen(field, value string) {
	if limit, ok := maxLen[field]; ok && len(value) > limit {
		v.add(field, fmt.Sprintf("must be at most %d characters", limit))
	}
}

func (v *Violations) checkEmail(email string) {
	v.checkMaxLen("supplier.email", email)
	if !emailPattern.MatchString(email) {
		v.add("supplier.email", "is not a valid email address")
	}
}

func (v *Violations) checkPhone(phone string) {
	v.checkMaxLen("supplier.phone", phone)
	for _, r := range phone {
		if !strings.ContainsRune(phoneCharset, r) {
			v.add("supplier.phone", fmt.Sprintf("contains invalid character %q", r))
			return
		}
	}
}

func (v *Violations) checkPositivePrice(field string, d decimal.Decimal) {
	if !d.IsPositive() {
		v.add(field, "must be positive")
	}
	v.checkTwoDecimals(field, d)
}

func (v *Violations) checkTwoDecimals(field string, d decimal.Decimal) {
	if !d.Round(2).Equal(d) {
		v.add(field, "must have at most 2 decimal places")
	}
}

func (v *Violations) checkUnit(unit string) {
	if !validUnits[unit] {
		v.add("product.unit", fmt.Sprintf("must be one of %s", strings.Join(models.Units, ", ")))
	}
}

// Category validates a category about to be created.
func Category(c *models.Category) Violations {
	var v Violations
	v.checkRequired("category.name", c.Name)
	v.checkMaxLen("category.name", c.Name)
	if c.Icon != nil {
		v.checkMaxLen("category.icon", *c.Icon)
	}
	return v
}

// CategoryUpdate validates only the fields present in a partial update.
func CategoryUpdate(u *models.CategoryUpdate) Violations {
	var v Violations
	if u.Name != nil {
		v.checkRequired("category.name", *u.Name)
		v.checkMaxLen("category.name", *u.Name)
	}
	if u.Icon != nil {
		v.checkMaxLen("category.icon", *u.Icon)
	}
	return v
}

// Supplier validates a supplier about to be created.
func Supplier(s *models.Supplier) Violations {
	var v Violations
	v.checkRequired("supplier.name", s.Name)
	v.checkMaxLen("supplier.name", s.Name)
	if s.Email != nil {
		v.checkEmail(*s.Email)
	}
	if s.Phone != nil {
		v.checkPhone(*s.Phone)
	}
	if s.PixKey != nil {
		v.checkMaxLen("supplier.pix_key", *s.PixKey)
	}
	return v
}

// SupplierUpdate validates only the fields present in a partial update.
func SupplierUpdate(u *models.SupplierUpdate) Violations {
	var v Violations
	if u.Name != nil {
		v.checkRequired("supplier.name", *u.Name)
		v.checkMaxLen("supplier.name", *u.Name)
	}
	if u.Email != nil {
		v.checkEmail(*u.Email)
	}
	if u.Phone != nil {
		v.checkPhone(*u.Phone)
	}
	if u.PixKey != nil {
		v.checkMaxLen("supplier.pix_key", *u.PixKey)
	}
	return v
}

// Product validates a product about to be created. The sell-versus-cost
// invariant is a cross-field rule owned by the product service, not checked
// here.
func Product(p *models.Product) Violations {
	var v Violations
	v.checkRequired("product.name", p.Name)
	v.checkMaxLen("product.name", p.Name)
	v.checkPositivePrice("product.cost_price", p.CostPrice)
	v.checkPositivePrice("product.sell_price", p.SellPrice)
	if p.ProfitMargin.IsNegative() {
		v.add("product.profit_margin", "must not be negative")
	}
	v.checkTwoDecimals("product.profit_margin", p.ProfitMargin)
	if p.PromotionalPrice != nil {
		v.checkPositivePrice("product.promotional_price", *p.PromotionalPrice)
	}
	if p.StockQuantity < 0 {
		v.add("product.stock_quantity", "must not be negative")
	}
	v.checkUnit(p.Unit)
	return v
}

// ProductUpdate validates only the fields present in a partial update.
func ProductUpdate(u *models.ProductUpdate) Violations {
	var v Violations
	if u.Name != nil {
		v.checkRequired("product.name", *u.Name)
		v.checkMaxLen("product.name", *u.Name)
	}
	if u.CostPrice != nil {
		v.checkPositivePrice("product.cost_price", *u.CostPrice)
	}
	if u.SellPrice != nil {
		v.checkPositivePrice("product.sell_price", *u.SellPrice)
	}
	if u.ProfitMargin != nil {
		if u.ProfitMargin.IsNegative() {
			v.add("product.profit_margin", "must not be negative")
		}
		v.checkTwoDecimals("product.profit_margin", *u.ProfitMargin)
	}
	if u.PromotionalPrice != nil {
		v.checkPositivePrice("product.promotional_price", *u.PromotionalPrice)
	}
	if u.StockQuantity != nil && *u.StockQuantity < 0 {
		v.add("product.stock_quantity", "must not be negative")
	}
	if u.Unit != nil {
		v.checkUnit(*u.Unit)
	}
	return v
}
