package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"quitanda/internal/common"
	"quitanda/internal/models"
)

var productColumns = []string{
	"id", "name", "categoria_id", "fornecedor_id",
	"cost_price", "sell_price", "profit_margin", "promotional_price",
	"stock_quantity", "unit", "active", "notes",
	"created_at", "updated_at", "deleted_at",
	"c_id", "c_name", "c_description", "c_icon", "c_parent_id", "c_created_at", "c_updated_at",
	"s_id", "s_name", "s_email", "s_phone", "s_pix_key", "s_created_at", "s_updated_at",
}

type ProductRepoTestSuite struct {
	suite.Suite
	mock       pgxmock.PgxPoolIface
	repo       ProductRepository
	productID  uuid.UUID
	categoryID uuid.UUID
	ctx        context.Context
}

func (suite *ProductRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewProductRepo(mock)
	suite.productID = uuid.New()
	suite.categoryID = uuid.New()
	suite.ctx = context.Background()
}

func (suite *ProductRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestProductRepoTestSuite(t *testing.T) {
	suite.Run(t, new(ProductRepoTestSuite))
}

// productRow builds a joined result row without a supplier attached.
func (suite *ProductRepoTestSuite) productRow(name string) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows(productColumns).AddRow(
		suite.productID, name, suite.categoryID, (*uuid.UUID)(nil),
		decimal.RequireFromString("3.50"), decimal.RequireFromString("5.90"),
		decimal.RequireFromString("68.57"), (*decimal.Decimal)(nil),
		25, "KG", true, (*string)(nil),
		now, now, (*time.Time)(nil),
		suite.categoryID, "Hortifruti", (*string)(nil), (*string)(nil), (*uuid.UUID)(nil), now, now,
		(*uuid.UUID)(nil), (*string)(nil), (*string)(nil), (*string)(nil), (*string)(nil),
		(*time.Time)(nil), (*time.Time)(nil),
	)
}

func (suite *ProductRepoTestSuite) TestCreate_Success() {
	now := time.Now()
	product := &models.Product{
		ID:         suite.productID,
		Name:       "Tomate Italiano",
		CategoryID: suite.categoryID,
		CostPrice:  decimal.RequireFromString("3.50"),
		SellPrice:  decimal.RequireFromString("5.90"),
		Unit:       "KG",
		Active:     true,
	}

	suite.mock.ExpectQuery(`INSERT INTO product \(id, name, categoria_id, fornecedor_id`).
		WithArgs(product.ID, product.Name, product.CategoryID, product.SupplierID,
			product.CostPrice, product.SellPrice, product.ProfitMargin,
			product.PromotionalPrice, product.StockQuantity, product.Unit,
			product.Active, product.Notes).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	err := suite.repo.Create(suite.ctx, product)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), now, product.CreatedAt)
}

func (suite *ProductRepoTestSuite) TestGetByID_ExcludesDeletedByDefault() {
	suite.mock.ExpectQuery(`WHERE p\.id = \$1 AND p\.deleted_at IS NULL`).
		WithArgs(suite.productID).
		WillReturnRows(suite.productRow("Tomate Italiano"))

	product, err := suite.repo.GetByID(suite.ctx, suite.productID, false)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Tomate Italiano", product.Name)
	assert.Equal(suite.T(), "Hortifruti", product.Category.Name)
	assert.Nil(suite.T(), product.Supplier)
}

func (suite *ProductRepoTestSuite) TestGetByID_IncludeDeletedSkipsFilter() {
	suite.mock.ExpectQuery(`WHERE p\.id = \$1$`).
		WithArgs(suite.productID).
		WillReturnRows(suite.productRow("Tomate Italiano"))

	product, err := suite.repo.GetByID(suite.ctx, suite.productID, true)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.productID, product.ID)
}

func (suite *ProductRepoTestSuite) TestGetByID_NotFound() {
	suite.mock.ExpectQuery(`WHERE p\.id = \$1 AND p\.deleted_at IS NULL`).
		WithArgs(suite.productID).
		WillReturnRows(pgxmock.NewRows(productColumns))

	_, err := suite.repo.GetByID(suite.ctx, suite.productID, false)

	assert.Error(suite.T(), err)
	assert.True(suite.T(), common.IsNotFound(err))
}

func (suite *ProductRepoTestSuite) TestGetByName_SpansDeletedRows() {
	suite.mock.ExpectQuery(`WHERE p\.name = \$1$`).
		WithArgs("Tomate Italiano").
		WillReturnRows(suite.productRow("Tomate Italiano"))

	product, err := suite.repo.GetByName(suite.ctx, "Tomate Italiano")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Tomate Italiano", product.Name)
}

func (suite *ProductRepoTestSuite) TestGetByName_ScansSupplier() {
	now := time.Now()
	supplierID := uuid.New()
	rows := pgxmock.NewRows(productColumns).AddRow(
		suite.productID, "Tomate Italiano", suite.categoryID, &supplierID,
		decimal.RequireFromString("3.50"), decimal.RequireFromString("5.90"),
		decimal.RequireFromString("68.57"), (*decimal.Decimal)(nil),
		25, "KG", true, (*string)(nil),
		now, now, (*time.Time)(nil),
		suite.categoryID, "Hortifruti", (*string)(nil), (*string)(nil), (*uuid.UUID)(nil), now, now,
		&supplierID, strPtr("Sítio Boa Vista"), strPtr("contato@sitioboavista.com.br"),
		(*string)(nil), (*string)(nil), &now, &now,
	)

	suite.mock.ExpectQuery(`WHERE p\.name = \$1$`).
		WithArgs("Tomate Italiano").
		WillReturnRows(rows)

	product, err := suite.repo.GetByName(suite.ctx, "Tomate Italiano")

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), product.Supplier)
	assert.Equal(suite.T(), "Sítio Boa Vista", product.Supplier.Name)
}

func (suite *ProductRepoTestSuite) TestUpdateStock_Success() {
	suite.mock.ExpectExec(`UPDATE product SET stock_quantity = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs(40, suite.productID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.UpdateStock(suite.ctx, suite.productID, 40)

	assert.NoError(suite.T(), err)
}

func (suite *ProductRepoTestSuite) TestUpdateStock_NotFound() {
	suite.mock.ExpectExec(`UPDATE product SET stock_quantity = \$1`).
		WithArgs(40, suite.productID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.UpdateStock(suite.ctx, suite.productID, 40)

	assert.Error(suite.T(), err)
	assert.True(suite.T(), common.IsNotFound(err))
}

func (suite *ProductRepoTestSuite) TestSoftDelete_ReturnsStamp() {
	stamp := time.Now()

	suite.mock.ExpectQuery(`UPDATE product SET deleted_at = NOW\(\), updated_at = NOW\(\) WHERE id = \$1 RETURNING deleted_at`).
		WithArgs(suite.productID).
		WillReturnRows(pgxmock.NewRows([]string{"deleted_at"}).AddRow(stamp))

	deletedAt, err := suite.repo.SoftDelete(suite.ctx, suite.productID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), stamp, deletedAt)
}

func (suite *ProductRepoTestSuite) TestSoftDelete_NotFound() {
	suite.mock.ExpectQuery(`UPDATE product SET deleted_at = NOW\(\)`).
		WithArgs(suite.productID).
		WillReturnRows(pgxmock.NewRows([]string{"deleted_at"}))

	_, err := suite.repo.SoftDelete(suite.ctx, suite.productID)

	assert.Error(suite.T(), err)
	assert.True(suite.T(), common.IsNotFound(err))
}

func (suite *ProductRepoTestSuite) TestRestore_Success() {
	suite.mock.ExpectExec(`UPDATE product SET deleted_at = NULL, updated_at = NOW\(\) WHERE id = \$1`).
		WithArgs(suite.productID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.Restore(suite.ctx, suite.productID)

	assert.NoError(suite.T(), err)
}

func (suite *ProductRepoTestSuite) TestRestore_NotFound() {
	suite.mock.ExpectExec(`UPDATE product SET deleted_at = NULL`).
		WithArgs(suite.productID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.Restore(suite.ctx, suite.productID)

	assert.Error(suite.T(), err)
	assert.True(suite.T(), common.IsNotFound(err))
}

func (suite *ProductRepoTestSuite) TestList_FiltersDeletedByDefault() {
	suite.mock.ExpectQuery(`WHERE p\.deleted_at IS NULL ORDER BY p\.name ASC`).
		WillReturnRows(suite.productRow("Tomate Italiano"))

	products, err := suite.repo.List(suite.ctx, false)

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), products, 1)
}

func (suite *ProductRepoTestSuite) TestList_IncludeDeletedSkipsFilter() {
	suite.mock.ExpectQuery(`fornecedor_id\s+ORDER BY p\.name ASC`).
		WillReturnRows(suite.productRow("Tomate Italiano"))

	products, err := suite.repo.List(suite.ctx, true)

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), products, 1)
}

func (suite *ProductRepoTestSuite) TestListActive_FiltersInactive() {
	suite.mock.ExpectQuery(`WHERE p\.deleted_at IS NULL AND p\.active = TRUE ORDER BY p\.name ASC`).
		WillReturnRows(suite.productRow("Tomate Italiano"))

	products, err := suite.repo.ListActive(suite.ctx)

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), products, 1)
}

func (suite *ProductRepoTestSuite) TestSearchByName_CaseInsensitiveContains() {
	suite.mock.ExpectQuery(`p\.name ILIKE \$1 ORDER BY p\.name ASC`).
		WithArgs("%tomate%").
		WillReturnRows(suite.productRow("Tomate Italiano"))

	products, err := suite.repo.SearchByName(suite.ctx, "tomate")

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), products, 1)
}

func (suite *ProductRepoTestSuite) TestListByPriceRange_OrderedBySellPrice() {
	min := decimal.RequireFromString("1.00")
	max := decimal.RequireFromString("10.00")

	suite.mock.ExpectQuery(`p\.sell_price BETWEEN \$1 AND \$2 ORDER BY p\.sell_price ASC`).
		WithArgs(min, max).
		WillReturnRows(suite.productRow("Tomate Italiano"))

	products, err := suite.repo.ListByPriceRange(suite.ctx, min, max)

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), products, 1)
}

func (suite *ProductRepoTestSuite) TestListLowStock_ThresholdAndOrdering() {
	suite.mock.ExpectQuery(`p\.stock_quantity <= \$1 ORDER BY p\.stock_quantity ASC`).
		WithArgs(10).
		WillReturnRows(suite.productRow("Tomate Italiano"))

	products, err := suite.repo.ListLowStock(suite.ctx, 10)

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), products, 1)
}

func (suite *ProductRepoTestSuite) TestCount_SpansAllRows() {
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM product`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(12))

	count, err := suite.repo.Count(suite.ctx)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 12, count)
}
