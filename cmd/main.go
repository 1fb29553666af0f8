package main

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"quitanda/internal/caching"
	"quitanda/internal/config"
	"quitanda/internal/handlers"
	"quitanda/internal/jobs"
	"quitanda/internal/repositories"
	"quitanda/internal/services"
	"quitanda/pkg/database"
)

func main() {
	cfg := config.Load()

	logger := newLogger(cfg.Server.Env)
	defer logger.Sync()

	ctx := context.Background()

	pool, err := database.NewPool(ctx, cfg.DB.URL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.RunMigrations(pool, cfg.DB.MigrationsDir, logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	cache := caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	storage, err := services.NewMinioStorage(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL)
	if err != nil {
		logger.Fatal("failed to initialize object storage", zap.Error(err))
	}

	categoryRepo := repositories.NewCategoryRepo(pool)
	supplierRepo := repositories.NewSupplierRepo(pool)
	productRepo := repositories.NewProductRepo(pool)
	imageRepo := repositories.NewProductImageRepo(pool)

	categorySvc := services.NewCategoryService(categoryRepo)
	supplierSvc := services.NewSupplierService(supplierRepo)
	productSvc := services.NewProductService(productRepo, categoryRepo, supplierRepo, imageRepo, storage, cache, logger)

	alertJob, err := jobs.NewStockAlertJob(productSvc, cfg.Jobs.LowStockThreshold,
		time.Duration(cfg.Jobs.LowStockIntervalMinutes)*time.Minute, logger)
	if err != nil {
		logger.Fatal("failed to create stock alert job", zap.Error(err))
	}
	alertJob.Start()
	defer alertJob.Stop()

	categoryHandlers := handlers.NewCategoryHandlers(categorySvc)
	supplierHandlers := handlers.NewSupplierHandlers(supplierSvc)
	productHandlers := handlers.NewProductHandlers(productSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cache)

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.CORS())

	e.GET("/health", healthHandlers.Health)

	e.POST("/categories", categoryHandlers.CreateCategory)
	e.GET("/categories", categoryHandlers.ListCategories)
	e.GET("/categories/:id", categoryHandlers.GetCategory)
	e.GET("/categories/:id/subcategories", categoryHandlers.ListSubcategories)
	e.PATCH("/categories/:id", categoryHandlers.UpdateCategory)
	e.DELETE("/categories/:id", categoryHandlers.DeleteCategory)

	e.POST("/suppliers", supplierHandlers.CreateSupplier)
	e.GET("/suppliers", supplierHandlers.ListSuppliers)
	e.GET("/suppliers/search", supplierHandlers.SearchSuppliers)
	e.GET("/suppliers/count", supplierHandlers.CountSuppliers)
	e.GET("/suppliers/:id", supplierHandlers.GetSupplier)
	e.PATCH("/suppliers/:id", supplierHandlers.UpdateSupplier)
	e.DELETE("/suppliers/:id", supplierHandlers.DeleteSupplier)

	e.POST("/products", productHandlers.CreateProduct)
	e.GET("/products", productHandlers.ListProducts)
	e.GET("/products/active", productHandlers.ListActiveProducts)
	e.GET("/products/low-stock", productHandlers.ListLowStock)
	e.GET("/products/search", productHandlers.SearchProducts)
	e.GET("/products/price-range", productHandlers.ListByPriceRange)
	e.GET("/products/count", productHandlers.CountProducts)
	e.GET("/products/category/:categoryId", productHandlers.ListByCategory)
	e.GET("/products/supplier/:supplierId", productHandlers.ListBySupplier)
	e.GET("/products/:id", productHandlers.GetProduct)
	e.PATCH("/products/:id", productHandlers.UpdateProduct)
	e.PATCH("/products/:id/stock", productHandlers.UpdateStock)
	e.PATCH("/products/:id/restore", productHandlers.RestoreProduct)
	e.DELETE("/products/:id", productHandlers.DeleteProduct)
	e.POST("/products/:id/images", productHandlers.UploadProductImage)
	e.GET("/products/:id/images", productHandlers.ListProductImages)
	e.GET("/products/images/:imageId/url", productHandlers.GetProductImageURL)
	e.DELETE("/products/images/:imageId", productHandlers.DeleteProductImage)

	logger.Info("starting server", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(env string) *zap.Logger {
	if env == "production" {
		logger, err := zap.NewProduction()
		if err != nil {
			panic(err)
		}
		return logger
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	return logger
}
