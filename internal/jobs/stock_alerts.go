package jobs

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"quitanda/internal/services"
)

// StockAlertJob periodically scans the catalog for active products at or
// under the stock threshold and logs an alert for each.
type StockAlertJob struct {
	products  services.ProductService
	threshold int
	scheduler gocron.Scheduler
	logger    *zap.Logger
}

func NewStockAlertJob(products services.ProductService, threshold int, interval time.Duration, logger *zap.Logger) (*StockAlertJob, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	job := &StockAlertJob{
		products:  products,
		threshold: threshold,
		scheduler: scheduler,
		logger:    logger,
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(job.run, context.Background()),
		gocron.WithName("low-stock-alerts"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, err
	}
	return job, nil
}

func (j *StockAlertJob) Start() {
	j.logger.Info("starting low-stock alert job", zap.Int("threshold", j.threshold))
	j.scheduler.Start()
}

func (j *StockAlertJob) Stop() error {
	return j.scheduler.Shutdown()
}

func (j *StockAlertJob) run(ctx context.Context) {
	products, err := j.products.ListLowStock(ctx, j.threshold)
	if err != nil {
		j.logger.Error("low-stock scan failed", zap.Error(err))
		return
	}

	for _, p := range products {
		j.logger.Warn("product low on stock",
			zap.String("id", p.ID.String()),
			zap.String("name", p.Name),
			zap.Int("stock", p.StockQuantity),
			zap.Int("threshold", j.threshold),
		)
	}
}
