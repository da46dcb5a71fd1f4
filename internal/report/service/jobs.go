package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/paleteria/paleteria-pos/internal/platform/logger"
)

// SessionSweeper drops expired sale sessions and reports how many it removed.
type SessionSweeper interface {
	Sweep(ctx context.Context) int
}

// Jobs runs the periodic work of the point of sale: the end-of-day close and,
// for in-process session stores, the expired session sweep.
type Jobs struct {
	reports   ReportService
	sweeper   SessionSweeper
	scheduler *cron.Cron
}

func NewJobs(reports ReportService, sweeper SessionSweeper, loc *time.Location) *Jobs {
	if loc == nil {
		loc = time.Local
	}
	return &Jobs{
		reports:   reports,
		sweeper:   sweeper,
		scheduler: cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
	}
}

// Schedule registers the jobs. An empty spec disables that job; the sweep is
// also skipped when there is no sweeper.
func (j *Jobs) Schedule(dailyCloseSpec, sessionSweepSpec string) error {
	if dailyCloseSpec != "" {
		if _, err := j.scheduler.AddFunc(dailyCloseSpec, func() { j.RunDailyClose(context.Background()) }); err != nil {
			return fmt.Errorf("schedule daily close %q: %w", dailyCloseSpec, err)
		}
		logger.Info("Daily close scheduled", "spec", dailyCloseSpec)
	}
	if sessionSweepSpec != "" && j.sweeper != nil {
		if _, err := j.scheduler.AddFunc(sessionSweepSpec, func() { j.RunSessionSweep(context.Background()) }); err != nil {
			return fmt.Errorf("schedule session sweep %q: %w", sessionSweepSpec, err)
		}
		logger.Info("Session sweep scheduled", "spec", sessionSweepSpec)
	}
	return nil
}

func (j *Jobs) Start() { j.scheduler.Start() }

// Stop waits for running jobs to finish.
func (j *Jobs) Stop() {
	<-j.scheduler.Stop().Done()
}

// RunDailyClose logs today's cut and the products at or below their minimum.
func (j *Jobs) RunDailyClose(ctx context.Context) {
	cut, err := j.reports.DailyCut(ctx, "")
	if err != nil {
		logger.Error("Daily close: failed to compute daily cut", err)
		return
	}
	logger.Info("Daily close",
		"date", cut.Date,
		"tickets", cut.TicketCount,
		"net_total", cut.NetTotal.StringFixed(2),
	)
	for _, m := range cut.ByPaymentMethod {
		logger.Info("Daily close: payment method total", "date", cut.Date, "method", m.PaymentMethod, "total", m.Total.StringFixed(2))
	}

	summary, err := j.reports.InventorySummary(ctx)
	if err != nil {
		logger.Error("Daily close: failed to read inventory", err)
		return
	}
	for _, item := range summary.LowStock() {
		logger.Warn("Daily close: low stock",
			"product_id", item.ID,
			"product", item.Name,
			"stock", item.Stock,
			"stock_minimum", item.StockMinimum,
		)
	}
}

func (j *Jobs) RunSessionSweep(ctx context.Context) {
	if j.sweeper == nil {
		return
	}
	if n := j.sweeper.Sweep(ctx); n > 0 {
		logger.Info("Expired sale sessions removed", "count", n)
	}
}
