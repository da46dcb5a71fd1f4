package main

import (
	"context"
	"database/sql"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	catalogAPI "github.com/paleteria/paleteria-pos/internal/catalog/api"
	catalogRepo "github.com/paleteria/paleteria-pos/internal/catalog/repository"
	catalogService "github.com/paleteria/paleteria-pos/internal/catalog/service"
	ledgerAPI "github.com/paleteria/paleteria-pos/internal/ledger/api"
	ledgerRepo "github.com/paleteria/paleteria-pos/internal/ledger/repository"
	ledgerService "github.com/paleteria/paleteria-pos/internal/ledger/service"
	"github.com/paleteria/paleteria-pos/internal/platform/config"
	"github.com/paleteria/paleteria-pos/internal/platform/database"
	"github.com/paleteria/paleteria-pos/internal/platform/logger"
	"github.com/paleteria/paleteria-pos/internal/receipt"
	reportAPI "github.com/paleteria/paleteria-pos/internal/report/api"
	reportService "github.com/paleteria/paleteria-pos/internal/report/service"
	saleAPI "github.com/paleteria/paleteria-pos/internal/sale/api"
	saleRepo "github.com/paleteria/paleteria-pos/internal/sale/repository"
	saleService "github.com/paleteria/paleteria-pos/internal/sale/service"
	staffAPI "github.com/paleteria/paleteria-pos/internal/staff/api"
	staffDomain "github.com/paleteria/paleteria-pos/internal/staff/domain"
	staffRepo "github.com/paleteria/paleteria-pos/internal/staff/repository"
	staffService "github.com/paleteria/paleteria-pos/internal/staff/service"
)

type stores struct {
	db      *sql.DB // nil for the CSV backend
	catalog catalogRepo.CatalogStore
	ledger  ledgerRepo.LedgerStore
	staff   staffRepo.StaffRepository
}

func main() {
	// Load Config
	config.LoadDotEnv()
	cfg := config.Load()

	// Setup Logger
	if err := logger.Init(logger.Options{Mode: cfg.Logger.Mode, Level: cfg.Logger.Level, Filename: cfg.Logger.File}); err != nil {
		logger.Error("Failed to initialise logger, keeping defaults", err)
	}
	defer logger.Sync()
	logger.Info("Starting POS Service...", "store_backend", cfg.Store.Backend, "session_backend", cfg.Session.Backend)

	ctx := context.Background()

	loc, err := time.LoadLocation(cfg.Sale.Timezone)
	if err != nil {
		logger.Warn("Unknown POS_TIMEZONE, using local time", "timezone", cfg.Sale.Timezone, "error", err)
		loc = time.Local
	}

	// Setup Storage
	st, err := openStores(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open stores for POS Service", err, "backend", cfg.Store.Backend)
		return
	}
	if st.db != nil {
		defer st.db.Close()
	}

	sessions, sweeper, err := openSessionStore(ctx, cfg.Session)
	if err != nil {
		logger.Error("Failed to open session store", err, "backend", cfg.Session.Backend)
		return
	}

	// Setup Dependencies
	staffSvc := staffService.NewStaffService(st.staff, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	seedAccounts(ctx, staffSvc, cfg.Auth)

	catalogSvc := catalogService.NewCatalogService(st.catalog, cfg.Import.Encoding)
	ledgerSvc := ledgerService.NewLedgerService(st.ledger, catalogSvc)
	saleSvc := saleService.NewSaleService(st.catalog, st.ledger, sessions, ledgerSvc, receipt.NewPDFRenderer(""), saleService.Options{
		Location:                loc,
		DiscountRemainderToLast: cfg.Sale.DiscountRemainderToLast,
	})
	reportSvc := reportService.NewReportService(st.catalog, st.ledger, loc)

	// Setup Scheduler
	jobs := reportService.NewJobs(reportSvc, sweeper, loc)
	if err := jobs.Schedule(cfg.Scheduler.DailyCloseSpec, cfg.Scheduler.SessionSweepSpec); err != nil {
		logger.Error("Failed to schedule jobs", err)
		return
	}
	jobs.Start()
	defer jobs.Stop()

	// Setup Gin Router
	router := gin.Default()
	router.RedirectTrailingSlash = false

	apiV1 := router.Group("/api/v1")
	staffAPI.NewStaffHandler(staffSvc).RegisterRoutes(apiV1)

	authed := apiV1.Group("", staffAPI.RequireRole(staffSvc, staffDomain.RoleCashier))
	adminOnly := staffAPI.RequireRole(staffSvc, staffDomain.RoleAdmin)

	catalogAPI.NewCatalogHandler(catalogSvc).RegisterRoutes(authed, adminOnly)
	saleAPI.NewSaleHandler(saleSvc).RegisterRoutes(authed)
	ledgerAPI.NewLedgerHandler(ledgerSvc).RegisterRoutes(authed)
	reportAPI.NewReportHandler(reportSvc).RegisterRoutes(authed)

	logger.Info("POS Service running on port " + cfg.Server.Port)
	if err := router.Run(cfg.Server.Port); err != nil {
		logger.Error("Failed to run POS Service server", err)
	}
}

func openStores(ctx context.Context, cfg config.Config) (*stores, error) {
	if cfg.Store.Backend == config.BackendCSV {
		logger.Info("Using CSV files", "catalog", cfg.Store.CatalogFile, "ledger", cfg.Store.LedgerFile)
		return &stores{
			catalog: catalogRepo.NewCSVCatalogStore(cfg.Store.CatalogFile),
			ledger:  ledgerRepo.NewCSVLedgerStore(cfg.Store.LedgerFile),
			staff:   staffRepo.NewMemoryStaffRepository(),
		}, nil
	}

	db, err := database.Connect(ctx, cfg.DB.DSN)
	if err != nil {
		return nil, err
	}
	if err := database.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &stores{
		db:      db,
		catalog: catalogRepo.NewPostgresCatalogStore(db),
		ledger:  ledgerRepo.NewPostgresLedgerStore(db),
		staff:   staffRepo.NewPostgresStaffRepository(db),
	}, nil
}

// openSessionStore returns the sweeper only for the in-process store; Redis
// expires keys on its own.
func openSessionStore(ctx context.Context, cfg config.SessionConfig) (saleRepo.SessionStore, reportService.SessionSweeper, error) {
	if cfg.Backend != config.SessionBackendRedis {
		mem := saleRepo.NewMemorySessionStore(cfg.TTL)
		return mem, mem, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, nil, err
	}
	logger.Info("Using Redis session store", "addr", cfg.RedisAddr)
	return saleRepo.NewRedisSessionStore(client, cfg.TTL), nil, nil
}

func seedAccounts(ctx context.Context, ss staffService.StaffService, auth config.AuthConfig) {
	if err := ss.EnsureAccount(ctx, auth.AdminUsername, auth.AdminPassword, staffDomain.RoleAdmin); err != nil {
		logger.Error("Failed to seed admin account", err, "username", auth.AdminUsername)
	}
	if err := ss.EnsureAccount(ctx, auth.CashierUsername, auth.CashierPassword, staffDomain.RoleCashier); err != nil {
		logger.Error("Failed to seed cashier account", err, "username", auth.CashierUsername)
	}
}
