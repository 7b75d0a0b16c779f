package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/KotFed0t/finance_tracker/config"
	"github.com/KotFed0t/finance_tracker/data"
	"github.com/KotFed0t/finance_tracker/data/cache"
	"github.com/KotFed0t/finance_tracker/data/repository/postgres"
	"github.com/KotFed0t/finance_tracker/internal/externalApi/cloudStorageApi/googleDriveApi"
	"github.com/KotFed0t/finance_tracker/internal/externalApi/fmpApi"
	"github.com/KotFed0t/finance_tracker/internal/externalApi/yahooApi"
	"github.com/KotFed0t/finance_tracker/internal/marketCalendar"
	"github.com/KotFed0t/finance_tracker/internal/reportGenerator/xlsxGenerator"
	"github.com/KotFed0t/finance_tracker/internal/scheduler"
	"github.com/KotFed0t/finance_tracker/internal/service/budgetService"
	"github.com/KotFed0t/finance_tracker/internal/service/fxService"
	"github.com/KotFed0t/finance_tracker/internal/service/portfolioService"
	"github.com/KotFed0t/finance_tracker/internal/service/quoteService"
	"github.com/KotFed0t/finance_tracker/internal/service/reportService"
	"github.com/KotFed0t/finance_tracker/internal/service/sectorService"
	"github.com/KotFed0t/finance_tracker/internal/service/snapshotService"
	"github.com/KotFed0t/finance_tracker/internal/service/valuationService"
	"github.com/KotFed0t/finance_tracker/internal/tgbot"
	"github.com/KotFed0t/finance_tracker/internal/transport/telegram"
)

type quoteCache interface {
	quoteService.Cache
	fxService.Store
}

func main() {
	cfg := config.MustLoad()

	setupLogger(cfg)

	slog.Debug("config", slog.Any("cfg", cfg))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgClient := data.NewPostgresClient(cfg)
	defer pgClient.Close()

	pgRepo := postgres.NewPostgres(pgClient)

	var quotesCache quoteCache
	switch cfg.Cache.Backend {
	case "memory":
		quotesCache = cache.NewMemoryCache(cfg)
	default:
		redisClient := data.NewRedisClient(cfg)
		defer redisClient.Close()
		quotesCache = cache.NewRedisCache(redisClient, cfg)
	}

	yahooApiClient := yahooApi.New(cfg)
	fmpApiClient := fmpApi.New(cfg)

	quoteSrv := quoteService.New(cfg, yahooApiClient, fmpApiClient, quotesCache)
	fxSrv := fxService.New(cfg, quotesCache, quoteSrv)

	calendar := marketCalendar.New(cfg)

	valuationSrv := valuationService.New(cfg, pgRepo, quoteSrv, calendar)
	snapshotSrv := snapshotService.New(cfg, pgRepo, fxSrv, calendar)
	sectorSrv := sectorService.New(pgRepo, fmpApiClient, yahooApiClient)
	budgetSrv := budgetService.New(cfg, pgRepo, fxSrv)
	portfolioSrv := portfolioService.New(cfg, pgRepo, quoteSrv, fxSrv)

	// интерфейс должен остаться nil, если диск не настроен
	var storage reportService.CloudStorage
	if cfg.GoogleDrive.CredentialsFile != "" {
		storage = googleDriveApi.New(ctx, cfg)
	}
	reportSrv := reportService.New(cfg, pgRepo, fxSrv, xlsxGenerator.New(), storage)

	sched := scheduler.New(calendar.Location(), scheduler.RetryPolicy{
		Count: cfg.Jobs.RetryCount,
		Delay: cfg.Jobs.RetryDelay,
	})
	sched.NewIntervalJob("update prices", valuationSrv.UpdatePrices, cfg.Jobs.UpdatePricesInterval, true)
	sched.NewIntervalJob("intraday snapshot", snapshotSrv.TakeIntradaySnapshot, cfg.Jobs.IntradaySnapshotInterval, false)
	sched.NewCrontabJob("eod snapshot", snapshotSrv.TakeEndOfDaySnapshot, cfg.Jobs.EODSnapshotCrontab, false)
	sched.NewCrontabJob("refresh sectors", sectorSrv.RefreshSectors, cfg.Jobs.SectorsCrontab, false)
	sched.NewCrontabJob("cleanup reports", reportSrv.CleanupReports, cfg.Jobs.CleanupReportsCrontab, false)
	sched.Start()
	defer sched.Stop()

	if cfg.Telegram.Token != "" {
		tgController := telegram.NewController(telegram.Services{
			Portfolio: portfolioSrv,
			Valuation: valuationSrv,
			Snapshot:  snapshotSrv,
			Sector:    sectorSrv,
			Budget:    budgetSrv,
			Report:    reportSrv,
			Quote:     quoteSrv,
		}, cfg.Market.HomeCurrency, cfg.Market.StalenessThreshold)

		tgBot := tgbot.New(cfg, tgController)
		tgBot.Start()
		defer tgBot.Stop()
	} else {
		slog.Warn("telegram token is empty, bot disabled")
	}

	// Waiting interruption signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-interrupt
}

func setupLogger(cfg *config.Config) {
	var logLevel slog.Level

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)
}
