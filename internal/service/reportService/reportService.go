package reportService

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/KotFed0t/finance_tracker/config"
	"github.com/KotFed0t/finance_tracker/internal/model"
	"github.com/KotFed0t/finance_tracker/internal/service"
	"github.com/KotFed0t/finance_tracker/utils"
	"github.com/shopspring/decimal"
)

const eodHistoryLimit = 90

type Repository interface {
	GetPortfolios(ctx context.Context) ([]model.Portfolio, error)
	GetHoldings(ctx context.Context) ([]model.Holding, error)
	GetLatestPortfolioSnapshots(ctx context.Context) ([]model.PortfolioSnapshot, error)
	GetEODHistory(ctx context.Context, limit int) ([]model.GlobalSnapshot, error)
	GetSectorWeightings(ctx context.Context) (map[string][]model.SectorWeighting, error)
}

type RateProvider interface {
	GetRate(ctx context.Context) decimal.Decimal
}

type Generator interface {
	Generate(ctx context.Context, data model.ReportData) (fileBytes []byte, fileExtension string, err error)
}

type CloudStorage interface {
	UploadFile(ctx context.Context, reader io.Reader, filename string) (downloadLink string, err error)
	DeleteOldFiles(ctx context.Context) (int, error)
}

type Report struct {
	Filename string
	Content  []byte
	Link     string
}

type ReportService struct {
	cfg       *config.Config
	repo      Repository
	fx        RateProvider
	generator Generator
	storage   CloudStorage
	now       func() time.Time
}

// New accepts a nil storage; reports are then only returned as bytes.
func New(cfg *config.Config, repo Repository, fx RateProvider, generator Generator, storage CloudStorage) *ReportService {
	return &ReportService{
		cfg:       cfg,
		repo:      repo,
		fx:        fx,
		generator: generator,
		storage:   storage,
		now:       time.Now,
	}
}

func (s *ReportService) GenerateReport(ctx context.Context) (Report, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "ReportService.GenerateReport"

	data, err := s.collect(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("%s: %w", op, err)
	}
	if len(data.Portfolios) == 0 {
		return Report{}, service.ErrNotFound
	}

	content, ext, err := s.generator.Generate(ctx, data)
	if err != nil {
		return Report{}, fmt.Errorf("%s: generate: %w", op, err)
	}

	report := Report{
		Filename: fmt.Sprintf("portfolio_%s%s", s.now().Format("2006-01-02_1504"), ext),
		Content:  content,
	}

	if s.storage == nil {
		return report, nil
	}

	link, err := s.storage.UploadFile(ctx, bytes.NewReader(content), report.Filename)
	if err != nil {
		// файл все равно можно отправить напрямую
		slog.Warn("report upload failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return report, nil
	}
	report.Link = link

	return report, nil
}

func (s *ReportService) collect(ctx context.Context) (model.ReportData, error) {
	portfolios, err := s.repo.GetPortfolios(ctx)
	if err != nil {
		return model.ReportData{}, err
	}
	holdings, err := s.repo.GetHoldings(ctx)
	if err != nil {
		return model.ReportData{}, err
	}
	latest, err := s.repo.GetLatestPortfolioSnapshots(ctx)
	if err != nil {
		return model.ReportData{}, err
	}
	history, err := s.repo.GetEODHistory(ctx, eodHistoryLimit)
	if err != nil {
		return model.ReportData{}, err
	}
	weightings, err := s.repo.GetSectorWeightings(ctx)
	if err != nil {
		return model.ReportData{}, err
	}

	rate := s.fx.GetRate(ctx)
	conv := model.Converter{HomeCurrency: s.cfg.Market.HomeCurrency, Rate: rate}

	return model.ReportData{
		HomeCurrency: s.cfg.Market.HomeCurrency,
		FXRate:       rate,
		Portfolios:   model.GroupHoldings(portfolios, holdings),
		Latest:       latest,
		EODHistory:   history,
		Sectors:      model.SectorExposures(holdings, weightings, conv),
	}, nil
}

// CleanupReports is the scheduled removal of expired uploads.
func (s *ReportService) CleanupReports(ctx context.Context) (string, error) {
	if s.storage == nil {
		return "skipped - storage disabled", nil
	}

	deleted, err := s.storage.DeleteOldFiles(ctx)
	if err != nil {
		return "", fmt.Errorf("ReportService.CleanupReports: %w", err)
	}

	return fmt.Sprintf("%s, deleted %d", service.StatusSuccess, deleted), nil
}
