package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/KotFed0t/finance_tracker/internal/converter/telebotConverter"
	"github.com/KotFed0t/finance_tracker/internal/model"
	"github.com/KotFed0t/finance_tracker/internal/service"
	"github.com/KotFed0t/finance_tracker/internal/service/reportService"
	"github.com/KotFed0t/finance_tracker/utils"
	"github.com/shopspring/decimal"
	tele "gopkg.in/telebot.v4"
)

const (
	internalErrMsg = "something went wrong..."
	notFoundMsg    = "not found"
)

type PortfolioService interface {
	CreatePortfolio(ctx context.Context, name string, isDefault bool) (model.Portfolio, error)
	ListPortfolios(ctx context.Context) ([]model.PortfolioHoldings, error)
	AddHolding(ctx context.Context, portfolioName string, nh model.NewHolding) (model.Holding, error)
	DeleteHolding(ctx context.Context, holdingID int64) error
	Overview(ctx context.Context) (model.Overview, error)
}

type ValuationService interface {
	UpdatePricesForced(ctx context.Context) (string, error)
	StaleHoldings(ctx context.Context) ([]model.Holding, error)
}

type SnapshotService interface {
	TakeIntradaySnapshotForced(ctx context.Context) (string, error)
	TakeEndOfDaySnapshot(ctx context.Context) (string, error)
}

type SectorService interface {
	RefreshSectors(ctx context.Context) (string, error)
}

type BudgetService interface {
	Summary(ctx context.Context) (model.BudgetSummary, error)
	AddItem(ctx context.Context, item model.BudgetItem) (int64, error)
}

type ReportService interface {
	GenerateReport(ctx context.Context) (reportService.Report, error)
}

type QuoteService interface {
	GetQuote(ctx context.Context, symbol string) (model.Quote, error)
}

type Services struct {
	Portfolio PortfolioService
	Valuation ValuationService
	Snapshot  SnapshotService
	Sector    SectorService
	Budget    BudgetService
	Report    ReportService
	Quote     QuoteService
}

type Controller struct {
	svc                Services
	homeCurrency       string
	stalenessThreshold time.Duration
}

func NewController(svc Services, homeCurrency string, stalenessThreshold time.Duration) *Controller {
	return &Controller{
		svc:                svc,
		homeCurrency:       homeCurrency,
		stalenessThreshold: stalenessThreshold,
	}
}

func (ctrl *Controller) Start(c tele.Context) error {
	return c.Send(telebotConverter.HelpText)
}

func (ctrl *Controller) Summary(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	overview, err := ctrl.svc.Portfolio.Overview(ctx)
	if err != nil {
		return ctrl.replyErr(ctx, c, "Overview", err)
	}

	return c.Send(telebotConverter.OverviewResponse(overview))
}

func (ctrl *Controller) Portfolios(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	portfolios, err := ctrl.svc.Portfolio.ListPortfolios(ctx)
	if err != nil {
		return ctrl.replyErr(ctx, c, "ListPortfolios", err)
	}

	return c.Send(telebotConverter.PortfoliosResponse(portfolios))
}

func (ctrl *Controller) Price(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	args := c.Args()
	if len(args) != 1 {
		return c.Send("usage: /price SYMBOL")
	}

	quote, err := ctrl.svc.Quote.GetQuote(ctx, args[0])
	if err != nil {
		return ctrl.replyErr(ctx, c, "GetQuote", err)
	}

	return c.Send(telebotConverter.QuoteResponse(quote))
}

func (ctrl *Controller) Refresh(c tele.Context) error {
	return ctrl.runJob(c, "UpdatePricesForced", ctrl.svc.Valuation.UpdatePricesForced)
}

func (ctrl *Controller) Snapshot(c tele.Context) error {
	return ctrl.runJob(c, "TakeIntradaySnapshotForced", ctrl.svc.Snapshot.TakeIntradaySnapshotForced)
}

func (ctrl *Controller) EndOfDay(c tele.Context) error {
	return ctrl.runJob(c, "TakeEndOfDaySnapshot", ctrl.svc.Snapshot.TakeEndOfDaySnapshot)
}

func (ctrl *Controller) Sectors(c tele.Context) error {
	return ctrl.runJob(c, "RefreshSectors", ctrl.svc.Sector.RefreshSectors)
}

func (ctrl *Controller) Stale(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	holdings, err := ctrl.svc.Valuation.StaleHoldings(ctx)
	if err != nil {
		return ctrl.replyErr(ctx, c, "StaleHoldings", err)
	}

	return c.Send(telebotConverter.StaleResponse(holdings, ctrl.stalenessThreshold))
}

func (ctrl *Controller) Budget(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	summary, err := ctrl.svc.Budget.Summary(ctx)
	if err != nil {
		return ctrl.replyErr(ctx, c, "Summary", err)
	}

	return c.Send(telebotConverter.BudgetResponse(summary, ctrl.homeCurrency))
}

// BudgetAdd: /budget_add income|expense AMOUNT NAME...
func (ctrl *Controller) BudgetAdd(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	usage := "usage: /budget_add income|expense AMOUNT NAME"

	args := c.Args()
	if len(args) < 3 {
		return c.Send(usage)
	}

	amount, err := decimal.NewFromString(args[1])
	if err != nil {
		return c.Send(usage)
	}

	item := model.BudgetItem{
		Type:          model.BudgetItemType(strings.ToLower(args[0])),
		AmountMonthly: amount,
		Name:          strings.Join(args[2:], " "),
	}

	id, err := ctrl.svc.Budget.AddItem(ctx, item)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			return c.Send(usage)
		}
		return ctrl.replyErr(ctx, c, "AddItem", err)
	}

	return c.Send(fmt.Sprintf("Budget item #%d saved", id))
}

// AddPortfolio: /add_portfolio NAME [default]
func (ctrl *Controller) AddPortfolio(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	args := c.Args()
	if len(args) == 0 {
		return c.Send("usage: /add_portfolio NAME [default]")
	}

	isDefault := false
	if len(args) > 1 && strings.EqualFold(args[len(args)-1], "default") {
		isDefault = true
		args = args[:len(args)-1]
	}

	p, err := ctrl.svc.Portfolio.CreatePortfolio(ctx, strings.Join(args, " "), isDefault)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyExists) {
			return c.Send("portfolio with this name already exists")
		}
		return ctrl.replyErr(ctx, c, "CreatePortfolio", err)
	}

	return c.Send(fmt.Sprintf("Portfolio %q created (#%d)", p.Name, p.ID))
}

// AddHolding: /add_holding PORTFOLIO SYMBOL stock|etf QTY COST
func (ctrl *Controller) AddHolding(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	usage := "usage: /add_holding PORTFOLIO SYMBOL stock|etf QTY COST"

	args := c.Args()
	if len(args) != 5 {
		return c.Send(usage)
	}

	holdingType, ok := model.ParseHoldingType(strings.ToLower(args[2]))
	if !ok {
		return c.Send(usage)
	}
	qty, err := decimal.NewFromString(args[3])
	if err != nil {
		return c.Send(usage)
	}
	cost, err := decimal.NewFromString(args[4])
	if err != nil {
		return c.Send(usage)
	}

	h, err := ctrl.svc.Portfolio.AddHolding(ctx, args[0], model.NewHolding{
		Symbol:        args[1],
		Type:          holdingType,
		Quantity:      qty,
		PurchasePrice: cost,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			return c.Send(usage)
		}
		return ctrl.replyErr(ctx, c, "AddHolding", err)
	}

	return c.Send(telebotConverter.HoldingAddedResponse(h))
}

func (ctrl *Controller) DeleteHolding(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	args := c.Args()
	if len(args) != 1 {
		return c.Send("usage: /delete_holding ID")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return c.Send("usage: /delete_holding ID")
	}

	if err = ctrl.svc.Portfolio.DeleteHolding(ctx, id); err != nil {
		return ctrl.replyErr(ctx, c, "DeleteHolding", err)
	}

	return c.Send(fmt.Sprintf("Holding #%d deleted", id))
}

func (ctrl *Controller) Report(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	_ = c.Notify(tele.UploadingDocument)

	report, err := ctrl.svc.Report.GenerateReport(ctx)
	if err != nil {
		return ctrl.replyErr(ctx, c, "GenerateReport", err)
	}

	if report.Link != "" {
		return c.Send(fmt.Sprintf("📎 %s\n%s", report.Filename, report.Link))
	}

	doc := &tele.Document{
		File:     tele.FromReader(bytes.NewReader(report.Content)),
		FileName: report.Filename,
	}
	return c.Send(doc)
}

func (ctrl *Controller) runJob(c tele.Context, name string, job func(ctx context.Context) (string, error)) error {
	ctx := utils.CreateCtxWithRqID(c)

	status, err := job(ctx)
	if err != nil {
		return ctrl.replyErr(ctx, c, name, err)
	}

	return c.Send(fmt.Sprintf("%s: %s", name, status))
}

func (ctrl *Controller) replyErr(ctx context.Context, c tele.Context, method string, err error) error {
	if errors.Is(err, service.ErrNotFound) {
		return c.Send(notFoundMsg)
	}
	if errors.Is(err, service.ErrInvalidInput) {
		return c.Send("invalid input")
	}

	slog.Error(
		"controller error",
		slog.String("rqID", utils.GetRequestIDFromCtx(ctx)),
		slog.String("method", method),
		slog.String("err", err.Error()),
	)
	return c.Send(internalErrMsg)
}
