package yahooApi

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/KotFed0t/finance_tracker/config"
	"github.com/KotFed0t/finance_tracker/internal/externalApi"
	"github.com/KotFed0t/finance_tracker/internal/model/yahooModel"
	"github.com/KotFed0t/finance_tracker/utils"
	"github.com/go-resty/resty/v2"
)

const (
	chartRange    = "1y"
	chartInterval = "1d"
)

type YahooApi struct {
	client *resty.Client
}

func New(cfg *config.Config) *YahooApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.Yahoo.Url).
		SetHeader("User-Agent", cfg.API.Yahoo.UserAgent).
		SetHeader("Accept", "application/json")
	return &YahooApi{client: client}
}

// GetChart loads a year of daily bars with dividend events for one symbol.
func (a *YahooApi) GetChart(ctx context.Context, symbol string) (yahooModel.ChartResult, error) {
	rqId := utils.GetRequestIDFromCtx(ctx)
	op := "YahooApi.GetChart"

	slog.Debug("start YahooApi.GetChart request", slog.String("rqID", rqId), slog.String("symbol", symbol))

	resp, err := a.client.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		SetQueryParams(map[string]string{
			"range":    chartRange,
			"interval": chartInterval,
			"events":   "div",
		}).
		Get("/v8/finance/chart/{symbol}")
	if err != nil {
		slog.Error("error while dialing YahooApi", slog.String("rqID", rqId), slog.String("op", op), slog.String("err", err.Error()))
		return yahooModel.ChartResult{}, err
	}

	if err = externalApi.CheckStatus(resp); err != nil {
		slog.Warn("YahooApi bad response", slog.String("rqID", rqId), slog.String("op", op), slog.String("symbol", symbol), slog.String("err", err.Error()))
		return yahooModel.ChartResult{}, err
	}

	chart := yahooModel.ChartResponse{}
	err = json.Unmarshal(resp.Body(), &chart)
	if err != nil {
		slog.Error("can't unmarshall response into yahooModel.ChartResponse", slog.String("rqID", rqId), slog.String("op", op), slog.String("err", err.Error()))
		return yahooModel.ChartResult{}, err
	}

	if len(chart.Chart.Result) == 0 {
		return yahooModel.ChartResult{}, externalApi.ErrNotFound
	}

	slog.Debug("YahooApi.GetChart request complete", slog.String("rqID", rqId), slog.String("symbol", symbol))

	return chart.Chart.Result[0], nil
}

// GetQuoteSummary reads sector data. Without a session cookie and crumb yahoo
// answers 401 here, which comes back as externalApi.ErrUnauthorized.
func (a *YahooApi) GetQuoteSummary(ctx context.Context, symbol string) (yahooModel.QuoteSummaryResult, error) {
	rqId := utils.GetRequestIDFromCtx(ctx)
	op := "YahooApi.GetQuoteSummary"

	slog.Debug("start YahooApi.GetQuoteSummary request", slog.String("rqID", rqId), slog.String("symbol", symbol))

	resp, err := a.client.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		SetQueryParam("modules", "assetProfile,topHoldings").
		Get("/v10/finance/quoteSummary/{symbol}")
	if err != nil {
		slog.Error("error while dialing YahooApi", slog.String("rqID", rqId), slog.String("op", op), slog.String("err", err.Error()))
		return yahooModel.QuoteSummaryResult{}, err
	}

	if err = externalApi.CheckStatus(resp); err != nil {
		slog.Warn("YahooApi bad response", slog.String("rqID", rqId), slog.String("op", op), slog.String("symbol", symbol), slog.String("err", err.Error()))
		return yahooModel.QuoteSummaryResult{}, err
	}

	summary := yahooModel.QuoteSummaryResponse{}
	err = json.Unmarshal(resp.Body(), &summary)
	if err != nil {
		slog.Error("can't unmarshall response into yahooModel.QuoteSummaryResponse", slog.String("rqID", rqId), slog.String("op", op), slog.String("err", err.Error()))
		return yahooModel.QuoteSummaryResult{}, err
	}

	if len(summary.QuoteSummary.Result) == 0 {
		return yahooModel.QuoteSummaryResult{}, externalApi.ErrNotFound
	}

	slog.Debug("YahooApi.GetQuoteSummary request complete", slog.String("rqID", rqId), slog.String("symbol", symbol))

	return summary.QuoteSummary.Result[0], nil
}
