package fmpApi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/KotFed0t/finance_tracker/config"
	"github.com/KotFed0t/finance_tracker/internal/externalApi"
	"github.com/KotFed0t/finance_tracker/internal/model/fmpModel"
	"github.com/KotFed0t/finance_tracker/utils"
	"github.com/go-resty/resty/v2"
)

var ErrNoApiKey = errors.New("fmp api key is not configured")

type FmpApi struct {
	client *resty.Client
	apiKey string
}

func New(cfg *config.Config) *FmpApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.Fmp.Url).
		SetHeader("Accept", "application/json")
	return &FmpApi{client: client, apiKey: cfg.API.Fmp.ApiKey}
}

func (a *FmpApi) Enabled() bool {
	return a.apiKey != ""
}

func (a *FmpApi) GetQuote(ctx context.Context, symbol string) (fmpModel.Quote, error) {
	var quotes []fmpModel.Quote
	if err := a.get(ctx, "FmpApi.GetQuote", "/stable/quote", symbol, &quotes); err != nil {
		return fmpModel.Quote{}, err
	}
	if len(quotes) == 0 || quotes[0].Price == nil {
		return fmpModel.Quote{}, externalApi.ErrNotFound
	}
	return quotes[0], nil
}

func (a *FmpApi) GetEtfSectorWeightings(ctx context.Context, symbol string) ([]fmpModel.EtfSectorWeighting, error) {
	var weightings []fmpModel.EtfSectorWeighting
	if err := a.get(ctx, "FmpApi.GetEtfSectorWeightings", "/stable/etf/sector-weightings", symbol, &weightings); err != nil {
		return nil, err
	}
	if len(weightings) == 0 {
		return nil, externalApi.ErrNotFound
	}
	return weightings, nil
}

func (a *FmpApi) GetProfile(ctx context.Context, symbol string) (fmpModel.Profile, error) {
	var profiles []fmpModel.Profile
	if err := a.get(ctx, "FmpApi.GetProfile", "/stable/profile", symbol, &profiles); err != nil {
		return fmpModel.Profile{}, err
	}
	if len(profiles) == 0 {
		return fmpModel.Profile{}, externalApi.ErrNotFound
	}
	return profiles[0], nil
}

func (a *FmpApi) get(ctx context.Context, op, url, symbol string, dest any) error {
	rqId := utils.GetRequestIDFromCtx(ctx)

	if !a.Enabled() {
		return ErrNoApiKey
	}

	slog.Debug("start "+op+" request", slog.String("rqID", rqId), slog.String("symbol", symbol))

	resp, err := a.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol": symbol,
			"apikey": a.apiKey,
		}).
		Get(url)
	if err != nil {
		slog.Error("error while dialing FmpApi", slog.String("rqID", rqId), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	if err = externalApi.CheckStatus(resp); err != nil {
		slog.Warn("FmpApi bad response", slog.String("rqID", rqId), slog.String("op", op), slog.String("symbol", symbol), slog.String("err", err.Error()))
		return err
	}

	if err = json.Unmarshal(resp.Body(), dest); err != nil {
		slog.Error("can't unmarshall FmpApi response", slog.String("rqID", rqId), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	slog.Debug(op+" request complete", slog.String("rqID", rqId), slog.String("symbol", symbol))

	return nil
}
