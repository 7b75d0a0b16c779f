package fmpApi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/KotFed0t/finance_tracker/config"
	"github.com/KotFed0t/finance_tracker/internal/externalApi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApi(url, key string) *FmpApi {
	return New(&config.Config{API: config.API{
		Timeout: 5 * time.Second,
		Fmp:     config.Fmp{Url: url, ApiKey: key},
	}})
}

func TestGetQuote(t *testing.T) {
	var gotPath, gotSymbol, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSymbol = r.URL.Query().Get("symbol")
		gotKey = r.URL.Query().Get("apikey")
		_, _ = w.Write([]byte(`[{"symbol": "AAPL", "name": "Apple Inc.", "price": 232.8, "changePercentage": 0.51, "change": 1.18, "volume": 100, "timestamp": 1741636800}]`))
	}))
	defer srv.Close()

	q, err := newTestApi(srv.URL, "secret").GetQuote(context.Background(), "AAPL")

	require.NoError(t, err)
	assert.Equal(t, "/stable/quote", gotPath)
	assert.Equal(t, "AAPL", gotSymbol)
	assert.Equal(t, "secret", gotKey)
	require.NotNil(t, q.Price)
	assert.Equal(t, 232.8, *q.Price)
	assert.Nil(t, q.Open)
	assert.Equal(t, int64(1741636800), q.Timestamp)
}

func TestGetQuote_EmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := newTestApi(srv.URL, "secret").GetQuote(context.Background(), "NOPE")

	assert.ErrorIs(t, err, externalApi.ErrNotFound)
}

func TestWithoutApiKey(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	api := newTestApi(srv.URL, "")

	assert.False(t, api.Enabled())
	_, err := api.GetProfile(context.Background(), "AAPL")
	assert.ErrorIs(t, err, ErrNoApiKey)
	assert.False(t, called)
}

func TestGetEtfSectorWeightings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stable/etf/sector-weightings" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`[
			{"symbol": "XEG.TO", "sector": "Energy", "weightPercentage": 97.5},
			{"symbol": "XEG.TO", "sector": "Utilities", "weightPercentage": 2.5}
		]`))
	}))
	defer srv.Close()

	ws, err := newTestApi(srv.URL, "secret").GetEtfSectorWeightings(context.Background(), "XEG.TO")

	require.NoError(t, err)
	require.Len(t, ws, 2)
	assert.Equal(t, "Energy", ws[0].Sector)
	assert.Equal(t, 97.5, ws[0].WeightPercentage)
}

func TestGetProfile_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestApi(srv.URL, "secret").GetProfile(context.Background(), "AAPL")

	assert.ErrorIs(t, err, externalApi.ErrRateLimited)
}
