package quoteConverter

import (
	"time"

	"github.com/KotFed0t/finance_tracker/internal/model"
	"github.com/KotFed0t/finance_tracker/internal/model/fmpModel"
	"github.com/KotFed0t/finance_tracker/internal/model/yahooModel"
	"github.com/shopspring/decimal"
)

const (
	SourceYahoo = "yahoo"
	SourceFmp   = "fmp"
	SourceCache = "cache"
)

var (
	hundred        = decimal.NewFromInt(100)
	dividendWindow = 365 * 24 * time.Hour
)

// FromYahooChart builds a quote from daily bars. The regular market price wins
// over the last close, the previous bar close is the reference for the change.
func FromYahooChart(symbol string, chart yahooModel.ChartResult, now time.Time) model.Quote {
	q := model.EmptyQuote(symbol)
	q.Source = SourceYahoo
	q.Name = chart.Meta.ShortName
	if q.Name == "" {
		q.Name = chart.Meta.LongName
	}
	q.Currency = chart.Meta.Currency
	q.Volume = chart.Meta.RegularMarketVolume
	q.DayHigh = nullDecimal(chart.Meta.RegularMarketDayHigh)
	q.DayLow = nullDecimal(chart.Meta.RegularMarketDayLow)

	var closes []float64
	var lastOpen *float64
	if len(chart.Indicators.Quote) > 0 {
		bars := chart.Indicators.Quote[0]
		for _, c := range bars.Close {
			if c != nil && *c > 0 {
				closes = append(closes, *c)
			}
		}
		for i := len(bars.Open) - 1; i >= 0; i-- {
			if bars.Open[i] != nil {
				lastOpen = bars.Open[i]
				break
			}
		}
	}
	q.Open = nullDecimal(lastOpen)

	var price float64
	switch {
	case chart.Meta.RegularMarketPrice != nil && *chart.Meta.RegularMarketPrice > 0:
		price = *chart.Meta.RegularMarketPrice
	case len(closes) > 0:
		price = closes[len(closes)-1]
	default:
		return q
	}

	prevClose := price
	if len(closes) > 1 {
		prevClose = closes[len(closes)-2]
	}

	priceDec := decimal.NewFromFloat(price)
	prevDec := decimal.NewFromFloat(prevClose)
	change := priceDec.Sub(prevDec)
	changePercent := decimal.Zero
	if !prevDec.IsZero() {
		changePercent = change.Div(prevDec).Mul(hundred)
	}

	q.Price = decimal.NewNullDecimal(priceDec)
	q.PreviousClose = decimal.NewNullDecimal(prevDec)
	q.Change = decimal.NewNullDecimal(change)
	q.ChangePercent = decimal.NewNullDecimal(changePercent)
	q.DividendAnnual = decimal.NewNullDecimal(trailingDividends(chart.Events.Dividends, now))

	q.AsOf = now
	if chart.Meta.RegularMarketTime > 0 {
		q.AsOf = time.Unix(chart.Meta.RegularMarketTime, 0)
	}

	return q
}

func trailingDividends(dividends map[string]yahooModel.Dividend, now time.Time) decimal.Decimal {
	from := now.Add(-dividendWindow).Unix()
	total := decimal.Zero
	for _, d := range dividends {
		if d.Date >= from && d.Amount > 0 {
			total = total.Add(decimal.NewFromFloat(d.Amount))
		}
	}
	return total
}

func FromFmpQuote(symbol string, fq fmpModel.Quote, now time.Time) model.Quote {
	q := model.EmptyQuote(symbol)
	q.Source = SourceFmp
	q.Name = fq.Name
	q.Price = nullDecimal(fq.Price)
	q.Change = nullDecimal(fq.Change)
	q.ChangePercent = nullDecimal(fq.ChangePercentage)
	q.Open = nullDecimal(fq.Open)
	q.PreviousClose = nullDecimal(fq.PreviousClose)
	q.DayHigh = nullDecimal(fq.DayHigh)
	q.DayLow = nullDecimal(fq.DayLow)
	q.Volume = fq.Volume
	q.Currency = model.CurrencyForSymbol(symbol)

	q.AsOf = now
	if fq.Timestamp > 0 {
		q.AsOf = time.Unix(fq.Timestamp, 0)
	}

	return q
}

func nullDecimal(f *float64) decimal.NullDecimal {
	if f == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromFloat(*f))
}
