package yahooModel

type ChartResponse struct {
	Chart struct {
		Result []ChartResult `json:"result"`
		Error  *Error        `json:"error"`
	} `json:"chart"`
}

type Error struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type ChartResult struct {
	Meta      ChartMeta `json:"meta"`
	Timestamp []int64   `json:"timestamp"`
	Events    struct {
		Dividends map[string]Dividend `json:"dividends"`
	} `json:"events"`
	Indicators struct {
		Quote []ChartQuote `json:"quote"`
	} `json:"indicators"`
}

type ChartMeta struct {
	Currency             string   `json:"currency"`
	Symbol               string   `json:"symbol"`
	ShortName            string   `json:"shortName"`
	LongName             string   `json:"longName"`
	RegularMarketPrice   *float64 `json:"regularMarketPrice"`
	RegularMarketTime    int64    `json:"regularMarketTime"`
	RegularMarketDayHigh *float64 `json:"regularMarketDayHigh"`
	RegularMarketDayLow  *float64 `json:"regularMarketDayLow"`
	RegularMarketVolume  int64    `json:"regularMarketVolume"`
}

// ChartQuote holds per-bar values; yahoo reports gaps as null.
type ChartQuote struct {
	Open   []*float64 `json:"open"`
	Close  []*float64 `json:"close"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Volume []*int64   `json:"volume"`
}

type Dividend struct {
	Amount float64 `json:"amount"`
	Date   int64   `json:"date"`
}

type QuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []QuoteSummaryResult `json:"result"`
		Error  *Error               `json:"error"`
	} `json:"quoteSummary"`
}

type QuoteSummaryResult struct {
	AssetProfile *struct {
		Sector   string `json:"sector"`
		Industry string `json:"industry"`
	} `json:"assetProfile"`
	TopHoldings *struct {
		// каждый элемент - объект из одного ключа: {"technology": {"raw": 0.31, "fmt": "31%"}}
		SectorWeightings []map[string]RawValue `json:"sectorWeightings"`
	} `json:"topHoldings"`
}

type RawValue struct {
	Raw float64 `json:"raw"`
	Fmt string  `json:"fmt"`
}
