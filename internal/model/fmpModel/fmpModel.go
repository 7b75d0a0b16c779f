package fmpModel

type Quote struct {
	Symbol           string   `json:"symbol"`
	Name             string   `json:"name"`
	Price            *float64 `json:"price"`
	Change           *float64 `json:"change"`
	ChangePercentage *float64 `json:"changePercentage"`
	Open             *float64 `json:"open"`
	PreviousClose    *float64 `json:"previousClose"`
	DayHigh          *float64 `json:"dayHigh"`
	DayLow           *float64 `json:"dayLow"`
	Volume           int64    `json:"volume"`
	Exchange         string   `json:"exchange"`
	Timestamp        int64    `json:"timestamp"`
}

type EtfSectorWeighting struct {
	Symbol           string  `json:"symbol"`
	Sector           string  `json:"sector"`
	WeightPercentage float64 `json:"weightPercentage"`
}

type Profile struct {
	Symbol       string  `json:"symbol"`
	CompanyName  string  `json:"companyName"`
	Currency     string  `json:"currency"`
	Sector       string  `json:"sector"`
	Industry     string  `json:"industry"`
	LastDividend float64 `json:"lastDividend"`
	IsEtf        bool    `json:"isEtf"`
}
