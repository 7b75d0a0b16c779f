package model

type Portfolio struct {
	ID           int64
	Name         string
	IsDefault    bool
	DisplayOrder *int
}

// PortfolioHoldings groups a portfolio with its holdings for reports.
type PortfolioHoldings struct {
	Portfolio
	Holdings []Holding
}

func GroupHoldings(portfolios []Portfolio, holdings []Holding) []PortfolioHoldings {
	byPortfolio := make(map[int64][]Holding, len(portfolios))
	for _, h := range holdings {
		byPortfolio[h.PortfolioID] = append(byPortfolio[h.PortfolioID], h)
	}

	res := make([]PortfolioHoldings, 0, len(portfolios))
	for _, p := range portfolios {
		res = append(res, PortfolioHoldings{Portfolio: p, Holdings: byPortfolio[p.ID]})
	}
	return res
}
