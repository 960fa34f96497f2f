package view

import "github.com/zappabad/stocksurge/internal/market"

// MarketSnapshot is a point-in-time copy of the engine state.
type MarketSnapshot struct {
	Stocks        []market.Stock `json:"stocks"`
	SimulatedTime int64          `json:"simulated_time"`
	Running       bool           `json:"running"`
	NewsCount     int            `json:"news_count"`
}

// Prices returns the current price of every stock keyed by company name.
func (s MarketSnapshot) Prices() map[string]float64 {
	out := make(map[string]float64, len(s.Stocks))
	for _, st := range s.Stocks {
		out[st.Name] = st.Price
	}
	return out
}

// Stock returns the named stock.
func (s MarketSnapshot) Stock(name string) (market.Stock, bool) {
	for _, st := range s.Stocks {
		if st.Name == name {
			return st, true
		}
	}
	return market.Stock{}, false
}
