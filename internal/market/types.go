package market

import "errors"

const (
	// InitialPrice is the price every stock starts from and returns to on reset.
	InitialPrice = 100.0
	// HistoryWindow is the number of most recent price samples kept per stock.
	HistoryWindow = 30
	// MinPrice is the floor applied to every price update.
	MinPrice = 0.01
	// TimeStep is the number of simulated seconds one tick advances the clock.
	TimeStep = 5
	// NoiseAmplitude bounds the per-tick random drift: noise is uniform on
	// [-NoiseAmplitude, +NoiseAmplitude].
	NoiseAmplitude = 0.01
)

var ErrUnknownCompany = errors.New("unknown company")

// Companies is the fixed roster of the simulated market, in display order.
var Companies = []string{"TechCorp", "EcoEnergy", "HealthInc", "FoodCo", "MediaGiant"}

// Stock is a point-in-time copy of one company's quote.
// History is oldest first and its last element equals Price.
type Stock struct {
	Name    string    `json:"name"`
	Price   float64   `json:"price"`
	History []float64 `json:"history"`
}

// Change returns the relative move between the last two samples, or 0 with a
// single sample.
func (s Stock) Change() float64 {
	n := len(s.History)
	if n < 2 || s.History[n-2] == 0 {
		return 0
	}
	return (s.History[n-1] - s.History[n-2]) / s.History[n-2]
}
