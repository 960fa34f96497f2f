package news

import (
	"errors"
	"math/rand"
)

var ErrInvalidInput = errors.New("news: empty company set")

// Rand is the random source the generator and the market engine draw from.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// NewRand returns a Rand seeded with seed.
func NewRand(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}

// Generator picks random events from the catalog.
type Generator struct {
	rand      Rand
	headlines []Headline
}

// NewGenerator creates a Generator over the built-in catalog.
func NewGenerator(r Rand) *Generator {
	return NewGeneratorWithCatalog(r, catalog[:])
}

// NewGeneratorWithCatalog creates a Generator over a custom headline table.
// An empty table falls back to the built-in catalog.
func NewGeneratorWithCatalog(r Rand, headlines []Headline) *Generator {
	if len(headlines) == 0 {
		headlines = catalog[:]
	}
	hs := make([]Headline, len(headlines))
	copy(hs, headlines)
	return &Generator{rand: r, headlines: hs}
}

// Generate draws one headline and, independently, one company. The returned
// event has no Time; the caller stamps it on emission.
func (g *Generator) Generate(companies []string) (Event, error) {
	if len(companies) == 0 {
		return Event{}, ErrInvalidInput
	}
	h := g.headlines[g.rand.Intn(len(g.headlines))]
	company := companies[g.rand.Intn(len(companies))]
	return Event{
		Content: h.Label,
		Impact:  h.Impact,
		Company: company,
	}, nil
}
