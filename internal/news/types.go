package news

// Event is a single news item affecting one company. Time is the simulated
// second at which the engine emitted it.
type Event struct {
	Content string  `json:"content"`
	Impact  float64 `json:"impact"`
	Company string  `json:"company"`
	Time    int64   `json:"time"`
}

// Positive reports whether the event pushes the price up.
func (e Event) Positive() bool {
	return e.Impact > 0
}

// Headline is a catalog entry: a label and the price impact it carries.
type Headline struct {
	Label  string
	Impact float64
}
