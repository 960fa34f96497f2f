package news

// catalog is the fixed set of events the generator draws from.
var catalog = [...]Headline{
	{"Quarterly earnings announced", 0.15},
	{"New product launch", 0.10},
	{"Earnings guidance raised", 0.08},
	{"Merger announced", 0.12},
	{"Stock split", 0.05},
	{"Share buyback announced", 0.06},
	{"Breakthrough in new technology", 0.09},
	{"Major customer contract signed", 0.07},
	{"Shareholder perks expanded", 0.03},
	{"Overseas expansion accelerates", 0.08},
	{"CEO steps down", -0.06},
	{"Earnings guidance cut", -0.10},
	{"Accounting fraud uncovered", -0.20},
	{"Product recall", -0.15},
	{"Patent infringement lawsuit", -0.12},
	{"Damage from natural disaster", -0.08},
	{"Key supplier goes bankrupt", -0.09},
	{"Competitor launches rival product", -0.05},
	{"Raw material prices soar", -0.04},
	{"Currency swing hits exports", -0.07},
	{"Interest rates rise", -0.03},
	{"Industry regulation tightened", -0.06},
	{"Market share slips", -0.08},
	{"Broad market sell-off", -0.10},
	{"Political instability", -0.05},
	{"New business line succeeds", 0.11},
	{"Cost-cutting plan announced", 0.06},
	{"Analyst upgrade", 0.04},
	{"ESG rating improved", 0.05},
	{"Large government grant won", 0.07},
}

// Catalog returns a copy of the headline table.
func Catalog() []Headline {
	out := make([]Headline, len(catalog))
	copy(out, catalog[:])
	return out
}
