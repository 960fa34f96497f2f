// Package export writes session data as CSV and reads portfolio files back
// for import.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/zappabad/stocksurge/internal/game"
	"github.com/zappabad/stocksurge/internal/ledger"
	"github.com/zappabad/stocksurge/internal/market"
	"github.com/zappabad/stocksurge/internal/money"
	"github.com/zappabad/stocksurge/internal/news"
)

// DateLayout formats trade timestamps.
const DateLayout = "2006-01-02 15:04:05"

// Kind names one export.
type Kind string

const (
	KindTrades    Kind = "trades"
	KindHistory   Kind = "history"
	KindNews      Kind = "news"
	KindPortfolio Kind = "portfolio"
)

// Kinds lists every export kind.
var Kinds = []Kind{KindTrades, KindHistory, KindNews, KindPortfolio}

// ParseKind validates an export kind name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown export kind %q", s)
}

// FileName is the default file name for an export kind.
func (k Kind) FileName() string {
	return string(k) + ".csv"
}

// Write writes the export of kind taken from one game state.
func Write(w io.Writer, kind Kind, st game.State) error {
	switch kind {
	case KindTrades:
		return WriteTrades(w, st.Ledger.Trades)
	case KindHistory:
		return WriteHistory(w, st.Market.Stocks)
	case KindNews:
		return WriteNews(w, st.News)
	case KindPortfolio:
		return WritePortfolio(w, st.Ledger, st.Market.Prices(), st.TotalValue)
	}
	return fmt.Errorf("unknown export kind %q", kind)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func writeAll(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// WriteTrades writes one row per trade in execution order.
func WriteTrades(w io.Writer, trades []ledger.Trade) error {
	rows := make([][]string, 0, len(trades)+1)
	rows = append(rows, []string{"Date", "Company", "Quantity", "Price", "Type"})
	for _, t := range trades {
		rows = append(rows, []string{
			t.Timestamp.Format(DateLayout),
			t.Company,
			strconv.FormatInt(t.Quantity, 10),
			formatFloat(t.Price),
			t.Direction.String(),
		})
	}
	return writeAll(w, rows)
}

// WriteHistory writes the retained price window, one row per sample.
// Companies with shorter histories leave trailing cells empty.
func WriteHistory(w io.Writer, stocks []market.Stock) error {
	header := []string{"Tick"}
	depth := 0
	for _, s := range stocks {
		header = append(header, s.Name)
		depth = max(depth, len(s.History))
	}

	rows := make([][]string, 0, depth+1)
	rows = append(rows, header)
	for i := 0; i < depth; i++ {
		row := []string{strconv.Itoa(i)}
		for _, s := range stocks {
			if i < len(s.History) {
				row = append(row, formatFloat(s.History[i]))
			} else {
				row = append(row, "")
			}
		}
		rows = append(rows, row)
	}
	return writeAll(w, rows)
}

// WriteNews writes every news event oldest first.
func WriteNews(w io.Writer, events []news.Event) error {
	rows := make([][]string, 0, len(events)+1)
	rows = append(rows, []string{"Time", "Company", "Content", "Impact"})
	for _, ev := range events {
		rows = append(rows, []string{
			strconv.FormatInt(ev.Time, 10),
			ev.Company,
			ev.Content,
			strconv.FormatFloat(ev.Impact, 'f', -1, 64),
		})
	}
	return writeAll(w, rows)
}

// WritePortfolio writes cash, one row per holding sorted by company and the
// total value at prices. Display repeats Value as formatted money.
func WritePortfolio(w io.Writer, snap ledger.Snapshot, prices map[string]float64, total float64) error {
	companies := make([]string, 0, len(snap.Portfolio))
	for c := range snap.Portfolio {
		companies = append(companies, c)
	}
	sort.Strings(companies)

	rows := [][]string{
		{"Item", "Quantity", "Price", "Value", "Display"},
		{"Cash", "", "", formatFloat(snap.Cash), money.Format(snap.Cash)},
	}
	for _, c := range companies {
		qty := snap.Portfolio[c]
		price := prices[c]
		value := money.Round2(price * float64(qty))
		rows = append(rows, []string{
			c,
			strconv.FormatInt(qty, 10),
			formatFloat(price),
			formatFloat(value),
			money.Format(value),
		})
	}
	rows = append(rows, []string{"Total", "", "", formatFloat(total), money.Format(total)})
	return writeAll(w, rows)
}
