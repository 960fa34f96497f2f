package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrMalformedImport is returned for input that cannot be read as a
// portfolio at all. Bad numbers are not malformed; they come back as NaN.
var ErrMalformedImport = errors.New("malformed import data")

// parseNumber returns NaN for anything that is not a number.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(strings.NewReplacer("$", "", ",", "").Replace(s))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// ReadPortfolioCSV reads the file written by WritePortfolio. The Cash row
// supplies cash; Total is ignored; every other row is a holding whose
// quantity is in the second column. Files with only two columns
// (Company,Quantity) are accepted too.
func ReadPortfolioCSV(r io.Reader) (map[string]float64, float64, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrMalformedImport, err)
	}
	if len(records) == 0 {
		return nil, 0, fmt.Errorf("%w: empty file", ErrMalformedImport)
	}

	portfolio := make(map[string]float64)
	cash := math.NaN()
	for i, rec := range records {
		if len(rec) < 2 {
			return nil, 0, fmt.Errorf("%w: row %d has %d columns", ErrMalformedImport, i+1, len(rec))
		}
		name := strings.TrimSpace(rec[0])
		switch {
		case i == 0 && (strings.EqualFold(name, "Item") || strings.EqualFold(name, "Company")):
			continue
		case name == "" || strings.EqualFold(name, "Total"):
			continue
		case strings.EqualFold(name, "Cash"):
			cash = cashCell(rec)
		default:
			portfolio[name] = parseNumber(rec[1])
		}
	}
	return portfolio, cash, nil
}

// cashCell picks the Value column of a four-column Cash row, or the second
// column of a two-column one.
func cashCell(rec []string) float64 {
	if len(rec) >= 4 {
		return parseNumber(rec[3])
	}
	return parseNumber(rec[1])
}

type portfolioDocument struct {
	Cash      json.RawMessage            `json:"cash"`
	Portfolio map[string]json.RawMessage `json:"portfolio"`
}

// ReadPortfolioJSON reads {"cash": 123.45, "portfolio": {"TechCorp": 5}}.
// Values that are not JSON numbers become NaN.
func ReadPortfolioJSON(r io.Reader) (map[string]float64, float64, error) {
	var doc portfolioDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrMalformedImport, err)
	}

	portfolio := make(map[string]float64, len(doc.Portfolio))
	for name, raw := range doc.Portfolio {
		portfolio[name] = rawNumber(raw)
	}
	return portfolio, rawNumber(doc.Cash), nil
}

func rawNumber(raw json.RawMessage) float64 {
	var v float64
	if len(raw) == 0 || json.Unmarshal(raw, &v) != nil {
		return math.NaN()
	}
	return v
}

// WritePortfolioJSON writes the document ReadPortfolioJSON reads.
func WritePortfolioJSON(w io.Writer, portfolio map[string]int64, cash float64) error {
	doc := struct {
		Cash      float64          `json:"cash"`
		Portfolio map[string]int64 `json:"portfolio"`
	}{Cash: cash, Portfolio: portfolio}
	if doc.Portfolio == nil {
		doc.Portfolio = map[string]int64{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// ReadPortfolioFile reads a portfolio from path, as JSON when the name ends
// in .json and as CSV otherwise.
func ReadPortfolioFile(path string) (map[string]float64, float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ReadPortfolioJSON(f)
	}
	return ReadPortfolioCSV(f)
}
