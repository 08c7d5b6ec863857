// Package report renders pricing runs as console tables or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"github.com/meenmo/swaplib/internal/store"
	"github.com/meenmo/swaplib/null"
	"github.com/meenmo/swaplib/swap/market"
	"github.com/meenmo/swaplib/utils"
)

const (
	ratePlaces   = 6 // fair rate, percent
	spreadPlaces = 4 // fair spread, basis points
)

// minorUnits lists currencies without cents.
var minorUnits = map[string]int32{
	"JPY": 0,
	"KRW": 0,
}

// Row is a run with amounts rounded to the currency's minor unit and rates
// quoted as the market quotes them. Missing results are nil.
type Row struct {
	ID             string           `json:"id"`
	TradeID        string           `json:"trade_id"`
	Index          string           `json:"index"`
	Currency       string           `json:"currency,omitempty"`
	Side           string           `json:"side"`
	EvaluationDate string           `json:"evaluation_date"`
	Nominal        decimal.Decimal  `json:"nominal"`
	NPV            *decimal.Decimal `json:"npv"`
	FixedLegNPV    *decimal.Decimal `json:"fixed_leg_npv"`
	FloatingLegNPV *decimal.Decimal `json:"floating_leg_npv"`
	FixedLegBPS    *decimal.Decimal `json:"fixed_leg_bps"`
	FloatingLegBPS *decimal.Decimal `json:"floating_leg_bps"`
	FairRatePct    *decimal.Decimal `json:"fair_rate_pct"`
	FairSpreadBP   *decimal.Decimal `json:"fair_spread_bp"`
}

// NewRow rounds r for display.
func NewRow(r store.Run) Row {
	ccy := currencyOf(r.Index)
	places := AmountPlaces(ccy)
	amount := func(f null.Float) *decimal.Decimal { return rounded(f, 1, places) }

	return Row{
		ID:             r.ID,
		TradeID:        r.TradeID,
		Index:          r.Index,
		Currency:       ccy,
		Side:           r.Side,
		EvaluationDate: utils.FormatDate(r.EvaluationDate),
		Nominal:        decimal.NewFromFloat(r.Nominal).Round(places),
		NPV:            amount(r.NPV),
		FixedLegNPV:    amount(r.FixedLegNPV),
		FloatingLegNPV: amount(r.FloatingLegNPV),
		FixedLegBPS:    amount(r.FixedLegBPS),
		FloatingLegBPS: amount(r.FloatingLegBPS),
		FairRatePct:    rounded(r.FairRate, 100, ratePlaces),
		FairSpreadBP:   rounded(r.FairSpread, 10_000, spreadPlaces),
	}
}

// AmountPlaces returns the number of decimals amounts in ccy are shown with.
func AmountPlaces(ccy string) int32 {
	if p, ok := minorUnits[ccy]; ok {
		return p
	}
	return 2
}

func currencyOf(idx string) string {
	ref, err := market.ParseReferenceIndex(idx)
	if err != nil {
		return ""
	}
	c, err := market.ConventionFor(ref)
	if err != nil {
		return ""
	}
	return c.Currency
}

func rounded(f null.Float, scale float64, places int32) *decimal.Decimal {
	v, ok := f.Get()
	if !ok {
		return nil
	}
	d := decimal.NewFromFloat(v).Mul(decimal.NewFromFloat(scale)).Round(places)
	return &d
}

func cell(d *decimal.Decimal, places int32) string {
	if d == nil {
		return "-"
	}
	return d.StringFixed(places)
}

// Table writes runs as an aligned console table.
func Table(w io.Writer, runs []store.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "no pricing runs")
		return
	}

	table := tablewriter.NewWriter(w)
	table.Header("Trade", "Index", "Side", "Eval date", "Nominal", "NPV", "Fixed NPV", "Floating NPV", "Fair rate %", "Fair spread bp")
	for _, r := range runs {
		row := NewRow(r)
		places := AmountPlaces(row.Currency)
		table.Append(
			row.TradeID,
			row.Index,
			row.Side,
			row.EvaluationDate,
			row.Nominal.StringFixed(places),
			cell(row.NPV, places),
			cell(row.FixedLegNPV, places),
			cell(row.FloatingLegNPV, places),
			cell(row.FairRatePct, ratePlaces),
			cell(row.FairSpreadBP, spreadPlaces),
		)
	}
	table.Render()
}

// JSON writes runs as an indented JSON array of rows.
func JSON(w io.Writer, runs []store.Run) error {
	rows := make([]Row, len(runs))
	for i, r := range runs {
		rows[i] = NewRow(r)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("report.JSON: %w", err)
	}
	return nil
}
