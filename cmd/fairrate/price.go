package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/meenmo/swaplib/config"
	"github.com/meenmo/swaplib/curve"
	"github.com/meenmo/swaplib/daycount"
	"github.com/meenmo/swaplib/internal/report"
	"github.com/meenmo/swaplib/internal/store"
	"github.com/meenmo/swaplib/null"
	"github.com/meenmo/swaplib/swap/discounting"
	"github.com/meenmo/swaplib/swap/market"
	"github.com/meenmo/swaplib/utils"
)

// MarketFile is the input of the price command, YAML or JSON.
//
// Conventions:
// - the curve discounts and forecasts every trade (single-curve pricing)
// - flat_rate is a continuously compounded ACT/365F zero rate in percent
// - discount_factors, if set, take precedence over flat_rate
// - evaluation_date defaults to the configured one, then to the curve date
type MarketFile struct {
	EvaluationDate string              `yaml:"evaluation_date"`
	Curve          CurveInput          `yaml:"curve"`
	Trades         []market.TradeTerms `yaml:"trades"`
}

// CurveInput describes the pricing curve.
type CurveInput struct {
	ReferenceDate   string             `yaml:"reference_date"`
	FlatRatePct     *float64           `yaml:"flat_rate"`
	DiscountFactors map[string]float64 `yaml:"discount_factors"`
}

func runPrice(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("price", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML config path (optional)")
	tradesPath := fs.String("trades", "", "market and trades file (optional; if unset, reads stdin)")
	asJSON := fs.Bool("json", false, "print JSON instead of a table")
	save := fs.Bool("save", false, "persist the runs to the history database")
	dsn := fs.String("db", "", "history database (overrides config)")
	verbose := fs.Bool("verbose", false, "set log level to debug")
	help := fs.Bool("h", false, "Show help")
	fs.BoolVar(help, "help", false, "Show help")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *help {
		priceUsage(stderr)
		return 0
	}

	cfg, err := loadConfig(*configPath, *verbose, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	path := strings.TrimSpace(*tradesPath)
	if path == "" {
		if f, ok := stdin.(*os.File); ok {
			if stat, err := f.Stat(); err == nil && (stat.Mode()&os.ModeCharDevice) != 0 {
				priceUsage(stderr)
				return 2
			}
		}
	}
	input, err := readInput(stdin, path)
	if err != nil {
		slog.Error("failed to read input", "err", err)
		return 1
	}
	var mf MarketFile
	if err := yaml.Unmarshal(input, &mf); err != nil {
		slog.Error("failed to parse input", "err", err)
		return 1
	}

	h, err := mf.setup()
	if err != nil {
		slog.Error("invalid market", "err", err)
		return 1
	}

	code := 0
	runs := make([]store.Run, 0, len(mf.Trades))
	for i, tt := range mf.Trades {
		if strings.TrimSpace(tt.ID) == "" {
			tt.ID = fmt.Sprintf("trade-%d", i+1)
		}
		r, err := priceTrade(tt, h)
		if err != nil {
			slog.Error("pricing failed", "trade", tt.ID, "err", err)
			code = 1
			continue
		}
		slog.Info("priced", "trade", tt.ID, "npv", r.NPV, "fair_rate", r.FairRate)
		runs = append(runs, r)
	}

	if *save && len(runs) > 0 {
		if *dsn != "" {
			cfg.Storage.DSN = *dsn
		}
		if err := saveRuns(cfg.Storage.DSN, runs); err != nil {
			slog.Error("failed to save runs", "err", err, "dsn", cfg.Storage.DSN)
			return 1
		}
	}

	if *asJSON {
		if err := report.JSON(stdout, runs); err != nil {
			slog.Error("failed to write report", "err", err)
			return 1
		}
	} else {
		report.Table(stdout, runs)
	}
	return code
}

func priceUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  fairrate price < market.yaml")
	fmt.Fprintln(w, "  fairrate price -trades market.yaml [-json] [-save] [-db runs.db] [-config config.yaml]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Price every trade on the given curve and print NPV, leg BPS, fair rate and fair spread.")
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	return io.ReadAll(stdin)
}

// setup activates the evaluation date and builds the pricing curve.
func (mf MarketFile) setup() (*curve.Handle, error) {
	var eval time.Time
	switch {
	case strings.TrimSpace(mf.EvaluationDate) != "":
		d, err := utils.ParseDate(strings.TrimSpace(mf.EvaluationDate))
		if err != nil {
			return nil, fmt.Errorf("evaluation_date: %w", err)
		}
		eval = d
	case config.GetConfig().Pricing.EvaluationDate != "":
		eval = config.EvaluationDate()
	}

	ref := eval
	if s := strings.TrimSpace(mf.Curve.ReferenceDate); s != "" {
		d, err := utils.ParseDate(s)
		if err != nil {
			return nil, fmt.Errorf("curve reference_date: %w", err)
		}
		ref = d
	}
	if ref.IsZero() {
		return nil, fmt.Errorf("curve reference_date or evaluation_date is required")
	}
	if eval.IsZero() {
		eval = ref
	}
	config.SetEvaluationDate(eval)

	yc, err := mf.Curve.build(ref)
	if err != nil {
		return nil, err
	}
	return curve.NewHandle(yc), nil
}

func (c CurveInput) build(ref time.Time) (curve.YieldCurve, error) {
	if len(c.DiscountFactors) > 0 {
		dfs := make(map[time.Time]float64, len(c.DiscountFactors))
		for k, v := range c.DiscountFactors {
			d, err := utils.ParseDate(strings.TrimSpace(k))
			if err != nil {
				return nil, fmt.Errorf("discount factor date %q: %w", k, err)
			}
			dfs[d] = v
		}
		return curve.NewDiscountCurve(ref, dfs)
	}
	if c.FlatRatePct == nil {
		return nil, fmt.Errorf("curve needs flat_rate or discount_factors")
	}
	return curve.NewFlatForward(ref, *c.FlatRatePct/100.0, daycount.Act365F), nil
}

func priceTrade(tt market.TradeTerms, h *curve.Handle) (store.Run, error) {
	trade, err := tt.Build(h)
	if err != nil {
		return store.Run{}, err
	}
	sw := trade.Swap
	sw.SetPricingEngine(discounting.NewEngine(h))

	r := store.Run{
		TradeID:        tt.ID,
		Index:          string(trade.Convention.Index),
		Side:           string(sw.Side()),
		Nominal:        sw.Nominal(),
		FixedRate:      sw.FixedRate(),
		Spread:         sw.Spread(),
		EvaluationDate: config.EvaluationDate(),
	}
	results := []struct {
		dst *null.Float
		get func() (null.Float, error)
	}{
		{&r.NPV, sw.NPV},
		{&r.FixedLegNPV, sw.FixedLegNPV},
		{&r.FloatingLegNPV, sw.FloatingLegNPV},
		{&r.FixedLegBPS, sw.FixedLegBPS},
		{&r.FloatingLegBPS, sw.FloatingLegBPS},
		{&r.FairRate, sw.FairRate},
		{&r.FairSpread, sw.FairSpread},
	}
	for _, res := range results {
		v, err := res.get()
		if err != nil {
			return store.Run{}, fmt.Errorf("price %s: %w", tt.ID, err)
		}
		*res.dst = v
	}
	return r, nil
}

func saveRuns(dsn string, runs []store.Run) error {
	s, err := store.Open(dsn)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()
	for i := range runs {
		if err := s.Save(ctx, &runs[i]); err != nil {
			return err
		}
	}
	return nil
}
