package report_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/swaplib/internal/report"
	"github.com/meenmo/swaplib/internal/store"
	"github.com/meenmo/swaplib/null"
)

func makeRun(tradeID, idx string) store.Run {
	return store.Run{
		ID:             "run-" + tradeID,
		TradeID:        tradeID,
		Index:          idx,
		Side:           "PAY",
		Nominal:        10_000_000,
		FixedRate:      0.024,
		EvaluationDate: time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
		NPV:            null.FloatFrom(1200.504),
		FixedLegNPV:    null.FloatFrom(-1_100_000.126),
		FloatingLegNPV: null.FloatFrom(1_101_200.63),
		FixedLegBPS:    null.FloatFrom(-4650.2),
		FloatingLegBPS: null.FloatFrom(4700.9),
		FairRate:       null.FloatFrom(0.0241),
	}
}

func TestNewRow_Rounding(t *testing.T) {
	t.Parallel()

	row := report.NewRow(makeRun("eur", "EURIBOR6M"))
	assert.Equal(t, "EUR", row.Currency)
	require.NotNil(t, row.NPV)
	assert.Equal(t, "1200.50", row.NPV.StringFixed(2))
	assert.Equal(t, "-1100000.13", row.FixedLegNPV.StringFixed(2))
	require.NotNil(t, row.FairRatePct)
	assert.Equal(t, "2.41", row.FairRatePct.String())
	assert.Nil(t, row.FairSpreadBP)
	assert.Equal(t, "2025-03-10", row.EvaluationDate)

	jpy := report.NewRow(makeRun("jpy", "TIBOR6M"))
	assert.Equal(t, "JPY", jpy.Currency)
	assert.Equal(t, "1201", jpy.NPV.String())

	unknown := report.NewRow(makeRun("x", "LIBOR3M"))
	assert.Empty(t, unknown.Currency)
	assert.Equal(t, int32(2), report.AmountPlaces(unknown.Currency))
}

func TestTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	report.Table(&buf, []store.Run{makeRun("eur-5y", "EURIBOR6M"), makeRun("krw-3y", "CD91D")})

	out := buf.String()
	assert.Contains(t, out, "eur-5y")
	assert.Contains(t, out, "krw-3y")
	assert.Contains(t, out, "1200.50")
	assert.Contains(t, out, "2.410000")
	assert.Contains(t, out, "-", "null fair spread")
}

func TestTable_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	report.Table(&buf, nil)
	assert.Contains(t, buf.String(), "no pricing runs")
}

func TestJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, report.JSON(&buf, []store.Run{makeRun("eur-5y", "EURIBOR6M")}))

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "eur-5y", rows[0]["trade_id"])
	assert.Equal(t, "1200.5", rows[0]["npv"])
	assert.Equal(t, "2.41", rows[0]["fair_rate_pct"])
	assert.Nil(t, rows[0]["fair_spread_bp"])
}
