package null_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/swaplib/null"
)

func TestFloatZeroValueIsNull(t *testing.T) {
	t.Parallel()

	var f null.Float
	assert.True(t, f.IsNull())
	_, ok := f.Get()
	assert.False(t, ok)
	assert.Equal(t, 7.0, f.Or(7))
	assert.Equal(t, "null", f.String())

	g := null.FloatFrom(0)
	assert.False(t, g.IsNull())
	assert.Equal(t, 0.0, g.Or(7))
}

func TestFloatJSON(t *testing.T) {
	t.Parallel()

	type payload struct {
		Rate   null.Float `json:"rate"`
		Spread null.Float `json:"spread"`
	}
	out, err := json.Marshal(payload{Rate: null.FloatFrom(0.0325)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"rate":0.0325,"spread":null}`, string(out))

	var in payload
	require.NoError(t, json.Unmarshal([]byte(`{"rate":null,"spread":-0.001}`), &in))
	assert.True(t, in.Rate.IsNull())
	v, ok := in.Spread.Get()
	assert.True(t, ok)
	assert.Equal(t, -0.001, v)
}

func TestFloatSQL(t *testing.T) {
	t.Parallel()

	v, err := null.Float{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	var f null.Float
	require.NoError(t, f.Scan(1.5))
	assert.Equal(t, 1.5, f.Or(0))
	require.NoError(t, f.Scan(nil))
	assert.True(t, f.IsNull())
	require.NoError(t, f.Scan([]byte("2.25")))
	assert.Equal(t, 2.25, f.Or(0))
	assert.Error(t, f.Scan("text"))
}
