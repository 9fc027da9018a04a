package utils

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/volbatch/src/models"
)

func TestNormalize(t *testing.T) {
	t.Run("replaces NaN with nil, recursively", func(t *testing.T) {
		tree := map[string]interface{}{
			"a": math.NaN(),
			"b": []interface{}{1.5, math.NaN()},
			"c": map[string]interface{}{
				"d": float32(math.NaN()),
			},
		}

		out := Normalize(tree).(map[string]interface{})

		assert.Nil(t, out["a"])
		assert.Equal(t, []interface{}{1.5, nil}, out["b"])
		assert.Nil(t, out["c"].(map[string]interface{})["d"])
	})

	t.Run("expands float slices and scrubs their NaNs", func(t *testing.T) {
		out := Normalize([]float64{0.1, math.NaN(), 0.3})

		assert.Equal(t, []interface{}{0.1, nil, 0.3}, out)
	})

	t.Run("leaves non-NaN values untouched", func(t *testing.T) {
		assert.Equal(t, 0.12345, Normalize(0.12345))
		assert.Equal(t, "x", Normalize("x"))
		assert.Equal(t, 7, Normalize(7))
	})
}

func TestEncode(t *testing.T) {
	t.Run("rounds floats to 2 decimal places", func(t *testing.T) {
		out, err := Encode(map[string]interface{}{
			"a": 0.12345,
			"b": 1.999,
		})

		require.Nil(t, err)
		tree := out.(map[string]interface{})
		assert.Equal(t, 0.12, tree["a"])
		assert.Equal(t, 2.0, tree["b"])
	})

	t.Run("converts integer-like numerics to int", func(t *testing.T) {
		out, err := Encode([]interface{}{int64(7), uint8(3), int32(-2)})

		require.Nil(t, err)
		assert.Equal(t, []interface{}{7, 3, -2}, out)
	})

	t.Run("NaN becomes null before rounding", func(t *testing.T) {
		out, err := Encode(map[string]interface{}{"v": math.NaN()})

		require.Nil(t, err)
		assert.Nil(t, out.(map[string]interface{})["v"])
	})

	t.Run("dates become ISO strings", func(t *testing.T) {
		date := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
		stamp := time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)

		out, err := Encode(map[string]interface{}{
			"date":  date,
			"stamp": stamp,
			"index": []time.Time{date, date.AddDate(0, 1, 0)},
		})

		require.Nil(t, err)
		tree := out.(map[string]interface{})
		assert.Equal(t, "2024-01-02", tree["date"])
		assert.Equal(t, "2024-01-02T09:30:00Z", tree["stamp"])
		assert.Equal(t, []interface{}{"2024-01-02", "2024-02-02"}, tree["index"])
	})

	t.Run("tables serialize to a JSON string", func(t *testing.T) {
		table := models.Table{
			Columns: []string{"date", "rate"},
			Rows: [][]interface{}{
				{"2024-01-02", 0.0525},
			},
		}

		out, err := Encode(map[string]interface{}{"rates": table})

		require.Nil(t, err)
		s, ok := out.(map[string]interface{})["rates"].(string)
		require.True(t, ok)
		assert.Contains(t, s, "columns")
		assert.Contains(t, s, "0.05")
	})

	t.Run("re-encoding an encoded tree is a no-op", func(t *testing.T) {
		tree := map[string]interface{}{
			"a": math.NaN(),
			"b": 0.456,
			"c": []interface{}{int64(1), "x", true, nil},
			"d": time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		}

		once, err := Encode(tree)
		require.Nil(t, err)

		twice, err := Encode(once)
		require.Nil(t, err)

		assert.Equal(t, once, twice)
	})

	t.Run("unknown leaf types fail with a named error", func(t *testing.T) {
		type opaque struct{}

		_, err := Encode(map[string]interface{}{"x": opaque{}})

		assert.ErrorIs(t, err, ErrUnsupportedType)
	})
}

func TestDeepCopyTree(t *testing.T) {
	src := map[string]interface{}{
		"params": map[string]interface{}{
			"sigma": 0.2,
		},
		"vols": []float64{0.1, 0.2},
	}

	cp := DeepCopyTree(src).(map[string]interface{})
	cp["params"].(map[string]interface{})["sigma"] = 0.9
	cp["vols"].([]float64)[0] = 9.9

	assert.Equal(t, 0.2, src["params"].(map[string]interface{})["sigma"])
	assert.Equal(t, 0.1, src["vols"].([]float64)[0])
}
