package models

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestTickerMapOrderedKeys(t *testing.T) {
	t.Run("keys keep insertion order", func(t *testing.T) {
		tm := TickerMap{}
		tm.Set("SPY", &TickerEntry{Ticker: "SPY"})
		tm.Set("AAPL", &TickerEntry{Ticker: "AAPL"})
		tm.Set("QQQ", &TickerEntry{Ticker: "QQQ"})

		assert.Equal(t, []string{"SPY", "AAPL", "QQQ"}, tm.OrderedKeys())
		assert.Equal(t, 3, tm.Len())
	})

	t.Run("re-setting a key does not move it", func(t *testing.T) {
		tm := TickerMap{}
		tm.Set("SPY", &TickerEntry{Ticker: "SPY"})
		tm.Set("AAPL", &TickerEntry{Ticker: "AAPL"})
		tm.Set("SPY", &TickerEntry{Ticker: "SPY"})

		assert.Equal(t, []string{"SPY", "AAPL"}, tm.OrderedKeys())
		assert.Equal(t, 2, tm.Len())
	})
}

func TestTickerMapYAMLOrder(t *testing.T) {
	content := `
ZZZ:
  ticker: ZZZ
AAA:
  ticker: AAA
MMM:
  ticker: MMM
`

	var tm TickerMap
	require.Nil(t, yaml.Unmarshal([]byte(content), &tm))

	assert.Equal(t, []string{"ZZZ", "AAA", "MMM"}, tm.OrderedKeys())

	entry, ok := tm.Get("AAA")
	require.True(t, ok)
	assert.Equal(t, "AAA", entry.Ticker)
}

func TestTickerMapJSONRoundTrip(t *testing.T) {
	yield := 0.013
	tm := TickerMap{}
	tm.Set("ZZZ", &TickerEntry{Ticker: "ZZZ"})
	tm.Set("AAA", &TickerEntry{Ticker: "AAA", DivYield: &yield})

	data, err := json.Marshal(tm)
	require.Nil(t, err)

	var loaded TickerMap
	require.Nil(t, json.Unmarshal(data, &loaded))

	assert.Equal(t, []string{"ZZZ", "AAA"}, loaded.OrderedKeys())

	entry, ok := loaded.Get("AAA")
	require.True(t, ok)
	require.NotNil(t, entry.DivYield)
	assert.Equal(t, 0.013, *entry.DivYield)
}

func TestSaveAndLoadDivYields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickerMap.json")

	aapl := 0.0052
	tm := TickerMap{}
	tm.Set("AAPL", &TickerEntry{Ticker: "AAPL", DivYield: &aapl})
	tm.Set("TSLA", &TickerEntry{Ticker: "TSLA"})

	require.Nil(t, SaveTickerMap(path, tm))

	divMap, err := LoadDivYields(path)
	require.Nil(t, err)

	assert.Equal(t, 0.0052, divMap["AAPL"])
	assert.Equal(t, 0.0, divMap["TSLA"])
}

func TestSkewSummaryTree(t *testing.T) {
	atm := 0.25
	slope := 0.01

	summary := &SkewSummary{
		Rows: map[int]*SkewRow{
			1: {ATM: &atm, SkewMinus20: &slope, Label: "1"},
			2: {Label: "2"},
		},
		Ticker:    "AAPL",
		StartDate: "2024-01-02",
	}

	tree := summary.Tree()
	assert.Equal(t, "AAPL", tree["ticker"])
	assert.Equal(t, "2024-01-02", tree["start_date"])

	rows := tree["skew_dict"].(map[string]interface{})
	require.Len(t, rows, 2)

	row1 := rows["1"].(map[string]interface{})
	assert.Equal(t, 0.25, row1["ATM"])
	assert.Equal(t, 0.01, row1["-20% Skew"])
	assert.Nil(t, row1["80%"])

	row2 := rows["2"].(map[string]interface{})
	assert.Nil(t, row2["ATM"])
}
