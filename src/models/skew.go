package models

import "strconv"

// TenorStrike keys the raw vol grid exposed by the volatility engine:
// tenor in whole months, strike as a percentage of spot.
type TenorStrike struct {
	Tenor  int
	Strike int
}

// SkewStrikes are the five strike bands of the fixed skew grid.
var SkewStrikes = []int{80, 90, 100, 110, 120}

// SkewRow is one tenor's row of the fixed-grid skew summary. Band vols are
// nil when the raw grid has no value for that (tenor, strike); the slope
// columns are nil whenever either of their inputs is missing.
type SkewRow struct {
	Vol80  *float64 `csv:"80%"`
	Vol90  *float64 `csv:"90%"`
	ATM    *float64 `csv:"ATM"`
	Vol110 *float64 `csv:"110%"`
	Vol120 *float64 `csv:"120%"`

	SkewMinus20 *float64 `csv:"-20% Skew"`
	SkewMinus10 *float64 `csv:"-10% Skew"`
	SkewPlus10  *float64 `csv:"+10% Skew"`
	SkewPlus20  *float64 `csv:"+20% Skew"`

	Label string `csv:"label"`
}

// SkewSummary is the fixed-shape skew report: exactly one row per tenor in
// 1..N, plus the ticker and start date it was built for.
type SkewSummary struct {
	Rows      map[int]*SkewRow
	Ticker    string
	StartDate string

	// Mean and standard deviation of the ATM vols present in the grid.
	ATMMean  *float64
	ATMStdev *float64
}

func (r *SkewRow) tree() map[string]interface{} {
	return map[string]interface{}{
		"80%":       fromPtr(r.Vol80),
		"90%":       fromPtr(r.Vol90),
		"ATM":       fromPtr(r.ATM),
		"110%":      fromPtr(r.Vol110),
		"120%":      fromPtr(r.Vol120),
		"-20% Skew": fromPtr(r.SkewMinus20),
		"-10% Skew": fromPtr(r.SkewMinus10),
		"+10% Skew": fromPtr(r.SkewPlus10),
		"+20% Skew": fromPtr(r.SkewPlus20),
		"label":     r.Label,
	}
}

// Tree converts the summary into a plain nested map ready for encoding.
func (s *SkewSummary) Tree() map[string]interface{} {
	rows := make(map[string]interface{}, len(s.Rows))
	for tenor, row := range s.Rows {
		rows[strconv.Itoa(tenor)] = row.tree()
	}

	tree := map[string]interface{}{
		"skew_dict":  rows,
		"ticker":     s.Ticker,
		"start_date": s.StartDate,
	}

	if s.ATMMean != nil {
		tree["atm_mean"] = *s.ATMMean
	}
	if s.ATMStdev != nil {
		tree["atm_stdev"] = *s.ATMStdev
	}

	return tree
}

func fromPtr(v *float64) interface{} {
	if v == nil {
		return nil
	}

	return *v
}
