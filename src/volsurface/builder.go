package volsurface

import (
	"fmt"
	"strconv"

	"github.com/montanaflynn/stats"
	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/volbatch/src/models"
	"github.com/jiaming2012/volbatch/src/utils"
)

// Builder assembles per-ticker requests for the external analytics
// components and reshapes their output. It never recomputes vols.
type Builder struct {
	discount DiscountProvider
	engines  EngineFactory
}

func NewBuilder(discount DiscountProvider, engines EngineFactory) *Builder {
	return &Builder{
		discount: discount,
		engines:  engines,
	}
}

// BuildWithDiscount bootstraps a discount curve for the ticker and runs the
// discount-type driven computation.
func (b *Builder) BuildWithDiscount(ticker, startDate, discountType string, skewTenors int) (*models.SurfaceResult, error) {
	log.Infof("starting volatility calculation for %s", ticker)

	rates, err := b.discount.RatesTable(ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch discount rates for %s: %v", ticker, err)
	}

	req := VolRequest{
		Ticker:       ticker,
		StartDate:    startDate,
		Monthlies:    true,
		DiscountType: discountType,
		Precomputed:  &rates,
	}

	return b.build(req, skewTenors)
}

// BuildWithYield runs the computation from a directly supplied dividend
// yield and flat interest rate, skipping the discount-curve bootstrap.
func (b *Builder) BuildWithYield(ticker string, divYield, interestRate float64, startDate string, skewTenors int) (*models.SurfaceResult, error) {
	log.Infof("starting volatility calculation for %s (div yield %.4f)", ticker, divYield)

	req := VolRequest{
		Ticker:       ticker,
		StartDate:    startDate,
		Monthlies:    true,
		DivYield:     &divYield,
		InterestRate: &interestRate,
	}

	return b.build(req, skewTenors)
}

func (b *Builder) build(req VolRequest, skewTenors int) (*models.SurfaceResult, error) {
	engine, err := b.engines.NewEngine(req)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine for %s: %v", req.Ticker, err)
	}

	if err := engine.LoadData(); err != nil {
		return nil, fmt.Errorf("failed to load data for %s: %v", req.Ticker, err)
	}

	if err := engine.SkewReport(skewTenors); err != nil {
		return nil, fmt.Errorf("failed to compute skew report for %s: %v", req.Ticker, err)
	}

	// Copy the grid so later engine mutation cannot reach the result.
	grid := make(map[models.TenorStrike]float64, len(engine.VolGrid()))
	for key, vol := range engine.VolGrid() {
		grid[key] = vol
	}

	skewDict := pivotGrid(grid)
	skewDict["ticker"] = req.Ticker
	skewDict["start_date"] = req.StartDate

	return &models.SurfaceResult{
		DataDict: stripDataDict(engine.DataDict()),
		SkewDict: skewDict,
		SkewData: buildSkewSummary(grid, skewTenors, req.Ticker, req.StartDate),
	}, nil
}

// heavy or purely internal sub-keys dropped from every vol type before
// serialization
var strippedParamKeys = []string{"yield_curve", "option_dict", "opt_list"}

func stripDataDict(src map[string]map[string]interface{}) map[string]map[string]interface{} {
	out := make(map[string]map[string]interface{}, len(src))

	for volType, data := range src {
		cp, ok := utils.DeepCopyTree(map[string]interface{}(data)).(map[string]interface{})
		if !ok {
			cp = make(map[string]interface{})
		}

		delete(cp, "tables")

		if params, ok := cp["params"].(map[string]interface{}); ok {
			for _, key := range strippedParamKeys {
				delete(params, key)
			}
		}

		out[volType] = cp
	}

	return out
}

// pivotGrid turns the raw (tenor, strike) grid into a two-level mapping of
// "<tenor>M" -> "<strike>" -> vol.
func pivotGrid(grid map[models.TenorStrike]float64) map[string]interface{} {
	out := make(map[string]interface{})

	for key, vol := range grid {
		label := strconv.Itoa(key.Tenor) + "M"

		strikes, ok := out[label].(map[string]interface{})
		if !ok {
			strikes = make(map[string]interface{})
			out[label] = strikes
		}

		strikes[strconv.Itoa(key.Strike)] = vol
	}

	return out
}

func buildSkewSummary(grid map[models.TenorStrike]float64, numTenors int, ticker, startDate string) *models.SkewSummary {
	rows := make(map[int]*models.SkewRow, numTenors)
	for tenor := 1; tenor <= numTenors; tenor++ {
		rows[tenor] = &models.SkewRow{Label: strconv.Itoa(tenor)}
	}

	for key, vol := range grid {
		row, ok := rows[key.Tenor]
		if !ok {
			continue
		}

		v := vol
		switch key.Strike {
		case 80:
			row.Vol80 = &v
		case 90:
			row.Vol90 = &v
		case 100:
			row.ATM = &v
		case 110:
			row.Vol110 = &v
		case 120:
			row.Vol120 = &v
		}
	}

	var atmVols []float64
	for _, row := range rows {
		row.SkewMinus20 = skewSlope(row.Vol80, row.ATM)
		row.SkewMinus10 = skewSlope(row.Vol90, row.ATM)
		row.SkewPlus10 = skewSlope(row.Vol110, row.ATM)
		row.SkewPlus20 = skewSlope(row.Vol120, row.ATM)

		if row.ATM != nil {
			atmVols = append(atmVols, *row.ATM)
		}
	}

	summary := &models.SkewSummary{
		Rows:      rows,
		Ticker:    ticker,
		StartDate: startDate,
	}

	if len(atmVols) > 0 {
		if mean, err := stats.Mean(atmVols); err == nil {
			summary.ATMMean = &mean
		}
		if stdev, err := stats.StandardDeviation(atmVols); err == nil {
			summary.ATMStdev = &stdev
		}
	}

	return summary
}

// skewSlope is the vol change per percentage point of strike over a 20
// point band, nil when either side of the band is missing.
func skewSlope(band, atm *float64) *float64 {
	if band == nil || atm == nil {
		return nil
	}

	slope := utils.Round2((*band - *atm) / 20)

	return &slope
}
