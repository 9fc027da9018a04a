package volsurface

import "github.com/jiaming2012/volbatch/src/models"

// VolRequest carries the inputs for one volatility computation. Exactly one
// of the two pricing modes is populated: Precomputed+DiscountType for the
// discount-curve variant, DivYield+InterestRate for the yield variant.
type VolRequest struct {
	Ticker       string        `json:"ticker"`
	StartDate    string        `json:"start_date"`
	Monthlies    bool          `json:"monthlies"`
	DiscountType string        `json:"discount_type,omitempty"`
	Precomputed  *models.Table `json:"precomputed_data,omitempty"`
	DivYield     *float64      `json:"q,omitempty"`
	InterestRate *float64      `json:"r,omitempty"`
}

// DiscountProvider bootstraps a discount-rate table for a ticker.
type DiscountProvider interface {
	RatesTable(ticker string) (models.Table, error)
}

// Engine is the external volatility component. LoadData and SkewReport are
// invoked as a pair, after which the per-type data and the raw
// (tenor, strike) grid are readable. Engines are synchronous and may fail
// on malformed upstream data.
type Engine interface {
	LoadData() error
	SkewReport(numTenors int) error
	DataDict() map[string]map[string]interface{}
	VolGrid() map[models.TenorStrike]float64
}

// EngineFactory builds one engine per computation.
type EngineFactory interface {
	NewEngine(req VolRequest) (Engine, error)
}
