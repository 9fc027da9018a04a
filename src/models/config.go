package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSkewTenors     = 24
	DefaultTimeoutSeconds = 300
	DefaultStockBaseURL   = "https://stockanalysis.com/stocks/"
	DefaultETFBaseURL     = "https://stockanalysis.com/etf/"
)

// BatchConfig holds every knob for a single batch run. It is built once,
// before the run starts, and never mutated afterwards.
type BatchConfig struct {
	Ticker       string    `yaml:"ticker"`
	TickerMap    TickerMap `yaml:"tickerMap"`
	StartDate    string    `yaml:"start_date"`
	DiscountType string    `yaml:"discount_type"`

	// Divs selects the yield-driven variant: dividend yields are scraped up
	// front and fed into the engine together with a flat interest rate.
	// When false the discount-curve variant is used and no scraping occurs.
	// InterestRate is a pointer so an explicit 0% rate is distinguishable
	// from the field being absent.
	Divs         bool     `yaml:"divs"`
	InterestRate *float64 `yaml:"interest_rate"`

	SkewTenors     int    `yaml:"skew_tenors"`
	Save           bool   `yaml:"save"`
	ExportCSV      bool   `yaml:"export_csv"`
	OutputDir      string `yaml:"output_dir"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`

	StockBaseURL   string            `yaml:"stock_base_url"`
	ETFBaseURL     string            `yaml:"etf_base_url"`
	UserAgents     []string          `yaml:"user_agents"`
	RequestHeaders map[string]string `yaml:"request_headers"`

	// Composite-index keys whose yield is copied from a proxy ticker after
	// the scrape sweep, e.g. SPX mirrors SPY.
	IndexProxies map[string]string `yaml:"index_proxies"`

	BatchPauseMinSeconds  int `yaml:"batch_pause_min_seconds"`
	BatchPauseMaxSeconds  int `yaml:"batch_pause_max_seconds"`
	ScrapePauseMinSeconds int `yaml:"scrape_pause_min_seconds"`
	ScrapePauseMaxSeconds int `yaml:"scrape_pause_max_seconds"`
}

func DefaultConfig() *BatchConfig {
	return &BatchConfig{
		SkewTenors:     DefaultSkewTenors,
		TimeoutSeconds: DefaultTimeoutSeconds,
		StockBaseURL:   DefaultStockBaseURL,
		ETFBaseURL:     DefaultETFBaseURL,
		UserAgents: []string{
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
			"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
			"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
			"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		},
		RequestHeaders: map[string]string{
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.5",
		},
		IndexProxies: map[string]string{
			"SPX": "SPY",
		},
		BatchPauseMinSeconds:  6,
		BatchPauseMaxSeconds:  15,
		ScrapePauseMinSeconds: 5,
		ScrapePauseMaxSeconds: 15,
	}
}

// LoadConfig overlays a YAML file on top of the defaults.
func LoadConfig(path string) (*BatchConfig, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %v", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %v", path, err)
	}

	return cfg, nil
}

func (c *BatchConfig) Validate() error {
	if c.Ticker == "" && c.TickerMap.Len() == 0 {
		return fmt.Errorf("config requires either ticker or tickerMap")
	}

	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be positive, got %d", c.TimeoutSeconds)
	}

	if c.SkewTenors <= 0 {
		return fmt.Errorf("skew_tenors must be positive, got %d", c.SkewTenors)
	}

	if c.Divs && c.InterestRate == nil {
		return fmt.Errorf("interest_rate is required when divs is set")
	}

	return nil
}
