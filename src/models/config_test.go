package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultSkewTenors, cfg.SkewTenors)
	assert.Equal(t, DefaultTimeoutSeconds, cfg.TimeoutSeconds)
	assert.Equal(t, "SPY", cfg.IndexProxies["SPX"])
	assert.NotEmpty(t, cfg.UserAgents)
	assert.Equal(t, 6, cfg.BatchPauseMinSeconds)
	assert.Equal(t, 15, cfg.BatchPauseMaxSeconds)
}

func TestLoadConfig(t *testing.T) {
	t.Run("overlays file values on defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `
start_date: "2024-01-02"
discount_type: forward
divs: true
interest_rate: 0.05
skew_tenors: 12
tickerMap:
  AAPL:
    ticker: AAPL
  SPX:
    ticker: SPX
`
		require.Nil(t, os.WriteFile(path, []byte(content), 0644))

		cfg, err := LoadConfig(path)
		require.Nil(t, err)

		assert.Equal(t, "2024-01-02", cfg.StartDate)
		assert.Equal(t, "forward", cfg.DiscountType)
		assert.True(t, cfg.Divs)
		require.NotNil(t, cfg.InterestRate)
		assert.Equal(t, 0.05, *cfg.InterestRate)
		assert.Equal(t, 12, cfg.SkewTenors)

		entry, ok := cfg.TickerMap.Get("AAPL")
		require.True(t, ok)
		assert.Equal(t, "AAPL", entry.Ticker)

		// untouched fields keep their defaults
		assert.Equal(t, DefaultTimeoutSeconds, cfg.TimeoutSeconds)
		assert.Equal(t, "SPY", cfg.IndexProxies["SPX"])
	})

	t.Run("ticker map keeps file order", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `
tickerMap:
  ZZZ:
    ticker: ZZZ
  AAA:
    ticker: AAA
`
		require.Nil(t, os.WriteFile(path, []byte(content), 0644))

		cfg, err := LoadConfig(path)
		require.Nil(t, err)

		assert.Equal(t, []string{"ZZZ", "AAA"}, cfg.TickerMap.OrderedKeys())
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))

		assert.NotNil(t, err)
	})
}

func TestValidate(t *testing.T) {
	base := func() *BatchConfig {
		cfg := DefaultConfig()
		cfg.Ticker = "AAPL"
		return cfg
	}

	t.Run("valid config passes", func(t *testing.T) {
		assert.Nil(t, base().Validate())
	})

	t.Run("requires a ticker or a ticker map", func(t *testing.T) {
		cfg := base()
		cfg.Ticker = ""
		assert.NotNil(t, cfg.Validate())
	})

	t.Run("requires a positive timeout", func(t *testing.T) {
		cfg := base()
		cfg.TimeoutSeconds = 0
		assert.NotNil(t, cfg.Validate())
	})

	t.Run("requires an interest rate in divs mode", func(t *testing.T) {
		cfg := base()
		cfg.Divs = true
		assert.NotNil(t, cfg.Validate())

		rate := 0.05
		cfg.InterestRate = &rate
		assert.Nil(t, cfg.Validate())
	})

	t.Run("an explicit zero rate is valid in divs mode", func(t *testing.T) {
		cfg := base()
		cfg.Divs = true

		rate := 0.0
		cfg.InterestRate = &rate
		assert.Nil(t, cfg.Validate())
	})
}
