package batch

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/volbatch/src/models"
	"github.com/jiaming2012/volbatch/src/scraper"
	"github.com/jiaming2012/volbatch/src/utils"
	"github.com/jiaming2012/volbatch/src/volsurface"
)

const (
	statusOK      = "ok"
	statusTimeout = "timeout"
	statusError   = "error"
)

type itemStatus struct {
	key     string
	status  string
	elapsed time.Duration
}

// Driver runs the batch: one ticker at a time, failures isolated per item,
// randomized pacing between items. The batch always completes; output is
// produced only for the items that succeeded within their deadline.
type Driver struct {
	cfg     *models.BatchConfig
	builder *volsurface.Builder
	scraper *scraper.Scraper
	runID   string

	divMap map[string]float64

	lastEncoded interface{}
	lastKey     string
}

func NewDriver(cfg *models.BatchConfig, builder *volsurface.Builder, scr *scraper.Scraper) *Driver {
	return &Driver{
		cfg:     cfg,
		builder: builder,
		scraper: scr,
		runID:   uuid.NewString(),
	}
}

// SetDivYields seeds the dividend map from a previous run's tickerMap.json
// so the batch can skip the scrape sweep.
func (d *Driver) SetDivYields(divMap map[string]float64) {
	d.divMap = divMap
}

// RunBatch processes every ticker in the map and returns the encoded
// results of the items that succeeded.
func (d *Driver) RunBatch() map[string]interface{} {
	if d.cfg.Divs && d.divMap == nil {
		d.divMap = d.scraper.FetchAll(d.cfg.TickerMap)
	}

	results := make(map[string]interface{})
	var statuses []itemStatus

	for _, key := range d.cfg.TickerMap.OrderedKeys() {
		entry, ok := d.cfg.TickerMap.Get(key)
		if !ok {
			continue
		}

		log.WithFields(log.Fields{
			"run_id": d.runID,
			"key":    key,
		}).Info("processing ticker")

		start := time.Now()
		encoded, status := d.processItem(key, entry.Ticker)
		if encoded != nil {
			results[key] = encoded
		}

		statuses = append(statuses, itemStatus{
			key:     key,
			status:  status,
			elapsed: time.Since(start).Round(time.Millisecond),
		})

		// random pause between tickers to avoid rate limiting
		utils.SleepRandom(d.cfg.BatchPauseMinSeconds, d.cfg.BatchPauseMaxSeconds)
	}

	printSummary(statuses)

	return results
}

// RunSingle is the batch pipeline for exactly one ticker. The encoded
// result is retained for a later explicit SaveVolData call.
func (d *Driver) RunSingle() {
	key := d.cfg.Ticker

	if d.cfg.Divs && d.divMap == nil {
		scrapeKey := key
		if proxy, ok := d.cfg.IndexProxies[key]; ok {
			log.Infof("using proxy ticker %s for index %s dividend yield", proxy, key)
			scrapeKey = proxy
		}

		d.divMap = map[string]float64{key: d.scraper.FetchYield(scrapeKey)}
	}

	encoded, status := d.processItem(key, key)
	if status != statusOK {
		log.Warnf("processing for %s did not complete: %s", key, status)
		return
	}

	d.lastEncoded = encoded
	d.lastKey = key
}

// SaveVolData writes the last retained single-ticker result. An empty
// filename defaults to <ticker>.json.
func (d *Driver) SaveVolData(filename string) error {
	if d.lastEncoded == nil {
		return fmt.Errorf("no vol data to save")
	}

	if filename == "" {
		filename = d.lastKey + ".json"
	}

	path := filepath.Join(d.cfg.OutputDir, filename)
	if err := utils.WriteJSONFile(path, d.lastEncoded); err != nil {
		return err
	}

	log.Infof("data saved as %s", path)

	return nil
}

// processItem runs the bounded computation, encodes, and persists. Every
// failure is logged with the item's key and swallowed so the batch can
// continue.
func (d *Driver) processItem(key, ticker string) (interface{}, string) {
	surface, timedOut, err := d.buildBounded(key, ticker)
	if err != nil {
		log.Errorf("error processing ticker %s: %v", key, err)
		return nil, statusError
	}

	if timedOut {
		log.Warnf("processing for %s timed out, skipping to next ticker", key)
		return nil, statusTimeout
	}

	encoded, err := utils.Encode(surface.Tree())
	if err != nil {
		log.Errorf("error encoding result for ticker %s: %v", key, err)
		return nil, statusError
	}

	if d.cfg.Save {
		if err := d.persist(key, encoded, surface.SkewData); err != nil {
			log.Errorf("error saving result for ticker %s: %v", key, err)
			return nil, statusError
		}
	}

	log.Infof("successfully processed ticker: %s", key)

	return encoded, statusOK
}

func (d *Driver) buildBounded(key, ticker string) (*models.SurfaceResult, bool, error) {
	deadline := time.Duration(d.cfg.TimeoutSeconds) * time.Second

	if d.cfg.Divs {
		yield := d.divMap[key]
		return utils.RunWithTimeout(func() (*models.SurfaceResult, error) {
			return d.builder.BuildWithYield(ticker, yield, *d.cfg.InterestRate, d.cfg.StartDate, d.cfg.SkewTenors)
		}, deadline)
	}

	return utils.RunWithTimeout(func() (*models.SurfaceResult, error) {
		return d.builder.BuildWithDiscount(ticker, d.cfg.StartDate, d.cfg.DiscountType, d.cfg.SkewTenors)
	}, deadline)
}

func (d *Driver) persist(key string, encoded interface{}, skew *models.SkewSummary) error {
	path := filepath.Join(d.cfg.OutputDir, key+".json")
	if err := utils.WriteJSONFile(path, encoded); err != nil {
		return err
	}

	if d.cfg.ExportCSV {
		csvPath := filepath.Join(d.cfg.OutputDir, key+"_skew.csv")
		if err := writeSkewCSV(csvPath, skew); err != nil {
			return err
		}
	}

	return nil
}
