package scraper

import (
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/volbatch/src/models"
	"github.com/jiaming2012/volbatch/src/utils"
)

// Scraper resolves dividend yields from the info pages of a ranked list of
// sources: the stock page first, the ETF page as fallback, 0.0 when both
// fail. It never returns an error.
type Scraper struct {
	cfg *models.BatchConfig
}

func New(cfg *models.BatchConfig) *Scraper {
	return &Scraper{cfg: cfg}
}

// FetchYield resolves the dividend yield for one ticker.
func (s *Scraper) FetchYield(key string) float64 {
	tickerLower := strings.ToLower(key)
	headers := s.requestHeaders()

	yield, err := s.fetchTier(s.cfg.StockBaseURL+tickerLower+"/", headers, parseStockYield)
	if err == nil {
		log.Infof("stock div yield for ticker %s: %.4f", key, yield)
		return yield
	}
	log.Infof("no stock div yield for ticker %s: %v", key, err)

	yield, err = s.fetchTier(s.cfg.ETFBaseURL+tickerLower+"/", headers, parseETFYield)
	if err == nil {
		log.Infof("etf div yield for ticker %s: %.4f", key, yield)
		return yield
	}
	log.Warnf("no div yield for ticker %s, defaulting to 0: %v", key, err)

	return 0
}

// FetchAll sweeps every ticker in order, applies the composite-index proxy
// overrides, enriches the ticker map in place and returns the dividend map.
// When Save is set the enriched map is persisted to tickerMap.json so a
// later run can reload yields without re-scraping.
func (s *Scraper) FetchAll(tm models.TickerMap) map[string]float64 {
	divMap := make(map[string]float64, tm.Len())

	for _, key := range tm.OrderedKeys() {
		divMap[key] = s.FetchYield(key)
		utils.SleepRandom(s.cfg.ScrapePauseMinSeconds, s.cfg.ScrapePauseMaxSeconds)
	}

	s.applyIndexProxies(tm, divMap)

	for _, key := range tm.OrderedKeys() {
		yield := divMap[key]
		if entry, ok := tm.Get(key); ok {
			entry.DivYield = &yield
		}
	}

	if s.cfg.Save {
		path := filepath.Join(s.cfg.OutputDir, "tickerMap.json")
		if err := models.SaveTickerMap(path, tm); err != nil {
			log.Errorf("failed to save ticker map: %v", err)
		}
	}

	return divMap
}

// applyIndexProxies forces each composite index's yield to its proxy
// ticker's, e.g. SPX mirrors SPY. The override only fires when both keys
// are part of the batch.
func (s *Scraper) applyIndexProxies(tm models.TickerMap, divMap map[string]float64) {
	for index, proxy := range s.cfg.IndexProxies {
		if _, ok := tm.Get(index); !ok {
			continue
		}

		proxyYield, ok := divMap[proxy]
		if !ok {
			log.Warnf("proxy ticker %s for index %s not in batch, keeping scraped yield", proxy, index)
			continue
		}

		divMap[index] = proxyYield
	}
}

func (s *Scraper) requestHeaders() map[string]string {
	headers := make(map[string]string, len(s.cfg.RequestHeaders)+1)
	for k, v := range s.cfg.RequestHeaders {
		headers[k] = v
	}

	// rotate per ticker to reduce blocking
	headers["User-Agent"] = utils.PickUserAgent(s.cfg.UserAgents)

	return headers
}

func (s *Scraper) fetchTier(url string, headers map[string]string, parse func([]byte) (float64, error)) (float64, error) {
	body, err := utils.Get(url, headers)
	if err != nil {
		return 0, err
	}

	return parse(body)
}
