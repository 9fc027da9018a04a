package volsurface

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jiaming2012/volbatch/src/models"
	"github.com/jiaming2012/volbatch/src/utils"
)

// RemoteClient talks to an analytics service exposing the discount-curve
// and volatility components over HTTP. It implements both DiscountProvider
// and EngineFactory.
type RemoteClient struct {
	baseURL string
}

func NewRemoteClient(baseURL string) *RemoteClient {
	return &RemoteClient{
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (c *RemoteClient) RatesTable(ticker string) (models.Table, error) {
	body, err := utils.Get(c.baseURL+"/rates/"+ticker, nil)
	if err != nil {
		return models.Table{}, fmt.Errorf("failed to fetch rates for %s: %v", ticker, err)
	}

	var table struct {
		Columns []string        `json:"columns"`
		Rows    [][]interface{} `json:"rows"`
	}
	if err := json.Unmarshal(body, &table); err != nil {
		return models.Table{}, fmt.Errorf("failed to parse rates for %s: %v", ticker, err)
	}

	return models.Table{
		Columns: table.Columns,
		Rows:    table.Rows,
	}, nil
}

func (c *RemoteClient) NewEngine(req VolRequest) (Engine, error) {
	return &remoteEngine{
		client: c,
		req:    req,
	}, nil
}

type remoteEngine struct {
	client   *RemoteClient
	req      VolRequest
	dataDict map[string]map[string]interface{}
	grid     map[models.TenorStrike]float64
}

func (e *remoteEngine) LoadData() error {
	payload, err := json.Marshal(e.req)
	if err != nil {
		return fmt.Errorf("failed to marshal vol request: %v", err)
	}

	body, err := utils.Post(e.client.baseURL+"/surface", nil, payload)
	if err != nil {
		return fmt.Errorf("failed to load surface data for %s: %v", e.req.Ticker, err)
	}

	var resp struct {
		DataDict map[string]map[string]interface{} `json:"data_dict"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("failed to parse surface data for %s: %v", e.req.Ticker, err)
	}

	e.dataDict = resp.DataDict

	return nil
}

func (e *remoteEngine) SkewReport(numTenors int) error {
	payload, err := json.Marshal(map[string]interface{}{
		"ticker":     e.req.Ticker,
		"start_date": e.req.StartDate,
		"tenors":     numTenors,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal skew request: %v", err)
	}

	body, err := utils.Post(e.client.baseURL+"/skew", nil, payload)
	if err != nil {
		return fmt.Errorf("failed to fetch skew report for %s: %v", e.req.Ticker, err)
	}

	var resp struct {
		// keys are "<tenor>,<strike>"
		Grid map[string]float64 `json:"grid"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("failed to parse skew report for %s: %v", e.req.Ticker, err)
	}

	grid := make(map[models.TenorStrike]float64, len(resp.Grid))
	for key, vol := range resp.Grid {
		parts := strings.SplitN(key, ",", 2)
		if len(parts) != 2 {
			return fmt.Errorf("malformed grid key %q for %s", key, e.req.Ticker)
		}

		tenor, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return fmt.Errorf("malformed tenor in grid key %q: %v", key, err)
		}

		strike, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return fmt.Errorf("malformed strike in grid key %q: %v", key, err)
		}

		grid[models.TenorStrike{Tenor: tenor, Strike: strike}] = vol
	}

	e.grid = grid

	return nil
}

func (e *remoteEngine) DataDict() map[string]map[string]interface{} {
	return e.dataDict
}

func (e *remoteEngine) VolGrid() map[models.TenorStrike]float64 {
	return e.grid
}
