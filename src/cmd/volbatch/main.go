package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jiaming2012/volbatch/src/batch"
	"github.com/jiaming2012/volbatch/src/models"
	"github.com/jiaming2012/volbatch/src/scraper"
	"github.com/jiaming2012/volbatch/src/utils"
	"github.com/jiaming2012/volbatch/src/volsurface"
)

type RunArgs struct {
	ConfigPath      string
	Ticker          string
	StartDate       string
	DiscountType    string
	Divs            bool
	DivsSet         bool
	InterestRate    float64
	InterestRateSet bool
	SkewTenors      int
	SkewTenorsSet   bool
	Save            bool
	SaveSet         bool
	ExportCSV       bool
	Timeout         int
	OutputDir       string
	EngineURL       string
	DivYieldsPath   string
}

var runCmd = &cobra.Command{
	Use:   "volbatch",
	Short: "Build volatility surfaces for a batch of tickers and save them as JSON",
	Run: func(cmd *cobra.Command, args []string) {
		runArgs := RunArgs{}

		runArgs.ConfigPath, _ = cmd.Flags().GetString("config")
		runArgs.Ticker, _ = cmd.Flags().GetString("ticker")
		runArgs.StartDate, _ = cmd.Flags().GetString("start-date")
		runArgs.DiscountType, _ = cmd.Flags().GetString("discount-type")
		runArgs.Divs, _ = cmd.Flags().GetBool("divs")
		runArgs.DivsSet = cmd.Flags().Changed("divs")
		runArgs.InterestRate, _ = cmd.Flags().GetFloat64("interest-rate")
		runArgs.InterestRateSet = cmd.Flags().Changed("interest-rate")
		runArgs.SkewTenors, _ = cmd.Flags().GetInt("skew-tenors")
		runArgs.SkewTenorsSet = cmd.Flags().Changed("skew-tenors")
		runArgs.Save, _ = cmd.Flags().GetBool("save")
		runArgs.SaveSet = cmd.Flags().Changed("save")
		runArgs.ExportCSV, _ = cmd.Flags().GetBool("export-csv")
		runArgs.Timeout, _ = cmd.Flags().GetInt("timeout")
		runArgs.OutputDir, _ = cmd.Flags().GetString("output-dir")
		runArgs.EngineURL, _ = cmd.Flags().GetString("engine-url")
		runArgs.DivYieldsPath, _ = cmd.Flags().GetString("div-yields")

		if err := Run(runArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

func Run(args RunArgs) error {
	if err := utils.InitEnvironmentVariables(); err != nil {
		return fmt.Errorf("error initializing environment variables: %v", err)
	}

	cfg, err := buildConfig(args)
	if err != nil {
		return err
	}

	engineURL := args.EngineURL
	if engineURL == "" {
		engineURL = os.Getenv("VOL_ENGINE_URL")
	}
	if engineURL == "" {
		return fmt.Errorf("missing engine URL: set --engine-url or VOL_ENGINE_URL")
	}

	client := volsurface.NewRemoteClient(engineURL)
	builder := volsurface.NewBuilder(client, client)
	driver := batch.NewDriver(cfg, builder, scraper.New(cfg))

	if args.DivYieldsPath != "" {
		divMap, err := models.LoadDivYields(args.DivYieldsPath)
		if err != nil {
			return fmt.Errorf("error loading div yields: %v", err)
		}
		driver.SetDivYields(divMap)
	}

	if cfg.TickerMap.Len() == 0 {
		driver.RunSingle()
		return nil
	}

	results := driver.RunBatch()
	log.Infof("batch complete: %d of %d tickers succeeded", len(results), cfg.TickerMap.Len())

	return nil
}

func buildConfig(args RunArgs) (*models.BatchConfig, error) {
	cfg := models.DefaultConfig()

	if args.ConfigPath != "" {
		loaded, err := models.LoadConfig(args.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("error loading config: %v", err)
		}
		cfg = loaded
	}

	if args.Ticker != "" {
		cfg.Ticker = args.Ticker
	}
	if args.StartDate != "" {
		cfg.StartDate = args.StartDate
	}
	if args.DiscountType != "" {
		cfg.DiscountType = args.DiscountType
	}
	if args.DivsSet {
		cfg.Divs = args.Divs
	}
	if args.InterestRateSet {
		cfg.InterestRate = &args.InterestRate
	}
	if args.SkewTenorsSet {
		cfg.SkewTenors = args.SkewTenors
	}
	if args.SaveSet {
		cfg.Save = args.Save
	}
	if args.ExportCSV {
		cfg.ExportCSV = true
	}
	if args.Timeout > 0 {
		cfg.TimeoutSeconds = args.Timeout
	}
	if args.OutputDir != "" {
		cfg.OutputDir = args.OutputDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %v", err)
	}

	return cfg, nil
}

func main() {
	runCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	runCmd.PersistentFlags().String("ticker", "", "Single ticker to process")
	runCmd.PersistentFlags().String("start-date", "", "Starting date for option trades to include")
	runCmd.PersistentFlags().String("discount-type", "", "Discount type for the discount-curve variant")
	runCmd.PersistentFlags().Bool("divs", false, "Scrape dividend yields instead of bootstrapping a discount curve")
	runCmd.PersistentFlags().Float64("interest-rate", 0, "Flat interest rate used with --divs")
	runCmd.PersistentFlags().Int("skew-tenors", models.DefaultSkewTenors, "Number of months in the skew report")
	runCmd.PersistentFlags().Bool("save", false, "Write one JSON file per ticker")
	runCmd.PersistentFlags().Bool("export-csv", false, "Also export the skew summary as CSV")
	runCmd.PersistentFlags().Int("timeout", 0, "Per-ticker computation timeout in seconds")
	runCmd.PersistentFlags().String("output-dir", "", "Directory for output files")
	runCmd.PersistentFlags().String("engine-url", "", "Base URL of the analytics service")
	runCmd.PersistentFlags().String("div-yields", "", "Reload dividend yields from a saved tickerMap.json")

	if err := runCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
