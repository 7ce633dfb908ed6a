package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/apiscout/apiscout/internal/output"
	"github.com/apiscout/apiscout/pkg/analyzer"
	"github.com/apiscout/apiscout/pkg/marketdata"
)

var (
	version = "1.0.0"

	// Global flags
	configFile string
	verbose    bool
	debug      bool

	// Analyze flags
	description       string
	maxDepth          int
	noConfirm         bool
	includePagination bool
	rateLimit         float64
	navTimeout        int
	noHeadless        bool
	outputFile        string
	prettyOutput      bool

	// Market flags
	baseURL   string
	symbol    string
	period    string
	startDate string
	endDate   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "apiscout",
		Short: "apiscout - WebAPI discovery for data extraction",
		Long: `apiscout drives a headless browser against a target page, captures its
network traffic, and ranks the requests most likely to be the API behind
the data you described. When no API is found it falls back to HTML
selector hints. A thin market data client for an AKShare gateway is
included under the "market" command.`,
		Version: version,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [instructions]",
		Short: "Analyze a page for candidate API endpoints",
		Long: `Analyze a target page. The instructions must contain the target URL;
--description says what data you are after, e.g.:

  apiscout analyze "open https://shop.example.com/phones" -D "phone price list"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAnalyze,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Debug mode")

	analyzeCmd.Flags().StringVarP(&description, "description", "D", "", "Description of the wanted data")
	analyzeCmd.Flags().IntVarP(&maxDepth, "max-depth", "d", 1, "Maximum crawl depth")
	analyzeCmd.Flags().BoolVar(&noConfirm, "no-confirm", false, "Descend depth levels without asking")
	analyzeCmd.Flags().BoolVar(&includePagination, "include-pagination", false, "Keep pagination-shaped links in depth links")
	analyzeCmd.Flags().Float64VarP(&rateLimit, "rate-limit", "r", 1, "Page visits per second")
	analyzeCmd.Flags().IntVarP(&navTimeout, "timeout", "t", 30, "Navigation timeout in seconds")
	analyzeCmd.Flags().BoolVar(&noHeadless, "no-headless", false, "Run the browser with a visible window")
	analyzeCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	analyzeCmd.Flags().BoolVar(&prettyOutput, "pretty", true, "Pretty-print JSON output")
	analyzeCmd.MarkFlagRequired("description")

	marketCmd := &cobra.Command{
		Use:   "market",
		Short: "Fetch financial market data from an AKShare gateway",
	}
	marketCmd.PersistentFlags().StringVar(&baseURL, "base-url", "http://127.0.0.1:8080", "Market data gateway base URL")

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Historical bars for one A-share stock",
		RunE:  runMarket(marketHistory),
	}
	historyCmd.Flags().StringVarP(&symbol, "symbol", "s", "600519", "Stock symbol")
	historyCmd.Flags().StringVar(&period, "period", "daily", "Bar period (daily, weekly, monthly)")
	historyCmd.Flags().StringVar(&startDate, "start", "", "Start date (YYYYMMDD)")
	historyCmd.Flags().StringVar(&endDate, "end", "", "End date (YYYYMMDD)")

	spotCmd := &cobra.Command{
		Use:   "spot",
		Short: "Realtime quotes for all A-share stocks",
		RunE:  runMarket(marketSpot),
	}

	etfCmd := &cobra.Command{
		Use:   "etf",
		Short: "Realtime quotes for listed ETF funds",
		RunE:  runMarket(marketETF),
	}

	indexCmd := &cobra.Command{
		Use:   "index",
		Short: "Historical bars for one A-share index",
		RunE:  runMarket(marketIndex),
	}
	indexCmd.Flags().StringVarP(&symbol, "symbol", "s", "000001", "Index symbol")
	indexCmd.Flags().StringVar(&startDate, "start", "", "Start date (YYYYMMDD)")
	indexCmd.Flags().StringVar(&endDate, "end", "", "End date (YYYYMMDD)")

	gdpCmd := &cobra.Command{
		Use:   "gdp",
		Short: "Yearly GDP readings for China",
		RunE:  runMarket(marketGDP),
	}

	marketCmd.AddCommand(historyCmd, spotCmd, etfCmd, indexCmd, gdpCmd)
	rootCmd.AddCommand(analyzeCmd, marketCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	instructions := strings.Join(args, " ")

	var config *analyzer.Config
	if configFile != "" {
		fileConfig, err := analyzer.LoadFromFile(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config file: %w", err)
		}
		config = fileConfig
	} else {
		config = analyzer.DefaultConfig()
	}

	if cmd.Flags().Changed("rate-limit") {
		config.RateLimit.RequestsPerSecond = rateLimit
	}
	if cmd.Flags().Changed("timeout") {
		config.Capture.NavigationTimeout = time.Duration(navTimeout) * time.Second
	}
	config.Capture.Headless = !noHeadless
	config.Verbose = verbose
	config.Debug = debug

	a, err := analyzer.New(analyzer.WithConfig(config))
	if err != nil {
		return fmt.Errorf("failed to create analyzer: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintf(os.Stderr, "\nReceived interrupt signal, stopping...\n")
		cancel()
	}()

	out := os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	writer := output.NewWriter(out, output.Config{Format: "json", Pretty: prettyOutput})

	req := analyzer.NewRequest(instructions, description)
	req.MaxDepth = maxDepth
	req.ConfirmEachDepth = !noConfirm
	req.IncludePagination = includePagination

	res := a.Analyze(ctx, req)
	if err := writer.WriteResult(res); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	// Descend depth by depth while the session has room and the user agrees.
	depth := req.Depth
	for ctx.Err() == nil && len(res.NextActions.AvailableDepthLinks) > 0 && depth+1 < maxDepth {
		if res.NextActions.RequiresConfirmation && !confirmDescent(len(res.NextActions.AvailableDepthLinks)) {
			break
		}

		links := res.NextActions.AvailableDepthLinks
		depth++
		res = analyzeLinks(ctx, a, writer, req, links, depth)
		if res == nil {
			break
		}
	}

	return nil
}

// analyzeLinks visits each link at the given depth and returns the last
// result that still has depth links, for the next descent decision.
func analyzeLinks(ctx context.Context, a *analyzer.Analyzer, writer output.Writer, seed analyzer.Request, links []string, depth int) *analyzer.Result {
	var next *analyzer.Result
	for _, link := range links {
		if ctx.Err() != nil {
			return nil
		}

		req := seed
		req.Instructions = link
		req.Depth = depth

		res := a.Analyze(ctx, req)
		if err := writer.WriteResult(res); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write result: %v\n", err)
			return nil
		}
		if len(res.NextActions.AvailableDepthLinks) > 0 {
			next = res
		}
	}
	return next
}

func confirmDescent(linkCount int) bool {
	fmt.Fprintf(os.Stderr, "Descend into %d next-depth links? [y/N]: ", linkCount)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

type marketRunner func(ctx context.Context, client *marketdata.Client) (any, error)

// runMarket wraps one market endpoint call with client setup and output.
func runMarket(fn marketRunner) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg := marketdata.DefaultConfig()
		cfg.BaseURL = baseURL

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout*time.Duration(cfg.RetryCount+1))
		defer cancel()

		rows, err := fn(ctx, marketdata.New(cfg))
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to render rows: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}
}

func marketHistory(ctx context.Context, client *marketdata.Client) (any, error) {
	return client.StockHistory(ctx, marketdata.StockHistoryQuery{
		Symbol:    symbol,
		Period:    period,
		StartDate: startDate,
		EndDate:   endDate,
	})
}

func marketSpot(ctx context.Context, client *marketdata.Client) (any, error) {
	return client.StockSpot(ctx)
}

func marketETF(ctx context.Context, client *marketdata.Client) (any, error) {
	return client.ETFSpot(ctx)
}

func marketIndex(ctx context.Context, client *marketdata.Client) (any, error) {
	return client.IndexHistory(ctx, marketdata.IndexHistoryQuery{
		Symbol:    symbol,
		StartDate: startDate,
		EndDate:   endDate,
	})
}

func marketGDP(ctx context.Context, client *marketdata.Client) (any, error) {
	return client.MacroGDP(ctx)
}
