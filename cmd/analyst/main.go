package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/iasiv5/a-share-analyst/internal/analyzer"
	"github.com/iasiv5/a-share-analyst/internal/config"
	"github.com/iasiv5/a-share-analyst/internal/datasource"
	"github.com/iasiv5/a-share-analyst/internal/history"
	"github.com/iasiv5/a-share-analyst/internal/report"
	"github.com/iasiv5/a-share-analyst/internal/scanner"
	"github.com/iasiv5/a-share-analyst/internal/strategy"
	"github.com/iasiv5/a-share-analyst/internal/symbols"
	"github.com/iasiv5/a-share-analyst/internal/watch"
	"github.com/iasiv5/a-share-analyst/internal/web"
)

var (
	cfgFile   string
	barDays   int
	outputDir string
	noDB      bool

	universeName string
	scanWorkers  int
	topCount     int

	csvPath string

	historyCode     string
	historyStrategy string
	historyLimit    int
	historyPicks    bool

	runNow bool

	webPort int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "analyst",
		Short: "A-share technical analysis and stock screening",
		Long: `Analyst pulls A-share quotes and daily bars from EastMoney, computes
the classic indicator set (MA/MACD/KDJ/RSI/BOLL/ATR), folds the signals
into a 0-100 score and renders markdown reports.

Strategies (picks):
` + strategyHelp() + `
Examples:
  analyst analyze 600519 000858
  analyst market --output reports
  analyst picks value
  analyst scan --universe bluechip --top 10
  analyst watch --now
  analyst serve --port 8390`,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "path to config file")
	rootCmd.PersistentFlags().IntVar(&barDays, "days", 0, "daily bars per stock (default from config)")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output", "", "write markdown reports into this directory instead of stdout")
	rootCmd.PersistentFlags().BoolVar(&noDB, "no-db", false, "do not record results to the history database")

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newMarketCmd(),
		newPicksCmd(),
		newScanCmd(),
		newHistoryCmd(),
		newWatchCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func strategyHelp() string {
	var b strings.Builder
	for _, info := range strategy.AllInfo() {
		fmt.Fprintf(&b, "  %-12s %s\n", info.Name, info.Description)
	}
	return b.String()
}

// loadConfig reads the config file and applies the global flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if cmd.Flags().Changed("days") && barDays > 0 {
		cfg.Scan.Days = barDays
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// buildSource assembles the data-source chain: the gateway as primary
// with EastMoney as fallback when one is configured, EastMoney alone
// otherwise, with the bar cache on top.
func buildSource(cfg *config.Config) datasource.Source {
	em := datasource.NewEastMoney(cfg.Source.RateLimit)

	var src datasource.Source = em
	if cfg.Source.GatewayURL != "" {
		gw := datasource.NewGateway(cfg.Source.GatewayURL, cfg.Source.GatewayKey)
		src = datasource.NewFallbackSource(gw, em)
	}

	return datasource.NewCachingSource(src, cfg.Scan.Days, cfg.Source.CacheTTL)
}

// openStore opens the history database, or a no-op store with --no-db.
// Open failures disable history rather than abort the command.
func openStore(cfg *config.Config) history.Store {
	if noDB {
		return history.NoopStore{}
	}

	path := cfg.History.Path
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Printf("History disabled, no home directory: %v", err)
			return history.NoopStore{}
		}
		path = filepath.Join(home, ".a-share-analyst", "history.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Printf("History disabled, cannot create %s: %v", filepath.Dir(path), err)
		return history.NoopStore{}
	}

	store, err := history.NewSQLiteStore(path)
	if err != nil {
		log.Printf("History disabled: %v", err)
		return history.NoopStore{}
	}
	return store
}

// analyzerConfig maps the indicator section of the file config onto the
// analyzer's own config type.
func analyzerConfig(cfg *config.Config) (analyzer.Config, error) {
	ac := analyzer.Config{
		MAWindows:    cfg.Indicator.MAWindows,
		VolMAWindows: cfg.Indicator.VolMAWindows,
		MACDFast:     cfg.Indicator.MACDFast,
		MACDSlow:     cfg.Indicator.MACDSlow,
		MACDSignal:   cfg.Indicator.MACDSignal,
		KDJN:         cfg.Indicator.KDJN,
		KDJM1:        cfg.Indicator.KDJM1,
		KDJM2:        cfg.Indicator.KDJM2,
		RSIPeriod:    cfg.Indicator.RSIPeriod,
		BollPeriod:   cfg.Indicator.BollPeriod,
		BollWidth:    cfg.Indicator.BollWidth,
		ATRPeriod:    cfg.Indicator.ATRPeriod,
		TrendShort:   cfg.Indicator.TrendShort,
		TrendLong:    cfg.Indicator.TrendLong,
		LevelPeriod:  cfg.Indicator.LevelPeriod,
	}
	if err := ac.Validate(); err != nil {
		return analyzer.Config{}, fmt.Errorf("invalid indicator config: %w", err)
	}
	return ac, nil
}

// signalContext returns a context cancelled by SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupted. Stopping...")
		cancel()
	}()
	return ctx, cancel
}

// emitReport prints a markdown report to stdout, or writes it under the
// --output directory when one is set.
func emitReport(name, content string) error {
	if outputDir == "" {
		fmt.Println(content)
		return nil
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	path := filepath.Join(outputDir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	fmt.Printf("Saved %s\n", path)
	return nil
}

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <code>...",
		Short: "Analyze stocks and render scored reports",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			acfg, err := analyzerConfig(cfg)
			if err != nil {
				return err
			}
			stocks, err := symbols.LoadCodes(args)
			if err != nil {
				return err
			}

			src := buildSource(cfg)
			store := openStore(cfg)
			defer store.Close()

			ctx, cancel := signalContext()
			defer cancel()

			runID := uuid.NewString()
			now := time.Now()

			var failed int
			for _, stock := range stocks {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if err := analyzeOne(ctx, src, store, acfg, cfg.Scan.Days, stock.Code, runID, now); err != nil {
					failed++
					fmt.Fprintf(os.Stderr, "%s: %v\n", stock.Code, err)
				}
			}
			if failed == len(stocks) {
				return fmt.Errorf("all %d stocks failed", failed)
			}
			return nil
		},
	}
}

func analyzeOne(ctx context.Context, src datasource.Source, store history.Store, acfg analyzer.Config, days int, code, runID string, now time.Time) error {
	bars, err := src.DailyBars(ctx, code, days)
	if err != nil {
		return fmt.Errorf("fetching bars: %w", err)
	}
	res, err := analyzer.Analyze(bars, acfg)
	if err != nil {
		return err
	}

	// Realtime name and spot data are decoration; the report renders
	// without them.
	quote, err := src.Quote(ctx, code)
	if err != nil {
		quote = nil
	}
	name := code
	if quote != nil && quote.Name != "" {
		name = quote.Name
	}

	md := report.Stock(report.StockInput{
		Code:        code,
		Name:        name,
		Quote:       quote,
		Result:      res,
		RunID:       runID,
		GeneratedAt: now,
	})
	if err := emitReport(code+"-"+now.Format("20060102")+".md", md); err != nil {
		return err
	}

	if err := store.SaveAnalysis(history.AnalysisRecord{
		RunID:     runID,
		Code:      code,
		Name:      name,
		Price:     res.Price,
		Score:     res.Score.Value,
		Rating:    string(res.Score.Rating),
		Trend:     string(res.Trend),
		CreatedAt: now,
	}); err != nil {
		log.Printf("History save failed for %s: %v", code, err)
	}
	return nil
}

func newMarketCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "market",
		Short: "Render the daily market overview report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			src := buildSource(cfg)

			ctx, cancel := signalContext()
			defer cancel()

			in, err := watch.GatherMarket(ctx, src, 5)
			if err != nil {
				return fmt.Errorf("gathering market data: %w", err)
			}
			in.RunID = uuid.NewString()
			in.GeneratedAt = time.Now()

			return emitReport("market-"+in.GeneratedAt.Format("20060102")+".md", report.Market(*in))
		},
	}
}

func newPicksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "picks [strategy]",
		Short: "Rank the live snapshot into stock picks",
		Long: `Rank today's snapshot with a stock-pool strategy. Without an argument
every registered strategy runs once, followed by the strongest members
of the hottest concept boards.

Strategies:
` + strategyHelp(),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			top := cfg.Scan.TopN
			if cmd.Flags().Changed("top") && topCount > 0 {
				top = topCount
			}

			src := buildSource(cfg)
			store := openStore(cfg)
			defer store.Close()

			ctx, cancel := signalContext()
			defer cancel()

			names := strategy.List()
			if len(args) == 1 {
				if _, err := strategy.Get(args[0]); err != nil {
					return err
				}
				names = args[:1]
			}

			fmt.Println("Loading market snapshot...")
			quotes, err := src.Snapshot(ctx)
			if err != nil {
				return fmt.Errorf("fetching snapshot: %w", err)
			}
			fmt.Printf("Ranking %d quotes...\n", len(quotes))

			runID := uuid.NewString()
			now := time.Now()

			var exported []csvPick
			for _, name := range names {
				strat, err := strategy.Get(name)
				if err != nil {
					return err
				}
				picks := strat.Run(quotes)
				if len(picks) > top {
					picks = picks[:top]
				}

				fmt.Printf("\n%s: %s\n\n", strat.Name(), strat.Description())
				renderPicks(picks)

				savePicks(store, runID, now, strat.Name(), picks)
				for _, p := range picks {
					exported = append(exported, csvPick{strategy: strat.Name(), pick: p})
				}
			}

			// The all-strategies overview closes with the board leaders.
			if len(args) == 0 {
				renderBoardLeaders(ctx, src)
			}

			if csvPath != "" {
				if err := writePicksCSV(csvPath, exported); err != nil {
					return err
				}
				fmt.Printf("\nSaved %s\n", csvPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv", "", "export the picks to a CSV file")
	cmd.Flags().IntVar(&topCount, "top", 0, "picks per strategy (default from config)")
	return cmd
}

func renderPicks(picks []strategy.Pick) {
	if len(picks) == 0 {
		fmt.Println("No stocks passed the pool filter.")
		return
	}
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"#", "代码", "名称", "现价", "涨跌幅", "得分", "理由"}),
	)
	for i, p := range picks {
		table.Append([]string{
			fmt.Sprintf("%d", i+1),
			p.Code,
			p.Name,
			fmtPrice(p.Price),
			fmtPct(p.ChangePct),
			fmt.Sprintf("%.1f", p.Score),
			truncate(p.Reason, 40),
		})
	}
	table.Render()
}

func renderBoardLeaders(ctx context.Context, src datasource.Source) {
	boards, err := src.ConceptBoards(ctx)
	if err != nil {
		log.Printf("Board leaders skipped: %v", err)
		return
	}
	leaders, err := strategy.TopBoardLeaders(ctx, src, boards, 3, 5)
	if err != nil {
		log.Printf("Board leaders skipped: %v", err)
		return
	}
	if len(leaders) == 0 {
		return
	}

	fmt.Println("\nHot boards and their strongest members:")
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"板块", "板块涨幅", "代码", "名称", "现价", "涨跌幅"}),
	)
	for _, l := range leaders {
		for _, m := range l.Members {
			table.Append([]string{
				l.Board.Name,
				fmtPct(l.Board.ChangePct),
				m.Code,
				m.Name,
				fmtPrice(m.Price),
				fmtPct(m.ChangePct),
			})
		}
	}
	table.Render()
}

func savePicks(store history.Store, runID string, now time.Time, strategyName string, picks []strategy.Pick) {
	if len(picks) == 0 {
		return
	}
	recs := make([]history.PickRecord, len(picks))
	for i, p := range picks {
		recs[i] = history.PickRecord{
			RunID:     runID,
			Strategy:  strategyName,
			Code:      p.Code,
			Name:      p.Name,
			Score:     p.Score,
			Reason:    p.Reason,
			CreatedAt: now,
		}
	}
	if err := store.SavePicks(recs); err != nil {
		log.Printf("History save failed for %s picks: %v", strategyName, err)
	}
}

type csvPick struct {
	strategy string
	pick     strategy.Pick
}

func writePicksCSV(path string, rows []csvPick) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"策略", "代码", "名称", "现价", "涨跌幅", "得分", "理由"}); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			r.strategy,
			r.pick.Code,
			r.pick.Name,
			fmt.Sprintf("%.2f", r.pick.Price),
			fmt.Sprintf("%.2f", r.pick.ChangePct),
			fmt.Sprintf("%.1f", r.pick.Score),
			r.pick.Reason,
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Score a whole universe and rank the results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			acfg, err := analyzerConfig(cfg)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("workers") && scanWorkers > 0 {
				cfg.Scan.Workers = scanWorkers
			}
			top := cfg.Scan.TopN
			if cmd.Flags().Changed("top") && topCount > 0 {
				top = topCount
			}

			universe, err := symbols.ParseUniverse(universeName)
			if err != nil {
				return err
			}

			src := buildSource(cfg)
			store := openStore(cfg)
			defer store.Close()

			ctx, cancel := signalContext()
			defer cancel()

			fmt.Println("Loading stock list...")
			loader := symbols.NewLoader(src, cfg.Watch.Codes)
			stocks, err := loader.Load(ctx, universe)
			if err != nil {
				return fmt.Errorf("loading universe: %w", err)
			}

			fmt.Printf("Scanning %d stocks with %d workers...\n\n", len(stocks), cfg.Scan.Workers)

			s := scanner.NewScanner(src, acfg, cfg.Scan.Days, cfg.Scan.Workers, cfg.Scan.Timeout)

			bar := progressbar.NewOptions(len(stocks),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowCount(),
				progressbar.OptionShowIts(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("Scanning"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]█[reset]",
					SaucerHead:    "[green]█[reset]",
					SaucerPadding: "░",
					BarStart:      "[",
					BarEnd:        "]",
				}),
			)
			s.SetProgressCallback(func(scanned, total int) {
				bar.Set(scanned)
			})

			result, err := s.Scan(ctx, stocks)
			if err != nil {
				return fmt.Errorf("scanning: %w", err)
			}

			bar.Finish()
			fmt.Println()

			renderScan(result, top)
			recordScan(store, result, top)
			return nil
		},
	}
	cmd.Flags().StringVar(&universeName, "universe", "bluechip", "universe to scan: all, bluechip, watchlist")
	cmd.Flags().IntVar(&scanWorkers, "workers", 0, "parallel workers (default from config)")
	cmd.Flags().IntVar(&topCount, "top", 0, "rows to show (default from config)")
	return cmd
}

func renderScan(result *scanner.ScanResult, top int) {
	fmt.Printf("Scanned %d stocks in %s (%d analyzed, %d failed)\n\n",
		result.TotalScanned, result.ScanTime.Round(time.Second), result.Analyzed, result.Failed)
	if len(result.Results) == 0 {
		fmt.Println("Nothing to rank.")
		return
	}

	rows := result.Results
	if len(rows) > top {
		rows = rows[:top]
	}

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"#", "代码", "名称", "现价", "涨跌幅", "趋势", "评级", "得分"}),
	)
	for i, r := range rows {
		name := r.Stock.Name
		if name == "" {
			name = "-"
		}
		table.Append([]string{
			fmt.Sprintf("%d", i+1),
			r.Stock.Code,
			name,
			fmtPrice(r.Result.Price),
			fmtPct(r.Result.ChangePct),
			string(r.Result.Trend),
			fmt.Sprintf("%s %s", r.Result.Score.Rating, strings.Repeat("★", r.Result.Score.Stars)),
			fmt.Sprintf("%d", r.Result.Score.Value),
		})
	}
	table.Render()
}

// recordScan keeps the displayed rows in history under one run id.
func recordScan(store history.Store, result *scanner.ScanResult, top int) {
	runID := uuid.NewString()
	now := time.Now()
	for i, r := range result.Results {
		if i >= top {
			break
		}
		if err := store.SaveAnalysis(history.AnalysisRecord{
			RunID:     runID,
			Code:      r.Stock.Code,
			Name:      r.Stock.Name,
			Price:     r.Result.Price,
			Score:     r.Result.Score.Value,
			Rating:    string(r.Result.Score.Rating),
			Trend:     string(r.Result.Trend),
			CreatedAt: now,
		}); err != nil {
			log.Printf("History save failed for %s: %v", r.Stock.Code, err)
			return
		}
	}
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded analyses and picks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			store := openStore(cfg)
			defer store.Close()

			if historyPicks {
				recs, err := store.RecentPicks(historyStrategy, historyLimit)
				if err != nil {
					return fmt.Errorf("reading picks: %w", err)
				}
				renderPickHistory(recs)
				return nil
			}

			recs, err := store.RecentAnalyses(historyCode, historyLimit)
			if err != nil {
				return fmt.Errorf("reading analyses: %w", err)
			}
			renderAnalysisHistory(recs)
			return nil
		},
	}
	cmd.Flags().StringVar(&historyCode, "code", "", "filter analyses by stock code")
	cmd.Flags().StringVar(&historyStrategy, "strategy", "", "filter picks by strategy name")
	cmd.Flags().IntVar(&historyLimit, "limit", 20, "rows to show")
	cmd.Flags().BoolVar(&historyPicks, "picks", false, "show strategy picks instead of analyses")
	return cmd
}

func renderAnalysisHistory(recs []history.AnalysisRecord) {
	if len(recs) == 0 {
		fmt.Println("No history yet.")
		return
	}
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"时间", "代码", "名称", "价格", "得分", "评级", "趋势"}),
	)
	for _, r := range recs {
		table.Append([]string{
			r.CreatedAt.Format("2006-01-02 15:04"),
			r.Code,
			r.Name,
			fmtPrice(r.Price),
			fmt.Sprintf("%d", r.Score),
			r.Rating,
			r.Trend,
		})
	}
	table.Render()
}

func renderPickHistory(recs []history.PickRecord) {
	if len(recs) == 0 {
		fmt.Println("No picks recorded yet.")
		return
	}
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"时间", "策略", "代码", "名称", "得分", "理由"}),
	)
	for _, r := range recs {
		table.Append([]string{
			r.CreatedAt.Format("2006-01-02 15:04"),
			r.Strategy,
			r.Code,
			r.Name,
			fmt.Sprintf("%.1f", r.Score),
			truncate(r.Reason, 40),
		})
	}
	table.Render()
}

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Generate the daily reports on a cron schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			acfg, err := analyzerConfig(cfg)
			if err != nil {
				return err
			}

			stocks, err := symbols.LoadCodes(cfg.Watch.Codes)
			if err != nil {
				return err
			}
			codes := make([]string, len(stocks))
			for i, s := range stocks {
				codes[i] = s.Code
			}

			out := cfg.Watch.OutputDir
			if outputDir != "" {
				out = outputDir
			}

			src := buildSource(cfg)
			store := openStore(cfg)
			defer store.Close()

			w := watch.New(watch.Config{
				Cron:      cfg.Watch.Cron,
				OutputDir: out,
				Codes:     codes,
				Days:      cfg.Scan.Days,
			}, src, store, acfg)

			if runNow {
				ctx, cancel := signalContext()
				defer cancel()
				return w.RunOnce(ctx)
			}

			if err := w.Start(); err != nil {
				return err
			}

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			log.Println("Shutting down...")
			w.Stop()
			return nil
		},
	}
	cmd.Flags().BoolVar(&runNow, "now", false, "run one report cycle immediately and exit")
	return cmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON analysis API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			acfg, err := analyzerConfig(cfg)
			if err != nil {
				return err
			}
			port := cfg.Web.Port
			if cmd.Flags().Changed("port") && webPort > 0 {
				port = webPort
			}

			src := buildSource(cfg)
			server := web.NewServer(src, acfg, cfg.Scan.Days)

			errChan := make(chan error, 1)
			go func() {
				errChan <- server.Start(port)
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errChan:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-quit:
			}

			log.Println("Shutting down...")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(ctx)
		},
	}
	cmd.Flags().IntVar(&webPort, "port", 0, "listen port (default from config)")
	return cmd
}

func fmtPrice(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.2f", v)
}

func fmtPct(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%+.2f%%", v)
}

// truncate shortens a label to n runes. Reasons mix Chinese and ASCII,
// so byte slicing would split characters.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
