// Command etl is the pipeline control surface: one-shot runs, the full
// batched pipeline, streaming, polling and job status queries.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"stock_etl/internal/app/di"
	"stock_etl/internal/feature/intraday/adapters"
	intradayusecase "stock_etl/internal/feature/intraday/usecase"
	scheduleentity "stock_etl/internal/feature/schedule/domain/entity"
	scheduleusecase "stock_etl/internal/feature/schedule/usecase"
	streamingusecase "stock_etl/internal/feature/streaming/usecase"
	infradb "stock_etl/internal/platform/db"
)

var defaultSymbols = []string{"AAPL", "GOOGL", "MSFT", "AMZN", "TSLA"}

func main() {
	var (
		initDB    = flag.Bool("init-db", false, "create the storage schema and exit")
		single    = flag.String("single", "", "run the pipeline once for one symbol")
		batch     = flag.String("batch", "", "run the pipeline once for a comma-separated symbol list")
		pipeline  = flag.Bool("pipeline", false, "run the full batched pipeline with aggregate statistics")
		cycle     = flag.Bool("cycle", false, "run one scheduled cycle for the default symbols")
		status    = flag.Bool("status", false, "show the job summary for the trailing 7 days")
		interval  = flag.String("interval", "5min", "data interval (1min/5min/15min/30min/60min)")
		stream    = flag.Bool("stream", false, "start the streaming loop until interrupted")
		streamMin = flag.Int("stream-interval", 5, "streaming poll interval in minutes")
		streamMax = flag.Int("stream-max-iterations", 0, "stop streaming after N iterations (0 = unbounded)")
		contPoll  = flag.Bool("continuous-poll", false, "poll continuously regardless of market hours")
		mhPoll    = flag.Bool("market-hours-poll", false, "poll only while the market is open")
		pollMax   = flag.Int("poll-max-iterations", 0, "stop polling after N iterations (0 = unbounded)")
		streamSt  = flag.Bool("streaming-status", false, "print an idle streaming status snapshot")
	)
	flag.Parse()

	_ = godotenv.Load()

	if err := run(runOptions{
		initDB:    *initDB,
		single:    *single,
		batch:     *batch,
		pipeline:  *pipeline,
		cycle:     *cycle,
		status:    *status,
		interval:  *interval,
		stream:    *stream,
		streamMin: *streamMin,
		streamMax: *streamMax,
		contPoll:  *contPoll,
		mhPoll:    *mhPoll,
		pollMax:   *pollMax,
		streamSt:  *streamSt,
	}); err != nil {
		log.Fatal(err)
	}
}

type runOptions struct {
	initDB    bool
	single    string
	batch     string
	pipeline  bool
	cycle     bool
	status    bool
	interval  string
	stream    bool
	streamMin int
	streamMax int
	contPoll  bool
	mhPoll    bool
	pollMax   int
	streamSt  bool
}

func run(opts runOptions) error {
	if opts.initDB {
		os.Setenv("RUN_MIGRATIONS", "true")
		infradb.OpenDB()
		fmt.Println("storage schema initialized")
		return nil
	}

	db := infradb.OpenDB()
	p := di.NewPipeline(db)

	// SIGINT/SIGTERM cancels the context; long-running modes stop
	// gracefully, one-shot modes finish their current symbol.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch {
	case opts.single != "":
		loaded := p.RunOne(ctx, opts.single, opts.interval)
		fmt.Printf("%s: %d records loaded\n", strings.ToUpper(opts.single), loaded)

	case opts.batch != "":
		symbols := splitSymbols(opts.batch)
		printResults(p.RunMany(ctx, symbols, opts.interval))

	case opts.pipeline:
		stats := p.RunFullPipeline(ctx, defaultSymbols, opts.interval)
		out, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))

	case opts.cycle:
		return runCycle(ctx, p, opts.interval)

	case opts.status:
		return showStatus(ctx, db)

	case opts.stream:
		return runStreaming(ctx, p, opts)

	case opts.contPoll, opts.mhPoll:
		return runPolling(ctx, p, opts)

	case opts.streamSt:
		sup := streamingusecase.NewSupervisor(p, nil)
		out, err := json.MarshalIndent(sup.Status(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))

	default:
		flag.Usage()
	}
	return nil
}

// runCycle registers the default market-hours job and runs one scheduler
// pass against "now".
func runCycle(ctx context.Context, p *intradayusecase.PipelineUsecase, interval string) error {
	engine := scheduleusecase.NewScheduleEngine(scheduleusecase.NewMarketSchedule(), p, nil)
	engine.ScheduleJob(scheduleentity.ScheduledJob{
		Name:            "intraday_default",
		Symbols:         defaultSymbols,
		IntervalMinutes: 5,
		Kind:            scheduleentity.KindMarketHours,
		DataInterval:    interval,
	})

	outcomes := engine.RunScheduledJobs(ctx)
	for name, outcome := range outcomes {
		fmt.Printf("%s: %s", name, outcome.Status)
		if outcome.Error != "" {
			fmt.Printf(" (%s)", outcome.Error)
		}
		fmt.Println()
		if outcome.Results != nil {
			printResults(outcome.Results)
		}
	}
	return nil
}

// showStatus prints the aggregate job summary for the trailing 7 days.
func showStatus(ctx context.Context, db *gorm.DB) error {
	jobUC := intradayusecase.NewJobUsecase(adapters.NewJobLogRepository(db))
	summary, err := jobUC.Summary(ctx, 7*24*time.Hour)
	if err != nil {
		return err
	}

	fmt.Printf("jobs (last 7 days): %d total, %d succeeded, %d failed, %d running\n",
		summary.TotalJobs, summary.SuccessfulJobs, summary.FailedJobs, summary.RunningJobs)
	if summary.LastRun != nil {
		fmt.Printf("last run: %s\n", summary.LastRun.UTC().Format(time.RFC3339))
	}
	return nil
}

func runStreaming(ctx context.Context, p *intradayusecase.PipelineUsecase, opts runOptions) error {
	sup := streamingusecase.NewSupervisor(p, nil)
	ok := sup.Start(ctx, defaultSymbols, opts.interval, time.Duration(opts.streamMin)*time.Minute, opts.streamMax,
		func(iteration int, results map[string]int, elapsed time.Duration) {
			total := 0
			for _, n := range results {
				total += n
			}
			fmt.Printf("iteration %d: %d records in %s\n", iteration, total, elapsed.Round(time.Millisecond))
		})
	if !ok {
		return fmt.Errorf("streaming loop already running")
	}

	// Block until interrupted or the iteration cap stops the loop.
	for {
		select {
		case <-ctx.Done():
			if !sup.Stop() {
				return fmt.Errorf("streaming loop did not stop in time")
			}
			fmt.Println("streaming stopped")
			return nil
		case <-time.After(500 * time.Millisecond):
			if !sup.Status().Running {
				fmt.Println("streaming finished")
				return nil
			}
		}
	}
}

func runPolling(ctx context.Context, p *intradayusecase.PipelineUsecase, opts runOptions) error {
	manager := streamingusecase.NewPollingManager(p, scheduleusecase.NewMarketSchedule(), nil)
	cfg := streamingusecase.PollingConfig{
		DataInterval:  opts.interval,
		PollEvery:     time.Duration(opts.streamMin) * time.Minute,
		MaxIterations: opts.pollMax,
	}

	var iterations int
	if opts.mhPoll {
		iterations = manager.MarketHoursPoll(ctx, defaultSymbols, cfg)
	} else {
		iterations = manager.ContinuousPoll(ctx, defaultSymbols, cfg)
	}
	fmt.Printf("polling finished after %d iterations\n", iterations)
	return nil
}

func splitSymbols(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, strings.ToUpper(trimmed))
		}
	}
	return out
}

func printResults(results map[string]int) {
	symbols := make([]string, 0, len(results))
	total := 0
	for s, n := range results {
		symbols = append(symbols, s)
		total += n
	}
	sort.Strings(symbols)
	for _, s := range symbols {
		fmt.Printf("  %s: %d records\n", s, results[s])
	}
	fmt.Printf("total: %d records\n", total)
}
