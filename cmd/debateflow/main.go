// =============================================================================
// Debateflow entry point
// =============================================================================
// Multi-LLM debate benchmark runner.
//
// Usage:
//
//	debateflow run -problem-id 3            # debate one problem
//	debateflow run -all                     # debate the full problem set
//	debateflow run -all -config cfg.yaml    # with a config file
//	debateflow eval                         # grade persisted results
//	debateflow health                       # probe the upstream provider
//	debateflow version                      # show version info
// =============================================================================
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/debateflow/debateflow/config"
	"github.com/debateflow/debateflow/debate"
	"github.com/debateflow/debateflow/eval"
	"github.com/debateflow/debateflow/internal/metrics"
	"github.com/debateflow/debateflow/llm"
	"github.com/debateflow/debateflow/providers/gemini"
	"github.com/debateflow/debateflow/store"
)

// Version information (injected at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "run":
		err = runCmd(os.Args[2:])
	case "eval":
		err = evalCmd(os.Args[2:])
	case "health":
		err = healthCmd(os.Args[2:])
	case "version":
		fmt.Printf("debateflow %s (built %s, commit %s)\n", Version, BuildTime, GitCommit)
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage: debateflow <command> [flags]

commands:
  run      run debates (-problem-id N | -all) [-config file]
  eval     grade persisted results [-config file]
  health   probe the generation provider [-config file]
  version  show version information`)
}

func runCmd(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "debateflow.yaml", "config file path")
	problemID := fs.Int("problem-id", -1, "run on a specific problem ID")
	all := fs.Bool("all", false, "run on all problems")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	logger, err := buildLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner, err := buildRunner(cfg, logger)
	if err != nil {
		return err
	}

	problems, err := store.LoadProblems(cfg.Paths.ProblemsFile)
	if err != nil {
		return err
	}

	switch {
	case *problemID >= 0:
		result, err := runner.RunSingle(ctx, problems, *problemID)
		if err != nil {
			return err
		}
		fmt.Println("\n============================================================")
		fmt.Println("FINAL JUDGMENT:")
		fmt.Println("============================================================")
		fmt.Println(result.Judgment)
		return nil
	case *all:
		report, err := runner.RunAll(ctx, problems)
		if err != nil {
			return err
		}
		fmt.Printf("\nBatch complete: %d completed, %d skipped, %d failed of %d total\n",
			report.Completed, report.Skipped, report.Failed, report.Total)
		for _, f := range report.Failures {
			fmt.Printf("  problem %d: %s\n", f.ProblemID, f.Error)
		}
		return nil
	default:
		fmt.Println("No run mode given. Running problem 0 as a smoke test;")
		fmt.Println("use -problem-id N or -all for full runs.")
		result, err := runner.RunSingle(ctx, problems, 0)
		if err != nil {
			return err
		}
		fmt.Println(result.Judgment)
		return nil
	}
}

func evalCmd(args []string) error {
	fs := flag.NewFlagSet("eval", flag.ExitOnError)
	configPath := fs.String("config", "debateflow.yaml", "config file path")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	logger, err := buildLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	resultStore, err := store.NewResultStore(cfg.Paths.ResultsDir, logger)
	if err != nil {
		return err
	}
	results, err := resultStore.LoadAll()
	if err != nil {
		return err
	}

	checker := eval.NewChecker(nil)
	m := checker.Calculate(results)
	return eval.WriteReport(os.Stdout, m)
}

func healthCmd(args []string) error {
	fs := flag.NewFlagSet("health", flag.ExitOnError)
	configPath := fs.String("config", "debateflow.yaml", "config file path")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	provider := gemini.New(cfg.Gemini, zap.NewNop())

	status, err := provider.HealthCheck(context.Background())
	if err != nil {
		return fmt.Errorf("unhealthy (latency %s): %w", status.Latency, err)
	}
	fmt.Printf("healthy: latency %s\n", status.Latency)
	return nil
}

// buildRunner wires provider → client → orchestrator → runner.
func buildRunner(cfg *config.Config, logger *zap.Logger) (*debate.Runner, error) {
	collector := metrics.NewCollector("debateflow", logger)

	provider := gemini.New(cfg.Gemini, logger)
	pacer := llm.NewPacer(llm.PacerConfig{
		MaxCallsPerMinute: cfg.Pacing.MaxCallsPerMinute,
		MinInterval:       cfg.Pacing.MinInterval,
	}, nil, logger)

	client := llm.NewClient(provider, llm.ClientOptions{
		Pacer:       pacer,
		MaxAttempts: cfg.Retry.MaxAttempts,
		Metrics:     collector,
		Logger:      logger,
	})

	orch, err := debate.NewOrchestrator(client, cfg.Debate, collector, logger)
	if err != nil {
		return nil, err
	}

	resultStore, err := store.NewResultStore(cfg.Paths.ResultsDir, logger)
	if err != nil {
		return nil, err
	}

	return debate.NewRunner(orch, resultStore, logger), nil
}

// buildLogger constructs the process logger from config.
func buildLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}
