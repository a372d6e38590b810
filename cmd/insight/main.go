package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/insight/internal/common"
	"github.com/ternarybob/insight/internal/pipeline"
	"github.com/ternarybob/insight/internal/services/fetch"
	"github.com/ternarybob/insight/internal/services/llm"
	"github.com/ternarybob/insight/internal/services/references"
	"github.com/ternarybob/insight/internal/storage/badger"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	// Command-line flags
	configFiles  configPaths // Multiple -config flags supported
	companyName  = flag.String("company", "", "Company name (prompted when omitted)")
	websiteURL   = flag.String("url", "", "Company website URL (prompted when omitted)")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("Insight version %s\n", common.GetFullVersion())
		os.Exit(0)
	}

	// Startup sequence (REQUIRED ORDER):
	// 1. Load config (defaults -> file1 -> file2 -> ... -> env)
	// 2. Initialize logger
	// 3. Print banner

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("insight.toml"); err == nil {
			configFiles = append(configFiles, "insight.toml")
		}
	}

	config, err := common.LoadFromFiles(configFiles...)
	if err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	logger := common.InitLogger(config)
	common.PrintBanner(common.GetVersion())

	logger.Info().
		Strs("config_files", configFiles).
		Str("environment", config.Environment).
		Str("llm_provider", config.LLM.Provider).
		Msg("Application configuration loaded")

	company := strings.TrimSpace(*companyName)
	url := strings.TrimSpace(*websiteURL)
	if company == "" {
		company = promptLine("Enter the company name: ")
	}
	if url == "" {
		url = promptLine("Enter the company website URL: ")
	}
	if company == "" || url == "" {
		logger.Fatal().Msg("A company name and website URL are required")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Cancel in-flight work on SIGINT/SIGTERM
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
		cancel()
	}()

	db, err := badger.NewBadgerDB(logger, &config.Storage.Badger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open fetch log storage")
		os.Exit(1)
	}
	defer db.Close()

	llmService, err := llm.NewLLMService(&config.LLM, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize generation service")
		os.Exit(1)
	}
	defer llmService.Close()

	fetcher := fetch.NewService(&config.Fetch, logger)
	defer fetcher.Close()

	news := references.NewNewsFetcher(&config.News, logger)
	fetchLog := badger.NewFetchLogStorage(db, logger)
	refs := references.NewService(news, fetchLog, &config.Papers, logger)

	orchestrator := pipeline.NewOrchestrator(config, logger, llmService, fetcher, refs, fetcher)

	runOnce := func() {
		run, err := orchestrator.Run(ctx, company, url)
		if err != nil {
			logger.Error().Err(err).Str("company", company).Msg("Pipeline run failed")
			return
		}
		logger.Info().
			Str("run_id", run.RunID).
			Str("html", run.HTMLPath).
			Str("pdf", run.PDFPath).
			Msg("Report generated")
	}

	runOnce()

	// Optional repeated runs on a cron schedule
	if config.Report.Schedule != "" {
		scheduler := cron.New()
		if _, err := scheduler.AddFunc(config.Report.Schedule, runOnce); err != nil {
			logger.Fatal().Err(err).Str("schedule", config.Report.Schedule).Msg("Invalid report schedule")
			os.Exit(1)
		}
		scheduler.Start()
		logger.Info().Str("schedule", config.Report.Schedule).Msg("Scheduled repeated runs, press Ctrl+C to stop")

		<-ctx.Done()
		scheduleCtx := scheduler.Stop()
		<-scheduleCtx.Done()
	}

	logger.Info().Msg("Shutdown complete")
}

func promptLine(prompt string) string {
	fmt.Print(prompt)
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.TrimSpace(line)
}
