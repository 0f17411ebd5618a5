package main

import (
	"flag"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"BistRadar/internal/analyze"
	"BistRadar/internal/collect"
	"BistRadar/internal/config"
	"BistRadar/internal/notifier"
	"BistRadar/internal/quote"
	"BistRadar/internal/resolve"
	"BistRadar/internal/scan"
	"BistRadar/internal/scheduler"
	"BistRadar/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	jobFlag := flag.String("job", "", "run one job (scan|resolve|collect|expire) and exit")
	flag.Parse()

	if err := godotenv.Load(); err == nil {
		log.Println("[INFO] loaded .env file")
	}

	log.Println("[INFO] BistRadar starting...")

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Quote chain: Yahoo first, Alpha Vantage second, synthetic last.
	source := quote.NewSource(nil,
		quote.NewYahooProvider(cfg.Providers.YahooSuffix, cfg.Proxy),
		quote.NewAlphaVantageProvider(cfg.Providers.AlphaVantageKey, cfg.Providers.AlphaVantageSuffix),
	)
	quotes := quote.NewCache(source)

	st, err := store.Open(cfg.Database.SQLitePath)
	if err != nil {
		log.Fatalf("[FATAL] open store: %v", err)
	}
	defer st.Close()

	ttl := time.Duration(cfg.Quotes.CacheTTLSeconds) * time.Second
	pacing := time.Duration(cfg.Quotes.PacingMillis) * time.Millisecond
	engine := analyze.NewEngine(rand.New(rand.NewSource(time.Now().UnixNano())))

	scanner := scan.NewScanner(cfg.OperatorID, cfg.Universe, quotes, st, engine)
	scanner.Profile = cfg.Scan.Threshold
	scanner.QuoteTTL = ttl
	scanner.Pacing = pacing
	scanner.HistoryLimit = cfg.Scan.HistoryLimit
	scanner.ResultWindow = time.Duration(cfg.Scan.WindowDays) * 24 * time.Hour
	if cfg.Telegram.BotToken != "" {
		scanner.Notifier = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		log.Println("[INFO] telegram notifications enabled")
	} else {
		log.Println("[INFO] telegram not configured, running scan-and-store only")
	}

	resolver := resolve.NewResolver(cfg.OperatorID, quotes, st)
	resolver.Policy = resolve.ExpirePolicy(cfg.Resolve.ExpirePolicy)
	resolver.QuoteTTL = ttl
	resolver.Pacing = pacing
	resolver.Retention = time.Duration(cfg.Resolve.RetentionHours) * time.Hour

	collector := collect.NewCollector(cfg.Universe, quotes, st)
	collector.QuoteTTL = ttl
	collector.Pacing = pacing

	sched := scheduler.NewScheduler(scanner, resolver, collector)

	// One-shot mode for external cron or manual runs.
	if *jobFlag != "" {
		if err := sched.RunJob(*jobFlag); err != nil {
			log.Fatalf("[FATAL] job %s: %v (available: %s)",
				*jobFlag, err, strings.Join(sched.JobNames(), ", "))
		}
		return
	}

	if err := sched.RegisterAll(
		cfg.Schedule.ScanCron,
		cfg.Schedule.ResolveCron,
		cfg.Schedule.CollectCron,
		cfg.Schedule.ExpireCron,
	); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing scan now")
		go func() {
			if err := sched.RunJob("scan"); err != nil {
				log.Printf("[ERROR] startup scan: %v", err)
			}
		}()
	}

	log.Println("[INFO] BistRadar is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	log.Println("[INFO] BistRadar stopped")
}
