package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"dealerhub_backend/internal/adapters"
	"dealerhub_backend/internal/dealers"
	"dealerhub_backend/internal/leads"
	"dealerhub_backend/internal/leads/scoring"
	"dealerhub_backend/internal/regions"
	"dealerhub_backend/platform/config"
	"dealerhub_backend/platform/db"
	"dealerhub_backend/platform/logger"
	"dealerhub_backend/platform/validator"
)

// lead-rescore recomputes stored scores for every lead whose score was
// produced by an older scoring model version. Run it after a scoring
// table change; the API stamps new leads with the current version.
func main() {
	workers := flag.Int("workers", 8, "number of concurrent rescore workers")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting lead rescore backfill", "targetVersion", scoring.Version, "workers", *workers)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	graph := regions.MustGraph()
	val := validator.New()

	dealersModule := dealers.NewModule(pool, nil, graph, nil, "", val)
	dealerDirectory := adapters.NewDealerDirectory(dealersModule.Service().Repository())
	leadsModule := leads.NewModule(pool, dealerDirectory, nil, graph, log, cfg.GetAppBaseURL(), val)

	total, err := leadsModule.Service().RescoreOutdated(ctx, *workers)
	if err != nil {
		log.Error("rescore backfill failed", "error", err, "completed", total)
		panic("rescore backfill failed: " + err.Error())
	}

	log.Info("lead rescore backfill complete", "total", total)
}
