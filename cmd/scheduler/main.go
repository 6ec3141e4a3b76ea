package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dealerhub_backend/internal/adapters"
	"dealerhub_backend/internal/dealers"
	"dealerhub_backend/internal/email"
	"dealerhub_backend/internal/events"
	"dealerhub_backend/internal/leads"
	"dealerhub_backend/internal/notification"
	"dealerhub_backend/internal/regions"
	"dealerhub_backend/internal/scheduler"
	"dealerhub_backend/platform/config"
	"dealerhub_backend/platform/db"
	"dealerhub_backend/platform/logger"
	"dealerhub_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// The scheduler binary runs the asynq worker that processes due
// follow-up reminders. It shares the leads service with the API so the
// same pipeline handles the reminder (event publication, cleanup).
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	if cfg.RedisURL == "" {
		panic("REDIS_URL is required for the scheduler")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)
	graph := regions.MustGraph()
	val := validator.New()

	var sender email.Sender = email.NoopSender{}
	if cfg.GetEmailEnabled() {
		sender = email.NewSMTPSender(cfg)
	}

	notificationModule := notification.New(pool, sender, cfg, log)
	notificationModule.RegisterHandlers(eventBus)

	dealersModule := dealers.NewModule(pool, eventBus, graph, nil, "", val)
	dealerDirectory := adapters.NewDealerDirectory(dealersModule.Service().Repository())
	leadsModule := leads.NewModule(pool, dealerDirectory, eventBus, graph, log, cfg.GetAppBaseURL(), val)

	worker, err := scheduler.NewWorker(cfg, leadsModule.Service(), log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	log.Info("scheduler worker running", "queue", cfg.AsynqQueueName, "concurrency", cfg.AsynqConcurrency)
	worker.Run(ctx)
	log.Info("scheduler shut down cleanly")
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
