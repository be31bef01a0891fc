// ledgerctl runs the scheduled ledger jobs from the command line: daily
// close, integrity audit, reconciliation, D+1/D+2 settlement, retention
// sweep and snapshot export. Each job takes a Redis lock so concurrent
// invocations (cron overlap, two operators) cannot double-run.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"ledger-gateway/config"
	"ledger-gateway/internal/adapter/bank"
	"ledger-gateway/internal/adapter/events/kafka"
	pgStorage "ledger-gateway/internal/adapter/storage/postgres"
	redisStorage "ledger-gateway/internal/adapter/storage/redis"
	"ledger-gateway/internal/core/domain"
	"ledger-gateway/internal/core/ports"
	"ledger-gateway/internal/service"
	"ledger-gateway/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const jobLockTTL = 30 * time.Minute

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	job := os.Args[1]

	fs := flag.NewFlagSet(job, flag.ExitOnError)
	dateKey := fs.String("date", domain.DateKeyOf(time.Now().UTC().AddDate(0, 0, -1)), "UTC day to operate on (YYYY-MM-DD)")
	statementDir := fs.String("statement-dir", "", "directory of <date>.json statement files (reconcile-file)")
	configPath := fs.String("config", "", "path to config file")
	if err := fs.Parse(os.Args[2:]); err != nil {
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.ForJob(logger.New(cfg.Log.Level, cfg.Log.Pretty), job, *dateKey)

	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Minute)
	defer cancel()

	app, err := newApp(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialization failed")
	}
	defer app.close()

	// One lock per job name, shared across instances.
	acquired, err := app.jobLock.Acquire(ctx, job, jobLockTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("job lock check failed")
	}
	if !acquired {
		log.Warn().Msg("job already running elsewhere, exiting")
		return
	}
	defer app.jobLock.Release(context.Background(), job) //nolint:errcheck

	if err := app.run(ctx, job, *dateKey, *statementDir, log); err != nil {
		log.Fatal().Err(err).Msg("job failed")
	}
	log.Info().Msg("job finished")
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: ledgerctl <job> [flags]

jobs:
  close             close the day's ledger batch and write snapshots
  audit             verify hash chains and batch balance for the day
  reconcile-file    reconcile snapshots against a local statement file
  reconcile-remote  reconcile snapshots against the bank statement API
  settle-d1         release seller funds for the closed day (D+1)
  settle-d2         confirm cashouts against the bank transfer feed (D+2)
  sweep             release matured retention holds back to wallets
  export            write the day's snapshots to the export directory`)
}

// app wires the shared infrastructure once; each job picks the services it
// needs from it.
type app struct {
	cfg       *config.Config
	pool      *pgxpool.Pool
	rdb       *goredis.Client
	publisher ports.EventPublisher
	jobLock   *redisStorage.JobLock

	entryRepo    ports.EntryRepository
	snapshotRepo ports.SnapshotRepository
	batchRepo    ports.BatchRepository
	cashoutRepo  ports.CashoutRepository
	walletRepo   ports.WalletRepository
	policyRepo   ports.PolicyRepository
	auditRepo    ports.AuditRepository
	transactor   ports.DBTransactor
	idempCache   ports.IdempotencyCache
	bankClient   *bank.Client
}

func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("redis: %w", err)
	}

	var publisher ports.EventPublisher = kafka.NopPublisher{}
	if cfg.Kafka.Enabled {
		publisher = kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}

	return &app{
		cfg:          cfg,
		pool:         pool,
		rdb:          rdb,
		publisher:    publisher,
		jobLock:      redisStorage.NewJobLock(rdb),
		entryRepo:    pgStorage.NewEntryRepo(pool),
		snapshotRepo: pgStorage.NewSnapshotRepo(pool),
		batchRepo:    pgStorage.NewBatchRepo(pool),
		cashoutRepo:  pgStorage.NewCashoutRepo(pool),
		walletRepo:   pgStorage.NewWalletRepo(pool),
		policyRepo:   pgStorage.NewPolicyRepo(pool),
		auditRepo:    pgStorage.NewAuditRepo(pool),
		transactor:   pgStorage.NewTransactor(pool),
		idempCache:   redisStorage.NewIdempotencyCache(rdb),
		bankClient:   bank.NewClient(cfg.Bank),
	}, nil
}

func (a *app) close() {
	a.publisher.Close() //nolint:errcheck
	a.rdb.Close()       //nolint:errcheck
	a.pool.Close()
}

func (a *app) run(ctx context.Context, job, dateKey, statementDir string, log zerolog.Logger) error {
	day, err := domain.ParseDateKey(dateKey)
	if err != nil {
		return fmt.Errorf("invalid -date %q: %w", dateKey, err)
	}

	threshold := decimal.NewFromFloat(a.cfg.Ledger.DivergenceThreshold)
	poster := service.NewPostingService(a.entryRepo, a.batchRepo, a.idempCache, a.publisher, a.transactor, log)

	switch job {
	case "close":
		svc := service.NewClosingService(a.entryRepo, a.snapshotRepo, a.batchRepo, a.publisher, a.transactor, log)
		batch, noop, err := svc.CloseDailyBatch(ctx, day)
		if err != nil {
			return err
		}
		log.Info().Str("batch_id", batch.BatchID.String()).Bool("noop", noop).Msg("day closed")
		return nil

	case "audit":
		svc := service.NewAuditService(a.entryRepo, a.snapshotRepo, a.auditRepo, log)
		report, err := svc.RunIntegrityCheck(ctx, day)
		if err != nil {
			return err
		}
		return printJSON(report)

	case "reconcile-file":
		if statementDir == "" {
			return fmt.Errorf("reconcile-file requires -statement-dir")
		}
		source := bank.NewFileStatementSource(statementDir)
		svc := service.NewReconcileService(a.snapshotRepo, a.auditRepo, source, threshold, log)
		result, err := svc.ReconcileRemote(ctx, dateKey)
		if err != nil {
			return err
		}
		return printJSON(result)

	case "reconcile-remote":
		svc := service.NewReconcileService(a.snapshotRepo, a.auditRepo, a.bankClient, threshold, log)
		result, err := svc.ReconcileRemote(ctx, dateKey)
		if err != nil {
			return err
		}
		return printJSON(result)

	case "settle-d1":
		svc := service.NewSettlementService(
			poster, a.snapshotRepo, a.walletRepo, a.cashoutRepo, a.auditRepo,
			a.bankClient, a.transactor, a.cfg.Ledger.Currency, log,
		)
		report, err := svc.ReleaseDayPlusOne(ctx, dateKey)
		if err != nil {
			return err
		}
		return printJSON(report)

	case "settle-d2":
		svc := service.NewSettlementService(
			poster, a.snapshotRepo, a.walletRepo, a.cashoutRepo, a.auditRepo,
			a.bankClient, a.transactor, a.cfg.Ledger.Currency, log,
		)
		cutoff := time.Now().UTC().AddDate(0, 0, -a.cfg.Ledger.SettlementCutoffDays)
		report, err := svc.ConfirmDayPlusTwo(ctx, cutoff)
		if err != nil {
			return err
		}
		return printJSON(report)

	case "sweep":
		svc := service.NewReserveService(
			a.policyRepo, a.walletRepo, a.transactor,
			decimal.NewFromFloat(a.cfg.Ledger.ReservePercent), log,
		)
		report, err := svc.ReleaseMaturedFunds(ctx, time.Now().UTC())
		if err != nil {
			return err
		}
		return printJSON(report)

	case "export":
		svc := service.NewExportService(a.snapshotRepo, a.auditRepo, log)
		result, err := svc.ExportSnapshots(ctx, dateKey, a.cfg.Ledger.ExportDir)
		if err != nil {
			return err
		}
		return printJSON(result)

	default:
		usage()
		return fmt.Errorf("unknown job %q", job)
	}
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
