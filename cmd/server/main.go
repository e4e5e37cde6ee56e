package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"kudos/internal/admin"
	"kudos/internal/community"
	"kudos/internal/events"
	"kudos/internal/kudos/handler"
	kudosmetrics "kudos/internal/kudos/metrics"
	"kudos/internal/kudos/service"
	"kudos/internal/kudos/store/allowlist"
	"kudos/internal/kudos/store/registry"
	"kudos/internal/ledger"
	"kudos/internal/platform/config"
	"kudos/internal/platform/httpserver"
	"kudos/internal/platform/logger"
	"kudos/internal/platform/middleware"
	"kudos/internal/platform/postgres"
	platformredis "kudos/internal/platform/redis"
	httptransport "kudos/internal/transport/http"
	"kudos/internal/typeddata"
	id "kudos/pkg/domain"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AdminJWTKey == "" {
		log.Error("KUDOS_ADMIN_JWT_KEY is required")
		os.Exit(1)
	}
	owner, err := id.ParseAddress(cfg.OwnerAddress)
	if err != nil {
		log.Error("KUDOS_OWNER_ADDRESS is missing or malformed", "error", err)
		os.Exit(1)
	}
	contract, err := id.ParseAddress(cfg.ContractAddr)
	if err != nil {
		log.Error("KUDOS_CONTRACT_ADDRESS is malformed", "error", err)
		os.Exit(1)
	}
	if cfg.CommunityURL == "" {
		log.Error("KUDOS_COMMUNITY_REGISTRY_URL is required")
		os.Exit(1)
	}

	gate := admin.NewGate()
	if err := gate.Activate(admin.Config{Owner: owner}); err != nil {
		log.Error("gate activation failed", "error", err)
		os.Exit(1)
	}

	health := map[string]httptransport.HealthChecker{}

	var (
		tokenRegistry service.TokenRegistry
		allowlists    service.AllowlistStore
		balances      ledger.BalanceStore
		storeTx       service.StoreTx
	)
	if cfg.PostgresDSN != "" {
		db, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Error("postgres connection failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := postgres.EnsureSchema(ctx, db, cfg.TokenIDSeed); err != nil {
			log.Error("schema bootstrap failed", "error", err)
			os.Exit(1)
		}
		tokenRegistry = registry.NewPostgres(db)
		allowlists = allowlist.NewPostgres(db)
		balances = ledger.NewPostgres(db)
		storeTx = postgres.NewStoreTx(db)
		health["postgres"] = dbHealth{db}
		log.Info("using postgres stores")
	} else {
		tokenRegistry = registry.NewInMemory(cfg.TokenIDSeed)
		allowlists = allowlist.NewInMemory()
		balances = ledger.NewInMemoryStore()
		log.Warn("no postgres dsn configured, state is in-memory only")
	}

	var communityClient community.Client = community.NewHTTPClient(cfg.CommunityURL)
	rdb, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if rdb != nil {
		defer rdb.Close()
		communityClient = community.NewCachedClient(communityClient, rdb.Client, cfg.CommunityTTL, log)
		health["redis"] = rdb
		log.Info("community existence answers cached in redis", "ttl", cfg.CommunityTTL)
	}

	var publisher events.Publisher = events.NewMemoryPublisher()
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, err := events.NewKafkaPublisher(ctx, cfg.KafkaBrokers, cfg.KafkaTopic, log)
		if err != nil {
			log.Error("kafka connection failed", "error", err)
			os.Exit(1)
		}
		publisher = kafkaPublisher
		log.Info("publishing registration events to kafka", "topic", cfg.KafkaTopic)
	}
	defer publisher.Close()

	opts := []service.Option{
		service.WithPublisher(publisher),
		service.WithMetrics(kudosmetrics.New()),
		service.WithLogger(log),
	}
	if storeTx != nil {
		opts = append(opts, service.WithStoreTx(storeTx))
	}
	svc := service.New(
		typeddata.NewHasher(cfg.ChainID, contract),
		tokenRegistry,
		allowlists,
		ledger.New(balances),
		communityClient,
		gate,
		opts...,
	)

	auth := middleware.RequireCaller(cfg.AdminJWTKey, log)
	router := httptransport.NewRouter(httptransport.Deps{
		Kudos:  handler.New(svc, gate, auth, log),
		Logger: log,
		Health: health,
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting kudos gateway", "addr", cfg.Addr, "owner", owner.String(), "chain_id", cfg.ChainID)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

type dbHealth struct {
	db *sql.DB
}

func (h dbHealth) Health(ctx context.Context) error {
	return h.db.PingContext(ctx)
}
