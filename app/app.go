package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/readora/market-service/config"
	"github.com/readora/market-service/internal/handler"
	"github.com/readora/market-service/internal/repository"
	"github.com/readora/market-service/internal/repository/memory"
	"github.com/readora/market-service/internal/server"
	"github.com/readora/market-service/internal/service/cart"
	"github.com/readora/market-service/internal/service/catalog"
	"github.com/readora/market-service/internal/service/order"
	"github.com/readora/market-service/internal/service/user"
	"github.com/readora/market-service/internal/stats"
	"github.com/readora/market-service/migrations"
	"github.com/readora/market-service/pkg/kafka"
	"github.com/readora/market-service/pkg/logger"
	"github.com/readora/market-service/pkg/postgres"
)

func Run(cfg config.Config) {
	log := logger.NewLogger(cfg.Log, "market")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		store repository.Store
		db    *sqlx.DB
	)
	switch cfg.StoreBackend {
	case config.StoreMemory:
		store = memory.NewStore()
	default:
		var err error
		db, err = postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
		if err != nil {
			log.Fatal("db init", zap.Error(err))
		}
		repo, err := repository.NewRepository(db, log)
		if err != nil {
			log.Fatal("repo", zap.Error(err))
		}
		store = repo
	}

	collector := stats.NewCollector()
	g, gctx := errgroup.WithContext(ctx)

	var enqueuer kafka.Enqueuer
	if cfg.KafkaEnabled {
		producer, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			log.Fatal("kafka.NewProducer", zap.Error(err))
		}
		enqueuer = kafka.NewEnqueuer(producer)

		consumer, err := kafka.NewConsumer(cfg.Kafka, kafka.StatsConsumerGroup)
		if err != nil {
			log.Fatal("kafka.NewConsumer", zap.Error(err))
		}
		g.Go(func() error {
			err := kafka.Consume(gctx, consumer, stats.NewConsumer(collector, log), kafka.OrdersTopic, kafka.ReviewsTopic)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	userSvc := user.NewService(store, log)
	catalogSvc := catalog.NewService(store, enqueuer, log)
	cartSvc := cart.NewService(store, log)
	orderSvc := order.NewService(store, enqueuer, log)

	h := handler.New(userSvc, catalogSvc, cartSvc, orderSvc, collector, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, closeCancel := context.WithTimeout(context.Background(), time.Second*5)
	defer closeCancel()

	if err := srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	cancel()
	if err := g.Wait(); err != nil {
		log.Error("consumer stop", zap.Error(err))
	}
	if db != nil {
		db.Close()
	}
	log.Info("Graceful shutdown finished")
}
