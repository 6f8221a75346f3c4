package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/nkiryanov/clubhouse/internal/handlers"
	"github.com/nkiryanov/clubhouse/internal/logger"
	"github.com/nkiryanov/clubhouse/internal/notify"
	"github.com/nkiryanov/clubhouse/internal/notify/rabbitmq"
	"github.com/nkiryanov/clubhouse/internal/repository/memory"
	"github.com/nkiryanov/clubhouse/internal/seed"
	"github.com/nkiryanov/clubhouse/internal/service/club"
	"github.com/nkiryanov/clubhouse/internal/service/fine"
	"github.com/nkiryanov/clubhouse/internal/service/inventory"
	"github.com/nkiryanov/clubhouse/internal/service/member"
	"github.com/nkiryanov/clubhouse/internal/service/stats"
	"github.com/nkiryanov/clubhouse/internal/service/ticker"
	"github.com/nkiryanov/clubhouse/internal/service/wallet"
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler

	dispatcher *notify.Dispatcher
	logger     logger.Logger
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	logger, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Notifications go to RabbitMQ if configured, to the log otherwise
	var publisher notify.Publisher = &notify.LogPublisher{L: logger.WithGroup("notify")}
	if c.AMQPURL != "" {
		publisher, err = rabbitmq.NewPublisher(c.AMQPURL, rabbitmq.DefaultExchange)
		if err != nil {
			return nil, fmt.Errorf("error while connecting to rabbitmq. Err: %w", err)
		}
	}
	dispatcher := notify.NewDispatcher(publisher, c.NotifyWorkers, logger)

	// All state lives in memory
	storage := memory.NewStorage()

	// Initialize services
	walletService := wallet.NewService(storage, dispatcher, logger)
	memberService := member.NewService(storage, walletService, dispatcher)
	inventoryService := inventory.NewService(storage, walletService, dispatcher, logger)
	fineService := fine.NewService(storage, walletService, dispatcher)
	tickerService := ticker.NewService(storage, dispatcher, logger)
	clubService := club.NewService(storage)

	if c.Seed {
		err := seed.Run(ctx, seed.Services{
			Members:   memberService,
			Inventory: inventoryService,
			Fines:     fineService,
			Club:      clubService,
			Ticker:    tickerService,
		}, time.Now())
		if err != nil {
			_ = publisher.Close()
			return nil, fmt.Errorf("error while seeding demo data. Err: %w", err)
		}
		logger.Info("Demo data seeded")
	}

	mux := handlers.NewRouter(handlers.Services{
		Members:   memberService,
		Wallet:    walletService,
		Inventory: inventoryService,
		Fines:     fineService,
		Ticker:    tickerService,
		Stats:     stats.NewService(storage),
		Club:      clubService,
	}, logger)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
		dispatcher: dispatcher,
		logger:     logger,
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
// Notifications queued before shutdown are still published
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	dispatcherCtx, dispatcherCancel := context.WithCancel(context.WithoutCancel(ctx))
	dispatcherStopped := s.dispatcher.Run(dispatcherCtx)

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			s.logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		s.logger.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	s.logger.Info("Starting server", "address", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	// No request is in flight anymore, so nothing is notified after the queue is closed
	dispatcherCancel()
	<-dispatcherStopped

	return err
}
