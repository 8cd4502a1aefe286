package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"gameportal/config"
	"gameportal/database"
	"gameportal/events"
	"gameportal/gateway"
	"gameportal/pricing"
	"gameportal/repository"
	"gameportal/service"
	"gameportal/web"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()

	if cfg.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetLevel(log.DebugLevel)
	}

	log.Info("Starting game portal...")

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established")

	eventBus := events.NewBus()
	registerEventLogging(eventBus)

	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	paymentGateway := gateway.NewClient(cfg.GatewayBaseURL, cfg.GatewayAPIKey)
	priceResolver := pricing.NewClient(cfg.PriceAPIBaseURL)

	userService := service.NewUserService(uowFactory, cfg.WelcomeOrbs)
	storeService := service.NewStoreService(uowFactory, priceResolver)
	settlementService := service.NewSettlementService(uowFactory, paymentGateway, cfg.Currency, cfg.CurrencyLabel)
	walletService := service.NewWalletService(uowFactory, paymentGateway, cfg.Currency)
	friendService := service.NewFriendService(uowFactory)

	server := web.NewServer(cfg, userService, storeService, settlementService, walletService, friendService)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Infof("HTTP server listening in %s mode", cfg.Environment)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("HTTP server shutdown was not clean")
	}

	log.Info("Shutdown completed")
	return nil
}

// registerEventLogging attaches audit log subscribers to the domain
// events the services emit after commit.
func registerEventLogging(bus *events.Bus) {
	bus.Subscribe(events.EventTypeBalanceChange, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.BalanceChangeEvent)
		if !ok {
			return
		}
		log.WithFields(log.Fields{
			"userID":     e.UserID,
			"oldBalance": e.OldBalance,
			"newBalance": e.NewBalance,
			"type":       e.TransactionType,
		}).Info("Orbs balance changed")
	})

	bus.Subscribe(events.EventTypeUserCreated, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.UserCreatedEvent)
		if !ok {
			return
		}
		log.WithFields(log.Fields{
			"userID":   e.UserID,
			"username": e.Username,
		}).Info("User registered")
	})

	bus.Subscribe(events.EventTypePurchaseCompleted, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.PurchaseCompletedEvent)
		if !ok {
			return
		}
		log.WithFields(log.Fields{
			"userID":       e.UserID,
			"transaction":  e.TransactionID,
			"games":        len(e.GameIDs),
			"orbsSpent":    e.OrbsSpent,
			"orbsRewarded": e.OrbsRewarded,
			"cash":         e.CashAmount,
		}).Info("Purchase settled")
	})

	bus.Subscribe(events.EventTypeFriendshipAccepted, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.FriendshipAcceptedEvent)
		if !ok {
			return
		}
		log.WithFields(log.Fields{
			"userID":   e.UserID,
			"friendID": e.FriendID,
			"mutual":   e.Mutual,
		}).Info("Friendship accepted")
	})
}
