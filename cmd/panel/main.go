package main

import (
	"fmt"
	"log"
	"os"

	"github.com/dukerupert/vend/internal"
	"github.com/dukerupert/vend/internal/cart"
	"github.com/dukerupert/vend/internal/catalog"
	"github.com/dukerupert/vend/internal/draft"
	"github.com/dukerupert/vend/internal/handler"
	"github.com/dukerupert/vend/internal/inventory"
	"github.com/dukerupert/vend/internal/returns"
	"github.com/dukerupert/vend/internal/search"
	"github.com/dukerupert/vend/internal/server"
)

func run() error {
	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Draft store for the operator's in-progress carts
	drafts, err := draft.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("draft store initialization failed: %w", err)
	}

	// Remote inventory/sales service client
	logger.Info("Connecting to shop service", "url", cfg.ShopServiceURL)
	client, err := catalog.NewHTTPClient(catalog.Config{
		BaseURL: cfg.ShopServiceURL,
		Timeout: cfg.ShopServiceTimeout,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("catalog client initialization failed: %w", err)
	}

	// Initialize commerce state
	registry := cart.NewRegistry(client, drafts, logger)
	brokenCart := returns.NewManager(client, drafts, logger)
	invService := inventory.NewService(client, logger)

	// One search controller per page: POS adds to the active cart,
	// the returns page adds to the broken cart.
	posSearch := search.NewController(search.Config{
		Client: client,
		Add:    registry.AddToActive,
		Logger: logger,
	})
	returnsSearch := search.NewController(search.Config{
		Client: client,
		Add:    brokenCart.Add,
		Logger: logger,
	})

	e := server.New(server.Deps{
		Cart:          handler.NewCartHandler(registry, logger),
		Inventory:     handler.NewInventoryHandler(invService, logger),
		Returns:       handler.NewReturnsHandler(brokenCart, invService.Refresh, logger),
		POSSearch:     handler.NewSearchHandler(posSearch, logger),
		ReturnsSearch: handler.NewSearchHandler(returnsSearch, logger),
		Analytics:     handler.NewAnalyticsHandler(client, logger),
		Logger:        logger,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("Starting panel server", "address", addr)
	if err := e.Start(addr); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
