package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mealcartapp/mealcart/internal/cache"
	"github.com/mealcartapp/mealcart/internal/cart"
	"github.com/mealcartapp/mealcart/internal/catalog"
	"github.com/mealcartapp/mealcart/internal/config"
	"github.com/mealcartapp/mealcart/internal/db"
	"github.com/mealcartapp/mealcart/internal/grocery"
	"github.com/mealcartapp/mealcart/internal/handlers"
	"github.com/mealcartapp/mealcart/internal/observability"
	"github.com/mealcartapp/mealcart/internal/optimizer"
	"github.com/mealcartapp/mealcart/internal/pricing"
	"github.com/mealcartapp/mealcart/internal/services"
)

type App struct {
	Config        *config.Config
	Logger        *slog.Logger
	DB            *pgxpool.Pool
	CacheProvider cache.Provider
	Handlers      *handlers.Handlers
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	database, err := db.Connect(startupCtx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	cacheProvider, err := cache.NewProvider(cache.Config{
		Provider:              cfg.CacheProvider,
		RedisConnectionString: cfg.RedisConnectionString,
	})
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize cache provider: %w", err)
	}

	storeCatalog, err := catalog.NewFixtureProvider(cfg.ProviderRateRPS)
	if err != nil {
		closeCacheProvider(logger, cacheProvider)
		database.Close()
		return nil, fmt.Errorf("failed to initialize store catalog: %w", err)
	}

	resolver, err := pricing.NewResolver(
		storeCatalog,
		cacheProvider,
		cfg.PriceCacheTTL,
		cfg.ProviderTimeout,
		logger.With("component", "price_resolver"),
	)
	if err != nil {
		closeCacheProvider(logger, cacheProvider)
		database.Close()
		return nil, fmt.Errorf("failed to initialize price resolver: %w", err)
	}
	engine, err := pricing.NewEngine(resolver, storeCatalog, cfg.CompareWorkers, cfg.SplitDeliveryFee)
	if err != nil {
		closeCacheProvider(logger, cacheProvider)
		database.Close()
		return nil, fmt.Errorf("failed to initialize price engine: %w", err)
	}

	linkGenerator, err := cart.NewGenerator(storeCatalog)
	if err != nil {
		closeCacheProvider(logger, cacheProvider)
		database.Close()
		return nil, fmt.Errorf("failed to initialize cart link generator: %w", err)
	}

	var optimizerClient optimizer.Client
	if cfg.OptimizerURL != "" {
		httpClient := observability.NewHTTPClient(cfg.OptimizerTimeout, cfg.OptimizerURL)
		client, err := optimizer.NewHTTPClient(cfg.OptimizerURL, cfg.OptimizerAPIKey, cfg.OptimizerModel, cfg.OptimizerTimeout, httpClient)
		if err != nil {
			closeCacheProvider(logger, cacheProvider)
			database.Close()
			return nil, fmt.Errorf("failed to initialize optimizer client: %w", err)
		}
		optimizerClient = client
	}

	listStore := db.NewGroceryListStore(database)
	recipeStore := db.NewRecipeStore(database)
	comparisonStore := db.NewComparisonStore(database)
	cartStore := db.NewCartStore(database)

	groceryService := services.NewGroceryService(
		listStore,
		recipeStore,
		grocery.NewConsolidator(grocery.NameKey),
		logger.With("component", "grocery_service"),
	)
	priceService := services.NewPriceService(listStore, engine, comparisonStore, logger.With("component", "price_service"))
	cartService := services.NewCartService(listStore, linkGenerator, cartStore, storeCatalog, logger.With("component", "cart_service"))
	recipeService := services.NewRecipeService(recipeStore, optimizerClient, logger.With("component", "recipe_service"))

	h, err := handlers.New(handlers.Dependencies{
		Config:         cfg,
		DB:             database,
		Catalog:        storeCatalog,
		GroceryService: groceryService,
		PriceService:   priceService,
		CartService:    cartService,
		RecipeService:  recipeService,
		Logger:         logger,
	})
	if err != nil {
		closeCacheProvider(logger, cacheProvider)
		database.Close()
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}

	return &App{
		Config:        cfg,
		Logger:        logger,
		DB:            database,
		CacheProvider: cacheProvider,
		Handlers:      h,
	}, nil
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.CacheProvider != nil {
		closeCacheProvider(a.Logger, a.CacheProvider)
	}
	if a.DB != nil {
		a.DB.Close()
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	format := strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	switch format {
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	case "text", "":
		return slog.New(tint.NewHandler(os.Stdout, &tint.Options{
			Level: cfg.LogLevel,
		}))
	}
	return slog.New(tint.NewHandler(os.Stdout, &tint.Options{Level: cfg.LogLevel}))
}

func closeCacheProvider(logger *slog.Logger, provider cache.Provider) {
	if provider == nil {
		return
	}
	if err := provider.Close(); err != nil && logger != nil {
		logger.Warn("failed to close cache provider", "error", err)
	}
}
