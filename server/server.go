package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mealcartapp/mealcart/internal/auth"
	"github.com/mealcartapp/mealcart/internal/config"
	"github.com/mealcartapp/mealcart/internal/handlers"
)

type Server struct {
	cfg        *config.Config
	logger     *slog.Logger
	handlers   *handlers.Handlers
	httpServer *http.Server
}

func New(cfg *config.Config, logger *slog.Logger, h *handlers.Handlers) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if h == nil {
		return nil, fmt.Errorf("handlers are required")
	}

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		handlers: h,
	}

	router := s.buildRouter()
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return s, nil
}

func (s *Server) Run() error {
	s.logger.Info("server starting", "port", s.cfg.Port)

	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Close(ctx context.Context) error {
	if s == nil || s.httpServer == nil {
		return nil
	}

	s.logger.Info("server shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) buildRouter() *mux.Router {
	h := s.handlers

	r := mux.NewRouter()
	r.Use(h.RequestLogger)
	r.Use(h.SecurityHeaders)
	r.HandleFunc("/health", h.Health).Methods("GET").Name("health")

	// 404 handler - must be last
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "not found"}`))
	})

	// API routes - require a bearer token
	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.Use(auth.Middleware([]byte(s.cfg.JWTSecret), s.logger))
	apiRouter.Use(h.MetricsContext)
	apiRouter.HandleFunc("/stores", h.ListStores).Methods("GET").Name("api.stores")
	apiRouter.HandleFunc("/products/search", h.SearchProducts).Methods("GET").Name("api.products.search")
	apiRouter.HandleFunc("/recipes", h.CreateRecipe).Methods("POST").Name("api.recipes.create")
	apiRouter.HandleFunc("/recipes", h.ListRecipes).Methods("GET").Name("api.recipes.list")
	apiRouter.HandleFunc("/recipes/{id}", h.GetRecipe).Methods("GET").Name("api.recipes.get")
	apiRouter.HandleFunc("/recipes/{id}", h.DeleteRecipe).Methods("DELETE").Name("api.recipes.delete")
	apiRouter.HandleFunc("/recipes/{id}/optimize", h.OptimizeRecipe).Methods("POST").Name("api.recipes.optimize")
	apiRouter.HandleFunc("/grocery-lists", h.CreateGroceryList).Methods("POST").Name("api.grocery_lists.create")
	apiRouter.HandleFunc("/grocery-lists", h.ListGroceryLists).Methods("GET").Name("api.grocery_lists.list")
	apiRouter.HandleFunc("/grocery-lists/{id}", h.GetGroceryList).Methods("GET").Name("api.grocery_lists.get")
	apiRouter.HandleFunc("/grocery-lists/{id}", h.DeleteGroceryList).Methods("DELETE").Name("api.grocery_lists.delete")
	apiRouter.HandleFunc("/grocery-lists/{id}/prices", h.ComparePrices).Methods("POST").Name("api.grocery_lists.prices")
	apiRouter.HandleFunc("/grocery-lists/{id}/prices", h.GetStoredPrices).Methods("GET").Name("api.grocery_lists.prices.stored")
	apiRouter.HandleFunc("/carts", h.CreateCart).Methods("POST").Name("api.carts.create")

	return r
}
