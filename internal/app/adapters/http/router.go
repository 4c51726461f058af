package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"twitchvoice/internal/app/adapters/http/handlers"
	"twitchvoice/internal/app/adapters/http/middlewares"
	"twitchvoice/internal/app/infrastructure/config"
	"twitchvoice/internal/app/ports"
	"twitchvoice/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

type Router struct {
	router      *gin.Engine
	handlers    *handlers.Handlers
	middlewares *middlewares.Middlewares

	log logger.Logger
	cfg config.HTTP
}

func NewRouter(log logger.Logger, cfg config.HTTP, botInfo ports.BotInfoPort, chat ports.ChatPort) *Router {
	r := &Router{
		router:      gin.New(),
		handlers:    handlers.New(log, botInfo, chat),
		middlewares: middlewares.New(),
		log:         log,
		cfg:         cfg,
	}
	r.router.Use(gin.Recovery())

	auth := r.middlewares.Auth(cfg.AuthToken)

	pprofGroup := r.router.Group("/", auth)
	pprof.RouteRegister(pprofGroup)

	r.router.GET("/metrics", auth, gin.WrapH(promhttp.Handler()))
	r.router.GET("/healthz", r.handlers.HealthHandler)
	return r
}

func (r *Router) Handler() http.Handler {
	return r.router
}

// Run serves until ctx is done, then shuts the server down gracefully.
func (r *Router) Run(ctx context.Context) error {
	srv := r.newServer(r.cfg.Address, r.router)

	errCh := make(chan error, 1)
	go func() {
		r.log.Info("HTTP server started", slog.String("address", r.cfg.Address))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		r.log.Error("Failed to shut down HTTP server", err)
		return err
	}
	return nil
}

func (r *Router) newServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       30 * time.Second,
	}
}
