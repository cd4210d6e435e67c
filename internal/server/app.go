// Package server initializes and runs the socialfeed server. It opens the
// configured store, builds the services and the GraphQL schema, handles
// graceful shutdown and starts the HTTP endpoint.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/socialfeed/internal/logging"
	"github.com/dmitrijs2005/socialfeed/internal/server/auth"
	"github.com/dmitrijs2005/socialfeed/internal/server/config"
	"github.com/dmitrijs2005/socialfeed/internal/server/graph"
	"github.com/dmitrijs2005/socialfeed/internal/server/httpapi"
	"github.com/dmitrijs2005/socialfeed/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/socialfeed/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	store  repomanager.RepositoryManager
	server *httpapi.Server
}

// logOutput is where the app logger writes.
var logOutput io.Writer = os.Stdout

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(logOutput, c.LogLevel, c.LogFormat)

	kind, err := repomanager.Kind(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	store, err := repomanager.Open(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	logger.Info(ctx, "Store opened", "backend", kind)

	us := services.NewUserService(store, c, logger)
	ps := services.NewPostService(store, logger)

	schema, err := graph.NewSchema(us, ps, logger)
	if err != nil {
		_ = store.Close(ctx)
		return nil, err
	}

	router := httpapi.NewRouter(schema, auth.NewGate(c.SecretKey), store, c.AllowedOrigins, logger)
	srv := httpapi.NewServer(c.EndpointAddr, router, c.ShutdownTimeout, logger)

	return &App{config: c, logger: logger, store: store, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until a termination signal arrives or ctx is cancelled, then
// closes the store.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.store.Close(context.WithoutCancel(ctx)); err != nil {
		app.logger.Error(ctx, "store close failed", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
