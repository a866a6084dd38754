package internal

import (
	"context"
	"errors"
	"fmt"
	"mafiabot/internal/controllers"
	"mafiabot/internal/jobs"
	"mafiabot/internal/models"
	"mafiabot/internal/platform/discord"
	"mafiabot/internal/providers"
	"mafiabot/internal/services"
	"mafiabot/internal/structures"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	shutdownTimeout = 5 * time.Second
	drainTimeout    = 30 * time.Second
)

type App struct {
	WebServer *http.Server
}

func newWebServer(healthController *controllers.HealthController, conf *structures.Config, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) *http.Server {
	routes := router.GetRoutes()
	adminMux := http.NewServeMux()
	for _, route := range routes {
		adminMux.Handle(route.Url, route.Handler)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", providers.MetricsMiddleware(metrics, routes, adminMux))

	return &http.Server{
		Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}
}

// NewApp connects to the gateway, starts the scheduler and the admin server,
// then blocks until SIGINT/SIGTERM and shuts everything down in reverse order.
func NewApp(session *discord.Session, dispatcher *services.Dispatcher, posts *services.PostRegistry, background *services.Background, healthController *controllers.HealthController, scheduler jobs.SchedulerInterface, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) (*App, error) {
	defer logger.Close()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session.OnMessage(func(msg *models.Message) {
		dispatcher.Dispatch(appCtx, msg)
	})
	session.OnReady(func() {
		if err := posts.Publish(appCtx); err != nil {
			logger.Errorf(providers.TypePosts, "Unable to publish status: %s", err)
		}
	})

	logger.Infof(providers.TypeApp, "Starting %s", conf.AppName)
	if err := session.Open(); err != nil {
		return nil, err
	}
	closeSession := func() {
		if err := session.Close(); err != nil {
			logger.Warnf(providers.TypeGateway, "Close error: %s", err)
		}
	}

	if err := scheduler.Init(); err != nil {
		closeSession()
		return nil, err
	}

	app := &App{}
	serverErr := make(chan error, 1)
	if conf.WebServer.Enabled {
		app.WebServer = newWebServer(healthController, conf, router, metrics)
		go func() {
			logger.Infof(providers.TypeApp, "Listening HTTP clients on %s:%d", conf.WebServer.Host, conf.WebServer.Port)
			if err := app.WebServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
			}
		}()
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	var runErr error
	select {
	case <-stop:
		logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		runErr = fmt.Errorf("server error: %w", err)
	}

	cancel()
	scheduler.Stop()

	if app.WebServer != nil {
		ctx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := app.WebServer.Shutdown(ctx); err != nil {
			logger.Warnf(providers.TypeApp, "HTTP shutdown: %s", err)
		}
		cancelShutdown()
	}

	// No gateway events may reach the dispatcher once draining starts.
	closeSession()

	ctx, cancelDrain := context.WithTimeout(context.Background(), drainTimeout)
	defer cancelDrain()
	if err := background.Shutdown(ctx); err != nil {
		logger.Warnf(providers.TypeApp, "%s", err)
	}

	if runErr != nil {
		return nil, runErr
	}
	logger.Infof(providers.TypeApp, "gracefully stopped")
	return app, nil
}
