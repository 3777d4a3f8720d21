package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/patterflow/patter"
	"github.com/patterflow/patter/pkg/adapters/file"
	patterhttp "github.com/patterflow/patter/pkg/adapters/http"
	"github.com/patterflow/patter/pkg/adapters/redis"
	"github.com/patterflow/patter/pkg/observability"
	"github.com/patterflow/patter/pkg/ports"
)

// ServeOptions configures the HTTP host.
type ServeOptions struct {
	Dir       string
	Addr      string
	RedisAddr string
	Debug     bool
}

// RunServe hosts conversation sessions over HTTP until the context is
// cancelled. Sessions run in instant-delivery mode; /metrics exposes
// Prometheus counters shared across sessions.
func RunServe(ctx context.Context, opts ServeOptions) error {
	logger := createLogger(opts.Debug)

	source, err := file.New(opts.Dir, file.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to load sequences from %s: %w", opts.Dir, err)
	}

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	factory := func(ctx context.Context) (*patter.Engine, error) {
		var store ports.DataStore
		if opts.RedisAddr != "" {
			// Each session gets its own key namespace.
			store = redis.New(opts.RedisAddr, "", 0,
				redis.WithPrefix("patter:session:"+uuid.NewString()+":"))
		}

		engineOpts := []patter.Option{
			patter.WithLogger(logger),
			patter.WithInstantDelivery(true),
			patter.WithHooks(metrics.Hooks()),
		}
		if store != nil {
			engineOpts = append(engineOpts, patter.WithStore(store))
		}
		return patter.New(source, engineOpts...)
	}

	sessions := patterhttp.NewServer(factory, patterhttp.WithLogger(logger))
	defer sessions.Close()

	router := chi.NewRouter()
	router.Mount("/", sessions.Handler())
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", opts.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
