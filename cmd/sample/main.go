// Command sample runs the user directory demo service.
//
// Run:
//
//	go run ./cmd/sample
//
// Generate the schema document:
//
//	go run ./cmd/sample -schema                  — print to stdout
//	go run ./cmd/sample -schema -o schema.json   — write to file
//
// Then explore:
//
//	GET  http://localhost:8080/schema.json   — schema document
//	GET  http://localhost:8080/doc           — interactive docs
//	GET  http://localhost:8080/metrics       — Prometheus metrics
//	GET  http://localhost:8080/health.get    — health check
//	GET  http://localhost:8080/users.list    — list users
//	POST http://localhost:8080/user.get      — get user by id
//	POST http://localhost:8080/user.create   — create user
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/mirra-dev/mirra"
	"github.com/mirra-dev/mirra/userdir"
)

func main() {
	schemaFlag := flag.Bool("schema", false, "Print the schema document to stdout and exit")
	outFlag := flag.String("o", "", "Output file for the schema (requires -schema)")
	addrFlag := flag.String("addr", ":8080", "Listen address")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	b := mirra.New[*userdir.Store]("User Directory API",
		mirra.WithServiceDescription("A self-describing in-memory user directory"),
		mirra.WithLogger(logger),
	)
	userdir.Register(b)
	dispatch, schema := b.Build()

	if *schemaFlag {
		if err := writeSchema(schema, *outFlag); err != nil {
			logger.Fatal().Err(err).Msg("schema generation failed")
		}
		return
	}

	store := userdir.NewSeededStore()
	registry := prometheus.NewRegistry()

	service := mirra.NewHTTPHandler(dispatch, store,
		mirra.Recovery(logger),
		mirra.CORS(),
		mirra.RequestID(),
		mirra.RequestLogger(logger),
		mirra.RateLimit(mirra.RateLimitConfig{Rate: 50, Burst: 100}),
		mirra.Metrics(registry),
	)

	mux := http.NewServeMux()
	mux.Handle("/", service)
	mux.Handle("GET /schema.json", schema.Handler())
	mux.Handle("GET /doc", mirra.DocsHandler(mirra.DocsConfig{Title: schema.Name}))
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info().Str("addr", *addrFlag).Msg("starting server")

	if err := serve(ctx, *addrFlag, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server error")
	}

	logger.Info().Msg("server stopped")
}

// serve runs an HTTP server until the context is cancelled, then shuts it
// down gracefully.
func serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func writeSchema(schema *mirra.Schema, outFile string) error {
	if outFile == "" {
		return schema.WriteJSON(os.Stdout)
	}

	f, err := os.Create(outFile) //nolint:gosec // user-provided CLI flag
	if err != nil {
		return err
	}
	if err := schema.WriteJSON(f); err != nil {
		//nolint:errcheck,gosec // the write error takes precedence
		f.Close()
		return err
	}
	// A failed Close means the document may not have reached disk.
	return f.Close()
}
