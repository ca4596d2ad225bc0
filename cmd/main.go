package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MalteHoel/duneuro-forward-test/internal/app"
	"github.com/MalteHoel/duneuro-forward-test/internal/config"
	"github.com/MalteHoel/duneuro-forward-test/internal/domain/model"
	"github.com/MalteHoel/duneuro-forward-test/pkg/logger"
	"github.com/MalteHoel/duneuro-forward-test/pkg/metrics"
)

// HTTP server timeout constants for the optional metrics endpoint.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "", "Path to the YAML configuration file (default: $"+config.EnvConfigPath+")")
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()
	lg := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx, *configPath)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		lg.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// The metrics endpoint is opt-in; a single comparison run is usually
	// too short-lived to scrape.
	var srv *http.Server
	if cfg.MetricsAddr != "" {
		srv = startMetricsServer(ctx, lg, cfg.MetricsAddr)
	}

	svc := app.New(cfg, app.WithLogger(lg))
	report, err := svc.Run(ctx)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
			lg.Error(ctx, "metrics server shutdown failed", logger.Error(shutdownErr))
		}
		cancel()
	}

	if err != nil {
		lg.Error(ctx, "comparison run failed", logger.Error(err))
		os.Stderr.WriteString("eeg forward comparison failed: " + err.Error() + "\n")
		os.Exit(1)
	}

	printReport(os.Stdout, report)
	lg.Info(ctx, "comparison run finished",
		logger.String("run_id", report.RunID),
		logger.Int("electrodes", report.Electrodes),
	)
}

// printReport writes the comparison summary in the fixed labeled layout
// downstream scripts grep for.
func printReport(w io.Writer, r model.Report) {
	fmt.Fprintf(w, "Norm of analytical solution : %g\n", r.NormAnalytical)
	fmt.Fprintf(w, "Norm of numerical solution  : %g\n", r.NormNumerical)
	fmt.Fprintf(w, "Relative error              : %g\n", r.RelativeError)
	fmt.Fprintf(w, "MAG                         : %g\n", r.MAG)
	fmt.Fprintf(w, "RDM                         : %g\n", r.RDM)
}

// startMetricsServer exposes the Prometheus scrape endpoint on addr for
// the duration of the run.
func startMetricsServer(ctx context.Context, lg logger.Logger, addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	go func() {
		lg.Info(ctx, "starting metrics server", logger.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Error(ctx, "metrics server failed", logger.Error(err))
		}
	}()
	return srv
}
