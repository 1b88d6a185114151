// Command merge builds the master weather dataset from the per-city shards.
//
// By default it runs once and exits non-zero on any structural error. With
// MERGE_INTERVAL (or -interval) set it keeps running, re-merging on that
// schedule and serving /healthz, /readyz, /report and /metrics.
//
// Usage:
//
//	go run ./cmd/merge \
//	  -shards data/city_weather_data \
//	  -reference data/locations.csv \
//	  -output data/turkey_weather_master.csv
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/turkey-weather-etl/internal/adapter/http"
	"github.com/couchcryptid/turkey-weather-etl/internal/adapter/csvfile"
	kafkaadapter "github.com/couchcryptid/turkey-weather-etl/internal/adapter/kafka"
	"github.com/couchcryptid/turkey-weather-etl/internal/config"
	"github.com/couchcryptid/turkey-weather-etl/internal/observability"
	"github.com/couchcryptid/turkey-weather-etl/internal/pipeline"
	"github.com/couchcryptid/turkey-weather-etl/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	store := csvfile.NewStore(cfg.ShardDir, cfg.ReferencePath, cfg.ExpectedCities)
	master := csvfile.NewMasterWriter(cfg.OutputPath, logger)

	var reports []pipeline.ReportSink
	if cfg.ReportPath != "" {
		reports = append(reports, csvfile.NewReportFile(cfg.ReportPath))
	}
	var publisher *kafkaadapter.ReportPublisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher = kafkaadapter.NewReportPublisher(cfg, logger)
		reports = append(reports, publisher)
		logger.Info("kafka run reports enabled", "topic", cfg.KafkaReportTopic)
	}

	p := pipeline.New(store, store, master, logger, metrics, pipeline.Options{
		Location:            cfg.ShardTimezone,
		MinTemp:             cfg.TempMinC,
		MaxTemp:             cfg.TempMaxC,
		DropOutliers:        cfg.DropOutliers,
		RequireFullCoverage: cfg.RequireFullCoverage,
		Workers:             cfg.MergeWorkers,
	}, reports...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var code int
	if cfg.MergeInterval > 0 {
		code = serve(ctx, cfg, p, metrics, logger)
	} else {
		code = runOnce(ctx, cfg, p, metrics, logger)
	}

	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	stop()
	os.Exit(code)
}

func applyFlags(cfg *config.Config) {
	flag.StringVar(&cfg.ShardDir, "shards", cfg.ShardDir, "directory containing the per-city shard CSVs")
	flag.StringVar(&cfg.ReferencePath, "reference", cfg.ReferencePath, "path to the city reference CSV")
	flag.StringVar(&cfg.OutputPath, "output", cfg.OutputPath, "path of the master dataset")
	flag.StringVar(&cfg.ReportPath, "report", cfg.ReportPath, "optional path for the JSON run report")
	flag.IntVar(&cfg.MergeWorkers, "workers", cfg.MergeWorkers, "shards read and validated concurrently")
	flag.BoolVar(&cfg.DropOutliers, "drop-outliers", cfg.DropOutliers, "drop rows outside the temperature bounds instead of flagging them")
	flag.BoolVar(&cfg.RequireFullCoverage, "require-full-coverage", cfg.RequireFullCoverage, "fail when a reference city has no shard")
	flag.DurationVar(&cfg.MergeInterval, "interval", cfg.MergeInterval, "re-merge interval; 0 runs once")
	flag.Parse()
}

func runOnce(ctx context.Context, cfg *config.Config, p *pipeline.Pipeline, metrics *observability.Metrics, logger *slog.Logger) int {
	_, err := p.Run(ctx)

	if cfg.PushgatewayURL != "" {
		if perr := metrics.Push(ctx, cfg.PushgatewayURL); perr != nil {
			logger.Error("pushgateway push failed", "error", perr)
		}
	}

	if err != nil {
		var se *pipeline.StageError
		if errors.As(err, &se) {
			logger.Error("merge aborted", "stage", se.Stage, "error", se.Err)
		} else {
			logger.Error("merge aborted", "error", err)
		}
		return 1
	}
	return 0
}

func serve(ctx context.Context, cfg *config.Config, p *pipeline.Pipeline, metrics *observability.Metrics, logger *slog.Logger) int {
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, metrics.Gatherer(), logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	sched := scheduler.New(p, cfg.MergeInterval, logger)
	if err := sched.Start(ctx); err != nil {
		logger.Error("scheduler start failed", "error", err)
		return 1
	}

	<-ctx.Done()
	logger.Info("shutting down")
	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
	return 0
}
