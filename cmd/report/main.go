// Command report runs the storm impact reporting service: it consumes raw
// storm event records from Kafka or a local CSV file, normalizes event types
// into canonical categories, aggregates impact totals per category, and
// serves the ranked health and financial report views over HTTP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/storm-impact-report/internal/adapter/csvfile"
	httpadapter "github.com/couchcryptid/storm-impact-report/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/storm-impact-report/internal/adapter/kafka"
	"github.com/couchcryptid/storm-impact-report/internal/config"
	"github.com/couchcryptid/storm-impact-report/internal/observability"
	"github.com/couchcryptid/storm-impact-report/internal/pipeline"
	"github.com/couchcryptid/storm-impact-report/internal/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	var (
		extractor pipeline.BatchExtractor
		closers   []func() error
	)
	switch cfg.Source {
	case config.SourceCSV:
		loader := csvfile.NewLoader(cfg.CSVPath, logger)
		closers = append(closers, loader.Close)
		extractor = loader
		logger.Info("csv source selected", "path", cfg.CSVPath)
	default:
		reader := kafkaadapter.NewReader(cfg, logger)
		closers = append(closers, reader.Close)
		extractor = reader
		logger.Info("kafka source selected",
			"brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSourceTopic)
	}

	// Publishing cleaned events is optional; an empty sink topic disables it.
	var publisher pipeline.Publisher
	if cfg.KafkaSinkTopic != "" {
		writer := kafkaadapter.NewWriter(cfg, logger)
		closers = append(closers, writer.Close)
		publisher = writer
		logger.Info("sink topic enabled", "topic", cfg.KafkaSinkTopic)
	}

	acc := report.NewAccumulator()
	p := pipeline.New(extractor, publisher, acc, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, acc, p, metrics, logger, cfg.ReportTopN)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// The pipeline stops on its own once a finite source drains; the HTTP
	// server keeps serving the accumulated report until shutdown.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			logger.Error("source close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
