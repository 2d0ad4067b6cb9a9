package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/argusintel/argus/internal/domain/record"
	"github.com/argusintel/argus/internal/infrastructure/config"
	"github.com/argusintel/argus/internal/infrastructure/loader"
	"github.com/argusintel/argus/internal/infrastructure/report"
	"github.com/argusintel/argus/internal/infrastructure/telemetry"
	"github.com/argusintel/argus/internal/service/analysis"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to configuration file")
		cdrFiles   = flag.String("cdr", "", "Comma-separated CDR CSV files")
		ipdrFiles  = flag.String("ipdr", "", "Comma-separated IPDR CSV files")
		towerFiles = flag.String("tower", "", "Comma-separated tower dump CSV files")
		outPath    = flag.String("out", "", "Report output path (default stdout)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := telemetry.SetupLogger(cfg.LogLevel, cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ds := record.NewDataset()
	if err := loadAll(ds, *cdrFiles, loader.LoadCDR, logger); err != nil {
		logger.Fatal("loading CDR files", zap.Error(err))
	}
	if err := loadAll(ds, *ipdrFiles, loader.LoadIPDR, logger); err != nil {
		logger.Fatal("loading IPDR files", zap.Error(err))
	}
	if err := loadAll(ds, *towerFiles, loader.LoadTowerDump, logger); err != nil {
		logger.Fatal("loading tower dumps", zap.Error(err))
	}
	if ds.Len() == 0 {
		logger.Fatal("no records loaded; provide at least one of -cdr, -ipdr, -tower")
	}
	ds.Finalize()

	engine := analysis.NewEngine(cfg, logger, telemetry.NewMetrics())
	rep, err := engine.Run(ctx, ds)
	if err != nil {
		logger.Fatal("analysis failed", zap.Error(err))
	}

	out := os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			logger.Fatal("creating report file", zap.Error(err))
		}
		defer f.Close()
		out = f
	}
	if err := report.WriteMarkdown(out, rep, time.Now()); err != nil {
		logger.Fatal("writing report", zap.Error(err))
	}
}

type loadFunc func(r io.Reader, ds *record.Dataset, logger *zap.Logger) (loader.Stats, error)

func loadAll(ds *record.Dataset, paths string, load loadFunc, logger *zap.Logger) error {
	for _, path := range splitPaths(paths) {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		_, err = load(f, ds, logger)
		f.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func splitPaths(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var paths []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
