package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/trip-linker/internal/bootstrap"
	"github.com/trip-linker/internal/config"
	"github.com/trip-linker/internal/domain"
	"github.com/trip-linker/internal/pkg/logger"
	"go.uber.org/zap"
)

// link - разовое связывание поездки из JSON-файла (или stdin) без Redis
func main() {
	in := flag.String("in", "-", "trip JSON file, - for stdin")
	out := flag.String("out", "-", "output file, - for stdout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// stdout занят результатом
	log, err := logger.New(cfg.Log.Level, "stderr")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	if cfg.Amap.APIKey == "" {
		log.Fatal("AMAP_API_KEY is not set")
	}

	trip, err := readTrip(*in)
	if err != nil {
		log.Fatal("Failed to read trip", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	linked, report, err := bootstrap.NewTripLinker(cfg, nil, log).LinkTrip(ctx, trip)
	if err != nil {
		log.Fatal("Failed to link trip", zap.Error(err))
	}

	if err := writeTrip(*out, linked); err != nil {
		log.Fatal("Failed to write trip", zap.Error(err))
	}

	log.Info("Done",
		zap.Int("pairs_linked", report.PairsLinked),
		zap.Int("pairs_without_route", report.PairsWithoutRoute),
		zap.Int("segments", report.SegmentsEmitted))
}

func readTrip(path string) (*domain.Trip, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var trip domain.Trip
	if err := json.NewDecoder(r).Decode(&trip); err != nil {
		return nil, fmt.Errorf("decode trip: %w", err)
	}
	return &trip, nil
}

func writeTrip(path string, trip *domain.Trip) error {
	var w io.Writer = os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(trip)
}
