package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"StratForge/internal/logging"
	"StratForge/internal/marketdata"
	"StratForge/internal/notifier"
	"StratForge/internal/recorder"
	"StratForge/internal/report"
	"StratForge/internal/runner"
	"StratForge/internal/strategy"
)

func main() {
	strategiesFile := flag.String("strategies", "configs/strategies.yaml", "Strategy definitions YAML file")
	source := flag.String("source", "synthetic", "Bar source (csv, synthetic)")
	csvPath := flag.String("csv", "", "CSV file with bars (required for -source csv)")
	bars := flag.Int("bars", 500, "Number of bars to load per run")
	seed := flag.Int64("seed", 1, "Seed for the synthetic source")
	outputFormat := flag.String("output", "text", "Output format (text, json)")
	sqlitePath := flag.String("sqlite", "", "Optional SQLite database to record results into")
	flag.Parse()

	_ = godotenv.Load()
	logging.Init("backtest")

	strategies, err := strategy.LoadFile(*strategiesFile)
	if err != nil {
		log.Fatal().Err(err).Msg("load strategies")
	}

	var src marketdata.Source
	switch *source {
	case "csv":
		if *csvPath == "" {
			log.Fatal().Msg("-csv is required with -source csv")
		}
		src = marketdata.NewCSVSource(*csvPath)
	case "synthetic":
		src = marketdata.NewSyntheticSource(100, *seed)
	default:
		log.Fatal().Str("source", *source).Msg("unknown source")
	}

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if *sqlitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(*sqlitePath)
		if err != nil {
			log.Fatal().Err(err).Msg("open sqlite recorder")
		}
		defer sr.Close()
		rec = sr
	}

	r := &runner.Runner{
		Source:   src,
		Recorder: rec,
		Notifier: notifier.Noop{},
		Log:      logging.Component("runner"),
		Bars:     *bars,
	}

	results := r.RunAll(context.Background(), strategies)
	if len(results) == 0 {
		log.Fatal().Msg("no runs completed")
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			log.Fatal().Err(err).Msg("encode results")
		}
	default:
		for _, res := range results {
			fmt.Println(report.Format(res))
		}
	}
}
