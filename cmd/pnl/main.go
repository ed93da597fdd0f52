package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"breakout_bot/internal/config"
	"breakout_bot/internal/exchange"
	"breakout_bot/internal/pnl"
	"breakout_bot/internal/retry"
	"breakout_bot/internal/view"
	"breakout_bot/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to yaml config")
	limit := flag.Int("limit", 500, "how many recent trades to fetch (exchange max 1000)")
	tail := flag.Int("tail", 60, "how many trades to print")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}
	cfg.Log.Level = "warn"
	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	ex := exchange.NewRetrying(
		exchange.NewBinance(cfg.Binance, cfg.Trading.TickSize, cfg.Position.LotStep),
		retry.NewCaller(log),
		cfg.Retry,
	)

	fmt.Printf("Fetching trade history for %s...\n", cfg.Trading.Symbol)
	trades, err := ex.MyTrades(ctx, cfg.Trading.Symbol, *limit)
	if err != nil {
		logger.Fatal("trade history: %v", err)
	}

	fmt.Print(view.PnL(cfg.Trading.Symbol, cfg.Position.BaseAsset, pnl.Calculate(trades), *tail))
}
