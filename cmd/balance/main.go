package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"go.uber.org/zap"

	"breakout_bot/internal/config"
	"breakout_bot/internal/exchange"
	"breakout_bot/internal/models"
	"breakout_bot/internal/retry"
	"breakout_bot/internal/view"
	"breakout_bot/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to yaml config")
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

	balances, err := ex.Balances(ctx)
	if err != nil {
		logger.Fatal("balances: %v", err)
	}
	orders, err := ex.OpenOrders(ctx, cfg.Trading.Symbol)
	if err != nil {
		logger.Fatal("open orders: %v", err)
	}

	shown := []string{cfg.Position.BaseAsset, cfg.Position.QuoteAsset}
	pick := make([]zap.Field, 0, len(shown))
	rows := make([]models.Balance, 0, len(shown))
	for _, asset := range shown {
		b := exchange.FindBalance(balances, asset)
		rows = append(rows, b)
		pick = append(pick, zap.Float64(asset, b.Total()))
	}
	log.Debug("balances fetched", pick...)

	fmt.Print(view.Balances(cfg.Trading.Symbol, rows, orders))
}
