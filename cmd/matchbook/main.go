package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/quantora/matchbook/internal/candle"
	"github.com/quantora/matchbook/internal/config"
	"github.com/quantora/matchbook/internal/domain"
	"github.com/quantora/matchbook/internal/engine"
	"github.com/quantora/matchbook/internal/feed"
	"github.com/quantora/matchbook/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.App.LogLevel)
	if err != nil {
		os.Stderr.WriteString("failed to build logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eng := engine.New(
		engine.WithLogger(log),
		engine.WithCutoffHour(cfg.Engine.CutoffHour),
	)
	defer eng.Close()

	file, err := os.Open(cfg.Feed.Path)
	if err != nil {
		log.Error("failed to open feed", zap.String("path", cfg.Feed.Path), zap.Error(err))
		os.Exit(1)
	}
	defer file.Close()

	log.Info("replaying feed",
		zap.String("path", cfg.Feed.Path),
		zap.Duration("candle_interval", cfg.Feed.CandleInterval),
	)

	candles := candle.NewAggregator(cfg.Feed.CandleInterval)
	if err := replay(ctx, eng, feed.NewReader(file), candles, log); err != nil {
		log.Error("replay aborted", zap.Error(err))
		os.Exit(1)
	}

	report(eng, candles, cfg.Feed.DepthLevels, log)
}

// replay applies feed events to the engine until the feed ends or ctx is
// cancelled, folding resulting trades into the candle aggregation.
func replay(ctx context.Context, eng *engine.Engine, reader *feed.Reader, candles *candle.Aggregator, log *zap.Logger) error {
	for {
		select {
		case <-ctx.Done():
			log.Info("replay interrupted")
			return nil
		default:
		}

		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		var trades []domain.Trade
		switch event.Action {
		case feed.ActionAdd:
			trades, err = eng.Submit(event.Order())
		case feed.ActionCancel:
			eng.Cancel(event.OrderID)
		case feed.ActionModify:
			trades, err = eng.Modify(event.OrderID, event.Side, event.Price, event.Quantity)
		}
		if err != nil {
			// Rejected admissions are normal negative outcomes, not faults.
			log.Debug("order rejected",
				zap.Uint64("order_id", uint64(event.OrderID)),
				zap.String("reason", err.Error()),
			)
			continue
		}

		for _, t := range trades {
			// Record each fill at the resting side's price — the leg
			// opposite the incoming order.
			price := t.Ask.Price
			if event.Side == domain.SideSell {
				price = t.Bid.Price
			}
			candles.Add(candle.Tick{Time: t.ExecutedAt, Price: price, Volume: t.Bid.Quantity})
			log.Debug("trade",
				zap.String("trade_id", t.TradeID),
				zap.Uint64("bid_order", uint64(t.Bid.OrderID)),
				zap.Uint64("ask_order", uint64(t.Ask.OrderID)),
				zap.Int64("quantity", int64(t.Bid.Quantity)),
			)
		}
	}
}

// report logs the final depth snapshot and the aggregated candles.
func report(eng *engine.Engine, candles *candle.Aggregator, depthLevels int, log *zap.Logger) {
	depth := eng.Depth()
	bids := depth.Bids
	asks := depth.Asks
	if depthLevels > 0 {
		bids = bids[:min(depthLevels, len(bids))]
		asks = asks[:min(depthLevels, len(asks))]
	}

	log.Info("final book",
		zap.Int("resting_orders", eng.Size()),
		zap.Int("bid_levels", len(depth.Bids)),
		zap.Int("ask_levels", len(depth.Asks)),
	)
	for _, lvl := range bids {
		log.Info("bid level", zap.Int64("price", int64(lvl.Price)), zap.Int64("quantity", int64(lvl.Quantity)))
	}
	for _, lvl := range asks {
		log.Info("ask level", zap.Int64("price", int64(lvl.Price)), zap.Int64("quantity", int64(lvl.Quantity)))
	}

	for _, c := range candles.Candles() {
		log.Info("candle",
			zap.Time("start", c.Start),
			zap.Int64("open", int64(c.Open)),
			zap.Int64("high", int64(c.High)),
			zap.Int64("low", int64(c.Low)),
			zap.Int64("close", int64(c.Close)),
			zap.Int64("volume", int64(c.Volume)),
			zap.Int("trades", c.Trades),
		)
	}
}
