// Команда hlmarket показывает, какую заявку бот отправил бы по символу: рынок, лучший ask,
// лимитная цена и размер. Только чтение, ключ не нужен.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"hype_signal/internal/modules/config"
	"hype_signal/internal/modules/hyperliquid"
	hl "hype_signal/internal/modules/hyperliquid/service"
	trading "hype_signal/internal/modules/trading/service"

	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}

	flags := pflag.NewFlagSet("hlmarket", pflag.ContinueOnError)
	token := flags.StringP("token", "t", "ETH", "token or market symbol")
	notional := flags.Float64P("notional", "n", cfg.Trading.MaxTradeUSD, "USD notional")
	bps := flags.Float64("slippage-bps", cfg.Hyperliquid.SlippageBps, "slippage allowance in basis points")
	timeout := flags.Duration("timeout", 15*time.Second, "overall timeout")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	overrides, err := trading.LoadRoutingFile(cfg.Hyperliquid.RoutingFile)
	if err != nil {
		return err
	}
	symbol := trading.NewSymbolRouter(overrides).Resolve(*token)

	info := hyperliquid.NewInfoClient(cfg)
	markets, err := hl.NewSymbolConverter(ctx, info)
	if err != nil {
		return fmt.Errorf("load markets: %w", err)
	}
	m, listed, err := markets.Resolve(ctx, symbol)
	if err != nil {
		return err
	}
	if !listed {
		return fmt.Errorf("%s (%s) is not listed on %s", *token, symbol, cfg.Hyperliquid.Environment)
	}

	ask, err := info.BestAsk(ctx, m.InfoSymbol)
	if err != nil {
		return fmt.Errorf("best ask %s: %w", m.InfoSymbol, err)
	}
	plan, err := trading.SizeOrder(ask, *bps, *notional, m)
	if err != nil {
		return err
	}

	kind := "perp"
	if m.IsSpot {
		kind = "spot"
	}
	fmt.Printf("market   %s (%s, asset %d, szDecimals %d, book %s)\n", m.Symbol, kind, m.AssetID, m.SizeDecimals, m.InfoSymbol)
	fmt.Printf("best ask %v\n", ask)
	fmt.Printf("limit    %s (+%v bps)\n", plan.LimitPrice, *bps)
	fmt.Printf("size     %s for ~$%v\n", plan.Size, *notional)
	return nil
}
