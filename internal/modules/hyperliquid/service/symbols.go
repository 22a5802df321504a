package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"hype_signal/internal/models"
	"hype_signal/pkg/logger"
)

const spotAssetOffset = 10000

type assetInfo struct {
	assetID    int
	szDecimals int
	spotPairID string
}

// SymbolConverter справочник рынков: перпы по имени, спот по "BASE/QUOTE".
type SymbolConverter struct {
	info *InfoClient

	mu          sync.RWMutex
	assets      map[string]assetInfo
	lastRefresh time.Time
	minInterval time.Duration
	now         func() time.Time
}

// NewSymbolConverter сразу загружает справочник.
func NewSymbolConverter(ctx context.Context, info *InfoClient) (*SymbolConverter, error) {
	c := &SymbolConverter{
		info:        info,
		minInterval: time.Minute,
		now:         time.Now,
	}
	if err := c.Refresh(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *SymbolConverter) Refresh(ctx context.Context) error {
	meta, err := c.info.meta(ctx)
	if err != nil {
		return err
	}
	spot, err := c.info.spotMeta(ctx)
	if err != nil {
		return err
	}

	assets := make(map[string]assetInfo, len(meta.Universe)+len(spot.Universe))
	for i, u := range meta.Universe {
		assets[strings.ToUpper(u.Name)] = assetInfo{assetID: i, szDecimals: u.SzDecimals}
	}

	tokens := make(map[int]int, len(spot.Tokens))
	for i, t := range spot.Tokens {
		tokens[t.Index] = i
	}
	for _, pair := range spot.Universe {
		if len(pair.Tokens) < 2 {
			continue
		}
		bi, okB := tokens[pair.Tokens[0]]
		qi, okQ := tokens[pair.Tokens[1]]
		if !okB || !okQ {
			continue
		}
		base, quote := spot.Tokens[bi], spot.Tokens[qi]
		assets[strings.ToUpper(base.Name+"/"+quote.Name)] = assetInfo{
			assetID:    spotAssetOffset + pair.Index,
			szDecimals: base.SzDecimals,
			spotPairID: pair.Name,
		}
	}

	c.mu.Lock()
	c.assets = assets
	c.lastRefresh = c.now()
	c.mu.Unlock()

	logger.Info("[MARKETS] loaded %d perp and %d spot markets", len(meta.Universe), len(spot.Universe))
	return nil
}

func (c *SymbolConverter) lookup(symbol string) (assetInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.assets[strings.ToUpper(symbol)]
	return a, ok
}

// Resolve метаданные рынка. При промахе справочник перечитывается не чаще раза в minInterval.
// ok=false значит символ на бирже не торгуется.
func (c *SymbolConverter) Resolve(ctx context.Context, symbol string) (models.MarketMetadata, bool, error) {
	a, ok := c.lookup(symbol)
	if !ok {
		c.mu.RLock()
		stale := c.now().Sub(c.lastRefresh) >= c.minInterval
		c.mu.RUnlock()
		if stale {
			if err := c.Refresh(ctx); err != nil {
				return models.MarketMetadata{}, false, fmt.Errorf("refresh markets: %w", err)
			}
			a, ok = c.lookup(symbol)
		}
	}
	if !ok {
		return models.MarketMetadata{}, false, nil
	}

	isSpot := strings.ContainsAny(symbol, "/:")
	infoSymbol := symbol
	if isSpot && a.spotPairID != "" {
		infoSymbol = a.spotPairID
	}
	return models.MarketMetadata{
		Symbol:       symbol,
		AssetID:      a.assetID,
		SizeDecimals: a.szDecimals,
		InfoSymbol:   infoSymbol,
		IsSpot:       isSpot,
	}, true, nil
}
