package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"hype_signal/internal/models"
)

type MemoryStore struct {
	mu        sync.RWMutex
	positions map[string]models.TradingPosition
	processed map[string]struct{}
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		positions: make(map[string]models.TradingPosition),
		processed: make(map[string]struct{}),
	}
}

func (s *MemoryStore) GetHoldingPositions(_ context.Context) ([]models.TradingPosition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.TradingPosition, 0, len(s.positions))
	for _, p := range s.positions {
		if p.Status == models.PositionHolding {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PurchaseTime.Before(out[j].PurchaseTime) })
	return out, nil
}

func (s *MemoryStore) HasHoldingPosition(_ context.Context, symbol string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.holdingLocked(strings.ToUpper(symbol)), nil
}

func (s *MemoryStore) holdingLocked(token string) bool {
	for _, p := range s.positions {
		if p.Status == models.PositionHolding && p.Token == token {
			return true
		}
	}
	return false
}

func (s *MemoryStore) SavePosition(_ context.Context, p models.TradingPosition) error {
	p.Token = strings.ToUpper(p.Token)

	s.mu.Lock()
	defer s.mu.Unlock()

	if p.Status == models.PositionHolding && s.holdingLocked(p.Token) {
		return ErrDuplicateHolding
	}
	s.positions[p.ID] = p
	return nil
}

func (s *MemoryStore) MarkPostProcessed(_ context.Context, postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processed[postID] = struct{}{}
	return nil
}

func (s *MemoryStore) IsPostProcessed(_ context.Context, postID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.processed[postID]
	return ok, nil
}
