package service

import (
	"context"
	"errors"

	"hype_signal/internal/models"
)

// ErrDuplicateHolding вторая holding-позиция по тому же токену.
var ErrDuplicateHolding = errors.New("holding position already exists for token")

// Store хранилище позиций и обработанных постов.
// Записи атомарны с точки зрения вызывающего.
type Store interface {
	GetHoldingPositions(ctx context.Context) ([]models.TradingPosition, error)
	HasHoldingPosition(ctx context.Context, symbol string) (bool, error)
	SavePosition(ctx context.Context, p models.TradingPosition) error
	MarkPostProcessed(ctx context.Context, postID string) error
	IsPostProcessed(ctx context.Context, postID string) (bool, error)
}
