package runner

import (
	"context"
	"errors"
	"time"

	hl "hype_signal/internal/modules/hyperliquid/service"
	positions "hype_signal/internal/modules/positions/service"
	trading "hype_signal/internal/modules/trading/service"
	"hype_signal/pkg/logger"

	"github.com/cenkalti/backoff/v4"
)

type RetryConfig struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// isPermanent ошибки конфигурации, дубли и уже исполненные ордера не повторяются.
func isPermanent(err error) bool {
	return errors.Is(err, trading.ErrInvalidNotional) ||
		errors.Is(err, hl.ErrMissingPrivateKey) ||
		errors.Is(err, positions.ErrDuplicateHolding) ||
		errors.Is(err, trading.ErrFillNotRecorded) ||
		errors.Is(err, context.Canceled)
}

func (r *Runner) newBackOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.cfg.Retry.InitialInterval
	b.MaxInterval = r.cfg.Retry.MaxInterval
	b.MaxElapsedTime = 0

	attempts := r.cfg.Retry.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(attempts-1)), ctx)
}

func (r *Runner) executeWithRetry(ctx context.Context, req trading.TradeRequest) (trading.Result, error) {
	var res trading.Result
	attempt := 0
	op := func() error {
		attempt++
		out, err := r.exec.Execute(ctx, req)
		if err != nil {
			if isPermanent(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		res = out
		return nil
	}
	notify := func(err error, wait time.Duration) {
		logger.Warn("[RUNNER] execute %s (post %s) attempt %d failed, retry in %s: %v",
			req.Token, req.PostID, attempt, wait, err)
	}

	if err := backoff.RetryNotify(op, r.newBackOff(ctx), notify); err != nil {
		return trading.Result{}, err
	}
	return res, nil
}
