package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"hype_signal/internal/models"
	trading "hype_signal/internal/modules/trading/service"
	"hype_signal/pkg/logger"

	"github.com/opentracing/opentracing-go"
	"go.uber.org/multierr"
)

type MentionExtractor interface {
	ExtractTokenMentions(ctx context.Context, text string) []string
}

type Decider interface {
	Decide(ctx context.Context, text string, seeds []string) models.TradeDecision
}

type Executor interface {
	Execute(ctx context.Context, req trading.TradeRequest) (trading.Result, error)
}

type PostStore interface {
	IsPostProcessed(ctx context.Context, postID string) (bool, error)
	MarkPostProcessed(ctx context.Context, postID string) error
}

type Notifier interface {
	Send(msg string)
	Sendf(format string, args ...any)
}

// Stats счетчики для health.
type Stats interface {
	PostReceived(at time.Time)
	PostHandled()
	TradeExecuted()
	PostFailed()
}

const healthEvery = 5 * time.Minute

type Config struct {
	Workers     int
	Influencers []string
	MaxAge      time.Duration
	Retry       RetryConfig
}

// Runner гоняет посты через пайплайн: фильтр -> решение -> исполнение.
type Runner struct {
	cfg      Config
	mentions MentionExtractor
	decider  Decider
	exec     Executor
	store    PostStore
	n        Notifier
	stats    Stats

	tracked map[string]struct{}

	mu      sync.Mutex
	pending map[string]bool // postID -> в работе

	now func() time.Time
}

func New(cfg Config, mentions MentionExtractor, decider Decider, exec Executor, store PostStore, n Notifier, stats Stats) *Runner {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	tracked := make(map[string]struct{}, len(cfg.Influencers))
	for _, h := range cfg.Influencers {
		tracked[normalizeHandle(h)] = struct{}{}
	}
	return &Runner{
		cfg:      cfg,
		mentions: mentions,
		decider:  decider,
		exec:     exec,
		store:    store,
		n:        n,
		stats:    stats,
		tracked:  tracked,
		pending:  make(map[string]bool),
		now:      time.Now,
	}
}

// Run блокируется, пока не закроется канал или не отменится ctx.
func (r *Runner) Run(ctx context.Context, posts <-chan models.RawPost) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger.Info("[RUNNER] ▶️ starting %d workers", r.cfg.Workers)
	go r.healthLoop(ctx, posts)

	var wg sync.WaitGroup
	for i := 0; i < r.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case post, ok := <-posts:
					if !ok {
						return
					}
					if err := r.Handle(ctx, post); err != nil {
						logger.Error("[RUNNER] post %s by @%s failed: %v", post.ID, post.AuthorHandle, err)
					}
				}
			}
		}()
	}
	wg.Wait()
	logger.Info("[RUNNER] ⏹ stopped")
}

func (r *Runner) healthLoop(ctx context.Context, posts <-chan models.RawPost) {
	ticker := time.NewTicker(healthEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			logger.Info("[RUNNER] 🩺 HEALTH | queue=%d | inflight=%d", len(posts), r.inFlight())
		}
	}
}

// Handle один пост. Ошибка означает, что пост не помечен и может быть повторен.
func (r *Runner) Handle(ctx context.Context, post models.RawPost) error {
	if !r.isTracked(post.AuthorHandle) {
		logger.Debug("[RUNNER] ignore post %s: @%s is not tracked", post.ID, post.AuthorHandle)
		return nil
	}
	if r.stats != nil {
		r.stats.PostReceived(r.now())
	}

	if r.cfg.MaxAge > 0 && !post.CreatedAt.IsZero() && r.now().Sub(post.CreatedAt) > r.cfg.MaxAge {
		logger.Info("[RUNNER] post %s is older than %s, marking processed", post.ID, r.cfg.MaxAge)
		return r.store.MarkPostProcessed(ctx, post.ID)
	}

	done, err := r.store.IsPostProcessed(ctx, post.ID)
	if err != nil {
		return fmt.Errorf("check processed %s: %w", post.ID, err)
	}
	if done {
		logger.Debug("[RUNNER] post %s already processed", post.ID)
		return nil
	}

	if !r.claim(post.ID) {
		logger.Debug("[RUNNER] post %s already in flight", post.ID)
		return nil
	}
	defer r.release(post.ID)

	span, ctx := opentracing.StartSpanFromContext(ctx, "runner.handle_post")
	defer span.Finish()
	span.SetTag("post_id", post.ID)
	span.SetTag("author", post.AuthorHandle)

	err = r.process(ctx, post)
	if r.stats != nil {
		if err != nil {
			r.stats.PostFailed()
		} else {
			r.stats.PostHandled()
		}
	}
	if err != nil {
		span.SetTag("error", true)
	}
	return err
}

func (r *Runner) process(ctx context.Context, post models.RawPost) error {
	seeds := r.mentions.ExtractTokenMentions(ctx, post.Text)
	decision := r.decider.Decide(ctx, post.Text, seeds)

	if !decision.ShouldTrade {
		logger.Info("[RUNNER] no trade for post %s by @%s: %s", post.ID, post.AuthorHandle, decision.Reason)
		return r.store.MarkPostProcessed(ctx, post.ID)
	}

	logger.Info("[RUNNER] 🚀 trade signal from @%s tokens=%v: %s", post.AuthorHandle, decision.Tokens, decision.Reason)

	var errs error
	for _, token := range decision.Tokens {
		req := trading.TradeRequest{
			Token:           token,
			Post:            post.Text,
			Influencer:      post.AuthorHandle,
			PostID:          post.ID,
			ProfileImageURL: post.ProfileImageURL,
		}
		res, err := r.executeWithRetry(ctx, req)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", token, err))
			continue
		}
		if res.Outcome != trading.OutcomeSkipped && r.stats != nil {
			r.stats.TradeExecuted()
		}
	}

	if errs != nil {
		if !errors.Is(errs, context.Canceled) {
			r.n.Sendf("❗️ Trade execution failed for post %s by @%s\n%v", post.ID, post.AuthorHandle, errs)
		}
		return errs
	}
	return nil
}

func (r *Runner) isTracked(handle string) bool {
	if len(r.tracked) == 0 {
		return true
	}
	_, ok := r.tracked[normalizeHandle(handle)]
	return ok
}

func normalizeHandle(h string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(h), "@"))
}

func (r *Runner) claim(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending[id] {
		return false
	}
	r.pending[id] = true
	return true
}

func (r *Runner) release(id string) {
	r.mu.Lock()
	delete(r.pending, id)
	r.mu.Unlock()
}

func (r *Runner) inFlight() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}
