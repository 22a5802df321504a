package notify

import (
	"context"
	"fmt"
	"sync"

	"hype_signal/pkg/logger"
)

const defaultQueueSize = 64

// Async отправляет сообщения в фоне одним воркером. Send не блокирует:
// при полной очереди сообщение отбрасывается с предупреждением в лог.
type Async struct {
	next  Notifier
	queue chan string
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewAsync(next Notifier, size int) *Async {
	if size <= 0 {
		size = defaultQueueSize
	}
	a := &Async{
		next:  next,
		queue: make(chan string, size),
		done:  make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *Async) run() {
	defer close(a.done)
	for msg := range a.queue {
		a.next.Send(msg)
	}
}

func (a *Async) Send(msg string) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		logger.Warn("[NOTIFY] notifier closed, dropped: %s", msg)
		return
	}
	select {
	case a.queue <- msg:
	default:
		logger.Warn("[NOTIFY] queue full, dropped: %s", msg)
	}
}

func (a *Async) Sendf(format string, args ...any) { a.Send(fmt.Sprintf(format, args...)) }

// Close дожидается отправки уже поставленных сообщений или отмены ctx.
func (a *Async) Close(ctx context.Context) error {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	a.mu.Unlock()

	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
