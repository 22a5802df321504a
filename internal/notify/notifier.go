package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"hype_signal/internal/models"
	"hype_signal/pkg/logger"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Notifier interface {
	Send(msg string)
	Sendf(format string, args ...any)
}

type PositionsReporter interface {
	Summary(ctx context.Context) (models.PositionsSummary, error)
}

// Telegram пассивный нотифайер, из команд понимает только /positions.
type Telegram struct {
	bot      *tgbot.BotAPI
	chatID   int64
	reporter PositionsReporter
}

// httpTimeout больше таймаута long-polling (30s), иначе getUpdates рвется на каждом цикле.
const httpTimeout = 45 * time.Second

func NewTelegram(token string, chatID int64, reporter PositionsReporter) (*Telegram, error) {
	b, err := tgbot.NewBotAPIWithClient(token, tgbot.APIEndpoint, &http.Client{Timeout: httpTimeout})
	if err != nil {
		return nil, err
	}
	return &Telegram{
		bot:      b,
		chatID:   chatID,
		reporter: reporter,
	}, nil
}

func (t *Telegram) Send(msg string) {
	if t == nil || t.bot == nil || t.chatID == 0 {
		return
	}
	if _, err := t.bot.Send(tgbot.NewMessage(t.chatID, msg)); err != nil {
		logger.Warn("[NOTIFY] telegram send failed: %v", err)
	}
}

func (t *Telegram) Sendf(format string, args ...any) { t.Send(fmt.Sprintf(format, args...)) }

// handlePositions отвечает на /positions сводкой позиций.
func (t *Telegram) handlePositions(ctx context.Context) {
	if t.reporter == nil {
		t.Send("❗️ Сверка позиций не настроена")
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	summary, err := t.reporter.Summary(ctx)
	if err != nil {
		t.Sendf("❗️ Ошибка получения позиций: %v", err)
		return
	}
	t.Send(FormatSummary(summary))
}

func FormatSummary(s models.PositionsSummary) string {
	if len(s.Positions) == 0 {
		return "📭 Открытых позиций нет"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Позиции: %d, объем %.6f\n", s.TotalPositions, s.TotalValue)
	for _, p := range s.Positions {
		fmt.Fprintf(&b, "- %s amount=%.6f", p.Token, p.Amount)
		if p.MarketPriceUSD != nil {
			fmt.Fprintf(&b, " px=$%.4f", *p.MarketPriceUSD)
		}
		if p.HoursHeld != nil {
			fmt.Fprintf(&b, " held=%.1fh", *p.HoursHeld)
		}
		if p.Source == models.SourceSynced {
			b.WriteString(" [synced]")
		} else if p.Influencer != "" {
			fmt.Fprintf(&b, " @%s", p.Influencer)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Start: long-polling для команд из своего чата.
func (t *Telegram) Start(ctx context.Context) error {
	if t == nil || t.bot == nil {
		return nil
	}

	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	u.AllowedUpdates = []string{"message"}

	updates := t.bot.GetUpdatesChan(u)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case upd, ok := <-updates:
				if !ok {
					return
				}
				if upd.Message != nil && upd.Message.Chat != nil &&
					upd.Message.Chat.ID == t.chatID && upd.Message.IsCommand() {

					switch upd.Message.Command() {
					case "positions":
						go t.handlePositions(ctx)
					}
				}
			}
		}
	}()
	return nil
}

func (t *Telegram) Stop() {
	if t == nil || t.bot == nil {
		return
	}
	t.bot.StopReceivingUpdates()
}

// Stdout заглушка, всё пишет в лог.
type Stdout struct{}

func NewStdout() *Stdout                           { return &Stdout{} }
func (s *Stdout) Send(msg string)                  { logger.Info("[NOTIFY] %s", msg) }
func (s *Stdout) Sendf(format string, args ...any) { s.Send(fmt.Sprintf(format, args...)) }
