package service

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"hype_signal/internal/models"
	"hype_signal/pkg/db"

	"github.com/jackc/pgx/v5"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type PgStore struct {
	tm db.TxManager
}

var _ Store = (*PgStore)(nil)

func NewPgStore(tm db.TxManager) *PgStore {
	return &PgStore{tm: tm}
}

// Migrate применяет встроенные миграции по порядку имен.
func (s *PgStore) Migrate(ctx context.Context) error {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		sql, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return err
		}
		if _, err := s.tm.Conn().Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("migration %s: %w", name, err)
		}
	}
	return nil
}

const selectHolding = `
SELECT id, token, amount, purchase_price, purchase_time, sell_time, sell_price, profit,
       tweet, influencer, COALESCE(profile_image_url, ''), status
FROM positions
WHERE status = 'holding'
ORDER BY purchase_time`

func (s *PgStore) GetHoldingPositions(ctx context.Context) ([]models.TradingPosition, error) {
	rows, err := s.tm.Conn().Query(ctx, selectHolding)
	if err != nil {
		return nil, fmt.Errorf("select holding positions: %w", err)
	}
	defer rows.Close()

	var out []models.TradingPosition
	for rows.Next() {
		var (
			p      models.TradingPosition
			status string
		)
		if err := rows.Scan(&p.ID, &p.Token, &p.Amount, &p.PurchasePrice, &p.PurchaseTime,
			&p.SellTime, &p.SellPrice, &p.Profit, &p.Tweet, &p.Influencer, &p.ProfileImageURL, &status); err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		p.Status = models.PositionStatus(status)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PgStore) HasHoldingPosition(ctx context.Context, symbol string) (bool, error) {
	return hasHolding(ctx, s.tm.Conn(), strings.ToUpper(symbol))
}

func hasHolding(ctx context.Context, tx db.Transaction, token string) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM positions WHERE token = $1 AND status = 'holding')`,
		token,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check holding %s: %w", token, err)
	}
	return exists, nil
}

const insertPosition = `
INSERT INTO positions (id, token, amount, purchase_price, purchase_time, sell_time, sell_price, profit,
                       tweet, influencer, profile_image_url, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, ''), $12)`

func (s *PgStore) SavePosition(ctx context.Context, p models.TradingPosition) error {
	p.Token = strings.ToUpper(p.Token)

	return s.tm.RunMaster(ctx, func(ctxTx context.Context, tx db.Transaction) error {
		if p.Status == models.PositionHolding {
			holding, err := hasHolding(ctxTx, tx, p.Token)
			if err != nil {
				return err
			}
			if holding {
				return ErrDuplicateHolding
			}
		}

		_, err := tx.Exec(ctxTx, insertPosition,
			p.ID, p.Token, p.Amount, p.PurchasePrice, p.PurchaseTime, p.SellTime, p.SellPrice, p.Profit,
			p.Tweet, p.Influencer, p.ProfileImageURL, string(p.Status),
		)
		if db.IsUniqueViolation(err) {
			// гонка двух транзакций, ловит частичный индекс
			return ErrDuplicateHolding
		}
		return err
	})
}

func (s *PgStore) MarkPostProcessed(ctx context.Context, postID string) error {
	_, err := s.tm.Conn().Exec(ctx,
		`INSERT INTO processed_posts (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, postID)
	if err != nil {
		return fmt.Errorf("mark post %s processed: %w", postID, err)
	}
	return nil
}

func (s *PgStore) IsPostProcessed(ctx context.Context, postID string) (bool, error) {
	var one int
	err := s.tm.Conn().QueryRow(ctx, `SELECT 1 FROM processed_posts WHERE id = $1`, postID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check post %s: %w", postID, err)
	}
	return true, nil
}
