package models

import "time"

type PositionStatus string

const (
	PositionHolding PositionStatus = "holding"
	PositionSold    PositionStatus = "sold"
	PositionFailed  PositionStatus = "failed"
)

// TradingPosition создается один раз на успешное исполнение.
// Amount и PurchasePrice после создания не меняются.
type TradingPosition struct {
	ID              string         `json:"id"`
	Token           string         `json:"token"`
	Amount          float64        `json:"amount"`
	PurchasePrice   float64        `json:"purchasePrice"`
	PurchaseTime    time.Time      `json:"purchaseTime"`
	SellTime        *time.Time     `json:"sellTime,omitempty"`
	SellPrice       *float64       `json:"sellPrice,omitempty"`
	Profit          *float64       `json:"profit,omitempty"`
	Tweet           string         `json:"tweet"`
	Influencer      string         `json:"influencer"`
	ProfileImageURL string         `json:"profileImageUrl,omitempty"`
	Status          PositionStatus `json:"status"`
}

type PositionSource string

const (
	SourceLocal  PositionSource = "local"
	SourceSynced PositionSource = "synced"
)

type PositionSummary struct {
	ID              string         `json:"id"`
	Token           string         `json:"token"`
	Influencer      string         `json:"influencer,omitempty"`
	PurchaseTime    *time.Time     `json:"purchaseTime"`
	Amount          float64        `json:"amount"`
	HoursHeld       *float64       `json:"hoursHeld"`
	MarketPriceUSD  *float64       `json:"marketPriceUsd"`
	ProfileImageURL string         `json:"profileImageUrl,omitempty"`
	Source          PositionSource `json:"source"`
}

type PositionsSummary struct {
	TotalPositions int               `json:"totalPositions"`
	TotalValue     float64           `json:"totalValue"`
	Positions      []PositionSummary `json:"positions"`
}
