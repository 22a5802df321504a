package models

type MarketMetadata struct {
	Symbol       string `json:"symbol"`
	AssetID      int    `json:"assetId"`
	SizeDecimals int    `json:"sizeDecimals"`
	InfoSymbol   string `json:"infoSymbol"`
	IsSpot       bool   `json:"isSpot"`
}

type TimeInForce string

const (
	TifGtc TimeInForce = "Gtc"
	TifIoc TimeInForce = "Ioc"
	TifAlo TimeInForce = "Alo"
)

// OrderRequest одна лимитная заявка. Цена и размер уже отформатированы под биржу.
type OrderRequest struct {
	AssetID    int
	IsBuy      bool
	LimitPrice string
	Size       string
	ReduceOnly bool
	Tif        TimeInForce
}

type OrderStatusKind int

const (
	OrderStatusUnknown OrderStatusKind = iota
	OrderStatusFilled
	OrderStatusResting
	OrderStatusError
)

func (k OrderStatusKind) String() string {
	switch k {
	case OrderStatusFilled:
		return "filled"
	case OrderStatusResting:
		return "resting"
	case OrderStatusError:
		return "error"
	default:
		return "unknown"
	}
}

type Fill struct {
	TotalSize string
	AvgPrice  string
	OrderID   int64
}

// OrderStatus статус заявки из ответа биржи. Заполнено только поле, соответствующее Kind.
type OrderStatus struct {
	Kind    OrderStatusKind
	Fill    Fill
	OrderID int64
	Error   string
}

// AccountPosition позиция из состояния аккаунта на бирже.
type AccountPosition struct {
	Coin string
	Size float64
}
