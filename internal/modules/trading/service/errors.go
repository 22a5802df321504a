package service

import "errors"

var (
	ErrInvalidNotional = errors.New("max trade notional must be a positive finite number")
	ErrNoOrderBook     = errors.New("no ask liquidity")
	ErrBelowLotSize    = errors.New("order below exchange minimum")
	ErrOrderRejected   = errors.New("order rejected")
	ErrNotFilled       = errors.New("order not filled")
	ErrFillNotRecorded = errors.New("order filled but position not recorded")
)
