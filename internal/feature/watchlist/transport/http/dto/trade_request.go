// Package dto defines data transfer objects for the watchlist feature's HTTP transport layer.
package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateWatchlistReq represents the request body for POST /watchlists.
type CreateWatchlistReq struct {
	Name string `json:"name" binding:"required,min=1,max=25"`
}

// TradeReq represents the request body for adding or updating a trade.
// It uses Gin's binding tags for validation; field bounds mirror the
// usecase-level validation.
type TradeReq struct {
	Ticker    string          `json:"ticker" binding:"required,min=2,max=20"`
	Quantity  int64           `json:"quantity" binding:"required,min=-10000000,max=10000000"`
	Price     decimal.Decimal `json:"price" binding:"required"`
	Side      string          `json:"side" binding:"required,oneof=BUY SELL"`
	TradeDate time.Time       `json:"trade_date"` // optional, defaults to now
	Comment   string          `json:"comment" binding:"omitempty,max=140"`
}
