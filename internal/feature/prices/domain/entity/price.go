// Package entity defines the domain models for the prices feature.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Price is one daily closing price for a ticker, written by the background
// price-sync jobs and read to decorate the watchlist view with latest quotes.
type Price struct {
	ID     uint            `gorm:"primaryKey"`
	Ticker string          `gorm:"size:20;not null;uniqueIndex:price_ticker_date,priority:1"`
	Date   time.Time       `gorm:"not null;uniqueIndex:price_ticker_date,priority:2"`
	Close  decimal.Decimal `gorm:"type:decimal(16,4);not null"`
}
