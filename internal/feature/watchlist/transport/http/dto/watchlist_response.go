package dto

import "time"

// WatchlistResponse is the representation of a watchlist returned to clients.
type WatchlistResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// EntryResponse is the representation of one ledger entry. LastClose carries
// the latest synchronized closing price for the ticker when available.
type EntryResponse struct {
	ID        uint      `json:"id"`
	Ticker    string    `json:"ticker"`
	Quantity  int64     `json:"quantity"`
	Price     string    `json:"price"`
	Side      string    `json:"side"`
	TradeDate time.Time `json:"trade_date"`
	Comment   string    `json:"comment,omitempty"`
	IsCurrent bool      `json:"is_current"`
	LastClose string    `json:"last_close,omitempty"`
}

// DeleteTradeResponse reports how many historical rows a delete removed.
type DeleteTradeResponse struct {
	Deleted int64 `json:"deleted"`
}
