package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side は取引の売買区分です。
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// LedgerEntry は1つのウォッチリスト内の1銘柄に対する1件の取引イベントです。
// 取引履歴は追記専用で、更新は既存行を書き換えるのではなく旧行のIsCurrentを
// falseに反転し、新しい行を現在行として挿入することで行います。
// 不変条件: 同一の (watchlist_id, ticker) につき IsCurrent=true の行は高々1件。
type LedgerEntry struct {
	ID          uint            `gorm:"primaryKey"`
	WatchlistID uint            `gorm:"not null;index:entry_watch_ticker,priority:1"`
	Ticker      string          `gorm:"size:20;not null;index:entry_watch_ticker,priority:2"`
	Quantity    int64           `gorm:"not null"`
	Price       decimal.Decimal `gorm:"type:decimal(16,4);not null"`
	Side        Side            `gorm:"size:4;not null"`
	TradeDate   time.Time       `gorm:"not null"`
	Comment     string          `gorm:"size:140"`
	IsCurrent   bool            `gorm:"not null;default:true;index"`
	CreatedAt   time.Time
}
