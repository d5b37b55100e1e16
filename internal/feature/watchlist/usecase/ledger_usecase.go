package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"portfolio_backend/internal/feature/watchlist/domain/entity"
)

const (
	maxQuantity      = 10_000_000 // 数量の絶対値の上限
	maxCommentLength = 140
	minTickerLength  = 2
	maxTickerLength  = 20
)

// maxPrice は1取引あたりの価格の上限です。
var maxPrice = decimal.NewFromInt(100_000)

// LedgerRepository はウォッチリストと取引台帳の永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type LedgerRepository interface {
	// CreateWatchlist は新しいウォッチリストを作成します。
	// 同名のウォッチリストが既に存在する場合、ErrDuplicateNameを返します。
	CreateWatchlist(ctx context.Context, userID uint, name string) (*entity.Watchlist, error)

	// DeleteWatchlist はウォッチリストとその全取引エントリを同一トランザクションで削除します。
	DeleteWatchlist(ctx context.Context, userID uint, name string) error

	// ListWatchlists はユーザーのウォッチリスト名を作成順に返します。
	ListWatchlists(ctx context.Context, userID uint) ([]string, error)

	// FindWatchlist は名前でウォッチリストを取得します。
	// 存在しない場合、ErrWatchlistNotFoundを返します。
	FindWatchlist(ctx context.Context, userID uint, name string) (*entity.Watchlist, error)

	// AddEntry は新しい現在行を挿入します。同一ペアの旧現在行があれば同一
	// トランザクション内でフラグを反転します。戻り値は、このペアの取引が
	// ウォッチリスト内で初めてだったかどうかを示します。
	AddEntry(ctx context.Context, watchlistID uint, e *entity.LedgerEntry) (bool, error)

	// FindCurrentEntry は (watchlist, ticker) の現在行を取得します。
	// 存在しない場合、ErrEntryNotFoundを返します。
	FindCurrentEntry(ctx context.Context, watchlistID uint, ticker string) (*entity.LedgerEntry, error)

	// ReplaceCurrentEntry は行currentIDのフラグ反転と新行の挿入を1つの
	// アトミックな単位として適用します。currentIDが既に現在行でない場合、
	// ErrConcurrentModificationを返します。
	ReplaceCurrentEntry(ctx context.Context, currentID uint, e *entity.LedgerEntry) error

	// ListCurrentEntries はウォッチリストの現在ポジションビューを返します（銘柄ごとに1行）。
	ListCurrentEntries(ctx context.Context, watchlistID uint) ([]entity.LedgerEntry, error)

	// ListEntriesByTicker は上書きされた版を含む全履歴を挿入順に返します。
	ListEntriesByTicker(ctx context.Context, watchlistID uint, ticker string) ([]entity.LedgerEntry, error)

	// DeleteEntriesByTicker は (watchlist, ticker) の全行を削除し、件数を返します。
	DeleteEntriesByTicker(ctx context.Context, watchlistID uint, ticker string) (int64, error)
}

// FetchScheduler は価格同期ジョブの投入先を抽象化します。
// Scheduleは非ブロッキングで、受理された場合にtrueを返します。
// 同一銘柄のジョブが既に保留中の場合は何もせずfalseを返します（重複排除）。
type FetchScheduler interface {
	Schedule(ticker string) bool
}

// TradeInput は取引の追加・更新操作の入力フィールドです。
type TradeInput struct {
	Ticker    string
	Quantity  int64
	Price     decimal.Decimal
	Side      entity.Side
	TradeDate time.Time // ゼロ値の場合は現在時刻
	Comment   string
}

// validate は取引入力のフィールド境界を検証します。
func (in TradeInput) validate() error {
	if l := len(in.Ticker); l < minTickerLength || l > maxTickerLength {
		return fmt.Errorf("ticker must be between %d and %d characters", minTickerLength, maxTickerLength)
	}
	if in.Quantity < -maxQuantity || in.Quantity > maxQuantity {
		return fmt.Errorf("quantity must be within ±%d", maxQuantity)
	}
	if in.Price.IsNegative() || in.Price.GreaterThan(maxPrice) {
		return fmt.Errorf("price must be between 0 and %s", maxPrice)
	}
	if in.Side != entity.SideBuy && in.Side != entity.SideSell {
		return fmt.Errorf("side must be %s or %s", entity.SideBuy, entity.SideSell)
	}
	if len(in.Comment) > maxCommentLength {
		return fmt.Errorf("comment must be at most %d characters", maxCommentLength)
	}
	return nil
}

// toEntry は入力を新しい現在行に変換します。
func (in TradeInput) toEntry(watchlistID uint) *entity.LedgerEntry {
	tradeDate := in.TradeDate
	if tradeDate.IsZero() {
		tradeDate = time.Now()
	}
	return &entity.LedgerEntry{
		WatchlistID: watchlistID,
		Ticker:      in.Ticker,
		Quantity:    in.Quantity,
		Price:       in.Price,
		Side:        in.Side,
		TradeDate:   tradeDate,
		Comment:     in.Comment,
		IsCurrent:   true,
	}
}

// LedgerUsecase は台帳ストアの変更とディスパッチャーのトリガーを
// 1つの論理操作として編成します。台帳の変更は呼び出し元に対して同期的・
// トランザクショナルに実行され、価格同期ジョブの投入のみ非同期です。
type LedgerUsecase struct {
	repo      LedgerRepository
	scheduler FetchScheduler
}

// NewLedgerUsecase はLedgerUsecaseの新しいインスタンスを生成します。
func NewLedgerUsecase(repo LedgerRepository, scheduler FetchScheduler) *LedgerUsecase {
	return &LedgerUsecase{repo: repo, scheduler: scheduler}
}

// CreateWatchlist はユーザーの新しいウォッチリストを作成します。
func (u *LedgerUsecase) CreateWatchlist(ctx context.Context, userID uint, name string) (*entity.Watchlist, error) {
	if name == "" || len(name) > 25 {
		return nil, fmt.Errorf("watchlist name must be between 1 and 25 characters")
	}
	return u.repo.CreateWatchlist(ctx, userID, name)
}

// DeleteWatchlist はウォッチリストとその全取引エントリを削除します。
func (u *LedgerUsecase) DeleteWatchlist(ctx context.Context, userID uint, name string) error {
	return u.repo.DeleteWatchlist(ctx, userID, name)
}

// ListWatchlists はユーザーのウォッチリスト名を作成順に返します。
// 先頭の名前がクライアントのデフォルト選択になります。
func (u *LedgerUsecase) ListWatchlists(ctx context.Context, userID uint) ([]string, error) {
	return u.repo.ListWatchlists(ctx, userID)
}

// AddTrade は新しい取引を記録します。この銘柄がウォッチリストにとって
// 初めての場合のみ、価格同期ジョブを1回だけ投入します。ジョブの投入は
// fire-and-forgetであり、その成否は台帳の変更結果に影響しません。
func (u *LedgerUsecase) AddTrade(ctx context.Context, userID uint, watchName string, in TradeInput) (*entity.LedgerEntry, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	wl, err := u.repo.FindWatchlist(ctx, userID, watchName)
	if err != nil {
		return nil, err
	}
	entry := in.toEntry(wl.ID)
	isNewTicker, err := u.repo.AddEntry(ctx, wl.ID, entry)
	if err != nil {
		return nil, err
	}
	if isNewTicker {
		if u.scheduler.Schedule(entry.Ticker) {
			slog.Info("price sync scheduled", "ticker", entry.Ticker, "watchlist", watchName)
		} else {
			slog.Debug("price sync already pending", "ticker", entry.Ticker)
		}
	}
	return entry, nil
}

// UpdateTrade は (watchlist, ticker) の現在行を新しい版で置き換えます。
// 旧行のフラグ反転と新行の挿入は1つのアトミックな単位として適用されます。
// 銘柄は既に追跡中なので、新しい同期ジョブは投入しません。
func (u *LedgerUsecase) UpdateTrade(ctx context.Context, userID uint, watchName, ticker string, in TradeInput) (*entity.LedgerEntry, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	wl, err := u.repo.FindWatchlist(ctx, userID, watchName)
	if err != nil {
		return nil, err
	}
	cur, err := u.repo.FindCurrentEntry(ctx, wl.ID, ticker)
	if err != nil {
		return nil, err
	}
	entry := in.toEntry(wl.ID)
	if err := u.repo.ReplaceCurrentEntry(ctx, cur.ID, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// DeleteTrade は (watchlist, ticker) の全履歴行を削除し、件数を返します。
// 実行中の価格同期ジョブはキャンセルせず、完了を許容します（孤児化した
// 価格データは無害）。
func (u *LedgerUsecase) DeleteTrade(ctx context.Context, userID uint, watchName, ticker string) (int64, error) {
	wl, err := u.repo.FindWatchlist(ctx, userID, watchName)
	if err != nil {
		return 0, err
	}
	count, err := u.repo.DeleteEntriesByTicker(ctx, wl.ID, ticker)
	if err != nil {
		return 0, err
	}
	slog.Info("trade history deleted", "ticker", ticker, "watchlist", watchName, "count", count)
	return count, nil
}

// CurrentPositions はウォッチリストの現在ポジションビューを返します。
func (u *LedgerUsecase) CurrentPositions(ctx context.Context, userID uint, watchName string) ([]entity.LedgerEntry, error) {
	wl, err := u.repo.FindWatchlist(ctx, userID, watchName)
	if err != nil {
		return nil, err
	}
	return u.repo.ListCurrentEntries(ctx, wl.ID)
}

// TradeHistory は銘柄の全取引履歴（上書きされた版を含む）を挿入順に返します。
func (u *LedgerUsecase) TradeHistory(ctx context.Context, userID uint, watchName, ticker string) ([]entity.LedgerEntry, error) {
	wl, err := u.repo.FindWatchlist(ctx, userID, watchName)
	if err != nil {
		return nil, err
	}
	return u.repo.ListEntriesByTicker(ctx, wl.ID, ticker)
}
