// Package usecase implements the business logic for price synchronization.
package usecase

import (
	"context"
	"log/slog"

	"portfolio_backend/internal/feature/prices/domain/entity"
)

const (
	// syncOutputSize は1銘柄あたり取得する直近の日次終値の件数です。
	syncOutputSize = 100
)

// MarketRepository は外部市場データAPIから価格を取得するリポジトリのインターフェースです。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type MarketRepository interface {
	GetDailyCloses(ctx context.Context, ticker string, outputsize int) ([]entity.Price, error)
}

// PriceRepository は価格データの永続化層を抽象化します。
type PriceRepository interface {
	UpsertBatch(ctx context.Context, prices []entity.Price) error
	LatestByTicker(ctx context.Context, tickers []string) (map[string]entity.Price, error)
}

// SyncUsecase は1銘柄分の直近価格を外部APIから取得し、価格ストアに
// 永続化するユースケースです。SyncRecentがディスパッチャーのFetchFuncに
// なります。取得は冪等で、同じ銘柄を何度同期しても結果は変わりません。
type SyncUsecase struct {
	market MarketRepository
	prices PriceRepository
}

// NewSyncUsecase はSyncUsecaseの新しいインスタンスを生成します。
func NewSyncUsecase(market MarketRepository, prices PriceRepository) *SyncUsecase {
	return &SyncUsecase{market: market, prices: prices}
}

// SyncRecent は銘柄の直近の日次終値を取得してストアに保存します。
func (u *SyncUsecase) SyncRecent(ctx context.Context, ticker string) error {
	ps, err := u.market.GetDailyCloses(ctx, ticker, syncOutputSize)
	if err != nil {
		return err
	}
	for i := range ps {
		ps[i].Ticker = ticker
	}
	if err := u.prices.UpsertBatch(ctx, ps); err != nil {
		return err
	}
	slog.Info("price sync completed", "ticker", ticker, "rows", len(ps))
	return nil
}

// LatestPrices は銘柄ごとの最新の終値を返します。ウォッチリストの
// 現在ポジションビューに時価を添えるために使われます。
func (u *SyncUsecase) LatestPrices(ctx context.Context, tickers []string) (map[string]entity.Price, error) {
	if len(tickers) == 0 {
		return map[string]entity.Price{}, nil
	}
	return u.prices.LatestByTicker(ctx, tickers)
}
