package usecase

import (
	"context"
	"log/slog"

	"portfolio_backend/internal/shared/ratelimiter"
)

// BackfillUsecase は登録済みの全銘柄の価格履歴をまとめて取得する
// バッチユースケースです。APIのレートリミットを考慮して、リクエスト間に
// 適切な待機時間を設けます。
type BackfillUsecase struct {
	sync        *SyncUsecase
	rateLimiter ratelimiter.RateLimiterInterface
}

// NewBackfillUsecase はBackfillUsecaseの新しいインスタンスを生成します。
func NewBackfillUsecase(sync *SyncUsecase, rateLimiter ratelimiter.RateLimiterInterface) *BackfillUsecase {
	return &BackfillUsecase{sync: sync, rateLimiter: rateLimiter}
}

// BackfillAll は指定された全銘柄の直近価格を順に同期します。
// 1つの銘柄でエラーが発生しても処理を止めずにログに出力し、次の銘柄へ進みます。
func (u *BackfillUsecase) BackfillAll(ctx context.Context, tickers []string) error {
	for _, ticker := range tickers {
		u.rateLimiter.WaitIfNeeded()
		if err := u.sync.SyncRecent(ctx, ticker); err != nil {
			slog.Error("failed to backfill prices", "ticker", ticker, "error", err)
			continue
		}
	}
	return nil
}
