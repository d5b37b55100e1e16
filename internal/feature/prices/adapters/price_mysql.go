// Package adapters はpricesフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"portfolio_backend/internal/feature/prices/domain/entity"
	"portfolio_backend/internal/feature/prices/usecase"
)

type priceMySQL struct {
	db *gorm.DB
}

var _ usecase.PriceRepository = (*priceMySQL)(nil)

// NewPriceRepository は指定されたDB接続でpriceMySQLリポジトリの新しいインスタンスを生成します。
func NewPriceRepository(db *gorm.DB) *priceMySQL {
	return &priceMySQL{db: db}
}

// UpsertBatch は価格行を一括で挿入（または更新）します。
// 同期ジョブの再実行を冪等にするため、(ticker, date) の衝突時は終値を上書きします。
func (r *priceMySQL) UpsertBatch(ctx context.Context, prices []entity.Price) error {
	if len(prices) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ticker"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"close"}),
	}).Create(&prices).Error
}

// LatestByTicker は銘柄ごとの最新の価格行を返します。
// 価格がまだ同期されていない銘柄は結果に含まれません。
func (r *priceMySQL) LatestByTicker(ctx context.Context, tickers []string) (map[string]entity.Price, error) {
	out := make(map[string]entity.Price, len(tickers))
	for _, ticker := range tickers {
		var p entity.Price
		err := r.db.WithContext(ctx).
			Where("ticker = ?", ticker).
			Order("date DESC").
			First(&p).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		out[ticker] = p
	}
	return out, nil
}
