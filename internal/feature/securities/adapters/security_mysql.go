// Package adapters はsecuritiesフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"

	"gorm.io/gorm"

	"portfolio_backend/internal/feature/securities/domain/entity"
	"portfolio_backend/internal/feature/securities/usecase"
)

// securityMySQL はSecurityRepositoryインターフェースのMySQL実装です。
type securityMySQL struct {
	db *gorm.DB
}

var _ usecase.SecurityRepository = (*securityMySQL)(nil)

// NewSecurityRepository は指定されたDB接続でsecurityMySQLリポジトリの新しいインスタンスを生成します。
func NewSecurityRepository(db *gorm.DB) *securityMySQL {
	return &securityMySQL{db: db}
}

// ListAll はすべての銘柄をティッカー順に返します。
func (r *securityMySQL) ListAll(ctx context.Context) ([]entity.Security, error) {
	var securities []entity.Security
	if err := r.db.WithContext(ctx).
		Order("ticker ASC").
		Find(&securities).Error; err != nil {
		return nil, err
	}
	return securities, nil
}

// ListTickers はティッカーシンボルのみをティッカー順に返します。
func (r *securityMySQL) ListTickers(ctx context.Context) ([]string, error) {
	var tickers []string
	if err := r.db.WithContext(ctx).
		Model(&entity.Security{}).
		Order("ticker ASC").
		Pluck("ticker", &tickers).Error; err != nil {
		return nil, err
	}
	return tickers, nil
}
