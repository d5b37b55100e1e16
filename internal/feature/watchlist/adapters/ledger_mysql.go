// Package adapters はwatchlistフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"portfolio_backend/internal/feature/watchlist/domain/entity"
	"portfolio_backend/internal/feature/watchlist/usecase"
)

// ledgerMySQL はLedgerRepositoryインターフェースのMySQL実装です。
// GORMを使用してデータベース操作を行います。
type ledgerMySQL struct {
	db *gorm.DB
}

// ledgerMySQLがLedgerRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.LedgerRepository = (*ledgerMySQL)(nil)

// NewLedgerRepository は指定されたgorm.DB接続でledgerMySQLの新しいインスタンスを生成します。
func NewLedgerRepository(db *gorm.DB) *ledgerMySQL {
	return &ledgerMySQL{db: db}
}

// isDuplicateKey はドライバ固有の一意制約違反エラーを判定します。
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// MySQLエラー1062: ユニークキーの重複エントリ
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

// CreateWatchlist は新しいウォッチリストを作成します。
// 同じユーザーが同名のウォッチリストを既に持つ場合、usecase.ErrDuplicateNameを返します。
func (r *ledgerMySQL) CreateWatchlist(ctx context.Context, userID uint, name string) (*entity.Watchlist, error) {
	wl := &entity.Watchlist{UserID: userID, Name: name}
	if err := r.db.WithContext(ctx).Create(wl).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, usecase.ErrDuplicateName
		}
		return nil, err
	}
	return wl, nil
}

// DeleteWatchlist はウォッチリストとその全取引エントリを1つのトランザクションで削除します。
// ウォッチリストが存在しない場合、usecase.ErrWatchlistNotFoundを返します。
func (r *ledgerMySQL) DeleteWatchlist(ctx context.Context, userID uint, name string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var wl entity.Watchlist
		if err := tx.Where("user_id = ? AND name = ?", userID, name).First(&wl).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return usecase.ErrWatchlistNotFound
			}
			return err
		}
		if err := tx.Where("watchlist_id = ?", wl.ID).Delete(&entity.LedgerEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&wl).Error
	})
}

// ListWatchlists はユーザーのウォッチリスト名を作成順（ID昇順）に返します。
func (r *ledgerMySQL) ListWatchlists(ctx context.Context, userID uint) ([]string, error) {
	var names []string
	if err := r.db.WithContext(ctx).
		Model(&entity.Watchlist{}).
		Where("user_id = ?", userID).
		Order("id ASC").
		Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

// FindWatchlist は名前でウォッチリストを取得します。
func (r *ledgerMySQL) FindWatchlist(ctx context.Context, userID uint, name string) (*entity.Watchlist, error) {
	var wl entity.Watchlist
	if err := r.db.WithContext(ctx).Where("user_id = ? AND name = ?", userID, name).First(&wl).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrWatchlistNotFound
		}
		return nil, err
	}
	return &wl, nil
}

// AddEntry は新しい現在行を挿入します。同一ペアの旧現在行のフラグ反転と
// 新行の挿入は同一トランザクション内で行われるため、「現在行は高々1件」の
// 不変条件は外部から観測できるどの時点でも維持されます。
// 反転のUPDATEは一致する行が無くてもインデックス範囲をロックするため、
// 同じ新規銘柄への並行する初回挿入はここで直列化されます。このペアの行は
// 現在行が無ければ存在しないので、反転件数ゼロは初取引を意味します。
func (r *ledgerMySQL) AddEntry(ctx context.Context, watchlistID uint, e *entity.LedgerEntry) (bool, error) {
	var isNewTicker bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.LedgerEntry{}).
			Where("watchlist_id = ? AND ticker = ? AND is_current = ?", watchlistID, e.Ticker, true).
			Update("is_current", false)
		if res.Error != nil {
			return res.Error
		}
		isNewTicker = res.RowsAffected == 0
		e.WatchlistID = watchlistID
		e.IsCurrent = true
		return tx.Create(e).Error
	})
	if err != nil {
		return false, err
	}
	return isNewTicker, nil
}

// FindCurrentEntry は (watchlist, ticker) の現在行を取得します。
func (r *ledgerMySQL) FindCurrentEntry(ctx context.Context, watchlistID uint, ticker string) (*entity.LedgerEntry, error) {
	var e entity.LedgerEntry
	if err := r.db.WithContext(ctx).
		Where("watchlist_id = ? AND ticker = ? AND is_current = ?", watchlistID, ticker, true).
		First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrEntryNotFound
		}
		return nil, err
	}
	return &e, nil
}

// ReplaceCurrentEntry は行currentIDのフラグ反転と新行の挿入を1つの
// トランザクションで適用します。反転のUPDATEは is_current = true を条件に
// 含むため、同じ現在行を前任として観測した2つの書き込みが両方成功することは
// ありません。負けた側にはusecase.ErrConcurrentModificationを返します。
func (r *ledgerMySQL) ReplaceCurrentEntry(ctx context.Context, currentID uint, e *entity.LedgerEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.LedgerEntry{}).
			Where("id = ? AND is_current = ?", currentID, true).
			Update("is_current", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return usecase.ErrConcurrentModification
		}
		e.IsCurrent = true
		return tx.Create(e).Error
	})
}

// ListCurrentEntries はウォッチリストの現在行を銘柄順に返します。
func (r *ledgerMySQL) ListCurrentEntries(ctx context.Context, watchlistID uint) ([]entity.LedgerEntry, error) {
	var entries []entity.LedgerEntry
	if err := r.db.WithContext(ctx).
		Where("watchlist_id = ? AND is_current = ?", watchlistID, true).
		Order("ticker ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListEntriesByTicker は銘柄の全履歴行を挿入順（ID昇順）に返します。
func (r *ledgerMySQL) ListEntriesByTicker(ctx context.Context, watchlistID uint, ticker string) ([]entity.LedgerEntry, error) {
	var entries []entity.LedgerEntry
	if err := r.db.WithContext(ctx).
		Where("watchlist_id = ? AND ticker = ?", watchlistID, ticker).
		Order("id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteEntriesByTicker は (watchlist, ticker) の全行を削除し、削除件数を返します。
func (r *ledgerMySQL) DeleteEntriesByTicker(ctx context.Context, watchlistID uint, ticker string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("watchlist_id = ? AND ticker = ?", watchlistID, ticker).
		Delete(&entity.LedgerEntry{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
