package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio_backend/internal/feature/watchlist/domain/entity"
	"portfolio_backend/internal/feature/watchlist/usecase"
)

// mockLedgerRepo はLedgerRepositoryのテスト用モックです。
type mockLedgerRepo struct {
	createWatchlistFunc       func(ctx context.Context, userID uint, name string) (*entity.Watchlist, error)
	deleteWatchlistFunc       func(ctx context.Context, userID uint, name string) error
	listWatchlistsFunc        func(ctx context.Context, userID uint) ([]string, error)
	findWatchlistFunc         func(ctx context.Context, userID uint, name string) (*entity.Watchlist, error)
	addEntryFunc              func(ctx context.Context, watchlistID uint, e *entity.LedgerEntry) (bool, error)
	findCurrentEntryFunc      func(ctx context.Context, watchlistID uint, ticker string) (*entity.LedgerEntry, error)
	replaceCurrentEntryFunc   func(ctx context.Context, currentID uint, e *entity.LedgerEntry) error
	listCurrentEntriesFunc    func(ctx context.Context, watchlistID uint) ([]entity.LedgerEntry, error)
	listEntriesByTickerFunc   func(ctx context.Context, watchlistID uint, ticker string) ([]entity.LedgerEntry, error)
	deleteEntriesByTickerFunc func(ctx context.Context, watchlistID uint, ticker string) (int64, error)
}

func (m *mockLedgerRepo) CreateWatchlist(ctx context.Context, userID uint, name string) (*entity.Watchlist, error) {
	return m.createWatchlistFunc(ctx, userID, name)
}
func (m *mockLedgerRepo) DeleteWatchlist(ctx context.Context, userID uint, name string) error {
	return m.deleteWatchlistFunc(ctx, userID, name)
}
func (m *mockLedgerRepo) ListWatchlists(ctx context.Context, userID uint) ([]string, error) {
	return m.listWatchlistsFunc(ctx, userID)
}
func (m *mockLedgerRepo) FindWatchlist(ctx context.Context, userID uint, name string) (*entity.Watchlist, error) {
	return m.findWatchlistFunc(ctx, userID, name)
}
func (m *mockLedgerRepo) AddEntry(ctx context.Context, watchlistID uint, e *entity.LedgerEntry) (bool, error) {
	return m.addEntryFunc(ctx, watchlistID, e)
}
func (m *mockLedgerRepo) FindCurrentEntry(ctx context.Context, watchlistID uint, ticker string) (*entity.LedgerEntry, error) {
	return m.findCurrentEntryFunc(ctx, watchlistID, ticker)
}
func (m *mockLedgerRepo) ReplaceCurrentEntry(ctx context.Context, currentID uint, e *entity.LedgerEntry) error {
	return m.replaceCurrentEntryFunc(ctx, currentID, e)
}
func (m *mockLedgerRepo) ListCurrentEntries(ctx context.Context, watchlistID uint) ([]entity.LedgerEntry, error) {
	return m.listCurrentEntriesFunc(ctx, watchlistID)
}
func (m *mockLedgerRepo) ListEntriesByTicker(ctx context.Context, watchlistID uint, ticker string) ([]entity.LedgerEntry, error) {
	return m.listEntriesByTickerFunc(ctx, watchlistID, ticker)
}
func (m *mockLedgerRepo) DeleteEntriesByTicker(ctx context.Context, watchlistID uint, ticker string) (int64, error) {
	return m.deleteEntriesByTickerFunc(ctx, watchlistID, ticker)
}

// mockScheduler はFetchSchedulerのテスト用モックで、投入された銘柄を記録します。
type mockScheduler struct {
	scheduled []string
	accept    bool
}

func (m *mockScheduler) Schedule(ticker string) bool {
	m.scheduled = append(m.scheduled, ticker)
	return m.accept
}

func validTrade() usecase.TradeInput {
	return usecase.TradeInput{
		Ticker:   "AAPL",
		Quantity: 10,
		Price:    decimal.NewFromInt(150),
		Side:     entity.SideBuy,
	}
}

func findTech(ctx context.Context, userID uint, name string) (*entity.Watchlist, error) {
	return &entity.Watchlist{ID: 7, UserID: userID, Name: name}, nil
}

func TestCreateWatchlist_NameValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		expectErr bool
	}{
		{name: "正常系: 1文字", input: "a", expectErr: false},
		{name: "正常系: 25文字", input: "aaaaaaaaaaaaaaaaaaaaaaaaa", expectErr: false},
		{name: "異常系: 空文字", input: "", expectErr: true},
		{name: "異常系: 26文字", input: "aaaaaaaaaaaaaaaaaaaaaaaaaa", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := &mockLedgerRepo{
				createWatchlistFunc: func(_ context.Context, userID uint, name string) (*entity.Watchlist, error) {
					return &entity.Watchlist{ID: 1, UserID: userID, Name: name}, nil
				},
			}
			uc := usecase.NewLedgerUsecase(repo, &mockScheduler{})

			_, err := uc.CreateWatchlist(context.Background(), 1, tt.input)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestAddTrade_SchedulesOnlyNewTicker は新規銘柄のときだけ同期ジョブが
// 1回投入されることを検証します。
func TestAddTrade_SchedulesOnlyNewTicker(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		isNewTicker   bool
		wantScheduled int
	}{
		{name: "新規銘柄は1回だけ投入", isNewTicker: true, wantScheduled: 1},
		{name: "既存銘柄は投入しない", isNewTicker: false, wantScheduled: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := &mockLedgerRepo{
				findWatchlistFunc: findTech,
				addEntryFunc: func(_ context.Context, watchlistID uint, e *entity.LedgerEntry) (bool, error) {
					assert.Equal(t, uint(7), watchlistID)
					assert.True(t, e.IsCurrent)
					return tt.isNewTicker, nil
				},
			}
			sched := &mockScheduler{accept: true}
			uc := usecase.NewLedgerUsecase(repo, sched)

			entry, err := uc.AddTrade(context.Background(), 1, "Tech", validTrade())
			require.NoError(t, err)
			assert.Equal(t, "AAPL", entry.Ticker)
			assert.Len(t, sched.scheduled, tt.wantScheduled)
		})
	}
}

// TestAddTrade_ScheduleRejectionIsNotAnError は投入の重複排除が
// 台帳の変更結果に影響しないことを検証します。
func TestAddTrade_ScheduleRejectionIsNotAnError(t *testing.T) {
	t.Parallel()

	repo := &mockLedgerRepo{
		findWatchlistFunc: findTech,
		addEntryFunc: func(_ context.Context, _ uint, _ *entity.LedgerEntry) (bool, error) {
			return true, nil
		},
	}
	sched := &mockScheduler{accept: false}
	uc := usecase.NewLedgerUsecase(repo, sched)

	_, err := uc.AddTrade(context.Background(), 1, "Tech", validTrade())
	assert.NoError(t, err)
	assert.Len(t, sched.scheduled, 1)
}

func TestAddTrade_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*usecase.TradeInput)
	}{
		{name: "銘柄が短すぎる", modify: func(in *usecase.TradeInput) { in.Ticker = "A" }},
		{name: "銘柄が長すぎる", modify: func(in *usecase.TradeInput) { in.Ticker = "ABCDEFGHIJKLMNOPQRSTU" }},
		{name: "数量が上限超過", modify: func(in *usecase.TradeInput) { in.Quantity = 10_000_001 }},
		{name: "数量が下限未満", modify: func(in *usecase.TradeInput) { in.Quantity = -10_000_001 }},
		{name: "価格が負", modify: func(in *usecase.TradeInput) { in.Price = decimal.NewFromInt(-1) }},
		{name: "価格が上限超過", modify: func(in *usecase.TradeInput) { in.Price = decimal.NewFromInt(100_001) }},
		{name: "不正なサイド", modify: func(in *usecase.TradeInput) { in.Side = "HOLD" }},
		{name: "コメントが長すぎる", modify: func(in *usecase.TradeInput) {
			for i := 0; i < 141; i++ {
				in.Comment += "x"
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sched := &mockScheduler{accept: true}
			uc := usecase.NewLedgerUsecase(&mockLedgerRepo{}, sched)

			in := validTrade()
			tt.modify(&in)

			_, err := uc.AddTrade(context.Background(), 1, "Tech", in)
			assert.Error(t, err)
			assert.Empty(t, sched.scheduled, "invalid input must not reach the scheduler")
		})
	}
}

// TestAddTrade_DefaultTradeDate はゼロ値の取引日が現在時刻で補完されることを検証します。
func TestAddTrade_DefaultTradeDate(t *testing.T) {
	t.Parallel()

	var captured time.Time
	repo := &mockLedgerRepo{
		findWatchlistFunc: findTech,
		addEntryFunc: func(_ context.Context, _ uint, e *entity.LedgerEntry) (bool, error) {
			captured = e.TradeDate
			return false, nil
		},
	}
	uc := usecase.NewLedgerUsecase(repo, &mockScheduler{})

	before := time.Now()
	_, err := uc.AddTrade(context.Background(), 1, "Tech", validTrade())
	require.NoError(t, err)

	assert.False(t, captured.IsZero())
	assert.False(t, captured.Before(before))
}

// TestUpdateTrade は更新が新しい同期ジョブを投入しないことを検証します。
func TestUpdateTrade(t *testing.T) {
	t.Parallel()

	repo := &mockLedgerRepo{
		findWatchlistFunc: findTech,
		findCurrentEntryFunc: func(_ context.Context, _ uint, ticker string) (*entity.LedgerEntry, error) {
			return &entity.LedgerEntry{ID: 42, Ticker: ticker, IsCurrent: true}, nil
		},
		replaceCurrentEntryFunc: func(_ context.Context, currentID uint, e *entity.LedgerEntry) error {
			assert.Equal(t, uint(42), currentID)
			assert.True(t, e.IsCurrent)
			return nil
		},
	}
	sched := &mockScheduler{accept: true}
	uc := usecase.NewLedgerUsecase(repo, sched)

	entry, err := uc.UpdateTrade(context.Background(), 1, "Tech", "AAPL", validTrade())
	require.NoError(t, err)
	assert.Equal(t, "AAPL", entry.Ticker)
	assert.Empty(t, sched.scheduled, "updates must never schedule a sync job")
}

func TestUpdateTrade_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		repo    *mockLedgerRepo
		wantErr error
	}{
		{
			name: "ウォッチリストが存在しない",
			repo: &mockLedgerRepo{
				findWatchlistFunc: func(_ context.Context, _ uint, _ string) (*entity.Watchlist, error) {
					return nil, usecase.ErrWatchlistNotFound
				},
			},
			wantErr: usecase.ErrWatchlistNotFound,
		},
		{
			name: "現在行が存在しない",
			repo: &mockLedgerRepo{
				findWatchlistFunc: findTech,
				findCurrentEntryFunc: func(_ context.Context, _ uint, _ string) (*entity.LedgerEntry, error) {
					return nil, usecase.ErrEntryNotFound
				},
			},
			wantErr: usecase.ErrEntryNotFound,
		},
		{
			name: "並行更新で競合",
			repo: &mockLedgerRepo{
				findWatchlistFunc: findTech,
				findCurrentEntryFunc: func(_ context.Context, _ uint, ticker string) (*entity.LedgerEntry, error) {
					return &entity.LedgerEntry{ID: 42, Ticker: ticker}, nil
				},
				replaceCurrentEntryFunc: func(_ context.Context, _ uint, _ *entity.LedgerEntry) error {
					return usecase.ErrConcurrentModification
				},
			},
			wantErr: usecase.ErrConcurrentModification,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc := usecase.NewLedgerUsecase(tt.repo, &mockScheduler{})
			_, err := uc.UpdateTrade(context.Background(), 1, "Tech", "AAPL", validTrade())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// TestDeleteTrade は削除件数の報告とディスパッチャー不干渉を検証します。
func TestDeleteTrade(t *testing.T) {
	t.Parallel()

	repo := &mockLedgerRepo{
		findWatchlistFunc: findTech,
		deleteEntriesByTickerFunc: func(_ context.Context, _ uint, _ string) (int64, error) {
			return 3, nil
		},
	}
	sched := &mockScheduler{accept: true}
	uc := usecase.NewLedgerUsecase(repo, sched)

	count, err := uc.DeleteTrade(context.Background(), 1, "Tech", "AAPL")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.Empty(t, sched.scheduled)
}

func TestDeleteTrade_RepositoryError(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("db down")
	repo := &mockLedgerRepo{
		findWatchlistFunc: findTech,
		deleteEntriesByTickerFunc: func(_ context.Context, _ uint, _ string) (int64, error) {
			return 0, wantErr
		},
	}
	uc := usecase.NewLedgerUsecase(repo, &mockScheduler{})

	_, err := uc.DeleteTrade(context.Background(), 1, "Tech", "AAPL")
	assert.ErrorIs(t, err, wantErr)
}

func TestCurrentPositions(t *testing.T) {
	t.Parallel()

	repo := &mockLedgerRepo{
		findWatchlistFunc: findTech,
		listCurrentEntriesFunc: func(_ context.Context, watchlistID uint) ([]entity.LedgerEntry, error) {
			assert.Equal(t, uint(7), watchlistID)
			return []entity.LedgerEntry{{Ticker: "AAPL"}, {Ticker: "MSFT"}}, nil
		},
	}
	uc := usecase.NewLedgerUsecase(repo, &mockScheduler{})

	entries, err := uc.CurrentPositions(context.Background(), 1, "Tech")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestTradeHistory_WatchlistNotFound(t *testing.T) {
	t.Parallel()

	repo := &mockLedgerRepo{
		findWatchlistFunc: func(_ context.Context, _ uint, _ string) (*entity.Watchlist, error) {
			return nil, usecase.ErrWatchlistNotFound
		},
	}
	uc := usecase.NewLedgerUsecase(repo, &mockScheduler{})

	_, err := uc.TradeHistory(context.Background(), 1, "Missing", "AAPL")
	assert.ErrorIs(t, err, usecase.ErrWatchlistNotFound)
}
