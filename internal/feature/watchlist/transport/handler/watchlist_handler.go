// Package handler はwatchlistフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	pricesentity "portfolio_backend/internal/feature/prices/domain/entity"
	"portfolio_backend/internal/feature/watchlist/domain/entity"
	"portfolio_backend/internal/feature/watchlist/transport/http/dto"
	"portfolio_backend/internal/feature/watchlist/usecase"
	jwtmw "portfolio_backend/internal/platform/jwt"
)

// LedgerUsecase は取引台帳操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type LedgerUsecase interface {
	CreateWatchlist(ctx context.Context, userID uint, name string) (*entity.Watchlist, error)
	DeleteWatchlist(ctx context.Context, userID uint, name string) error
	ListWatchlists(ctx context.Context, userID uint) ([]string, error)
	AddTrade(ctx context.Context, userID uint, watchName string, in usecase.TradeInput) (*entity.LedgerEntry, error)
	UpdateTrade(ctx context.Context, userID uint, watchName, ticker string, in usecase.TradeInput) (*entity.LedgerEntry, error)
	DeleteTrade(ctx context.Context, userID uint, watchName, ticker string) (int64, error)
	CurrentPositions(ctx context.Context, userID uint, watchName string) ([]entity.LedgerEntry, error)
	TradeHistory(ctx context.Context, userID uint, watchName, ticker string) ([]entity.LedgerEntry, error)
}

// PriceReader は現在ポジションビューに時価を添えるための読み取りインターフェースです。
type PriceReader interface {
	LatestPrices(ctx context.Context, tickers []string) (map[string]pricesentity.Price, error)
}

// WatchlistHandler はウォッチリストと取引台帳のHTTPリクエストを処理します。
type WatchlistHandler struct {
	ledger LedgerUsecase
	prices PriceReader
}

// NewWatchlistHandler はWatchlistHandlerの新しいインスタンスを生成します。
func NewWatchlistHandler(ledger LedgerUsecase, prices PriceReader) *WatchlistHandler {
	return &WatchlistHandler{ledger: ledger, prices: prices}
}

// currentUserID はJWTミドルウェアが設定した認証済みユーザーIDを取得します。
func currentUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(jwtmw.ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// toTradeInput はリクエストDTOをユースケースの入力に変換します。
func toTradeInput(req dto.TradeReq) usecase.TradeInput {
	return usecase.TradeInput{
		Ticker:    req.Ticker,
		Quantity:  req.Quantity,
		Price:     req.Price,
		Side:      entity.Side(req.Side),
		TradeDate: req.TradeDate,
		Comment:   req.Comment,
	}
}

// toEntryResponse はエントリをレスポンスDTOに変換します。
func toEntryResponse(e entity.LedgerEntry) dto.EntryResponse {
	return dto.EntryResponse{
		ID:        e.ID,
		Ticker:    e.Ticker,
		Quantity:  e.Quantity,
		Price:     e.Price.String(),
		Side:      string(e.Side),
		TradeDate: e.TradeDate,
		Comment:   e.Comment,
		IsCurrent: e.IsCurrent,
	}
}

// List はユーザーのウォッチリスト名を作成順に返すAPIです。
// 先頭の名前をデフォルト選択として使用できます（存在しない場合は空配列）。
func (h *WatchlistHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	names, err := h.ledger.ListWatchlists(c.Request.Context(), userID)
	if err != nil {
		slog.Error("failed to list watchlists", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if names == nil {
		names = []string{}
	}
	c.JSON(http.StatusOK, names)
}

// Create はウォッチリスト作成APIです。
// - 名前の重複時は409を返却
// - 成功時は201を返却
func (h *WatchlistHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var req dto.CreateWatchlistReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	wl, err := h.ledger.CreateWatchlist(c.Request.Context(), userID, req.Name)
	if err != nil {
		if errors.Is(err, usecase.ErrDuplicateName) {
			c.JSON(http.StatusConflict, gin.H{"error": "watchlist name already exists"})
			return
		}
		slog.Error("failed to create watchlist", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, dto.WatchlistResponse{ID: wl.ID, Name: wl.Name})
}

// Delete はウォッチリスト削除APIです。配下の全取引エントリも削除されます。
func (h *WatchlistHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	name := c.Param("name")
	if err := h.ledger.DeleteWatchlist(c.Request.Context(), userID, name); err != nil {
		if errors.Is(err, usecase.ErrWatchlistNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "watchlist not found"})
			return
		}
		slog.Error("failed to delete watchlist", "error", err, "user_id", userID, "name", name)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

// Positions はウォッチリストの現在ポジションビュー（銘柄ごとに1行）を返すAPIです。
// 同期済みの最新終値があれば各行に添えます。価格の取得失敗はビューの
// 表示を妨げません。
func (h *WatchlistHandler) Positions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	name := c.Param("name")
	entries, err := h.ledger.CurrentPositions(c.Request.Context(), userID, name)
	if err != nil {
		if errors.Is(err, usecase.ErrWatchlistNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "watchlist not found"})
			return
		}
		slog.Error("failed to load positions", "error", err, "user_id", userID, "watchlist", name)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	tickers := make([]string, 0, len(entries))
	for _, e := range entries {
		tickers = append(tickers, e.Ticker)
	}
	latest := map[string]pricesentity.Price{}
	if h.prices != nil && len(tickers) > 0 {
		if m, err := h.prices.LatestPrices(c.Request.Context(), tickers); err != nil {
			slog.Warn("failed to load latest prices", "error", err, "watchlist", name)
		} else {
			latest = m
		}
	}

	out := make([]dto.EntryResponse, 0, len(entries))
	for _, e := range entries {
		resp := toEntryResponse(e)
		if p, ok := latest[e.Ticker]; ok {
			resp.LastClose = p.Close.String()
		}
		out = append(out, resp)
	}
	c.JSON(http.StatusOK, out)
}

// AddTrade は取引追加APIです。
// - ウォッチリスト未検出時は404を返却
// - 成功時は201と新しい現在行を返却
func (h *WatchlistHandler) AddTrade(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	name := c.Param("name")
	var req dto.TradeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entry, err := h.ledger.AddTrade(c.Request.Context(), userID, name, toTradeInput(req))
	if err != nil {
		if errors.Is(err, usecase.ErrWatchlistNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "watchlist not found"})
			return
		}
		slog.Warn("failed to add trade", "error", err, "user_id", userID, "watchlist", name)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, toEntryResponse(*entry))
}

// UpdateTrade は取引更新APIです。既存行は書き換えず、旧現在行のフラグを
// 反転して新しい行を現在行として挿入します（追記専用の版管理）。
// - 現在行が存在しない場合は404を返却
// - 並行更新で負けた場合は409を返却（リトライ可能）
func (h *WatchlistHandler) UpdateTrade(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	name := c.Param("name")
	ticker := c.Param("ticker")
	var req dto.TradeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entry, err := h.ledger.UpdateTrade(c.Request.Context(), userID, name, ticker, toTradeInput(req))
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrWatchlistNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "watchlist not found"})
		case errors.Is(err, usecase.ErrEntryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "ledger entry not found"})
		case errors.Is(err, usecase.ErrConcurrentModification):
			c.JSON(http.StatusConflict, gin.H{"error": "entry was modified concurrently, retry"})
		default:
			slog.Warn("failed to update trade", "error", err, "user_id", userID, "watchlist", name, "ticker", ticker)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, toEntryResponse(*entry))
}

// DeleteTrade は銘柄の全取引履歴を削除するAPIです。
// 削除は現在行だけでなくポジション履歴全体に作用します。
func (h *WatchlistHandler) DeleteTrade(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	name := c.Param("name")
	ticker := c.Param("ticker")
	count, err := h.ledger.DeleteTrade(c.Request.Context(), userID, name, ticker)
	if err != nil {
		if errors.Is(err, usecase.ErrWatchlistNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "watchlist not found"})
			return
		}
		slog.Error("failed to delete trade", "error", err, "user_id", userID, "watchlist", name, "ticker", ticker)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, dto.DeleteTradeResponse{Deleted: count})
}

// History は銘柄の全取引履歴（上書きされた版を含む）を挿入順に返すAPIです。
func (h *WatchlistHandler) History(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	name := c.Param("name")
	ticker := c.Param("ticker")
	entries, err := h.ledger.TradeHistory(c.Request.Context(), userID, name, ticker)
	if err != nil {
		if errors.Is(err, usecase.ErrWatchlistNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "watchlist not found"})
			return
		}
		slog.Error("failed to load trade history", "error", err, "user_id", userID, "watchlist", name, "ticker", ticker)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	out := make([]dto.EntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryResponse(e))
	}
	c.JSON(http.StatusOK, out)
}
