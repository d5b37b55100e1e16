// Package router configures the application's HTTP routes.
package router

import (
	"github.com/gin-gonic/gin"

	authhandler "portfolio_backend/internal/feature/auth/transport/handler"
	securitieshandler "portfolio_backend/internal/feature/securities/transport/handler"
	watchlisthandler "portfolio_backend/internal/feature/watchlist/transport/handler"
	"portfolio_backend/internal/platform/http/handler"
	jwtmw "portfolio_backend/internal/platform/jwt"
)

func NewRouter(authHandler *authhandler.AuthHandler, watchlist *watchlisthandler.WatchlistHandler,
	securities *securitieshandler.SecurityHandler) *gin.Engine {
	r := gin.Default()

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)
	// 新規ユーザー登録
	r.POST("/signup", authHandler.Signup)
	// ログイン（JWT 発行）
	r.POST("/login", authHandler.Login)

	// 認証必須のルート
	auth := r.Group("/")
	// リクエストヘッダーに JWT が必要になる
	auth.Use(jwtmw.AuthRequired())
	{
		auth.GET("/watchlists", watchlist.List)
		auth.POST("/watchlists", watchlist.Create)
		auth.DELETE("/watchlists/:name", watchlist.Delete)
		auth.GET("/watchlists/:name/positions", watchlist.Positions)
		auth.POST("/watchlists/:name/trades", watchlist.AddTrade)
		auth.GET("/watchlists/:name/trades/:ticker", watchlist.History)
		auth.PUT("/watchlists/:name/trades/:ticker", watchlist.UpdateTrade)
		auth.DELETE("/watchlists/:name/trades/:ticker", watchlist.DeleteTrade)
		auth.GET("/securities", securities.List)
	}

	return r
}
