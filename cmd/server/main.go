package main

import (
	"context"
	"log"
	"os"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"portfolio_backend/internal/app/di"
	"portfolio_backend/internal/app/router"
	authadapters "portfolio_backend/internal/feature/auth/adapters"
	authhandler "portfolio_backend/internal/feature/auth/transport/handler"
	authusecase "portfolio_backend/internal/feature/auth/usecase"
	pricesadapters "portfolio_backend/internal/feature/prices/adapters"
	pricesusecase "portfolio_backend/internal/feature/prices/usecase"
	securitiesadapters "portfolio_backend/internal/feature/securities/adapters"
	securitieshandler "portfolio_backend/internal/feature/securities/transport/handler"
	securitiesusecase "portfolio_backend/internal/feature/securities/usecase"
	watchlistadapters "portfolio_backend/internal/feature/watchlist/adapters"
	watchlisthandler "portfolio_backend/internal/feature/watchlist/transport/handler"
	watchlistusecase "portfolio_backend/internal/feature/watchlist/usecase"
	"portfolio_backend/internal/platform/cache"
	infradb "portfolio_backend/internal/platform/db"
	jwtmw "portfolio_backend/internal/platform/jwt"
	infraredis "portfolio_backend/internal/platform/redis"
)

func main() {
	// db
	db := infradb.OpenDB()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Repository
	userRepo := authadapters.NewUserMySQL(db)
	securityRepo := securitiesadapters.NewSecurityRepository(db)
	ledgerRepo := watchlistadapters.NewLedgerRepository(db)
	priceRepo := pricesadapters.NewPriceRepository(db)

	// Redisキャッシュでラップ（日次終値は1日1回しか変わらない）
	ttl := cache.TimeUntilNextMidnightUTC()
	cachedPriceRepo := cache.NewCachingPriceRepository(rdb, ttl, priceRepo, "prices")

	// Usecase
	jwtGen := jwtmw.NewGenerator(os.Getenv(jwtmw.EnvKeyJWTSecret), 24*time.Hour)
	authUC := authusecase.NewAuthUsecase(userRepo, jwtGen)
	securityUC := securitiesusecase.NewSecurityUsecase(securityRepo)
	syncUC := pricesusecase.NewSyncUsecase(di.NewMarket(), cachedPriceRepo)

	// 価格同期ディスパッチャー（新規銘柄の追加時にワンショットで起動）
	dispatcher := di.NewDispatcher(syncUC)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dispatcher.Start(ctx)
	defer dispatcher.Stop()

	ledgerUC := watchlistusecase.NewLedgerUsecase(ledgerRepo, dispatcher)

	// Handler
	authH := authhandler.NewAuthHandler(authUC)
	watchlistH := watchlisthandler.NewWatchlistHandler(ledgerUC, syncUC)
	securityH := securitieshandler.NewSecurityHandler(securityUC)

	// ルータ生成
	router := router.NewRouter(authH, watchlistH, securityH)

	// JWT_SECRETチェック（開発中の注意喚起）
	if os.Getenv(jwtmw.EnvKeyJWTSecret) == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}

	if err := router.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
