package main

import (
	"context"
	"log"
	"time"

	"portfolio_backend/internal/app/di"
	pricesadapters "portfolio_backend/internal/feature/prices/adapters"
	pricesusecase "portfolio_backend/internal/feature/prices/usecase"
	securitiesadapters "portfolio_backend/internal/feature/securities/adapters"
	infradb "portfolio_backend/internal/platform/db"
	"portfolio_backend/internal/shared/ratelimiter"
)

func main() {
	db := infradb.OpenDB()
	marketRepo := di.NewMarket()
	priceRepo := pricesadapters.NewPriceRepository(db)
	securityRepo := securitiesadapters.NewSecurityRepository(db)

	syncUC := pricesusecase.NewSyncUsecase(marketRepo, priceRepo)
	// 無料プランのAPIレートリミットに合わせる
	rl := ratelimiter.NewRateLimiter(8, time.Minute)
	uc := pricesusecase.NewBackfillUsecase(syncUC, rl)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	tickers, err := securityRepo.ListTickers(ctx)
	if err != nil {
		log.Fatal("failed to load tickers:", err)
	}

	if err := uc.BackfillAll(ctx, tickers); err != nil {
		log.Fatal(err)
	}
	log.Println("backfill ok")
}
