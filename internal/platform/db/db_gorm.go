// Package db provides the GORM database connection for the application.
package db

import (
	"fmt"
	"log"
	"os"
	"time"

	gmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	authentity "portfolio_backend/internal/feature/auth/domain/entity"
	pricesentity "portfolio_backend/internal/feature/prices/domain/entity"
	securitiesentity "portfolio_backend/internal/feature/securities/domain/entity"
	watchlistentity "portfolio_backend/internal/feature/watchlist/domain/entity"
)

// OpenDB は環境変数の設定でMySQLに接続し、gorm.DBを返します。
// 起動直後はDBコンテナの準備ができていないことがあるため、60秒まで再試行します。
func OpenDB() *gorm.DB {
	user := os.Getenv("DB_USER")
	pass := os.Getenv("DB_PASSWORD")
	name := os.Getenv("DB_NAME")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
		user, pass, host, port, name)

	var (
		db  *gorm.DB
		err error
	)

	deadline := time.Now().Add(60 * time.Second)
	for {
		db, err = gorm.Open(gmysql.Open(dsn), &gorm.Config{TranslateError: true})
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			log.Fatalf("DB connect failed after 60s: %v", err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(3 * time.Second)
	}

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		if err := db.AutoMigrate(
			&authentity.User{},
			&securitiesentity.Security{},
			&watchlistentity.Watchlist{},
			&watchlistentity.LedgerEntry{},
			&pricesentity.Price{},
		); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	return db
}
