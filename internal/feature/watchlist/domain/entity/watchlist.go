// Package entity defines the domain models for the watchlist feature.
package entity

import "time"

// Watchlist is a named collection of trade entries owned by exactly one user.
// The name is unique per owner; creation order is preserved via the
// auto-increment ID and drives the default selection in clients.
type Watchlist struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;uniqueIndex:watchlist_user_name,priority:1"`
	Name      string `gorm:"size:25;not null;uniqueIndex:watchlist_user_name,priority:2"`
	CreatedAt time.Time
}
