// Package entity defines the domain models for the securities feature.
package entity

import "time"

// Security represents a tradable security in the reference data.
// It identifies a ticker along with its display name and sector, and is
// immutable once loaded; rows are seeded out-of-band.
type Security struct {
	ID        uint      `gorm:"primaryKey"`
	Ticker    string    `gorm:"size:20;not null;uniqueIndex"`
	Name      string    `gorm:"size:255;not null"`
	Sector    string    `gorm:"size:100;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
