// Package dto defines data transfer objects for the securities feature's HTTP transport layer.
package dto

// SecurityItem is one entry of the GET /securities response.
type SecurityItem struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
	Sector string `json:"sector"`
}
