package di

import (
	"os"
	"strconv"

	pricesusecase "portfolio_backend/internal/feature/prices/usecase"
	"portfolio_backend/internal/shared/dispatch"
)

// NewDispatcher creates the price-sync job dispatcher backed by the given
// sync usecase. Worker concurrency can be tuned via SYNC_WORKERS; the
// dispatcher falls back to its default when unset or invalid.
func NewDispatcher(sync *pricesusecase.SyncUsecase) *dispatch.Dispatcher {
	workers := 0
	if v := os.Getenv("SYNC_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			workers = n
		}
	}
	return dispatch.NewDispatcher(sync.SyncRecent, workers, 0)
}
