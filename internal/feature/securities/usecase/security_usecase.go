// Package usecase implements the business logic for security reference data.
package usecase

import (
	"context"

	"portfolio_backend/internal/feature/securities/domain/entity"
)

// SecurityRepository abstracts the persistence layer for security reference data.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SecurityRepository interface {
	ListAll(ctx context.Context) ([]entity.Security, error)
	ListTickers(ctx context.Context) ([]string, error)
}

// SecurityUsecase provides business logic for security reference data.
type SecurityUsecase struct {
	repo SecurityRepository
}

// NewSecurityUsecase creates a new SecurityUsecase with the given repository.
func NewSecurityUsecase(r SecurityRepository) *SecurityUsecase {
	return &SecurityUsecase{repo: r}
}

// ListSecurities returns all securities, used by clients to drive the
// add-trade form's ticker selection.
func (u *SecurityUsecase) ListSecurities(ctx context.Context) ([]entity.Security, error) {
	return u.repo.ListAll(ctx)
}

// ListTickers returns all known ticker symbols. Used by the backfill batch.
func (u *SecurityUsecase) ListTickers(ctx context.Context) ([]string, error) {
	return u.repo.ListTickers(ctx)
}
