package chargestatus

import (
	"context"
	"time"

	"github.com/Xausdorf/pix-pay-hub/internal/domain/entity"
	"github.com/Xausdorf/pix-pay-hub/internal/domain/repository"
)

const recentLimit = 20

type UseCase struct {
	uow   repository.UnitOfWork
	cache repository.StatusCache
	ttl   time.Duration
}

// NewUseCase builds the status use case. cache may be nil.
func NewUseCase(uow repository.UnitOfWork, cache repository.StatusCache, ttl time.Duration) *UseCase {
	return &UseCase{uow: uow, cache: cache, ttl: ttl}
}

// Status returns the current status of a charge. Cache errors never fail a
// lookup; the repository stays the source of truth. Only paid charges are
// cached: a paid charge never changes again, while a pending one read here
// may be confirmed before the cache write lands.
func (uc *UseCase) Status(ctx context.Context, id string) (entity.ChargeStatus, error) {
	if uc.cache != nil {
		if status, ok, err := uc.cache.Get(ctx, id); err == nil && ok {
			return status, nil
		}
	}

	charge, err := uc.uow.Charges().FindByID(ctx, id)
	if err != nil {
		return "", err
	}

	if uc.cache != nil && charge.Status() == entity.StatusPaid {
		_ = uc.cache.Set(ctx, id, charge.Status(), uc.ttl)
	}
	return charge.Status(), nil
}

func (uc *UseCase) ListRecent(ctx context.Context) ([]*entity.Charge, error) {
	return uc.uow.Charges().ListRecent(ctx, recentLimit)
}

// Confirm marks a charge as paid. Confirming a paid charge is a no-op.
func (uc *UseCase) Confirm(ctx context.Context, id string) error {
	tx, err := uc.uow.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	charge, err := tx.Charges().FindByIDForUpdate(ctx, id)
	if err != nil {
		return err
	}

	if charge.MarkPaid() {
		if err := tx.Charges().UpdateStatus(ctx, id, charge.Status()); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	if uc.cache != nil {
		_ = uc.cache.Delete(ctx, id)
	}
	return nil
}
