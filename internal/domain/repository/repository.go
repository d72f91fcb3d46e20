package repository

//go:generate mockgen -source=repository.go -destination=mocks/repository.go -package=mocks

import (
	"context"
	"errors"
	"time"

	"github.com/Xausdorf/pix-pay-hub/internal/domain/entity"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

type ChargeRepository interface {
	Create(ctx context.Context, charge *entity.Charge) error
	FindByID(ctx context.Context, id string) (*entity.Charge, error)
	FindByIDForUpdate(ctx context.Context, id string) (*entity.Charge, error)
	ListRecent(ctx context.Context, limit int) ([]*entity.Charge, error)
	UpdateStatus(ctx context.Context, id string, status entity.ChargeStatus) error
}

type IdempotencyRepository interface {
	Find(ctx context.Context, key string) (*entity.IdempotencyRecord, error)
	Save(ctx context.Context, record *entity.IdempotencyRecord) error
	Lock(ctx context.Context, key string) error
}

// StatusCache holds charge statuses in front of the repository. A miss is
// reported as ("", false, nil).
type StatusCache interface {
	Get(ctx context.Context, id string) (entity.ChargeStatus, bool, error)
	Set(ctx context.Context, id string, status entity.ChargeStatus, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}
