package chargestatus_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Xausdorf/pix-pay-hub/internal/domain/entity"
	"github.com/Xausdorf/pix-pay-hub/internal/domain/repository"
	"github.com/Xausdorf/pix-pay-hub/internal/domain/repository/mocks"
	"github.com/Xausdorf/pix-pay-hub/internal/infrastructure/memory"
	"github.com/Xausdorf/pix-pay-hub/internal/usecase/chargestatus"
)

const ttl = time.Minute

func charge(id string, status entity.ChargeStatus) *entity.Charge {
	return entity.ReconstructCharge(id, decimal.NullDecimal{}, "***", "payload", status, time.Now())
}

func TestChargeStatusUseCase_Status_CacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uow := mocks.NewMockUnitOfWork(ctrl)
	cache := mocks.NewMockStatusCache(ctrl)

	uc := chargestatus.NewUseCase(uow, cache, ttl)

	cache.EXPECT().Get(gomock.Any(), "abcd1234").Return(entity.StatusPaid, true, nil)

	status, err := uc.Status(context.Background(), "abcd1234")

	require.NoError(t, err)
	assert.Equal(t, entity.StatusPaid, status)
}

func TestChargeStatusUseCase_Status_CacheMissPopulatesPaid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uow := mocks.NewMockUnitOfWork(ctrl)
	chargeRepo := mocks.NewMockChargeRepository(ctrl)
	cache := mocks.NewMockStatusCache(ctrl)

	uc := chargestatus.NewUseCase(uow, cache, ttl)

	cache.EXPECT().Get(gomock.Any(), "abcd1234").Return(entity.ChargeStatus(""), false, nil)
	uow.EXPECT().Charges().Return(chargeRepo)
	chargeRepo.EXPECT().FindByID(gomock.Any(), "abcd1234").Return(charge("abcd1234", entity.StatusPaid), nil)
	cache.EXPECT().Set(gomock.Any(), "abcd1234", entity.StatusPaid, ttl).Return(nil)

	status, err := uc.Status(context.Background(), "abcd1234")

	require.NoError(t, err)
	assert.Equal(t, entity.StatusPaid, status)
}

func TestChargeStatusUseCase_Status_PendingIsNotCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uow := mocks.NewMockUnitOfWork(ctrl)
	chargeRepo := mocks.NewMockChargeRepository(ctrl)
	cache := mocks.NewMockStatusCache(ctrl)

	uc := chargestatus.NewUseCase(uow, cache, ttl)

	cache.EXPECT().Get(gomock.Any(), "abcd1234").Return(entity.ChargeStatus(""), false, nil)
	uow.EXPECT().Charges().Return(chargeRepo)
	chargeRepo.EXPECT().FindByID(gomock.Any(), "abcd1234").Return(charge("abcd1234", entity.StatusPending), nil)
	cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	status, err := uc.Status(context.Background(), "abcd1234")

	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, status)
}

type mapCache struct {
	mu       sync.Mutex
	statuses map[string]entity.ChargeStatus
}

func newMapCache() *mapCache {
	return &mapCache{statuses: make(map[string]entity.ChargeStatus)}
}

func (c *mapCache) Get(_ context.Context, id string) (entity.ChargeStatus, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	status, ok := c.statuses[id]
	return status, ok, nil
}

func (c *mapCache) Set(_ context.Context, id string, status entity.ChargeStatus, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statuses[id] = status
	return nil
}

func (c *mapCache) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.statuses, id)
	return nil
}

// afterFindUnitOfWork runs a callback right after a charge lookup returns,
// before the caller gets to act on the result.
type afterFindUnitOfWork struct {
	repository.UnitOfWork
	afterFind func()
}

func (u *afterFindUnitOfWork) Charges() repository.ChargeRepository {
	return &afterFindCharges{ChargeRepository: u.UnitOfWork.Charges(), afterFind: u.afterFind}
}

type afterFindCharges struct {
	repository.ChargeRepository
	afterFind func()
}

func (r *afterFindCharges) FindByID(ctx context.Context, id string) (*entity.Charge, error) {
	c, err := r.ChargeRepository.FindByID(ctx, id)
	r.afterFind()
	return c, err
}

func TestChargeStatusUseCase_Status_ConfirmDuringLookupIsNotMasked(t *testing.T) {
	ctx := context.Background()
	base := memory.NewUnitOfWork(memory.NewStore())

	pending := entity.NewCharge(decimal.NullDecimal{}, "***", "payload")
	require.NoError(t, base.Charges().Create(ctx, pending))

	var (
		uc   *chargestatus.UseCase
		once sync.Once
	)
	uow := &afterFindUnitOfWork{UnitOfWork: base, afterFind: func() {
		once.Do(func() { require.NoError(t, uc.Confirm(ctx, pending.ID())) })
	}}
	uc = chargestatus.NewUseCase(uow, newMapCache(), ttl)

	status, err := uc.Status(ctx, pending.ID())
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, status)

	status, err = uc.Status(ctx, pending.ID())
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPaid, status)
}

func TestChargeStatusUseCase_Status_CacheErrorFallsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uow := mocks.NewMockUnitOfWork(ctrl)
	chargeRepo := mocks.NewMockChargeRepository(ctrl)
	cache := mocks.NewMockStatusCache(ctrl)

	uc := chargestatus.NewUseCase(uow, cache, ttl)

	cache.EXPECT().Get(gomock.Any(), "abcd1234").Return(entity.ChargeStatus(""), false, errors.New("redis down"))
	uow.EXPECT().Charges().Return(chargeRepo)
	chargeRepo.EXPECT().FindByID(gomock.Any(), "abcd1234").Return(charge("abcd1234", entity.StatusPaid), nil)
	cache.EXPECT().Set(gomock.Any(), "abcd1234", entity.StatusPaid, ttl).Return(errors.New("redis down"))

	status, err := uc.Status(context.Background(), "abcd1234")

	require.NoError(t, err)
	assert.Equal(t, entity.StatusPaid, status)
}

func TestChargeStatusUseCase_Status_NotFoundWithoutCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uow := mocks.NewMockUnitOfWork(ctrl)
	chargeRepo := mocks.NewMockChargeRepository(ctrl)

	uc := chargestatus.NewUseCase(uow, nil, ttl)

	uow.EXPECT().Charges().Return(chargeRepo)
	chargeRepo.EXPECT().FindByID(gomock.Any(), "missing").Return(nil, repository.ErrNotFound)

	_, err := uc.Status(context.Background(), "missing")

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestChargeStatusUseCase_ListRecent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uow := mocks.NewMockUnitOfWork(ctrl)
	chargeRepo := mocks.NewMockChargeRepository(ctrl)

	uc := chargestatus.NewUseCase(uow, nil, ttl)

	charges := []*entity.Charge{charge("b", entity.StatusPaid), charge("a", entity.StatusPending)}
	uow.EXPECT().Charges().Return(chargeRepo)
	chargeRepo.EXPECT().ListRecent(gomock.Any(), 20).Return(charges, nil)

	got, err := uc.ListRecent(context.Background())

	require.NoError(t, err)
	assert.Equal(t, charges, got)
}

func TestChargeStatusUseCase_Confirm_MarksPaid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uow := mocks.NewMockUnitOfWork(ctrl)
	txUow := mocks.NewMockUnitOfWork(ctrl)
	chargeRepo := mocks.NewMockChargeRepository(ctrl)
	cache := mocks.NewMockStatusCache(ctrl)

	uc := chargestatus.NewUseCase(uow, cache, ttl)

	uow.EXPECT().Begin(gomock.Any()).Return(txUow, nil)
	txUow.EXPECT().Rollback(gomock.Any()).Return(nil)
	txUow.EXPECT().Charges().Return(chargeRepo).Times(2)
	chargeRepo.EXPECT().FindByIDForUpdate(gomock.Any(), "abcd1234").Return(charge("abcd1234", entity.StatusPending), nil)
	chargeRepo.EXPECT().UpdateStatus(gomock.Any(), "abcd1234", entity.StatusPaid).Return(nil)
	txUow.EXPECT().Commit(gomock.Any()).Return(nil)
	cache.EXPECT().Delete(gomock.Any(), "abcd1234").Return(nil)

	require.NoError(t, uc.Confirm(context.Background(), "abcd1234"))
}

func TestChargeStatusUseCase_Confirm_AlreadyPaid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uow := mocks.NewMockUnitOfWork(ctrl)
	txUow := mocks.NewMockUnitOfWork(ctrl)
	chargeRepo := mocks.NewMockChargeRepository(ctrl)

	uc := chargestatus.NewUseCase(uow, nil, ttl)

	uow.EXPECT().Begin(gomock.Any()).Return(txUow, nil)
	txUow.EXPECT().Rollback(gomock.Any()).Return(nil)
	txUow.EXPECT().Charges().Return(chargeRepo)
	chargeRepo.EXPECT().FindByIDForUpdate(gomock.Any(), "abcd1234").Return(charge("abcd1234", entity.StatusPaid), nil)
	txUow.EXPECT().Commit(gomock.Any()).Return(nil)

	require.NoError(t, uc.Confirm(context.Background(), "abcd1234"))
}

func TestChargeStatusUseCase_Confirm_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uow := mocks.NewMockUnitOfWork(ctrl)
	txUow := mocks.NewMockUnitOfWork(ctrl)
	chargeRepo := mocks.NewMockChargeRepository(ctrl)

	uc := chargestatus.NewUseCase(uow, nil, ttl)

	uow.EXPECT().Begin(gomock.Any()).Return(txUow, nil)
	txUow.EXPECT().Rollback(gomock.Any()).Return(nil)
	txUow.EXPECT().Charges().Return(chargeRepo)
	chargeRepo.EXPECT().FindByIDForUpdate(gomock.Any(), "missing").Return(nil, repository.ErrNotFound)

	err := uc.Confirm(context.Background(), "missing")

	assert.ErrorIs(t, err, repository.ErrNotFound)
}
