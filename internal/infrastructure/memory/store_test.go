package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xausdorf/pix-pay-hub/internal/domain/entity"
	"github.com/Xausdorf/pix-pay-hub/internal/domain/repository"
	"github.com/Xausdorf/pix-pay-hub/internal/infrastructure/memory"
)

func newCharge(id string, createdAt time.Time) *entity.Charge {
	return entity.ReconstructCharge(id, decimal.NullDecimal{}, "***", "payload", entity.StatusPending, createdAt)
}

func TestUnitOfWork_CommitAppliesWrites(t *testing.T) {
	ctx := context.Background()
	uow := memory.NewUnitOfWork(memory.NewStore())

	tx, err := uow.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Charges().Create(ctx, newCharge("aaaa0001", time.Now())))

	_, err = uow.Charges().FindByID(ctx, "aaaa0001")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, tx.Commit(ctx))
	require.NoError(t, tx.Rollback(ctx))

	got, err := uow.Charges().FindByID(ctx, "aaaa0001")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, got.Status())
}

func TestUnitOfWork_RollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	uow := memory.NewUnitOfWork(memory.NewStore())

	tx, err := uow.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Charges().Create(ctx, newCharge("aaaa0001", time.Now())))
	require.NoError(t, tx.Idempotency().Save(ctx, entity.NewIdempotencyRecord("k", "aaaa0001", []byte("{}"))))
	require.NoError(t, tx.Rollback(ctx))

	_, err = uow.Charges().FindByID(ctx, "aaaa0001")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	record, err := uow.Idempotency().Find(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestUnitOfWork_BeginWaitsForOpenTransaction(t *testing.T) {
	uow := memory.NewUnitOfWork(memory.NewStore())

	tx, err := uow.Begin(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = uow.Begin(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, tx.Rollback(context.Background()))
	next, err := uow.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, next.Commit(context.Background()))
}

func TestChargeRepo_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	uow := memory.NewUnitOfWork(memory.NewStore())

	require.NoError(t, uow.Charges().Create(ctx, newCharge("aaaa0001", time.Now())))
	require.NoError(t, uow.Charges().UpdateStatus(ctx, "aaaa0001", entity.StatusPaid))

	got, err := uow.Charges().FindByID(ctx, "aaaa0001")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPaid, got.Status())

	assert.ErrorIs(t, uow.Charges().UpdateStatus(ctx, "missing", entity.StatusPaid), repository.ErrNotFound)
}

func TestChargeRepo_CreateRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	uow := memory.NewUnitOfWork(memory.NewStore())
	require.NoError(t, uow.Charges().Create(ctx, newCharge("aaaa0001", time.Now())))

	err := uow.Charges().Create(ctx, newCharge("aaaa0001", time.Now()))
	assert.ErrorIs(t, err, repository.ErrAlreadyExists)

	tx, err := uow.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback(ctx) }()

	require.NoError(t, tx.Charges().Create(ctx, newCharge("bbbb0002", time.Now())))
	assert.ErrorIs(t, tx.Charges().Create(ctx, newCharge("bbbb0002", time.Now())), repository.ErrAlreadyExists)
	assert.ErrorIs(t, tx.Charges().Create(ctx, newCharge("aaaa0001", time.Now())), repository.ErrAlreadyExists)
}

func TestChargeRepo_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	uow := memory.NewUnitOfWork(memory.NewStore())
	require.NoError(t, uow.Charges().Create(ctx, newCharge("aaaa0001", time.Now())))

	got, err := uow.Charges().FindByID(ctx, "aaaa0001")
	require.NoError(t, err)
	got.MarkPaid()

	again, err := uow.Charges().FindByID(ctx, "aaaa0001")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, again.Status())
}

func TestChargeRepo_ListRecent(t *testing.T) {
	ctx := context.Background()
	uow := memory.NewUnitOfWork(memory.NewStore())

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"first000", "second00", "third000"} {
		require.NoError(t, uow.Charges().Create(ctx, newCharge(id, base.Add(time.Duration(i)*time.Minute))))
	}

	got, err := uow.Charges().ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "third000", got[0].ID())
	assert.Equal(t, "second00", got[1].ID())
}

func TestIdempotencyRepo_FirstSaveWins(t *testing.T) {
	ctx := context.Background()
	uow := memory.NewUnitOfWork(memory.NewStore())

	require.NoError(t, uow.Idempotency().Save(ctx, entity.NewIdempotencyRecord("k", "first000", []byte("1"))))
	require.NoError(t, uow.Idempotency().Save(ctx, entity.NewIdempotencyRecord("k", "second00", []byte("2"))))

	record, err := uow.Idempotency().Find(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "first000", record.ChargeID())
}

func TestStore_ConcurrentTransactions(t *testing.T) {
	ctx := context.Background()
	uow := memory.NewUnitOfWork(memory.NewStore())

	const workers = 20
	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			tx, err := uow.Begin(ctx)
			if !assert.NoError(t, err) {
				return
			}
			defer func() { _ = tx.Rollback(ctx) }()
			assert.NoError(t, tx.Charges().Create(ctx, entity.NewCharge(decimal.NullDecimal{}, "***", "p")))
			assert.NoError(t, tx.Commit(ctx))
		}()
	}
	wg.Wait()

	got, err := uow.Charges().ListRecent(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, got, workers)
}
