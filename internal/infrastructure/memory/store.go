// Package memory keeps charges in process memory. It backs the service when no
// database is configured and serves as a real repository in handler tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Xausdorf/pix-pay-hub/internal/domain/entity"
	"github.com/Xausdorf/pix-pay-hub/internal/domain/repository"
)

type Store struct {
	mu      sync.RWMutex
	seq     int64
	charges map[string]chargeRow
	records map[string]*entity.IdempotencyRecord

	// sem admits one open unit of work at a time, standing in for row and
	// advisory locks.
	sem chan struct{}
}

type chargeRow struct {
	charge *entity.Charge
	seq    int64
}

func NewStore() *Store {
	return &Store{
		charges: make(map[string]chargeRow),
		records: make(map[string]*entity.IdempotencyRecord),
		sem:     make(chan struct{}, 1),
	}
}

type UnitOfWork struct {
	store *Store
	tx    *txState
}

type txState struct {
	done    bool
	pending []func()
	created map[string]bool
}

func NewUnitOfWork(store *Store) *UnitOfWork {
	return &UnitOfWork{store: store}
}

func (u *UnitOfWork) Begin(ctx context.Context) (repository.UnitOfWork, error) {
	select {
	case u.store.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &UnitOfWork{store: u.store, tx: &txState{created: make(map[string]bool)}}, nil
}

func (u *UnitOfWork) Commit(_ context.Context) error {
	if u.tx == nil || u.tx.done {
		return nil
	}
	u.store.mu.Lock()
	for _, apply := range u.tx.pending {
		apply()
	}
	u.store.mu.Unlock()
	u.finish()
	return nil
}

func (u *UnitOfWork) Rollback(_ context.Context) error {
	if u.tx == nil || u.tx.done {
		return nil
	}
	u.finish()
	return nil
}

func (u *UnitOfWork) finish() {
	u.tx.done = true
	u.tx.pending = nil
	<-u.store.sem
}

func (u *UnitOfWork) Charges() repository.ChargeRepository {
	return &ChargeRepo{uow: u}
}

func (u *UnitOfWork) Idempotency() repository.IdempotencyRepository {
	return &IdempotencyRepo{uow: u}
}

// write runs apply now, or at commit time inside a unit of work.
func (u *UnitOfWork) write(apply func()) {
	if u.tx != nil {
		u.tx.pending = append(u.tx.pending, apply)
		return
	}
	u.store.mu.Lock()
	apply()
	u.store.mu.Unlock()
}

type ChargeRepo struct {
	uow *UnitOfWork
}

func (r *ChargeRepo) Create(_ context.Context, c *entity.Charge) error {
	row := copyCharge(c)
	s := r.uow.store

	s.mu.RLock()
	_, exists := s.charges[row.ID()]
	s.mu.RUnlock()
	if tx := r.uow.tx; tx != nil {
		exists = exists || tx.created[row.ID()]
		tx.created[row.ID()] = true
	}
	if exists {
		return fmt.Errorf("charge %s: %w", row.ID(), repository.ErrAlreadyExists)
	}

	r.uow.write(func() {
		s.seq++
		s.charges[row.ID()] = chargeRow{charge: row, seq: s.seq}
	})
	return nil
}

func (r *ChargeRepo) FindByID(_ context.Context, id string) (*entity.Charge, error) {
	s := r.uow.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.charges[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyCharge(row.charge), nil
}

func (r *ChargeRepo) FindByIDForUpdate(ctx context.Context, id string) (*entity.Charge, error) {
	return r.FindByID(ctx, id)
}

func (r *ChargeRepo) ListRecent(_ context.Context, limit int) ([]*entity.Charge, error) {
	s := r.uow.store
	s.mu.RLock()
	rows := make([]chargeRow, 0, len(s.charges))
	for _, row := range s.charges {
		rows = append(rows, row)
	}
	s.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool {
		ci, cj := rows[i].charge.CreatedAt(), rows[j].charge.CreatedAt()
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return rows[i].seq > rows[j].seq
	})

	if len(rows) > limit {
		rows = rows[:limit]
	}
	charges := make([]*entity.Charge, len(rows))
	for i, row := range rows {
		charges[i] = copyCharge(row.charge)
	}
	return charges, nil
}

func (r *ChargeRepo) UpdateStatus(_ context.Context, id string, status entity.ChargeStatus) error {
	s := r.uow.store
	s.mu.RLock()
	_, ok := s.charges[id]
	s.mu.RUnlock()
	if !ok {
		return repository.ErrNotFound
	}

	r.uow.write(func() {
		row := s.charges[id]
		c := row.charge
		row.charge = entity.ReconstructCharge(c.ID(), c.Amount(), c.Reference(), c.Payload(), status, c.CreatedAt())
		s.charges[id] = row
	})
	return nil
}

func copyCharge(c *entity.Charge) *entity.Charge {
	return entity.ReconstructCharge(c.ID(), c.Amount(), c.Reference(), c.Payload(), c.Status(), c.CreatedAt())
}

type IdempotencyRepo struct {
	uow *UnitOfWork
}

func (r *IdempotencyRepo) Find(_ context.Context, key string) (*entity.IdempotencyRecord, error) {
	s := r.uow.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.records[key], nil
}

func (r *IdempotencyRepo) Save(_ context.Context, record *entity.IdempotencyRecord) error {
	s := r.uow.store
	r.uow.write(func() {
		if _, exists := s.records[record.Key()]; !exists {
			s.records[record.Key()] = record
		}
	})
	return nil
}

// Lock is satisfied by the unit of work itself holding the store.
func (r *IdempotencyRepo) Lock(_ context.Context, _ string) error {
	return nil
}
