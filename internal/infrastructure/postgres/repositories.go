package postgres

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/Xausdorf/pix-pay-hub/internal/domain/entity"
	"github.com/Xausdorf/pix-pay-hub/internal/domain/repository"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type UnitOfWork struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

func NewUnitOfWork(pool *pgxpool.Pool) *UnitOfWork {
	return &UnitOfWork{pool: pool}
}

func (u *UnitOfWork) Begin(ctx context.Context) (repository.UnitOfWork, error) {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &UnitOfWork{pool: u.pool, tx: tx}, nil
}

func (u *UnitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	return u.tx.Commit(ctx)
}

func (u *UnitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	return u.tx.Rollback(ctx)
}

func (u *UnitOfWork) Charges() repository.ChargeRepository {
	return &ChargeRepo{q: u.querier()}
}

func (u *UnitOfWork) Idempotency() repository.IdempotencyRepository {
	return &IdempotencyRepo{q: u.querier(), tx: u.tx}
}

func (u *UnitOfWork) querier() querier {
	if u.tx != nil {
		return u.tx
	}
	return u.pool
}

type ChargeRepo struct {
	q querier
}

const uniqueViolation = "23505"

const selectCharge = `SELECT id, amount::text, reference, payload, status, created_at FROM charges`

func (r *ChargeRepo) Create(ctx context.Context, c *entity.Charge) error {
	var amount *string
	if c.Amount().Valid {
		s := c.Amount().Decimal.StringFixed(2)
		amount = &s
	}

	_, err := r.q.Exec(ctx,
		`INSERT INTO charges (id, amount, reference, payload, status, created_at)
		 VALUES ($1, $2::numeric, $3, $4, $5, $6)`,
		c.ID(), amount, c.Reference(), c.Payload(), string(c.Status()), c.CreatedAt(),
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("charge %s: %w", c.ID(), repository.ErrAlreadyExists)
	}
	return err
}

func (r *ChargeRepo) FindByID(ctx context.Context, id string) (*entity.Charge, error) {
	return scanCharge(r.q.QueryRow(ctx, selectCharge+` WHERE id = $1`, id))
}

func (r *ChargeRepo) FindByIDForUpdate(ctx context.Context, id string) (*entity.Charge, error) {
	return scanCharge(r.q.QueryRow(ctx, selectCharge+` WHERE id = $1 FOR UPDATE`, id))
}

func (r *ChargeRepo) ListRecent(ctx context.Context, limit int) ([]*entity.Charge, error) {
	rows, err := r.q.Query(ctx, selectCharge+` ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	charges := make([]*entity.Charge, 0, limit)
	for rows.Next() {
		c, err := scanCharge(rows)
		if err != nil {
			return nil, err
		}
		charges = append(charges, c)
	}
	return charges, rows.Err()
}

func (r *ChargeRepo) UpdateStatus(ctx context.Context, id string, status entity.ChargeStatus) error {
	tag, err := r.q.Exec(ctx, `UPDATE charges SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanCharge(row pgx.Row) (*entity.Charge, error) {
	var (
		id, reference, payload, status string
		amountText                     *string
		createdAt                      time.Time
	)
	err := row.Scan(&id, &amountText, &reference, &payload, &status, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var amount decimal.NullDecimal
	if amountText != nil {
		d, err := decimal.NewFromString(*amountText)
		if err != nil {
			return nil, fmt.Errorf("charge %s: bad amount %q: %w", id, *amountText, err)
		}
		amount = decimal.NewNullDecimal(d)
	}

	return entity.ReconstructCharge(id, amount, reference, payload, entity.ChargeStatus(status), createdAt), nil
}

type IdempotencyRepo struct {
	q  querier
	tx pgx.Tx
}

func (r *IdempotencyRepo) Find(ctx context.Context, key string) (*entity.IdempotencyRecord, error) {
	var (
		chargeID  string
		body      []byte
		createdAt time.Time
	)
	err := r.q.QueryRow(ctx,
		`SELECT charge_id, response_body, created_at FROM idempotency_keys WHERE key = $1`,
		key,
	).Scan(&chargeID, &body, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entity.ReconstructIdempotencyRecord(key, chargeID, body, createdAt), nil
}

func (r *IdempotencyRepo) Save(ctx context.Context, record *entity.IdempotencyRecord) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO idempotency_keys (key, charge_id, response_body, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (key) DO NOTHING`,
		record.Key(), record.ChargeID(), record.Response(), record.CreatedAt(),
	)
	return err
}

// Lock takes a transaction-scoped advisory lock on key. It must run inside a
// unit of work started with Begin.
func (r *IdempotencyRepo) Lock(ctx context.Context, key string) error {
	if r.tx == nil {
		return errors.New("idempotency lock requires a transaction")
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	_, err := r.tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(h.Sum64()))
	return err
}
