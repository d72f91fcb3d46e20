package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ChargeStatus string

const (
	StatusPending ChargeStatus = "PENDENTE"
	StatusPaid    ChargeStatus = "PAGO"
)

const chargeIDLen = 8

type Charge struct {
	id        string
	amount    decimal.NullDecimal
	reference string
	payload   string
	status    ChargeStatus
	createdAt time.Time
}

func NewCharge(amount decimal.NullDecimal, reference, payload string) *Charge {
	return &Charge{
		id:        NewChargeID(),
		amount:    amount,
		reference: reference,
		payload:   payload,
		status:    StatusPending,
		createdAt: time.Now().UTC(),
	}
}

func ReconstructCharge(
	id string,
	amount decimal.NullDecimal,
	reference, payload string,
	status ChargeStatus,
	createdAt time.Time,
) *Charge {
	return &Charge{
		id:        id,
		amount:    amount,
		reference: reference,
		payload:   payload,
		status:    status,
		createdAt: createdAt,
	}
}

// NewChargeID returns the short public id handed to payers for status checks.
func NewChargeID() string {
	return uuid.NewString()[:chargeIDLen]
}

func (c *Charge) ID() string {
	return c.id
}

func (c *Charge) Amount() decimal.NullDecimal {
	return c.amount
}

func (c *Charge) Reference() string {
	return c.reference
}

func (c *Charge) Payload() string {
	return c.payload
}

func (c *Charge) Status() ChargeStatus {
	return c.status
}

func (c *Charge) CreatedAt() time.Time {
	return c.createdAt
}

// MarkPaid moves a pending charge to paid. It reports false when the charge
// was already paid.
func (c *Charge) MarkPaid() bool {
	if c.status == StatusPaid {
		return false
	}
	c.status = StatusPaid
	return true
}
