package entity

import "time"

// IdempotencyRecord remembers the response given for a client-supplied key so a
// retried charge request yields the same charge instead of a new one.
type IdempotencyRecord struct {
	key       string
	chargeID  string
	response  []byte
	createdAt time.Time
}

func NewIdempotencyRecord(key, chargeID string, response []byte) *IdempotencyRecord {
	return &IdempotencyRecord{
		key:       key,
		chargeID:  chargeID,
		response:  response,
		createdAt: time.Now().UTC(),
	}
}

func ReconstructIdempotencyRecord(key, chargeID string, response []byte, createdAt time.Time) *IdempotencyRecord {
	return &IdempotencyRecord{
		key:       key,
		chargeID:  chargeID,
		response:  response,
		createdAt: createdAt,
	}
}

func (r *IdempotencyRecord) Key() string {
	return r.key
}

func (r *IdempotencyRecord) ChargeID() string {
	return r.chargeID
}

func (r *IdempotencyRecord) Response() []byte {
	return r.response
}

func (r *IdempotencyRecord) CreatedAt() time.Time {
	return r.createdAt
}
