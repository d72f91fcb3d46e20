package createcharge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Xausdorf/pix-pay-hub/internal/domain/entity"
	"github.com/Xausdorf/pix-pay-hub/internal/domain/pix"
	"github.com/Xausdorf/pix-pay-hub/internal/domain/qrcode"
	"github.com/Xausdorf/pix-pay-hub/internal/domain/repository"
)

type Request struct {
	IdempotencyKey string
	Payment        pix.Request
}

type Response struct {
	ChargeID string
	Payload  string
	QRCode   string
}

type responseCache struct {
	ChargeID string `json:"charge_id"`
	Payload  string `json:"payload"`
	QRCode   string `json:"qrcode_base64"`
}

type UseCase struct {
	uow      repository.UnitOfWork
	renderer qrcode.Renderer
}

func NewUseCase(uow repository.UnitOfWork, renderer qrcode.Renderer) *UseCase {
	return &UseCase{uow: uow, renderer: renderer}
}

func (uc *UseCase) Execute(ctx context.Context, req Request) (*Response, error) {
	if req.IdempotencyKey != "" {
		cached, err := uc.uow.Idempotency().Find(ctx, req.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if cached != nil {
			return uc.parseCache(cached.Response())
		}
	}

	payload, err := pix.Encode(req.Payment)
	if err != nil {
		return nil, err
	}

	png, err := uc.renderer.Render(payload)
	if err != nil {
		return nil, fmt.Errorf("render qr code: %w", err)
	}

	tx, err := uc.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if req.IdempotencyKey != "" {
		if err := tx.Idempotency().Lock(ctx, req.IdempotencyKey); err != nil {
			return nil, err
		}

		cached, err := tx.Idempotency().Find(ctx, req.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if cached != nil {
			return uc.parseCache(cached.Response())
		}
	}

	charge := entity.NewCharge(centAmount(req.Payment.Amount), reference(req.Payment), payload)
	if err := tx.Charges().Create(ctx, charge); err != nil {
		return nil, fmt.Errorf("store charge: %w", err)
	}

	resp := &Response{
		ChargeID: charge.ID(),
		Payload:  payload,
		QRCode:   qrcode.DataURI(png),
	}

	if req.IdempotencyKey != "" {
		if err := uc.saveRecord(ctx, tx, req.IdempotencyKey, resp); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return resp, nil
}

func (uc *UseCase) saveRecord(ctx context.Context, tx repository.UnitOfWork, key string, resp *Response) error {
	body, err := json.Marshal(responseCache{
		ChargeID: resp.ChargeID,
		Payload:  resp.Payload,
		QRCode:   resp.QRCode,
	})
	if err != nil {
		return err
	}
	return tx.Idempotency().Save(ctx, entity.NewIdempotencyRecord(key, resp.ChargeID, body))
}

func (uc *UseCase) parseCache(body []byte) (*Response, error) {
	var cache responseCache
	if err := json.Unmarshal(body, &cache); err != nil {
		return nil, err
	}
	return &Response{
		ChargeID: cache.ChargeID,
		Payload:  cache.Payload,
		QRCode:   cache.QRCode,
	}, nil
}

// centAmount rounds the amount the same way the payload renders it.
func centAmount(amount decimal.NullDecimal) decimal.NullDecimal {
	if !amount.Valid {
		return amount
	}
	return decimal.NewNullDecimal(amount.Decimal.Round(2))
}

func reference(req pix.Request) string {
	if req.TransactionID == "" {
		return pix.DefaultTransactionID
	}
	return req.TransactionID
}
