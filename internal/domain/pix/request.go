package pix

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	DefaultTransactionID = "***"

	maxNameLen      = 25
	maxCityLen      = 15
	maxTxIDLen      = 25
	maxAmountLen    = 13
	maxPixKeyLength = maxFieldLen - len(pixGUI) - 8
)

var minAmount = decimal.New(1, -2)

// Request carries the merchant data of one payload. A zero Amount produces a
// static payload without tag 54.
type Request struct {
	PixKey        string
	PayeeName     string
	PayeeCity     string
	Amount        decimal.NullDecimal
	TransactionID string
}

// Normalized validates r and returns the copy that is actually encoded: name
// and city transliterated and truncated, transaction id defaulted.
func (r Request) Normalized() (Request, error) {
	for _, f := range []struct{ name, value string }{
		{"pixKey", r.PixKey},
		{"payeeName", r.PayeeName},
		{"payeeCity", r.PayeeCity},
		{"transactionId", r.TransactionID},
	} {
		if !utf8.ValidString(f.value) {
			return Request{}, &EncodingError{Field: f.name}
		}
	}

	if strings.TrimSpace(r.PixKey) == "" {
		return Request{}, &ValidationError{Field: "pixKey", Reason: "required"}
	}
	if len(r.PixKey) > maxPixKeyLength {
		return Request{}, &ValidationError{
			Field:  "pixKey",
			Reason: fmt.Sprintf("is %d bytes, limit is %d", len(r.PixKey), maxPixKeyLength),
		}
	}

	name, err := normalizeText("payeeName", r.PayeeName, maxNameLen)
	if err != nil {
		return Request{}, err
	}
	city, err := normalizeText("payeeCity", r.PayeeCity, maxCityLen)
	if err != nil {
		return Request{}, err
	}

	if r.Amount.Valid {
		if r.Amount.Decimal.LessThan(minAmount) {
			return Request{}, &ValidationError{Field: "amount", Reason: "must be at least 0.01"}
		}
		if len(r.Amount.Decimal.StringFixed(2)) > maxAmountLen {
			return Request{}, &ValidationError{Field: "amount", Reason: "too large"}
		}
	}

	txid := r.TransactionID
	if txid == "" {
		txid = DefaultTransactionID
	}
	if utf8.RuneCountInString(txid) > maxTxIDLen {
		return Request{}, &ValidationError{
			Field:  "transactionId",
			Reason: fmt.Sprintf("longer than %d characters", maxTxIDLen),
		}
	}

	return Request{
		PixKey:        r.PixKey,
		PayeeName:     name,
		PayeeCity:     city,
		Amount:        r.Amount,
		TransactionID: txid,
	}, nil
}

// Validate reports the first problem Encode would reject r for.
func (r Request) Validate() error {
	_, err := r.Normalized()
	return err
}

func normalizeText(field, value string, limit int) (string, error) {
	n := Normalize(value)
	switch {
	case n == "":
		return "", &ValidationError{Field: field, Reason: "required"}
	case len(n) > maxFieldLen:
		return "", &ValidationError{
			Field:  field,
			Reason: fmt.Sprintf("is %d bytes after normalization, limit is %d", len(n), maxFieldLen),
		}
	}
	return truncate(n, limit), nil
}
