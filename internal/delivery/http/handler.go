package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/Xausdorf/pix-pay-hub/internal/domain/entity"
	"github.com/Xausdorf/pix-pay-hub/internal/domain/pix"
	"github.com/Xausdorf/pix-pay-hub/internal/domain/repository"
	"github.com/Xausdorf/pix-pay-hub/internal/usecase/chargestatus"
	"github.com/Xausdorf/pix-pay-hub/internal/usecase/createcharge"
)

type Handler struct {
	createChargeUC *createcharge.UseCase
	chargeStatusUC *chargestatus.UseCase
	logger         *slog.Logger
}

func NewHandler(
	createChargeUC *createcharge.UseCase,
	chargeStatusUC *chargestatus.UseCase,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		createChargeUC: createChargeUC,
		chargeStatusUC: chargeStatusUC,
		logger:         logger,
	}
}

type PixRequest struct {
	Chave  string              `json:"chave"`
	Nome   string              `json:"nome"`
	Cidade string              `json:"cidade"`
	Valor  decimal.NullDecimal `json:"valor"`
	TxID   string              `json:"txid"`
}

type PixResponse struct {
	TransactionID string `json:"id_transacao"`
	Payload       string `json:"payload"`
	QRCodeBase64  string `json:"qrcode_base64"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type ChargeView struct {
	ID        string              `json:"id"`
	Valor     jsonAmount `json:"valor"`
	TxID      string     `json:"txid"`
	Status    string     `json:"status"`
	Payload   string     `json:"payload"`
	CreatedAt time.Time  `json:"created_at"`
}

// jsonAmount writes an amount as a bare JSON number, or null when absent.
type jsonAmount decimal.NullDecimal

func (a jsonAmount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return []byte(a.Decimal.String()), nil
}

type messageResponse struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (h *Handler) HandleHome(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Status: "online", Message: "API Pix ativa"})
}

func (h *Handler) HandlePing(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: "pong"})
}

func (h *Handler) HandleCreatePix(w http.ResponseWriter, r *http.Request) {
	var req PixRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	resp, err := h.createChargeUC.Execute(r.Context(), createcharge.Request{
		IdempotencyKey: r.Header.Get("X-Idempotency-Key"),
		Payment: pix.Request{
			PixKey:        req.Chave,
			PayeeName:     req.Nome,
			PayeeCity:     req.Cidade,
			Amount:        req.Valor,
			TransactionID: req.TxID,
		},
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, PixResponse{
		TransactionID: resp.ChargeID,
		Payload:       resp.Payload,
		QRCodeBase64:  resp.QRCode,
	})
}

func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.chargeStatusUC.Status(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: string(status)})
}

func (h *Handler) HandleListCharges(w http.ResponseWriter, r *http.Request) {
	charges, err := h.chargeStatusUC.ListRecent(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	views := make([]ChargeView, 0, len(charges))
	for _, c := range charges {
		views = append(views, toView(c))
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	if err := h.chargeStatusUC.Confirm(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "OK"})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, pix.ErrValidation), errors.Is(err, pix.ErrEncoding):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "Não encontrado")
	default:
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func toView(c *entity.Charge) ChargeView {
	return ChargeView{
		ID:        c.ID(),
		Valor:     jsonAmount(c.Amount()),
		TxID:      c.Reference(),
		Status:    string(c.Status()),
		Payload:   c.Payload(),
		CreatedAt: c.CreatedAt(),
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, detail string) {
	writeJSON(w, code, errorResponse{Detail: detail})
}
