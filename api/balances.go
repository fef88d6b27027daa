package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/garnizeh/gigpay/internal/payments"
	"github.com/garnizeh/gigpay/pkg/apperr"
)

// maxBodyBytes bounds request bodies before schema validation.
const maxBodyBytes = 1 << 16

type BalancesHandler struct {
	engine *payments.Engine
}

func NewBalancesHandler(engine *payments.Engine) *BalancesHandler {
	return &BalancesHandler{engine: engine}
}

type depositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// Deposit adds funds to the requester's own client account, capped at 25% of
// their outstanding unpaid job total.
func (h *BalancesHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	profile := ProfileFromContext(r.Context())

	userID, err := strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
	if err != nil || userID <= 0 {
		writeError(w, apperr.New(apperr.KindNotFound, "profile_not_found", "profile does not exist"))
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, apperr.New(apperr.KindBadRequest, "invalid_request", "failed to read request body"))
		return
	}
	if err := validateBody(r.Context(), depositSchema, body); err != nil {
		writeError(w, err)
		return
	}

	var req depositRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, apperr.New(apperr.KindBadRequest, "invalid_request", "invalid deposit payload"))
		return
	}

	updated, err := h.engine.Deposit(r.Context(), userID, profile, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, updated, http.StatusOK)
}
