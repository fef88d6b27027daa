package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/garnizeh/gigpay/pkg/apperr"
	"github.com/garnizeh/gigpay/pkg/models"
	"github.com/garnizeh/gigpay/pkg/repository"
)

type ContractsHandler struct {
	contractRepo repository.ContractRepo
}

func NewContractsHandler(cr repository.ContractRepo) *ContractsHandler {
	return &ContractsHandler{contractRepo: cr}
}

// GetByID returns a single contract. A contract that exists but does not
// belong to the requester is a 403; this deliberately leaks existence to
// non-parties in exchange for a more accurate status.
func (h *ContractsHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	profile := ProfileFromContext(r.Context())

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeError(w, apperr.New(apperr.KindNotFound, "contract_not_found", "contract does not exist"))
		return
	}

	contract, err := h.contractRepo.GetContractByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if contract == nil {
		writeError(w, apperr.New(apperr.KindNotFound, "contract_not_found", "contract does not exist"))
		return
	}
	if contract.ClientID != profile.ID && contract.ContractorID != profile.ID {
		writeError(w, apperr.New(apperr.KindForbidden, "not_party", "contract belongs to other profiles"))
		return
	}

	writeJSON(w, contract, http.StatusOK)
}

// ListActive returns the requester's non-terminated contracts, as client or
// contractor.
func (h *ContractsHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	profile := ProfileFromContext(r.Context())

	contracts, err := h.contractRepo.ListActiveContractsByProfile(r.Context(), profile.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if contracts == nil {
		contracts = []models.Contract{}
	}

	writeJSON(w, contracts, http.StatusOK)
}
