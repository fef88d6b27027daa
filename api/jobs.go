package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/garnizeh/gigpay/internal/payments"
	"github.com/garnizeh/gigpay/pkg/apperr"
	"github.com/garnizeh/gigpay/pkg/models"
	"github.com/garnizeh/gigpay/pkg/repository"
)

type JobsHandler struct {
	contractRepo repository.ContractRepo
	jobRepo      repository.JobRepo
	engine       *payments.Engine
}

func NewJobsHandler(cr repository.ContractRepo, jr repository.JobRepo, engine *payments.Engine) *JobsHandler {
	return &JobsHandler{contractRepo: cr, jobRepo: jr, engine: engine}
}

// ListUnpaid returns unpaid jobs under the requester's active contracts. The
// two-step query is deliberate: unpaid status only means something within an
// active contract.
func (h *JobsHandler) ListUnpaid(w http.ResponseWriter, r *http.Request) {
	profile := ProfileFromContext(r.Context())

	contracts, err := h.contractRepo.ListActiveContractsByProfile(r.Context(), profile.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	ids := make([]int64, 0, len(contracts))
	for _, c := range contracts {
		ids = append(ids, c.ID)
	}

	jobs, err := h.jobRepo.ListUnpaidJobsByContracts(r.Context(), ids)
	if err != nil {
		writeError(w, err)
		return
	}
	if jobs == nil {
		jobs = []models.Job{}
	}

	writeJSON(w, jobs, http.StatusOK)
}

// Pay settles one job on behalf of the requesting client.
func (h *JobsHandler) Pay(w http.ResponseWriter, r *http.Request) {
	profile := ProfileFromContext(r.Context())

	jobID, err := strconv.ParseInt(mux.Vars(r)["job_id"], 10, 64)
	if err != nil || jobID <= 0 {
		writeError(w, apperr.New(apperr.KindNotFound, "job_not_found", "job does not exist"))
		return
	}

	job, err := h.engine.PayJob(r.Context(), jobID, profile)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, job, http.StatusOK)
}
