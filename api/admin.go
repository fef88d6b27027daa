package api

import (
	"net/http"
	"strconv"

	"github.com/garnizeh/gigpay/internal/reports"
	"github.com/garnizeh/gigpay/pkg/apperr"
	"github.com/garnizeh/gigpay/pkg/models"
)

type AdminHandler struct {
	reports *reports.Engine
}

func NewAdminHandler(re *reports.Engine) *AdminHandler {
	return &AdminHandler{reports: re}
}

func requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	profile := ProfileFromContext(r.Context())
	if profile == nil || profile.Type != models.ProfileTypeAdmin {
		writeError(w, apperr.New(apperr.KindForbidden, "not_admin", "admin access required"))
		return false
	}
	return true
}

// BestProfession returns the profession(s) that earned the most in the range.
func (h *AdminHandler) BestProfession(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	q := r.URL.Query()
	start, err := parseDateParam(q.Get("start"))
	if err != nil {
		writeError(w, err)
		return
	}
	end, err := parseDateParam(q.Get("end"))
	if err != nil {
		writeError(w, err)
		return
	}

	best, err := h.reports.BestProfession(r.Context(), start, end)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, best, http.StatusOK)
}

// BestClients returns the top clients by total paid in the range.
func (h *AdminHandler) BestClients(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	q := r.URL.Query()
	start, err := parseDateParam(q.Get("start"))
	if err != nil {
		writeError(w, err)
		return
	}
	end, err := parseDateParam(q.Get("end"))
	if err != nil {
		writeError(w, err)
		return
	}

	limit := reports.DefaultClientsLimit
	if l := q.Get("limit"); l != "" {
		v, err := strconv.Atoi(l)
		if err != nil || v < 0 {
			writeError(w, apperr.New(apperr.KindBadRequest, "invalid_limit", "limit must be a non-negative number"))
			return
		}
		limit = v
	}

	best, err := h.reports.BestClients(r.Context(), start, end, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, best, http.StatusOK)
}
