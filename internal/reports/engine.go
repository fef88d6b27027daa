// Package reports computes the aggregate statistics over paid jobs: the
// best-earning profession(s) and the best-paying clients in a date range.
// Reports are read-only and run outside any transaction.
package reports

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/garnizeh/gigpay/pkg/apperr"
	"github.com/garnizeh/gigpay/pkg/models"
	"github.com/garnizeh/gigpay/pkg/repository"
)

// DefaultClientsLimit is the number of best-clients rows returned when the
// caller does not ask for a specific limit.
const DefaultClientsLimit = 2

type Engine struct {
	store  repository.Store
	logger *slog.Logger
}

func NewEngine(store repository.Store, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{store: store, logger: logger}
}

// BestProfession returns the profession(s) that earned the most over paid
// jobs with a payment date inside the optional [start, end] range. Exact ties
// at the maximum are all returned, sorted alphabetically. No paid jobs in
// range yields an empty slice.
func (e *Engine) BestProfession(ctx context.Context, start, end *time.Time) ([]string, error) {
	records, err := e.store.ListPaidJobsBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	// sum per contractor first, then fold contractor totals into professions
	type contractorTotal struct {
		profession string
		total      decimal.Decimal
	}
	byContractor := make(map[int64]*contractorTotal)
	for _, rec := range records {
		ct, ok := byContractor[rec.ContractorID]
		if !ok {
			ct = &contractorTotal{profession: rec.Profession, total: decimal.Zero}
			byContractor[rec.ContractorID] = ct
		}
		ct.total = ct.total.Add(rec.Price)
	}

	byProfession := make(map[string]decimal.Decimal)
	for _, ct := range byContractor {
		byProfession[ct.profession] = byProfession[ct.profession].Add(ct.total)
	}

	best := []string{}
	var top decimal.Decimal
	for profession, total := range byProfession {
		switch {
		case len(best) == 0 || total.GreaterThan(top):
			best = []string{profession}
			top = total
		case total.Equal(top):
			best = append(best, profession)
		}
	}
	sort.Strings(best)

	return best, nil
}

// BestClients returns up to limit clients ordered by total paid descending
// over the optional [start, end] range. Ties are broken by ascending client
// id to keep the order deterministic. A zero limit returns an empty list
// without touching the store.
func (e *Engine) BestClients(ctx context.Context, start, end *time.Time, limit int) ([]models.ClientEarnings, error) {
	if limit < 0 {
		return nil, apperr.New(apperr.KindBadRequest, "invalid_limit", "limit must be a non-negative number")
	}
	if limit == 0 {
		return []models.ClientEarnings{}, nil
	}

	records, err := e.store.ListPaidJobsBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	totals := make(map[int64]*models.ClientEarnings)
	for _, rec := range records {
		ce, ok := totals[rec.ClientID]
		if !ok {
			ce = &models.ClientEarnings{
				ID:       rec.ClientID,
				FullName: rec.ClientFirstName + " " + rec.ClientLastName,
				Paid:     decimal.Zero,
			}
			totals[rec.ClientID] = ce
		}
		ce.Paid = ce.Paid.Add(rec.Price)
	}

	out := make([]models.ClientEarnings, 0, len(totals))
	for _, ce := range totals {
		out = append(out, *ce)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Paid.Equal(out[j].Paid) {
			return out[i].Paid.GreaterThan(out[j].Paid)
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}
