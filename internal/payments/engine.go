// Package payments holds the money-movement core: paying a job atomically
// debits the client and credits the contractor, and deposits are capped
// against outstanding unpaid work. Both operations run inside one store
// transaction so concurrent attempts against the same job or balances
// serialize and re-evaluate their preconditions.
package payments

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/garnizeh/gigpay/pkg/apperr"
	"github.com/garnizeh/gigpay/pkg/models"
	"github.com/garnizeh/gigpay/pkg/repository"
)

// depositCapRate limits a single deposit to 25% of the client's outstanding
// unpaid job total.
var depositCapRate = decimal.NewFromFloat(0.25)

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

// PayJob pays a job on behalf of the requesting client: the job's price moves
// from the client balance to the contractor balance and the job flips to paid
// with a payment timestamp. All reads and writes happen inside one
// transaction; on any precondition failure nothing is persisted.
//
// A zero price is valid and still flips paid/paymentDate with a no-op
// transfer.
func (e *Engine) PayJob(ctx context.Context, jobID int64, requester *models.Profile) (*models.Job, error) {
	if requester == nil {
		return nil, apperr.New(apperr.KindForbidden, "not_client", "only clients can pay for jobs")
	}
	if requester.Type != models.ProfileTypeClient {
		return nil, apperr.New(apperr.KindForbidden, "not_client", "only clients can pay for jobs")
	}

	var paid *models.Job
	err := e.store.InTx(ctx, func(s repository.Store) error {
		job, err := s.GetJobByID(ctx, jobID)
		if err != nil {
			return err
		}
		if job == nil {
			return apperr.New(apperr.KindInvalidOperation, "job_not_found", "job does not exist")
		}
		if job.Paid {
			return apperr.New(apperr.KindInvalidOperation, "already_paid", "job is already paid")
		}
		if job.Price.IsNegative() {
			return apperr.New(apperr.KindInvalidOperation, "invalid_price", "job price is negative")
		}

		contract, err := s.GetContractByID(ctx, job.ContractID)
		if err != nil {
			return err
		}
		if contract == nil {
			return apperr.New(apperr.KindInvalidOperation, "contract_not_found", "job has no contract")
		}
		if contract.ClientID != requester.ID {
			return apperr.New(apperr.KindInvalidOperation, "not_job_client", "job does not belong to the requesting client")
		}

		contractor, err := s.GetProfileByID(ctx, contract.ContractorID)
		if err != nil {
			return err
		}
		if contractor == nil {
			return apperr.New(apperr.KindInvalidOperation, "contractor_not_found", "contract has no contractor profile")
		}

		// re-read the client row inside the transaction; the balance used for
		// the funds check must be the locked one
		client, err := s.GetProfileByID(ctx, requester.ID)
		if err != nil {
			return err
		}
		if client == nil {
			return apperr.New(apperr.KindInvalidOperation, "client_not_found", "client profile does not exist")
		}
		if client.Balance.LessThan(job.Price) {
			return apperr.New(apperr.KindInvalidOperation, "insufficient_funds", "client balance is lower than the job price")
		}

		when := time.Now().UTC()
		ok, err := s.MarkJobPaid(ctx, job.ID, when)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.New(apperr.KindInvalidOperation, "already_paid", "job is already paid")
		}

		if err := s.UpdateBalance(ctx, client.ID, client.Balance.Sub(job.Price)); err != nil {
			return err
		}
		if err := s.UpdateBalance(ctx, contractor.ID, contractor.Balance.Add(job.Price)); err != nil {
			return err
		}

		job.Paid = true
		job.PaymentDate = &when
		paid = job
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("job paid",
		slog.Int64("job_id", paid.ID),
		slog.Int64("client_id", requester.ID),
		slog.String("price", paid.Price.String()),
	)

	return paid, nil
}

// Deposit adds funds to the requesting client's own balance. The amount may
// not exceed 25% of the total price of the client's unpaid jobs at the time
// of the deposit.
func (e *Engine) Deposit(ctx context.Context, targetProfileID int64, requester *models.Profile, amount decimal.Decimal) (*models.Profile, error) {
	if !amount.IsPositive() {
		return nil, apperr.New(apperr.KindBadRequest, "invalid_amount", "amount must be a positive number")
	}
	if requester == nil || targetProfileID != requester.ID {
		return nil, apperr.New(apperr.KindForbidden, "not_own_account", "deposits are only allowed into your own account")
	}
	if requester.Type != models.ProfileTypeClient {
		return nil, apperr.New(apperr.KindForbidden, "not_client", "only clients can deposit funds")
	}

	var updated *models.Profile
	err := e.store.InTx(ctx, func(s repository.Store) error {
		contracts, err := s.ListContractsByClient(ctx, requester.ID)
		if err != nil {
			return err
		}
		if len(contracts) == 0 {
			return apperr.New(apperr.KindInvalidOperation, "no_contracts", "client has no contracts")
		}

		ids := make([]int64, 0, len(contracts))
		for _, c := range contracts {
			ids = append(ids, c.ID)
		}
		unpaid, err := s.ListUnpaidJobsByContracts(ctx, ids)
		if err != nil {
			return err
		}
		if len(unpaid) == 0 {
			return apperr.New(apperr.KindInvalidOperation, "no_unpaid_jobs", "client has no unpaid jobs")
		}

		outstanding := decimal.Zero
		for _, j := range unpaid {
			outstanding = outstanding.Add(j.Price)
		}
		limit := outstanding.Mul(depositCapRate)
		if amount.GreaterThan(limit) {
			return apperr.New(apperr.KindInvalidOperation, "deposit_cap_exceeded", "amount exceeds 25% of outstanding unpaid jobs")
		}

		client, err := s.GetProfileByID(ctx, requester.ID)
		if err != nil {
			return err
		}
		if client == nil {
			return apperr.New(apperr.KindInvalidOperation, "client_not_found", "client profile does not exist")
		}

		newBalance := client.Balance.Add(amount)
		if err := s.UpdateBalance(ctx, client.ID, newBalance); err != nil {
			return err
		}

		client.Balance = newBalance
		updated = client
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("deposit accepted",
		slog.Int64("client_id", requester.ID),
		slog.String("amount", amount.String()),
	)

	return updated, nil
}
