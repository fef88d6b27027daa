package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/garnizeh/gigpay/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

type ProfileRepo interface {
	CreateProfile(ctx context.Context, p *models.Profile) (int64, error)
	GetProfileByID(ctx context.Context, id int64) (*models.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
	// UpdateBalance writes an absolute balance; callers compute the new value
	// from a balance read inside the same transaction scope.
	UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error
}

type ContractRepo interface {
	CreateContract(ctx context.Context, c *models.Contract) (int64, error)
	GetContractByID(ctx context.Context, id int64) (*models.Contract, error)
	// ListContractsByClient returns every contract, regardless of status,
	// where the profile is the client party.
	ListContractsByClient(ctx context.Context, clientID int64) ([]models.Contract, error)
	// ListActiveContractsByProfile returns non-terminated contracts where the
	// profile is either party.
	ListActiveContractsByProfile(ctx context.Context, profileID int64) ([]models.Contract, error)
}

type JobRepo interface {
	CreateJob(ctx context.Context, j *models.Job) (int64, error)
	GetJobByID(ctx context.Context, id int64) (*models.Job, error)
	ListUnpaidJobsByContracts(ctx context.Context, contractIDs []int64) ([]models.Job, error)
	// MarkJobPaid flips the one-way paid transition. It reports false when the
	// job was already paid, leaving the row untouched.
	MarkJobPaid(ctx context.Context, id int64, paymentDate time.Time) (bool, error)
	// ListPaidJobsBetween returns paid jobs with payment_date inside the
	// optional [start, end] bounds, joined with both contract parties.
	ListPaidJobsBetween(ctx context.Context, start, end *time.Time) ([]models.PaidJobRecord, error)
}

// Store groups the entity repositories with a scoped unit of work. InTx runs
// fn against a Store bound to one transaction; any error rolls the whole scope
// back, and balance-mutating operations must do all decision reads inside it.
type Store interface {
	ProfileRepo
	ContractRepo
	JobRepo
	InTx(ctx context.Context, fn func(Store) error) error
}
