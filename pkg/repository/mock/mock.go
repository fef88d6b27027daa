// Package mock provides an in-memory Store for handler and engine tests.
// It is not safe for concurrent use; concurrency behavior is covered by the
// sqlite-backed tests.
package mock

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/garnizeh/gigpay/pkg/models"
	"github.com/garnizeh/gigpay/pkg/repository"
)

type Store struct {
	Profiles  map[int64]*models.Profile
	Contracts map[int64]*models.Contract
	Jobs      map[int64]*models.Job

	nextProfileID  int64
	nextContractID int64
	nextJobID      int64

	// forced failures
	CreateProfileErr error
	GetProfileErr    error

	// call counters
	InTxCalls        int
	ListPaidCalls    int
	ListUnpaidCalls  int
	UpdateBalanceLog []int64
}

var _ repository.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		Profiles:  make(map[int64]*models.Profile),
		Contracts: make(map[int64]*models.Contract),
		Jobs:      make(map[int64]*models.Job),
	}
}

// AddProfile seeds a profile and returns it for convenience.
func (s *Store) AddProfile(p models.Profile) *models.Profile {
	if p.ID == 0 {
		s.nextProfileID++
		p.ID = s.nextProfileID
	} else if p.ID > s.nextProfileID {
		s.nextProfileID = p.ID
	}
	cp := p
	s.Profiles[cp.ID] = &cp
	return &cp
}

func (s *Store) AddContract(c models.Contract) *models.Contract {
	if c.ID == 0 {
		s.nextContractID++
		c.ID = s.nextContractID
	} else if c.ID > s.nextContractID {
		s.nextContractID = c.ID
	}
	cp := c
	s.Contracts[cp.ID] = &cp
	return &cp
}

func (s *Store) AddJob(j models.Job) *models.Job {
	if j.ID == 0 {
		s.nextJobID++
		j.ID = s.nextJobID
	} else if j.ID > s.nextJobID {
		s.nextJobID = j.ID
	}
	cp := j
	s.Jobs[cp.ID] = &cp
	return &cp
}

func (s *Store) CreateProfile(ctx context.Context, p *models.Profile) (int64, error) {
	if s.CreateProfileErr != nil {
		return 0, s.CreateProfileErr
	}
	if p == nil {
		return 0, fmt.Errorf("profile is nil")
	}
	stored := s.AddProfile(*p)
	return stored.ID, nil
}

func (s *Store) GetProfileByID(ctx context.Context, id int64) (*models.Profile, error) {
	if s.GetProfileErr != nil {
		return nil, s.GetProfileErr
	}
	p, ok := s.Profiles[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *Store) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	for _, p := range s.Profiles {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Store) UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	p, ok := s.Profiles[id]
	if !ok {
		return fmt.Errorf("profile %d not found", id)
	}
	p.Balance = balance
	s.UpdateBalanceLog = append(s.UpdateBalanceLog, id)
	return nil
}

func (s *Store) CreateContract(ctx context.Context, c *models.Contract) (int64, error) {
	if c == nil {
		return 0, fmt.Errorf("contract is nil")
	}
	stored := s.AddContract(*c)
	return stored.ID, nil
}

func (s *Store) GetContractByID(ctx context.Context, id int64) (*models.Contract, error) {
	c, ok := s.Contracts[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (s *Store) ListContractsByClient(ctx context.Context, clientID int64) ([]models.Contract, error) {
	var out []models.Contract
	for id := int64(1); id <= s.nextContractID; id++ {
		c, ok := s.Contracts[id]
		if ok && c.ClientID == clientID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *Store) ListActiveContractsByProfile(ctx context.Context, profileID int64) ([]models.Contract, error) {
	var out []models.Contract
	for id := int64(1); id <= s.nextContractID; id++ {
		c, ok := s.Contracts[id]
		if !ok || c.Status == models.ContractStatusTerminated {
			continue
		}
		if c.ClientID == profileID || c.ContractorID == profileID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *Store) CreateJob(ctx context.Context, j *models.Job) (int64, error) {
	if j == nil {
		return 0, fmt.Errorf("job is nil")
	}
	stored := s.AddJob(*j)
	return stored.ID, nil
}

func (s *Store) GetJobByID(ctx context.Context, id int64) (*models.Job, error) {
	j, ok := s.Jobs[id]
	if !ok {
		return nil, nil
	}
	cp := *j
	return &cp, nil
}

func (s *Store) ListUnpaidJobsByContracts(ctx context.Context, contractIDs []int64) ([]models.Job, error) {
	s.ListUnpaidCalls++
	ids := make(map[int64]bool, len(contractIDs))
	for _, id := range contractIDs {
		ids[id] = true
	}
	var out []models.Job
	for id := int64(1); id <= s.nextJobID; id++ {
		j, ok := s.Jobs[id]
		if ok && !j.Paid && ids[j.ContractID] {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (s *Store) MarkJobPaid(ctx context.Context, id int64, paymentDate time.Time) (bool, error) {
	j, ok := s.Jobs[id]
	if !ok {
		return false, fmt.Errorf("job %d not found", id)
	}
	if j.Paid {
		return false, nil
	}
	j.Paid = true
	pd := paymentDate.UTC()
	j.PaymentDate = &pd
	return true, nil
}

func (s *Store) ListPaidJobsBetween(ctx context.Context, start, end *time.Time) ([]models.PaidJobRecord, error) {
	s.ListPaidCalls++
	var out []models.PaidJobRecord
	for id := int64(1); id <= s.nextJobID; id++ {
		j, ok := s.Jobs[id]
		if !ok || !j.Paid || j.PaymentDate == nil {
			continue
		}
		if start != nil && j.PaymentDate.Before(*start) {
			continue
		}
		if end != nil && j.PaymentDate.After(*end) {
			continue
		}
		c := s.Contracts[j.ContractID]
		if c == nil {
			continue
		}
		client := s.Profiles[c.ClientID]
		contractor := s.Profiles[c.ContractorID]
		if client == nil || contractor == nil {
			continue
		}
		out = append(out, models.PaidJobRecord{
			JobID:           j.ID,
			Price:           j.Price,
			PaymentDate:     *j.PaymentDate,
			ContractID:      c.ID,
			ClientID:        client.ID,
			ClientFirstName: client.FirstName,
			ClientLastName:  client.LastName,
			ContractorID:    contractor.ID,
			Profession:      contractor.Profession,
		})
	}
	return out, nil
}

// InTx runs fn against the same store; the mock has no transaction scope.
func (s *Store) InTx(ctx context.Context, fn func(repository.Store) error) error {
	s.InTxCalls++
	return fn(s)
}
