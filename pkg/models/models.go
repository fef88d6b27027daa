package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Domain models matching the database schema in db/migrations/0001_init.sql

type ProfileType string

const (
	ProfileTypeClient     ProfileType = "client"
	ProfileTypeContractor ProfileType = "contractor"
	ProfileTypeAdmin      ProfileType = "admin"
)

// Profile is a user account with a monetary balance. The balance is mutated
// only by the payment engine.
type Profile struct {
	ID           int64           `json:"id" db:"id"`
	FirstName    string          `json:"firstName" db:"first_name"`
	LastName     string          `json:"lastName" db:"last_name"`
	Profession   string          `json:"profession" db:"profession"`
	Balance      decimal.Decimal `json:"balance" db:"balance"`
	Type         ProfileType     `json:"type" db:"type"`
	Email        string          `json:"email,omitempty" db:"email"`
	PasswordHash string          `json:"-" db:"password_hash"`
	Created      int64           `json:"created" db:"created"`
	Updated      int64           `json:"updated" db:"updated"`
}

// FullName joins first and last name with a single space.
func (p *Profile) FullName() string {
	return p.FirstName + " " + p.LastName
}

type ContractStatus string

const (
	ContractStatusNew        ContractStatus = "new"
	ContractStatusInProgress ContractStatus = "in_progress"
	ContractStatusTerminated ContractStatus = "terminated"
)

// Contract links one client profile to one contractor profile. A contract is
// active as long as its status is not terminated.
type Contract struct {
	ID           int64          `json:"id" db:"id"`
	Terms        string         `json:"terms" db:"terms"`
	Status       ContractStatus `json:"status" db:"status"`
	ClientID     int64          `json:"clientId" db:"client_id"`
	ContractorID int64          `json:"contractorId" db:"contractor_id"`
	Created      int64          `json:"created" db:"created"`
	Updated      int64          `json:"updated" db:"updated"`
}

// Active reports whether the contract still groups billable work.
func (c *Contract) Active() bool {
	return c.Status != ContractStatusTerminated
}

// Job is a billable unit of work under a contract. It is paid at most once:
// the transition to paid sets PaymentDate and is never reversed.
type Job struct {
	ID          int64           `json:"id" db:"id"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Paid        bool            `json:"paid" db:"paid"`
	PaymentDate *time.Time      `json:"paymentDate,omitempty" db:"payment_date"`
	ContractID  int64           `json:"contractId" db:"contract_id"`
	Created     int64           `json:"created" db:"created"`
	Updated     int64           `json:"updated" db:"updated"`
}

// PaidJobRecord is one paid job joined with both contract parties. It is the
// raw input the reporting engine aggregates.
type PaidJobRecord struct {
	JobID           int64
	Price           decimal.Decimal
	PaymentDate     time.Time
	ContractID      int64
	ClientID        int64
	ClientFirstName string
	ClientLastName  string
	ContractorID    int64
	Profession      string
}

// ClientEarnings is one row of the best-clients report.
type ClientEarnings struct {
	ID       int64           `json:"id"`
	FullName string          `json:"fullName"`
	Paid     decimal.Decimal `json:"paid"`
}
