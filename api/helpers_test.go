package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/garnizeh/gigpay/pkg/models"
	"github.com/garnizeh/gigpay/pkg/repository/mock"
)

const testJWTSecret = "test-secret-key"

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

// mustDec is for fixture literals known to be valid.
func mustDec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// withProfile injects the authenticated profile the way the auth middleware
// does, so handlers can be tested without the full router.
func withProfile(r *http.Request, p *models.Profile) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), CtxProfile, p))
}

// seedStore builds the standard handler-test fixture: a client with a
// contractor under one in_progress contract carrying one unpaid job.
func seedStore(t *testing.T) (*mock.Store, *models.Profile, *models.Profile, *models.Contract, *models.Job) {
	t.Helper()
	store := mock.NewStore()
	client := store.AddProfile(models.Profile{FirstName: "Harry", LastName: "Potter", Balance: dec(t, "1000"), Type: models.ProfileTypeClient})
	contractor := store.AddProfile(models.Profile{FirstName: "John", LastName: "Lenon", Profession: "Musician", Balance: dec(t, "100"), Type: models.ProfileTypeContractor})
	contract := store.AddContract(models.Contract{Status: models.ContractStatusInProgress, ClientID: client.ID, ContractorID: contractor.ID})
	job := store.AddJob(models.Job{Description: "work", Price: dec(t, "200"), ContractID: contract.ID})
	return store, client, contractor, contract, job
}
