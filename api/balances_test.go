package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/garnizeh/gigpay/internal/payments"
	"github.com/garnizeh/gigpay/pkg/models"
)

func depositRequestFor(t *testing.T, profile *models.Profile, targetID int64, body string) *http.Request {
	t.Helper()
	target := strconv.FormatInt(targetID, 10)
	req := httptest.NewRequest("POST", "/balances/deposit/"+target, strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"userId": target})
	return withProfile(req, profile)
}

func TestBalancesDeposit(t *testing.T) {
	// unpaid total is 200, so the cap is 50

	t.Run("success", func(t *testing.T) {
		store, client, _, _, _ := seedStore(t)
		handler := NewBalancesHandler(payments.NewEngine(store, nil))

		rr := httptest.NewRecorder()
		handler.Deposit(rr, depositRequestFor(t, client, client.ID, `{"amount": 50}`))

		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body: %s)", rr.Code, rr.Body)
		}
		var got models.Profile
		if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
			t.Fatalf("decode profile: %v", err)
		}
		if !got.Balance.Equal(dec(t, "1050")) {
			t.Fatalf("balance = %s, want 1050", got.Balance)
		}
	})

	t.Run("over the cap", func(t *testing.T) {
		store, client, _, _, _ := seedStore(t)
		handler := NewBalancesHandler(payments.NewEngine(store, nil))

		rr := httptest.NewRecorder()
		handler.Deposit(rr, depositRequestFor(t, client, client.ID, `{"amount": 50.01}`))

		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400 (body: %s)", rr.Code, rr.Body)
		}
		var body errorBody
		if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode error body: %v", err)
		}
		if body.Error.Code != "deposit_cap_exceeded" {
			t.Fatalf("code = %q, want %q", body.Error.Code, "deposit_cap_exceeded")
		}
		if !store.Profiles[client.ID].Balance.Equal(dec(t, "1000")) {
			t.Fatalf("balance changed after rejected deposit: %s", store.Profiles[client.ID].Balance)
		}
	})

	t.Run("someone else's account is 403", func(t *testing.T) {
		store, client, contractor, _, _ := seedStore(t)
		handler := NewBalancesHandler(payments.NewEngine(store, nil))

		rr := httptest.NewRecorder()
		handler.Deposit(rr, depositRequestFor(t, client, contractor.ID, `{"amount": 10}`))

		if rr.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403 (body: %s)", rr.Code, rr.Body)
		}
	})

	t.Run("malformed target id is 404", func(t *testing.T) {
		store, client, _, _, _ := seedStore(t)
		handler := NewBalancesHandler(payments.NewEngine(store, nil))

		req := httptest.NewRequest("POST", "/balances/deposit/abc", strings.NewReader(`{"amount": 10}`))
		req = mux.SetURLVars(req, map[string]string{"userId": "abc"})
		req = withProfile(req, client)
		rr := httptest.NewRecorder()
		handler.Deposit(rr, req)

		if rr.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rr.Code)
		}
	})

	t.Run("schema rejects bad payloads", func(t *testing.T) {
		store, client, _, _, _ := seedStore(t)
		handler := NewBalancesHandler(payments.NewEngine(store, nil))

		for _, body := range []string{
			`{}`,
			`{"amount": "ten"}`,
			`{"amount": -5}`,
			`{"amount": 0}`,
			`{"amount": 10, "extra": true}`,
			`not json`,
		} {
			rr := httptest.NewRecorder()
			handler.Deposit(rr, depositRequestFor(t, client, client.ID, body))
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("body %q: status = %d, want 400", body, rr.Code)
			}
		}
	})
}
