package api

import (
	"context"
	"embed"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	dbfs "github.com/garnizeh/gigpay/db"
	"github.com/garnizeh/gigpay/internal/config"
	dbpkg "github.com/garnizeh/gigpay/internal/db"
	"github.com/garnizeh/gigpay/internal/repository/sqlite"
	"github.com/garnizeh/gigpay/pkg/models"
)

// TestRouterEndToEnd drives the whole stack through the router: auth
// middleware, handlers, engines and the sqlite store.
func TestRouterEndToEnd(t *testing.T) {
	ctx := context.Background()

	database, err := dbpkg.New(ctx, filepath.Join(t.TempDir(), "e2e.db"), nil)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := dbpkg.Migrate(ctx, database, dbfs.Migrations, embed.FS{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	repo := sqlite.New(database, nil)
	client := models.Profile{FirstName: "Harry", LastName: "Potter", Balance: mustDec("1000"), Type: models.ProfileTypeClient}
	clientID, err := repo.CreateProfile(ctx, &client)
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	contractor := models.Profile{FirstName: "John", LastName: "Lenon", Profession: "Musician", Balance: mustDec("0"), Type: models.ProfileTypeContractor}
	contractorID, err := repo.CreateProfile(ctx, &contractor)
	if err != nil {
		t.Fatalf("create contractor: %v", err)
	}
	contractID, err := repo.CreateContract(ctx, &models.Contract{Status: models.ContractStatusInProgress, ClientID: clientID, ContractorID: contractorID})
	if err != nil {
		t.Fatalf("create contract: %v", err)
	}
	jobID, err := repo.CreateJob(ctx, &models.Job{Description: "work", Price: mustDec("200"), ContractID: contractID})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}

	cfg := &config.Config{
		Addr:          ":0",
		JWTSecret:     testJWTSecret,
		APITimeout:    5 * time.Second,
		TokenDuration: time.Hour,
	}
	router := SetupRoutes(cfg, "test", "now", database)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	get := func(t *testing.T, path string, profileID int64) *http.Response {
		t.Helper()
		req, err := http.NewRequest("GET", srv.URL+path, nil)
		if err != nil {
			t.Fatalf("new request: %v", err)
		}
		if profileID != 0 {
			req.Header.Set(ProfileHeader, strconv.FormatInt(profileID, 10))
		}
		resp, err := srv.Client().Do(req)
		if err != nil {
			t.Fatalf("do request: %v", err)
		}
		return resp
	}

	t.Run("health is open", func(t *testing.T) {
		resp := get(t, "/health", 0)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
	})

	t.Run("protected routes require a profile", func(t *testing.T) {
		resp := get(t, "/contracts", 0)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", resp.StatusCode)
		}
	})

	t.Run("unpaid jobs for the client", func(t *testing.T) {
		resp := get(t, "/jobs/unpaid", clientID)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		var jobs []models.Job
		if err := json.NewDecoder(resp.Body).Decode(&jobs); err != nil {
			t.Fatalf("decode jobs: %v", err)
		}
		if len(jobs) != 1 || jobs[0].ID != jobID {
			t.Fatalf("expected the seeded unpaid job, got %#v", jobs)
		}
	})

	t.Run("pay the job", func(t *testing.T) {
		req, err := http.NewRequest("POST", srv.URL+"/jobs/"+strconv.FormatInt(jobID, 10)+"/pay", nil)
		if err != nil {
			t.Fatalf("new request: %v", err)
		}
		req.Header.Set(ProfileHeader, strconv.FormatInt(clientID, 10))
		resp, err := srv.Client().Do(req)
		if err != nil {
			t.Fatalf("do request: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}

		paid, err := repo.GetJobByID(ctx, jobID)
		if err != nil {
			t.Fatalf("get job: %v", err)
		}
		if !paid.Paid {
			t.Fatalf("job not marked paid in the store")
		}
		gotContractor, err := repo.GetProfileByID(ctx, contractorID)
		if err != nil {
			t.Fatalf("get contractor: %v", err)
		}
		if !gotContractor.Balance.Equal(mustDec("200")) {
			t.Fatalf("contractor balance = %s, want 200", gotContractor.Balance)
		}
	})
}
