package api

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/garnizeh/gigpay/pkg/models"
	"github.com/garnizeh/gigpay/pkg/repository"
)

// AuthHandler issues bearer tokens for profiles created with credentials.
// Token auth supplements the profile_id header; it never replaces it.
type AuthHandler struct {
	profileRepo   repository.ProfileRepo
	jwtSecret     string
	tokenDuration time.Duration
}

// NewAuthHandler creates a new AuthHandler with required dependencies.
func NewAuthHandler(pr repository.ProfileRepo, jwtSecret string, tokenDuration time.Duration) *AuthHandler {
	return &AuthHandler{profileRepo: pr, jwtSecret: jwtSecret, tokenDuration: tokenDuration}
}

type signupRequest struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Profession string `json:"profession"`
	Type       string `json:"type"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	ProfileID int64  `json:"profileId"`
	Token     string `json:"token"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if err := validateBody(r.Context(), signupSchema, body); err != nil {
		writeError(w, err)
		return
	}

	var req signupRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	// Hash password
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Error hashing password", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()

	profile := models.Profile{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Profession:   req.Profession,
		Balance:      decimal.Zero,
		Type:         models.ProfileType(req.Type),
		Email:        req.Email,
		PasswordHash: string(hash),
	}

	profileID, err := h.profileRepo.CreateProfile(ctx, &profile)
	if err != nil {
		http.Error(w, "Error creating profile", http.StatusInternalServerError)
		return
	}

	tokenStr, err := h.issueToken(profileID)
	if err != nil {
		http.Error(w, "Error signing token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, authResponse{ProfileID: profileID, Token: tokenStr}, http.StatusOK)
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "Missing fields", http.StatusBadRequest)
		return
	}

	profile, err := h.profileRepo.GetProfileByEmail(r.Context(), req.Email)
	if err != nil || profile == nil {
		http.Error(w, "Credentials not found", http.StatusUnauthorized)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)) != nil {
		http.Error(w, "Credentials not found", http.StatusUnauthorized)
		return
	}

	tokenStr, err := h.issueToken(profile.ID)
	if err != nil {
		http.Error(w, "Error signing token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, authResponse{ProfileID: profile.ID, Token: tokenStr}, http.StatusOK)
}

func (h *AuthHandler) issueToken(profileID int64) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"profile_id": profileID,
		"exp":        time.Now().Add(h.tokenDuration).Unix(),
	})
	return token.SignedString([]byte(h.jwtSecret))
}
