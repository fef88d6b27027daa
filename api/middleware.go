package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"log/slog"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/garnizeh/gigpay/pkg/models"
	"github.com/garnizeh/gigpay/pkg/repository"
)

type ctxKey string

const (
	CtxProfile   ctxKey = "profile"
	CtxRequestID ctxKey = "request_id"
)

// ProfileHeader carries the requesting profile id on every protected request.
const ProfileHeader = "profile_id"

// package-level logger used by middleware and helpers; can be set via SetLogger from caller
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger installs a logger for the api package. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// ProfileFromContext returns the authenticated profile, or nil outside the
// auth middleware.
func ProfileFromContext(ctx context.Context) *models.Profile {
	p, _ := ctx.Value(CtxProfile).(*models.Profile)
	return p
}

func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		logger.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote", r.RemoteAddr),
			slog.String("request_id", requestID),
		)

		ctx := context.WithValue(r.Context(), CtxRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, profile_id")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic", slog.Any("err", err))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// ProfileAuthMiddleware resolves the requesting profile. The profile_id
// header is the primary contract; a Bearer token issued by the auth endpoints
// is accepted when the header is absent. An unresolvable profile is a 401.
func ProfileAuthMiddleware(profiles repository.ProfileRepo, jwtSecret string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profileID, ok := resolveProfileID(r, jwtSecret)
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			profile, err := profiles.GetProfileByID(r.Context(), profileID)
			if err != nil {
				logger.Error("auth profile lookup", slog.Any("err", err))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			if profile == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), CtxProfile, profile)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveProfileID(r *http.Request, jwtSecret string) (int64, bool) {
	if v := r.Header.Get(ProfileHeader); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return 0, false
		}
		return id, true
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return 0, false
	}

	var tokenString string
	if _, err := fmt.Sscanf(authHeader, "Bearer %s", &tokenString); err != nil || tokenString == "" {
		return 0, false
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}
	switch id := claims["profile_id"].(type) {
	case float64:
		return int64(id), id > 0
	case int64:
		return id, id > 0
	default:
		return 0, false
	}
}
