package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yosef-agil/thirtys-api/internal/pkg/jwt"
)

func authedHandler(t *testing.T, wantID uuid.UUID) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := GetAdminID(r.Context()); got != wantID {
			t.Errorf("GetAdminID() = %v, want %v", got, wantID)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAdminAuthBearerHeader(t *testing.T) {
	jwtService := jwt.NewService("test-secret", time.Hour)
	adminID := uuid.New()
	token, err := jwtService.GenerateToken(adminID, "owner")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	handler := AdminAuth(jwtService)(authedHandler(t, adminID))

	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestAdminAuthQueryTokenFallback(t *testing.T) {
	jwtService := jwt.NewService("test-secret", time.Hour)
	adminID := uuid.New()
	token, err := jwtService.GenerateToken(adminID, "owner")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	handler := AdminAuth(jwtService)(authedHandler(t, adminID))

	req := httptest.NewRequest(http.MethodGet, "/ws/admin/feed?token="+token, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestAdminAuthRejections(t *testing.T) {
	jwtService := jwt.NewService("test-secret", time.Hour)
	expired := jwt.NewService("test-secret", -time.Hour)
	expiredToken, _ := expired.GenerateToken(uuid.New(), "owner")

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing token"},
		{name: "malformed header", header: "Token abc"},
		{name: "garbage token", header: "Bearer not-a-jwt"},
		{name: "expired token", header: "Bearer " + expiredToken},
		{name: "wrong secret", header: "Bearer " + mustToken(t, "other-secret")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := AdminAuth(jwtService)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("handler reached without valid token")
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func mustToken(t *testing.T, secret string) string {
	t.Helper()
	token, err := jwt.NewService(secret, time.Hour).GenerateToken(uuid.New(), "owner")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	return token
}
