package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"dealerhub_backend/internal/auth/repository"
	"dealerhub_backend/internal/auth/roles"
	"dealerhub_backend/internal/auth/transport"
	"dealerhub_backend/platform/apperr"
	"dealerhub_backend/platform/logger"
)

type testAuthConfig struct{}

func (testAuthConfig) GetJWTAccessSecret() string       { return "test-secret" }
func (testAuthConfig) GetAccessTokenTTL() time.Duration { return time.Hour }

func newTestService() *Service {
	return New(nil, testAuthConfig{}, logger.New("development"))
}

func TestSignAccessTokenClaims(t *testing.T) {
	svc := newTestService()
	dealerID := uuid.New()
	user := repository.User{
		ID:       uuid.New(),
		Email:    "sales@menlyn-toyota.example",
		Role:     roles.SalesManager,
		DealerID: &dealerID,
	}

	raw, err := svc.signAccessToken(user, time.Hour)
	if err != nil {
		t.Fatalf("signAccessToken returned error: %v", err)
	}

	parsed, err := jwt.Parse(raw, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}

	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != user.ID.String() {
		t.Errorf("sub = %v, want user id", claims["sub"])
	}
	if claims["type"] != "access" {
		t.Errorf("type = %v, want access", claims["type"])
	}
	if claims["role"] != roles.SalesManager {
		t.Errorf("role = %v, want %s", claims["role"], roles.SalesManager)
	}
	if claims["dealer_id"] != dealerID.String() {
		t.Errorf("dealer_id = %v, want %s", claims["dealer_id"], dealerID)
	}
}

func TestSignAccessTokenOmitsDealerForAdmin(t *testing.T) {
	svc := newTestService()

	raw, err := svc.signAccessToken(repository.User{ID: uuid.New(), Role: roles.Admin}, time.Hour)
	if err != nil {
		t.Fatalf("signAccessToken returned error: %v", err)
	}

	parsed, _ := jwt.Parse(raw, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	claims := parsed.Claims.(jwt.MapClaims)
	if _, ok := claims["dealer_id"]; ok {
		t.Error("admin token must not carry a dealer_id claim")
	}
}

func TestCreateUserRoleValidation(t *testing.T) {
	svc := newTestService()
	dealerID := uuid.New()

	cases := []struct {
		name string
		req  transport.CreateUserRequest
	}{
		{"unknown role", transport.CreateUserRequest{
			Email: "a@example.com", Password: "password123", Name: "A", Role: "SUPERUSER",
		}},
		{"dealer-side role without dealer", transport.CreateUserRequest{
			Email: "b@example.com", Password: "password123", Name: "B", Role: roles.SalesExecutive,
		}},
		{"admin with dealer", transport.CreateUserRequest{
			Email: "c@example.com", Password: "password123", Name: "C", Role: roles.Admin, DealerID: &dealerID,
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateUser(context.Background(), tc.req)
			if apperr.GetKind(err) != apperr.KindValidation {
				t.Fatalf("expected a validation error, got %v", err)
			}
		})
	}
}
