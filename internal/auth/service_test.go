package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/smartinv/inventory-backend/internal/users"
	pkgAuth "github.com/smartinv/inventory-backend/pkg/auth"
	"github.com/smartinv/inventory-backend/pkg/config"
	"github.com/smartinv/inventory-backend/pkg/db/models"
	"github.com/smartinv/inventory-backend/pkg/enums"
	pkgerrors "github.com/smartinv/inventory-backend/pkg/errors"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "smartinv",
		ExpirationMinutes: 30,
	}
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newTestService(t *testing.T) Service {
	t.Helper()

	dsn := fmt.Sprintf("file:auth_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	svc, err := NewService(ServiceParams{
		UserRepo:       users.NewRepository(conn),
		JWTConfig:      testJWTConfig(),
		PasswordConfig: testPasswordConfig(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func mustRegister(t *testing.T, svc Service, req RegisterRequest) *users.UserDTO {
	t.Helper()
	dto, err := svc.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return dto
}

func TestLoginSuccess(t *testing.T) {
	svc := newTestService(t)
	registered := mustRegister(t, svc, RegisterRequest{
		Username: "warehouse",
		Password: "warehouse-pass-1",
		Name:     "Warehouse Admin",
		Role:     enums.UserRoleSuperAdmin,
	})

	resp, err := svc.Login(context.Background(), LoginRequest{
		Username: "warehouse",
		Password: "warehouse-pass-1",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("expected a token")
	}
	if resp.TokenType != "bearer" {
		t.Fatalf("expected bearer token type, got %q", resp.TokenType)
	}

	wire, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	for _, field := range []string{`"accessToken"`, `"tokenType"`, `"user"`} {
		if !strings.Contains(string(wire), field) {
			t.Fatalf("expected %s in login payload, got %s", field, wire)
		}
	}
	if resp.User == nil || resp.User.ID != registered.ID {
		t.Fatalf("unexpected user in response: %+v", resp.User)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != registered.ID {
		t.Fatalf("expected token subject %s, got %s", registered.ID, claims.UserID)
	}
	if claims.Role != enums.UserRoleSuperAdmin {
		t.Fatalf("unexpected token role %s", claims.Role)
	}
}

func TestLoginBadCredentialsAreUniform(t *testing.T) {
	svc := newTestService(t)
	mustRegister(t, svc, RegisterRequest{
		Username: "warehouse",
		Password: "warehouse-pass-1",
		Name:     "Warehouse Admin",
	})

	cases := []LoginRequest{
		{Username: "warehouse", Password: "wrong-password"},
		{Username: "nobody", Password: "whatever"},
		{Username: "", Password: ""},
	}
	for _, req := range cases {
		_, err := svc.Login(context.Background(), req)
		coded := pkgerrors.As(err)
		if coded == nil || coded.Code() != pkgerrors.CodeUnauthorized {
			t.Fatalf("expected unauthorized for %+v, got %v", req, err)
		}
		if coded.Message() != invalidCredentialsMessage {
			t.Fatalf("expected uniform message, got %q", coded.Message())
		}
	}
}

func TestRegisterDefaultsToAdminRole(t *testing.T) {
	svc := newTestService(t)
	dto := mustRegister(t, svc, RegisterRequest{
		Username: "clerk",
		Password: "clerk-pass-123",
		Name:     "Clerk",
	})
	if dto.Role != enums.UserRoleAdmin {
		t.Fatalf("expected default role ADMIN, got %s", dto.Role)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := newTestService(t)
	req := RegisterRequest{
		Username: "clerk",
		Password: "clerk-pass-123",
		Name:     "Clerk",
	}
	mustRegister(t, svc, req)

	_, err := svc.Register(context.Background(), req)
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestRegisterInvalidRole(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "clerk",
		Password: "clerk-pass-123",
		Name:     "Clerk",
		Role:     "OVERLORD",
	})
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateProfilePatchesOnlyProvidedFields(t *testing.T) {
	svc := newTestService(t)
	registered := mustRegister(t, svc, RegisterRequest{
		Username: "clerk",
		Password: "clerk-pass-123",
		Name:     "Clerk",
	})

	newName := "Senior Clerk"
	phone := "+1-555-0100"
	updated, err := svc.UpdateProfile(context.Background(), registered.ID, UpdateProfileRequest{
		Name:  &newName,
		Phone: &phone,
	})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}

	if updated.Name != newName {
		t.Fatalf("expected name %q, got %q", newName, updated.Name)
	}
	if updated.Phone == nil || *updated.Phone != phone {
		t.Fatalf("expected phone %q, got %v", phone, updated.Phone)
	}
	if updated.Username != registered.Username {
		t.Fatalf("username must be immutable, got %q", updated.Username)
	}
	if updated.Role != registered.Role {
		t.Fatalf("role must be immutable, got %s", updated.Role)
	}
}

func TestUpdateProfilePasswordChange(t *testing.T) {
	svc := newTestService(t)
	registered := mustRegister(t, svc, RegisterRequest{
		Username: "clerk",
		Password: "original-pass-1",
		Name:     "Clerk",
	})

	newPassword := "rotated-pass-22"
	if _, err := svc.UpdateProfile(context.Background(), registered.ID, UpdateProfileRequest{
		Password: &newPassword,
	}); err != nil {
		t.Fatalf("update profile: %v", err)
	}

	if _, err := svc.Login(context.Background(), LoginRequest{Username: "clerk", Password: "original-pass-1"}); err == nil {
		t.Fatal("old password should no longer work")
	}
	if _, err := svc.Login(context.Background(), LoginRequest{Username: "clerk", Password: newPassword}); err != nil {
		t.Fatalf("new password should work: %v", err)
	}
}

func TestUpdateProfileUnknownUser(t *testing.T) {
	svc := newTestService(t)
	name := "Ghost"
	_, err := svc.UpdateProfile(context.Background(), uuid.New(), UpdateProfileRequest{Name: &name})
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestListUsers(t *testing.T) {
	svc := newTestService(t)
	mustRegister(t, svc, RegisterRequest{Username: "first", Password: "password-123", Name: "First"})
	mustRegister(t, svc, RegisterRequest{Username: "second", Password: "password-123", Name: "Second"})

	dtos, err := svc.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(dtos) != 2 {
		t.Fatalf("expected 2 users, got %d", len(dtos))
	}
}

func TestDeleteUser(t *testing.T) {
	svc := newTestService(t)
	registered := mustRegister(t, svc, RegisterRequest{
		Username: "doomed",
		Password: "password-123",
		Name:     "Doomed",
	})

	if err := svc.DeleteUser(context.Background(), registered.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	err := svc.DeleteUser(context.Background(), registered.ID)
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}
