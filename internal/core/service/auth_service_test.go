package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/inventory-api/internal/core/domain"
	"github.com/99minutos/inventory-api/internal/core/ports"
)

func newTestAuthService(repo *stubUserRepo, sink ports.AuditSink) (*AuthService, *TokenService) {
	tokens := NewTokenService("test-secret", time.Hour)
	return NewAuthService(repo, tokens, bcrypt.MinCost, sink, zerolog.Nop()), tokens
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	sink := &recordingSink{}
	svc, tokens := newTestAuthService(repo, sink)

	res, err := svc.Register(context.Background(), ports.RegisterInput{Email: "  Alice@Example.com ", Password: "secret1"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.User.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", res.User.Email)
	}
	if res.User.Role != domain.RoleUser {
		t.Fatalf("expected default role user, got %q", res.User.Role)
	}
	if res.User.PasswordHash == "secret1" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(res.User.PasswordHash), []byte("secret1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	claims, err := tokens.Verify(res.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.Subject != res.User.ID {
		t.Fatalf("token subject = %q, want %q", claims.Subject, res.User.ID)
	}

	if got := sink.actions(); len(got) != 1 || got[0] != domain.AuditUserRegistered {
		t.Fatalf("unexpected audit events: %v", got)
	}
}

func TestAuthService_Register_AdminRole(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo(), nil)

	res, err := svc.Register(context.Background(), ports.RegisterInput{Email: "root@example.com", Password: "secret1", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.User.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %q", res.User.Role)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo(), nil)
	ctx := context.Background()

	if _, err := svc.Register(ctx, ports.RegisterInput{Email: "bob@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}
	_, err := svc.Register(ctx, ports.RegisterInput{Email: "BOB@example.com", Password: "other12"})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_Register_LostRaceOnEmail(t *testing.T) {
	repo := newStubUserRepo()
	sink := &recordingSink{}
	svc, _ := newTestAuthService(repo, sink)
	ctx := context.Background()

	if _, err := svc.Register(ctx, ports.RegisterInput{Email: "eve@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}
	repo.staleLookup = true

	res, err := svc.Register(ctx, ports.RegisterInput{Email: "eve@example.com", Password: "other12"})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken from the store, got %v", err)
	}
	if res != nil {
		t.Fatalf("expected no result, got %+v", res)
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected one stored user, got %d", len(repo.users))
	}
	if got := sink.actions(); len(got) != 1 {
		t.Fatalf("rejected registration must not be audited: %v", got)
	}
}

func TestAuthService_Register_Invalid(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo(), nil)
	ctx := context.Background()

	cases := []ports.RegisterInput{
		{Email: "", Password: "secret1"},
		{Email: "a@example.com", Password: ""},
		{Email: "a@example.com", Password: "secret1", Role: "superuser"},
	}
	for _, in := range cases {
		if _, err := svc.Register(ctx, in); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("Register(%+v): expected ErrValidation, got %v", in, err)
		}
	}
}

func TestAuthService_Register_StoreFailure(t *testing.T) {
	repo := newStubUserRepo()
	repo.findErr = errors.New("connection reset")
	svc, _ := newTestAuthService(repo, nil)

	_, err := svc.Register(context.Background(), ports.RegisterInput{Email: "c@example.com", Password: "secret1"})
	if err == nil || errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected store error to propagate, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, tokens := newTestAuthService(newStubUserRepo(), nil)
	ctx := context.Background()

	reg, err := svc.Register(ctx, ports.RegisterInput{Email: "dana@example.com", Password: "secret1", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	res, err := svc.Login(ctx, "Dana@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if res.User.ID != reg.User.ID {
		t.Fatalf("Login user id = %q, want %q", res.User.ID, reg.User.ID)
	}
	claims, err := tokens.Verify(res.Token)
	if err != nil {
		t.Fatalf("login token does not verify: %v", err)
	}
	if claims.Role != domain.RoleAdmin {
		t.Fatalf("token role = %q, want admin", claims.Role)
	}
}

func TestAuthService_Login_Secrecy(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo(), nil)
	ctx := context.Background()

	if _, err := svc.Register(ctx, ports.RegisterInput{Email: "eve@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	_, wrongPassword := svc.Login(ctx, "eve@example.com", "nope123")
	_, unknownEmail := svc.Login(ctx, "ghost@example.com", "secret1")

	if !errors.Is(wrongPassword, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPassword)
	}
	if !errors.Is(unknownEmail, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", unknownEmail)
	}
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Fatalf("messages differ: %q vs %q", wrongPassword.Error(), unknownEmail.Error())
	}
}

func TestNewAuthService_ClampsCost(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), NewTokenService("s", 0), 99, nil, zerolog.Nop())
	if svc.bcryptCost != bcrypt.DefaultCost {
		t.Fatalf("bcryptCost = %d, want %d", svc.bcryptCost, bcrypt.DefaultCost)
	}
}
