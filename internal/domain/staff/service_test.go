package staff

import (
	"context"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/rs/zerolog"

	"github.com/clinicdesk/clinicdesk/internal/platform/auth"
)

type mockRepo struct {
	accounts map[string]*Account
}

func newMockRepo() *mockRepo {
	return &mockRepo{accounts: make(map[string]*Account)}
}

func (m *mockRepo) Create(_ context.Context, a *Account) error {
	if _, ok := m.accounts[a.Username]; ok {
		return ErrUsernameTaken
	}
	cp := *a
	m.accounts[a.Username] = &cp
	return nil
}

func (m *mockRepo) GetByUsername(_ context.Context, username string) (*Account, error) {
	a, ok := m.accounts[username]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockRepo) SetTOTPSecret(_ context.Context, username, secret string) error {
	a, ok := m.accounts[username]
	if !ok {
		return ErrNotFound
	}
	a.TOTPSecret = &secret
	a.TOTPEnabled = false
	return nil
}

func (m *mockRepo) EnableTOTP(_ context.Context, username string) error {
	a, ok := m.accounts[username]
	if !ok || a.TOTPSecret == nil {
		return ErrNotFound
	}
	a.TOTPEnabled = true
	return nil
}

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	issuer := auth.NewTokenIssuer([]byte("test-secret-test-secret-test-1234"), "clinicdesk", time.Hour)
	return NewService(repo, issuer, zerolog.Nop()), repo
}

func TestCreateAccountAndLogin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	a, err := svc.CreateAccount(ctx, "mgreen", "Dr. Green", "admin", "s3cret-pass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.PasswordHash == "s3cret-pass" {
		t.Error("expected password to be hashed")
	}
	if a.Role != "admin" {
		t.Errorf("unexpected role: %s", a.Role)
	}

	token, err := svc.Login(ctx, "mgreen", "s3cret-pass", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}

	issuer := auth.NewTokenIssuer([]byte("test-secret-test-secret-test-1234"), "clinicdesk", time.Hour)
	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims.Subject != "mgreen" || claims.Name != "Dr. Green" || claims.Role != "admin" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestCreateAccount_DefaultsRole(t *testing.T) {
	svc, _ := newTestService()

	a, err := svc.CreateAccount(context.Background(), "mgreen", "Dr. Green", "", "s3cret-pass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Role != RoleAdmin {
		t.Errorf("expected default role admin, got %s", a.Role)
	}
}

func TestCreateAccount_DuplicateUsername(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	svc.CreateAccount(ctx, "mgreen", "Dr. Green", "admin", "s3cret-pass")
	_, err := svc.CreateAccount(ctx, "mgreen", "Other", "admin", "other-pass")
	if err != ErrUsernameTaken {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	svc.CreateAccount(ctx, "mgreen", "Dr. Green", "admin", "s3cret-pass")
	_, err := svc.Login(ctx, "mgreen", "wrong", "")
	if err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownUsername(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Login(context.Background(), "nobody", "whatever", "")
	if err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestTOTPEnrollmentAndLogin(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	svc.CreateAccount(ctx, "mgreen", "Dr. Green", "admin", "s3cret-pass")

	url, err := svc.BeginTOTP(ctx, "mgreen")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url == "" {
		t.Fatal("expected provisioning URL")
	}

	secret := *repo.accounts["mgreen"].TOTPSecret

	// Password login still works while the secret is pending.
	if _, err := svc.Login(ctx, "mgreen", "s3cret-pass", ""); err != nil {
		t.Fatalf("pending secret must not block login: %v", err)
	}

	if err := svc.ConfirmTOTP(ctx, "mgreen", "000000"); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials for bad code, got %v", err)
	}

	code, err := totp.GenerateCode(secret, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.ConfirmTOTP(ctx, "mgreen", code); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Login(ctx, "mgreen", "s3cret-pass", ""); err != ErrTOTPRequired {
		t.Errorf("expected ErrTOTPRequired, got %v", err)
	}
	if _, err := svc.Login(ctx, "mgreen", "s3cret-pass", "000000"); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials for bad code, got %v", err)
	}

	code, _ = totp.GenerateCode(secret, time.Now())
	token, err := svc.Login(ctx, "mgreen", "s3cret-pass", code)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}
}

func TestMe(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	svc.CreateAccount(ctx, "mgreen", "Dr. Green", "admin", "s3cret-pass")

	a, err := svc.Me(ctx, "mgreen")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Name != "Dr. Green" {
		t.Errorf("unexpected account: %+v", a)
	}

	if _, err := svc.Me(ctx, "nobody"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
