package staff

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinicdesk/clinicdesk/internal/platform/auth"
)

// Service implements staff account management and login.
type Service struct {
	repo   Repository
	issuer *auth.TokenIssuer
	log    zerolog.Logger

	totpIssuer string
}

func NewService(repo Repository, issuer *auth.TokenIssuer, log zerolog.Logger) *Service {
	return &Service{
		repo:       repo,
		issuer:     issuer,
		log:        log.With().Str("component", "staff").Logger(),
		totpIssuer: "ClinicDesk",
	}
}

// Login verifies the password, and the TOTP code when the account has one
// enabled, then issues a session token. All verification failures surface as
// ErrInvalidCredentials except a missing-but-required TOTP code.
func (s *Service) Login(ctx context.Context, username, password, totpCode string) (string, error) {
	a, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if err == ErrNotFound {
			// Burn a comparison so unknown usernames cost the same as
			// wrong passwords.
			bcrypt.CompareHashAndPassword([]byte("$2a$10$0000000000000000000000"), []byte(password))
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("load account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		s.log.Warn().Str("username", username).Msg("failed login attempt")
		return "", ErrInvalidCredentials
	}

	if a.TOTPEnabled {
		if totpCode == "" {
			return "", ErrTOTPRequired
		}
		if a.TOTPSecret == nil || !totp.Validate(totpCode, *a.TOTPSecret) {
			s.log.Warn().Str("username", username).Msg("failed totp verification")
			return "", ErrInvalidCredentials
		}
	}

	token, err := s.issuer.Issue(a.Username, a.Name, a.Role)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	s.log.Info().Str("username", username).Str("role", a.Role).Msg("staff login")
	return token, nil
}

// CreateAccount registers a staff login with a bcrypt-hashed password.
func (s *Service) CreateAccount(ctx context.Context, username, name, role, password string) (*Account, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	if role == "" {
		role = RoleAdmin
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	a := &Account{
		ID:           uuid.New(),
		Username:     username,
		Name:         name,
		Role:         role,
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.log.Info().Str("username", username).Str("role", role).Msg("staff account created")
	return a, nil
}

// BeginTOTP generates and stores a pending TOTP secret for the account and
// returns the otpauth provisioning URL for the authenticator app. The secret
// stays disabled until ConfirmTOTP sees a valid code.
func (s *Service) BeginTOTP(ctx context.Context, username string) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.totpIssuer,
		AccountName: username,
	})
	if err != nil {
		return "", fmt.Errorf("generate totp secret: %w", err)
	}

	if err := s.repo.SetTOTPSecret(ctx, username, key.Secret()); err != nil {
		return "", err
	}
	return key.URL(), nil
}

// ConfirmTOTP enables two-factor login after the owner proves possession of
// the pending secret.
func (s *Service) ConfirmTOTP(ctx context.Context, username, code string) error {
	a, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if a.TOTPSecret == nil || !totp.Validate(code, *a.TOTPSecret) {
		return ErrInvalidCredentials
	}

	if err := s.repo.EnableTOTP(ctx, username); err != nil {
		return err
	}
	s.log.Info().Str("username", username).Msg("totp enabled")
	return nil
}

// Me returns the account behind an authenticated username.
func (s *Service) Me(ctx context.Context, username string) (*Account, error) {
	return s.repo.GetByUsername(ctx, username)
}
