package staff

import "context"

// Repository is the persistence contract for staff accounts.
type Repository interface {
	Create(ctx context.Context, a *Account) error
	GetByUsername(ctx context.Context, username string) (*Account, error)

	// SetTOTPSecret stores a pending secret without enabling it.
	SetTOTPSecret(ctx context.Context, username, secret string) error

	// EnableTOTP flips the enabled flag once the owner has proven possession
	// of the secret with a valid code.
	EnableTOTP(ctx context.Context, username string) error
}
