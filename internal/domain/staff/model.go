package staff

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Account is a clinic staff login. The password hash and TOTP secret never
// leave the server.
type Account struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Name         string    `db:"name" json:"name"`
	Role         string    `db:"role" json:"role"`
	PasswordHash string    `db:"password_hash" json:"-"`
	TOTPSecret   *string   `db:"totp_secret" json:"-"`
	TOTPEnabled  bool      `db:"totp_enabled" json:"totp_enabled"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

const (
	RoleAdmin = "admin"
)

var (
	ErrNotFound = errors.New("staff account not found")

	// ErrInvalidCredentials covers unknown username, wrong password and wrong
	// TOTP code alike so login failures stay indistinguishable to a caller.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTOTPRequired is returned when the account has TOTP enabled and the
	// login request carried no code.
	ErrTOTPRequired = errors.New("totp code required")

	ErrUsernameTaken = errors.New("username already taken")
)
