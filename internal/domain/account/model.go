package account

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// AdminID is the only primary key an Account row may have.
const AdminID int64 = 1

// Max length constants for user-editable fields.
const (
	MaxNameLength = 20
)

// Display names used when the account row is first created.
const (
	DefaultName     = "Admin"
	PlaceholderName = "cailuo"
)

// bcryptCost is a variable so tests can lower it.
var bcryptCost = bcrypt.DefaultCost

// Domain errors
var (
	ErrInvalidName   = errors.New("invalid input")
	ErrEmptyUsername = errors.New("username cannot be empty")
	ErrEmptyPassword = errors.New("password cannot be empty")
	ErrWrongPassword = errors.New("incorrect password")
	ErrNotFound      = errors.New("account not found")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Account is the single administrator of the watchlist.
type Account struct {
	ID           int64
	Name         string
	Username     string
	PasswordHash string
}

// Validate checks the display name.
// PRE: Account struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Account) Validate() error {
	return ValidateName(a.Name)
}

// ValidateName checks a display name without touching an Account.
func ValidateName(name string) error {
	if err := validate.Var(name, "required,max=20"); err != nil {
		return fmt.Errorf("%w: name must be 1-%d characters", ErrInvalidName, MaxNameLength)
	}
	return nil
}

// SetPassword hashes and stores a password using bcrypt.
// PRE: plaintext is non-empty
// POST: PasswordHash is set to bcrypt hash
func (a *Account) SetPassword(plaintext string) error {
	if plaintext == "" {
		return ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	a.PasswordHash = string(hash)
	return nil
}

// CheckCredentials verifies a login name and password against the account.
// The username comparison is constant-time; the password check is bcrypt's.
// INVARIANT: Account fields are not mutated
func (a *Account) CheckCredentials(username, password string) error {
	if a.Username == "" || a.PasswordHash == "" {
		return ErrWrongPassword
	}
	userOK := subtle.ConstantTimeCompare([]byte(a.Username), []byte(username)) == 1
	passErr := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password))
	if !userOK || passErr != nil {
		return ErrWrongPassword
	}
	return nil
}

// HasCredentials reports whether the account can log in.
// A placeholder created by the demo seed has a name only.
func (a *Account) HasCredentials() bool {
	return a.Username != "" && a.PasswordHash != ""
}
