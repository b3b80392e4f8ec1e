package auth

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/AurelieMous/projet-zombieland/internal/apperr"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinDisplayNameLength = 3
	MaxDisplayNameLength = 20
	MinPasswordLength    = 8
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Registration is the data a visitor submits to open an account.
type Registration struct {
	Email           string
	DisplayName     string
	Password        string
	ConfirmPassword string
}

// Validate applies the registration rules in order and reports the first
// one that fails. Uniqueness is checked against the store by Register.
func (r Registration) Validate() error {
	if r.Email == "" || r.DisplayName == "" || r.Password == "" || r.ConfirmPassword == "" {
		return apperr.InvalidRequest("all fields are required")
	}
	if err := ValidateEmail(r.Email); err != nil {
		return err
	}
	if err := ValidateDisplayName(r.DisplayName); err != nil {
		return err
	}
	if utf8.RuneCountInString(r.Password) < MinPasswordLength {
		return apperr.InvalidRequest("password must be at least %d characters long", MinPasswordLength)
	}
	if !strings.ContainsFunc(r.Password, isUpper) {
		return apperr.InvalidRequest("password must contain at least one uppercase letter")
	}
	if !strings.ContainsFunc(r.Password, isDigit) {
		return apperr.InvalidRequest("password must contain at least one digit")
	}
	if r.Password != r.ConfirmPassword {
		return apperr.InvalidRequest("password and confirmation do not match")
	}
	return nil
}

func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return apperr.InvalidRequest("email is not valid")
	}
	return nil
}

func ValidateDisplayName(name string) error {
	if n := utf8.RuneCountInString(name); n < MinDisplayNameLength || n > MaxDisplayNameLength {
		return apperr.InvalidRequest("display name must be between %d and %d characters", MinDisplayNameLength, MaxDisplayNameLength)
	}
	return nil
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
