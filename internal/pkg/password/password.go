package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrEmptyPassword = errors.New("password must not be empty")

// Cost stays at the bcrypt default; raising it needs a rehash plan for
// stored operator credentials.
const hashCost = bcrypt.DefaultCost

func HashPassword(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmptyPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePassword returns nil only when plain matches the stored hash.
func ComparePassword(hash, plain string) error {
	if hash == "" || plain == "" {
		return bcrypt.ErrMismatchedHashAndPassword
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}
