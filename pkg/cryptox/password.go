package cryptox

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is deliberately the library default. Bump it here if hardware
// catches up; existing hashes keep verifying since the cost is embedded in
// the hash string.
const bcryptCost = bcrypt.DefaultCost

var ErrPasswordMismatch = errors.New("cryptox: password does not match")

// HashPassword derives a salted bcrypt digest from the plaintext. A fresh
// salt is generated on every call, so two hashes of the same password differ.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password against a stored bcrypt hash.
// The comparison is constant-time within bcrypt itself.
func VerifyPassword(password, encodedHash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return err
	}
	return nil
}
