package auth

import (
	"github.com/jaevor/go-nanoid"
	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateVerificationCode returns a short code stored at signup and
// presented back by the user to confirm their email address.
func GenerateVerificationCode() (string, error) {
	generate, err := nanoid.CustomASCII("0123456789", 6)
	if err != nil {
		return "", err
	}
	return generate(), nil
}

// GenerateRandomPassword returns a throwaway password for accounts created
// through federated login. It is hashed and stored but never typed by anyone.
func GenerateRandomPassword() (string, error) {
	generate, err := nanoid.Standard(32)
	if err != nil {
		return "", err
	}
	return generate(), nil
}
