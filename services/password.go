package services

import (
	"golang.org/x/crypto/bcrypt"
)

const passwordCost = 12

// HashPassword returns the bcrypt hash of password and the salt embedded in it.
func HashPassword(password string) (hash string, salt string, err error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", "", err
	}
	hash = string(b)
	// $2a$12$ followed by 22 characters of salt
	if len(hash) >= 29 {
		salt = hash[7:29]
	}
	return hash, salt, nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
