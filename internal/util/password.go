package util

import "golang.org/x/crypto/bcrypt"

// bcryptCost is kept low so seeding demo accounts stays fast.
const bcryptCost = 8

// HashPassword hashes a plaintext password for storage on the users table.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
