package auth

import "golang.org/x/crypto/bcrypt"

// GeneratePasswordHash creates hash based on provided password
func GeneratePasswordHash(pass string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword verifies that hash is equal to the one which will be produced by password.
// Users without password hash can't log in.
func VerifyPassword(hash *string, password string) error {
	if hash == nil || *hash == "" {
		return bcrypt.ErrMismatchedHashAndPassword
	}
	return bcrypt.CompareHashAndPassword([]byte(*hash), []byte(password))
}
