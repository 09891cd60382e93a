package security

import (
	"golang.org/x/crypto/bcrypt"
)

// HashAdminToken hashes the operator token for storage in configuration.
// Used by deployments to produce the ADMIN_TOKEN_HASH value.
func HashAdminToken(token string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyAdminToken checks a presented token against the configured hash.
// bcrypt comparison is constant-time, so the admin endpoint leaks no
// timing information about the token.
func VerifyAdminToken(hash, token string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)) == nil
}
