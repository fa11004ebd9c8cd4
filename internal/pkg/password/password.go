// Package password wraps bcrypt hashing behind the two operations the rest
// of the system needs: Hash on registration, Verify on login.
package password

import "golang.org/x/crypto/bcrypt"

// Hash returns a salted bcrypt hash of plain. Two calls with the same input
// produce different hashes; Verify matches either.
func Hash(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Verify reports whether plain matches the stored bcrypt hash. A mismatch is
// false, never an error; a malformed hash is also false (that indicates a
// corrupted record, not a user mistake).
func Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
