package security

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor used for stored passwords.
const PasswordCost = 10

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// HashPassword returns a salted bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// CheckPasswordWithoutUser spends the same bcrypt work as CheckPassword and
// always reports false, so logins for unknown emails take as long as wrong
// passwords.
func CheckPasswordWithoutUser(password string) bool {
	_ = bcrypt.CompareHashAndPassword(placeholderHash(), []byte(password))
	return false
}

func placeholderHash() []byte {
	dummyHashOnce.Do(func() {
		hashed, err := bcrypt.GenerateFromPassword([]byte("placeholder-password"), PasswordCost)
		if err != nil {
			panic(err)
		}
		dummyHash = hashed
	})
	return dummyHash
}
