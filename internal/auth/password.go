package auth

import (
	"fmt"

	"bloghub/internal/common"

	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is the bcrypt input limit; longer input would be silently truncated.
const maxPasswordBytes = 72

type PasswordHasher struct {
	cost      int
	dummyHash []byte
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}

	// only used to spend the same time on unknown emails as on wrong passwords
	dummy, _ := bcrypt.GenerateFromPassword([]byte("bloghub-timing-equaliser"), cost)

	return &PasswordHasher{cost: cost, dummyHash: dummy}
}

func (p *PasswordHasher) Hash(plaintext string) (string, error) {
	if len(plaintext) > maxPasswordBytes {
		return "", common.NewValidationError("Password must be 72 bytes or fewer.")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify fails closed: a malformed hash is reported as a mismatch.
func (p *PasswordHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// VerifyDummy burns one comparison for a lookup that found no user.
func (p *PasswordHasher) VerifyDummy(plaintext string) {
	_ = bcrypt.CompareHashAndPassword(p.dummyHash, []byte(plaintext))
}
