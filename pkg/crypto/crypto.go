package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(bytes), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateInviteCode generates a random invite code: 6 bytes, 12 lowercase
// hex characters. Uniqueness is not checked before insert; the code
// column's unique index turns the (negligible-probability) collision
// into a storage error instead of silent reuse.
func GenerateInviteCode() (string, error) {
	return randomHex(6)
}

// GenerateTokenID generates a random pass-token id: 16 bytes, 32 hex characters.
func GenerateTokenID() (string, error) {
	return randomHex(16)
}

// SyntheticCustomerID mints a placeholder Stripe customer id for
// manually added memberships that have no checkout behind them.
func SyntheticCustomerID() (string, error) {
	hexPart, err := randomHex(8)
	if err != nil {
		return "", err
	}
	return "manual_" + hexPart, nil
}

// NewGroupID mints a plan-instance id: "<type>_<base36 millis><6 base36 chars>".
func NewGroupID(groupType string) (string, error) {
	suffix, err := randomBase36(6)
	if err != nil {
		return "", err
	}
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	return fmt.Sprintf("%s_%s%s", groupType, ts, suffix), nil
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func randomBase36(n int) (string, error) {
	out := make([]byte, n)
	max := big.NewInt(int64(len(base36Alphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random index: %w", err)
		}
		out[i] = base36Alphabet[idx.Int64()]
	}
	return string(out), nil
}
