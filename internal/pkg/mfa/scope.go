package mfa

import (
	"crypto/sha256"
	"fmt"
)

// Purpose identifies what a ciphertext protects.
type Purpose string

// PurposeOTPSeed scopes encryption to TOTP seeds.
const PurposeOTPSeed Purpose = "otp_seed"

// Scope binds a ciphertext to its owner. It is used as AES-GCM additional
// authenticated data, so a seed copied to another admin's row fails to open.
type Scope struct {
	AdminID int64
	Purpose Purpose
}

// aad hashes a labelled canonical form to a fixed-length byte slice.
func (s Scope) aad() []byte {
	sum := sha256.Sum256(fmt.Appendf(nil, "admin=%d\npurpose=%s\n", s.AdminID, s.Purpose))
	return sum[:]
}
