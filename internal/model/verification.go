package model

import "time"

// VerificationTTL is how long a phone verification code stays valid.
const VerificationTTL = 3 * time.Minute

// PhoneVerification is one issued verification code.  A code is valid
// when it has not expired and has not been used; verifying a code marks
// it used so the same (phone, code) pair can never be consumed twice.
//
// Fields:
//  ID        – primary key identifier.
//  Phone     – phone number the code was sent to.
//  Code      – 6-digit numeric code.
//  ExpiresAt – expiry timestamp (issue time + VerificationTTL).
//  Used      – set once the code has been successfully verified.
//  CreatedAt – issue timestamp.
type PhoneVerification struct {
	ID        uint64    // phone_verifications.id
	Phone     string    // phone_verifications.phone
	Code      string    // phone_verifications.code
	ExpiresAt time.Time // phone_verifications.expires_at
	Used      bool      // phone_verifications.used
	CreatedAt time.Time // phone_verifications.created_at
}
