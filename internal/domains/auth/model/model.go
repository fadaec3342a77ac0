package model

import "time"

const (
	TableName  = "otp_verifications"
	EntityName = "otp_verification"

	FieldID         = "id"
	FieldEmail      = "email"
	FieldPurpose    = "purpose"
	FieldCodeHash   = "code_hash"
	FieldExpiresAt  = "expires_at"
	FieldConsumedAt = "consumed_at"
	FieldCreatedAt  = "created_at"
)

// Purpose keeps a login code from being usable as a password reset code and back.
type Purpose string

const (
	PurposeLogin Purpose = "login"
	PurposeReset Purpose = "reset"
)

type OTPVerification struct {
	ID         string     `db:"id"`
	Email      string     `db:"email"`
	Purpose    Purpose    `db:"purpose"`
	CodeHash   string     `db:"code_hash"`
	ExpiresAt  time.Time  `db:"expires_at"`
	ConsumedAt *time.Time `db:"consumed_at"`
	CreatedAt  time.Time  `db:"created_at"`
}

// Expired reports whether the code can no longer be used at now.
func (o OTPVerification) Expired(now time.Time) bool {
	return !now.Before(o.ExpiresAt)
}
