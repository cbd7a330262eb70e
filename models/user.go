package models

import "time"

// KYCStatus is the durable verification status on a user profile.
type KYCStatus string

const (
	KYCNotStarted KYCStatus = "not_started"
	KYCPending    KYCStatus = "pending"
	KYCVerified   KYCStatus = "verified"
	KYCRejected   KYCStatus = "rejected"
)

// User represents a platform user (farmer or trader).
type User struct {
	ID           string    `bson:"id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	PhoneNumber  string    `bson:"phoneNumber" json:"phone_number"`
	District     string    `bson:"district,omitempty" json:"district,omitempty"`
	State        string    `bson:"state,omitempty" json:"state,omitempty"`
	TokenHash    string    `bson:"tokenHash,omitempty" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updated_at"`

	// KYC fields. Written only by the KYC persister; read by trade routes
	// to decide whether the user may create offers.
	KYCStatus     KYCStatus              `bson:"kycStatus" json:"kyc_status"`
	KYCMethod     string                 `bson:"kycMethod,omitempty" json:"kyc_method,omitempty"`
	KYCVerifiedAt *time.Time             `bson:"kycVerifiedAt,omitempty" json:"kyc_verified_at,omitempty"`
	KYCData       map[string]interface{} `bson:"kycData,omitempty" json:"kyc_data,omitempty"`
}

// UserRegistrationRequest is the payload for creating an account.
type UserRegistrationRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	District    string `json:"district"`
	State       string `json:"state"`
}
