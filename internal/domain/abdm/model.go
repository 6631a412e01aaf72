package abdm

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

var (
	// ErrInvalidOTP is returned when a verification code does not match.
	ErrInvalidOTP = errors.New("abdm: invalid otp")
	// ErrTxnNotFound is returned for an unknown or expired transaction.
	ErrTxnNotFound = errors.New("abdm: transaction not found")
)

var (
	aadhaarPattern = regexp.MustCompile(`^\d{12}$`)
	mobilePattern  = regexp.MustCompile(`^[6-9]\d{9}$`)
	abhaPattern    = regexp.MustCompile(`^\d{2}-\d{4}-\d{4}-\d{4}$`)
)

func validateAadhaar(aadhaar string) error {
	if !aadhaarPattern.MatchString(aadhaar) {
		return fmt.Errorf("aadhaar must be 12 digits")
	}
	return nil
}

func validateMobile(mobile string) error {
	if !mobilePattern.MatchString(mobile) {
		return fmt.Errorf("invalid mobile number")
	}
	return nil
}

func validateABHANumber(number string) error {
	if !abhaPattern.MatchString(number) {
		return fmt.Errorf("abha number must look like 12-3456-7890-1234")
	}
	return nil
}

// OTPTransaction tracks an in-flight OTP verification flow.
type OTPTransaction struct {
	TxnID     string    `json:"txn_id"`
	Channel   string    `json:"channel"` // aadhaar or mobile
	Target    string    `json:"-"`       // masked identity, never serialized
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// OTPResponse acknowledges an OTP send.
type OTPResponse struct {
	TxnID     string    `json:"txn_id"`
	SentTo    string    `json:"sent_to"` // masked
	ExpiresAt time.Time `json:"expires_at"`
}

// VerifyResponse acknowledges a successful OTP verification.
type VerifyResponse struct {
	TxnID    string `json:"txn_id"`
	Verified bool   `json:"verified"`
}

// ABHAProfile is the health-identity record issued under ABDM.
type ABHAProfile struct {
	ABHANumber  string    `json:"abha_number"`
	ABHAAddress string    `json:"abha_address"`
	Name        string    `json:"name"`
	Gender      string    `json:"gender"`
	YearOfBirth int       `json:"year_of_birth"`
	Mobile      string    `json:"mobile"`
	CreatedAt   time.Time `json:"created_at"`
}

// AuthResult is returned by ABHA creation and login.
type AuthResult struct {
	Token   string       `json:"token"`
	Profile *ABHAProfile `json:"profile"`
}
