// Package otp keeps one-time login codes and pending registrations in Redis
// with TTL-based expiry. Codes are bcrypt-hashed before they hit the store.
package otp

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrCodeInvalid covers a missing, expired or mismatching code.
	ErrCodeInvalid = errors.New("otp: code invalid or expired")
	// ErrNoPendingRegistration means the signup data expired or never existed.
	ErrNoPendingRegistration = errors.New("otp: pending registration not found")
)

// PendingVehicle is the vehicle captured during signup, persisted only after
// OTP verification.
type PendingVehicle struct {
	LicensePlate    string  `json:"license_plate"`
	Brand           string  `json:"brand"`
	Model           string  `json:"model"`
	BatteryCapacity float64 `json:"battery_capacity"`
	ConnectorType   string  `json:"connector_type"`
}

// PendingRegistration is the signup payload held until the email is verified.
type PendingRegistration struct {
	FirstName   string         `json:"first_name"`
	LastName    string         `json:"last_name"`
	Email       string         `json:"email"`
	Phone       string         `json:"phone"`
	DateOfBirth time.Time      `json:"date_of_birth"`
	AccountType string         `json:"account_type"`
	Vehicle     PendingVehicle `json:"vehicle"`
}

// Store is the Redis-backed OTP and pending-registration cache.
type Store struct {
	client          *redis.Client
	codeTTL         time.Duration
	registrationTTL time.Duration
}

// NewStore returns a store with the given expiry windows.
func NewStore(client *redis.Client, codeTTL, registrationTTL time.Duration) *Store {
	if codeTTL <= 0 {
		codeTTL = 5 * time.Minute
	}
	if registrationTTL <= 0 {
		registrationTTL = 10 * time.Minute
	}
	return &Store{client: client, codeTTL: codeTTL, registrationTTL: registrationTTL}
}

func codeKey(email string) string {
	return fmt.Sprintf("otp:code:%s", email)
}

func registrationKey(email string) string {
	return fmt.Sprintf("otp:signup:%s", email)
}

// GenerateCode returns a random 6-digit code.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// SaveCode stores the bcrypt hash of the code under the email with TTL.
// A new code replaces any previous one.
func (s *Store) SaveCode(ctx context.Context, email, code string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, codeKey(email), hash, s.codeTTL).Err()
}

// VerifyCode checks the code against the stored hash and consumes it on
// success. Expired, missing and mismatching codes all return ErrCodeInvalid.
func (s *Store) VerifyCode(ctx context.Context, email, code string) error {
	stored, err := s.client.Get(ctx, codeKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCodeInvalid
		}
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(stored), []byte(code)) != nil {
		return ErrCodeInvalid
	}

	return s.client.Del(ctx, codeKey(email)).Err()
}

// SavePendingRegistration holds signup data until the email is verified.
func (s *Store) SavePendingRegistration(ctx context.Context, email string, reg PendingRegistration) error {
	data, err := json.Marshal(reg)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, registrationKey(email), data, s.registrationTTL).Err()
}

// GetPendingRegistration returns the held signup data, if still valid.
func (s *Store) GetPendingRegistration(ctx context.Context, email string) (*PendingRegistration, error) {
	data, err := s.client.Get(ctx, registrationKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoPendingRegistration
		}
		return nil, err
	}

	var reg PendingRegistration
	if err := json.Unmarshal([]byte(data), &reg); err != nil {
		return nil, err
	}
	return &reg, nil
}

// ClearPendingRegistration removes signup data after a successful registration.
func (s *Store) ClearPendingRegistration(ctx context.Context, email string) error {
	return s.client.Del(ctx, registrationKey(email)).Err()
}
