package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"go.uber.org/zap"

	"chargehub/internal/mailer"
	"chargehub/internal/models"
	"chargehub/internal/otp"
	"chargehub/internal/repository"
)

// AuthService implements passwordless OTP login and two-step signup. Signup
// data lives in the OTP store until the email is verified; only then is the
// person, account, vehicle and default payment method persisted, in one
// transaction.
type AuthService struct {
	db       repository.Querier
	tx       repository.TxRunner
	users    *repository.UserRepository
	vehicles *repository.VehicleRepository
	billing  *repository.BillingRepository
	codes    *otp.Store
	mail     mailer.Sender
	tokens   *TokenService
	logger   *zap.Logger
}

// NewAuthService builds service.
func NewAuthService(
	db repository.Querier,
	tx repository.TxRunner,
	users *repository.UserRepository,
	vehicles *repository.VehicleRepository,
	billing *repository.BillingRepository,
	codes *otp.Store,
	mail mailer.Sender,
	tokens *TokenService,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		db:       db,
		tx:       tx,
		users:    users,
		vehicles: vehicles,
		billing:  billing,
		codes:    codes,
		mail:     mail,
		tokens:   tokens,
		logger:   logger,
	}
}

// RequestLoginCode emails an OTP to an existing user account.
func (s *AuthService) RequestLoginCode(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return fmt.Errorf("email required: %w", ErrInvalidInput)
	}

	if _, err := s.users.FindByEmail(ctx, s.db, email); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("no user account for %s: %w", email, ErrNotFound)
		}
		return err
	}

	return s.issueCode(ctx, email)
}

// VerifyLogin checks the OTP and returns a JWT plus the user.
func (s *AuthService) VerifyLogin(ctx context.Context, email, code string) (string, *models.User, error) {
	email = normalizeEmail(email)
	if err := s.codes.VerifyCode(ctx, email, code); err != nil {
		if errors.Is(err, otp.ErrCodeInvalid) {
			return "", nil, fmt.Errorf("otp for %s: %w", email, ErrUnauthorized)
		}
		return "", nil, err
	}

	user, err := s.users.FindByEmail(ctx, s.db, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
		}
		return "", nil, err
	}

	token, err := s.tokens.Generate(user.ID, user.AccountType)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info("user logged in", zap.Int64("user_id", user.ID))
	return token, user, nil
}

// Profile returns the authenticated user's account.
func (s *AuthService) Profile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

// InitiateSignup validates the registration, parks it in the OTP store and
// emails a verification code. Nothing is written to the database yet.
func (s *AuthService) InitiateSignup(ctx context.Context, reg otp.PendingRegistration) error {
	reg.Email = normalizeEmail(reg.Email)
	if reg.FirstName == "" || reg.LastName == "" || reg.Email == "" || reg.Phone == "" || reg.Vehicle.LicensePlate == "" {
		return fmt.Errorf("all signup fields are required: %w", ErrInvalidInput)
	}
	if reg.AccountType == "" {
		reg.AccountType = models.AccountTypeStandard
	}
	reg.Vehicle.LicensePlate = strings.ToUpper(strings.TrimSpace(reg.Vehicle.LicensePlate))

	taken, err := s.users.EmailExists(ctx, s.db, reg.Email)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("email %s already registered: %w", reg.Email, ErrConflict)
	}

	plateTaken, err := s.vehicles.PlateExists(ctx, s.db, reg.Vehicle.LicensePlate)
	if err != nil {
		return err
	}
	if plateTaken {
		return fmt.Errorf("license plate %s already registered: %w", reg.Vehicle.LicensePlate, ErrConflict)
	}

	if err := s.codes.SavePendingRegistration(ctx, reg.Email, reg); err != nil {
		return err
	}
	return s.issueCode(ctx, reg.Email)
}

// CompleteSignup verifies the OTP and persists the pending registration:
// person, user account, vehicle and a default credit card payment method,
// all in one transaction. Returns a JWT for the new user.
func (s *AuthService) CompleteSignup(ctx context.Context, email, code string) (string, *models.User, error) {
	email = normalizeEmail(email)
	if err := s.codes.VerifyCode(ctx, email, code); err != nil {
		if errors.Is(err, otp.ErrCodeInvalid) {
			return "", nil, fmt.Errorf("otp for %s: %w", email, ErrUnauthorized)
		}
		return "", nil, err
	}

	reg, err := s.codes.GetPendingRegistration(ctx, email)
	if err != nil {
		if errors.Is(err, otp.ErrNoPendingRegistration) {
			return "", nil, fmt.Errorf("registration for %s expired: %w", email, ErrNotFound)
		}
		return "", nil, err
	}

	var userID int64
	err = s.tx.RunInTx(ctx, func(q repository.Querier) error {
		personID, err := s.users.CreatePerson(ctx, q, reg.FirstName, reg.LastName, reg.Email, reg.Phone, reg.DateOfBirth)
		if err != nil {
			return fmt.Errorf("create person: %w", err)
		}
		if err := s.users.CreateAccount(ctx, q, personID, reg.AccountType); err != nil {
			return fmt.Errorf("create account: %w", err)
		}

		if _, err := s.vehicles.Create(ctx, q, &models.Vehicle{
			UserID:          personID,
			LicensePlate:    reg.Vehicle.LicensePlate,
			Brand:           reg.Vehicle.Brand,
			Model:           reg.Vehicle.Model,
			BatteryCapacity: reg.Vehicle.BatteryCapacity,
			ConnectorType:   reg.Vehicle.ConnectorType,
		}); err != nil {
			return fmt.Errorf("create vehicle: %w", err)
		}

		methodID, err := s.billing.CreateMethod(ctx, q, personID, defaultMethodType)
		if err != nil {
			return fmt.Errorf("create payment method: %w", err)
		}
		holder := reg.FirstName + " " + reg.LastName
		if err := s.billing.CreateCreditCard(ctx, q, methodID, syntheticCardNumber(), defaultCardExpiry, holder); err != nil {
			return fmt.Errorf("create credit card: %w", err)
		}

		userID = personID
		return nil
	})
	if err != nil {
		return "", nil, err
	}

	if err := s.codes.ClearPendingRegistration(ctx, email); err != nil {
		s.logger.Warn("failed to clear pending registration", zap.Error(err))
	}

	user, err := s.users.GetByID(ctx, s.db, userID)
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Generate(user.ID, user.AccountType)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info("user registered", zap.Int64("user_id", user.ID))
	return token, user, nil
}

// ResendCode issues a fresh OTP for an email with a login or signup in flight.
func (s *AuthService) ResendCode(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return fmt.Errorf("email required: %w", ErrInvalidInput)
	}
	return s.issueCode(ctx, email)
}

func (s *AuthService) issueCode(ctx context.Context, email string) error {
	code, err := otp.GenerateCode()
	if err != nil {
		return err
	}
	if err := s.codes.SaveCode(ctx, email, code); err != nil {
		return err
	}
	return s.mail.SendOTP(ctx, email, code)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// syntheticCardNumber produces a masked placeholder like ****-****-****-4821.
func syntheticCardNumber() string {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return defaultCardNumber
	}
	return fmt.Sprintf("****-****-****-%04d", n.Int64()+1000)
}
