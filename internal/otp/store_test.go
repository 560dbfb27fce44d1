package otp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewStore(client, 5*time.Minute, 10*time.Minute), mr
}

func TestGenerateCode(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := GenerateCode()
		if err != nil {
			t.Fatalf("GenerateCode returned error: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("code %q is not 6 digits", code)
		}
		for _, c := range code {
			if c < '0' || c > '9' {
				t.Fatalf("code %q contains non-digit", code)
			}
		}
	}
}

func TestVerifyCode(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveCode(ctx, "ada@example.com", "123456"); err != nil {
		t.Fatalf("SaveCode returned error: %v", err)
	}

	if err := store.VerifyCode(ctx, "ada@example.com", "654321"); !errors.Is(err, ErrCodeInvalid) {
		t.Fatalf("wrong code: error = %v, want ErrCodeInvalid", err)
	}

	if err := store.VerifyCode(ctx, "ada@example.com", "123456"); err != nil {
		t.Fatalf("VerifyCode returned error: %v", err)
	}

	// Codes are single use.
	if err := store.VerifyCode(ctx, "ada@example.com", "123456"); !errors.Is(err, ErrCodeInvalid) {
		t.Fatalf("reused code: error = %v, want ErrCodeInvalid", err)
	}
}

func TestVerifyCodeExpires(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveCode(ctx, "ada@example.com", "123456"); err != nil {
		t.Fatalf("SaveCode returned error: %v", err)
	}

	mr.FastForward(6 * time.Minute)

	if err := store.VerifyCode(ctx, "ada@example.com", "123456"); !errors.Is(err, ErrCodeInvalid) {
		t.Fatalf("expired code: error = %v, want ErrCodeInvalid", err)
	}
}

func TestSaveCodeReplacesPrevious(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveCode(ctx, "ada@example.com", "111111"); err != nil {
		t.Fatalf("SaveCode returned error: %v", err)
	}
	if err := store.SaveCode(ctx, "ada@example.com", "222222"); err != nil {
		t.Fatalf("SaveCode returned error: %v", err)
	}

	if err := store.VerifyCode(ctx, "ada@example.com", "111111"); !errors.Is(err, ErrCodeInvalid) {
		t.Fatalf("old code: error = %v, want ErrCodeInvalid", err)
	}
	if err := store.VerifyCode(ctx, "ada@example.com", "222222"); err != nil {
		t.Fatalf("VerifyCode returned error: %v", err)
	}
}

func TestPendingRegistrationRoundTrip(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	reg := PendingRegistration{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "555-0100",
		Vehicle: PendingVehicle{
			LicensePlate: "EV-001",
			Brand:        "Tesla",
			Model:        "Model 3",
		},
	}

	if _, err := store.GetPendingRegistration(ctx, "ada@example.com"); !errors.Is(err, ErrNoPendingRegistration) {
		t.Fatalf("missing registration: error = %v, want ErrNoPendingRegistration", err)
	}

	if err := store.SavePendingRegistration(ctx, "ada@example.com", reg); err != nil {
		t.Fatalf("SavePendingRegistration returned error: %v", err)
	}

	got, err := store.GetPendingRegistration(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("GetPendingRegistration returned error: %v", err)
	}
	if got.FirstName != "Ada" || got.Vehicle.LicensePlate != "EV-001" {
		t.Errorf("registration = %+v", got)
	}

	if err := store.ClearPendingRegistration(ctx, "ada@example.com"); err != nil {
		t.Fatalf("ClearPendingRegistration returned error: %v", err)
	}
	if _, err := store.GetPendingRegistration(ctx, "ada@example.com"); !errors.Is(err, ErrNoPendingRegistration) {
		t.Fatalf("cleared registration: error = %v, want ErrNoPendingRegistration", err)
	}

	if err := store.SavePendingRegistration(ctx, "ada@example.com", reg); err != nil {
		t.Fatalf("SavePendingRegistration returned error: %v", err)
	}
	mr.FastForward(11 * time.Minute)
	if _, err := store.GetPendingRegistration(ctx, "ada@example.com"); !errors.Is(err, ErrNoPendingRegistration) {
		t.Fatalf("expired registration: error = %v, want ErrNoPendingRegistration", err)
	}
}
