package service

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	token, err := svc.Generate(7, "Standard")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if claims.UserID != 7 {
		t.Errorf("user id = %d, want 7", claims.UserID)
	}
	if claims.AccountType != "Standard" {
		t.Errorf("account type = %q, want Standard", claims.AccountType)
	}
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenService("secret-a", time.Hour).Generate(7, "Standard")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if _, err := NewTokenService("secret-b", time.Hour).Validate(token); err == nil {
		t.Fatal("Validate accepted a token signed with another secret")
	}
}

func TestTokenRejectsExpired(t *testing.T) {
	svc := NewTokenService("test-secret", time.Nanosecond)
	token, err := svc.Generate(7, "Standard")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	if _, err := svc.Validate(token); err == nil {
		t.Fatal("Validate accepted an expired token")
	}
}

func TestTokenRejectsGarbage(t *testing.T) {
	if _, err := NewTokenService("test-secret", time.Hour).Validate("not-a-token"); err == nil {
		t.Fatal("Validate accepted garbage input")
	}
}
