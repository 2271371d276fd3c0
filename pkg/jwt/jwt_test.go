package jwt

import (
	"errors"
	"testing"
)

func TestTokenRoundtrip(t *testing.T) {
	token, err := GenerateToken("1757000000000", "Ayu", "editor", true, "v1")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != "1757000000000" || claims.Nama != "Ayu" {
		t.Errorf("claims = %+v", claims)
	}
	if !claims.CanEdit || claims.Role != "editor" {
		t.Errorf("capability claims = %+v", claims)
	}
	if claims.TokenVersion != "v1" {
		t.Errorf("token version = %q", claims.TokenVersion)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	if _, err := ValidateToken("bukan.token.jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
	if _, err := ValidateToken(""); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("empty token err = %v, want ErrInvalidToken", err)
	}
}

func TestValidateRejectsTampering(t *testing.T) {
	token, err := GenerateToken("1", "Ayu", "viewer", false, "v1")
	if err != nil {
		t.Fatal(err)
	}
	tampered := token[:len(token)-4] + "AAAA"
	if _, err := ValidateToken(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("tampered token err = %v, want ErrInvalidToken", err)
	}
}
