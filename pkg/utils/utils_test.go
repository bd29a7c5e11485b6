package utils

import "testing"

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(7, "coordinator@olivemind.co.za", "Coordinator")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 7 || claims.Username != "coordinator@olivemind.co.za" || claims.Role != "Coordinator" {
		t.Errorf("claims mismatch: %+v", claims)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	if _, err := ValidateToken("not-a-token"); err == nil {
		t.Error("garbage token validated")
	}
}

func TestNewNullString(t *testing.T) {
	if NewNullString("") != nil {
		t.Error("empty string should map to nil")
	}
	got := NewNullString("Cape Town")
	if got == nil || *got != "Cape Town" {
		t.Errorf("got %v", got)
	}
}

func TestStrToInt64(t *testing.T) {
	n, err := StrToInt64("42")
	if err != nil || n != 42 {
		t.Errorf("got %d, %v", n, err)
	}
	if _, err := StrToInt64("forty-two"); err == nil {
		t.Error("expected error for non-numeric input")
	}
	if Int64ToStr(42) != "42" {
		t.Error("Int64ToStr(42) != \"42\"")
	}
}

func TestIsEmpty(t *testing.T) {
	if !IsEmpty("   ") || IsEmpty("x") {
		t.Error("IsEmpty mismatch")
	}
}
