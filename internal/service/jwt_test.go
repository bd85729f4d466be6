package service

import (
	"testing"
	"time"
)

func TestGenerateAndParseJWT(t *testing.T) {
	InitJWT("test-secret", time.Hour)

	sid := NewSessionID()
	token, err := GenerateJWT(42, sid)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	userID, sessionID, err := ParseJWT(token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if userID != 42 {
		t.Fatalf("expected user id 42 got %d", userID)
	}
	if sessionID != sid {
		t.Fatalf("expected session id %q got %q", sid, sessionID)
	}
}

func TestParseJWT_Garbage(t *testing.T) {
	InitJWT("test-secret", time.Hour)

	if _, _, err := ParseJWT("not-a-token"); err == nil {
		t.Fatalf("expected error for garbage token")
	}
}

func TestParseJWT_WrongSecret(t *testing.T) {
	InitJWT("secret-one", time.Hour)
	token, err := GenerateJWT(1, NewSessionID())
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	InitJWT("secret-two", time.Hour)
	if _, _, err := ParseJWT(token); err == nil {
		t.Fatalf("expected error for token signed with a different secret")
	}
}

func TestNewSessionID_Unique(t *testing.T) {
	a := NewSessionID()
	b := NewSessionID()
	if len(a) != 32 {
		t.Fatalf("expected 32 hex chars got %d", len(a))
	}
	if a == b {
		t.Fatalf("expected distinct session ids")
	}
}
