package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/avelkov/go-access-gate/models"
)

func testPrincipal() models.Principal {
	return models.Principal{
		UserID:      42,
		Username:    "jdoe",
		Roles:       []string{"editor"},
		Permissions: models.NewPermissionSet("document:read", "document:write"),
	}
}

func TestGenerateSessionToken_RoundTrip(t *testing.T) {
	origIat := time.Now()

	session, err := GenerateSessionToken("gate-test", testPrincipal(), origIat, 8*time.Hour, "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.SignedString == "" {
		t.Fatal("expected a signed token string")
	}

	parsed, err := ValidateAndParseSessionToken(session.SignedString, "secret", "gate-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.UserID != 42 {
		t.Errorf("expected UserID=42, got %d", parsed.UserID)
	}
	if parsed.Username != "jdoe" {
		t.Errorf("expected username jdoe, got %s", parsed.Username)
	}
	if !parsed.Permissions.Has("document:write") {
		t.Error("expected permission document:write to survive the round trip")
	}
	if parsed.OriginalIssuedAt.Unix() != origIat.Unix() {
		t.Errorf("expected original issuance %v, got %v", origIat.Unix(), parsed.OriginalIssuedAt.Unix())
	}
}

func TestGenerateSessionToken_CeilingFromOriginalIssuance(t *testing.T) {
	origIat := time.Now().Add(-7 * time.Hour)

	session, err := GenerateSessionToken("gate-test", testPrincipal(), origIat, 8*time.Hour, "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantExpiry := origIat.Add(8 * time.Hour)
	if session.ExpiresAt.Unix() != wantExpiry.Unix() {
		t.Errorf("expected expiry %v, got %v", wantExpiry.Unix(), session.ExpiresAt.Unix())
	}
}

func TestGenerateSessionToken_InvalidParams(t *testing.T) {
	if _, err := GenerateSessionToken("", testPrincipal(), time.Now(), time.Hour, "secret"); err == nil {
		t.Error("expected error for empty issuer")
	}
	if _, err := GenerateSessionToken("gate-test", testPrincipal(), time.Now(), 0, "secret"); err == nil {
		t.Error("expected error for zero TTL")
	}
	if _, err := GenerateSessionToken("gate-test", testPrincipal(), time.Now(), time.Hour, ""); err == nil {
		t.Error("expected error for empty sign key")
	}
}

func TestValidateAndParseSessionToken_WrongKey(t *testing.T) {
	session, err := GenerateSessionToken("gate-test", testPrincipal(), time.Now(), time.Hour, "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := ValidateAndParseSessionToken(session.SignedString, "other-secret", "gate-test"); err == nil {
		t.Fatal("expected validation to fail with the wrong key")
	}
}

func TestValidateAndParseSessionToken_WrongIssuer(t *testing.T) {
	session, err := GenerateSessionToken("gate-test", testPrincipal(), time.Now(), time.Hour, "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := ValidateAndParseSessionToken(session.SignedString, "secret", "other-issuer"); err == nil {
		t.Fatal("expected validation to fail with the wrong issuer")
	}
}

func TestValidateAndParseSessionToken_Expired(t *testing.T) {
	origIat := time.Now().Add(-2 * time.Hour)
	session, err := GenerateSessionToken("gate-test", testPrincipal(), origIat, time.Hour, "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := ValidateAndParseSessionToken(session.SignedString, "secret", "gate-test"); err == nil {
		t.Fatal("expected validation to fail for an expired token")
	}
}

func TestNewResetSecret_UniqueAndURLSafe(t *testing.T) {
	first, err := NewResetSecret()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := NewResetSecret()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first == second {
		t.Fatal("expected two generated secrets to differ")
	}
	if strings.ContainsAny(first, "+/=") {
		t.Errorf("expected URL-safe encoding, got %s", first)
	}
}

func TestDigestSecret_Deterministic(t *testing.T) {
	if DigestSecret("abc") != DigestSecret("abc") {
		t.Error("expected identical digests for identical secrets")
	}
	if DigestSecret("abc") == DigestSecret("abd") {
		t.Error("expected different digests for different secrets")
	}
	if len(DigestSecret("abc")) != 64 {
		t.Errorf("expected 64 hex characters, got %d", len(DigestSecret("abc")))
	}
}
