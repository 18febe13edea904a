package tokens

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const secret = "test-secret-32-bytes-should-be-long-enough"

func TestGenerateWebhookToken_VerifiesAndCarriesCommunity(t *testing.T) {
	tokenStr, err := GenerateWebhookToken(secret, "golang", 2*time.Minute)
	if err != nil {
		t.Fatalf("GenerateWebhookToken error: %v", err)
	}
	v, err := NewVerifier(secret)
	if err != nil {
		t.Fatalf("NewVerifier error: %v", err)
	}
	tok, err := v.Verify(context.Background(), tokenStr)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	var claims map[string]interface{}
	if err := tok.Claims(&claims); err != nil {
		t.Fatalf("Claims error: %v", err)
	}
	if claims["sub"] != "golang" {
		t.Fatalf("unexpected sub claim: got=%v want=golang", claims["sub"])
	}
}

func TestVerify_Expired(t *testing.T) {
	tokenStr, err := GenerateWebhookToken(secret, "golang", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateWebhookToken error: %v", err)
	}
	v, _ := NewVerifier(secret)
	if _, err := v.Verify(context.Background(), tokenStr); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestVerify_WrongSecretFails(t *testing.T) {
	tokenStr, err := GenerateWebhookToken(secret, "golang", 2*time.Minute)
	if err != nil {
		t.Fatalf("GenerateWebhookToken error: %v", err)
	}
	v, _ := NewVerifier("different-secret-xxxxxxxxxxxxxxxx")
	if _, err := v.Verify(context.Background(), tokenStr); err == nil {
		t.Fatalf("expected verify to fail with wrong secret")
	}
}

func TestVerify_Malformed(t *testing.T) {
	v, _ := NewVerifier(secret)
	if _, err := v.Verify(context.Background(), "not.a.jwt"); err == nil {
		t.Fatalf("expected verify to fail for malformed token")
	}
}

// Rejected when alg=none (unsigned token)
func TestVerify_AlgNoneRejected(t *testing.T) {
	headerEnc := new(jwt.Token).EncodeSegment([]byte(`{"alg":"none"}`))
	payloadEnc := new(jwt.Token).EncodeSegment([]byte(`{"sub":"golang","iss":"pingbot","exp":9999999999}`))
	v, _ := NewVerifier(secret)
	if _, err := v.Verify(context.Background(), headerEnc+"."+payloadEnc+"."); err == nil {
		t.Fatalf("expected verify to reject alg=none token")
	}
}

// Tampering with payload must fail signature verification
func TestVerify_TamperedPayload(t *testing.T) {
	tokenStr, err := GenerateWebhookToken(secret, "golang", 5*time.Minute)
	if err != nil {
		t.Fatalf("GenerateWebhookToken error: %v", err)
	}
	parts := strings.Split(tokenStr, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token parts")
	}
	payloadBytes, _ := jwt.NewParser().DecodeSegment(parts[1])
	parts[1] = new(jwt.Token).EncodeSegment([]byte(strings.Replace(string(payloadBytes), "golang", "*", 1)))
	v, _ := NewVerifier(secret)
	if _, err := v.Verify(context.Background(), strings.Join(parts, ".")); err == nil {
		t.Fatalf("expected signature verification to fail for tampered token")
	}
}

func TestVerify_ForeignIssuerRejected(t *testing.T) {
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "golang", "iss": "someone-else", "exp": time.Now().Add(time.Minute).Unix()})
	tokenStr, err := jt.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}
	v, _ := NewVerifier(secret)
	if _, err := v.Verify(context.Background(), tokenStr); err == nil {
		t.Fatalf("expected foreign issuer to be rejected")
	}
}

func TestEmptySecret(t *testing.T) {
	if _, err := NewVerifier(""); err != ErrEmptySecret {
		t.Fatalf("expected ErrEmptySecret, got %v", err)
	}
	if _, err := GenerateWebhookToken("", "golang", time.Minute); err != ErrEmptySecret {
		t.Fatalf("expected ErrEmptySecret, got %v", err)
	}
}

func TestAllows(t *testing.T) {
	if !Allows("golang", "golang") || !Allows(AnyCommunity, "rust") || Allows("golang", "rust") {
		t.Fatalf("unexpected Allows result")
	}
}

func TestVerify_MissingExpiryRejected(t *testing.T) {
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "golang", "iss": "pingbot"})
	tokenStr, err := jt.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}
	v, _ := NewVerifier(secret)
	if _, err := v.Verify(context.Background(), tokenStr); err == nil {
		t.Fatalf("expected token without exp to be rejected")
	}
}
