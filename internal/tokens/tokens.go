package tokens

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gogotex/pingbot/pkg/middleware"
)

// AnyCommunity is the subject of operator tokens valid for every community.
const AnyCommunity = "*"

const issuer = "pingbot"

var ErrEmptySecret = errors.New("webhook secret is empty")

// GenerateWebhookToken creates an HS256 token the platform relay sends as a
// Bearer token. The subject is the community the token is valid for.
func GenerateWebhookToken(secret, community string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": community,
		"iss": issuer,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString([]byte(secret))
}

// HMACVerifier verifies webhook tokens signed with a shared secret.
type HMACVerifier struct {
	secret []byte
}

func NewVerifier(secret string) (*HMACVerifier, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &HMACVerifier{secret: []byte(secret)}, nil
}

func (v *HMACVerifier) Verify(_ context.Context, raw string) (middleware.Token, error) {
	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("unexpected claims type")
	}
	if exp, err := claims.GetExpirationTime(); err != nil || exp == nil {
		return nil, errors.New("token has no expiry")
	}
	return verifiedToken(claims), nil
}

type verifiedToken jwt.MapClaims

func (t verifiedToken) Claims(v interface{}) error {
	out, ok := v.(*map[string]interface{})
	if !ok {
		return errors.New("unsupported claims type")
	}
	*out = map[string]interface{}(t)
	return nil
}

// Allows reports whether a token subject may act on community.
func Allows(subject, community string) bool {
	return subject == AnyCommunity || subject == community
}
