// Package jwt implements the subset of RFC 7519 this service needs:
// HMAC-SHA256 signed tokens in two kinds, access and refresh, each
// signed with its own key. A leaked access key therefore cannot be used
// to mint refresh tokens.
//
// Verification failures are distinguished (malformed, bad signature,
// expired, wrong kind) because they are logged differently, even though
// every one of them is terminal for the request at hand.
package jwt

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind discriminates access tokens from refresh tokens. The kind is
// embedded in the claims and pinned at verification time.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

const headerAlgorithm = "HS256"

type header struct {
	Type      string `json:"typ"`
	Algorithm string `json:"alg"`
}

// Claims is the claim set carried by both token kinds. Access tokens
// fill Username and Email; refresh tokens carry only the subject.
type Claims struct {
	ID        string `json:"jti,omitempty"`
	Subject   string `json:"sub"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	TokenKind Kind   `json:"tkn"`
	ExpiresAt int64  `json:"exp"`
	IssuedAt  int64  `json:"iat"`
}

// Issuer signs and verifies token pairs.
type Issuer struct {
	accessKey  []byte
	refreshKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewIssuer creates an Issuer. Both keys are required and should be
// distinct; reusing one key for both kinds defeats the kind separation.
func NewIssuer(accessKey, refreshKey []byte, accessTTL, refreshTTL time.Duration) (*Issuer, error) {
	if len(accessKey) == 0 || len(refreshKey) == 0 {
		return nil, ErrMissingSigningKey
	}
	return &Issuer{
		accessKey:  accessKey,
		refreshKey: refreshKey,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

// IssueAccess mints a short-lived access token carrying the full
// identity claims.
func (i *Issuer) IssueAccess(subject, username, email string) (string, error) {
	now := i.now()
	return i.sign(Claims{
		Subject:   subject,
		Username:  username,
		Email:     email,
		TokenKind: KindAccess,
		ExpiresAt: now.Add(i.accessTTL).Unix(),
		IssuedAt:  now.Unix(),
	}, i.accessKey)
}

// IssueRefresh mints a refresh token carrying only the subject id. The
// jti claim makes every refresh token unique, even two minted for the
// same subject within the same second, so rotation always produces a
// new value.
func (i *Issuer) IssueRefresh(subject string) (string, error) {
	now := i.now()
	return i.sign(Claims{
		ID:        uuid.NewString(),
		Subject:   subject,
		TokenKind: KindRefresh,
		ExpiresAt: now.Add(i.refreshTTL).Unix(),
		IssuedAt:  now.Unix(),
	}, i.refreshKey)
}

// Verify checks the token against the key for the expected kind and
// returns its claims. Signature is checked before anything is decoded
// from the claim set, and the embedded kind must match expected even
// when the signature already implies it.
func (i *Issuer) Verify(token string, expected Kind) (Claims, error) {
	key := i.accessKey
	if expected == KindRefresh {
		key = i.refreshKey
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return Claims{}, ErrMalformedToken
	}

	payload := parts[0] + "." + parts[1]
	want := sign(payload, key)
	if subtle.ConstantTimeCompare([]byte(parts[2]), []byte(want)) != 1 {
		return Claims{}, ErrInvalidSignature
	}

	headerJSON, err := base64URLDecode(parts[0])
	if err != nil {
		return Claims{}, ErrMalformedToken
	}
	var h header
	if err := json.Unmarshal(headerJSON, &h); err != nil {
		return Claims{}, ErrMalformedToken
	}
	// Pin the algorithm to prevent confusion attacks.
	if h.Algorithm != headerAlgorithm {
		return Claims{}, ErrMalformedToken
	}

	claimsJSON, err := base64URLDecode(parts[1])
	if err != nil {
		return Claims{}, ErrMalformedToken
	}
	var claims Claims
	if err := json.Unmarshal(claimsJSON, &claims); err != nil {
		return Claims{}, ErrMalformedToken
	}

	if claims.TokenKind != expected {
		return Claims{}, ErrWrongTokenKind
	}
	if claims.ExpiresAt > 0 && i.now().Unix() > claims.ExpiresAt {
		return Claims{}, ErrExpiredToken
	}

	return claims, nil
}

func (i *Issuer) sign(claims Claims, key []byte) (string, error) {
	headerJSON, err := json.Marshal(header{Type: "JWT", Algorithm: headerAlgorithm})
	if err != nil {
		return "", err
	}
	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}

	payload := base64URLEncode(headerJSON) + "." + base64URLEncode(claimsJSON)
	return payload + "." + sign(payload, key), nil
}

func sign(payload string, key []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(payload))
	return base64URLEncode(mac.Sum(nil))
}

func base64URLEncode(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

func base64URLDecode(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}
