package jwt

import "errors"

var (
	ErrMissingSigningKey = errors.New("jwt: missing signing key")
	ErrMalformedToken    = errors.New("jwt: malformed token")
	ErrInvalidSignature  = errors.New("jwt: invalid signature")
	ErrExpiredToken      = errors.New("jwt: token is expired")
	ErrWrongTokenKind    = errors.New("jwt: wrong token kind")
)
