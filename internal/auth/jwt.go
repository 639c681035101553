// Package auth provides JWT issuing/verification and password hashing for
// the booking API.
//
// AUTHENTICATION FLOW OVERVIEW:
// 1. User registers with email + password (POST /api/auth/register)
// 2. User logs in (POST /api/auth/login) → server verifies the bcrypt hash
//    and issues a JWT whose subject is the user's email
// 3. The client sends the token on every request: Authorization: Bearer <jwt>
// 4. Middleware verifies the token, loads the user row, and installs a
//    Principal in the request context for downstream authorization checks
//
// WHY JWT?
// JWT (JSON Web Token) is stateless — the server doesn't need to store
// session data. All the information needed (subject, expiry) is inside the
// signed token, and the HMAC signature ensures nobody can tamper with it
// without the secret key.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"
)

const issuer = "yogabook"

// TokenService issues and verifies signed bearer tokens.
//
// It holds the HMAC secret used for both signing and verification, and the
// token lifetime. The same secret must be used for both operations.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService with the given secret and token
// lifetime. The secret should be at least 32 bytes of random data in
// production. Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if ttl <= 0 {
		return nil, errors.New("auth: token TTL must be positive")
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// claims is the JWT payload. We use "sub" (Subject) to store the user's
// email — the login identifier, resolvable back to a user row.
type claims struct {
	jwt.RegisteredClaims
}

// Issue creates and signs a new bearer token for the given username (email).
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, same key for signing
// and verifying. Expiry is issue time + the configured TTL. Each token gets
// a unique jti so two tokens for the same user are never byte-identical.
func (s *TokenService) Issue(username string) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        xid.New().String(),
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Verify reports whether the token parses, carries a valid signature, and
// has not expired.
//
// Every failure mode — empty string, garbage input, expired token, bad
// signature, wrong algorithm — is normalised to false. There are no partial
// trust states and no errors to handle: a token is either fully valid or it
// isn't.
func (s *TokenService) Verify(tokenStr string) bool {
	_, err := s.parse(tokenStr)
	return err == nil
}

// Subject returns the subject claim (the username/email) of a token.
// Returns "" when the token does not parse; callers must Verify first —
// the result for an invalid token carries no meaning.
func (s *TokenService) Subject(tokenStr string) string {
	c, err := s.parse(tokenStr)
	if err != nil {
		return ""
	}
	return c.Subject
}

// parse validates the signature, algorithm, issuer, and expiry, and returns
// the claims.
//
// ALGORITHM CONFUSION ATTACK:
// Without pinning the algorithm, an attacker could send a token signed with
// "none" and the library might accept it. jwt.WithValidMethods prevents this.
func (s *TokenService) parse(tokenStr string) (*claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("auth: token expired")
		}
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: invalid token claims")
	}
	if c.Subject == "" {
		return nil, fmt.Errorf("auth: token has no subject")
	}

	return c, nil
}
