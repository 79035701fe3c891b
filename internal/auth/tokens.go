package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidClaims is returned when a token is requested without a subject.
	ErrInvalidClaims = errors.New("token subject must not be empty")
	// ErrInvalidToken covers tampered, wrongly signed and wrong-kind tokens.
	// It is terminal: the caller must require a fresh authentication.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken means the signature checked out but the token is past
	// its expiry. Holders of a refresh token may rotate; nothing is retried.
	ErrExpiredToken = errors.New("token has expired")
	// ErrMalformedToken means a validly signed token carries no subject.
	ErrMalformedToken = errors.New("token missing subject claim")
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

type Claims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies the access/refresh token pair. Tokens are
// stateless HS256-signed claim sets; possession of a validly signed,
// unexpired token is the sole authorization evidence, so a token cannot be
// invalidated before its natural expiry.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	issuer     string
}

func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		issuer:     "todoapp",
	}
}

// IssuePair issues an access and a refresh token for the subject. The two are
// independently signed and expire independently.
func (tm *TokenManager) IssuePair(subject string) (accessToken, refreshToken string, err error) {
	accessToken, err = tm.issueToken(subject, tokenTypeAccess, tm.accessTTL)
	if err != nil {
		return "", "", fmt.Errorf("issue access token: %w", err)
	}
	refreshToken, err = tm.issueToken(subject, tokenTypeRefresh, tm.refreshTTL)
	if err != nil {
		return "", "", fmt.Errorf("issue refresh token: %w", err)
	}
	return accessToken, refreshToken, nil
}

// Authenticate verifies an access token and returns its subject. Callers
// getting ErrExpiredToken are expected to Rotate; any other failure rejects
// the request outright.
func (tm *TokenManager) Authenticate(accessToken string) (string, error) {
	return tm.verifyToken(accessToken, tokenTypeAccess)
}

// Rotate verifies a refresh token and re-issues a fresh pair for the same
// subject. The refresh token is replaced on every use, so a leaked one is
// only good until its holder or the legitimate client rotates next.
func (tm *TokenManager) Rotate(refreshToken string) (accessToken, newRefreshToken string, err error) {
	subject, err := tm.verifyToken(refreshToken, tokenTypeRefresh)
	if err != nil {
		return "", "", err
	}
	return tm.IssuePair(subject)
}

func (tm *TokenManager) issueToken(subject, tokenType string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", ErrInvalidClaims
	}

	now := time.Now()
	claims := Claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			// jti keeps re-issued tokens distinct even within one second
			ID:        uuid.New().String(),
			Issuer:    tm.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// verifyToken checks signature, expiry, subject and token kind, in that
// order, and returns the subject. No other claim is authoritative for
// callers.
func (tm *TokenManager) verifyToken(tokenString, expectedType string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tm.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrMalformedToken
	}
	if claims.TokenType != expectedType {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
