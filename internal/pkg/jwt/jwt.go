package jwt

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

const issuer = "gadgethub-api"

// Token purposes
const (
	PurposeAccess  = "access"
	PurposeRefresh = "refresh"
	PurposeVerify  = "verify"
)

// Claims represents the access token claims
type Claims struct {
	UserID  uint   `json:"user_id"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Branch  string `json:"branch"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// RefreshClaims represents the refresh token claims
type RefreshClaims struct {
	UserID  uint   `json:"user_id"`
	TokenID string `json:"token_id"` // unique per issued refresh token
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// VerifyClaims represents the e-mail verification token claims
type VerifyClaims struct {
	UserID  uint   `json:"user_id"`
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

func registered(subject string, ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    issuer,
		Subject:   subject,
	}
}

// GenerateAccessToken generates a new access token
func GenerateAccessToken(userID uint, email, role, branch, secret string, expiryMinutes int) (string, error) {
	claims := Claims{
		UserID:           userID,
		Email:            email,
		Role:             role,
		Branch:           branch,
		Purpose:          PurposeAccess,
		RegisteredClaims: registered(strconv.FormatUint(uint64(userID), 10), time.Duration(expiryMinutes)*time.Minute),
	}
	return sign(claims, secret)
}

// GenerateRefreshToken generates a new refresh token
func GenerateRefreshToken(userID uint, tokenID, secret string, expiryDays int) (string, error) {
	claims := RefreshClaims{
		UserID:           userID,
		TokenID:          tokenID,
		Purpose:          PurposeRefresh,
		RegisteredClaims: registered(strconv.FormatUint(uint64(userID), 10), time.Duration(expiryDays)*24*time.Hour),
	}
	return sign(claims, secret)
}

// GenerateVerifyToken generates an e-mail verification token
func GenerateVerifyToken(userID uint, email, secret string, expiryHours int) (string, error) {
	claims := VerifyClaims{
		UserID:           userID,
		Email:            email,
		Purpose:          PurposeVerify,
		RegisteredClaims: registered(email, time.Duration(expiryHours)*time.Hour),
	}
	return sign(claims, secret)
}

// ValidateAccessToken validates an access token and returns claims
func ValidateAccessToken(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}
	if err := parse(tokenString, secret, claims); err != nil {
		return nil, err
	}
	if claims.Purpose != PurposeAccess {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// ValidateRefreshToken validates a refresh token and returns claims
func ValidateRefreshToken(tokenString, secret string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := parse(tokenString, secret, claims); err != nil {
		return nil, err
	}
	if claims.Purpose != PurposeRefresh {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// ValidateVerifyToken validates an e-mail verification token and returns claims
func ValidateVerifyToken(tokenString, secret string) (*VerifyClaims, error) {
	claims := &VerifyClaims{}
	if err := parse(tokenString, secret, claims); err != nil {
		return nil, err
	}
	if claims.Purpose != PurposeVerify {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// GetExpiryTime returns expiry time for refresh token
func GetExpiryTime(days int) time.Time {
	return time.Now().Add(time.Duration(days) * 24 * time.Hour)
}

func sign(claims jwt.Claims, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func parse(tokenString, secret string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrTokenInvalid
	}
	if !token.Valid {
		return ErrTokenInvalid
	}
	return nil
}
