package token

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims structure for custom claims in JWT
type Claims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Secret Key for JWT signing and validation
var (
	jwtSecret       = []byte("secure_secret_key")
	secretMu        sync.RWMutex
	tokenExpiration = 60 * time.Minute
)

// SetSecret replace the signing key, empty keeps the default
func SetSecret(secret string) {
	if secret == "" {
		return
	}
	secretMu.Lock()
	defer secretMu.Unlock()
	jwtSecret = []byte(secret)
}

func secret() []byte {
	secretMu.RLock()
	defer secretMu.RUnlock()
	return jwtSecret
}

// GenerateJWT generates a JWT token
func GenerateJWT(userID uint, role, issuer string) (string, error) {
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenExpiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret())
}

// ParseJWT parses a JWT and extracts the Claims
func ParseJWT(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret(), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.UserID == 0 {
		return nil, errors.New("token has no user")
	}

	return claims, nil
}
