package auth

import (
	"errors"
	"time"

	"github.com/AldairAG/PayGlobal/config"

	"github.com/golang-jwt/jwt/v5"
)

// RoleOperator may trigger batches and resolve withdrawals.
const RoleOperator = "OPERATOR"

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateOperatorToken signs a token for the named operator.
func GenerateOperatorToken(cfg *config.AuthConfig, operator string) (string, error) {
	if cfg.OperatorSecret == "" {
		return "", errors.New("operator secret is not configured")
	}
	now := time.Now()
	claims := Claims{
		Role: RoleOperator,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   operator,
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    cfg.Issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.OperatorSecret))
}

var ErrInvalidToken = errors.New("invalid token")

func ParseOperatorToken(cfg *config.AuthConfig, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.OperatorSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(cfg.Issuer))
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Role != RoleOperator {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
