package utils

import (
	"clinic-appointment-service/internal/app/models"
	"clinic-appointment-service/internal/pkg/constvars"
	"clinic-appointment-service/internal/pkg/exceptions"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type AccessTokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func GenerateAccessToken(userID, role, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := AccessTokenClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", exceptions.ErrTokenInvalidOrExpired(err)
	}
	return tokenString, nil
}

// ParseAccessToken verifies an HMAC signed token and returns the actor it names.
func ParseAccessToken(tokenString, secret string) (models.Actor, error) {
	claims := &AccessTokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New(constvars.ErrDevAuthSigningMethod)
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return models.Actor{}, exceptions.ErrTokenInvalidOrExpired(err)
	}

	if claims.Subject == "" || claims.Role == "" {
		return models.Actor{}, exceptions.ErrTokenClaimsMissing(nil)
	}

	return models.Actor{UserID: claims.Subject, Role: claims.Role}, nil
}
